package commands

import (
	"errors"
	"fmt"

	"github.com/fittrack-dev/fittrack/internal/cli/client"
	"github.com/fittrack-dev/fittrack/internal/cli/config"
	"github.com/fittrack-dev/fittrack/internal/cli/serverselect"
	"github.com/fittrack-dev/fittrack/internal/cli/session"
)

// getSelectedServer loads the config and returns the selected server.
// This is common logic used by most commands.
func getSelectedServer(serverAlias string) (*config.Server, error) {
	// Load config
	cfg, err := config.LoadFromCurrentDir()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w\nRun 'fittrack init' to create a configuration file", err)
	}

	// Resolve which server to use
	server, err := serverselect.ResolveServer(cfg, serverAlias)
	if err != nil {
		return nil, err
	}

	if server.Host == "" {
		return nil, fmt.Errorf("server host is empty. Please edit %s and add a valid host", config.ConfigFileName)
	}

	return server, nil
}

// newAPISession builds the API client and session store for a server and
// wires them together: the client reads the token from the store on every
// request, and an unauthorized response clears the store before the caller
// sees the error.
func newAPISession(server *config.Server) (*client.Client, *session.Store) {
	api := client.New(server.Host)
	store := session.NewStore(api, session.NewKeyringBackend(server.Host))
	api.BindSessions(store, store.Invalidate)
	return api, store
}

// friendlyError rewrites normalized API errors into messages a user can act
// on. Every kind is retryable; nothing here aborts the process.
func friendlyError(err error, host string) error {
	var apiErr *client.Error
	if !errors.As(err, &apiErr) {
		return err
	}

	switch apiErr.Kind {
	case client.KindInvalidCredentials:
		return fmt.Errorf("Invalid email or password")
	case client.KindValidation:
		if apiErr.Message != "" {
			return fmt.Errorf("%s", apiErr.Message)
		}
		return fmt.Errorf("the server rejected the request")
	case client.KindUnauthorized:
		if apiErr.Status == 0 && apiErr.Message != "" {
			// Raised locally before any request went out
			return fmt.Errorf("%s", apiErr.Message)
		}
		return fmt.Errorf("session expired or invalid. Please run 'fittrack login' again")
	case client.KindForbidden:
		return fmt.Errorf("admin access required")
	case client.KindNotFound:
		return fmt.Errorf("not found")
	case client.KindNetwork:
		return fmt.Errorf("could not reach %s: %w", host, err)
	default:
		if apiErr.Message != "" {
			return fmt.Errorf("server error: %s", apiErr.Message)
		}
		return fmt.Errorf("server error: %w", err)
	}
}
