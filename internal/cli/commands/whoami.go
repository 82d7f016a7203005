package commands

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/fittrack-dev/fittrack/internal/cli/client"
	"github.com/fittrack-dev/fittrack/internal/cli/config"
	"github.com/fittrack-dev/fittrack/internal/cli/session"
)

// whoamiStore is the slice of the session store the whoami command needs
type whoamiStore interface {
	Current() (session.Session, bool)
}

// whoamiAPI verifies the session against the server
type whoamiAPI interface {
	CurrentUser() (*client.User, error)
}

// whoamiDeps holds injectable dependencies for runWhoami
type whoamiDeps struct {
	server *config.Server
	store  whoamiStore
	api    whoamiAPI
	out    io.Writer
}

// WhoamiOption configures runWhoami (used by tests to inject mocks)
type WhoamiOption func(*whoamiDeps)

func WithWhoamiServer(server *config.Server) WhoamiOption {
	return func(d *whoamiDeps) { d.server = server }
}

func WithWhoamiStore(store whoamiStore) WhoamiOption {
	return func(d *whoamiDeps) { d.store = store }
}

func WithWhoamiAPI(api whoamiAPI) WhoamiOption {
	return func(d *whoamiDeps) { d.api = api }
}

func WithWhoamiOutput(w io.Writer) WhoamiOption {
	return func(d *whoamiDeps) { d.out = w }
}

// NewWhoamiCmd creates the whoami command
func NewWhoamiCmd() *cobra.Command {
	var verify bool
	var serverAlias string

	cmd := &cobra.Command{
		Use:   "whoami",
		Short: "Show the currently logged in user",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWhoami(verify, serverAlias)
		},
	}

	cmd.Flags().BoolVar(&verify, "verify", false, "Confirm the session against the server")
	cmd.Flags().StringVar(&serverAlias, "server", "", "Server alias (uses selected server if not specified)")

	return cmd
}

func runWhoami(verify bool, serverAlias string, opts ...WhoamiOption) error {
	deps := whoamiDeps{out: os.Stdout}
	for _, opt := range opts {
		opt(&deps)
	}

	if deps.server == nil {
		server, err := getSelectedServer(serverAlias)
		if err != nil {
			return err
		}
		deps.server = server
	}

	if deps.store == nil || deps.api == nil {
		api, store := newAPISession(deps.server)
		if deps.store == nil {
			deps.store = store
		}
		if deps.api == nil {
			deps.api = api
		}
	}

	// Local read first; no network involved
	sess, ok := deps.store.Current()
	if !ok {
		fmt.Fprintln(deps.out, "Not logged in.")
		return nil
	}

	fmt.Fprintf(deps.out, "%s <%s>\n", sess.User.Name, sess.User.Email)
	if sess.User.Role == "admin" {
		fmt.Fprintln(deps.out, "Role: Admin")
	}

	if !verify {
		return nil
	}

	// Round-trip to the server; an invalid token clears the session before
	// the error surfaces here
	user, err := deps.api.CurrentUser()
	if err != nil {
		return friendlyError(err, deps.server.Host)
	}

	fmt.Fprintf(deps.out, "✓ Session valid (server confirms %s)\n", user.Email)

	return nil
}
