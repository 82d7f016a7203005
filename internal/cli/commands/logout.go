package commands

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/fittrack-dev/fittrack/internal/cli/config"
)

// logoutStore is the slice of the session store the logout command needs
type logoutStore interface {
	Logout() error
}

// logoutDeps holds injectable dependencies for runLogout
type logoutDeps struct {
	server *config.Server
	store  logoutStore
	out    io.Writer
}

// LogoutOption configures runLogout (used by tests to inject mocks)
type LogoutOption func(*logoutDeps)

func WithLogoutServer(server *config.Server) LogoutOption {
	return func(d *logoutDeps) { d.server = server }
}

func WithLogoutStore(store logoutStore) LogoutOption {
	return func(d *logoutDeps) { d.store = store }
}

func WithLogoutOutput(w io.Writer) LogoutOption {
	return func(d *logoutDeps) { d.out = w }
}

// NewLogoutCmd creates the logout command
func NewLogoutCmd() *cobra.Command {
	var serverAlias string

	cmd := &cobra.Command{
		Use:   "logout",
		Short: "Clear the stored session",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLogout(serverAlias)
		},
	}

	cmd.Flags().StringVar(&serverAlias, "server", "", "Server alias (uses selected server if not specified)")

	return cmd
}

func runLogout(serverAlias string, opts ...LogoutOption) error {
	deps := logoutDeps{out: os.Stdout}
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

	if deps.store == nil {
		_, store := newAPISession(deps.server)
		deps.store = store
	}

	// Safe to run with no active session
	if err := deps.store.Logout(); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}

	fmt.Fprintln(deps.out, "✓ Logged out")

	return nil
}
