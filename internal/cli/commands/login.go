package commands

import (
	"fmt"
	"io"
	"os"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/fittrack-dev/fittrack/internal/cli/config"
	"github.com/fittrack-dev/fittrack/internal/cli/session"
)

// loginStore is the slice of the session store the login command needs
type loginStore interface {
	Login(email, password string) error
	Current() (session.Session, bool)
}

// loginDeps holds injectable dependencies for runLogin
type loginDeps struct {
	server *config.Server
	store  loginStore
	out    io.Writer
}

// LoginOption configures runLogin (used by tests to inject mocks)
type LoginOption func(*loginDeps)

func WithLoginServer(server *config.Server) LoginOption {
	return func(d *loginDeps) { d.server = server }
}

func WithLoginStore(store loginStore) LoginOption {
	return func(d *loginDeps) { d.store = store }
}

func WithLoginOutput(w io.Writer) LoginOption {
	return func(d *loginDeps) { d.out = w }
}

// NewLoginCmd creates the login command
func NewLoginCmd() *cobra.Command {
	var email, password, serverAlias string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Authenticate with a FitTrack server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLogin(email, password, serverAlias)
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "Email address (or set FITTRACK_EMAIL)")
	cmd.Flags().StringVar(&password, "password", "", "Password (or set FITTRACK_PASSWORD, will prompt if not provided)")
	cmd.Flags().StringVar(&serverAlias, "server", "", "Server alias (uses selected server if not specified)")

	return cmd
}

func runLogin(email, password, serverAlias string, opts ...LoginOption) error {
	deps := loginDeps{out: os.Stdout}
	for _, opt := range opts {
		opt(&deps)
	}

	// Check for environment variables (useful for CI/CD)
	if email == "" {
		email = os.Getenv("FITTRACK_EMAIL")
	}
	if password == "" {
		password = os.Getenv("FITTRACK_PASSWORD")
	}

	if email == "" {
		return fmt.Errorf("email is required (use --email flag or FITTRACK_EMAIL env var)")
	}

	if deps.server == nil {
		server, err := getSelectedServer(serverAlias)
		if err != nil {
			return err
		}
		deps.server = server
	}

	// Prompt for password if not provided via flag or env var
	if password == "" {
		// Check if stdin is a terminal (not piped)
		if term.IsTerminal(int(syscall.Stdin)) {
			fmt.Fprint(deps.out, "Password: ")
			bytePassword, err := term.ReadPassword(int(syscall.Stdin))
			if err != nil {
				return fmt.Errorf("failed to read password: %w", err)
			}
			password = string(bytePassword)
			fmt.Fprintln(deps.out) // New line after password input
		} else {
			return fmt.Errorf("password is required in non-interactive mode (use --password flag or FITTRACK_PASSWORD env var)")
		}
	}

	if deps.store == nil {
		_, store := newAPISession(deps.server)
		deps.store = store
	}

	fmt.Fprintf(deps.out, "Logging in to %s (%s)...\n", deps.server.Alias, deps.server.Host)

	if err := deps.store.Login(email, password); err != nil {
		return fmt.Errorf("login failed: %w", friendlyError(err, deps.server.Host))
	}

	fmt.Fprintln(deps.out, "✓ Login successful!")
	if sess, ok := deps.store.Current(); ok {
		fmt.Fprintf(deps.out, "  User: %s (%s)\n", sess.User.Name, sess.User.Email)
		if sess.User.Role == "admin" {
			fmt.Fprintln(deps.out, "  Role: Admin")
		}
	}

	return nil
}
