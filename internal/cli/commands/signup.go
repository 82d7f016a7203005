package commands

import (
	"fmt"
	"io"
	"os"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/fittrack-dev/fittrack/internal/cli/config"
)

// signupStore is the slice of the session store the signup command needs
type signupStore interface {
	Signup(name, email, password string) error
}

// signupDeps holds injectable dependencies for runSignup
type signupDeps struct {
	server *config.Server
	store  signupStore
	out    io.Writer
}

// SignupOption configures runSignup (used by tests to inject mocks)
type SignupOption func(*signupDeps)

func WithSignupServer(server *config.Server) SignupOption {
	return func(d *signupDeps) { d.server = server }
}

func WithSignupStore(store signupStore) SignupOption {
	return func(d *signupDeps) { d.store = store }
}

func WithSignupOutput(w io.Writer) SignupOption {
	return func(d *signupDeps) { d.out = w }
}

// NewSignupCmd creates the signup command
func NewSignupCmd() *cobra.Command {
	var name, email, password, serverAlias string

	cmd := &cobra.Command{
		Use:   "signup",
		Short: "Create a new FitTrack account",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSignup(name, email, password, serverAlias)
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Full name")
	cmd.Flags().StringVar(&email, "email", "", "Email address")
	cmd.Flags().StringVar(&password, "password", "", "Password (will prompt if not provided)")
	cmd.Flags().StringVar(&serverAlias, "server", "", "Server alias (uses selected server if not specified)")

	return cmd
}

func runSignup(name, email, password, serverAlias string, opts ...SignupOption) error {
	deps := signupDeps{out: os.Stdout}
	for _, opt := range opts {
		opt(&deps)
	}

	if name == "" {
		return fmt.Errorf("name is required (use --name flag)")
	}
	if email == "" {
		return fmt.Errorf("email is required (use --email flag)")
	}

	if deps.server == nil {
		server, err := getSelectedServer(serverAlias)
		if err != nil {
			return err
		}
		deps.server = server
	}

	if password == "" {
		if term.IsTerminal(int(syscall.Stdin)) {
			fmt.Fprint(deps.out, "Password: ")
			bytePassword, err := term.ReadPassword(int(syscall.Stdin))
			if err != nil {
				return fmt.Errorf("failed to read password: %w", err)
			}
			password = string(bytePassword)
			fmt.Fprintln(deps.out)
		} else {
			return fmt.Errorf("password is required in non-interactive mode (use --password flag)")
		}
	}

	if deps.store == nil {
		_, store := newAPISession(deps.server)
		deps.store = store
	}

	fmt.Fprintf(deps.out, "Creating account on %s (%s)...\n", deps.server.Alias, deps.server.Host)

	if err := deps.store.Signup(name, email, password); err != nil {
		return fmt.Errorf("signup failed: %w", friendlyError(err, deps.server.Host))
	}

	// Signup never logs the user in; they authenticate explicitly afterwards
	fmt.Fprintln(deps.out, "✓ Account created!")
	fmt.Fprintln(deps.out, "  Log in with: fittrack login --email "+email)

	return nil
}
