package commands

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/fittrack-dev/fittrack/internal/cli/client"
	"github.com/fittrack-dev/fittrack/internal/cli/config"
	"github.com/fittrack-dev/fittrack/internal/cli/dashboard"
)

// statsViewModel is what the stats command needs from the dashboard
type statsViewModel interface {
	FetchAll() ([]client.UserStatistics, error)
}

// statsDeps holds injectable dependencies for runStats
type statsDeps struct {
	server    *config.Server
	viewModel statsViewModel
	out       io.Writer
}

// StatsOption configures runStats (used by tests to inject mocks)
type StatsOption func(*statsDeps)

func WithStatsServer(server *config.Server) StatsOption {
	return func(d *statsDeps) { d.server = server }
}

func WithStatsViewModel(vm statsViewModel) StatsOption {
	return func(d *statsDeps) { d.viewModel = vm }
}

func WithStatsOutput(w io.Writer) StatsOption {
	return func(d *statsDeps) { d.out = w }
}

// NewStatsCmd creates the stats command
func NewStatsCmd() *cobra.Command {
	var serverAlias string

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show per-user statistics (admin only)",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStats(serverAlias)
		},
	}

	cmd.Flags().StringVar(&serverAlias, "server", "", "Server alias (uses selected server if not specified)")

	return cmd
}

func runStats(serverAlias string, opts ...StatsOption) error {
	deps := statsDeps{out: os.Stdout}
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

	if deps.viewModel == nil {
		api, store := newAPISession(deps.server)
		deps.viewModel = dashboard.New(api, store)
	}

	stats, err := deps.viewModel.FetchAll()
	if err != nil {
		return fmt.Errorf("failed to fetch statistics: %w", friendlyError(err, deps.server.Host))
	}

	fmt.Fprintf(deps.out, "User statistics on %s (%s):\n\n", deps.server.Alias, deps.server.Host)
	dashboard.Render(deps.out, stats)

	return nil
}
