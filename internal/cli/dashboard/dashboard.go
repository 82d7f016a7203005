// Package dashboard is the view-model behind the admin statistics view: it
// fetches the per-user aggregation from the API and turns it into terminal
// output. All aggregation happens server-side; this is pass-through plus
// empty-state handling.
package dashboard

import (
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"github.com/fittrack-dev/fittrack/internal/cli/client"
	"github.com/fittrack-dev/fittrack/internal/cli/session"
)

// StatisticsAPI is the slice of the API client the dashboard needs
type StatisticsAPI interface {
	FetchAllUserStatistics() ([]client.UserStatistics, error)
}

// SessionSource reports whether a session is currently active
type SessionSource interface {
	Current() (session.Session, bool)
}

// ViewModel fetches and prepares the admin statistics view
type ViewModel struct {
	api      StatisticsAPI
	sessions SessionSource
}

// New creates a dashboard view-model
func New(api StatisticsAPI, sessions SessionSource) *ViewModel {
	return &ViewModel{api: api, sessions: sessions}
}

// FetchAll returns every user's statistics in server order. The session is
// checked at call time; with none active the request is never issued.
func (vm *ViewModel) FetchAll() ([]client.UserStatistics, error) {
	if _, ok := vm.sessions.Current(); !ok {
		return nil, &client.Error{
			Kind:    client.KindUnauthorized,
			Message: "not logged in. Please run 'fittrack login' first",
		}
	}

	return vm.api.FetchAllUserStatistics()
}

// Render writes the statistics as one card per user, preserving the order
// received. Users without goals or workouts get an explicit empty-state line
// instead of a missing section.
func Render(w io.Writer, stats []client.UserStatistics) {
	if len(stats) == 0 {
		fmt.Fprintln(w, "No users found.")
		return
	}

	for i, entry := range stats {
		if i > 0 {
			fmt.Fprintln(w)
		}

		fmt.Fprintf(w, "%s <%s>\n", entry.User.Name, entry.User.Email)

		fmt.Fprintln(w, "  Goals:")
		if len(entry.Goals) == 0 {
			fmt.Fprintln(w, "    No goals available")
		} else {
			tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
			for _, goal := range entry.Goals {
				fmt.Fprintf(tw, "    %s\tTarget: %s\tProgress: %s\n",
					goal.GoalType,
					formatValue(goal.TargetValue),
					formatValue(goal.Progress),
				)
			}
			tw.Flush()
		}

		fmt.Fprintln(w, "  Workouts:")
		if len(entry.Workouts) == 0 {
			fmt.Fprintln(w, "    No workouts available")
		} else {
			tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
			for _, workout := range entry.Workouts {
				fmt.Fprintf(tw, "    %s\tDuration: %d min\n", workout.Activity, workout.Duration)
			}
			tw.Flush()
		}
	}
}

// formatValue trims trailing zeros so whole numbers print without a decimal
func formatValue(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
