package commands

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

// NewWorkoutCmd creates the workout command group
func NewWorkoutCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "workout",
		Short: "Log and review workouts",
	}

	cmd.AddCommand(newWorkoutListCmd())
	cmd.AddCommand(newWorkoutLogCmd())

	return cmd
}

func newWorkoutListCmd() *cobra.Command {
	var serverAlias string

	cmd := &cobra.Command{
		Use:     "ls",
		Aliases: []string{"list"},
		Short:   "List your workouts",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWorkoutList(serverAlias)
		},
	}

	cmd.Flags().StringVar(&serverAlias, "server", "", "Server alias (uses selected server if not specified)")

	return cmd
}

func runWorkoutList(serverAlias string) error {
	server, err := getSelectedServer(serverAlias)
	if err != nil {
		return err
	}

	api, _ := newAPISession(server)

	workouts, err := api.ListWorkouts()
	if err != nil {
		return friendlyError(err, server.Host)
	}

	if len(workouts) == 0 {
		fmt.Println("No workouts logged yet.")
		fmt.Println("\nLog one with: fittrack workout log running --duration 30")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ACTIVITY\tDURATION\tCREATED AT")
	fmt.Fprintln(w, "────────\t────────\t──────────")

	for _, workout := range workouts {
		fmt.Fprintf(w, "%s\t%d min\t%s\n",
			workout.Activity,
			workout.Duration,
			workout.CreatedAt,
		)
	}

	w.Flush()

	return nil
}

func newWorkoutLogCmd() *cobra.Command {
	var duration int
	var serverAlias string

	cmd := &cobra.Command{
		Use:   "log <activity>",
		Short: "Log a completed workout",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWorkoutLog(args[0], duration, serverAlias)
		},
	}

	cmd.Flags().IntVar(&duration, "duration", 0, "Duration in minutes")
	cmd.Flags().StringVar(&serverAlias, "server", "", "Server alias (uses selected server if not specified)")

	return cmd
}

func runWorkoutLog(activity string, duration int, serverAlias string) error {
	if duration <= 0 {
		return fmt.Errorf("duration must be greater than zero (use --duration flag)")
	}

	server, err := getSelectedServer(serverAlias)
	if err != nil {
		return err
	}

	api, _ := newAPISession(server)

	workout, err := api.LogWorkout(activity, duration)
	if err != nil {
		return friendlyError(err, server.Host)
	}

	fmt.Printf("✓ Workout logged: %s (%d min)\n", workout.Activity, workout.Duration)

	return nil
}
