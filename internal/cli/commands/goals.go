package commands

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

// NewGoalCmd creates the goal command group
func NewGoalCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "goal",
		Short: "Manage fitness goals",
	}

	cmd.AddCommand(newGoalListCmd())
	cmd.AddCommand(newGoalAddCmd())

	return cmd
}

func newGoalListCmd() *cobra.Command {
	var serverAlias string

	cmd := &cobra.Command{
		Use:     "ls",
		Aliases: []string{"list"},
		Short:   "List your goals",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGoalList(serverAlias)
		},
	}

	cmd.Flags().StringVar(&serverAlias, "server", "", "Server alias (uses selected server if not specified)")

	return cmd
}

func runGoalList(serverAlias string) error {
	server, err := getSelectedServer(serverAlias)
	if err != nil {
		return err
	}

	api, _ := newAPISession(server)

	goals, err := api.ListGoals()
	if err != nil {
		return friendlyError(err, server.Host)
	}

	if len(goals) == 0 {
		fmt.Println("No goals yet.")
		fmt.Println("\nCreate one with: fittrack goal add --type distance --target 100")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "TYPE\tTARGET\tPROGRESS\tCREATED AT")
	fmt.Fprintln(w, "────\t──────\t────────\t──────────")

	for _, goal := range goals {
		fmt.Fprintf(w, "%s\t%g\t%g\t%s\n",
			goal.GoalType,
			goal.TargetValue,
			goal.Progress,
			goal.CreatedAt,
		)
	}

	w.Flush()

	return nil
}

func newGoalAddCmd() *cobra.Command {
	var goalType string
	var target, progress float64
	var serverAlias string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a new goal",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGoalAdd(goalType, target, progress, serverAlias)
		},
	}

	cmd.Flags().StringVar(&goalType, "type", "", "Goal type (weight_loss, weight_gain, distance, strength, endurance)")
	cmd.Flags().Float64Var(&target, "target", 0, "Target value")
	cmd.Flags().Float64Var(&progress, "progress", 0, "Current progress")
	cmd.Flags().StringVar(&serverAlias, "server", "", "Server alias (uses selected server if not specified)")

	return cmd
}

func runGoalAdd(goalType string, target, progress float64, serverAlias string) error {
	if goalType == "" {
		return fmt.Errorf("goal type is required (use --type flag)")
	}
	if target <= 0 {
		return fmt.Errorf("target must be greater than zero (use --target flag)")
	}

	server, err := getSelectedServer(serverAlias)
	if err != nil {
		return err
	}

	api, _ := newAPISession(server)

	goal, err := api.CreateGoal(goalType, target, progress)
	if err != nil {
		return friendlyError(err, server.Host)
	}

	fmt.Printf("✓ Goal created: %s (target %g)\n", goal.GoalType, goal.TargetValue)

	return nil
}
