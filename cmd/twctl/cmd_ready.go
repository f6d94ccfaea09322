package main

import (
	"github.com/spf13/cobra"

	"github.com/codefionn/taskwire/internal/tracker"
)

// newReadyCmd creates the "twctl ready" subcommand.
func newReadyCmd(a *app) *cobra.Command {
	var (
		assignee string
		priority int
		limit    int
	)

	cmd := &cobra.Command{
		Use:   "ready",
		Short: "List issues ready to work on (open, no open blockers)",
		RunE: func(cmd *cobra.Command, args []string) error {
			filters := tracker.ReadyFilters{Assignee: assignee, Limit: limit}
			if cmd.Flags().Changed("priority") {
				filters.Priority = &priority
			}

			issues, err := a.client.Ready(cmd.Context(), a.workspace, filters)
			if err != nil {
				return err
			}
			if a.jsonOut {
				return writeJSON(cmd.OutOrStdout(), issues)
			}
			formatIssueList(cmd.OutOrStdout(), issues)
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&assignee, "assignee", "", "filter by assignee")
	flags.IntVarP(&priority, "priority", "p", 0, "filter by priority")
	flags.IntVar(&limit, "limit", 0, "maximum number of issues")
	return cmd
}
