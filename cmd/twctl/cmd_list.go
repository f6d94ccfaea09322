package main

import (
	"github.com/spf13/cobra"

	"github.com/codefionn/taskwire/internal/tracker"
)

// newListCmd creates the "twctl list" subcommand.
func newListCmd(a *app) *cobra.Command {
	var (
		status    string
		issueType string
		priority  int
		assignee  string
		labels    []string
		limit     int
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List issues matching filters",
		RunE: func(cmd *cobra.Command, args []string) error {
			filters := tracker.ListFilters{
				Status:    tracker.Status(status),
				IssueType: tracker.IssueType(issueType),
				Assignee:  assignee,
				Labels:    labels,
				Limit:     limit,
			}
			if cmd.Flags().Changed("priority") {
				filters.Priority = &priority
			}

			issues, err := a.client.List(cmd.Context(), a.workspace, filters)
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
	flags.StringVarP(&status, "status", "s", "", "filter by status")
	flags.StringVarP(&issueType, "type", "t", "", "filter by issue type")
	flags.IntVarP(&priority, "priority", "p", 0, "filter by priority")
	flags.StringVar(&assignee, "assignee", "", "filter by assignee")
	flags.StringSliceVarP(&labels, "label", "l", nil, "filter by label (repeatable)")
	flags.IntVar(&limit, "limit", 0, "maximum number of issues")
	return cmd
}
