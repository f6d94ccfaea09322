package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/codefionn/taskwire/internal/tracker"
)

// newCreateCmd creates the "twctl create" subcommand.
func newCreateCmd(a *app) *cobra.Command {
	var (
		description string
		design      string
		acceptance  string
		notes       string
		externalRef string
		priority    int
		issueType   string
		assignee    string
		labels      []string
	)

	cmd := &cobra.Command{
		Use:   "create <title>",
		Short: "File a new issue",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fields := tracker.CreateFields{
				Title:              strings.Join(args, " "),
				Description:        description,
				Design:             design,
				AcceptanceCriteria: acceptance,
				Notes:              notes,
				ExternalRef:        externalRef,
				IssueType:          tracker.IssueType(issueType),
				Assignee:           assignee,
				Labels:             labels,
			}
			if cmd.Flags().Changed("priority") {
				fields.Priority = &priority
			}

			issue, err := a.client.Create(cmd.Context(), a.workspace, fields)
			if err != nil {
				return err
			}
			if a.jsonOut {
				return writeJSON(cmd.OutOrStdout(), issue)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created %s\n", issue.ID)
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&description, "description", "d", "", "issue description")
	flags.StringVar(&design, "design", "", "design notes")
	flags.StringVar(&acceptance, "acceptance", "", "acceptance criteria")
	flags.StringVar(&notes, "notes", "", "freeform notes")
	flags.StringVar(&externalRef, "external-ref", "", "reference in an external tracker")
	flags.IntVarP(&priority, "priority", "p", 2, "priority 0 (urgent) to 4 (someday)")
	flags.StringVarP(&issueType, "type", "t", "", "bug, feature, task, epic, or chore")
	flags.StringVar(&assignee, "assignee", "", "assignee")
	flags.StringSliceVarP(&labels, "label", "l", nil, "label (repeatable)")
	return cmd
}
