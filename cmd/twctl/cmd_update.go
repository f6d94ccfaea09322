package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/codefionn/taskwire/internal/tracker"
)

// newUpdateCmd creates the "twctl update" subcommand.
func newUpdateCmd(a *app) *cobra.Command {
	var (
		title       string
		description string
		design      string
		acceptance  string
		notes       string
		externalRef string
		status      string
		priority    int
		issueType   string
		assignee    string
		labels      []string
	)

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Change fields of an issue",
		Long:  "Changes the given fields and leaves the rest untouched.\nSetting --status closed is equivalent to \"twctl close\".",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var fields tracker.UpdateFields
			flags := cmd.Flags()
			if flags.Changed("title") {
				fields.Title = &title
			}
			if flags.Changed("description") {
				fields.Description = &description
			}
			if flags.Changed("design") {
				fields.Design = &design
			}
			if flags.Changed("acceptance") {
				fields.AcceptanceCriteria = &acceptance
			}
			if flags.Changed("notes") {
				fields.Notes = &notes
			}
			if flags.Changed("external-ref") {
				fields.ExternalRef = &externalRef
			}
			if flags.Changed("status") {
				s := tracker.Status(status)
				fields.Status = &s
			}
			if flags.Changed("priority") {
				fields.Priority = &priority
			}
			if flags.Changed("type") {
				t := tracker.IssueType(issueType)
				fields.IssueType = &t
			}
			if flags.Changed("assignee") {
				fields.Assignee = &assignee
			}
			if flags.Changed("label") {
				fields.Labels = &labels
			}

			issue, err := a.client.Update(cmd.Context(), a.workspace, args[0], fields)
			if err != nil {
				return err
			}
			if a.jsonOut {
				return writeJSON(cmd.OutOrStdout(), issue)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "updated %s\n", issue.ID)
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&title, "title", "", "new title")
	flags.StringVarP(&description, "description", "d", "", "new description")
	flags.StringVar(&design, "design", "", "new design notes")
	flags.StringVar(&acceptance, "acceptance", "", "new acceptance criteria")
	flags.StringVar(&notes, "notes", "", "new notes")
	flags.StringVar(&externalRef, "external-ref", "", "new external reference")
	flags.StringVarP(&status, "status", "s", "", "new status")
	flags.IntVarP(&priority, "priority", "p", 0, "new priority 0-4")
	flags.StringVarP(&issueType, "type", "t", "", "new issue type")
	flags.StringVar(&assignee, "assignee", "", "new assignee")
	flags.StringSliceVarP(&labels, "label", "l", nil, "replacement labels (repeatable)")
	return cmd
}
