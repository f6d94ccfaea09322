package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/codefionn/taskwire/internal/tracker"
)

// writeJSON prints v indented, for --json consumers.
func writeJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

func formatIssue(w io.Writer, issue *tracker.Issue) {
	fmt.Fprintf(w, "%s  %s\n", issue.ID, issue.Title)
	fmt.Fprintf(w, "  status: %s  priority: P%d  type: %s\n", issue.Status, issue.Priority, issue.IssueType)
	if issue.Assignee != "" {
		fmt.Fprintf(w, "  assignee: %s\n", issue.Assignee)
	}
	if len(issue.Labels) > 0 {
		fmt.Fprintf(w, "  labels: %s\n", strings.Join(issue.Labels, ", "))
	}
	if issue.Description != "" {
		fmt.Fprintf(w, "  description: %s\n", issue.Description)
	}
	if issue.Design != "" {
		fmt.Fprintf(w, "  design: %s\n", issue.Design)
	}
	if issue.AcceptanceCriteria != "" {
		fmt.Fprintf(w, "  acceptance: %s\n", issue.AcceptanceCriteria)
	}
	if issue.Notes != "" {
		fmt.Fprintf(w, "  notes: %s\n", issue.Notes)
	}
	if issue.ExternalRef != "" {
		fmt.Fprintf(w, "  external: %s\n", issue.ExternalRef)
	}
	if len(issue.Dependencies) > 0 {
		fmt.Fprintf(w, "  depends on: %s\n", strings.Join(issue.Dependencies, ", "))
	}
	if len(issue.Dependents) > 0 {
		fmt.Fprintf(w, "  blocks: %s\n", strings.Join(issue.Dependents, ", "))
	}
	if !issue.CreatedAt.IsZero() {
		fmt.Fprintf(w, "  created: %s\n", issue.CreatedAt.Format(time.RFC3339))
	}
	if issue.ClosedAt != nil {
		fmt.Fprintf(w, "  closed: %s\n", issue.ClosedAt.Format(time.RFC3339))
	}
}

func formatIssueLine(w io.Writer, issue *tracker.Issue) {
	fmt.Fprintf(w, "%-10s P%d %-12s %s\n", issue.ID, issue.Priority, issue.Status, issue.Title)
}

func formatIssueList(w io.Writer, issues []tracker.Issue) {
	if len(issues) == 0 {
		fmt.Fprintln(w, "No issues.")
		return
	}
	for i := range issues {
		formatIssueLine(w, &issues[i])
	}
}
