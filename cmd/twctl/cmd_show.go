package main

import (
	"github.com/spf13/cobra"
)

// newShowCmd creates the "twctl show" subcommand.
func newShowCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show one issue in full",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			issue, err := a.client.Show(cmd.Context(), a.workspace, args[0])
			if err != nil {
				return err
			}
			if a.jsonOut {
				return writeJSON(cmd.OutOrStdout(), issue)
			}
			formatIssue(cmd.OutOrStdout(), issue)
			return nil
		},
	}
}
