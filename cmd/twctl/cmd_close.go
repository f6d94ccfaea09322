package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

// newCloseCmd creates the "twctl close" subcommand.
func newCloseCmd(a *app) *cobra.Command {
	var reason string

	cmd := &cobra.Command{
		Use:   "close <id>",
		Short: "Close an issue",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			issue, err := a.client.Close(cmd.Context(), a.workspace, args[0], reason)
			if err != nil {
				return err
			}
			if a.jsonOut {
				return writeJSON(cmd.OutOrStdout(), issue)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "closed %s\n", issue.ID)
			return nil
		},
	}

	cmd.Flags().StringVarP(&reason, "reason", "r", "", "why the issue is closed")
	return cmd
}
