package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

// newReopenCmd creates the "twctl reopen" subcommand.
func newReopenCmd(a *app) *cobra.Command {
	var reason string

	cmd := &cobra.Command{
		Use:   "reopen <id>...",
		Short: "Reopen closed issues",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			issues, err := a.client.Reopen(cmd.Context(), a.workspace, args, reason)
			if err != nil {
				return err
			}
			if a.jsonOut {
				return writeJSON(cmd.OutOrStdout(), issues)
			}
			ids := make([]string, 0, len(issues))
			for i := range issues {
				ids = append(ids, issues[i].ID)
			}
			if len(ids) == 0 {
				ids = args
			}
			fmt.Fprintf(cmd.OutOrStdout(), "reopened %s\n", strings.Join(ids, ", "))
			return nil
		},
	}

	cmd.Flags().StringVarP(&reason, "reason", "r", "", "why the issues are reopened")
	return cmd
}
