package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

// newBlockedCmd creates the "twctl blocked" subcommand.
func newBlockedCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "blocked",
		Short: "List issues that cannot proceed, with their blockers",
		RunE: func(cmd *cobra.Command, args []string) error {
			blocked, err := a.client.Blocked(cmd.Context(), a.workspace)
			if err != nil {
				return err
			}
			if a.jsonOut {
				return writeJSON(cmd.OutOrStdout(), blocked)
			}

			if len(blocked) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "Nothing is blocked.")
				return nil
			}
			for i := range blocked {
				formatIssueLine(cmd.OutOrStdout(), &blocked[i].Issue)
				if len(blocked[i].BlockedBy) > 0 {
					fmt.Fprintf(cmd.OutOrStdout(), "  blocked by: %s\n", strings.Join(blocked[i].BlockedBy, ", "))
				}
			}
			return nil
		},
	}
}
