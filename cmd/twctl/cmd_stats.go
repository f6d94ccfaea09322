package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

// newStatsCmd creates the "twctl stats" subcommand.
func newStatsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show issue counts for the workspace",
		RunE: func(cmd *cobra.Command, args []string) error {
			stats, err := a.client.Stats(cmd.Context(), a.workspace)
			if err != nil {
				return err
			}
			if a.jsonOut {
				return writeJSON(cmd.OutOrStdout(), stats)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "total:       %d\n", stats.Total)
			fmt.Fprintf(out, "open:        %d\n", stats.Open)
			fmt.Fprintf(out, "in progress: %d\n", stats.InProgress)
			fmt.Fprintf(out, "blocked:     %d\n", stats.Blocked)
			fmt.Fprintf(out, "closed:      %d\n", stats.Closed)
			if stats.Ready > 0 {
				fmt.Fprintf(out, "ready:       %d\n", stats.Ready)
			}
			return nil
		},
	}
}
