package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"
)

// newHealthCmd creates the "twctl health" subcommand.
func newHealthCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Show the daemon's health report",
		RunE: func(cmd *cobra.Command, args []string) error {
			report, err := a.client.Health(cmd.Context(), a.workspace)
			if err != nil {
				return err
			}
			if a.jsonOut {
				return writeJSON(cmd.OutOrStdout(), report)
			}

			keys := make([]string, 0, len(report))
			for k := range report {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			for _, k := range keys {
				fmt.Fprintf(cmd.OutOrStdout(), "%s: %v\n", k, report[k])
			}
			return nil
		},
	}
}
