package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

// newPingCmd creates the "twctl ping" subcommand.
func newPingCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "ping",
		Short: "Check that the workspace daemon answers",
		RunE: func(cmd *cobra.Command, args []string) error {
			pong, err := a.client.Ping(cmd.Context(), a.workspace)
			if err != nil {
				return err
			}
			if a.jsonOut {
				return writeJSON(cmd.OutOrStdout(), pong)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s (daemon %s)\n", pong.Message, pong.Version)
			return nil
		},
	}
}
