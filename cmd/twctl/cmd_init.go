package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

// newInitCmd creates the "twctl init" subcommand.
func newInitCmd(a *app) *cobra.Command {
	var prefix string

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize issue tracking in the workspace",
		RunE: func(cmd *cobra.Command, args []string) error {
			msg, err := a.client.Init(cmd.Context(), a.workspace, prefix)
			if err != nil {
				return err
			}
			if msg == "" {
				ws, err := a.client.Workspace(cmd.Context(), a.workspace)
				if err != nil {
					return err
				}
				msg = fmt.Sprintf("initialized issue tracking in %s", ws)
			}
			fmt.Fprintln(cmd.OutOrStdout(), msg)
			return nil
		},
	}

	cmd.Flags().StringVar(&prefix, "prefix", "", "issue id prefix (e.g. \"tw\" yields tw-1, tw-2, …)")
	return cmd
}
