package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/codefionn/taskwire/internal/tracker"
)

// newDepCmd creates the "twctl dep" subcommand group.
func newDepCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dep",
		Short: "Manage dependencies between issues",
	}

	var depType string
	add := &cobra.Command{
		Use:   "add <from> <to>",
		Short: "Record that one issue depends on another",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			err := a.client.AddDependency(cmd.Context(), a.workspace, args[0], args[1], tracker.DepType(depType))
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s now depends on %s\n", args[0], args[1])
			return nil
		},
	}
	add.Flags().StringVarP(&depType, "type", "t", "", "blocks, related, parent-child, or discovered-from")

	cmd.AddCommand(add)
	return cmd
}
