package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/codefionn/taskwire/internal/endpoint"
)

// newUpCmd creates the "twctl up" subcommand: start a daemon for the
// workspace if none answers, and wait for its socket.
func newUpCmd(a *app) *cobra.Command {
	var (
		global bool
		wait   time.Duration
	)

	cmd := &cobra.Command{
		Use:   "up",
		Short: "Start the workspace daemon and wait for its socket",
		RunE: func(cmd *cobra.Command, args []string) error {
			if a.cfg.DisableSocket {
				return errors.New("socket transport is disabled (TASKWIRE_NO_SOCKET); not starting a daemon")
			}

			ws, err := a.client.Workspace(cmd.Context(), a.workspace)
			if err != nil {
				return err
			}

			if ep, err := endpoint.Locate(ws); err == nil && endpoint.Detect(ep.SocketPath) {
				fmt.Fprintf(cmd.OutOrStdout(), "daemon already listening on %s\n", ep.SocketPath)
				return nil
			}

			if err := endpoint.StartDaemon(a.cfg.DaemonBin, ws, global); err != nil {
				return err
			}

			sock, err := endpoint.Await(cmd.Context(), ws, wait)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "daemon listening on %s\n", sock)
			return nil
		},
	}

	cmd.Flags().BoolVar(&global, "global", false, "start a global daemon under ~")
	cmd.Flags().DurationVar(&wait, "wait", endpoint.DefaultAwaitTimeout, "how long to wait for the socket")
	return cmd
}
