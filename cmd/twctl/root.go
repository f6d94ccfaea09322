package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/codefionn/taskwire/internal/config"
	"github.com/codefionn/taskwire/internal/logger"
	"github.com/codefionn/taskwire/internal/tracker"
	"github.com/codefionn/taskwire/internal/workspace"
)

// app carries the global flags and the lazily constructed client shared by
// every subcommand.
type app struct {
	configPath string
	workspace  string
	actor      string
	timeout    int
	jsonOut    bool

	cfg    *config.Config
	client *tracker.Client
}

// setup loads configuration, applies flag overrides, and builds the client.
// Called from the root PersistentPreRunE so subcommands can assume a ready
// client.
func (a *app) setup() error {
	if a.client != nil {
		return nil
	}

	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	if a.actor != "" {
		cfg.Actor = a.actor
	}
	if a.timeout > 0 {
		cfg.TimeoutSeconds = a.timeout
	}

	if err := logger.Init(logger.ParseLevel(cfg.LogLevel), cfg.LogPath); err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}

	a.cfg = cfg
	a.client = tracker.New(cfg, workspace.NewResolver(nil))
	return nil
}

// newRootCmd creates the root twctl command with all subcommands attached.
func newRootCmd() *cobra.Command {
	a := &app{}

	cmd := &cobra.Command{
		Use:           "twctl",
		Short:         "Control a per-project taskwire daemon",
		Long:          "twctl talks to the taskwire issue-tracker daemon (twd) of the current\nproject over its Unix socket: file, query, and update issues.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup()
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&a.configPath, "config", "", "config file (default ~/.config/taskwire/config.toml)")
	flags.StringVarP(&a.workspace, "workspace", "w", "", "workspace directory (default: inferred from cwd)")
	flags.StringVar(&a.actor, "actor", "", "identity recorded on mutations")
	flags.IntVar(&a.timeout, "timeout", 0, "per-request timeout in seconds")
	flags.BoolVar(&a.jsonOut, "json", false, "print raw JSON instead of text")

	cmd.AddCommand(
		newPingCmd(a),
		newHealthCmd(a),
		newInitCmd(a),
		newCreateCmd(a),
		newShowCmd(a),
		newListCmd(a),
		newUpdateCmd(a),
		newCloseCmd(a),
		newReopenCmd(a),
		newReadyCmd(a),
		newBlockedCmd(a),
		newStatsCmd(a),
		newDepCmd(a),
		newUpCmd(a),
	)

	return cmd
}
