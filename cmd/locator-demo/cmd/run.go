package cmd

import (
	"context"
	"fmt"

	"github.com/GoCodeAlone/locator"
	"github.com/spf13/cobra"
)

type runOptions struct {
	ticks     uint64
	destroyAt uint64
	respawnAt uint64
}

// NewRunCommand creates the run command
func NewRunCommand(root *rootOptions) *cobra.Command {
	opts := &runOptions{}

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run update ticks against the demo scene",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := root.loadConfig()
			if err != nil {
				return err
			}
			logger, err := root.newLogger()
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			w, err := newWorld(cfg, logger, cmd.OutOrStdout())
			if err != nil {
				return err
			}

			var events int
			_ = w.container.RegisterObserver(locator.NewFunctionalObserver("demo-counter",
				func(context.Context, locator.CloudEvent) error {
					events++
					return nil
				}))

			for tick := uint64(1); tick <= opts.ticks; tick++ {
				w.step(tick, opts.destroyAt, opts.respawnAt)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "done: %d entries, %d events\n", w.container.Len(), events)
			return nil
		},
	}

	cmd.Flags().Uint64Var(&opts.ticks, "ticks", 10, "number of update ticks")
	cmd.Flags().Uint64Var(&opts.destroyAt, "destroy-at", 4, "tick on which the speaker is destroyed")
	cmd.Flags().Uint64Var(&opts.respawnAt, "respawn-at", 7, "tick on which a new speaker spawns")
	return cmd
}
