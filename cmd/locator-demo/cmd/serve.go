package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/GoCodeAlone/locator/config"
	"github.com/GoCodeAlone/locator/inspect"
	"github.com/GoCodeAlone/locator/scheduler"
	"github.com/spf13/cobra"
)

// NewServeCommand creates the serve command
func NewServeCommand(root *rootOptions) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the container inspector for the demo scene",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

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

			if cfg.SweepSchedule != "" {
				sweeper, err := scheduler.NewCronSweeper(w.container)
				if err != nil {
					return err
				}
				if err := sweeper.Start(ctx); err != nil {
					return err
				}
				defer func() {
					stopCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
					defer cancel()
					_ = sweeper.Stop(stopCtx)
				}()
			}

			if root.configPath != "" {
				watcher, err := config.Watch(ctx, root.configPath, w.container)
				if err != nil {
					return err
				}
				defer func() { _ = watcher.Stop() }()
			}

			srv := &http.Server{
				Addr:              addr,
				Handler:           inspect.NewRouter(w.container),
				ReadHeaderTimeout: 5 * time.Second,
			}
			go func() {
				<-ctx.Done()
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				_ = srv.Shutdown(shutdownCtx)
			}()

			fmt.Fprintf(cmd.OutOrStdout(), "inspector listening on %s\n", addr)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("inspector server: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "127.0.0.1:8089", "listen address")
	return cmd
}
