package cmd

import (
	"fmt"

	"github.com/GoCodeAlone/locator"
	"github.com/GoCodeAlone/locator/config"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// Version information
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// rootOptions are the persistent flags shared by every subcommand.
type rootOptions struct {
	configPath string
	verbose    bool
}

// NewRootCommand creates the root command for the locator-demo application
func NewRootCommand() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "locator-demo",
		Short: "Exercise a locator container against an in-memory scene",
		Long: `locator-demo wires a service container to a simulated scene,
runs update ticks while objects are destroyed and respawned, and can serve
the container inspector over HTTP.`,
		Version:      fmt.Sprintf("%s (commit: %s, built on: %s)", Version, Commit, Date),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "YAML or TOML config file")
	cmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "log container activity")

	cmd.AddCommand(NewRunCommand(opts))
	cmd.AddCommand(NewServeCommand(opts))
	cmd.AddCommand(NewConfigCommand())

	return cmd
}

// newLogger returns a zap-backed logger when verbose is set.
func (o *rootOptions) newLogger() (*locator.ZapLogger, error) {
	if !o.verbose {
		return locator.NewZapLogger(zap.NewNop()), nil
	}
	l, err := zap.NewDevelopment()
	if err != nil {
		return nil, fmt.Errorf("failed to build logger: %w", err)
	}
	return locator.NewZapLogger(l), nil
}

// loadConfig reads the config file, when given, plus LOCATOR_ overrides.
func (o *rootOptions) loadConfig() (*locator.Config, error) {
	return config.LoadFile(o.configPath)
}
