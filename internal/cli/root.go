// Package cli exposes the cfptracker command-line surface.
package cli

import (
	"log/slog"

	"github.com/spf13/cobra"

	"cfptracker/internal/app"
	"cfptracker/internal/config"
	"cfptracker/internal/logging"
)

// RootOptions holds global flags shared by all commands.
type RootOptions struct {
	ConfigPath string
	LogLevel   string
}

// NewRootCommand creates the root command for the cfptracker CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:           "cfptracker",
		Short:         "Track call-for-papers postings and reconcile them against a local snapshot",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&opts.ConfigPath, "config", "", "path to YAML configuration (defaults to $CFPTRACKER_CONFIG)")
	cmd.PersistentFlags().StringVar(&opts.LogLevel, "log-level", "", "diagnostic verbosity (debug|info|warn|error)")

	cmd.AddCommand(NewRunCommand(opts))
	cmd.AddCommand(NewWatchCommand(opts))
	cmd.AddCommand(NewShowCommand(opts))

	return cmd
}

// buildApp resolves configuration and wires the application.
func buildApp(opts *RootOptions) (*app.Application, *slog.Logger) {
	var cfg config.Config
	if opts.ConfigPath != "" {
		cfg = config.LoadPath(opts.ConfigPath)
	} else {
		cfg = config.Load()
	}

	if opts.LogLevel != "" {
		cfg.Logging.Level = opts.LogLevel
	}

	logger := logging.New(cfg.Logging.Level)
	return app.New(cfg, logger), logger
}
