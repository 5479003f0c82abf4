package cli

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"cfptracker/internal/usecase"
)

// NewWatchCommand creates the periodic-run command.
func NewWatchCommand(rootOpts *RootOptions) *cobra.Command {
	var runOpts usecase.RunOptions

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Re-scan on the configured interval until interrupted",
		RunE: func(cmd *cobra.Command, args []string) error {
			application, logger := buildApp(rootOpts)
			dateLayout := application.Config().Store.DateLayout

			ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()

			onResult := func(res usecase.RunResult, err error) {
				if err != nil {
					logger.Error("run failed", "error", err)
					return
				}
				fmt.Fprint(cmd.OutOrStdout(), res.Digest(dateLayout))
			}

			logger.Info("watching", "interval", application.Config().Scheduler.IntervalDuration().String())
			return application.Watch(ctx, runOpts, onResult)
		},
	}

	cmd.Flags().BoolVar(&runOpts.AllowEmpty, "allow-empty", false, "persist even when the source returned zero postings")

	return cmd
}
