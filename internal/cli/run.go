package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"cfptracker/internal/usecase"
)

// NewRunCommand creates the single-run command.
func NewRunCommand(rootOpts *RootOptions) *cobra.Command {
	var runOpts usecase.RunOptions

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Scan the tracked pages once and reconcile against the snapshot",
		RunE: func(cmd *cobra.Command, args []string) error {
			application, _ := buildApp(rootOpts)

			res, err := application.RunOnce(cmd.Context(), runOpts)
			if err != nil {
				if errors.Is(err, usecase.ErrEmptyObservation) {
					return fmt.Errorf("%w\nre-run with --allow-empty to confirm the deletion", err)
				}
				return err
			}

			fmt.Fprint(cmd.OutOrStdout(), res.Digest(application.Config().Store.DateLayout))
			return nil
		},
	}

	cmd.Flags().BoolVar(&runOpts.DryRun, "dry-run", false, "classify and report without writing the snapshot")
	cmd.Flags().BoolVar(&runOpts.AllowEmpty, "allow-empty", false, "persist even when the source returned zero postings")

	return cmd
}
