package cli

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"cfptracker/internal/domain"
	"cfptracker/internal/report"
)

// NewShowCommand creates the snapshot-inspection command.
func NewShowCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the currently persisted snapshot",
		RunE: func(cmd *cobra.Command, args []string) error {
			application, _ := buildApp(rootOpts)
			store := application.Store()

			snapshot, err := store.Load()
			if err != nil {
				return fmt.Errorf("load snapshot: %w", err)
			}
			if len(snapshot) == 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "no snapshot at %s\n", store.Path())
				return nil
			}

			keys := make([]string, 0, len(snapshot))
			for key := range snapshot {
				keys = append(keys, key)
			}
			sort.Strings(keys)

			postings := make([]domain.Posting, 0, len(keys))
			for _, key := range keys {
				postings = append(postings, snapshot[key])
			}

			fmt.Fprint(cmd.OutOrStdout(), report.Table(postings, application.Config().Store.DateLayout))
			return nil
		},
	}

	return cmd
}
