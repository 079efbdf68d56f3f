package cli

import (
	"github.com/spf13/cobra"

	"github.com/tsqlmod/tsqlmod/internal/catalog"
	"github.com/tsqlmod/tsqlmod/internal/journal"
)

// CleanupOptions holds flags for the cleanup command.
type CleanupOptions struct {
	*RootOptions
	Unit    string
	Confirm bool
}

// NewCleanupCommand creates the cleanup command: journal purge behind an
// explicit confirmation gate.
func NewCleanupCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CleanupOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "cleanup",
		Short: "Purge journal history",
		Long: `Delete journal records, destroying the rollback history they hold.
Without --confirm the command reports what a purge would remove and refuses.

Examples:
  tsqlmod cleanup
  tsqlmod cleanup --unit dbo.usp_SaveOrder --confirm`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCleanup(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.Unit, "unit", "", "purge a single unit (schema.name) instead of the whole journal")
	cmd.Flags().BoolVar(&opts.Confirm, "confirm", false, "actually delete; required")

	return cmd
}

func runCleanup(cmd *cobra.Command, opts *CleanupOptions) error {
	var unit *catalog.Identity
	if opts.Unit != "" {
		id, err := catalog.ParseIdentity(opts.Unit)
		if err != nil {
			return WrapExitError(ExitCommandError, "invalid unit", err)
		}
		unit = &id
	}

	tb, err := setupJournal(opts.RootOptions)
	if err != nil {
		return err
	}
	defer tb.Close()

	f := newFormatter(opts.RootOptions, cmd)

	if !opts.Confirm {
		var n int64
		if unit == nil {
			n, err = tb.journal.Count(cmd.Context())
		} else {
			var hist []journal.Record
			hist, err = tb.journal.History(cmd.Context(), *unit)
			n = int64(len(hist))
		}
		if err != nil {
			return WrapExitError(ExitCommandError, "journal query failed", err)
		}
		_ = f.Successf("cleanup would delete %d record(s); re-run with --confirm to proceed", n)
		return NewExitError(ExitCommandError, "refusing to purge without --confirm")
	}

	n, err := tb.journal.Purge(cmd.Context(), unit)
	if err != nil {
		return WrapExitError(ExitCommandError, "purge failed", err)
	}
	return f.Successf("deleted %d journal record(s)", n)
}
