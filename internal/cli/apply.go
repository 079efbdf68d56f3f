package cli

import (
	"github.com/spf13/cobra"

	"github.com/tsqlmod/tsqlmod/internal/migrate"
)

// ApplyOptions holds flags for the apply command.
type ApplyOptions struct {
	*RootOptions
	Schema string
	Name   string
	Commit bool
	Backup bool
}

// NewApplyCommand creates the apply command.
func NewApplyCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ApplyOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "apply",
		Short: "Rewrite scoped units and commit with --commit",
		Long: `Rewrite every scoped unit whose text contains a legacy pattern.

Without --commit this is a dry run: changes are computed and, when backups
are enabled, journaled at BACKED_UP, but the definition store is never
written. With --commit each unit is backed up strictly before its rewritten
text is committed, and the journal record advances to UPDATED.

Examples:
  tsqlmod apply --dsn "sqlserver://..." --schema dbo
  tsqlmod apply --dsn "sqlserver://..." --commit
  tsqlmod apply --from-dir ./procs --commit --backup=false`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runApply(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.Schema, "schema", "", "restrict to one schema")
	cmd.Flags().StringVar(&opts.Name, "name", "", "restrict to one unit name")
	cmd.Flags().BoolVar(&opts.Commit, "commit", false, "actually write to the definition store (default is dry run)")
	cmd.Flags().BoolVar(&opts.Backup, "backup", true, "journal the original text before committing")

	return cmd
}

func runApply(cmd *cobra.Command, opts *ApplyOptions) error {
	tb, err := setup(cmd.Context(), opts.RootOptions)
	if err != nil {
		return err
	}
	defer tb.Close()

	coord := migrate.NewBatchCoordinator(tb.controller, tb.provider, tb.tokens, tb.logger)
	summary, results, err := coord.Run(cmd.Context(), tb.scope(opts.Schema, opts.Name, true), migrate.Options{
		Preview:       !opts.Commit,
		BackupEnabled: opts.Backup,
	})
	if err != nil {
		return WrapExitError(ExitCommandError, "apply failed", err)
	}

	if err := buildScanReport(summary, results).render(newFormatter(opts.RootOptions, cmd)); err != nil {
		return err
	}
	if summary.Failed > 0 {
		return NewExitError(ExitFailure, "some units failed")
	}
	return nil
}
