package cli

import (
	"github.com/spf13/cobra"

	"github.com/tsqlmod/tsqlmod/internal/migrate"
)

// BatchOptions holds flags for the batch command.
type BatchOptions struct {
	*RootOptions
	Schema        string
	Name          string
	Commit        bool
	Backup        bool
	BatchSize     int
	ProgressEvery int
}

// NewBatchCommand creates the batch command: apply across a large scope with
// periodic progress reporting and partial-failure tolerance.
func NewBatchCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &BatchOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "batch",
		Short: "Apply across a large scope with progress reporting",
		Long: `Like apply, but meant for whole-database runs: a running total of
processed/changed/failed units is logged every --batch-size units, and a
failure on one unit never stops the rest of the batch.

Examples:
  tsqlmod batch --dsn "sqlserver://..." --commit --batch-size 100
  tsqlmod batch --from-dir ./procs --batch-size 20`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBatch(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.Schema, "schema", "", "restrict to one schema")
	cmd.Flags().StringVar(&opts.Name, "name", "", "restrict to one unit name")
	cmd.Flags().BoolVar(&opts.Commit, "commit", false, "actually write to the definition store (default is dry run)")
	cmd.Flags().BoolVar(&opts.Backup, "backup", true, "journal the original text before committing")
	cmd.Flags().IntVar(&opts.BatchSize, "batch-size", 0, "units between progress reports (default from config or 50)")
	cmd.Flags().IntVar(&opts.ProgressEvery, "progress-every", 0, "alias for --batch-size; takes precedence when both are set")

	return cmd
}

func runBatch(cmd *cobra.Command, opts *BatchOptions) error {
	tb, err := setup(cmd.Context(), opts.RootOptions)
	if err != nil {
		return err
	}
	defer tb.Close()

	coord := migrate.NewBatchCoordinator(tb.controller, tb.provider, tb.tokens, tb.logger)
	switch {
	case opts.ProgressEvery > 0:
		coord.ProgressInterval = opts.ProgressEvery
	case opts.BatchSize > 0:
		coord.ProgressInterval = opts.BatchSize
	case tb.config.Batch.ProgressEvery > 0:
		coord.ProgressInterval = tb.config.Batch.ProgressEvery
	case tb.config.Batch.Size > 0:
		coord.ProgressInterval = tb.config.Batch.Size
	}

	summary, results, err := coord.Run(cmd.Context(), tb.scope(opts.Schema, opts.Name, true), migrate.Options{
		Preview:       !opts.Commit,
		BackupEnabled: opts.Backup,
	})
	if err != nil {
		return WrapExitError(ExitCommandError, "batch failed", err)
	}

	if err := buildScanReport(summary, results).render(newFormatter(opts.RootOptions, cmd)); err != nil {
		return err
	}
	if summary.Failed > 0 {
		return NewExitError(ExitFailure, "some units failed")
	}
	return nil
}
