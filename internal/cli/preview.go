package cli

import (
	"github.com/spf13/cobra"

	"github.com/tsqlmod/tsqlmod/internal/migrate"
)

// PreviewOptions holds flags for the preview command.
type PreviewOptions struct {
	*RootOptions
	Schema string
	Name   string
}

// NewPreviewCommand creates the preview command.
func NewPreviewCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &PreviewOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "preview",
		Short: "Scan for legacy patterns without changing anything",
		Long: `Scan the scoped units, report every detected legacy-pattern category per
unit, and summarize. Nothing is committed and nothing is journaled.

Examples:
  tsqlmod preview --dsn "sqlserver://sa:pw@localhost?database=AppDb"
  tsqlmod preview --from-dir ./procs --schema dbo --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPreview(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.Schema, "schema", "", "restrict to one schema")
	cmd.Flags().StringVar(&opts.Name, "name", "", "restrict to one unit name")

	return cmd
}

func runPreview(cmd *cobra.Command, opts *PreviewOptions) error {
	tb, err := setup(cmd.Context(), opts.RootOptions)
	if err != nil {
		return err
	}
	defer tb.Close()

	coord := migrate.NewBatchCoordinator(tb.controller, tb.provider, tb.tokens, tb.logger)
	summary, results, err := coord.Run(cmd.Context(), tb.scope(opts.Schema, opts.Name, true), migrate.Options{
		Preview:       true,
		BackupEnabled: false,
	})
	if err != nil {
		return WrapExitError(ExitCommandError, "preview failed", err)
	}

	if err := buildScanReport(summary, results).render(newFormatter(opts.RootOptions, cmd)); err != nil {
		return err
	}
	if summary.Failed > 0 {
		return NewExitError(ExitFailure, "some units failed to scan")
	}
	return nil
}
