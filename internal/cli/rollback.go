package cli

import (
	"github.com/spf13/cobra"

	"github.com/tsqlmod/tsqlmod/internal/catalog"
	"github.com/tsqlmod/tsqlmod/internal/migrate"
)

// RollbackOptions holds flags for the rollback command.
type RollbackOptions struct {
	*RootOptions
	BackupID int64
}

// NewRollbackCommand creates the rollback command.
func NewRollbackCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RollbackOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "rollback <schema.name>",
		Short: "Restore a unit's original text from the journal",
		Long: `Restore the unit's original text from its most recent UPDATED backup
record and mark that record ROLLED_BACK. Pass --backup-id to pin a specific
record instead of the most recent one.

Examples:
  tsqlmod rollback dbo.usp_SaveOrder --dsn "sqlserver://..."
  tsqlmod rollback dbo.usp_SaveOrder --backup-id 42 --from-dir ./procs`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRollback(cmd, opts, args[0])
		},
	}

	cmd.Flags().Int64Var(&opts.BackupID, "backup-id", 0, "specific backup record to restore (default: most recent UPDATED)")

	return cmd
}

func runRollback(cmd *cobra.Command, opts *RollbackOptions, unitArg string) error {
	unit, err := catalog.ParseIdentity(unitArg)
	if err != nil {
		return WrapExitError(ExitCommandError, "invalid unit", err)
	}

	tb, err := setup(cmd.Context(), opts.RootOptions)
	if err != nil {
		return err
	}
	defer tb.Close()

	rec, err := tb.controller.Rollback(cmd.Context(), unit, opts.BackupID)
	if err != nil {
		if migrate.IsRollbackNotFound(err) {
			return WrapExitError(ExitFailure, "nothing to roll back", err)
		}
		return WrapExitError(ExitCommandError, "rollback failed", err)
	}

	return newFormatter(opts.RootOptions, cmd).Successf(
		"rolled back %s to backup %d (created %s)",
		unit, rec.ID, rec.CreatedAt.Format("2006-01-02 15:04:05"),
	)
}
