package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tsqlmod/tsqlmod/internal/catalog"
	"github.com/tsqlmod/tsqlmod/internal/journal"
)

// HistoryOptions holds flags for the history command.
type HistoryOptions struct {
	*RootOptions
}

// historyEntry is one journal record shaped for output.
type historyEntry struct {
	ID        int64  `json:"id"`
	Status    string `json:"status"`
	RunToken  string `json:"run_token"`
	CreatedAt string `json:"created_at"`
}

// NewHistoryCommand creates the history command: journal inspection per unit.
func NewHistoryCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &HistoryOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "history <schema.name>",
		Short: "List a unit's backup records",
		Long: `List every journal record for a unit in creation order, with its status
and run token. The most recent UPDATED record is the current rollback target.

Example:
  tsqlmod history dbo.usp_SaveOrder`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistory(cmd, opts, args[0])
		},
	}

	return cmd
}

func runHistory(cmd *cobra.Command, opts *HistoryOptions, unitArg string) error {
	unit, err := catalog.ParseIdentity(unitArg)
	if err != nil {
		return WrapExitError(ExitCommandError, "invalid unit", err)
	}

	tb, err := setupJournal(opts.RootOptions)
	if err != nil {
		return err
	}
	defer tb.Close()

	recs, err := tb.journal.History(cmd.Context(), unit)
	if err != nil {
		return WrapExitError(ExitCommandError, "history query failed", err)
	}

	f := newFormatter(opts.RootOptions, cmd)
	if f.Format == "json" {
		entries := make([]historyEntry, 0, len(recs))
		for _, rec := range recs {
			entries = append(entries, historyEntry{
				ID:        rec.ID,
				Status:    string(rec.Status),
				RunToken:  rec.RunToken,
				CreatedAt: rec.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
			})
		}
		return f.Success(map[string]any{"unit": unit.String(), "records": entries})
	}

	if len(recs) == 0 {
		return f.Successf("no journal records for %s", unit)
	}
	for _, rec := range recs {
		marker := " "
		if rec.Status == journal.StatusUpdated {
			marker = "*"
		}
		fmt.Fprintf(f.Writer, "%s %6d  %-11s  %s  run=%s\n",
			marker, rec.ID, rec.Status, rec.CreatedAt.Format("2006-01-02 15:04:05"), rec.RunToken)
	}
	return nil
}
