package migrate

import (
	"context"
	"log/slog"

	"github.com/tsqlmod/tsqlmod/internal/catalog"
	"github.com/tsqlmod/tsqlmod/internal/journal"
	"github.com/tsqlmod/tsqlmod/internal/rewrite"
)

// Options controls one application cycle.
type Options struct {
	// BackupEnabled journals the original text before any commit.
	// Disabling it makes commits unrecoverable; the CLI defaults it on.
	BackupEnabled bool

	// Preview computes and reports changes without committing anything.
	Preview bool
}

// UnitResult is the outcome of processing one unit.
type UnitResult struct {
	Unit      catalog.Identity
	Changed   bool            // rewrite produced different text
	Committed bool            // rewritten text reached the definition store
	BackupID  int64           // journal record id, 0 when no record was created
	Report    *rewrite.Report // detected issue categories, for preview output
}

// Controller applies rewrites to single units and rolls them back.
type Controller struct {
	engine  *rewrite.Engine
	journal *journal.Journal
	store   catalog.DefinitionStore
	logger  *slog.Logger
}

// NewController wires the rewrite engine, journal, and definition store.
// A nil logger defaults to slog.Default().
func NewController(eng *rewrite.Engine, j *journal.Journal, store catalog.DefinitionStore, logger *slog.Logger) *Controller {
	if logger == nil {
		logger = slog.Default()
	}
	return &Controller{engine: eng, journal: j, store: store, logger: logger}
}

// ApplyUnit rewrites one unit's text and, unless previewing, commits the
// result. runToken groups this cycle's journal records.
//
// An unchanged rewrite is a no-op: no record, no commit. When backups are
// enabled the record is appended strictly before the commit, and a journal
// failure aborts the unit before anything reaches the definition store.
// A commit failure leaves the record at BACKED_UP.
func (c *Controller) ApplyUnit(ctx context.Context, unit catalog.Unit, opts Options, runToken string) (UnitResult, error) {
	res := UnitResult{Unit: unit.Identity}

	rewritten, report := c.engine.Rewrite(unit.Text)
	res.Report = report
	if !report.Changed {
		c.logger.Debug("no legacy patterns", "unit", unit.Identity.String())
		return res, nil
	}
	res.Changed = true

	if opts.BackupEnabled {
		id, err := c.journal.Append(ctx, unit.Identity, unit.Text, rewritten, runToken)
		if err != nil {
			return res, newJournalError(unit.Identity, err)
		}
		res.BackupID = id
		c.logger.Debug("backed up", "unit", unit.Identity.String(), "backup_id", id)
	}

	if opts.Preview {
		return res, nil
	}

	if err := c.store.SetText(ctx, unit.Identity, rewritten); err != nil {
		return res, newCommitError(unit.Identity, err)
	}
	res.Committed = true

	if res.BackupID != 0 {
		if err := c.journal.MarkUpdated(ctx, res.BackupID); err != nil {
			// The commit already happened; surface the journal drift rather
			// than hiding it behind a success.
			return res, newJournalError(unit.Identity, err)
		}
	}

	c.logger.Info("unit updated",
		"unit", unit.Identity.String(),
		"backup_id", res.BackupID,
		"issues", len(report.Issues),
	)
	return res, nil
}
