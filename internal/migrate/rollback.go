package migrate

import (
	"context"
	"errors"
	"fmt"

	"github.com/tsqlmod/tsqlmod/internal/catalog"
	"github.com/tsqlmod/tsqlmod/internal/journal"
)

// Rollback restores a unit's original text from the journal and advances the
// record to ROLLED_BACK.
//
// With backupID zero, the target is the unit's most recent UPDATED record;
// a unit with none fails with a ROLLBACK_NOT_FOUND error and no state
// change. A non-zero backupID pins an explicit record, which must belong to
// the unit and be in status UPDATED.
func (c *Controller) Rollback(ctx context.Context, unit catalog.Identity, backupID int64) (journal.Record, error) {
	var (
		rec journal.Record
		err error
	)
	if backupID != 0 {
		rec, err = c.journal.Get(ctx, backupID)
		if errors.Is(err, journal.ErrNotFound) {
			return journal.Record{}, newRollbackNotFound(unit)
		}
		if err != nil {
			return journal.Record{}, fmt.Errorf("rollback %s: %w", unit, err)
		}
		if rec.Unit != unit {
			return journal.Record{}, fmt.Errorf("rollback %s: record %d belongs to %s", unit, backupID, rec.Unit)
		}
		if rec.Status != journal.StatusUpdated {
			return journal.Record{}, newRollbackNotFound(unit)
		}
	} else {
		rec, err = c.journal.LatestUpdated(ctx, unit)
		if errors.Is(err, journal.ErrNotFound) {
			return journal.Record{}, newRollbackNotFound(unit)
		}
		if err != nil {
			return journal.Record{}, fmt.Errorf("rollback %s: %w", unit, err)
		}
	}

	if err := c.store.SetText(ctx, unit, rec.OriginalText); err != nil {
		return journal.Record{}, newCommitError(unit, err)
	}
	if err := c.journal.MarkRolledBack(ctx, rec.ID); err != nil {
		return journal.Record{}, fmt.Errorf("rollback %s: %w", unit, err)
	}

	c.logger.Info("unit rolled back", "unit", unit.String(), "backup_id", rec.ID)
	return rec, nil
}
