package journal

import (
	"context"
	"fmt"
	"time"

	"github.com/tsqlmod/tsqlmod/internal/catalog"
)

// TransitionError reports an illegal status transition attempt. The guarded
// update saw the record in a status other than the required source status.
type TransitionError struct {
	ID   int64
	From Status // status actually found
	To   Status
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("record %d: illegal transition %s -> %s", e.ID, e.From, e.To)
}

// Append journals a new backup in status BACKED_UP and returns its id.
// Record ids are monotonic (AUTOINCREMENT), so id order is creation order.
func (j *Journal) Append(ctx context.Context, unit catalog.Identity, originalText, rewrittenText, runToken string) (int64, error) {
	res, err := j.db.ExecContext(ctx, `
		INSERT INTO backup_records
		(schema_name, unit_name, original_text, rewritten_text, run_token, created_at, status)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`,
		unit.Schema,
		unit.Name,
		originalText,
		rewrittenText,
		runToken,
		j.now().UTC().Format(time.RFC3339Nano),
		string(StatusBackedUp),
	)
	if err != nil {
		return 0, fmt.Errorf("append backup for %s: %w", unit, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("append backup for %s: %w", unit, err)
	}
	return id, nil
}

// MarkUpdated advances a record BACKED_UP -> UPDATED after the rewritten
// text was committed to the definition store.
func (j *Journal) MarkUpdated(ctx context.Context, id int64) error {
	return j.transition(ctx, id, StatusBackedUp, StatusUpdated)
}

// MarkRolledBack advances a record UPDATED -> ROLLED_BACK after the original
// text was restored.
func (j *Journal) MarkRolledBack(ctx context.Context, id int64) error {
	return j.transition(ctx, id, StatusUpdated, StatusRolledBack)
}

// transition performs a guarded status update. The WHERE clause carries the
// required source status, so a record in any other status is left untouched
// and the caller gets a TransitionError naming what was actually found.
func (j *Journal) transition(ctx context.Context, id int64, from, to Status) error {
	res, err := j.db.ExecContext(ctx, `
		UPDATE backup_records SET status = ? WHERE id = ? AND status = ?
	`, string(to), id, string(from))
	if err != nil {
		return fmt.Errorf("transition record %d to %s: %w", id, to, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("transition record %d to %s: %w", id, to, err)
	}
	if n == 0 {
		actual, err := j.currentStatus(ctx, id)
		if err != nil {
			return fmt.Errorf("transition record %d to %s: %w", id, to, err)
		}
		return &TransitionError{ID: id, From: actual, To: to}
	}
	return nil
}

func (j *Journal) currentStatus(ctx context.Context, id int64) (Status, error) {
	var s string
	if err := j.db.QueryRowContext(ctx, `
		SELECT status FROM backup_records WHERE id = ?
	`, id).Scan(&s); err != nil {
		return "", err
	}
	return Status(s), nil
}

// Purge deletes journal history: the whole journal, or one unit's records
// when unit is non-nil. Returns the number of records removed. Only the
// explicitly confirmed cleanup operation may call this.
func (j *Journal) Purge(ctx context.Context, unit *catalog.Identity) (int64, error) {
	var (
		res interface{ RowsAffected() (int64, error) }
		err error
	)
	if unit == nil {
		res, err = j.db.ExecContext(ctx, `DELETE FROM backup_records`)
	} else {
		res, err = j.db.ExecContext(ctx, `
			DELETE FROM backup_records WHERE schema_name = ? AND unit_name = ?
		`, unit.Schema, unit.Name)
	}
	if err != nil {
		return 0, fmt.Errorf("purge journal: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("purge journal: %w", err)
	}
	return n, nil
}
