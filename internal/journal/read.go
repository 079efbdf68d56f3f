package journal

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/tsqlmod/tsqlmod/internal/catalog"
)

// ErrNotFound is returned by lookups that match no record.
var ErrNotFound = errors.New("journal: record not found")

const recordColumns = `id, schema_name, unit_name, original_text, rewritten_text, run_token, created_at, status`

// Get fetches one record by id.
func (j *Journal) Get(ctx context.Context, id int64) (Record, error) {
	row := j.db.QueryRowContext(ctx, `
		SELECT `+recordColumns+` FROM backup_records WHERE id = ?
	`, id)
	rec, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Record{}, ErrNotFound
	}
	if err != nil {
		return Record{}, fmt.Errorf("get record %d: %w", id, err)
	}
	return rec, nil
}

// LatestUpdated returns the most recent record for the unit in status
// UPDATED: the unique rollback target. ErrNotFound when none exists.
func (j *Journal) LatestUpdated(ctx context.Context, unit catalog.Identity) (Record, error) {
	row := j.db.QueryRowContext(ctx, `
		SELECT `+recordColumns+`
		FROM backup_records
		WHERE schema_name = ? AND unit_name = ? AND status = ?
		ORDER BY id DESC
		LIMIT 1
	`, unit.Schema, unit.Name, string(StatusUpdated))
	rec, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Record{}, ErrNotFound
	}
	if err != nil {
		return Record{}, fmt.Errorf("latest updated for %s: %w", unit, err)
	}
	return rec, nil
}

// History returns every record for a unit in creation order.
func (j *Journal) History(ctx context.Context, unit catalog.Identity) ([]Record, error) {
	rows, err := j.db.QueryContext(ctx, `
		SELECT `+recordColumns+`
		FROM backup_records
		WHERE schema_name = ? AND unit_name = ?
		ORDER BY id ASC
	`, unit.Schema, unit.Name)
	if err != nil {
		return nil, fmt.Errorf("history for %s: %w", unit, err)
	}
	defer rows.Close()
	return collectRecords(rows)
}

// ListByStatus returns every record in the given status, in creation order.
func (j *Journal) ListByStatus(ctx context.Context, status Status) ([]Record, error) {
	rows, err := j.db.QueryContext(ctx, `
		SELECT `+recordColumns+`
		FROM backup_records
		WHERE status = ?
		ORDER BY id ASC
	`, string(status))
	if err != nil {
		return nil, fmt.Errorf("list by status %s: %w", status, err)
	}
	defer rows.Close()
	return collectRecords(rows)
}

// Count returns the total number of journaled records. Used by cleanup to
// show what a purge would destroy before asking for confirmation.
func (j *Journal) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := j.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM backup_records`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count records: %w", err)
	}
	return n, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (Record, error) {
	var (
		rec       Record
		createdAt string
		status    string
	)
	err := row.Scan(
		&rec.ID,
		&rec.Unit.Schema,
		&rec.Unit.Name,
		&rec.OriginalText,
		&rec.RewrittenText,
		&rec.RunToken,
		&createdAt,
		&status,
	)
	if err != nil {
		return Record{}, err
	}
	rec.Status = Status(status)
	rec.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt)
	if err != nil {
		return Record{}, fmt.Errorf("parse created_at %q: %w", createdAt, err)
	}
	return rec, nil
}

func collectRecords(rows *sql.Rows) ([]Record, error) {
	var recs []Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		recs = append(recs, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return recs, nil
}
