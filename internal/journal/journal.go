// Package journal provides the SQLite-backed backup journal: an append-only,
// queryable store of original/rewritten text pairs per source unit.
//
// Each record is created exactly once, in status BACKED_UP, when a rewrite
// changes a unit's text and backups are enabled. Status transitions are
// monotonic and unidirectional per record:
//
//	BACKED_UP -> UPDATED -> ROLLED_BACK
//
// No other transition is legal; transitions are enforced with guarded
// updates, so a stale caller gets a TransitionError instead of clobbering
// state. A unit accumulates records over time (full history); the engine
// never deletes them. Only the explicitly confirmed cleanup operation purges.
package journal

import (
	"database/sql"
	_ "embed"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/tsqlmod/tsqlmod/internal/catalog"
)

//go:embed schema.sql
var schemaSQL string

// Schema version tracking:
// 1 - Initial schema
const currentSchemaVersion = 1

// Status is the lifecycle state of one backup record.
type Status string

const (
	// StatusBackedUp means the original text is journaled but the rewrite
	// has not been committed to the definition store.
	StatusBackedUp Status = "BACKED_UP"

	// StatusUpdated means the rewritten text was committed.
	StatusUpdated Status = "UPDATED"

	// StatusRolledBack means the original text was restored.
	StatusRolledBack Status = "ROLLED_BACK"
)

// Record is one journaled backup. OriginalText is immutable once written.
type Record struct {
	ID            int64
	Unit          catalog.Identity
	OriginalText  string
	RewrittenText string
	RunToken      string
	CreatedAt     time.Time
	Status        Status
}

// Journal is the durable backup store. A single Journal owns its SQLite
// handle; the processing model is single-writer.
type Journal struct {
	db  *sql.DB
	now func() time.Time
}

// Open creates or opens the journal database at path, applying pragmas and
// schema migrations. Idempotent.
func Open(path string) (*Journal, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open journal: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("connect journal: %w", err)
	}

	// SQLite allows one writer; a single connection avoids SQLITE_BUSY.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("journal pragmas: %w", err)
	}
	if err := applySchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("journal schema: %w", err)
	}

	return &Journal{db: db, now: time.Now}, nil
}

// Close closes the underlying database.
func (j *Journal) Close() error {
	if j.db == nil {
		return nil
	}
	return j.db.Close()
}

func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			return fmt.Errorf("execute %q: %w", pragma, err)
		}
	}
	return nil
}

func applySchema(db *sql.DB) error {
	if _, err := db.Exec(schemaSQL); err != nil {
		return fmt.Errorf("execute schema: %w", err)
	}

	var version int
	if err := db.QueryRow("PRAGMA user_version").Scan(&version); err != nil {
		return fmt.Errorf("get user_version: %w", err)
	}
	// No incremental migrations yet; stamp the current version.
	if version < currentSchemaVersion {
		if _, err := db.Exec(fmt.Sprintf("PRAGMA user_version = %d", currentSchemaVersion)); err != nil {
			return fmt.Errorf("set user_version: %w", err)
		}
	}
	return nil
}
