package migrate

import (
	"errors"
	"fmt"

	"github.com/tsqlmod/tsqlmod/internal/catalog"
)

// ErrorCode categorizes controller failures.
type ErrorCode string

const (
	// ErrCodeCommitFailed means the definition-store write failed. The
	// unit's backup record is left at BACKED_UP.
	ErrCodeCommitFailed ErrorCode = "COMMIT_FAILED"

	// ErrCodeJournalWrite means the backup could not be journaled. Fatal
	// for that unit's apply attempt: the commit must not proceed without a
	// durable backup when backups are enabled.
	ErrCodeJournalWrite ErrorCode = "JOURNAL_WRITE_FAILED"

	// ErrCodeRollbackNotFound means no UPDATED record exists for the unit.
	ErrCodeRollbackNotFound ErrorCode = "ROLLBACK_NOT_FOUND"
)

// Error is a controller failure scoped to one unit.
type Error struct {
	Code    ErrorCode
	Message string
	Unit    catalog.Identity
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (unit=%s): %v", e.Code, e.Message, e.Unit, e.Err)
	}
	return fmt.Sprintf("%s: %s (unit=%s)", e.Code, e.Message, e.Unit)
}

func (e *Error) Unwrap() error { return e.Err }

// IsCommitFailed reports whether err is a definition-store commit failure.
func IsCommitFailed(err error) bool { return hasCode(err, ErrCodeCommitFailed) }

// IsJournalWrite reports whether err is a journal write failure.
func IsJournalWrite(err error) bool { return hasCode(err, ErrCodeJournalWrite) }

// IsRollbackNotFound reports whether err means no rollback target exists.
func IsRollbackNotFound(err error) bool { return hasCode(err, ErrCodeRollbackNotFound) }

func hasCode(err error, code ErrorCode) bool {
	var me *Error
	if errors.As(err, &me) {
		return me.Code == code
	}
	return false
}

func newCommitError(unit catalog.Identity, err error) *Error {
	return &Error{
		Code:    ErrCodeCommitFailed,
		Message: "definition store rejected the rewritten text",
		Unit:    unit,
		Err:     err,
	}
}

func newJournalError(unit catalog.Identity, err error) *Error {
	return &Error{
		Code:    ErrCodeJournalWrite,
		Message: "backup could not be journaled; commit aborted",
		Unit:    unit,
		Err:     err,
	}
}

func newRollbackNotFound(unit catalog.Identity) *Error {
	return &Error{
		Code:    ErrCodeRollbackNotFound,
		Message: "no UPDATED backup record to roll back to",
		Unit:    unit,
	}
}
