// Package migrate orchestrates rewriting against the journal and the
// external definition store.
//
// Per unit, per application cycle, the state machine is:
//
//	NO_RECORD -> BACKED_UP -> UPDATED -> ROLLED_BACK
//
// The ordering guarantee is strict: a unit is backed up before it is
// committed, and the commit is skipped entirely if the backup cannot be
// journaled. The batch coordinator tolerates per-unit failures: one unit's
// error is counted and logged, and processing continues with the next unit.
// A batch is not transactional as a whole; each unit's BACKED_UP/UPDATED
// transition is atomic with respect to that unit only.
//
// Rollback targets the most recently UPDATED record for a unit. An external
// edit landing between backup and apply is silently discarded by a later
// rollback; that window is an accepted limitation of the design, not a
// reported failure.
package migrate
