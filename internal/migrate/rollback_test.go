package migrate

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tsqlmod/tsqlmod/internal/catalog"
	"github.com/tsqlmod/tsqlmod/internal/journal"
	"github.com/tsqlmod/tsqlmod/internal/rewrite"
)

// applyOne commits a legacy unit and returns the controller, catalog, and
// the created backup id.
func applyOne(t *testing.T) (*Controller, *catalog.Memory, catalog.Identity, int64) {
	t.Helper()
	ctx := context.Background()
	j := newTestJournal(t)
	mem := catalog.NewMemory()
	id := unitID("usp_Fail")
	mem.Put(id, legacyText)
	c := NewController(rewrite.New(), j, mem, quietLogger())

	res, err := c.ApplyUnit(ctx, catalog.Unit{Identity: id, Text: legacyText}, Options{BackupEnabled: true}, "run-1")
	require.NoError(t, err)
	require.True(t, res.Committed)
	return c, mem, id, res.BackupID
}

func TestRollback_RestoresOriginalText(t *testing.T) {
	ctx := context.Background()
	c, mem, id, backupID := applyOne(t)

	rec, err := c.Rollback(ctx, id, 0)

	require.NoError(t, err)
	assert.Equal(t, backupID, rec.ID)

	stored, err := mem.GetText(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, legacyText, stored)

	after, err := c.journal.Get(ctx, backupID)
	require.NoError(t, err)
	assert.Equal(t, journal.StatusRolledBack, after.Status)
}

func TestRollback_SecondAttemptFails(t *testing.T) {
	ctx := context.Background()
	c, _, id, _ := applyOne(t)

	_, err := c.Rollback(ctx, id, 0)
	require.NoError(t, err)

	_, err = c.Rollback(ctx, id, 0)
	require.Error(t, err)
	assert.True(t, IsRollbackNotFound(err))
}

func TestRollback_NoUpdatedRecord(t *testing.T) {
	ctx := context.Background()
	j := newTestJournal(t)
	mem := catalog.NewMemory()
	id := unitID("usp_Never")
	mem.Put(id, modernText)
	c := NewController(rewrite.New(), j, mem, quietLogger())

	_, err := c.Rollback(ctx, id, 0)

	require.Error(t, err)
	assert.True(t, IsRollbackNotFound(err))
}

func TestRollback_ExplicitBackupID(t *testing.T) {
	ctx := context.Background()
	c, mem, id, backupID := applyOne(t)

	rec, err := c.Rollback(ctx, id, backupID)

	require.NoError(t, err)
	assert.Equal(t, backupID, rec.ID)
	stored, _ := mem.GetText(ctx, id)
	assert.Equal(t, legacyText, stored)
}

func TestRollback_ExplicitBackupIDWrongUnit(t *testing.T) {
	ctx := context.Background()
	c, _, _, backupID := applyOne(t)

	_, err := c.Rollback(ctx, unitID("usp_Other"), backupID)

	require.Error(t, err)
	assert.False(t, IsRollbackNotFound(err))
}

func TestRollback_ExplicitBackupIDNotUpdated(t *testing.T) {
	ctx := context.Background()
	j := newTestJournal(t)
	mem := catalog.NewMemory()
	id := unitID("usp_Fail")
	mem.Put(id, legacyText)
	c := NewController(rewrite.New(), j, mem, quietLogger())

	// Preview leaves the record at BACKED_UP; it is not a rollback target.
	res, err := c.ApplyUnit(ctx, catalog.Unit{Identity: id, Text: legacyText}, Options{BackupEnabled: true, Preview: true}, "run-1")
	require.NoError(t, err)

	_, err = c.Rollback(ctx, id, res.BackupID)
	require.Error(t, err)
	assert.True(t, IsRollbackNotFound(err))
}
