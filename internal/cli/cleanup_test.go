package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCleanupRefusesWithoutConfirm(t *testing.T) {
	env := newEnv(t)

	_, err := execute(t, NewApplyCommand(env.rootOpts()), "--commit")
	require.NoError(t, err)

	out, err := execute(t, NewCleanupCommand(env.rootOpts()))
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, out, "cleanup would delete 1 record(s)")

	// Nothing was purged.
	out, err = execute(t, NewHistoryCommand(env.rootOpts()), "dbo.usp_Orders")
	require.NoError(t, err)
	assert.Contains(t, out, "UPDATED")
}

func TestCleanupConfirmedPurgesEverything(t *testing.T) {
	env := newEnv(t)

	_, err := execute(t, NewApplyCommand(env.rootOpts()), "--commit")
	require.NoError(t, err)

	out, err := execute(t, NewCleanupCommand(env.rootOpts()), "--confirm")
	require.NoError(t, err)
	assert.Contains(t, out, "deleted 1 journal record(s)")

	out, err = execute(t, NewHistoryCommand(env.rootOpts()), "dbo.usp_Orders")
	require.NoError(t, err)
	assert.Contains(t, out, "no journal records")
}

func TestCleanupSingleUnit(t *testing.T) {
	env := newEnv(t)

	_, err := execute(t, NewApplyCommand(env.rootOpts()), "--commit")
	require.NoError(t, err)

	out, err := execute(t, NewCleanupCommand(env.rootOpts()), "--unit", "dbo.usp_Other", "--confirm")
	require.NoError(t, err)
	assert.Contains(t, out, "deleted 0 journal record(s)")

	// The other unit's history survives a scoped purge.
	out, err = execute(t, NewHistoryCommand(env.rootOpts()), "dbo.usp_Orders")
	require.NoError(t, err)
	assert.Contains(t, out, "UPDATED")
}

func TestCleanupInvalidUnit(t *testing.T) {
	env := newEnv(t)

	_, err := execute(t, NewCleanupCommand(env.rootOpts()), "--unit", "bare", "--confirm")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}
