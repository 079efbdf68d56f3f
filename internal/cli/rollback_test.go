package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRollbackRestoresOriginalText(t *testing.T) {
	env := newEnv(t)

	_, err := execute(t, NewApplyCommand(env.rootOpts()), "--commit")
	require.NoError(t, err)
	require.Contains(t, env.readUnit(t), ";THROW")

	out, err := execute(t, NewRollbackCommand(env.rootOpts()), "dbo.usp_Orders")
	require.NoError(t, err)
	assert.Contains(t, out, "rolled back dbo.usp_Orders to backup 1")

	assert.Equal(t, fixtureLegacy, env.readUnit(t), "rollback must restore the exact original text")
}

func TestRollbackMarksRecordRolledBack(t *testing.T) {
	env := newEnv(t)

	_, err := execute(t, NewApplyCommand(env.rootOpts()), "--commit")
	require.NoError(t, err)
	_, err = execute(t, NewRollbackCommand(env.rootOpts()), "dbo.usp_Orders")
	require.NoError(t, err)

	out, err := execute(t, NewHistoryCommand(env.rootOpts()), "dbo.usp_Orders")
	require.NoError(t, err)
	assert.Contains(t, out, "ROLLED_BACK")
	assert.NotContains(t, out, " UPDATED")
}

func TestRollbackWithoutTarget(t *testing.T) {
	env := newEnv(t)

	_, err := execute(t, NewRollbackCommand(env.rootOpts()), "dbo.usp_Orders")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, err.Error(), "nothing to roll back")
}

func TestRollbackTwiceFails(t *testing.T) {
	env := newEnv(t)

	_, err := execute(t, NewApplyCommand(env.rootOpts()), "--commit")
	require.NoError(t, err)
	_, err = execute(t, NewRollbackCommand(env.rootOpts()), "dbo.usp_Orders")
	require.NoError(t, err)

	_, err = execute(t, NewRollbackCommand(env.rootOpts()), "dbo.usp_Orders")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
}

func TestRollbackExplicitBackupID(t *testing.T) {
	env := newEnv(t)

	_, err := execute(t, NewApplyCommand(env.rootOpts()), "--commit")
	require.NoError(t, err)

	out, err := execute(t, NewRollbackCommand(env.rootOpts()), "dbo.usp_Orders", "--backup-id", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "backup 1")
	assert.Equal(t, fixtureLegacy, env.readUnit(t))
}

func TestRollbackInvalidIdentity(t *testing.T) {
	env := newEnv(t)

	_, err := execute(t, NewRollbackCommand(env.rootOpts()), "noschema")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), "invalid unit")
}
