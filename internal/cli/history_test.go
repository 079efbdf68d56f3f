package cli

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHistoryEmpty(t *testing.T) {
	env := newEnv(t)

	out, err := execute(t, NewHistoryCommand(env.rootOpts()), "dbo.usp_Orders")
	require.NoError(t, err)
	assert.Contains(t, out, "no journal records for dbo.usp_Orders")
}

func TestHistoryListsRecordsInOrder(t *testing.T) {
	env := newEnv(t)

	// Dry run journals one BACKED_UP record, the commit a second one that
	// advances to UPDATED.
	_, err := execute(t, NewApplyCommand(env.rootOpts()))
	require.NoError(t, err)
	_, err = execute(t, NewApplyCommand(env.rootOpts()), "--commit")
	require.NoError(t, err)

	out, err := execute(t, NewHistoryCommand(env.rootOpts()), "dbo.usp_Orders")
	require.NoError(t, err)
	assert.Contains(t, out, "BACKED_UP")
	assert.Contains(t, out, "UPDATED")
	assert.Contains(t, out, "run=")

	// The current rollback target carries the marker.
	assert.Contains(t, out, "*      2  UPDATED")
}

func TestHistoryJSON(t *testing.T) {
	env := newEnv(t)

	_, err := execute(t, NewApplyCommand(env.rootOpts()), "--commit")
	require.NoError(t, err)

	opts := env.rootOpts()
	opts.Format = "json"
	out, err := execute(t, NewHistoryCommand(opts), "dbo.usp_Orders")
	require.NoError(t, err)

	var resp struct {
		Status string `json:"status"`
		Data   struct {
			Unit    string         `json:"unit"`
			Records []historyEntry `json:"records"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, "dbo.usp_Orders", resp.Data.Unit)
	require.Len(t, resp.Data.Records, 1)
	assert.Equal(t, int64(1), resp.Data.Records[0].ID)
	assert.Equal(t, "UPDATED", resp.Data.Records[0].Status)
	assert.NotEmpty(t, resp.Data.Records[0].RunToken)
	assert.NotEmpty(t, resp.Data.Records[0].CreatedAt)
}

func TestHistoryInvalidIdentity(t *testing.T) {
	env := newEnv(t)

	_, err := execute(t, NewHistoryCommand(env.rootOpts()), "bare")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}
