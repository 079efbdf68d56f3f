package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"
)

const fixtureLegacy = `CREATE PROCEDURE dbo.usp_Orders
    @Note TEXT
AS
BEGIN
    IF @Note IS NULL
        RAISERROR('note required', 16, 1)
    SELECT OrderId, GETDATE() FROM Orders
END
`

// cliEnv is a file-mode workspace: one legacy unit on disk plus a fresh
// journal path, both under a test temp dir.
type cliEnv struct {
	dir      string
	journal  string
	unitPath string
}

func newEnv(t *testing.T) cliEnv {
	t.Helper()
	tmp := t.TempDir()
	env := cliEnv{
		dir:      filepath.Join(tmp, "procs"),
		journal:  filepath.Join(tmp, "journal.db"),
		unitPath: filepath.Join(tmp, "procs", "dbo.usp_Orders.sql"),
	}
	require.NoError(t, os.MkdirAll(env.dir, 0o755))
	require.NoError(t, os.WriteFile(env.unitPath, []byte(fixtureLegacy), 0o644))
	return env
}

func (e cliEnv) rootOpts() *RootOptions {
	return &RootOptions{Format: "text", Journal: e.journal, FromDir: e.dir}
}

func (e cliEnv) readUnit(t *testing.T) string {
	t.Helper()
	data, err := os.ReadFile(e.unitPath)
	require.NoError(t, err)
	return string(data)
}

func removeUnit(e cliEnv) error {
	return os.Remove(e.unitPath)
}

// execute runs a command against buffered output and returns what it printed.
func execute(t *testing.T, cmd *cobra.Command, args ...string) (string, error) {
	t.Helper()
	buf := &bytes.Buffer{}
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}
