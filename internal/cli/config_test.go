package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "tsqlmod.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadConfigEmpty(t *testing.T) {
	cfg, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, Config{}, cfg)
}

func TestLoadConfigValid(t *testing.T) {
	path := writeConfig(t, `
server:
  dsn: "sqlserver://sa:pw@localhost?database=AppDb"
journal:
  path: "backups.db"
scope:
  schema: dbo
  legacy_only: true
batch:
  size: 100
  progress_every: 25
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "sqlserver://sa:pw@localhost?database=AppDb", cfg.Server.DSN)
	assert.Equal(t, "backups.db", cfg.Journal.Path)
	assert.Equal(t, "dbo", cfg.Scope.Schema)
	assert.True(t, cfg.Scope.LegacyOnly)
	assert.Equal(t, 100, cfg.Batch.Size)
	assert.Equal(t, 25, cfg.Batch.ProgressEvery)
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read config")
}

func TestLoadConfigMalformedYAML(t *testing.T) {
	path := writeConfig(t, "server: [not: a: mapping")
	_, err := LoadConfig(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse config")
}

func TestLoadConfigSchemaViolations(t *testing.T) {
	// Zero values are indistinguishable from absent fields at this layer, so
	// only non-zero invalid values can trip the schema.
	tests := []struct {
		name    string
		content string
	}{
		{"negative batch size", "batch:\n  size: -1\n"},
		{"negative progress interval", "batch:\n  progress_every: -5\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeConfig(t, tt.content)
			_, err := LoadConfig(path)
			require.Error(t, err)
			assert.Contains(t, err.Error(), "validate config")
		})
	}
}
