package rewrite

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/require"
)

// TestRewrite_Golden runs whole-procedure fixtures through the engine and
// compares against golden files in testdata/.
//
// To regenerate golden files after an intentional rule change:
//
//	go test ./internal/rewrite -run Golden -update
func TestRewrite_Golden(t *testing.T) {
	for _, name := range []string{"legacy_proc", "modern_proc"} {
		t.Run(name, func(t *testing.T) {
			in, err := os.ReadFile(filepath.Join("testdata", name+".sql"))
			require.NoError(t, err)

			out, _ := New().Rewrite(string(in))

			g := goldie.New(t)
			g.Assert(t, name, []byte(out))

			// Golden output must itself be a fixed point.
			again, report := New().Rewrite(out)
			require.Equal(t, out, again)
			require.False(t, report.Changed)
		})
	}
}
