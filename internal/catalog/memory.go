package catalog

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/tsqlmod/tsqlmod/internal/rewrite"
)

// NotFoundError reports a unit missing from a definition store.
type NotFoundError struct {
	Unit Identity
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("unit not found: %s", e.Unit)
}

// Memory is an in-memory Provider and DefinitionStore. It backs file mode
// (a directory of .sql files loaded once) and the test suites.
//
// Thread-safety: all methods lock; the processing model is sequential but
// preview output may be rendered while the catalog is read.
type Memory struct {
	mu    sync.Mutex
	units map[Identity]string
	order []Identity
}

// NewMemory creates an empty in-memory catalog.
func NewMemory() *Memory {
	return &Memory{units: make(map[Identity]string)}
}

// Put inserts or replaces a unit definition. First insertion order is the
// enumeration order.
func (m *Memory) Put(id Identity, text string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.units[id]; !ok {
		m.order = append(m.order, id)
	}
	m.units[id] = text
}

// Units implements Provider.
func (m *Memory) Units(_ context.Context, scope Scope) ([]Unit, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []Unit
	for _, id := range m.order {
		if scope.Schema != "" && !strings.EqualFold(scope.Schema, id.Schema) {
			continue
		}
		if scope.Name != "" && !strings.EqualFold(scope.Name, id.Name) {
			continue
		}
		text := m.units[id]
		if scope.LegacyOnly && !rewrite.HasLegacySignature(text) {
			continue
		}
		out = append(out, Unit{Identity: id, Text: text})
	}
	return out, nil
}

// GetText implements DefinitionStore.
func (m *Memory) GetText(_ context.Context, id Identity) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	text, ok := m.units[id]
	if !ok {
		return "", &NotFoundError{Unit: id}
	}
	return text, nil
}

// SetText implements DefinitionStore.
func (m *Memory) SetText(_ context.Context, id Identity, text string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.units[id]; !ok {
		return &NotFoundError{Unit: id}
	}
	m.units[id] = text
	return nil
}

// Dir is a Memory catalog bound to its backing directory. SetText writes
// through to the unit's file, so commits and rollbacks survive the process.
type Dir struct {
	*Memory
	paths map[Identity]string
}

// SetText implements DefinitionStore with file write-through.
func (d *Dir) SetText(ctx context.Context, id Identity, text string) error {
	if err := d.Memory.SetText(ctx, id, text); err != nil {
		return err
	}
	if err := os.WriteFile(d.paths[id], []byte(text), 0o644); err != nil {
		return fmt.Errorf("write unit %s: %w", id, err)
	}
	return nil
}

// LoadDir builds a catalog from a directory of .sql files.
// Each file holds one unit; the identity is "<schema>.<name>" taken from the
// file name ("dbo.usp_Foo.sql" -> dbo.usp_Foo, "usp_Foo.sql" -> dbo.usp_Foo).
// Files are loaded in sorted name order for a stable enumeration.
func LoadDir(dir string) (*Dir, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("load catalog dir: %w", err)
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || !strings.EqualFold(filepath.Ext(e.Name()), ".sql") {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)

	d := &Dir{Memory: NewMemory(), paths: make(map[Identity]string)}
	for _, name := range names {
		path := filepath.Join(dir, name)
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("load catalog dir: %w", err)
		}
		base := strings.TrimSuffix(name, filepath.Ext(name))
		id, err := ParseIdentity(base)
		if err != nil {
			// No schema part in the file name: default schema.
			id = Identity{Schema: "dbo", Name: base}
		}
		d.Put(id, string(data))
		d.paths[id] = path
	}
	return d, nil
}
