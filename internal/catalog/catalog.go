package catalog

import (
	"context"
	"fmt"
	"strings"
)

// Identity names one source unit: a schema-qualified stored procedure.
type Identity struct {
	Schema string
	Name   string
}

// String renders the schema-qualified name.
func (id Identity) String() string {
	return id.Schema + "." + id.Name
}

// ParseIdentity parses "schema.name". The schema part is required; dotted
// object names beyond the first separator stay in Name.
func ParseIdentity(s string) (Identity, error) {
	schema, name, ok := strings.Cut(s, ".")
	if !ok || schema == "" || name == "" {
		return Identity{}, fmt.Errorf("invalid unit identity %q: want schema.name", s)
	}
	return Identity{Schema: schema, Name: name}, nil
}

// Unit is an enumerated source unit with its current definition text.
// The text is a value snapshot; the definition store owns the truth.
type Unit struct {
	Identity Identity
	Text     string
}

// Scope filters unit enumeration. Zero value means everything.
type Scope struct {
	// Schema restricts to one schema when non-empty.
	Schema string

	// Name restricts to one unit name when non-empty.
	Name string

	// LegacyOnly keeps only units whose text matches at least one legacy
	// signature the rewrite engine acts on.
	LegacyOnly bool
}

// Provider enumerates candidate source units in a stable order.
type Provider interface {
	Units(ctx context.Context, scope Scope) ([]Unit, error)
}

// DefinitionStore reads and writes unit definitions.
//
// SetText is the single commit point of the whole pipeline: it is treated as
// synchronous and blocking, and its success or failure drives the journal
// status transition for the unit.
type DefinitionStore interface {
	GetText(ctx context.Context, id Identity) (string, error)
	SetText(ctx context.Context, id Identity, text string) error
}
