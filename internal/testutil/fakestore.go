// Package testutil provides shared test doubles: a fault-injecting
// definition store and a deterministic time source.
package testutil

import (
	"context"
	"fmt"

	"github.com/tsqlmod/tsqlmod/internal/catalog"
)

// FaultStore wraps a definition store and fails SetText for selected units.
// Used to exercise commit-failure semantics and batch resilience.
type FaultStore struct {
	catalog.DefinitionStore

	failing map[catalog.Identity]bool

	// SetTextCalls records every attempted commit in order.
	SetTextCalls []catalog.Identity
}

// NewFaultStore wraps inner; FailOn marks units whose commits always fail.
func NewFaultStore(inner catalog.DefinitionStore) *FaultStore {
	return &FaultStore{
		DefinitionStore: inner,
		failing:         make(map[catalog.Identity]bool),
	}
}

// FailOn makes every SetText for the unit return an error.
func (s *FaultStore) FailOn(id catalog.Identity) {
	s.failing[id] = true
}

// SetText implements catalog.DefinitionStore.
func (s *FaultStore) SetText(ctx context.Context, id catalog.Identity, text string) error {
	s.SetTextCalls = append(s.SetTextCalls, id)
	if s.failing[id] {
		return fmt.Errorf("injected commit failure for %s", id)
	}
	return s.DefinitionStore.SetText(ctx, id, text)
}
