package core

import (
	"github.com/aretw0/introspection"
)

// StoreState exposes internal state for observability.
type StoreState struct {
	Quota       int64  `json:"quota"`
	ReadOnly    bool   `json:"read_only"`
	Strict      bool   `json:"strict"`
	BackendType string `json:"backend_type"`
	Backend     any    `json:"backend,omitempty"`
}

// State implements introspection.Introspectable.
func (s *Store) State() any {
	backendType := "unknown"
	if comp, ok := s.backend.(introspection.Component); ok {
		backendType = comp.ComponentType()
	}

	state := StoreState{
		Quota:       s.config.Quota,
		ReadOnly:    s.config.ReadOnly,
		Strict:      s.config.Strict,
		BackendType: backendType,
	}
	if in, ok := s.backend.(introspection.Introspectable); ok {
		state.Backend = in.State()
	}
	return state
}

// ComponentType implements introspection.Component.
func (s *Store) ComponentType() string {
	return "record-store"
}

var _ introspection.Introspectable = (*Store)(nil)
var _ introspection.Component = (*Store)(nil)
