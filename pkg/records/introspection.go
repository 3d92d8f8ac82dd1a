package records

import (
	"fmt"

	"github.com/aretw0/introspection"
)

// ServiceState exposes internal state for observability.
type ServiceState struct {
	Store    any    `json:"store" yaml:"store"`
	Detector string `json:"detector" yaml:"detector"`
	Strict   bool   `json:"strict" yaml:"strict"`
}

// State implements introspection.Introspectable.
func (s *Service) State() any {
	var store any = "unknown"
	if in, ok := s.store.(introspection.Introspectable); ok {
		store = in.State()
	}

	return ServiceState{
		Store:    store,
		Detector: fmt.Sprintf("%T", s.config.Detector),
		Strict:   s.config.Strict,
	}
}

// ComponentType implements introspection.Component.
func (s *Service) ComponentType() string {
	return "service"
}

var _ introspection.Introspectable = (*Service)(nil)
var _ introspection.Component = (*Service)(nil)
