package core

import (
	"github.com/aretw0/introspection"
)

// ServiceState exposes internal state for observability.
type ServiceState struct {
	Notes           int     `json:"notes"`
	ZoomScale       float64 `json:"zoom_scale"`
	GridSize        float64 `json:"grid_size"`
	Tags            []Tag   `json:"tags"`
	EventBufferSize int     `json:"event_buffer_size"`
	StoreType       string  `json:"store_type"`
}

// State implements introspection.Introspectable.
func (s *Service) State() any {
	s.mu.RLock()
	defer s.mu.RUnlock()

	storeType := "unknown"
	if s.store != nil {
		storeType = "store"
		if comp, ok := s.store.(introspection.Component); ok {
			storeType = comp.ComponentType()
		}
	}

	return ServiceState{
		Notes:           s.board.Len(),
		ZoomScale:       s.board.ZoomScale(),
		GridSize:        s.board.GridSize(),
		Tags:            s.board.Palette().Tags(),
		EventBufferSize: s.eventBufferSize,
		StoreType:       storeType,
	}
}

// ComponentType implements introspection.Component.
func (s *Service) ComponentType() string {
	return "service"
}

var _ introspection.Introspectable = (*Service)(nil)
var _ introspection.Component = (*Service)(nil)
