package httptp

import (
	"context"
	"sync"
)

// EndpointProvider yields reachable GraphQL endpoints for a subgraph
// name. Implementations may integrate with service discovery; they must
// return at least one endpoint or an error and be safe for concurrent
// use.
type EndpointProvider interface {
	Endpoints(ctx context.Context, subgraph string) ([]string, error)
}

// StaticEndpoints is a provider backed by an in-memory map of subgraph
// name to endpoint URLs.
type StaticEndpoints struct {
	mu   sync.RWMutex
	data map[string][]string
}

func NewStaticEndpoints(m map[string][]string) *StaticEndpoints {
	cp := make(map[string][]string, len(m))
	for k, v := range m {
		cp[k] = append([]string(nil), v...)
	}
	return &StaticEndpoints{data: cp}
}

func (s *StaticEndpoints) Endpoints(ctx context.Context, subgraph string) ([]string, error) {
	_ = ctx
	s.mu.RLock()
	defer s.mu.RUnlock()
	urls := s.data[subgraph]
	if len(urls) == 0 {
		return nil, ErrNoEndpoints
	}
	return append([]string(nil), urls...), nil
}
