package memory

import (
	"context"
	"sync"

	"pet-school-registry/internal/ports/auth"
)

// stateStore guarda los nonces de OAuth en memoria. Viven segundos y no valen
// nada entre reinicios, así que no van a los adapters durables.
type stateStore struct {
	mu     sync.Mutex
	states map[string]struct{}
}

func NewStateStore() auth.StateStore {
	return &stateStore{states: make(map[string]struct{})}
}

func (s *stateStore) Save(ctx context.Context, state string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.states[state] = struct{}{}
	return nil
}

func (s *stateStore) Consume(ctx context.Context, state string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, ok := s.states[state]
	if ok {
		delete(s.states, state)
	}
	return ok, nil
}
