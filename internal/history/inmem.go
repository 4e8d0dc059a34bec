package history

import (
	"context"
	"sync"
)

// InMemoryStore keeps histories in process memory. Handy for development
// and tests; data does not survive a restart.
type InMemoryStore struct {
	persona string

	mu   sync.RWMutex
	data map[string]History
}

func NewInMemoryStore(persona string) *InMemoryStore {
	return &InMemoryStore{
		persona: persona,
		data:    make(map[string]History),
	}
}

// Load returns the stored history, seeding it first on a never-seen user.
func (s *InMemoryStore) Load(_ context.Context, userID string) (History, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	h, ok := s.data[userID]
	if !ok {
		h = Seed(s.persona)
		s.data[userID] = h
	}
	return h.Clone(), nil
}

// Save overwrites the history for the user.
func (s *InMemoryStore) Save(_ context.Context, userID string, h History) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.data[userID] = h.Clone()
	return nil
}
