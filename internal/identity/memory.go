package identity

import (
	"sync"

	"github.com/mcoot/cowsbulls-go/internal/model"
)

// MemoryStore is an in-memory identity store, useful for tests and
// one-shot invocations.
type MemoryStore struct {
	mu  sync.Mutex
	ids map[model.SessionCode]model.PlayerID
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore creates an empty in-memory identity store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		ids: make(map[model.SessionCode]model.PlayerID),
	}
}

func (s *MemoryStore) Remember(code model.SessionCode, playerID model.PlayerID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ids[code] = playerID
	return nil
}

func (s *MemoryStore) Recall(code model.SessionCode) (model.PlayerID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ids[code], nil
}

func (s *MemoryStore) Forget(code model.SessionCode) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.ids, code)
	return nil
}
