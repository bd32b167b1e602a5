package memory

import (
	"context"
	"sync"

	"github.com/mcoot/cowsbulls-go/internal/model"
	"github.com/mcoot/cowsbulls-go/internal/storage"
)

// Storage is an in-memory implementation of the storage interface
type Storage struct {
	mu sync.RWMutex

	sessions    map[model.SessionCode]*model.GameSession
	subscribers map[model.SessionCode]map[int]storage.UpdateFunc
	nextSubID   int
}

// New creates a new in-memory storage instance
func New() *Storage {
	return &Storage{
		sessions:    make(map[model.SessionCode]*model.GameSession),
		subscribers: make(map[model.SessionCode]map[int]storage.UpdateFunc),
	}
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

func (s *Storage) CreateSession(ctx context.Context, session *model.GameSession) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sessions[session.Code]; ok {
		return model.ErrSessionExists
	}
	s.sessions[session.Code] = session.Clone()
	return nil
}

func (s *Storage) GetSession(ctx context.Context, code model.SessionCode) (*model.GameSession, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, ok := s.sessions[code]
	if !ok {
		return nil, model.ErrSessionNotFound
	}
	return session.Clone(), nil
}

func (s *Storage) UpdateSession(ctx context.Context, session *model.GameSession) error {
	s.mu.Lock()
	stored, ok := s.sessions[session.Code]
	if !ok {
		s.mu.Unlock()
		return model.ErrSessionNotFound
	}
	if stored.Version != session.Version {
		s.mu.Unlock()
		return model.ErrVersionConflict
	}

	session.Version++
	committed := session.Clone()
	s.sessions[session.Code] = committed

	fns := make([]storage.UpdateFunc, 0, len(s.subscribers[session.Code]))
	for _, fn := range s.subscribers[session.Code] {
		fns = append(fns, fn)
	}
	s.mu.Unlock()

	// Notify outside the lock so subscribers cannot deadlock the store
	for _, fn := range fns {
		go fn(committed.Clone())
	}
	return nil
}

func (s *Storage) SessionExists(ctx context.Context, code model.SessionCode) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.sessions[code]
	return ok, nil
}

func (s *Storage) SubscribeSession(ctx context.Context, code model.SessionCode, fn storage.UpdateFunc) (storage.UnsubscribeFunc, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextSubID
	s.nextSubID++

	if s.subscribers[code] == nil {
		s.subscribers[code] = make(map[int]storage.UpdateFunc)
	}
	s.subscribers[code][id] = fn

	var once sync.Once
	unsubscribe := func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			delete(s.subscribers[code], id)
			if len(s.subscribers[code]) == 0 {
				delete(s.subscribers, code)
			}
		})
	}
	return unsubscribe, nil
}
