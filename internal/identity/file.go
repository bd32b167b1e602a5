package identity

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/mcoot/cowsbulls-go/internal/model"
)

// FileStore persists remembered player ids as a JSON map on disk.
// The file is read on every access so concurrent CLI invocations see
// each other's writes.
type FileStore struct {
	mu   sync.Mutex
	path string
}

var _ Store = (*FileStore)(nil)

// NewFileStore creates a file-backed identity store at the given path.
// The file is created lazily on the first Remember.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (s *FileStore) Remember(code model.SessionCode, playerID model.PlayerID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	ids, err := s.load()
	if err != nil {
		return err
	}

	ids[code] = playerID
	return s.save(ids)
}

func (s *FileStore) Recall(code model.SessionCode) (model.PlayerID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ids, err := s.load()
	if err != nil {
		return "", err
	}

	return ids[code], nil
}

func (s *FileStore) Forget(code model.SessionCode) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	ids, err := s.load()
	if err != nil {
		return err
	}

	if _, ok := ids[code]; !ok {
		return nil
	}

	delete(ids, code)
	return s.save(ids)
}

func (s *FileStore) load() (map[model.SessionCode]model.PlayerID, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return make(map[model.SessionCode]model.PlayerID), nil
		}
		return nil, fmt.Errorf("failed to read identity file: %w", err)
	}

	ids := make(map[model.SessionCode]model.PlayerID)
	if err := json.Unmarshal(data, &ids); err != nil {
		return nil, fmt.Errorf("failed to parse identity file: %w", err)
	}

	return ids, nil
}

func (s *FileStore) save(ids map[model.SessionCode]model.PlayerID) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create identity dir: %w", err)
	}

	data, err := json.Marshal(ids)
	if err != nil {
		return fmt.Errorf("failed to encode identity file: %w", err)
	}

	if err := os.WriteFile(s.path, data, 0600); err != nil {
		return fmt.Errorf("failed to write identity file: %w", err)
	}

	return nil
}
