package credentials

import (
	"context"
	"sync"
)

// MemoryStore keeps settings in memory and is safe for concurrent use.
type MemoryStore struct {
	mu   sync.RWMutex
	data map[string]map[string]string
}

// NewMemoryStore constructs a MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: make(map[string]map[string]string)}
}

func (s *MemoryStore) Get(ctx context.Context, clientID, key string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	val, ok := s.data[clientID][key]
	if !ok {
		return "", ErrNotFound
	}
	return val, nil
}

func (s *MemoryStore) Put(ctx context.Context, clientID, key, value string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	settings, ok := s.data[clientID]
	if !ok {
		settings = make(map[string]string)
		s.data[clientID] = settings
	}
	settings[key] = value
	return nil
}

func (s *MemoryStore) Delete(ctx context.Context, clientID, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data[clientID], key)
	return nil
}
