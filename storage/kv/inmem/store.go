package inmemkv

import (
	"sync"

	"github.com/trezcool/academia/storage/kv"
)

// Store is a map-backed kv.Store for tests and ephemeral sessions.
type Store struct {
	mu   sync.RWMutex
	data map[string]string
}

var _ kv.Store = (*Store)(nil)

func NewStore() *Store {
	return &Store{data: make(map[string]string)}
}

func (s *Store) Get(key string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	val, ok := s.data[key]
	return val, ok
}

func (s *Store) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = value
	return nil
}

func (s *Store) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, key)
	return nil
}
