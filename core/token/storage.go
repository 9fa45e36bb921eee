package token

import (
	"net/http"
	"sync"
)

// Storage keeps string values by key. Access tokens go to session-scoped
// storage, refresh tokens to persistent storage.
type Storage interface {
	Get(key string) string
	Set(key, value string)
	Delete(key string)
}

// CookieJar is the upstream cookie jar with direct access by name.
type CookieJar interface {
	http.CookieJar
	Get(name string) (string, bool)
	Remove(name string)
}

// MemoryStorage is a Storage backed by a map.
type MemoryStorage struct {
	mu     sync.RWMutex
	values map[string]string
}

// NewMemoryStorage creates an empty storage.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{values: make(map[string]string)}
}

func (s *MemoryStorage) Get(key string) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.values[key]
}

func (s *MemoryStorage) Set(key, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
}

func (s *MemoryStorage) Delete(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.values, key)
}
