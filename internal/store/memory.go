package store

import (
	"context"
	"sort"
	"sync"
)

// memoryStorage is an in-memory [Storage] used by tests, the devserver, and
// the import round-trip checks. It mirrors the SQLite implementation's
// semantics, including sorted key enumeration.
type memoryStorage struct {
	mu    sync.RWMutex
	items map[string]string

	// writes counts successful Set calls; tests use it to prove the
	// checksum gate aborted before any destination write.
	writes int
}

// NewMemoryStorage constructs an empty in-memory [Storage].
func NewMemoryStorage() Storage {
	return &memoryStorage{items: make(map[string]string)}
}

func (m *memoryStorage) Get(_ context.Context, key string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	value, ok := m.items[key]
	if !ok {
		return "", ErrKeyNotFound
	}
	return value, nil
}

func (m *memoryStorage) Set(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.items[key] = value
	m.writes++
	return nil
}

func (m *memoryStorage) Remove(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.items, key)
	return nil
}

func (m *memoryStorage) Clear(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.items = make(map[string]string)
	return nil
}

func (m *memoryStorage) GetAllKeys(_ context.Context) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	keys := make([]string, 0, len(m.items))
	for key := range m.items {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys, nil
}

// WriteCount reports how many Set calls have succeeded since construction.
func (m *memoryStorage) WriteCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.writes
}
