package cache

import (
	"context"
	"sync"
	"time"
)

// MemoryStore is a process-local expiring key set. Expired keys are dropped
// lazily on lookup and by Sweep.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]time.Time
	now     func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]time.Time),
		now:     time.Now,
	}
}

func (m *MemoryStore) Set(_ context.Context, key string, expiration time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[key] = m.now().Add(expiration)
}

func (m *MemoryStore) Exists(_ context.Context, key string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	expiresAt, ok := m.entries[key]
	if !ok {
		return false
	}
	if !m.now().Before(expiresAt) {
		delete(m.entries, key)
		return false
	}
	return true
}

func (m *MemoryStore) Delete(_ context.Context, key string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, key)
}

// Sweep removes every expired key and reports how many were dropped.
func (m *MemoryStore) Sweep() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	removed := 0
	for key, expiresAt := range m.entries {
		if !now.Before(expiresAt) {
			delete(m.entries, key)
			removed++
		}
	}
	return removed
}

func (m *MemoryStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}
