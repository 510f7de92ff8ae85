// Package ratelimit enforces a minimum interval between requests of one user.
package ratelimit

import (
	"context"
	"sync"
	"time"
)

// Store records accepted requests. Acquire must check and record in one
// step: of two concurrent calls for the same key inside a window, only one
// may succeed.
type Store interface {
	// Acquire records at as key's last request and returns true unless an
	// earlier request of key is less than window old.
	Acquire(ctx context.Context, key string, at time.Time, window time.Duration) (bool, error)
}

// MemoryStore is a process-local Store.
type MemoryStore struct {
	mu   sync.Mutex
	last map[string]time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{last: make(map[string]time.Time)}
}

func (m *MemoryStore) Acquire(_ context.Context, key string, at time.Time, window time.Duration) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if last, ok := m.last[key]; ok && at.Sub(last) < window {
		return false, nil
	}
	m.last[key] = at
	return true, nil
}
