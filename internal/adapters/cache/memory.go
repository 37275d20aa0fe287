package cache

import (
	"context"
	"sync"
	"time"

	"github.com/adpilot/marketops/internal/domain"
)

// MemoryAuthStateStore is the in-process state store used by tests and
// single-instance deployments without Redis.
type MemoryAuthStateStore struct {
	mu      sync.Mutex
	entries map[string]memoryStateEntry
}

type memoryStateEntry struct {
	value     domain.AuthState
	expiresAt time.Time
}

func NewMemoryAuthStateStore() *MemoryAuthStateStore {
	return &MemoryAuthStateStore{entries: make(map[string]memoryStateEntry)}
}

func (s *MemoryAuthStateStore) Put(_ context.Context, state string, value domain.AuthState, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[state] = memoryStateEntry{value: value, expiresAt: time.Now().Add(ttl)}
	return nil
}

func (s *MemoryAuthStateStore) Get(_ context.Context, state string) (*domain.AuthState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.entries[state]
	if !ok || time.Now().After(entry.expiresAt) {
		delete(s.entries, state)
		return nil, nil
	}
	value := entry.value
	return &value, nil
}

func (s *MemoryAuthStateStore) Delete(_ context.Context, state string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, state)
	return nil
}

// MemoryRateLimiter is the best-effort in-process fixed-window counter.
// Resets on process restart.
type MemoryRateLimiter struct {
	mu      sync.Mutex
	windows map[string]*memoryWindow
}

type memoryWindow struct {
	count    int
	resetsAt time.Time
}

func NewMemoryRateLimiter() *MemoryRateLimiter {
	return &MemoryRateLimiter{windows: make(map[string]*memoryWindow)}
}

func (l *MemoryRateLimiter) Allow(_ context.Context, key string, threshold int, window time.Duration) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	now := time.Now()
	w, ok := l.windows[key]
	if !ok || now.After(w.resetsAt) {
		w = &memoryWindow{resetsAt: now.Add(window)}
		l.windows[key] = w
	}
	w.count++
	return w.count <= threshold, nil
}
