package credstore

import (
	"context"
	"sync"
)

// Memory is an in-process credential store, the default for development and
// tests.
type Memory struct {
	mu   sync.RWMutex
	pair *Pair
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{}
}

func (m *Memory) Get(ctx context.Context) (Pair, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.pair == nil {
		return Pair{}, ErrNotFound
	}
	return *m.pair, nil
}

func (m *Memory) Set(ctx context.Context, pair Pair) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	p := pair
	m.pair = &p
	return nil
}

func (m *Memory) Clear(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.pair = nil
	return nil
}
