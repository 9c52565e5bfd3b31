// Package mocks provides in-memory implementations of the domain ports for
// tests.
package mocks

import (
	"context"
	"sync"
)

// Store is a mock implementation of ports.Store backed by a map.
type Store struct {
	mu    sync.Mutex
	Items map[string][]byte
	Err   error

	GetCallCount    int
	SetCallCount    int
	RemoveCallCount int
	LastSetKey      string
}

// NewStore creates a new mock Store.
func NewStore() *Store {
	return &Store{Items: make(map[string][]byte)}
}

// GetItem returns the blob stored under key, or (nil, nil) when absent.
func (m *Store) GetItem(_ context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.GetCallCount++
	if m.Err != nil {
		return nil, m.Err
	}
	value, ok := m.Items[key]
	if !ok {
		return nil, nil
	}
	return value, nil
}

// SetItem stores the blob under key.
func (m *Store) SetItem(_ context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SetCallCount++
	if m.Err != nil {
		return m.Err
	}
	m.Items[key] = value
	m.LastSetKey = key
	return nil
}

// RemoveItem deletes the key.
func (m *Store) RemoveItem(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.RemoveCallCount++
	if m.Err != nil {
		return m.Err
	}
	delete(m.Items, key)
	return nil
}
