package kv

import (
	"maps"
	"sync"
)

// MemStore is an in-memory Adapter, mostly useful in tests.
type MemStore struct {
	mu     sync.Mutex
	values map[string]string
	saves  int

	// LoadErr, when set, is returned by every Load.
	LoadErr error
	// SaveErr, when set, is returned by every Save and nothing is stored.
	SaveErr error
}

// NewMemStore returns a store preloaded with a copy of values.
func NewMemStore(values map[string]string) *MemStore {
	m := &MemStore{values: make(map[string]string, len(values))}
	maps.Copy(m.values, values)
	return m
}

// Load implements Adapter.
func (m *MemStore) Load(key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.LoadErr != nil {
		return "", false, m.LoadErr
	}
	v, ok := m.values[key]
	return v, ok, nil
}

// Save implements Adapter.
func (m *MemStore) Save(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.SaveErr != nil {
		return m.SaveErr
	}
	m.values[key] = value
	m.saves++
	return nil
}

// Saves returns the number of successful Save calls.
func (m *MemStore) Saves() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saves
}

// Get returns the raw value under key without going through Load.
func (m *MemStore) Get(key string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.values[key]
	return v, ok
}
