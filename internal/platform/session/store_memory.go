// Copyright (c) 2026 Trackbook. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package session

import (
	"context"
	"sync"
)

// MemoryStore keeps entries in process memory.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]string
}

// NewMemoryStore creates an empty [MemoryStore].
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[string]string)}
}

// Get implements [Store].
func (store *MemoryStore) Get(_ context.Context, key string) (string, bool, error) {
	store.mu.RLock()
	defer store.mu.RUnlock()

	value, ok := store.entries[key]
	return value, ok, nil
}

// Set implements [Store].
func (store *MemoryStore) Set(_ context.Context, key, value string) error {
	store.mu.Lock()
	defer store.mu.Unlock()

	store.entries[key] = value
	return nil
}

// Clear implements [Store].
func (store *MemoryStore) Clear(_ context.Context) error {
	store.mu.Lock()
	defer store.mu.Unlock()

	clear(store.entries)
	return nil
}
