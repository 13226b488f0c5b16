// Copyright (c) 2026 Trackbook. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
)

// File permissions: the file holds a bearer token.
const (
	fileMode = 0o600
	dirMode  = 0o700
)

// FileStore keeps entries in a single JSON document on disk.
//
// Writes go to a temporary sibling first and are renamed into place, so a
// crash never leaves a half-written session behind.
type FileStore struct {
	mu   sync.Mutex
	path string
}

// NewFileStore creates a [FileStore] backed by path. The file is created lazily.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// DefaultFilePath returns <user config dir>/trackbook/session.json.
func DefaultFilePath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("session: resolve config dir: %w", err)
	}
	return filepath.Join(dir, "trackbook", "session.json"), nil
}

// Path returns the backing file path.
func (store *FileStore) Path() string {
	return store.path
}

// Get implements [Store].
func (store *FileStore) Get(_ context.Context, key string) (string, bool, error) {
	store.mu.Lock()
	defer store.mu.Unlock()

	entries, err := store.read()
	if err != nil {
		return "", false, err
	}

	value, ok := entries[key]
	return value, ok, nil
}

// Set implements [Store].
func (store *FileStore) Set(_ context.Context, key, value string) error {
	store.mu.Lock()
	defer store.mu.Unlock()

	entries, err := store.read()
	if err != nil {
		return err
	}

	entries[key] = value
	return store.write(entries)
}

// Clear implements [Store].
func (store *FileStore) Clear(_ context.Context) error {
	store.mu.Lock()
	defer store.mu.Unlock()

	if err := os.Remove(store.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("session: remove %s: %w", store.path, err)
	}
	return nil
}

// read loads the document; a missing file is an empty session.
func (store *FileStore) read() (map[string]string, error) {
	entries := make(map[string]string)

	data, err := os.ReadFile(store.path)
	if errors.Is(err, fs.ErrNotExist) {
		return entries, nil
	}
	if err != nil {
		return nil, fmt.Errorf("session: read %s: %w", store.path, err)
	}

	if len(data) == 0 {
		return entries, nil
	}

	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("session: decode %s: %w", store.path, err)
	}
	if entries == nil {
		entries = make(map[string]string)
	}

	return entries, nil
}

func (store *FileStore) write(entries map[string]string) error {
	if err := os.MkdirAll(filepath.Dir(store.path), dirMode); err != nil {
		return fmt.Errorf("session: create dir: %w", err)
	}

	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("session: encode: %w", err)
	}

	tmp := store.path + ".tmp"
	if err := os.WriteFile(tmp, data, fileMode); err != nil {
		return fmt.Errorf("session: write %s: %w", tmp, err)
	}

	if err := os.Rename(tmp, store.path); err != nil {
		return fmt.Errorf("session: replace %s: %w", store.path, err)
	}

	return nil
}
