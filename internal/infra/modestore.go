package infra

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gofrs/flock"

	"github.com/riseplugins/launchpad/internal/domain"
)

// FileModeStore implements domain.ModeStore using a JSON file mapping
// mode name -> ordered app entries. Every mutation is a locked
// read-modify-write cycle persisted synchronously before returning.
type FileModeStore struct {
	path string
}

// NewFileModeStore creates a mode store backed by the file at path.
func NewFileModeStore(path string) domain.ModeStore {
	return &FileModeStore{path: path}
}

// Load reads all stored modes. A missing or empty file yields no modes;
// an unreadable or corrupt file is a StorageError, never fabricated data.
func (s *FileModeStore) Load() (map[string][]domain.AppEntry, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string][]domain.AppEntry{}, nil
		}
		return nil, &domain.StorageError{Op: "read", Err: err}
	}

	if len(bytes.TrimSpace(data)) == 0 {
		return map[string][]domain.AppEntry{}, nil
	}

	var modes map[string][]domain.AppEntry
	if err := json.Unmarshal(data, &modes); err != nil {
		return nil, &domain.StorageError{Op: "parse", Err: err}
	}
	if modes == nil {
		modes = map[string][]domain.AppEntry{}
	}

	return modes, nil
}

// Get returns the mode whose name matches case-insensitively, with the
// originally stored casing preserved. Returns nil when absent.
func (s *FileModeStore) Get(name string) (*domain.Mode, error) {
	modes, err := s.Load()
	if err != nil {
		return nil, err
	}

	for stored, entries := range modes {
		if strings.EqualFold(stored, name) {
			return &domain.Mode{Name: stored, Apps: entries}, nil
		}
	}
	return nil, nil
}

// Exists reports whether a mode with the given name is stored.
func (s *FileModeStore) Exists(name string) (bool, error) {
	mode, err := s.Get(name)
	if err != nil {
		return false, err
	}
	return mode != nil, nil
}

// Put stores entries under name. An existing mode with the same name
// (case-insensitive) has its entries replaced under the stored casing.
func (s *FileModeStore) Put(name string, entries []domain.AppEntry) error {
	return s.update(func(modes map[string][]domain.AppEntry) {
		for stored := range modes {
			if strings.EqualFold(stored, name) {
				modes[stored] = entries
				return
			}
		}
		modes[name] = entries
	})
}

// Delete removes a mode and all its entries.
func (s *FileModeStore) Delete(name string) error {
	return s.update(func(modes map[string][]domain.AppEntry) {
		for stored := range modes {
			if strings.EqualFold(stored, name) {
				delete(modes, stored)
				return
			}
		}
	})
}

// update performs a locked read-modify-write cycle against the backing file.
// The file lock guards against a second plugin instance, not in-process
// concurrency (the gateway never overlaps commands).
func (s *FileModeStore) update(mutate func(map[string][]domain.AppEntry)) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return &domain.StorageError{Op: "write", Err: err}
	}

	lock := flock.New(s.path + ".lock")
	if err := lock.Lock(); err != nil {
		return &domain.StorageError{Op: "lock", Err: err}
	}
	defer func() { _ = lock.Unlock() }()

	modes, err := s.Load()
	if err != nil {
		return err
	}

	mutate(modes)

	return s.atomicWrite(modes)
}

// atomicWrite persists modes via temp file + rename so a crash mid-write
// never leaves a truncated modes file.
func (s *FileModeStore) atomicWrite(modes map[string][]domain.AppEntry) error {
	data, err := json.MarshalIndent(modes, "", "    ")
	if err != nil {
		return &domain.StorageError{Op: "write", Err: err}
	}

	tmpPath := fmt.Sprintf("%s.%d.tmp", s.path, os.Getpid())
	if err := os.WriteFile(tmpPath, data, 0600); err != nil {
		return &domain.StorageError{Op: "write", Err: err}
	}

	if err := os.Rename(tmpPath, s.path); err != nil {
		os.Remove(tmpPath) // Clean up on failure
		return &domain.StorageError{Op: "write", Err: err}
	}
	return nil
}

// Ensure FileModeStore implements domain.ModeStore.
var _ domain.ModeStore = (*FileModeStore)(nil)
