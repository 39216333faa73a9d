package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Validation errors. Reported to the caller; no mutation is performed.
var (
	ErrModeNotFound = errors.New("mode not found")
	ErrModeExists   = errors.New("mode already exists")
)

// ResolutionError names the app tokens that were not running when a mode
// mutation required them to be. No mutation is performed.
type ResolutionError struct {
	Apps []string
}

func (e *ResolutionError) Error() string {
	return fmt.Sprintf("apps not running: %s", strings.Join(e.Apps, ", "))
}

// ExecutionError aggregates per-app launch/close failures. Apps lists the
// failed apps in stored order, after every app was attempted.
type ExecutionError struct {
	Action string // "launch" or "close"
	Apps   []string
}

func (e *ExecutionError) Error() string {
	return fmt.Sprintf("failed to %s apps: %s", e.Action, strings.Join(e.Apps, ", "))
}

// StorageError wraps a mode-file read or write failure. The store surfaces
// it to the triggering command instead of fabricating data.
type StorageError struct {
	Op  string // "read", "parse", "write", "lock"
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("mode store %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}
