// Package domain contains core business entities and interfaces.
// This is the innermost layer in Clean Architecture - no external dependencies.
package domain

// AppEntry is one application stored in a mode: the display name the user
// originally supplied (preserved verbatim) and the executable path captured
// when the app was added.
type AppEntry struct {
	Name string `json:"name"`
	Path string `json:"path"`
}

// Mode is a named, user-defined set of applications that are launched and
// closed together. Mode names are unique case-insensitively; Name carries
// the originally stored casing for display.
type Mode struct {
	Name string
	Apps []AppEntry
}

// ProcessInfo describes one running process from a directory snapshot.
// Path is empty when the executable path could not be resolved.
type ProcessInfo struct {
	PID  int32
	Name string // executable name, e.g. "code" or "Code.exe"
	Path string
}

// CommandResult is the outcome of one plugin command, serialized back to
// the host as the outbound message.
type CommandResult struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}
