package domain

// ProcessManager handles OS process operations.
// Implementation: uses gopsutil for cross-platform support.
type ProcessManager interface {
	// Snapshot enumerates currently running processes. It is taken fresh on
	// every call - processes start and stop between invocations, so caching
	// a snapshot would be a correctness bug. Processes the caller is not
	// allowed to inspect are omitted; only total enumeration failure is an
	// error.
	Snapshot() ([]ProcessInfo, error)

	// Launch starts a new detached process from an executable path.
	Launch(path string) error

	// Terminate stops a running process by PID.
	Terminate(pid int32) error
}

// ModeStore persists the mode name -> app entries mapping.
// Implementation: JSON file, written synchronously after every mutation.
type ModeStore interface {
	// Load reads all stored modes. A missing or empty file means no modes
	// are defined, not an error.
	Load() (map[string][]AppEntry, error)

	// Get returns a mode by name (case-insensitive lookup, originally stored
	// casing preserved). Returns nil when the mode does not exist.
	Get(name string) (*Mode, error)

	// Exists reports whether a mode with the given name is stored.
	Exists(name string) (bool, error)

	// Put stores entries under a mode name and persists before returning.
	// If a mode with the same name (case-insensitive) exists, its entries
	// are replaced under the originally stored casing.
	Put(name string, entries []AppEntry) error

	// Delete removes a mode and all its entries atomically.
	Delete(name string) error
}

// Resolver matches a user-supplied app token to a currently running process.
type Resolver interface {
	// Resolve returns the executable path of a running process whose name
	// matches the token (after alias mapping). ok is false when nothing
	// matches - a queryable outcome the caller branches on, not an error.
	Resolve(token string) (path string, ok bool, err error)
}

// ModeService implements the mode lifecycle operations by composing the
// store, the process manager, and the resolver.
type ModeService interface {
	// CreateMode resolves every token against running processes and persists
	// a new mode. All tokens must resolve or nothing is stored.
	CreateMode(name string, tokens []string) error

	// DeleteMode removes a mode and all its entries.
	DeleteMode(name string) error

	// ListModes returns all stored mode names, case preserved.
	ListModes() ([]string, error)

	// ListAppsInMode returns the stored display names of a mode's apps.
	ListAppsInMode(name string) ([]string, error)

	// AddAppsToMode resolves tokens and appends them to an existing mode.
	// Tokens already present (case-insensitive) are skipped silently; all
	// remaining tokens must resolve or nothing is added. Returns the names
	// actually added.
	AddAppsToMode(name string, tokens []string) ([]string, error)

	// RemoveAppsFromMode drops entries matching the tokens case-insensitively.
	// Tokens not present in the mode are ignored.
	RemoveAppsFromMode(name string, tokens []string) error

	// LaunchMode starts every app in the mode, attempting all even when some
	// fail. A failure names the apps that did not launch.
	LaunchMode(name string) error

	// CloseMode terminates every running app in the mode by stored path,
	// attempting all even when some fail or are not running.
	CloseMode(name string) error
}

// FileSystemManager handles filesystem concerns for on-disk paths.
type FileSystemManager interface {
	// ExpandHome expands ~ to the user's home directory.
	ExpandHome(path string) string
}
