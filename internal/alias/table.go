// Package alias maps user-friendly app names to actual process names.
// The table is static, compiled-in data consulted before every process
// match attempt; changing it requires a rebuild.
package alias

import "strings"

// table maps lowercase friendly names to process search names (without
// extension). Only names that differ from the process name are listed.
var table = map[string]string{
	// Browsers
	"edge":           "msedge",
	"microsoft edge": "msedge",
	"google chrome":  "chrome",

	// Development
	"vscode":             "code",
	"vs code":            "code",
	"visual studio code": "code",

	// Communication
	"teams":           "ms-teams",
	"microsoft teams": "ms-teams",

	// Gaming
	"epic games": "epicgameslauncher",
	"epic":       "epicgameslauncher",

	// Utilities
	"file explorer": "explorer",
}

// Canonical returns the process search name for a user token. Tokens with
// no registered alias canonicalize to their own lowercase form.
func Canonical(token string) string {
	lower := strings.ToLower(strings.TrimSpace(token))
	if name, ok := table[lower]; ok {
		return name
	}
	return lower
}
