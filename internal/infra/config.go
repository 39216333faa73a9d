package infra

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/riseplugins/launchpad/internal/domain"
)

// Config holds the plugin's on-disk paths. All state lives under one data
// directory so the host can package and clean it up as a unit.
type Config struct {
	ModesFile string `toml:"modes_file"`
	LogFile   string `toml:"log_file"`
}

// DataDir returns the plugin data directory (config, modes file, log).
func DataDir() string {
	base, err := os.UserConfigDir()
	if err != nil {
		base = "."
	}
	return filepath.Join(base, "launchpad")
}

// DefaultConfig returns the default paths under the data directory.
func DefaultConfig() Config {
	dir := DataDir()
	return Config{
		ModesFile: filepath.Join(dir, "modes.json"),
		LogFile:   filepath.Join(dir, "launchpad.log"),
	}
}

// LoadConfig reads config.toml from the data directory. A missing file
// means defaults; a malformed file is an error.
func LoadConfig() (Config, error) {
	return LoadConfigFrom(filepath.Join(DataDir(), "config.toml"), NewFileSystemManager())
}

// LoadConfigFrom reads a config file at an explicit path (for testing).
// Configured paths support ~ expansion.
func LoadConfigFrom(path string, fs domain.FileSystemManager) (Config, error) {
	cfg := DefaultConfig()

	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("load config %s: %w", path, err)
	}

	cfg.ModesFile = fs.ExpandHome(cfg.ModesFile)
	cfg.LogFile = fs.ExpandHome(cfg.LogFile)
	return cfg, nil
}
