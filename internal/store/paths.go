package store

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/nvandessel/radonsim/internal/constants"
)

// GlobalDataPath returns the path to the global .radonsim directory.
// On Unix: ~/.radonsim
// On Windows: %USERPROFILE%\.radonsim
func GlobalDataPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}
	return filepath.Join(homeDir, constants.DataDirName), nil
}

// LocalDataPath returns the path to the .radonsim directory under root.
func LocalDataPath(root string) string {
	return filepath.Join(root, constants.DataDirName)
}

// DataPath resolves the data directory of a scope.
func DataPath(scope constants.Scope, root string) (string, error) {
	switch scope {
	case constants.ScopeLocal:
		return LocalDataPath(root), nil
	case constants.ScopeGlobal:
		return GlobalDataPath()
	default:
		return "", fmt.Errorf("invalid scope %q", scope)
	}
}

// DatabasePath returns the SQLite database path inside a data directory.
func DatabasePath(dataDir string) string {
	return filepath.Join(dataDir, constants.DatabaseName)
}

// EnsureDataDir creates dir if it doesn't exist.
func EnsureDataDir(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create data directory %s: %w", dir, err)
	}
	return nil
}
