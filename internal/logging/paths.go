package logging

import (
	"os"
	"path/filepath"
)

// DefaultLogDir returns the default log directory (~/.malfs/logs/).
// Falls back to temp directory if home directory is unavailable.
func DefaultLogDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), ".malfs", "logs")
	}
	return filepath.Join(home, ".malfs", "logs")
}

// DefaultLogPath returns the default debug log path.
func DefaultLogPath() string {
	return filepath.Join(DefaultLogDir(), "malfs.log")
}
