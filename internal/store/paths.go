package store

import (
	"fmt"
	"os"
	"path/filepath"
)

// DataDirName is the name of the per-workspace data directory.
const DataDirName = ".memlearn"

// DataDir returns the data directory for the given workspace root.
func DataDir(root string) string {
	return filepath.Join(root, DataDirName)
}

// GlobalDataDir returns the per-user data directory (~/.memlearn).
func GlobalDataDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}
	return filepath.Join(homeDir, DataDirName), nil
}

// BackupDir returns the rules-document backup directory under dataDir.
func BackupDir(dataDir string) string {
	return filepath.Join(dataDir, "backups")
}
