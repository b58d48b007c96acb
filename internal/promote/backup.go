package promote

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// ErrNoBackup is returned when a rollback references an unknown backup.
var ErrNoBackup = errors.New("backup not found")

// backupPrefix and backupExt bracket the timestamp in a backup file name, so
// names sort chronologically.
const (
	backupPrefix = "rules-backup-"
	backupExt    = ".md"
)

// Backup is one retained copy of the rules document.
type Backup struct {
	Name      string    `json:"name"`
	Path      string    `json:"path"`
	Size      int64     `json:"size"`
	Timestamp time.Time `json:"timestamp"`
}

// backupName formats the file name for a backup taken at t.
func backupName(t time.Time) string {
	return backupPrefix + t.Format("20060102-150405") + backupExt
}

// CreateBackup copies the rules document into the backup directory under a
// timestamped name and returns the backup path.
func CreateBackup(rulesPath, backupDir string) (string, error) {
	data, err := os.ReadFile(rulesPath)
	if err != nil {
		return "", fmt.Errorf("failed to read rules document: %w", err)
	}

	if err := os.MkdirAll(backupDir, 0700); err != nil {
		return "", fmt.Errorf("failed to create backup directory: %w", err)
	}

	path := filepath.Join(backupDir, backupName(time.Now()))
	if err := os.WriteFile(path, data, 0600); err != nil {
		return "", fmt.Errorf("failed to write backup: %w", err)
	}
	return path, nil
}

// ListBackups returns the retained backups, newest first.
func ListBackups(backupDir string) ([]Backup, error) {
	entries, err := os.ReadDir(backupDir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read backup directory: %w", err)
	}

	var backups []Backup
	for _, e := range entries {
		name := e.Name()
		if !strings.HasPrefix(name, backupPrefix) || !strings.HasSuffix(name, backupExt) {
			continue
		}
		stamp := strings.TrimSuffix(strings.TrimPrefix(name, backupPrefix), backupExt)
		ts, err := time.ParseInLocation("20060102-150405", stamp, time.Local)
		if err != nil {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		backups = append(backups, Backup{
			Name:      name,
			Path:      filepath.Join(backupDir, name),
			Size:      info.Size(),
			Timestamp: ts,
		})
	}

	sort.Slice(backups, func(i, j int) bool {
		return backups[i].Name > backups[j].Name
	})
	return backups, nil
}

// Rollback restores the rules document verbatim from the named backup. It
// restores the document only; patterns promoted since the backup keep their
// promoted flags, which is visible in the store's audit trail.
func Rollback(rulesPath, backupDir, name string) error {
	path := filepath.Join(backupDir, filepath.Base(name))
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return fmt.Errorf("%w: %s", ErrNoBackup, name)
	}
	if err != nil {
		return fmt.Errorf("failed to read backup: %w", err)
	}

	if err := os.WriteFile(rulesPath, data, 0600); err != nil {
		return fmt.Errorf("failed to restore rules document: %w", err)
	}
	return nil
}

// RotateBackups deletes the oldest backups past the keep limit. keep <= 0
// disables rotation.
func RotateBackups(backupDir string, keep int) error {
	if keep <= 0 {
		return nil
	}
	backups, err := ListBackups(backupDir)
	if err != nil {
		return err
	}
	for _, b := range backups[min(keep, len(backups)):] {
		if err := os.Remove(b.Path); err != nil {
			return fmt.Errorf("failed to remove old backup %s: %w", b.Name, err)
		}
	}
	return nil
}
