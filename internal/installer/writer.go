package installer

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/nocta-ui/cli/internal/errors"
)

// FileChange is one change-log entry: the path and the bytes that were
// there before the run touched it. Existed distinguishes "was empty"
// from "was absent".
type FileChange struct {
	Path     string
	Previous []byte
	Existed  bool
}

// ChangeLog records first-touch snapshots of every path a run writes,
// in write order, so a failed run can be rolled back.
type ChangeLog struct {
	changes []FileChange
}

// Len returns the number of recorded paths.
func (l *ChangeLog) Len() int {
	return len(l.changes)
}

// Record snapshots a path before its first write in this run.
// Subsequent touches of the same path are ignored, preserving the true
// pre-run baseline.
func (l *ChangeLog) Record(path string) error {
	for _, change := range l.changes {
		if change.Path == path {
			return nil
		}
	}

	entry := FileChange{Path: path}
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		entry.Previous = data
		entry.Existed = true
	case os.IsNotExist(err):
		// Recorded as absent; rollback will delete the file.
	default:
		return errors.New(errors.ErrFileSnapshot).
			WithDetailf("failed to snapshot %s: %v", path, err).Wrap(err)
	}

	l.changes = append(l.changes, entry)
	return nil
}

// Write records and then writes a file, creating parent directories.
func (l *ChangeLog) Write(path, content string) error {
	if err := l.Record(path); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return errors.New(errors.ErrFileWrite).
			WithDetailf("failed to write %s: %v", path, err).Wrap(err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return errors.New(errors.ErrFileWrite).
			WithDetailf("failed to write %s: %v", path, err).Wrap(err)
	}
	return nil
}

// Rollback replays the change log in reverse: snapshotted bytes are
// restored, absent entries are deleted. Restoration is best-effort; a
// failed path is noted and the rest still restored.
func (l *ChangeLog) Rollback() error {
	var failed []string
	for i := len(l.changes) - 1; i >= 0; i-- {
		change := l.changes[i]
		if change.Existed {
			if err := os.MkdirAll(filepath.Dir(change.Path), 0755); err != nil {
				failed = append(failed, change.Path)
				continue
			}
			if err := os.WriteFile(change.Path, change.Previous, 0644); err != nil {
				failed = append(failed, change.Path)
			}
			continue
		}

		if err := os.Remove(change.Path); err != nil && !os.IsNotExist(err) {
			failed = append(failed, change.Path)
		}
	}

	if len(failed) > 0 {
		return errors.New(errors.ErrRollbackIncomplete).
			WithDetailf("could not restore: %s", strings.Join(failed, ", "))
	}
	return nil
}
