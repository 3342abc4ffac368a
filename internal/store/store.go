// Package store persists learners and course ratings as text records on disk.
//
// Every write goes to a temporary file that is renamed over the target, so a
// crash leaves either the old record or the new one. There is no locking: a
// record is assumed to have a single writer at a time.
package store

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/asteroid-belt/learnpath/internal/models"
)

// writeFileAtomic writes data to path through a temp file and rename.
func writeFileAtomic(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create record directory: %w", err)
	}

	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0644); err != nil {
		return fmt.Errorf("write record: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("replace record: %w", err)
	}
	return nil
}

// checkID rejects ids that cannot be used as a file name component.
func checkID(kind, id string) error {
	return models.CheckRecordID(kind, id)
}
