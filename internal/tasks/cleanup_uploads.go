package tasks

import (
	"context"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/mikestefanello/backlite"
)

// CleanupUploadsTask prunes spooled upload files older than the retention
// window. Upload files are kept around after import so failed batches can
// be inspected; this keeps the spool from growing without bound.
type CleanupUploadsTask struct {
	Dir       string        `json:"dir"`
	Retention time.Duration `json:"retention"`
}

// Config returns the queue configuration for upload cleanup.
func (t CleanupUploadsTask) Config() backlite.QueueConfig {
	return backlite.QueueConfig{
		Name:        "cleanup_uploads",
		MaxAttempts: 1,
		Backoff:     time.Minute,
		Timeout:     time.Minute,
		Retention: &backlite.Retention{
			Duration:   24 * time.Hour,
			OnlyFailed: false,
			Data:       &backlite.RetainData{OnlyFailed: true},
		},
	}
}

// CleanupUploadsProcessor creates a processor function for
// CleanupUploadsTask.
func CleanupUploadsProcessor() backlite.QueueProcessor[CleanupUploadsTask] {
	return func(ctx context.Context, task CleanupUploadsTask) error {
		entries, err := os.ReadDir(task.Dir)
		if err != nil {
			if os.IsNotExist(err) {
				return nil
			}
			return err
		}

		cutoff := time.Now().Add(-task.Retention)
		removed := 0
		for _, entry := range entries {
			if entry.IsDir() {
				continue
			}
			info, err := entry.Info()
			if err != nil || info.ModTime().After(cutoff) {
				continue
			}
			if err := os.Remove(filepath.Join(task.Dir, entry.Name())); err != nil {
				log.Printf("[TASK] Failed to remove %s: %v", entry.Name(), err)
				continue
			}
			removed++
		}

		if removed > 0 {
			log.Printf("[TASK] Cleaned up %d processed upload files", removed)
		}
		return nil
	}
}

// NewCleanupUploadsQueue creates a backlite queue for upload cleanup tasks.
func NewCleanupUploadsQueue() backlite.Queue {
	return backlite.NewQueue(CleanupUploadsProcessor())
}
