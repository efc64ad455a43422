package tasks

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/mikestefanello/backlite"

	"poiadmin/internal/importers"
)

// FileImporter runs a single file through the import pipeline.
type FileImporter interface {
	ImportFile(path string) importers.FileReport
}

// ImportFileTask imports one spooled file in the background. Path points
// into the upload spool directory (or the watch directory).
type ImportFileTask struct {
	Path string `json:"path"`
}

// Config returns the queue configuration for background imports. A single
// attempt: the pipeline already tolerates bad records, so a retry would
// only re-import the same file.
func (t ImportFileTask) Config() backlite.QueueConfig {
	return backlite.QueueConfig{
		Name:        "import_file",
		MaxAttempts: 1,
		Backoff:     time.Minute,
		Timeout:     5 * time.Minute,
		Retention: &backlite.Retention{
			Duration:   24 * time.Hour,
			OnlyFailed: false,
			Data:       &backlite.RetainData{OnlyFailed: true},
		},
	}
}

// ImportFileProcessor creates a processor function for ImportFileTask.
func ImportFileProcessor(pipeline FileImporter) backlite.QueueProcessor[ImportFileTask] {
	return func(ctx context.Context, task ImportFileTask) error {
		if pipeline == nil {
			return fmt.Errorf("import pipeline not configured")
		}

		report := pipeline.ImportFile(task.Path)
		if err := report.Err(); err != nil {
			return fmt.Errorf("import %s: %w", task.Path, err)
		}

		log.Printf("[TASK] %s", report.Summary())
		for _, reason := range report.Errors {
			log.Printf("[TASK]   %s", reason)
		}
		return nil
	}
}

// NewImportFileQueue creates a backlite queue for background file imports.
func NewImportFileQueue(pipeline FileImporter) backlite.Queue {
	return backlite.NewQueue(ImportFileProcessor(pipeline))
}
