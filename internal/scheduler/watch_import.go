// Package scheduler runs periodic background jobs: importing files dropped
// into a watch directory and pruning the upload spool.
package scheduler

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/robfig/cron/v3"

	"poiadmin/internal/config"
	"poiadmin/internal/importers"
	"poiadmin/internal/tasks"
)

// uploadCleanupSchedule prunes the upload spool nightly.
const uploadCleanupSchedule = "0 3 * * *"

// processedDirName is where successfully handled watch files are moved so
// a schedule tick is idempotent.
const processedDirName = "processed"

// WatchImportScheduler periodically imports every supported file found in
// the configured watch directory, and schedules upload-spool cleanup when
// a task client is available.
type WatchImportScheduler struct {
	pipeline  *importers.Pipeline
	taskQueue *tasks.Client // may be nil
	watchCfg  config.WatchSync
	importCfg config.Import

	cron       *cron.Cron
	mu         sync.RWMutex
	isRunning  bool
	isSyncing  bool
	cancelFunc context.CancelFunc
}

// NewWatchImportScheduler creates a new scheduler instance.
func NewWatchImportScheduler(pipeline *importers.Pipeline, taskQueue *tasks.Client, watchCfg config.WatchSync, importCfg config.Import) *WatchImportScheduler {
	return &WatchImportScheduler{
		pipeline:  pipeline,
		taskQueue: taskQueue,
		watchCfg:  watchCfg,
		importCfg: importCfg,
		cron:      cron.New(cron.WithParser(cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow))),
	}
}

// Start begins the scheduler. A disabled watch sync with no task client
// means there is nothing to schedule; Start is then a no-op.
func (s *WatchImportScheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return nil
	}

	jobs := 0

	if s.watchCfg.Enabled {
		if s.watchCfg.Dir == "" {
			return fmt.Errorf("watch sync enabled but no directory configured")
		}
		if _, err := s.cron.AddFunc(s.watchCfg.Schedule, s.runSync); err != nil {
			return fmt.Errorf("invalid watch sync schedule %q: %w", s.watchCfg.Schedule, err)
		}
		log.Printf("Watch import scheduler: watching %s with schedule %q", s.watchCfg.Dir, s.watchCfg.Schedule)
		jobs++
	}

	if s.taskQueue != nil {
		if _, err := s.cron.AddFunc(uploadCleanupSchedule, s.enqueueUploadCleanup); err != nil {
			return fmt.Errorf("failed to schedule upload cleanup: %w", err)
		}
		jobs++
	}

	if jobs == 0 {
		log.Printf("Watch import scheduler: nothing to schedule, disabled")
		return nil
	}

	var cancelCtx context.Context
	cancelCtx, s.cancelFunc = context.WithCancel(ctx)

	s.cron.Start()
	s.isRunning = true

	go func() {
		<-cancelCtx.Done()
		s.Stop()
	}()

	return nil
}

// Stop gracefully stops the scheduler, waiting for a running sync to
// finish.
func (s *WatchImportScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return
	}

	ctx := s.cron.Stop()
	<-ctx.Done()

	s.isRunning = false
	s.cancelFunc = nil

	log.Printf("Watch import scheduler: stopped")
}

// RunNow triggers an immediate watch-directory sync.
func (s *WatchImportScheduler) RunNow() {
	go s.runSync()
}

// IsRunning returns whether the scheduler is active.
func (s *WatchImportScheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

func (s *WatchImportScheduler) runSync() {
	s.mu.Lock()
	if s.isSyncing {
		s.mu.Unlock()
		log.Printf("Watch import: skipped (already syncing)")
		return
	}
	s.isSyncing = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.isSyncing = false
		s.mu.Unlock()
	}()

	files, err := CollectImportFiles(s.watchCfg.Dir)
	if err != nil {
		log.Printf("Watch import: failed to scan %s: %v", s.watchCfg.Dir, err)
		return
	}
	if len(files) == 0 {
		return
	}

	log.Printf("Watch import: found %d files in %s", len(files), s.watchCfg.Dir)
	batch := s.pipeline.ImportFiles(files)

	processedDir := filepath.Join(s.watchCfg.Dir, processedDirName)
	if err := os.MkdirAll(processedDir, 0o755); err != nil {
		log.Printf("Watch import: failed to create %s: %v", processedDir, err)
		return
	}

	for _, report := range batch.Files {
		if report.Err() != nil {
			// Leave the file in place so the problem stays visible.
			continue
		}
		target := filepath.Join(processedDir, filepath.Base(report.File))
		if err := os.Rename(report.File, target); err != nil {
			log.Printf("Watch import: failed to move %s: %v", report.File, err)
		}
	}

	log.Printf("Watch import: %d imported, %d failed across %d files",
		batch.TotalSucceeded(), batch.TotalFailed(), len(batch.Files))
}

func (s *WatchImportScheduler) enqueueUploadCleanup() {
	task := tasks.CleanupUploadsTask{
		Dir:       s.importCfg.UploadDir,
		Retention: s.importCfg.UploadRetention,
	}
	if _, err := s.taskQueue.Add(task).Save(); err != nil {
		log.Printf("Watch import: failed to enqueue upload cleanup: %v", err)
	}
}

// CollectImportFiles lists the supported import files directly inside dir,
// sorted by name for a deterministic processing order.
func CollectImportFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if _, err := importers.DetectFormat(entry.Name()); err != nil {
			continue
		}
		files = append(files, filepath.Join(dir, entry.Name()))
	}

	sort.Strings(files)
	return files, nil
}
