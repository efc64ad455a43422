package http

import (
	"fmt"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"

	"poiadmin/internal/importers"
	"poiadmin/internal/tasks"
)

// ImportController accepts multi-format PoI file uploads.
type ImportController struct {
	pipeline   *importers.Pipeline
	taskClient *tasks.Client // may be nil
	uploadDir  string
}

func NewImportController(pipeline *importers.Pipeline, taskClient *tasks.Client, uploadDir string) *ImportController {
	return &ImportController{
		pipeline:   pipeline,
		taskClient: taskClient,
		uploadDir:  uploadDir,
	}
}

// Import handles POST /api/import: one or more files in the "files"
// multipart field, processed in order through the import pipeline. With
// ?async=true the files are spooled to disk and imported by a background
// task instead.
func (ctrl *ImportController) Import(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		c.IndentedJSON(http.StatusBadRequest, gin.H{"error": "multipart form required"})
		return
	}

	files := form.File["files"]
	if len(files) == 0 {
		c.IndentedJSON(http.StatusBadRequest, gin.H{"error": "no files provided"})
		return
	}

	if c.Query("async") == "true" {
		ctrl.importAsync(c, files)
		return
	}

	batch := importers.BatchReport{}
	for _, fileHeader := range files {
		batch.Files = append(batch.Files, ctrl.importUpload(fileHeader))
	}

	status := http.StatusOK
	if batch.AllFilesFailed() {
		status = http.StatusBadRequest
	}
	c.IndentedJSON(status, gin.H{
		"total_succeeded": batch.TotalSucceeded(),
		"total_failed":    batch.TotalFailed(),
		"files":           batch.Files,
	})
}

func (ctrl *ImportController) importUpload(fileHeader *multipart.FileHeader) importers.FileReport {
	name := fileHeader.Filename

	format, err := importers.DetectFormat(name)
	if err != nil {
		return importers.FailedFileReport(name, err)
	}

	file, err := fileHeader.Open()
	if err != nil {
		return importers.FailedFileReport(name, fmt.Errorf("%w: %v", importers.ErrFileUnreadable, err))
	}
	defer file.Close()

	return ctrl.pipeline.ImportReader(name, format, file)
}

// importAsync spools the uploads to disk and enqueues one import task per
// file.
func (ctrl *ImportController) importAsync(c *gin.Context, files []*multipart.FileHeader) {
	if ctrl.taskClient == nil {
		c.IndentedJSON(http.StatusServiceUnavailable, gin.H{"error": "background imports are disabled"})
		return
	}

	if err := os.MkdirAll(ctrl.uploadDir, 0o755); err != nil {
		c.IndentedJSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	var queued []string
	var failed []string

	for _, fileHeader := range files {
		if _, err := importers.DetectFormat(fileHeader.Filename); err != nil {
			failed = append(failed, fmt.Sprintf("%s: %v", fileHeader.Filename, err))
			continue
		}

		spooled := filepath.Join(ctrl.uploadDir,
			fmt.Sprintf("%d-%s", time.Now().UnixNano(), filepath.Base(fileHeader.Filename)))
		if err := c.SaveUploadedFile(fileHeader, spooled); err != nil {
			failed = append(failed, fmt.Sprintf("%s: %v", fileHeader.Filename, err))
			continue
		}

		if _, err := ctrl.taskClient.Add(tasks.ImportFileTask{Path: spooled}).Save(); err != nil {
			failed = append(failed, fmt.Sprintf("%s: %v", fileHeader.Filename, err))
			continue
		}
		queued = append(queued, fileHeader.Filename)
	}

	status := http.StatusAccepted
	if len(queued) == 0 {
		status = http.StatusBadRequest
	}
	c.IndentedJSON(status, gin.H{
		"queued": queued,
		"failed": failed,
	})
}
