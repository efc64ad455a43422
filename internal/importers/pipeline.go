package importers

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	"poiadmin/internal/entities"
)

// Store is the persistence collaborator the pipeline writes through.
// GetByExternalID returns (nil, nil) when no entity matches.
type Store interface {
	GetByExternalID(externalID string) (*entities.PointOfInterest, error)
	Create(poi *entities.PointOfInterest) error
	Update(poi *entities.PointOfInterest) error
}

// FileReport is the outcome of importing one file.
type FileReport struct {
	File      string        `json:"file"`
	Format    Format        `json:"format,omitempty"`
	Succeeded int           `json:"succeeded"`
	Failed    int           `json:"failed"`
	Created   int           `json:"created"`
	Updated   int           `json:"updated"`
	Errors    []string      `json:"errors,omitempty"`
	FileError string        `json:"file_error,omitempty"`
	err       error
}

// Failure records a file-level error; the whole file was skipped.
func (r *FileReport) fail(err error) {
	r.err = err
	r.FileError = err.Error()
}

// Err returns the file-level error, or nil if the file was processed.
func (r *FileReport) Err() error {
	return r.err
}

// Summary renders the per-file result line.
func (r *FileReport) Summary() string {
	if r.err != nil {
		return fmt.Sprintf("%s: skipped (%v)", filepath.Base(r.File), r.err)
	}
	return fmt.Sprintf("%s: %d imported, %d failed", filepath.Base(r.File), r.Succeeded, r.Failed)
}

// FailedFileReport builds a report for a file that failed before any
// record could be processed.
func FailedFileReport(file string, err error) FileReport {
	report := FileReport{File: file}
	report.fail(err)
	return report
}

// BatchReport accumulates the reports of one import run.
type BatchReport struct {
	Files []FileReport `json:"files"`
}

// TotalSucceeded is the number of records imported across all files.
func (b *BatchReport) TotalSucceeded() int {
	total := 0
	for _, f := range b.Files {
		total += f.Succeeded
	}
	return total
}

// TotalFailed is the number of failed records across all files.
func (b *BatchReport) TotalFailed() int {
	total := 0
	for _, f := range b.Files {
		total += f.Failed
	}
	return total
}

// AllFilesFailed reports whether every file in the batch failed at file
// level (unreadable or undetectable format). This is the only condition
// under which the batch entry point exits non-zero: partially failed
// records are not an error.
func (b *BatchReport) AllFilesFailed() bool {
	if len(b.Files) == 0 {
		return false
	}
	for _, f := range b.Files {
		if f.err == nil {
			return false
		}
	}
	return true
}

// Pipeline orchestrates the import of point-of-interest files:
// detect format → parse → normalize → validate → upsert, with per-record
// error accumulation. Files and records are processed strictly in order.
type Pipeline struct {
	store Store
}

// NewPipeline creates an import pipeline writing through the given store.
func NewPipeline(store Store) *Pipeline {
	return &Pipeline{store: store}
}

// ImportFiles processes the given files in order. A file-level failure
// skips only that file; a record-level failure skips only that record.
func (p *Pipeline) ImportFiles(paths []string) BatchReport {
	batch := BatchReport{Files: make([]FileReport, 0, len(paths))}
	for _, path := range paths {
		report := p.ImportFile(path)
		if report.Err() != nil {
			log.Printf("Import: %s", report.Summary())
		} else {
			log.Printf("Import: %s (%d created, %d updated)",
				report.Summary(), report.Created, report.Updated)
		}
		batch.Files = append(batch.Files, report)
	}
	return batch
}

// ImportFile processes a single file from disk.
func (p *Pipeline) ImportFile(path string) FileReport {
	report := FileReport{File: path}

	format, err := DetectFormat(path)
	if err != nil {
		report.fail(err)
		return report
	}
	report.Format = format

	file, err := os.Open(path)
	if err != nil {
		report.fail(fmt.Errorf("%w: %v", ErrFileUnreadable, err))
		return report
	}
	defer file.Close()

	return p.ImportReader(path, format, file)
}

// ImportReader processes one already-opened input of a known format.
// Used by the HTTP upload endpoint, where the file never touches disk.
func (p *Pipeline) ImportReader(name string, format Format, r io.Reader) FileReport {
	report := FileReport{File: name, Format: format}

	records, recordErrors, err := p.parse(format, r)
	if err != nil {
		report.fail(err)
		return report
	}

	for _, recordError := range recordErrors {
		report.Failed++
		report.Errors = append(report.Errors, recordError.Error())
	}

	for _, record := range records {
		created, err := p.importRecord(record)
		if err != nil {
			report.Failed++
			report.Errors = append(report.Errors, RecordError{
				Position:   record.Position,
				ExternalID: record.ExternalID,
				Err:        err,
			}.Error())
			continue
		}
		report.Succeeded++
		if created {
			report.Created++
		} else {
			report.Updated++
		}
	}

	return report
}

func (p *Pipeline) parse(format Format, r io.Reader) ([]ParsedRecord, []RecordError, error) {
	switch format {
	case FormatCSV:
		return ParseCSV(r)
	case FormatJSON:
		return ParseJSON(r)
	case FormatXML:
		return ParseXML(r)
	default:
		return nil, nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}
}

// importRecord runs one record through normalize → validate → upsert.
// Returns whether a new entity was created.
func (p *Pipeline) importRecord(record ParsedRecord) (bool, error) {
	poi, err := Normalize(record)
	if err != nil {
		return false, err
	}
	if err := Validate(poi); err != nil {
		return false, err
	}
	return p.upsert(poi)
}

// upsert inserts a new entity or fully replaces an existing one, keyed by
// external ID. Last write wins: every field except the internal ID and
// creation timestamp is overwritten, and the average rating is recomputed
// from the incoming ratings. A failed write leaves any previously stored
// entity untouched.
func (p *Pipeline) upsert(poi *entities.PointOfInterest) (bool, error) {
	poi.AvgRating = AverageRating(poi.Ratings)

	existing, err := p.store.GetByExternalID(poi.ExternalID)
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrPersistenceFailed, err)
	}

	if existing == nil {
		if err := p.store.Create(poi); err != nil {
			return false, fmt.Errorf("%w: %v", ErrPersistenceFailed, err)
		}
		return true, nil
	}

	existing.Name = poi.Name
	existing.Coordinates = poi.Coordinates
	existing.Category = poi.Category
	existing.Ratings = poi.Ratings
	existing.AvgRating = poi.AvgRating
	existing.Description = poi.Description

	if err := p.store.Update(existing); err != nil {
		return false, fmt.Errorf("%w: %v", ErrPersistenceFailed, err)
	}
	return false, nil
}
