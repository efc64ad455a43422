package importers

import (
	"errors"
	"fmt"
)

// Sentinel errors for the import pipeline. Callers classify failures with
// errors.Is; the concrete message carries the detail.
var (
	// ErrUnsupportedFormat means the file extension is not one of the
	// three known kinds. File-level: the file is skipped.
	ErrUnsupportedFormat = errors.New("unsupported file format")

	// ErrFileUnreadable means the file could not be opened or read.
	// File-level: the file is skipped.
	ErrFileUnreadable = errors.New("file unreadable")

	// ErrRecordParseFailed means a single record's raw fields could not be
	// extracted, or its ratings string could not be decoded. Record-level.
	ErrRecordParseFailed = errors.New("record parse failed")

	// ErrInvalidCoordinate means a latitude/longitude is not numeric or is
	// out of range. Record-level.
	ErrInvalidCoordinate = errors.New("invalid coordinate")

	// ErrValidationFailed means a required-field rule was violated.
	// Record-level.
	ErrValidationFailed = errors.New("validation failed")

	// ErrPersistenceFailed means the store rejected the write. Record-level,
	// surfaced in the report but not retried.
	ErrPersistenceFailed = errors.New("persistence failed")
)

// RecordError describes why a single record failed. Position is the 1-based
// record position within the source file; ExternalID is included when it
// could be extracted before the failure.
type RecordError struct {
	Position   int
	ExternalID string
	Err        error
}

func (e RecordError) Error() string {
	if e.ExternalID != "" {
		return fmt.Sprintf("record %d (%s): %v", e.Position, e.ExternalID, e.Err)
	}
	return fmt.Sprintf("record %d: %v", e.Position, e.Err)
}

func (e RecordError) Unwrap() error {
	return e.Err
}

func missingFieldError(pos int, externalID, field string) RecordError {
	return RecordError{
		Position:   pos,
		ExternalID: externalID,
		Err:        fmt.Errorf("%w: missing required field %s", ErrRecordParseFailed, field),
	}
}
