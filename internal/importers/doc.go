// Package importers converts CSV, JSON and XML point-of-interest files into
// the canonical entity and persists them with upsert-by-external-id
// semantics.
//
// # Architecture
//
// The import pipeline follows a simple flow:
//
//	File → DetectFormat → Parser → ParsedRecord → Normalize → Validate → upsert → Store
//
// Each supported format has a parser that maps its own field names into the
// shared ParsedRecord shape. The Pipeline then normalizes, validates and
// upserts every record, collecting the outcome of each one into a
// FileReport. A bad record is recorded as a failure and never aborts the
// rest of its file; a file that cannot be opened or whose format is unknown
// is skipped with a file-level error and never aborts the rest of the batch.
//
// # Adding a new format
//
//  1. Add the extension to DetectFormat.
//  2. Write a parser returning ([]ParsedRecord, []RecordError, error),
//     where the error is reserved for unreadable input. Field-level
//     problems belong in RecordError entries.
//  3. Register the parser in Pipeline.parseAll.
package importers
