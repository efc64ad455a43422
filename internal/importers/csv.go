package importers

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
)

// csvRequiredColumns are the columns a row must carry a value for. The
// ratings column is optional: a missing or empty value means no ratings.
var csvRequiredColumns = []string{
	"poi_id",
	"poi_name",
	"poi_latitude",
	"poi_longitude",
	"poi_category",
}

// ParseCSV parses a CSV point-of-interest file.
//
// Expected columns: poi_id, poi_name, poi_latitude, poi_longitude,
// poi_category, poi_ratings (a bracketed list literal such as "[4.5, 4.2]").
//
// Returns the parsed records and per-record errors for rows that could not
// be used. A file with an unexpected column layout produces per-record
// failures naming the missing column, not a file-level error. The error
// return is reserved for unreadable input.
func ParseCSV(r io.Reader) ([]ParsedRecord, []RecordError, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1 // allow ragged rows; handled per record

	header, err := reader.Read()
	if err == io.EOF {
		return nil, nil, nil
	}
	if err != nil {
		return nil, []RecordError{{
			Position: 1,
			Err:      fmt.Errorf("%w: failed to read header: %v", ErrRecordParseFailed, err),
		}}, nil
	}

	headerIndex := make(map[string]int)
	for i, h := range header {
		headerIndex[strings.ToLower(strings.TrimSpace(h))] = i
	}

	var records []ParsedRecord
	var recordErrors []RecordError
	position := 0

	for {
		position++
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			recordErrors = append(recordErrors, RecordError{
				Position: position,
				Err:      fmt.Errorf("%w: %v", ErrRecordParseFailed, err),
			})
			continue
		}

		externalID := getCSVValue(row, headerIndex, "poi_id")

		missing := ""
		for _, column := range csvRequiredColumns {
			if getCSVValue(row, headerIndex, column) == "" {
				missing = column
				break
			}
		}
		if missing != "" {
			recordErrors = append(recordErrors, missingFieldError(position, externalID, missing))
			continue
		}

		ratings, err := ParseRatingList(getCSVValue(row, headerIndex, "poi_ratings"))
		if err != nil {
			recordErrors = append(recordErrors, RecordError{
				Position:   position,
				ExternalID: externalID,
				Err:        fmt.Errorf("%w: %v", ErrRecordParseFailed, err),
			})
			continue
		}

		records = append(records, ParsedRecord{
			Format:     FormatCSV,
			Position:   position,
			ExternalID: externalID,
			Name:       getCSVValue(row, headerIndex, "poi_name"),
			Latitude:   getCSVValue(row, headerIndex, "poi_latitude"),
			Longitude:  getCSVValue(row, headerIndex, "poi_longitude"),
			Category:   getCSVValue(row, headerIndex, "poi_category"),
			Ratings:    ratings,
		})
	}

	return records, recordErrors, nil
}

func getCSVValue(row []string, headerIndex map[string]int, column string) string {
	if idx, ok := headerIndex[column]; ok && idx < len(row) {
		return strings.TrimSpace(row[idx])
	}
	return ""
}
