package importers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

// jsonPoi mirrors one object in a JSON point-of-interest file. The ID and
// coordinate values are decoded as raw messages because real exports mix
// strings and numbers for them.
type jsonPoi struct {
	ID          json.RawMessage `json:"id"`
	Name        string          `json:"name"`
	Coordinates struct {
		Latitude  json.RawMessage `json:"latitude"`
		Longitude json.RawMessage `json:"longitude"`
	} `json:"coordinates"`
	Category    string            `json:"category"`
	Ratings     []json.RawMessage `json:"ratings"`
	Description string            `json:"description"`
}

// ParseJSON parses a JSON point-of-interest file. The document may be a
// single object or an array of objects:
//
//	{"id": "J1", "name": "...", "coordinates": {"latitude": ..., "longitude": ...},
//	 "category": "...", "ratings": [4.5, 4.2], "description": "..."}
//
// A malformed document is reported as a record failure rather than a fatal
// error; the error return is reserved for unreadable input.
func ParseJSON(r io.Reader) ([]ParsedRecord, []RecordError, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrFileUnreadable, err)
	}

	items, parseErr := decodeJSONItems(data)
	if parseErr != nil {
		return nil, []RecordError{{
			Position: 1,
			Err:      fmt.Errorf("%w: %v", ErrRecordParseFailed, parseErr),
		}}, nil
	}

	var records []ParsedRecord
	var recordErrors []RecordError

	for i, item := range items {
		position := i + 1

		var poi jsonPoi
		if err := json.Unmarshal(item, &poi); err != nil {
			recordErrors = append(recordErrors, RecordError{
				Position: position,
				Err:      fmt.Errorf("%w: %v", ErrRecordParseFailed, err),
			})
			continue
		}

		externalID := rawScalarString(poi.ID)

		missing := ""
		switch {
		case externalID == "":
			missing = "id"
		case strings.TrimSpace(poi.Name) == "":
			missing = "name"
		case rawScalarString(poi.Coordinates.Latitude) == "":
			missing = "coordinates.latitude"
		case rawScalarString(poi.Coordinates.Longitude) == "":
			missing = "coordinates.longitude"
		case strings.TrimSpace(poi.Category) == "":
			missing = "category"
		}
		if missing != "" {
			recordErrors = append(recordErrors, missingFieldError(position, externalID, missing))
			continue
		}

		ratings, err := decodeJSONRatings(poi.Ratings)
		if err != nil {
			recordErrors = append(recordErrors, RecordError{
				Position:   position,
				ExternalID: externalID,
				Err:        fmt.Errorf("%w: %v", ErrRecordParseFailed, err),
			})
			continue
		}

		records = append(records, ParsedRecord{
			Format:      FormatJSON,
			Position:    position,
			ExternalID:  externalID,
			Name:        strings.TrimSpace(poi.Name),
			Latitude:    rawScalarString(poi.Coordinates.Latitude),
			Longitude:   rawScalarString(poi.Coordinates.Longitude),
			Category:    strings.TrimSpace(poi.Category),
			Ratings:     ratings,
			Description: poi.Description,
		})
	}

	return records, recordErrors, nil
}

// decodeJSONItems splits the document into individual objects, accepting
// either a top-level array or a single object.
func decodeJSONItems(data []byte) ([]json.RawMessage, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, nil
	}

	if trimmed[0] == '[' {
		var items []json.RawMessage
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return nil, err
		}
		return items, nil
	}

	var item json.RawMessage
	if err := json.Unmarshal(trimmed, &item); err != nil {
		return nil, err
	}
	return []json.RawMessage{item}, nil
}

// decodeJSONRatings converts the raw ratings array into floats. A null
// entry is skipped; anything else non-numeric fails the record.
func decodeJSONRatings(raw []json.RawMessage) ([]float64, error) {
	ratings := make([]float64, 0, len(raw))
	for _, item := range raw {
		if bytes.Equal(bytes.TrimSpace(item), []byte("null")) {
			continue
		}
		var value float64
		if err := json.Unmarshal(item, &value); err != nil {
			return nil, fmt.Errorf("invalid rating value %s", item)
		}
		ratings = append(ratings, value)
	}
	return ratings, nil
}

// rawScalarString renders a raw JSON scalar (string or number) as a plain
// string. Returns "" for anything else.
func rawScalarString(raw json.RawMessage) string {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return ""
	}

	if trimmed[0] == '"' {
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return ""
		}
		return strings.TrimSpace(s)
	}

	var n json.Number
	if err := json.Unmarshal(trimmed, &n); err != nil {
		return ""
	}
	return n.String()
}
