package importers

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strings"
)

// xmlElement captures an element and its direct children without committing
// to fixed tag names, since real exports vary between pid/id/poi_id style
// naming.
type xmlElement struct {
	XMLName xml.Name
	Fields  []xmlField `xml:",any"`
}

type xmlField struct {
	XMLName xml.Name
	Value   string `xml:",chardata"`
}

// Accepted tag aliases per logical field, in preference order.
var xmlFieldAliases = map[string][]string{
	"pid":        {"pid", "id", "poi_id"},
	"pname":      {"pname", "name", "poi_name"},
	"platitude":  {"platitude", "latitude", "poi_latitude"},
	"plongitude": {"plongitude", "longitude", "poi_longitude"},
	"pcategory":  {"pcategory", "category", "poi_category"},
	"pratings":   {"pratings", "ratings", "poi_ratings"},
}

var xmlRequiredFields = []string{"pid", "pname", "platitude", "plongitude", "pcategory"}

// ParseXML parses an XML point-of-interest file. Records are <poi> or
// <point_of_interest> elements at any depth; when neither is present the
// root element itself is treated as a single record. Ratings are a bare
// comma-separated string ("4.5,4.2").
//
// A malformed document is reported as a record failure rather than a fatal
// error; the error return is reserved for unreadable input.
func ParseXML(r io.Reader) ([]ParsedRecord, []RecordError, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrFileUnreadable, err)
	}

	elements, parseErr := scanXMLRecordElements(data)
	if parseErr != nil {
		records, recordErrors, _ := buildXMLRecords(elements)
		recordErrors = append(recordErrors, RecordError{
			Position: len(elements) + 1,
			Err:      fmt.Errorf("%w: %v", ErrRecordParseFailed, parseErr),
		})
		return records, recordErrors, nil
	}

	if len(elements) == 0 {
		// No <poi> wrappers: treat the root element as a single record.
		var root xmlElement
		if err := xml.Unmarshal(data, &root); err != nil {
			return nil, []RecordError{{
				Position: 1,
				Err:      fmt.Errorf("%w: %v", ErrRecordParseFailed, err),
			}}, nil
		}
		elements = append(elements, root)
	}

	return buildXMLRecords(elements)
}

// scanXMLRecordElements walks the token stream collecting every record
// element regardless of nesting depth.
func scanXMLRecordElements(data []byte) ([]xmlElement, error) {
	decoder := xml.NewDecoder(bytes.NewReader(data))
	var elements []xmlElement

	for {
		token, err := decoder.Token()
		if err == io.EOF {
			return elements, nil
		}
		if err != nil {
			return elements, err
		}

		start, ok := token.(xml.StartElement)
		if !ok {
			continue
		}

		name := strings.ToLower(start.Name.Local)
		if name != "poi" && name != "point_of_interest" {
			continue
		}

		var element xmlElement
		if err := decoder.DecodeElement(&element, &start); err != nil {
			return elements, err
		}
		elements = append(elements, element)
	}
}

func buildXMLRecords(elements []xmlElement) ([]ParsedRecord, []RecordError, error) {
	var records []ParsedRecord
	var recordErrors []RecordError

	for i, element := range elements {
		position := i + 1

		externalID := xmlFieldValue(element, "pid")

		missing := ""
		for _, field := range xmlRequiredFields {
			if xmlFieldValue(element, field) == "" {
				missing = field
				break
			}
		}
		if missing != "" {
			recordErrors = append(recordErrors, missingFieldError(position, externalID, missing))
			continue
		}

		ratings, err := ParseRatingList(xmlFieldValue(element, "pratings"))
		if err != nil {
			recordErrors = append(recordErrors, RecordError{
				Position:   position,
				ExternalID: externalID,
				Err:        fmt.Errorf("%w: %v", ErrRecordParseFailed, err),
			})
			continue
		}

		records = append(records, ParsedRecord{
			Format:     FormatXML,
			Position:   position,
			ExternalID: externalID,
			Name:       xmlFieldValue(element, "pname"),
			Latitude:   xmlFieldValue(element, "platitude"),
			Longitude:  xmlFieldValue(element, "plongitude"),
			Category:   xmlFieldValue(element, "pcategory"),
			Ratings:    ratings,
		})
	}

	return records, recordErrors, nil
}

func xmlFieldValue(element xmlElement, field string) string {
	for _, alias := range xmlFieldAliases[field] {
		for _, child := range element.Fields {
			if strings.ToLower(child.XMLName.Local) == alias {
				return strings.TrimSpace(child.Value)
			}
		}
	}
	return ""
}
