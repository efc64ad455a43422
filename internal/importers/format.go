package importers

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Format identifies one of the supported input file kinds.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
	FormatXML  Format = "xml"
)

// DetectFormat selects a parser for the given file path based on its
// extension (case-insensitive). Detection is purely extension-based: there
// is no content sniffing.
func DetectFormat(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return FormatCSV, nil
	case ".json":
		return FormatJSON, nil
	case ".xml":
		return FormatXML, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, filepath.Ext(path))
	}
}
