package importers

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ParseRatingList decodes a textual ratings list into individual float
// values. CSV files encode ratings as a bracketed list literal
// ("[4.5, 4.2]") and XML files as a bare comma-separated string
// ("4.5,4.2"); both are accepted. An empty string decodes to an empty
// list. A non-numeric element is an error so the caller can report the
// record as failed.
func ParseRatingList(raw string) ([]float64, error) {
	raw = strings.TrimSpace(raw)
	raw = strings.Trim(raw, "[](){}")
	if strings.TrimSpace(raw) == "" {
		return []float64{}, nil
	}

	parts := strings.Split(raw, ",")
	ratings := make([]float64, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		value, err := strconv.ParseFloat(part, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid rating value %q", part)
		}
		ratings = append(ratings, value)
	}
	return ratings, nil
}

// AverageRating returns the arithmetic mean of the ratings rounded to one
// decimal place, or 0 for an empty list.
func AverageRating(ratings []float64) float64 {
	if len(ratings) == 0 {
		return 0
	}
	var sum float64
	for _, r := range ratings {
		sum += r
	}
	return math.Round(sum/float64(len(ratings))*10) / 10
}
