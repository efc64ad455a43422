package importers

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"poiadmin/internal/entities"
)

// coordinatePrecision keeps stored coordinates at seven decimal places.
const coordinatePrecision = 1e7

// Normalize maps a ParsedRecord into the canonical entity's transient
// form: identifiers, name, category and description are copied verbatim,
// the coordinate pair is coerced to floating point, and the decoded
// ratings are carried through unchanged. Pure transformation; the entity
// is not persisted and carries no internal ID.
func Normalize(record ParsedRecord) (*entities.PointOfInterest, error) {
	latitude, err := parseCoordinate("latitude", record.Latitude)
	if err != nil {
		return nil, err
	}
	longitude, err := parseCoordinate("longitude", record.Longitude)
	if err != nil {
		return nil, err
	}

	ratings := record.Ratings
	if ratings == nil {
		ratings = []float64{}
	}

	return &entities.PointOfInterest{
		ExternalID: record.ExternalID,
		Name:       record.Name,
		Coordinates: entities.Coordinates{
			Latitude:  latitude,
			Longitude: longitude,
		},
		Category:    record.Category,
		Ratings:     entities.RatingList(ratings),
		Description: record.Description,
	}, nil
}

func parseCoordinate(name, raw string) (float64, error) {
	value, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %s %q is not numeric", ErrInvalidCoordinate, name, raw)
	}
	return math.Round(value*coordinatePrecision) / coordinatePrecision, nil
}

// Validate checks the normalized entity against the import rules:
// external ID, name and category must be non-empty, latitude must lie in
// [-90, 90] and longitude in [-180, 180]. Individual ratings are not
// range-checked: out-of-scale values are accepted as-is.
func Validate(poi *entities.PointOfInterest) error {
	if strings.TrimSpace(poi.ExternalID) == "" {
		return fmt.Errorf("%w: external_id is empty", ErrValidationFailed)
	}
	if strings.TrimSpace(poi.Name) == "" {
		return fmt.Errorf("%w: name is empty", ErrValidationFailed)
	}
	if strings.TrimSpace(poi.Category) == "" {
		return fmt.Errorf("%w: category is empty", ErrValidationFailed)
	}
	if lat := poi.Coordinates.Latitude; lat < -90 || lat > 90 {
		return fmt.Errorf("%w: latitude %v out of range [-90, 90]", ErrInvalidCoordinate, lat)
	}
	if lon := poi.Coordinates.Longitude; lon < -180 || lon > 180 {
		return fmt.Errorf("%w: longitude %v out of range [-180, 180]", ErrInvalidCoordinate, lon)
	}
	return nil
}
