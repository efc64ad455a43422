package entities

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// RatingList is an ordered sequence of individual ratings for a point of
// interest. It is persisted as a JSON array in a single text column so the
// original ratings survive round-trips and the average can be recomputed
// at any time.
type RatingList []float64

// Value implements driver.Valuer for database storage.
func (r RatingList) Value() (driver.Value, error) {
	if r == nil {
		r = RatingList{}
	}
	data, err := json.Marshal(r)
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

// Scan implements sql.Scanner for database retrieval.
func (r *RatingList) Scan(value any) error {
	if value == nil {
		*r = RatingList{}
		return nil
	}

	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("cannot scan %T into RatingList", value)
	}

	if len(data) == 0 {
		*r = RatingList{}
		return nil
	}
	return json.Unmarshal(data, r)
}

// Coordinates is a latitude/longitude pair. Values are stored with seven
// decimal places of precision (roughly centimetre resolution).
type Coordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// PointOfInterest is the canonical entity produced by the import pipeline
// and managed through the admin API.
//
// ID is the system-assigned internal identifier and is never sourced from
// input files. ExternalID comes from the source file and is the natural key
// for upserts: importing a record with an already-known external ID fully
// replaces the stored fields rather than creating a duplicate.
type PointOfInterest struct {
	ID          uint        `gorm:"primaryKey" json:"internal_id"`
	ExternalID  string      `gorm:"uniqueIndex;size:100" json:"external_id"`
	Name        string      `gorm:"index;size:255" json:"name"`
	Coordinates Coordinates `gorm:"embedded" json:"coordinates"`
	Category    string      `gorm:"index;size:100" json:"category"`
	Ratings     RatingList  `gorm:"type:text" json:"ratings"`

	// AvgRating is derived from Ratings and recomputed on every write.
	// It is never accepted from input or API requests.
	AvgRating float64 `gorm:"index" json:"avg_rating"`

	Description string `gorm:"type:text" json:"description,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (PointOfInterest) TableName() string {
	return "points_of_interest"
}

// AdminUser is a local administrator account for the admin API.
type AdminUser struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Username     string    `gorm:"uniqueIndex;size:100" json:"username"`
	PasswordHash string    `gorm:"size:100" json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (AdminUser) TableName() string {
	return "admin_users"
}
