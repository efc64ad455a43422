// Package pois provides database operations for point-of-interest
// management.
//
// The Repository implements both the store interface consumed by the
// import pipeline (importers.Store) and the reader/writer interfaces used
// by the HTTP layer (services.PoIReader, services.PoIWriter).
package pois

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"poiadmin/internal/entities"
)

// Repository handles all point-of-interest database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new PoI repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// GetByID retrieves a point of interest by internal ID.
func (r *Repository) GetByID(id uint) (*entities.PointOfInterest, error) {
	var poi entities.PointOfInterest
	if err := r.db.First(&poi, id).Error; err != nil {
		return nil, err
	}
	return &poi, nil
}

// GetByExternalID retrieves a point of interest by its external (source)
// identifier. Returns (nil, nil) when no entity matches, so callers can
// distinguish absence from a failed lookup.
func (r *Repository) GetByExternalID(externalID string) (*entities.PointOfInterest, error) {
	var poi entities.PointOfInterest
	err := r.db.Where("external_id = ?", externalID).First(&poi).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &poi, nil
}

// GetAll retrieves all points of interest ordered by name.
func (r *Repository) GetAll() ([]entities.PointOfInterest, error) {
	var pois []entities.PointOfInterest
	err := r.db.Order("name ASC").Find(&pois).Error
	return pois, err
}

// List retrieves points of interest matching an optional free-text query
// and an optional category filter, ordered by name. The query matches the
// internal ID, external ID, name and category (case-insensitive partial
// match).
func (r *Repository) List(query, category string) ([]entities.PointOfInterest, error) {
	tx := r.db.Order("name ASC")

	if query != "" {
		pattern := "%" + query + "%"
		tx = tx.Where(
			"CAST(id AS TEXT) LIKE ? OR LOWER(external_id) LIKE LOWER(?) OR LOWER(name) LIKE LOWER(?) OR LOWER(category) LIKE LOWER(?)",
			pattern, pattern, pattern, pattern,
		)
	}
	if category != "" {
		tx = tx.Where("category = ?", category)
	}

	var pois []entities.PointOfInterest
	err := tx.Find(&pois).Error
	return pois, err
}

// Categories returns the distinct categories currently in use, sorted.
func (r *Repository) Categories() ([]string, error) {
	var categories []string
	err := r.db.Model(&entities.PointOfInterest{}).
		Distinct("category").
		Order("category ASC").
		Pluck("category", &categories).Error
	return categories, err
}

// Create inserts a new point of interest. The internal ID is assigned by
// the database and the caller must not set it.
func (r *Repository) Create(poi *entities.PointOfInterest) error {
	if err := r.db.Create(poi).Error; err != nil {
		return fmt.Errorf("failed to create poi %s: %w", poi.ExternalID, err)
	}
	return nil
}

// Update persists all fields of an existing point of interest. Select("*")
// makes this a full replacement so zero values (an emptied description, a
// cleared ratings list) are written too.
func (r *Repository) Update(poi *entities.PointOfInterest) error {
	if poi.ID == 0 {
		return fmt.Errorf("cannot update poi without internal id")
	}
	err := r.db.Model(poi).
		Select("*").
		Omit("id", "created_at").
		Updates(poi).Error
	if err != nil {
		return fmt.Errorf("failed to update poi %s: %w", poi.ExternalID, err)
	}
	return nil
}

// Delete removes a point of interest by internal ID.
func (r *Repository) Delete(id uint) error {
	result := r.db.Delete(&entities.PointOfInterest{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// DeleteAll removes every stored point of interest. Used by the import
// command's -clear flag.
func (r *Repository) DeleteAll() (int64, error) {
	result := r.db.Where("1 = 1").Delete(&entities.PointOfInterest{})
	return result.RowsAffected, result.Error
}

// Count returns the number of stored points of interest.
func (r *Repository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&entities.PointOfInterest{}).Count(&count).Error
	return count, err
}

// CountByCategory returns per-category totals for the stats endpoint.
func (r *Repository) CountByCategory() (map[string]int64, error) {
	type row struct {
		Category string
		Total    int64
	}
	var rows []row
	err := r.db.Model(&entities.PointOfInterest{}).
		Select("category, COUNT(*) AS total").
		Group("category").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int64, len(rows))
	for _, r := range rows {
		counts[r.Category] = r.Total
	}
	return counts, nil
}
