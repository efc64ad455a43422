package services

import "poiadmin/internal/entities"

// PoIReader provides read-only access to points of interest.
// Use this interface when you only need to query.
type PoIReader interface {
	GetByID(id uint) (*entities.PointOfInterest, error)
	GetByExternalID(externalID string) (*entities.PointOfInterest, error)
	List(query, category string) ([]entities.PointOfInterest, error)
	Categories() ([]string, error)
	Count() (int64, error)
	CountByCategory() (map[string]int64, error)
}

// PoIWriter mutates points of interest. The admin API is the only consumer
// that deletes; the import pipeline never does.
type PoIWriter interface {
	Create(poi *entities.PointOfInterest) error
	Update(poi *entities.PointOfInterest) error
	Delete(id uint) error
}
