package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"poiadmin/internal/entities"
	"poiadmin/internal/importers"
	"poiadmin/internal/services"
)

// PoisController serves the admin CRUD API for points of interest.
type PoisController struct {
	reader services.PoIReader
	writer services.PoIWriter
}

func NewPoisController(reader services.PoIReader, writer services.PoIWriter) *PoisController {
	return &PoisController{reader: reader, writer: writer}
}

// poiListItem is the compact shape used by the list view.
type poiListItem struct {
	InternalID uint    `json:"internal_id"`
	ExternalID string  `json:"external_id"`
	Name       string  `json:"name"`
	Category   string  `json:"category"`
	AvgRating  float64 `json:"avg_rating"`
}

// List returns points of interest, optionally narrowed by a free-text
// query (?q=) and a category filter (?category=).
func (ctrl *PoisController) List(c *gin.Context) {
	pois, err := ctrl.reader.List(c.Query("q"), c.Query("category"))
	if err != nil {
		c.IndentedJSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	items := make([]poiListItem, 0, len(pois))
	for _, poi := range pois {
		items = append(items, poiListItem{
			InternalID: poi.ID,
			ExternalID: poi.ExternalID,
			Name:       poi.Name,
			Category:   poi.Category,
			AvgRating:  poi.AvgRating,
		})
	}

	c.IndentedJSON(http.StatusOK, gin.H{"pois": items, "count": len(items)})
}

// Get returns one point of interest with all fields.
func (ctrl *PoisController) Get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	poi, err := ctrl.reader.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.IndentedJSON(http.StatusNotFound, gin.H{"error": "point of interest not found"})
			return
		}
		c.IndentedJSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.IndentedJSON(http.StatusOK, poi)
}

// poiRequest is the editable field set. The internal ID, average rating
// and timestamps are never accepted from the client.
type poiRequest struct {
	ExternalID  string    `json:"external_id" binding:"required"`
	Name        string    `json:"name" binding:"required"`
	Latitude    *float64  `json:"latitude" binding:"required"`
	Longitude   *float64  `json:"longitude" binding:"required"`
	Category    string    `json:"category" binding:"required"`
	Ratings     []float64 `json:"ratings"`
	Description string    `json:"description"`
}

func (r *poiRequest) apply(poi *entities.PointOfInterest) {
	poi.ExternalID = r.ExternalID
	poi.Name = r.Name
	poi.Coordinates = entities.Coordinates{Latitude: *r.Latitude, Longitude: *r.Longitude}
	poi.Category = r.Category
	poi.Ratings = entities.RatingList(r.Ratings)
	if poi.Ratings == nil {
		poi.Ratings = entities.RatingList{}
	}
	poi.AvgRating = importers.AverageRating(poi.Ratings)
	poi.Description = r.Description
}

// Create inserts a new point of interest from an admin request.
func (ctrl *PoisController) Create(c *gin.Context) {
	var req poiRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.IndentedJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var poi entities.PointOfInterest
	req.apply(&poi)

	if err := importers.Validate(&poi); err != nil {
		c.IndentedJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if existing, err := ctrl.reader.GetByExternalID(poi.ExternalID); err != nil {
		c.IndentedJSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	} else if existing != nil {
		c.IndentedJSON(http.StatusConflict, gin.H{"error": "external_id already exists"})
		return
	}

	if err := ctrl.writer.Create(&poi); err != nil {
		c.IndentedJSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.IndentedJSON(http.StatusCreated, poi)
}

// Update fully replaces the editable fields of an existing point of
// interest.
func (ctrl *PoisController) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req poiRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.IndentedJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	poi, err := ctrl.reader.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.IndentedJSON(http.StatusNotFound, gin.H{"error": "point of interest not found"})
			return
		}
		c.IndentedJSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	// The external ID may change, but not to one already taken.
	if req.ExternalID != poi.ExternalID {
		if existing, err := ctrl.reader.GetByExternalID(req.ExternalID); err != nil {
			c.IndentedJSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		} else if existing != nil {
			c.IndentedJSON(http.StatusConflict, gin.H{"error": "external_id already exists"})
			return
		}
	}

	req.apply(poi)

	if err := importers.Validate(poi); err != nil {
		c.IndentedJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := ctrl.writer.Update(poi); err != nil {
		c.IndentedJSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.IndentedJSON(http.StatusOK, poi)
}

// Delete removes a point of interest.
func (ctrl *PoisController) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := ctrl.writer.Delete(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.IndentedJSON(http.StatusNotFound, gin.H{"error": "point of interest not found"})
			return
		}
		c.IndentedJSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.IndentedJSON(http.StatusOK, gin.H{"status": "deleted"})
}

// Categories returns the distinct categories for the admin filter.
func (ctrl *PoisController) Categories(c *gin.Context) {
	categories, err := ctrl.reader.Categories()
	if err != nil {
		c.IndentedJSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.IndentedJSON(http.StatusOK, gin.H{"categories": categories})
}

// Stats returns totals for the admin dashboard.
func (ctrl *PoisController) Stats(c *gin.Context) {
	total, err := ctrl.reader.Count()
	if err != nil {
		c.IndentedJSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	byCategory, err := ctrl.reader.CountByCategory()
	if err != nil {
		c.IndentedJSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.IndentedJSON(http.StatusOK, gin.H{
		"total_pois": total,
		"categories": byCategory,
	})
}

func parseID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.IndentedJSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return 0, false
	}
	return uint(id), true
}
