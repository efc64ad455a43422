package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Pinger reports whether the backing store is reachable.
type Pinger interface {
	Ping() error
}

// HealthController serves the liveness endpoint.
type HealthController struct {
	db      Pinger
	version string
}

func NewHealthController(db Pinger, version string) *HealthController {
	return &HealthController{db: db, version: version}
}

func (ctrl *HealthController) Health(c *gin.Context) {
	if ctrl.db != nil {
		if err := ctrl.db.Ping(); err != nil {
			c.IndentedJSON(http.StatusServiceUnavailable, gin.H{
				"status": "unhealthy",
				"error":  err.Error(),
			})
			return
		}
	}
	c.IndentedJSON(http.StatusOK, gin.H{
		"status":  "ok",
		"version": ctrl.version,
	})
}
