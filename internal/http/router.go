package http

import (
	"github.com/gin-gonic/gin"

	"poiadmin/internal/auth"
	"poiadmin/internal/importers"
	"poiadmin/internal/services"
	"poiadmin/internal/tasks"
)

// RouterConfig collects the dependencies of the HTTP layer. Auth fields
// may be nil, in which case every endpoint is open.
type RouterConfig struct {
	Reader services.PoIReader
	Writer services.PoIWriter
	DB     Pinger

	Pipeline   *importers.Pipeline
	TaskClient *tasks.Client
	UploadDir  string

	AuthService    *auth.Service
	AuthMiddleware *auth.Middleware
	SessionManager *auth.SessionManager
	CSRFSecret     []byte
	SecureCookies  bool

	Version string
}

// NewRouter creates and configures the HTTP router with all endpoints.
func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	router.Use(auth.SecurityHeadersMiddleware())

	// CSRF must run before session loading so the session context is
	// layered on top of the CSRF-wrapped request.
	if len(cfg.CSRFSecret) > 0 {
		router.Use(auth.CSRFMiddleware(cfg.CSRFSecret, cfg.SecureCookies))
	}
	if cfg.SessionManager != nil {
		router.Use(cfg.SessionManager.SessionLoadSave())
	}

	healthController := NewHealthController(cfg.DB, cfg.Version)
	router.GET("/health", healthController.Health)

	if cfg.AuthService != nil && cfg.AuthService.IsAuthEnabled() {
		authController := auth.NewController(cfg.AuthService, cfg.SessionManager)
		authController.RegisterRoutes(router)
	}

	poisController := NewPoisController(cfg.Reader, cfg.Writer)
	importController := NewImportController(cfg.Pipeline, cfg.TaskClient, cfg.UploadDir)

	api := router.Group("/api")

	// Reads stay open; mutations require a session when auth is enabled.
	api.GET("/pois", poisController.List)
	api.GET("/pois/categories", poisController.Categories)
	api.GET("/pois/:id", poisController.Get)
	api.GET("/stats", poisController.Stats)

	writes := api.Group("")
	if cfg.AuthMiddleware != nil {
		writes.Use(cfg.AuthMiddleware.RequireAuth())
	}
	writes.POST("/pois", poisController.Create)
	writes.PUT("/pois/:id", poisController.Update)
	writes.DELETE("/pois/:id", poisController.Delete)
	writes.POST("/import", importController.Import)

	return router
}
