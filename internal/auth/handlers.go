package auth

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Controller exposes login, logout and first-run setup endpoints.
type Controller struct {
	service  *Service
	sessions *SessionManager
}

// NewController creates the auth controller.
func NewController(service *Service, sessions *SessionManager) *Controller {
	return &Controller{service: service, sessions: sessions}
}

// RegisterRoutes attaches the auth endpoints to the router.
func (ctrl *Controller) RegisterRoutes(router *gin.Engine) {
	router.POST("/auth/setup", ctrl.Setup)
	router.POST("/auth/login", ctrl.Login)
	router.POST("/auth/logout", ctrl.Logout)
	router.GET("/auth/session", ctrl.Session)
}

type credentialsRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Setup creates the first administrator account. Once any account exists
// the endpoint is closed.
func (ctrl *Controller) Setup(c *gin.Context) {
	hasUsers, err := ctrl.service.HasUsers()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if hasUsers {
		c.JSON(http.StatusForbidden, gin.H{"error": "setup already completed"})
		return
	}

	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "username and password are required"})
		return
	}

	user, err := ctrl.service.CreateAdmin(req.Username, req.Password)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"username": user.Username})
}

// Login verifies credentials and starts a session.
func (ctrl *Controller) Login(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "username and password are required"})
		return
	}

	user, err := ctrl.service.Authenticate(req.Username, req.Password)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid username or password"})
		return
	}

	if err := ctrl.sessions.CreateSession(c.Request, user); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create session"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"username":   user.Username,
		"csrf_token": GetCSRFToken(c),
	})
}

// Logout destroys the current session.
func (ctrl *Controller) Logout(c *gin.Context) {
	if err := ctrl.sessions.DestroySession(c.Request); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to destroy session"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "logged out"})
}

// Session reports whether the caller is authenticated.
func (ctrl *Controller) Session(c *gin.Context) {
	if !ctrl.sessions.IsAuthenticated(c.Request) {
		c.JSON(http.StatusOK, gin.H{"authenticated": false})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"authenticated": true,
		"username":      ctrl.sessions.GetUsername(c.Request),
		"csrf_token":    GetCSRFToken(c),
	})
}
