package auth

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Context keys set by the middleware for downstream handlers.
const (
	ContextKeyUserID   = "auth_user_id"
	ContextKeyUsername = "auth_username"
)

// Middleware guards routes behind a valid admin session.
type Middleware struct {
	sessions *SessionManager
}

// NewMiddleware creates the auth middleware.
func NewMiddleware(sessions *SessionManager) *Middleware {
	return &Middleware{sessions: sessions}
}

// RequireAuth aborts with 401 unless the request carries a valid session.
func (m *Middleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !m.sessions.IsAuthenticated(c.Request) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			return
		}

		c.Set(ContextKeyUserID, m.sessions.GetUserID(c.Request))
		c.Set(ContextKeyUsername, m.sessions.GetUsername(c.Request))
		c.Next()
	}
}
