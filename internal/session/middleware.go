package session

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ideahouse/server/internal/logger"
	"github.com/ideahouse/server/internal/models"
	"github.com/ideahouse/server/internal/store"
)

// Context keys set by Identify.
const (
	ContextUserKey   = "user"
	ContextUserIDKey = "user_id"
)

// Gate resolves the caller's identity per request and enforces the two
// route classes: authenticated-only and anonymous-only.
type Gate struct {
	manager *Manager
	users   store.UserStore

	loginPath   string
	landingPath string
}

// NewGate creates a session gate. loginPath receives anonymous callers of
// protected routes; landingPath receives authenticated callers of
// anonymous-only routes.
func NewGate(manager *Manager, users store.UserStore, loginPath, landingPath string) *Gate {
	return &Gate{
		manager:     manager,
		users:       users,
		loginPath:   loginPath,
		landingPath: landingPath,
	}
}

// Identify resolves the session cookie to a user, if any, and stores the
// identity in the request context. It never blocks a request.
func (g *Gate) Identify() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(CookieName)
		if err != nil {
			c.Next()
			return
		}

		userID, err := g.manager.Resolve(c.Request.Context(), token)
		if err != nil || userID == "" {
			c.Next()
			return
		}

		user, err := g.users.GetByID(c.Request.Context(), userID)
		if err != nil {
			// Session points at a user that no longer resolves; treat as
			// anonymous rather than failing the request
			logger.WarnWithFields("session resolved to unknown user", err)
			c.Next()
			return
		}

		c.Set(ContextUserIDKey, user.ID)
		c.Set(ContextUserKey, user)
		c.Next()
	}
}

// RequireAuthenticated redirects anonymous callers to the login page.
func (g *Gate) RequireAuthenticated() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, exists := c.Get(ContextUserIDKey); !exists {
			c.Redirect(http.StatusFound, g.loginPath)
			c.Abort()
			return
		}
		c.Next()
	}
}

// RequireAnonymous redirects authenticated callers to their landing page.
func (g *Gate) RequireAnonymous() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, exists := c.Get(ContextUserIDKey); exists {
			c.Redirect(http.StatusFound, g.landingPath)
			c.Abort()
			return
		}
		c.Next()
	}
}

// CurrentUserID extracts the authenticated user's id from the request
// context.
func CurrentUserID(c *gin.Context) (string, bool) {
	v, exists := c.Get(ContextUserIDKey)
	if !exists {
		return "", false
	}
	id, ok := v.(string)
	return id, ok
}

// CurrentUser extracts the authenticated user from the request context.
func CurrentUser(c *gin.Context) (*models.User, bool) {
	v, exists := c.Get(ContextUserKey)
	if !exists {
		return nil, false
	}
	user, ok := v.(*models.User)
	return user, ok
}
