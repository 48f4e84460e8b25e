package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"storefront-checkout/pkg/jwt"
)

// ===================================
// CONSTANTS
// ===================================

const (
	ContextKeySessionID       = "session_id"
	ContextKeyUserID          = "user_id"
	ContextKeyIsAuthenticated = "is_authenticated"
	ContextKeyRequestID       = "request_id"
	ContextKeyClientIP        = "client_ip"
)

// ===================================
// SESSION COOKIE
// ===================================

type SessionCookieConfig struct {
	Name     string
	Domain   string
	Path     string
	Secure   bool
	MaxAge   int // seconds
	SameSite http.SameSite
}

// SessionMiddleware makes sure every request carries a session id. A missing
// or malformed cookie gets a fresh UUID.
func SessionMiddleware(cfg SessionCookieConfig) gin.HandlerFunc {
	if cfg.Path == "" {
		cfg.Path = "/"
	}

	return func(c *gin.Context) {
		sessionID := readSessionID(c, cfg.Name)
		if sessionID == "" {
			sessionID = uuid.NewString()
			c.SetSameSite(cfg.SameSite)
			c.SetCookie(cfg.Name, sessionID, cfg.MaxAge, cfg.Path, cfg.Domain, cfg.Secure, true)
		}

		c.Set(ContextKeySessionID, sessionID)
		c.Next()
	}
}

func readSessionID(c *gin.Context, name string) string {
	sessionID, err := c.Cookie(name)
	if err != nil || sessionID == "" {
		return ""
	}
	if _, err := uuid.Parse(sessionID); err != nil {
		return ""
	}
	return sessionID
}

// GetSessionID returns the id set by SessionMiddleware.
func GetSessionID(c *gin.Context) string {
	return c.GetString(ContextKeySessionID)
}

// ===================================
// OPTIONAL AUTH
// ===================================

// OptionalAuthMiddleware sets user_id when a valid bearer token is present.
// Anything else continues as a guest; the checkout decides what a guest may do.
func OptionalAuthMiddleware(tokens *jwt.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(ContextKeyIsAuthenticated, false)

		parts := strings.Fields(c.GetHeader("Authorization"))
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.Next()
			return
		}

		claims, err := tokens.ValidateAccessToken(parts[1])
		if err != nil {
			c.Next()
			return
		}

		userID, err := uuid.Parse(claims.UserID)
		if err != nil {
			c.Next()
			return
		}

		c.Set(ContextKeyIsAuthenticated, true)
		c.Set(ContextKeyUserID, userID)
		c.Next()
	}
}

// GetAuthenticatedUserID returns (id, true) for a logged in user.
func GetAuthenticatedUserID(c *gin.Context) (*uuid.UUID, bool) {
	if !c.GetBool(ContextKeyIsAuthenticated) {
		return nil, false
	}

	v, exists := c.Get(ContextKeyUserID)
	if !exists {
		return nil, false
	}
	uid, ok := v.(uuid.UUID)
	if !ok {
		return nil, false
	}
	return &uid, true
}
