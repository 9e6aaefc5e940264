package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/techbites/storefront/internal/infrastructure/logger"
)

// SessionHeader lets API clients address their cart without cookies
const SessionHeader = "X-Session-ID"

// SessionConfig controls the storefront session cookie
type SessionConfig struct {
	CookieName string
	MaxAge     time.Duration
	Secure     bool
}

// DefaultSessionConfig returns the cookie settings used when none are configured
func DefaultSessionConfig() SessionConfig {
	return SessionConfig{
		CookieName: "techbites_session",
		MaxAge:     30 * 24 * time.Hour,
	}
}

// Session resolves the browser session that owns a cart.
// The X-Session-ID header wins over the cookie; a missing or malformed id
// is replaced by a fresh UUID and the cookie is (re)issued.
func Session(cfg SessionConfig) gin.HandlerFunc {
	if cfg.CookieName == "" {
		cfg.CookieName = DefaultSessionConfig().CookieName
	}

	return func(c *gin.Context) {
		sessionID, fromCookie := "", false
		if id := c.GetHeader(SessionHeader); validSessionID(id) {
			sessionID = id
		} else if id, err := c.Cookie(cfg.CookieName); err == nil && validSessionID(id) {
			sessionID, fromCookie = id, true
		}
		if sessionID == "" {
			sessionID = uuid.NewString()
		}

		if !fromCookie {
			http.SetCookie(c.Writer, &http.Cookie{
				Name:     cfg.CookieName,
				Value:    sessionID,
				Path:     "/",
				MaxAge:   int(cfg.MaxAge.Seconds()),
				Secure:   cfg.Secure,
				HttpOnly: true,
				SameSite: http.SameSiteLaxMode,
			})
		}

		c.Set(logger.GinSessionIDKey, sessionID)
		c.Writer.Header().Set(SessionHeader, sessionID)
		c.Request = c.Request.WithContext(logger.WithSessionID(c.Request.Context(), sessionID))
		c.Next()
	}
}

// GetSessionID returns the id resolved by Session
func GetSessionID(c *gin.Context) string {
	return c.GetString(logger.GinSessionIDKey)
}

func validSessionID(id string) bool {
	if id == "" {
		return false
	}
	_, err := uuid.Parse(id)
	return err == nil
}
