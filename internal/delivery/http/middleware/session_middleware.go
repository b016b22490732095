package middleware

import (
	"interview-tayari/internal/domain"
	"interview-tayari/pkg/logger"

	"github.com/gin-gonic/gin"
)

// SessionKey is the gin context key holding the live *domain.Session.
const SessionKey = "session"

// SessionGate resolves the session cookie of a browser. It never aborts:
// pages decide themselves what an anonymous visitor sees. A cookie whose
// session is gone is cleared.
func SessionGate(sessions domain.SessionProvider, cookie CookieConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := c.Cookie(cookie.Name)
		if err != nil || id == "" {
			c.Next()
			return
		}

		s, err := sessions.Current(c.Request.Context(), id)
		if err != nil {
			logger.Log.Debugw("Session cookie without live session", "error", err)
			cookie.Clear(c)
			c.Next()
			return
		}

		c.Set(SessionKey, s)
		c.Set(string(domain.KeySessionID), s.ID)
		c.Set(string(domain.KeyUserID), s.User.ID)
		c.Set(string(domain.KeyUserEmail), s.User.Email)
		c.Request = c.Request.WithContext(domain.WithIdentity(c.Request.Context(), &domain.Identity{
			UserID:      s.User.ID,
			Email:       s.User.Email,
			AccessToken: s.AccessToken,
		}))
		c.Next()
	}
}

// CurrentSession returns the session resolved by SessionGate, or nil.
func CurrentSession(c *gin.Context) *domain.Session {
	v, ok := c.Get(SessionKey)
	if !ok {
		return nil
	}
	s, _ := v.(*domain.Session)
	return s
}
