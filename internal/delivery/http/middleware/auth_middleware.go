package middleware

import (
	"net/http"
	"strings"

	"interview-tayari/internal/delivery/http/response"
	"interview-tayari/internal/domain"
	"interview-tayari/pkg/auth"
	"interview-tayari/pkg/logger"
	"interview-tayari/pkg/security"

	"github.com/gin-gonic/gin"
)

// TokenVerifier checks a bearer access token.
type TokenVerifier interface {
	Verify(token string) (*auth.Claims, error)
}

// AuthMiddleware requires a valid Supabase access token in the Authorization
// header. The caller is stored both in the gin context and in the request
// context, where repositories pick up the token for row-level security.
func AuthMiddleware(verifier TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		tokenString := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
		if authHeader == "" || tokenString == "" {
			response.Error(c, http.StatusUnauthorized, "Authorization header required", nil)
			c.Abort()
			return
		}

		claims, err := verifier.Verify(tokenString)
		if err != nil {
			logger.Log.Infow("Token validation failed", "error", err, "ip", c.ClientIP())
			security.LogEvent(c.Request.Context(), security.SecurityEvent{
				Event:     security.EventUnauthorizedAccess,
				IP:        c.ClientIP(),
				UserAgent: c.Request.UserAgent(),
				RequestID: c.GetString(response.RequestIDKey),
				Details:   map[string]interface{}{"path": c.FullPath()},
			})
			response.Error(c, http.StatusUnauthorized, "Invalid token", nil)
			c.Abort()
			return
		}

		identity := &domain.Identity{
			UserID:      claims.Subject,
			Email:       claims.Email,
			AccessToken: tokenString,
		}
		c.Set(string(domain.KeyUserID), identity.UserID)
		c.Set(string(domain.KeyUserEmail), identity.Email)
		c.Set(string(domain.KeyAccessToken), identity.AccessToken)
		c.Request = c.Request.WithContext(domain.WithIdentity(c.Request.Context(), identity))

		c.Next()
	}
}
