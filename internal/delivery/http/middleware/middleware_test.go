package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"interview-tayari/internal/delivery/http/response"
	"interview-tayari/internal/domain"
	"interview-tayari/pkg/apperror"
	"interview-tayari/pkg/auth"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type stubVerifier struct{}

func (stubVerifier) Verify(token string) (*auth.Claims, error) {
	if token != "good" {
		return nil, auth.ErrInvalidToken
	}
	return &auth.Claims{
		Email:            "asha@example.com",
		RegisteredClaims: jwt.RegisteredClaims{Subject: "user-1"},
	}, nil
}

type stubSessions map[string]*domain.Session

func (s stubSessions) Current(_ context.Context, id string) (*domain.Session, error) {
	if session, ok := s[id]; ok {
		return session, nil
	}
	return nil, domain.ErrNoSession
}

func TestAuthMiddleware(t *testing.T) {
	r := gin.New()
	r.GET("/me", AuthMiddleware(stubVerifier{}), func(c *gin.Context) {
		id := domain.IdentityFrom(c.Request.Context())
		c.String(http.StatusOK, id.UserID+"|"+c.GetString(string(domain.KeyAccessToken)))
	})

	t.Run("Should reject requests without a bearer token", func(t *testing.T) {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/me", nil))
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("Should reject invalid tokens", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set("Authorization", "Bearer forged")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("Should put the caller into the request context", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set("Authorization", "Bearer good")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "user-1|good", w.Body.String())
	})
}

func TestSessionGate(t *testing.T) {
	cookie := CookieConfig{Name: "tayari_session", TTL: time.Hour}
	sessions := stubSessions{"s-1": {ID: "s-1", AccessToken: "tok", User: domain.User{ID: "user-1", Email: "a@b.co"}}}

	r := gin.New()
	r.GET("/", SessionGate(sessions, cookie), func(c *gin.Context) {
		if s := CurrentSession(c); s != nil {
			c.String(http.StatusOK, domain.AccessTokenFrom(c.Request.Context()))
			return
		}
		c.String(http.StatusOK, "anonymous")
	})

	t.Run("Should resolve a live session", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(&http.Cookie{Name: "tayari_session", Value: "s-1"})
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.Equal(t, "tok", w.Body.String())
	})

	t.Run("Should clear a cookie whose session is gone", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(&http.Cookie{Name: "tayari_session", Value: "gone"})
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.Equal(t, "anonymous", w.Body.String())
		assert.Contains(t, w.Header().Get("Set-Cookie"), "tayari_session=;")
	})
}

func TestCSRFMiddleware(t *testing.T) {
	r := gin.New()
	r.Use(CSRFMiddleware(false, "/api/"))
	r.POST("/submit", func(c *gin.Context) { c.String(http.StatusOK, "ok") })
	r.POST("/api/v1/experiences", func(c *gin.Context) { c.String(http.StatusOK, "api") })

	post := func(path, cookie, field string) *httptest.ResponseRecorder {
		form := url.Values{}
		if field != "" {
			form.Set(CSRFTokenFormField, field)
		}
		req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		if cookie != "" {
			req.AddCookie(&http.Cookie{Name: CSRFTokenCookieName, Value: cookie})
		}
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w
	}

	t.Run("Should reject a missing token", func(t *testing.T) {
		assert.Equal(t, http.StatusForbidden, post("/submit", "abc", "").Code)
	})

	t.Run("Should reject a mismatched token", func(t *testing.T) {
		assert.Equal(t, http.StatusForbidden, post("/submit", "abc", "xyz").Code)
	})

	t.Run("Should accept the form field echoing the cookie", func(t *testing.T) {
		assert.Equal(t, http.StatusOK, post("/submit", "abc", "abc").Code)
	})

	t.Run("Should skip exempt prefixes", func(t *testing.T) {
		assert.Equal(t, http.StatusOK, post("/api/v1/experiences", "", "").Code)
	})
}

func TestRateLimitInMemory(t *testing.T) {
	r := gin.New()
	r.Use(RateLimitMiddleware(nil, RateLimitConfig{Limit: 2, Window: time.Minute, KeyPrefix: "rl:test:"}))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
		codes = append(codes, w.Code)
	}
	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
}

func TestErrorHandler(t *testing.T) {
	r := gin.New()
	r.Use(RequestID(), ErrorHandler())
	r.GET("/app", func(c *gin.Context) { c.Error(apperror.BadRequest("Please fill in all company details")) })
	r.GET("/internal", func(c *gin.Context) { c.Error(errors.New("pq: connection refused")) })

	t.Run("Should render application errors with their status", func(t *testing.T) {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/app", nil))
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "Please fill in all company details")
		assert.NotEmpty(t, w.Header().Get(RequestIDHeader))
	})

	t.Run("Should hide internal errors", func(t *testing.T) {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/internal", nil))
		require.Equal(t, http.StatusInternalServerError, w.Code)
		assert.NotContains(t, w.Body.String(), "pq:")
	})
}

func TestRequestIDReuse(t *testing.T) {
	r := gin.New()
	r.Use(RequestID())
	r.GET("/", func(c *gin.Context) { c.String(http.StatusOK, c.GetString(response.RequestIDKey)) })

	const id = "6f1c1f5e-5d7a-4c55-9d8e-3d3b0f4f2a10"
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, id)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, id, w.Body.String())

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "<script>")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.NotEqual(t, "<script>", w.Body.String())
}
