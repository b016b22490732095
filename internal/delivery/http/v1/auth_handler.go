package v1

import (
	"net/http"
	"time"

	"interview-tayari/internal/delivery/http/request"
	"interview-tayari/internal/delivery/http/response"
	"interview-tayari/internal/domain"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	authUC domain.AuthUsecase
}

func NewAuthHandler(public *gin.RouterGroup, protected *gin.RouterGroup, authUC domain.AuthUsecase, limiter gin.HandlerFunc) {
	handler := &AuthHandler{authUC: authUC}

	publicAuth := public.Group("/auth")
	publicAuth.Use(limiter)
	{
		publicAuth.POST("/signin", handler.mode(domain.AuthModeSignIn))
		publicAuth.POST("/signup", handler.mode(domain.AuthModeSignUp))
		publicAuth.POST("/reset", handler.mode(domain.AuthModeReset))
	}

	protectedAuth := protected.Group("/auth")
	{
		protectedAuth.POST("/signout", handler.SignOut)
		protectedAuth.GET("/me", handler.Me)
	}
}

type AuthRequest struct {
	Email    string `json:"email" binding:"omitempty,email,max=254"`
	Password string `json:"password" binding:"max=72"`
}

type TokenResponse struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	ExpiresAt    time.Time `json:"expires_at"`
}

type AuthResponse struct {
	Mode    domain.AuthMode `json:"mode"`
	User    *domain.User    `json:"user,omitempty"`
	Session *TokenResponse  `json:"session,omitempty"`
}

func (h *AuthHandler) mode(mode domain.AuthMode) gin.HandlerFunc {
	return func(c *gin.Context) {
		h.authenticate(c, mode)
	}
}

// authenticate godoc
// @Summary      Sign in, sign up or request a password reset
// @Description  The mode is taken from the path. Sign-up answers without a session while the e-mail is unconfirmed.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        credentials  body      AuthRequest  true  "Credentials"
// @Success      200  {object}  response.Response{data=AuthResponse}
// @Failure      400  {object}  response.Response
// @Failure      429  {object}  response.Response
// @Router       /auth/signin [post]
// @Router       /auth/signup [post]
// @Router       /auth/reset [post]
func (h *AuthHandler) authenticate(c *gin.Context, mode domain.AuthMode) {
	var req AuthRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(request.BindError(err))
		return
	}

	result, err := h.authUC.Authenticate(c.Request.Context(), domain.AuthForm{
		Mode:     mode,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		c.Error(err)
		return
	}

	data := AuthResponse{Mode: result.Mode, User: result.User}
	if s := result.Session; s != nil {
		data.Session = &TokenResponse{
			AccessToken:  s.AccessToken,
			RefreshToken: s.RefreshToken,
			ExpiresAt:    s.ExpiresAt,
		}
	}
	response.Success(c, http.StatusOK, result.Message, data)
}

// SignOut godoc
// @Summary      Sign out
// @Description  Revokes the caller's access token.
// @Tags         auth
// @Produce      json
// @Success      200  {object}  response.Response
// @Failure      401  {object}  response.Response
// @Router       /auth/signout [post]
// @Security     BearerAuth
func (h *AuthHandler) SignOut(c *gin.Context) {
	token := c.GetString(string(domain.KeyAccessToken))
	if err := h.authUC.SignOut(c.Request.Context(), &domain.Session{AccessToken: token}); err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Signed out", nil)
}

// Me godoc
// @Summary      Current user
// @Tags         auth
// @Produce      json
// @Success      200  {object}  response.Response{data=domain.User}
// @Failure      401  {object}  response.Response
// @Router       /auth/me [get]
// @Security     BearerAuth
func (h *AuthHandler) Me(c *gin.Context) {
	user, err := h.authUC.CurrentUser(c.Request.Context(), c.GetString(string(domain.KeyAccessToken)))
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Current user", user)
}
