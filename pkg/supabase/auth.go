package supabase

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

// Session is a GoTrue token pair. ID is a local handle that survives token
// refreshes.
type Session struct {
	ID           string
	AccessToken  string
	RefreshToken string
	ExpiresAt    time.Time
	User         User
}

type tokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
	ExpiresAt    int64  `json:"expires_at"`
	User         *User  `json:"user"`

	// Sign-up without auto-confirm answers with the bare user object.
	ID    string `json:"id"`
	Email string `json:"email"`
}

func (t *tokenResponse) session(id string) *Session {
	if t.AccessToken == "" {
		return nil
	}
	s := &Session{
		ID:           id,
		AccessToken:  t.AccessToken,
		RefreshToken: t.RefreshToken,
	}
	switch {
	case t.ExpiresAt > 0:
		s.ExpiresAt = time.Unix(t.ExpiresAt, 0)
	case t.ExpiresIn > 0:
		s.ExpiresAt = time.Now().Add(time.Duration(t.ExpiresIn) * time.Second)
	}
	if t.User != nil {
		s.User = *t.User
	}
	return s
}

func (t *tokenResponse) user() *User {
	if t.User != nil {
		return t.User
	}
	if t.ID != "" {
		return &User{ID: t.ID, Email: t.Email}
	}
	return nil
}

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SignUp registers a user. The session is nil when the project requires
// e-mail confirmation before the first sign-in.
func (c *Client) SignUp(ctx context.Context, email, password string) (*Session, *User, error) {
	var out tokenResponse
	resp, err := c.request("").
		SetContext(ctx).
		SetBody(credentials{Email: email, Password: password}).
		SetResult(&out).
		Post("/auth/v1/signup")
	if err := checkResponse(resp, err); err != nil {
		return nil, nil, err
	}

	session := out.session(uuid.NewString())
	if session != nil {
		c.emit(AuthEvent{Type: SignedIn, Session: session})
	}
	return session, out.user(), nil
}

func (c *Client) SignIn(ctx context.Context, email, password string) (*Session, error) {
	var out tokenResponse
	resp, err := c.request("").
		SetContext(ctx).
		SetQueryParam("grant_type", "password").
		SetBody(credentials{Email: email, Password: password}).
		SetResult(&out).
		Post("/auth/v1/token")
	if err := checkResponse(resp, err); err != nil {
		return nil, err
	}

	session := out.session(uuid.NewString())
	if session == nil {
		return nil, &Error{Status: http.StatusBadGateway, Message: "no session returned"}
	}
	c.emit(AuthEvent{Type: SignedIn, Session: session})
	return session, nil
}

func (c *Client) ResetPassword(ctx context.Context, email string) error {
	resp, err := c.request("").
		SetContext(ctx).
		SetBody(map[string]string{"email": email}).
		Post("/auth/v1/recover")
	return checkResponse(resp, err)
}

func (c *Client) GetUser(ctx context.Context, accessToken string) (*User, error) {
	var out User
	resp, err := c.request(accessToken).
		SetContext(ctx).
		SetResult(&out).
		Get("/auth/v1/user")
	if err := checkResponse(resp, err); err != nil {
		return nil, err
	}
	return &out, nil
}

// Refresh exchanges the refresh token for a new pair. The returned session
// keeps the handle of s.
func (c *Client) Refresh(ctx context.Context, s *Session) (*Session, error) {
	var out tokenResponse
	resp, err := c.request("").
		SetContext(ctx).
		SetQueryParam("grant_type", "refresh_token").
		SetBody(map[string]string{"refresh_token": s.RefreshToken}).
		SetResult(&out).
		Post("/auth/v1/token")
	if err := checkResponse(resp, err); err != nil {
		return nil, err
	}

	refreshed := out.session(s.ID)
	if refreshed == nil {
		return nil, &Error{Status: http.StatusBadGateway, Message: "no session returned"}
	}
	if refreshed.User.ID == "" {
		refreshed.User = s.User
	}
	c.emit(AuthEvent{Type: TokenRefreshed, Session: refreshed})
	return refreshed, nil
}

// SignOut revokes the session server side. SIGNED_OUT is emitted even when
// the revoke call fails so local state never outlives a sign-out request.
func (c *Client) SignOut(ctx context.Context, s *Session) error {
	resp, err := c.request(s.AccessToken).
		SetContext(ctx).
		Post("/auth/v1/logout")
	c.emit(AuthEvent{Type: SignedOut, Session: s})
	return checkResponse(resp, err)
}
