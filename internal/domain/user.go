package domain

import (
	"context"
	"strings"
	"time"
)

type User struct {
	ID        string    `json:"id"` // Supabase UUID
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

// DisplayName is the local part of the e-mail address.
func (u *User) DisplayName() string {
	if at := strings.Index(u.Email, "@"); at > 0 {
		return u.Email[:at]
	}
	return u.Email
}

// Session is an authenticated identity held for one browser. ID is the
// opaque handle given to the browser, the tokens never leave the server.
type Session struct {
	ID           string    `json:"id"`
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	ExpiresAt    time.Time `json:"expires_at"`
	User         User      `json:"user"`
}

func (s *Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && !now.Before(s.ExpiresAt)
}

type AuthEventType string

const (
	AuthEventSignedIn       AuthEventType = "SIGNED_IN"
	AuthEventSignedOut      AuthEventType = "SIGNED_OUT"
	AuthEventTokenRefreshed AuthEventType = "TOKEN_REFRESHED"
)

type AuthEvent struct {
	Type    AuthEventType
	Session *Session
}

// AuthFeed publishes session changes made through the auth service.
type AuthFeed interface {
	OnAuthStateChange(fn func(AuthEvent)) (unsubscribe func())
}

// AuthGateway is the remote auth service.
type AuthGateway interface {
	SignUp(ctx context.Context, email, password string) (*Session, *User, error)
	SignIn(ctx context.Context, email, password string) (*Session, error)
	ResetPassword(ctx context.Context, email string) error
	GetUser(ctx context.Context, accessToken string) (*User, error)
	SignOut(ctx context.Context, session *Session) error
	Refresh(ctx context.Context, session *Session) (*Session, error)
}

// SessionProvider resolves a browser session handle to a live session.
type SessionProvider interface {
	Current(ctx context.Context, sessionID string) (*Session, error)
}
