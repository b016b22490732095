package supabase

import (
	"context"

	"interview-tayari/internal/domain"
	sb "interview-tayari/pkg/supabase"
)

// authGateway adapts the Supabase auth client to the domain gateway and feed.
type authGateway struct {
	client *sb.Client
}

type AuthGateway interface {
	domain.AuthGateway
	domain.AuthFeed
}

func NewAuthGateway(client *sb.Client) AuthGateway {
	return &authGateway{client: client}
}

func (g *authGateway) SignUp(ctx context.Context, email, password string) (*domain.Session, *domain.User, error) {
	session, user, err := g.client.SignUp(ctx, email, password)
	if err != nil {
		return nil, nil, mapError(err)
	}
	return toDomainSession(session), toDomainUser(user), nil
}

func (g *authGateway) SignIn(ctx context.Context, email, password string) (*domain.Session, error) {
	session, err := g.client.SignIn(ctx, email, password)
	if err != nil {
		return nil, mapError(err)
	}
	return toDomainSession(session), nil
}

func (g *authGateway) ResetPassword(ctx context.Context, email string) error {
	if err := g.client.ResetPassword(ctx, email); err != nil {
		return mapError(err)
	}
	return nil
}

func (g *authGateway) GetUser(ctx context.Context, accessToken string) (*domain.User, error) {
	user, err := g.client.GetUser(ctx, accessToken)
	if err != nil {
		return nil, mapError(err)
	}
	return toDomainUser(user), nil
}

func (g *authGateway) SignOut(ctx context.Context, session *domain.Session) error {
	if err := g.client.SignOut(ctx, fromDomainSession(session)); err != nil {
		return mapError(err)
	}
	return nil
}

func (g *authGateway) Refresh(ctx context.Context, session *domain.Session) (*domain.Session, error) {
	refreshed, err := g.client.Refresh(ctx, fromDomainSession(session))
	if err != nil {
		return nil, mapError(err)
	}
	return toDomainSession(refreshed), nil
}

func (g *authGateway) OnAuthStateChange(fn func(domain.AuthEvent)) func() {
	return g.client.OnAuthStateChange(func(e sb.AuthEvent) {
		fn(domain.AuthEvent{
			Type:    domain.AuthEventType(e.Type),
			Session: toDomainSession(e.Session),
		})
	})
}

func toDomainUser(u *sb.User) *domain.User {
	if u == nil {
		return nil
	}
	return &domain.User{ID: u.ID, Email: u.Email, CreatedAt: u.CreatedAt}
}

func toDomainSession(s *sb.Session) *domain.Session {
	if s == nil {
		return nil
	}
	return &domain.Session{
		ID:           s.ID,
		AccessToken:  s.AccessToken,
		RefreshToken: s.RefreshToken,
		ExpiresAt:    s.ExpiresAt,
		User:         *toDomainUser(&s.User),
	}
}

func fromDomainSession(s *domain.Session) *sb.Session {
	return &sb.Session{
		ID:           s.ID,
		AccessToken:  s.AccessToken,
		RefreshToken: s.RefreshToken,
		ExpiresAt:    s.ExpiresAt,
		User:         sb.User{ID: s.User.ID, Email: s.User.Email, CreatedAt: s.User.CreatedAt},
	}
}
