package domain

import "context"

// Identity is the authenticated caller of a request.
type Identity struct {
	UserID      string
	Email       string
	AccessToken string
}

func (i *Identity) User() *User {
	return &User{ID: i.UserID, Email: i.Email}
}

type identityKey struct{}

func WithIdentity(ctx context.Context, id *Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

// IdentityFrom returns the caller stored in ctx, or nil.
func IdentityFrom(ctx context.Context) *Identity {
	id, _ := ctx.Value(identityKey{}).(*Identity)
	return id
}

// AccessTokenFrom returns the caller's access token, or "" for anonymous
// requests.
func AccessTokenFrom(ctx context.Context) string {
	if id := IdentityFrom(ctx); id != nil {
		return id.AccessToken
	}
	return ""
}
