package domain

import (
	"context"
	"strings"
)

type AuthMode string

const (
	AuthModeSignIn AuthMode = "signin"
	AuthModeSignUp AuthMode = "signup"
	AuthModeReset  AuthMode = "reset"
)

const MinPasswordLength = 6

func ParseAuthMode(v string) (AuthMode, error) {
	switch m := AuthMode(v); m {
	case AuthModeSignIn, AuthModeSignUp, AuthModeReset:
		return m, nil
	case "":
		return AuthModeSignIn, nil
	}
	return "", ErrUnknownAuthMode
}

// SuccessMessage is the confirmation shown after the mode's operation succeeds.
func (m AuthMode) SuccessMessage() string {
	switch m {
	case AuthModeSignUp:
		return "Account created successfully!"
	case AuthModeReset:
		return "Password reset link sent to your email!"
	}
	return "Welcome back!"
}

type AuthForm struct {
	Mode     AuthMode `json:"mode" form:"mode"`
	Email    string   `json:"email" form:"email"`
	Password string   `json:"password" form:"password"`
}

func (f AuthForm) Validate() error {
	if strings.TrimSpace(f.Email) == "" {
		return ErrFillRequired
	}
	if f.Mode == AuthModeReset {
		return nil
	}
	if f.Password == "" {
		return ErrFillRequired
	}
	if len(f.Password) < MinPasswordLength {
		return ErrPasswordTooShort
	}
	return nil
}

type AuthResult struct {
	Mode    AuthMode `json:"mode"`
	Message string   `json:"message"`
	// Session is nil for reset requests and for sign-ups that still need
	// e-mail confirmation.
	Session *Session `json:"-"`
	User    *User    `json:"user,omitempty"`
}

type AuthUsecase interface {
	Authenticate(ctx context.Context, form AuthForm) (*AuthResult, error)
	SignOut(ctx context.Context, session *Session) error
	CurrentUser(ctx context.Context, accessToken string) (*User, error)
}
