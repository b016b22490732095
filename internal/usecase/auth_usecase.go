package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"interview-tayari/internal/domain"
	"interview-tayari/pkg/apperror"
	"interview-tayari/pkg/logger"
	"interview-tayari/pkg/security"
)

// LoginGuard locks an email out of sign-in after repeated failures.
type LoginGuard interface {
	IsBlocked(ctx context.Context, email string) (bool, error)
	RecordFailure(ctx context.Context, email string) (bool, int, error)
	Clear(ctx context.Context, email string) error
	BlockTTL(ctx context.Context, email string) (time.Duration, error)
}

type authUsecase struct {
	gateway domain.AuthGateway
	guard   LoginGuard
}

// NewAuthUsecase builds the auth usecase. guard may be nil.
func NewAuthUsecase(gateway domain.AuthGateway, guard LoginGuard) domain.AuthUsecase {
	return &authUsecase{gateway: gateway, guard: guard}
}

// Authenticate runs the operation of form.Mode. Remote failures come back
// with the auth service's message and are not retried.
func (u *authUsecase) Authenticate(ctx context.Context, form domain.AuthForm) (*domain.AuthResult, error) {
	mode, err := domain.ParseAuthMode(string(form.Mode))
	if err != nil {
		return nil, apperror.Validation(err)
	}
	form.Mode = mode
	form.Email = strings.TrimSpace(form.Email)

	if err := form.Validate(); err != nil {
		return nil, apperror.Validation(err)
	}

	result := &domain.AuthResult{Mode: mode, Message: mode.SuccessMessage()}

	switch mode {
	case domain.AuthModeReset:
		if err := u.gateway.ResetPassword(ctx, form.Email); err != nil {
			return nil, err
		}
	case domain.AuthModeSignUp:
		session, user, err := u.gateway.SignUp(ctx, form.Email, form.Password)
		if err != nil {
			return nil, err
		}
		result.Session = session
		result.User = user
		if user == nil && session != nil {
			result.User = &session.User
		}
	default:
		session, err := u.signIn(ctx, form)
		if err != nil {
			return nil, err
		}
		result.Session = session
		result.User = &session.User
	}

	logger.Log.Infow("Auth request succeeded", "mode", mode, "session", result.Session != nil)
	return result, nil
}

func (u *authUsecase) signIn(ctx context.Context, form domain.AuthForm) (*domain.Session, error) {
	if u.guard != nil {
		blocked, err := u.guard.IsBlocked(ctx, form.Email)
		if err != nil {
			logger.Log.Errorw("Login guard check failed", "error", err)
		}
		if blocked {
			security.LogEvent(ctx, security.SecurityEvent{Event: security.EventLoginBlocked, SubjectType: "email", SubjectValue: form.Email})
			return nil, u.blockedError(ctx, form.Email)
		}
	}

	session, err := u.gateway.SignIn(ctx, form.Email, form.Password)
	if err != nil {
		security.LogEvent(ctx, security.SecurityEvent{
			Event:        security.EventLoginFailed,
			SubjectType:  "email",
			SubjectValue: form.Email,
			Details:      map[string]interface{}{"reason": apperror.Message(err, "sign_in_failed")},
		})
		if u.guard != nil {
			blocked, attempts, gerr := u.guard.RecordFailure(ctx, form.Email)
			if gerr != nil {
				logger.Log.Errorw("Failed to record sign-in failure", "error", gerr)
			}
			if blocked {
				logger.Log.Warnw("Sign-in blocked after repeated failures", "attempts", attempts)
			}
		}
		return nil, err
	}

	if u.guard != nil {
		if err := u.guard.Clear(ctx, form.Email); err != nil {
			logger.Log.Errorw("Failed to clear sign-in failures", "error", err)
		}
	}
	security.LogEvent(ctx, security.SecurityEvent{Event: security.EventLoginSuccess, SubjectType: "user_id", SubjectValue: session.User.ID})
	return session, nil
}

func (u *authUsecase) blockedError(ctx context.Context, email string) error {
	minutes := 15
	if ttl, err := u.guard.BlockTTL(ctx, email); err == nil && ttl > 0 {
		minutes = int(ttl.Minutes()) + 1
	}
	return apperror.TooManyRequests(fmt.Sprintf("Too many failed sign-in attempts. Try again in %d minutes.", minutes))
}

func (u *authUsecase) SignOut(ctx context.Context, session *domain.Session) error {
	if session == nil {
		return nil
	}
	return u.gateway.SignOut(ctx, session)
}

func (u *authUsecase) CurrentUser(ctx context.Context, accessToken string) (*domain.User, error) {
	if accessToken == "" {
		return nil, apperror.Unauthorized("Not signed in")
	}
	return u.gateway.GetUser(ctx, accessToken)
}
