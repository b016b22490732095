package domain_test

import (
	"testing"

	"interview-tayari/internal/domain"

	"github.com/stretchr/testify/assert"
)

func TestAuthFormValidate(t *testing.T) {
	t.Run("Should require email in every mode", func(t *testing.T) {
		for _, mode := range []domain.AuthMode{domain.AuthModeSignIn, domain.AuthModeSignUp, domain.AuthModeReset} {
			form := domain.AuthForm{Mode: mode, Password: "secret1"}
			assert.ErrorIs(t, form.Validate(), domain.ErrFillRequired)
		}
	})

	t.Run("Should require a password of six characters to sign in", func(t *testing.T) {
		assert.ErrorIs(t, domain.AuthForm{Mode: domain.AuthModeSignIn, Email: "a@b.c"}.Validate(), domain.ErrFillRequired)
		assert.ErrorIs(t, domain.AuthForm{Mode: domain.AuthModeSignUp, Email: "a@b.c", Password: "12345"}.Validate(), domain.ErrPasswordTooShort)
		assert.NoError(t, domain.AuthForm{Mode: domain.AuthModeSignUp, Email: "a@b.c", Password: "123456"}.Validate())
	})

	t.Run("Should not need a password to reset", func(t *testing.T) {
		assert.NoError(t, domain.AuthForm{Mode: domain.AuthModeReset, Email: "a@b.c"}.Validate())
	})
}

func TestParseAuthMode(t *testing.T) {
	mode, err := domain.ParseAuthMode("")
	assert.NoError(t, err)
	assert.Equal(t, domain.AuthModeSignIn, mode)

	mode, err = domain.ParseAuthMode("reset")
	assert.NoError(t, err)
	assert.Equal(t, "Password reset link sent to your email!", mode.SuccessMessage())

	_, err = domain.ParseAuthMode("magic")
	assert.ErrorIs(t, err, domain.ErrUnknownAuthMode)

	assert.Equal(t, "Welcome back!", domain.AuthModeSignIn.SuccessMessage())
	assert.Equal(t, "Account created successfully!", domain.AuthModeSignUp.SuccessMessage())
}
