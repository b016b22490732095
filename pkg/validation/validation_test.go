package validation

import (
	"errors"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	CompanyName string `validate:"required,valid_name"`
	Country     string `validate:"required,no_emoji"`
	Password    string `validate:"min=6"`
	Type        string `validate:"question_type"`
	Difficulty  string `validate:"difficulty"`
}

func newValidator() *validator.Validate {
	v := validator.New()
	RegisterValidators(v)
	return v
}

func TestFormatValidationErrors(t *testing.T) {
	err := newValidator().Struct(sample{
		CompanyName: "",
		Country:     "India 🚀",
		Password:    "123",
		Type:        "Trivia",
		Difficulty:  "Extreme",
	})
	require.Error(t, err)

	messages := FormatValidationErrors(err)
	assert.Equal(t, []string{
		"Company name is required",
		"Country must not contain emoji or symbols",
		"Password must be at least 6 characters",
		"Question type is not a known question type",
		"Difficulty must be Easy, Medium or Hard",
	}, messages)
}

func TestFormatValidationErrorsPassThrough(t *testing.T) {
	assert.Equal(t, []string{"boom"}, FormatValidationErrors(errors.New("boom")))
}

func TestValidName(t *testing.T) {
	v := newValidator()
	assert.NoError(t, v.Var("Tata Consultancy (TCS)", "valid_name"))
	assert.NoError(t, v.Var("AT&T", "valid_name"))
	assert.Error(t, v.Var("<script>", "valid_name"))
}
