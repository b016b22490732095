package request

import (
	"strings"

	"interview-tayari/pkg/apperror"
	"interview-tayari/pkg/validation"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// RegisterValidators installs the custom validation tags on gin's binding
// validator.
func RegisterValidators() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		validation.RegisterValidators(v)
	}
}

// BindError turns a binding failure into a 400 with readable field messages.
func BindError(err error) error {
	return apperror.New(400, strings.Join(validation.FormatValidationErrors(err), "; "), err)
}
