package httputil

import (
	"github.com/go-playground/validator/v10"

	"github.com/desempeno/evaluacion-backend/pkg/errors"
)

var validate = validator.New()

// Validate validates a struct using go-playground/validator
func Validate(v interface{}) error {
	if err := validate.Struct(v); err != nil {
		validationErrors := err.(validator.ValidationErrors)
		details := make(map[string]string)

		for _, e := range validationErrors {
			details[e.Field()] = formatValidationError(e)
		}

		return errors.Validation(details)
	}
	return nil
}

// ValidateWithKey validates a struct and maps a failure onto one message
// key. The legacy clients display a single fixed message per endpoint, so
// the per-field details are kept on the error but the body text stays the
// known one.
func ValidateWithKey(v interface{}, messageKey string) error {
	if err := Validate(v); err != nil {
		appErr := errors.BadRequest(messageKey)
		var validationErr *errors.AppError
		if errors.As(err, &validationErr) {
			appErr.Details = validationErr.Details
		}
		return appErr
	}
	return nil
}

func formatValidationError(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "this field is required"
	case "min":
		return "must be at least " + e.Param() + " characters"
	case "max":
		return "must be at most " + e.Param() + " characters"
	case "numeric":
		return "must be numeric"
	case "oneof":
		return "must be one of: " + e.Param()
	default:
		return "invalid value"
	}
}

// RegisterCustomValidation registers a custom validation function
func RegisterCustomValidation(tag string, fn validator.Func) error {
	return validate.RegisterValidation(tag, fn)
}
