package core

import (
	"errors"
	"log/slog"

	"github.com/go-playground/validator/v10"

	"skycast/internal/types"
)

// Validator wraps go-playground/validator for request struct validation.
type Validator struct {
	validate *validator.Validate
	logger   *slog.Logger
}

// NewValidator creates a Validator using struct tag rules.
func NewValidator(logger *slog.Logger) *Validator {
	return &Validator{
		validate: validator.New(validator.WithRequiredStructEnabled()),
		logger:   logger,
	}
}

// ValidateStruct checks dst against its validate tags and converts failures
// into a field-keyed AppError suitable for the error envelope.
func (v *Validator) ValidateStruct(dst interface{}) error {
	err := v.validate.Struct(dst)
	if err == nil {
		return nil
	}

	var invalid *validator.InvalidValidationError
	if errors.As(err, &invalid) {
		return types.NewAppError(types.ErrCodeInternalUnexpected,
			"validation invoked on unsupported type", err)
	}

	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) {
		details := make(map[string]any, len(fieldErrs))
		for _, fe := range fieldErrs {
			details[fe.Field()] = "failed rule: " + fe.Tag()
		}
		return types.NewAppErrorWithDetails(types.ErrCodeValidationMissingField,
			"request validation failed", err, details)
	}

	return types.NewAppError(types.ErrCodeInternalUnexpected, "validation failed", err)
}
