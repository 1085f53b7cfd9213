package dto

import (
	"github.com/go-playground/validator/v10"

	"github.com/betaops/beta-manager/pkg/util"
)

var validate = validator.New()

// Validate runs struct tag validation and converts failures into a
// single validation error carrying per-field details.
func Validate(payload any) error {
	err := validate.Struct(payload)
	if err == nil {
		return nil
	}

	fieldErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return util.NewValidationError("invalid payload", nil)
	}

	details := make(map[string]any, len(fieldErrors))
	for _, fe := range fieldErrors {
		details[fe.Field()] = fe.Tag()
	}
	return util.NewValidationError("validation failed", details)
}
