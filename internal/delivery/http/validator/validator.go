// Package validator adapts go-playground/validator to echo's Validator
// interface.
package validator

import (
	"github.com/go-playground/validator/v10"

	domainerrors "fulfillment/internal/domain/errors"
)

// Validator wraps the go-playground validate instance.
type Validator struct {
	validate *validator.Validate
}

// New creates the echo request validator.
func New() *Validator {
	return &Validator{validate: validator.New()}
}

// Validate implements echo.Validator, translating failures to the domain
// validation error so the error middleware renders them uniformly.
func (v *Validator) Validate(i any) error {
	if err := v.validate.Struct(i); err != nil {
		return domainerrors.ErrValidationFailed.WithDetails(err.Error())
	}

	return nil
}
