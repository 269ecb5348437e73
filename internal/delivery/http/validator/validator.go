// Package validator adapts go-playground/validator to echo's Validator
// interface so handlers can call c.Validate on bound request DTOs.
package validator

import (
	domainerrors "gatehouse/internal/domain/errors"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

type structValidator struct {
	validate *validator.Validate
}

// New creates the validator installed on the echo server.
func New() echo.Validator {
	return &structValidator{
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
}

// Validate checks the struct tags on the given value. Failures surface as
// a validation AppError carrying the field-level detail.
func (v *structValidator) Validate(i any) error {
	if err := v.validate.Struct(i); err != nil {
		return domainerrors.ErrValidationFailed.WithDetails(err.Error())
	}

	return nil
}
