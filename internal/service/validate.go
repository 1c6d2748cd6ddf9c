package service

import (
	"github.com/go-playground/validator/v10"
	"github.com/msomdec/placeshare/internal/domain"
)

// validate is safe for concurrent use and caches struct metadata.
var validate = validator.New(validator.WithRequiredStructEnabled())

const invalidInputMessage = "Invalid inputs passed, please check your data!"

// validateInput checks v against its `validate` tags and reports any failure
// as a single KindInvalidInput error.
func validateInput(v any) error {
	if err := validate.Struct(v); err != nil {
		return domain.NewError(domain.KindInvalidInput, invalidInputMessage)
	}
	return nil
}
