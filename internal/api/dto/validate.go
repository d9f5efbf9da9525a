package dto

import "github.com/go-playground/validator/v10"

var validate = validator.New()

// Validate checks struct-level validation tags on a request payload.
func Validate(payload any) error {
	return validate.Struct(payload)
}
