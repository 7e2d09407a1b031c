package serverutils

import (
	"notevault-be/internal/pkg/apperror"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// ValidateRequest checks a request DTO against its validate tags and
// converts failures into the validation error kind.
func ValidateRequest(req interface{}) error {
	if err := validate.Struct(req); err != nil {
		return apperror.Validation("invalid request: %v", err)
	}
	return nil
}
