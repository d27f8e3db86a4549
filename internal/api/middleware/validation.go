package middleware

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	apierrors "github.com/aken1023/care-sch/internal/api/errors"
)

// Validator interface for domain validation
type Validator interface {
	Validate() error
}

// ValidateQuery binds query parameters and checks their binding tags.
func ValidateQuery(c *gin.Context, req interface{}) error {
	if err := c.ShouldBindQuery(req); err != nil {
		var validationErrs validator.ValidationErrors
		if !errors.As(err, &validationErrs) {
			return apierrors.NewBadRequestError("Invalid query parameters")
		}

		fields := make(map[string]string, len(validationErrs))
		for _, fieldError := range validationErrs {
			fields[strings.ToLower(fieldError.Field())] = describe(fieldError)
		}
		return apierrors.NewValidationError("Validation failed", fields)
	}

	if v, ok := req.(Validator); ok {
		if err := v.Validate(); err != nil {
			return err
		}
	}

	return nil
}

func describe(fieldError validator.FieldError) string {
	switch fieldError.Tag() {
	case "required":
		return "is required"
	case "len":
		return "must be " + fieldError.Param() + " characters"
	case "numeric":
		return "must be numeric"
	case "min":
		return "is too small"
	case "max":
		return "is too large"
	default:
		return "is invalid"
	}
}
