package validation

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"

	"myflix/internal/apperr"
)

// Struct runs tag validation on a decoded request payload and converts the
// first broken tag into a client-facing message.
func Struct(v interface{}) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		field := strings.ToLower(fe.Field())
		switch fe.Tag() {
		case "required":
			return apperr.Validationf("%s is required", field)
		case "min":
			return apperr.Validationf("%s must contain at least %s entries", field, fe.Param())
		default:
			return apperr.Validationf("%s is invalid", field)
		}
	}
	return apperr.BadInput("Invalid payload")
}
