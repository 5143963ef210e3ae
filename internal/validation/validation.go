// Package validation wraps a shared validator instance for request
// payloads. Handlers call Validate after BodyParser and surface the
// first failure as an input error.
package validation

import (
	"fmt"
	"strings"

	errs "github.com/gungun88/merchant-platform-sub002/internal/errors"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// Validate checks struct tags on a request payload and converts the
// first failure into a domain input error.
func Validate(payload interface{}) error {
	err := validate.Struct(payload)
	if err == nil {
		return nil
	}

	verrs, ok := err.(validator.ValidationErrors)
	if !ok || len(verrs) == 0 {
		return errs.Invalid("invalid request payload")
	}
	fe := verrs[0]
	field := strings.ToLower(fe.Field())
	switch fe.Tag() {
	case "required":
		return errs.Invalid(fmt.Sprintf("%s is required", field))
	case "gt":
		return errs.Invalid(fmt.Sprintf("%s must be greater than %s", field, fe.Param()))
	case "gte":
		return errs.Invalid(fmt.Sprintf("%s must be at least %s", field, fe.Param()))
	case "email":
		return errs.Invalid(fmt.Sprintf("%s must be a valid email", field))
	case "oneof":
		return errs.Invalid(fmt.Sprintf("%s must be one of: %s", field, fe.Param()))
	default:
		return errs.Invalid(fmt.Sprintf("%s is invalid", field))
	}
}
