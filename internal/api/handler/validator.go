package handler

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/paylink/payment-portal/internal/core/domain"
)

// echoValidator wraps go-playground/validator so Echo can call c.Validate(req).
type echoValidator struct {
	v *validator.Validate
}

// NewValidator returns an echoValidator ready to be assigned to
// echo.Echo.Validator. It registers the portal's custom field tags:
//
//	id_number      13-digit national id
//	account_number 10 to 16 digits
//	payee_account  8 to 34 uppercase alphanumerics
//	swift_code     ISO 9362 BIC, 8 or 11 characters
func NewValidator() *echoValidator {
	v := validator.New()

	mustRegister(v, "id_number", func(fl validator.FieldLevel) bool {
		return domain.ValidIDNumber(fl.Field().String())
	})
	mustRegister(v, "account_number", func(fl validator.FieldLevel) bool {
		return domain.ValidAccountNumber(fl.Field().String())
	})
	mustRegister(v, "payee_account", func(fl validator.FieldLevel) bool {
		return domain.ValidPayeeAccount(fl.Field().String())
	})
	mustRegister(v, "swift_code", func(fl validator.FieldLevel) bool {
		return domain.ValidSwiftCode(fl.Field().String())
	})

	return &echoValidator{v: v}
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("handler: register validation %q: %v", tag, err))
	}
}

// Validate satisfies the echo.Validator interface.
func (ev *echoValidator) Validate(i any) error {
	if err := ev.v.Struct(i); err != nil {
		var ve validator.ValidationErrors
		if errors.As(err, &ve) {
			msgs := make([]string, 0, len(ve))
			for _, fe := range ve {
				msgs = append(msgs, fieldError(fe))
			}
			return fmt.Errorf("%s", strings.Join(msgs, "; "))
		}
		return err
	}
	return nil
}

// fieldError converts a single ValidationError into a human-readable message.
func fieldError(fe validator.FieldError) string {
	field := strings.ToLower(fe.Field())
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "email":
		return field + " must be a valid email"
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, fe.Param())
	case "id_number":
		return field + " must be exactly 13 digits"
	case "account_number":
		return field + " must be 10 to 16 digits"
	case "payee_account":
		return field + " must be 8 to 34 uppercase letters or digits"
	case "swift_code":
		return field + " must be a valid SWIFT/BIC code"
	default:
		return fmt.Sprintf("%s failed validation (%s)", field, fe.Tag())
	}
}
