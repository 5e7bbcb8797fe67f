// Package validation wraps go-playground/validator with the storefront's custom rules
// and converts its errors into apperrors.ValidationError values.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	"storefront/internal/models"
	"storefront/pkg/apperrors"
)

var basicEmail = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// New returns a validator that reports JSON field names and knows the storefront rules:
// basic_email, shipping_tier and payment_method.
func New() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	mustRegister(v, "basic_email", func(fl validator.FieldLevel) bool {
		return basicEmail.MatchString(fl.Field().String())
	})
	mustRegister(v, "shipping_tier", func(fl validator.FieldLevel) bool {
		_, ok := models.LookupShippingOption(models.ShippingTier(fl.Field().String()))
		return ok
	})
	mustRegister(v, "payment_method", func(fl validator.FieldLevel) bool {
		_, ok := models.LookupPaymentMethod(fl.Field().String())
		return ok
	})
	return v
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("register validation %s: %v", tag, err))
	}
}

// IsBasicEmail reports whether s looks like an email address.
func IsBasicEmail(s string) bool {
	return basicEmail.MatchString(s)
}

// First validates s and returns the first failing field as a *apperrors.ValidationError.
func First(v *validator.Validate, s interface{}) error {
	all := All(v, s)
	if len(all) == 0 {
		return nil
	}
	return all[0]
}

// All validates s and returns every failing field in declaration order.
func All(v *validator.Validate, s interface{}) []*apperrors.ValidationError {
	err := v.Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []*apperrors.ValidationError{apperrors.NewValidationError("", "invalid", err.Error())}
	}
	out := make([]*apperrors.ValidationError, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, fromFieldError(fe))
	}
	return out
}

func fromFieldError(fe validator.FieldError) *apperrors.ValidationError {
	field := fe.Field()
	var msg string
	switch fe.Tag() {
	case "required":
		msg = fmt.Sprintf("Please fill in the %s.", humanize(field))
	case "basic_email":
		msg = "Please enter a valid email address."
	case "shipping_tier":
		msg = "Please choose a shipping option."
	case "payment_method":
		msg = "Please choose a payment method."
	default:
		msg = fmt.Sprintf("Field '%s' failed on the '%s' tag", field, fe.Tag())
	}
	return apperrors.NewValidationError(field, fe.Tag(), msg)
}

// humanize turns "zipCode" into "zip code".
func humanize(field string) string {
	var b strings.Builder
	for i, r := range field {
		if r >= 'A' && r <= 'Z' {
			if i > 0 {
				b.WriteByte(' ')
			}
			b.WriteRune(r - 'A' + 'a')
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
