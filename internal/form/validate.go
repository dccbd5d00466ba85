package form

import (
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

var (
	fullNamePattern = regexp.MustCompile(`^[A-Za-z ]+$`)
	phonePattern    = regexp.MustCompile(`^0[789][01]\d{8}$`)

	// MinAmount is the smallest accepted amount.
	MinAmount = decimal.RequireFromString("0.01")
)

// FullNameValidator accepts letters and spaces only.
var FullNameValidator = func(fl validator.FieldLevel) bool {
	return fullNamePattern.MatchString(fl.Field().String())
}

// PhoneValidator validates phone numbers in the national format, e.g. 08123456789.
var PhoneValidator = func(fl validator.FieldLevel) bool {
	return phonePattern.MatchString(fl.Field().String())
}

// AmountValidator accepts decimal strings of at least MinAmount.
var AmountValidator = func(fl validator.FieldLevel) bool {
	d, err := decimal.NewFromString(fl.Field().String())
	if err != nil {
		return false
	}
	return d.GreaterThanOrEqual(MinAmount)
}

// NewValidator returns a validator with the submission rules registered.
// Reported field names follow the json tags.
func NewValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})
	_ = v.RegisterValidation("fullname", FullNameValidator)
	_ = v.RegisterValidation("phoneformat", PhoneValidator)
	_ = v.RegisterValidation("amount", AmountValidator)
	return v
}
