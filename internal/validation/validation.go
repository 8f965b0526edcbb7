package validation

import (
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/nyaruka/phonenumbers"
)

var (
	passwordCharset = regexp.MustCompile(`^[A-Za-z\d@$!%*?&]{8,}$`)
	hasUpper        = regexp.MustCompile(`[A-Z]`)
	hasLower        = regexp.MustCompile(`[a-z]`)
	hasDigit        = regexp.MustCompile(`\d`)
	hasSpecial      = regexp.MustCompile(`[@$!%*?&]`)
)

type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Type    string `json:"type"`
}

// Validator checks request DTOs against their validate tags.
type Validator struct {
	validate *validator.Validate
}

// New builds a Validator. Phone numbers without a leading + are parsed
// against defaultRegion.
func New(defaultRegion string) *Validator {
	v := validator.New()

	// report json field names instead of Go field names
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	_ = v.RegisterValidation("password", func(fl validator.FieldLevel) bool {
		return IsStrongPassword(fl.Field().String())
	})
	_ = v.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
		return IsValidPhoneNumber(fl.Field().String(), defaultRegion)
	})

	return &Validator{validate: v}
}

// Validate returns nil when obj satisfies every tag.
func (v *Validator) Validate(obj any) []FieldError {
	err := v.validate.Struct(obj)
	if err == nil {
		return nil
	}

	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return []FieldError{{Field: "", Message: err.Error(), Type: "invalid"}}
	}

	var fieldErrors []FieldError
	for _, fe := range validationErrors {
		fieldErrors = append(fieldErrors, FieldError{
			Field:   fe.Field(),
			Message: errorMessage(fe),
			Type:    fe.Tag(),
		})
	}
	return fieldErrors
}

func errorMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required"
	case "email":
		return "Invalid email format"
	case "phone":
		return "Invalid phone number"
	case "password":
		return "Password must be at least 8 characters long, contain an uppercase letter, a lowercase letter, a number, and a special character."
	case "datetime":
		return "Date must be in the format " + fe.Param()
	case "numeric":
		return "Value must be numeric"
	case "len":
		return "Value must be exactly " + fe.Param() + " characters long"
	case "min":
		return "Value must be at least " + fe.Param()
	default:
		return "Invalid value"
	}
}

// IsStrongPassword requires eight or more characters drawn from letters, digits
// and @$!%*?&, with at least one of each class.
func IsStrongPassword(password string) bool {
	return passwordCharset.MatchString(password) &&
		hasUpper.MatchString(password) &&
		hasLower.MatchString(password) &&
		hasDigit.MatchString(password) &&
		hasSpecial.MatchString(password)
}

// IsValidPhoneNumber treats an empty value as valid; use required to reject it.
func IsValidPhoneNumber(value, defaultRegion string) bool {
	if value == "" {
		return true
	}
	num, err := phonenumbers.Parse(value, defaultRegion)
	if err != nil {
		return false
	}
	return phonenumbers.IsValidNumber(num)
}
