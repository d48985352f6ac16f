package server

import (
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

// CustomValidator wraps the validator
type CustomValidator struct {
	validator *validator.Validate
}

// Validate validates structs
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}

// NewValidator returns the request validator with the custom tags
// registered and json field names in error messages.
func NewValidator() *CustomValidator {
	v := validator.New()

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	// Registration only fails for an empty tag or nil func.
	_ = v.RegisterValidation("strongpassword", validateStrongPassword)

	return &CustomValidator{validator: v}
}

var (
	passwordCharset = regexp.MustCompile(`^[A-Za-z\d@$!%*?&]{8,}$`)
	passwordClasses = []*regexp.Regexp{
		regexp.MustCompile(`[a-z]`),
		regexp.MustCompile(`[A-Z]`),
		regexp.MustCompile(`\d`),
		regexp.MustCompile(`[@$!%*?&]`),
	}
)

// IsStrongPassword requires eight or more characters drawn from letters,
// digits and @$!%*?&, with at least one of each class.
func IsStrongPassword(password string) bool {
	if !passwordCharset.MatchString(password) {
		return false
	}
	for _, class := range passwordClasses {
		if !class.MatchString(password) {
			return false
		}
	}
	return true
}

func validateStrongPassword(fl validator.FieldLevel) bool {
	return IsStrongPassword(fl.Field().String())
}
