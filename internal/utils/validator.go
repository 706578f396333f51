package utils

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// ValidationError represents a single validation error
type ValidationError struct {
	Field   string `json:"field"`
	Tag     string `json:"tag"`
	Value   string `json:"value,omitempty"`
	Message string `json:"message,omitempty"`
}

// NewValidator builds a validator that reports json field names and knows the
// "strict_email" tag used by registration.
func NewValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	_ = v.RegisterValidation("strict_email", func(fl validator.FieldLevel) bool {
		return emailPattern.MatchString(fl.Field().String())
	})
	return v
}

// FormatValidationErrors converts validator.ValidationErrors into a slice of ValidationError
func FormatValidationErrors(err error) []ValidationError {
	if err == nil {
		return nil
	}

	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return nil
	}
	out := make([]ValidationError, len(ve))
	for i, fe := range ve {
		out[i] = ValidationError{
			Field: fe.Field(),
			Tag:   fe.Tag(),
		}
		if !strings.Contains(strings.ToLower(fe.Field()), "password") {
			out[i].Value = fmt.Sprintf("%v", fe.Value())
		}
		switch fe.Tag() {
		case "required":
			out[i].Message = fmt.Sprintf("%s is required", fe.Field())
		case "email", "strict_email":
			out[i].Message = "Invalid email format"
		case "min":
			if fe.Field() == "password" {
				out[i].Message = fmt.Sprintf("Password must be at least %s characters long", fe.Param())
			} else {
				out[i].Message = fmt.Sprintf("%s must be at least %s characters long", fe.Field(), fe.Param())
			}
		case "max":
			out[i].Message = fmt.Sprintf("%s must be at most %s characters long", fe.Field(), fe.Param())
		case "datetime":
			out[i].Message = fmt.Sprintf("%s must be a date in YYYY-MM-DD format", fe.Field())
		case "gte":
			out[i].Message = fmt.Sprintf("%s must be greater than or equal to %s", fe.Field(), fe.Param())
		default:
			out[i].Message = fmt.Sprintf("Validation failed on field '%s' for tag '%s'", fe.Field(), fe.Tag())
		}
	}
	return out
}
