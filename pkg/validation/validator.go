package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var (
	// validate is a singleton validator instance
	validate *validator.Validate

	// ErrNilStruct is returned when Struct is given a nil pointer.
	ErrNilStruct = errors.New("value to validate cannot be nil")
)

func init() {
	validate = validator.New(validator.WithRequiredStructEnabled())

	// Report yaml names so errors match the config file.
	validate.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("yaml"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})

	if err := validate.RegisterValidation("path", validatePath); err != nil {
		panic(err)
	}
}

// validatePath accepts "-" for the standard streams or a path free of
// control characters.
func validatePath(fl validator.FieldLevel) bool {
	p := fl.Field().String()
	if p == "-" {
		return true
	}
	return p != "" && !strings.ContainsFunc(p, func(r rune) bool { return r < 0x20 })
}

// Struct validates v against its `validate` tags and returns the first
// failure in a user-friendly format.
func Struct(v any) error {
	if v == nil {
		return ErrNilStruct
	}
	if rv := reflect.ValueOf(v); rv.Kind() == reflect.Pointer && rv.IsNil() {
		return ErrNilStruct
	}
	if err := validate.Struct(v); err != nil {
		return formatValidationError(err)
	}
	return nil
}

// formatValidationError converts validator errors to a more user-friendly format
func formatValidationError(err error) error {
	if err == nil {
		return nil
	}

	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return err
	}

	// Return the first validation error in a user-friendly format
	for _, e := range validationErrs {
		field := e.Field()
		param := e.Param()

		switch e.Tag() {
		case "required":
			return fmt.Errorf("%s: field is required", field)
		case "min", "gte":
			return fmt.Errorf("%s: must be at least %s, got %v", field, param, e.Value())
		case "max", "lte":
			return fmt.Errorf("%s: must not exceed %s, got %v", field, param, e.Value())
		case "oneof":
			return fmt.Errorf("%s: must be one of [%s], got %v", field, param, e.Value())
		case "url":
			return fmt.Errorf("%s: must be a URL", field)
		case "path":
			return fmt.Errorf("%s: invalid path %q", field, e.Value())
		default:
			return fmt.Errorf("%s: validation failed (%s)", field, e.Tag())
		}
	}

	return err
}
