package common

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks struct tags and renders the first failure as a short
// message naming the json field.
func Validate(value interface{}) error {
	err := validate.Struct(value)
	if err == nil {
		return nil
	}

	var fieldErrors validator.ValidationErrors
	if !errors.As(err, &fieldErrors) || len(fieldErrors) == 0 {
		return err
	}
	first := fieldErrors[0]
	field := lowerFirst(first.Field())
	switch first.Tag() {
	case "required":
		return fmt.Errorf("%s is required", field)
	case "max":
		return fmt.Errorf("%s is too long", field)
	case "gt", "gte":
		return fmt.Errorf("%s is out of range", field)
	default:
		return fmt.Errorf("%s is invalid", field)
	}
}

func lowerFirst(value string) string {
	if value == "" {
		return value
	}
	return strings.ToLower(value[:1]) + value[1:]
}
