package config

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Error reports missing or invalid configuration, naming each offending
// setting by its environment variable.
type Error struct {
	Missing []string
	Invalid []string
}

func (e *Error) Error() string {
	var parts []string
	if len(e.Missing) > 0 {
		parts = append(parts, "missing required configuration: "+strings.Join(e.Missing, ", "))
	}
	if len(e.Invalid) > 0 {
		parts = append(parts, "invalid configuration: "+strings.Join(e.Invalid, ", "))
	}
	return strings.Join(parts, "; ")
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		if name := field.Tag.Get("env"); name != "" {
			return name
		}
		return field.Name
	})
	return v
}

// ValidateDelivery checks that everything needed to send a notification is
// present. It must run before any network I/O.
func (c *Config) ValidateDelivery() error {
	err := validate.Struct(c.Delivery)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	cfgErr := &Error{}
	seen := make(map[string]bool)
	for _, fe := range verrs {
		name := fe.Field()
		if seen[name] {
			continue
		}
		seen[name] = true

		switch fe.Tag() {
		case "required", "min":
			cfgErr.Missing = append(cfgErr.Missing, name)
		default:
			cfgErr.Invalid = append(cfgErr.Invalid, name)
		}
	}
	return cfgErr
}
