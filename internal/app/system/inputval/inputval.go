// internal/app/system/inputval/inputval.go

// Package inputval validates request input structs via `validate:"..."`
// tags and renders human-readable messages using the `label:"..."` tag.
package inputval

import (
	"fmt"
	"reflect"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Report the label tag instead of the Go field name.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		if label := fld.Tag.Get("label"); label != "" {
			return label
		}
		return fld.Name
	})
	return v
}

// Result holds the messages produced by Validate, in field order.
type Result struct {
	messages []string
}

// HasErrors reports whether any field failed validation.
func (r Result) HasErrors() bool { return len(r.messages) > 0 }

// First returns the first failure message, or "" when valid.
func (r Result) First() string {
	if len(r.messages) == 0 {
		return ""
	}
	return r.messages[0]
}

// All returns every failure message.
func (r Result) All() []string { return r.messages }

// Validate checks the struct's `validate` tags and returns a Result.
func Validate(input any) Result {
	err := validate.Struct(input)
	if err == nil {
		return Result{}
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return Result{messages: []string{"Input is invalid."}}
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, message(fe))
	}
	return Result{messages: msgs}
}

func message(fe validator.FieldError) string {
	name := fe.Field()
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required.", name)
	case "max":
		return fmt.Sprintf("%s must be at most %s characters.", name, fe.Param())
	case "min":
		return fmt.Sprintf("%s must be at least %s characters.", name, fe.Param())
	case "email":
		return fmt.Sprintf("%s must be a valid email address.", name)
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s.", name, fe.Param())
	case "gte":
		return fmt.Sprintf("%s must be at least %s.", name, fe.Param())
	case "lte":
		return fmt.Sprintf("%s must be at most %s.", name, fe.Param())
	default:
		return fmt.Sprintf("%s is invalid.", name)
	}
}
