// Package validator provides custom validation functions for Gin's binding engine.
package validator

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"reflect"
	"strings"
	"time"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
)

// flexibleTimeLayouts are tried in order. Layouts without a zone are read as UTC.
var flexibleTimeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	time.DateOnly,
}

// Register registers all custom validators with the Gin binding engine.
func Register() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("notblank", validators.NotBlank)
		_ = v.RegisterValidation("category_type", validateCategoryType)
		_ = v.RegisterValidation("flexdate", validateFlexDate)
		v.RegisterTagNameFunc(wireName)
	}
}

// wireName reports fields by the name clients send: the json key for bodies,
// the form key for query strings.
func wireName(f reflect.StructField) string {
	for _, key := range []string{"json", "form"} {
		name, _, _ := strings.Cut(f.Tag.Get(key), ",")
		if name == "-" {
			return ""
		}
		if name != "" {
			return name
		}
	}
	return f.Name
}

// Message turns a binding error into a client-facing sentence that names
// fields by their wire names and never exposes Go types.
func Message(err error) string {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		msgs := make([]string, 0, len(verrs))
		for _, fe := range verrs {
			msgs = append(msgs, fieldMessage(fe))
		}
		return strings.Join(msgs, "; ")
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Field != "" {
		return typeErr.Field + " has the wrong type"
	}
	var syntaxErr *json.SyntaxError
	if errors.As(err, &syntaxErr) || errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return "request body must be valid JSON"
	}
	return "request is malformed"
}

func fieldMessage(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "email":
		return field + " must be a valid email address"
	case "notblank":
		return field + " must not be blank"
	case "category_type":
		return field + " must be Expense or Income"
	case "flexdate":
		return field + " must be a YYYY-MM-DD date or an RFC 3339 timestamp"
	case "min", "max":
		bound := "at least"
		if fe.Tag() == "max" {
			bound = "at most"
		}
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must be %s %s characters", field, bound, fe.Param())
		}
		return fmt.Sprintf("%s must be %s %s", field, bound, fe.Param())
	}
	return field + " is invalid"
}

// ParseFlexibleTime accepts RFC 3339 timestamps, zone-less local timestamps
// and plain YYYY-MM-DD dates, and returns the instant in UTC.
func ParseFlexibleTime(s string) (time.Time, error) {
	var err error
	for _, layout := range flexibleTimeLayouts {
		var t time.Time
		if t, err = time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, err
}

func validateCategoryType(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "Expense", "Income":
		return true
	}
	return false
}

func validateFlexDate(fl validator.FieldLevel) bool {
	_, err := ParseFlexibleTime(fl.Field().String())
	return err == nil
}
