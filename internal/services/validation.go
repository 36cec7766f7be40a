package services

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

const dateOnlyLayout = "2006-01-02"

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	_ = v.RegisterValidation("taskdate", func(fl validator.FieldLevel) bool {
		_, err := parseDueDate(fl.Field().String())
		return err == nil
	})

	return v
}

// parseDueDate accepts a calendar date or an RFC 3339 timestamp and returns
// the instant in UTC. A bare date means midnight UTC.
func parseDueDate(value string) (time.Time, error) {
	if t, err := time.Parse(dateOnlyLayout, value); err == nil {
		return t.UTC(), nil
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t.UTC(), nil
	}
	if t, err := time.Parse("2006-01-02 15:04:05", value); err == nil {
		return t.UTC(), nil
	}
	return time.Time{}, fmt.Errorf("invalid date %q", value)
}

// checkStruct validates a request struct and returns its failures keyed by
// JSON field name.
func checkStruct(input interface{}) *ValidationError {
	errs := NewValidationError()
	if err := validate.Struct(input); err != nil {
		var fieldErrs validator.ValidationErrors
		if !errors.As(err, &fieldErrs) {
			errs.Add("input", err.Error())
			return errs
		}
		for _, fe := range fieldErrs {
			errs.Add(fe.Field(), translate(fe.Field(), fe))
		}
	}
	return errs
}

// checkField validates a single value against tag and records any failures
// under field.
func checkField(errs *ValidationError, field string, value interface{}, tag string) {
	err := validate.Var(value, tag)
	if err == nil {
		return
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		errs.Add(field, err.Error())
		return
	}
	for _, fe := range fieldErrs {
		errs.Add(field, translate(field, fe))
	}
}

func translate(field string, fe validator.FieldError) string {
	attribute := strings.ReplaceAll(field, "_", " ")

	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("The %s field is required.", attribute)
	case "max":
		return fmt.Sprintf("The %s field must not be greater than %s characters.", attribute, fe.Param())
	case "min":
		return fmt.Sprintf("The %s field must be at least %s characters.", attribute, fe.Param())
	case "email":
		return fmt.Sprintf("The %s field must be a valid email address.", attribute)
	case "oneof", "uuid", "uuid4":
		return fmt.Sprintf("The selected %s is invalid.", attribute)
	case "taskdate":
		return fmt.Sprintf("The %s field must be a valid date.", attribute)
	case "hexcolor":
		return fmt.Sprintf("The %s field must be a valid hexadecimal color.", attribute)
	case "eqfield":
		return fmt.Sprintf("The %s field must match %s.", attribute, strings.ReplaceAll(fe.Param(), "_", " "))
	default:
		return fmt.Sprintf("The %s field is invalid.", attribute)
	}
}
