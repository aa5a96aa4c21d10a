package config

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

func splitFieldList(param string) []string {
	return strings.FieldsFunc(param, func(r rune) bool {
		return r == ',' || r == ' '
	})
}

// allOrNothing is a cross-field validator attached to a placeholder field.
// The tag parameter lists sibling fields (`allOrNothing=A B C`); validation
// passes when they are all zero or all non-zero. Nil pointers and interfaces
// count as zero. An unknown field name fails validation.
func allOrNothing(fl validator.FieldLevel) bool {
	parent := fl.Parent()
	if parent.Kind() == reflect.Pointer {
		if parent.IsNil() {
			return true
		}
		parent = parent.Elem()
	}
	if parent.Kind() != reflect.Struct {
		return false
	}

	names := splitFieldList(fl.Param())
	if len(names) == 0 {
		return false
	}

	var zero, nonZero bool
	for _, name := range names {
		f := parent.FieldByName(name)
		if !f.IsValid() {
			return false
		}
		for (f.Kind() == reflect.Pointer || f.Kind() == reflect.Interface) && !f.IsNil() {
			f = f.Elem()
		}
		if f.IsZero() {
			zero = true
		} else {
			nonZero = true
		}
		if zero && nonZero {
			return false
		}
	}
	return true
}

func newValidator() *validator.Validate {
	validate := validator.New(validator.WithRequiredStructEnabled())
	_ = validate.RegisterValidation("allOrNothing", allOrNothing)
	return validate
}

var groupFields = map[string]string{
	"Database": "host, port, database, user and password",
	"Admin":    "username, email, password, first_name and last_name",
	"Keys":     "access_key and secret_key",
}

func formatValidationError(err error) error {
	validationErrs, ok := err.(validator.ValidationErrors) //nolint:errorlint
	if !ok {
		return err
	}

	for _, e := range validationErrs {
		if e.Tag() != "allOrNothing" {
			continue
		}
		// "Config.Admin.Validate" -> "Admin"
		parts := strings.Split(e.Namespace(), ".")
		var group string
		if len(parts) >= 2 { //nolint:mnd
			group = parts[len(parts)-2]
		}
		fields, ok := groupFields[group]
		if !ok {
			fields = "all related fields"
		}
		return fmt.Errorf(
			"%s configuration is incomplete: either all fields must be set (%s) or all must be empty",
			group, fields)
	}
	return err
}
