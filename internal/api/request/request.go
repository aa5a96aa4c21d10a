// Package request decodes and validates API request bodies and parameters.
package request

import (
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"regexp"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	apiError "github.com/matt-dz/foodgram/internal/api/error"
	"github.com/matt-dz/foodgram/internal/json"
)

const maxBodySize = 16 << 20

var (
	ErrInvalidBody = errors.New("invalid request body")
	ErrInvalidID   = errors.New("id should be a positive integer")
)

var (
	usernamePattern = regexp.MustCompile(`^[\w.@+-]+$`)
	slugPattern     = regexp.MustCompile(`^[-a-zA-Z0-9_]+$`)
)

var validate = func() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("username", func(fl validator.FieldLevel) bool {
		return usernamePattern.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("slug", func(fl validator.FieldLevel) bool {
		return slugPattern.MatchString(fl.Field().String())
	})
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		if name == "" {
			return f.Name
		}
		return name
	})
	return v
}()

// FieldErrors maps request fields to a description of what is wrong with
// them.
type FieldErrors map[string]string

func (f FieldErrors) Error() string {
	parts := make([]string, 0, len(f))
	for field, msg := range f {
		parts = append(parts, field+": "+msg)
	}
	return "invalid fields: " + strings.Join(parts, "; ")
}

// Decode reads a JSON body from r into dst and validates it. Validation
// failures are returned as FieldErrors; malformed bodies wrap ErrInvalidBody.
func Decode(w http.ResponseWriter, r *http.Request, dst any) error {
	defer func() { _ = r.Body.Close() }()
	body := http.MaxBytesReader(w, r.Body, maxBodySize)
	if err := json.DecodeJSON(body, dst); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidBody, err)
	}
	return Validate(dst)
}

// EncodeError writes the error body for a failed Decode or Validate.
func EncodeError(w http.ResponseWriter, err error, requestID string) error {
	var fields FieldErrors
	if errors.As(err, &fields) {
		return apiError.EncodeFieldErrors(w, fields, requestID)
	}
	return apiError.EncodeError(w, apiError.BadRequest, "invalid request body", requestID)
}

// Validate runs the struct's validate tags.
func Validate(v any) error {
	err := validate.Struct(v)
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		fields := make(FieldErrors, len(verrs))
		for _, fe := range verrs {
			fields[fieldPath(fe)] = describe(fe)
		}
		return fields
	}
	return err
}

func fieldPath(fe validator.FieldError) string {
	// Namespace is "<Struct>.<json path>"; drop the struct name.
	_, path, ok := strings.Cut(fe.Namespace(), ".")
	if !ok {
		return fe.Field()
	}
	return path
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "this field is required"
	case "email":
		return "enter a valid email address"
	case "min":
		switch fe.Kind() {
		case reflect.String:
			return "should have at least " + fe.Param() + " characters"
		case reflect.Slice:
			return "should have at least " + fe.Param() + " elements"
		}
		return "should be at least " + fe.Param()
	case "max":
		return "should be at most " + fe.Param()
	case "gte":
		return "should be greater than or equal to " + fe.Param()
	case "unique":
		return "should not contain duplicates"
	case "excludesall", "username", "slug":
		return "contains invalid characters"
	default:
		return "failed " + fe.Tag() + " validation"
	}
}

// PathID parses the chi URL parameter name as a positive int64.
func PathID(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id < 1 {
		return 0, ErrInvalidID
	}
	return id, nil
}

// QueryFlag reports whether the query parameter name equals "1" or "true".
func QueryFlag(r *http.Request, name string) bool {
	v := r.URL.Query().Get(name)
	return v == "1" || strings.EqualFold(v, "true")
}
