// Package error defines the JSON error body returned by the API.
package error

import (
	"fmt"
	"net/http"

	"github.com/matt-dz/foodgram/internal/json"
)

// Error is the body of every failed API response.
type Error struct {
	Status  int               `json:"status"`
	Code    ErrorCode         `json:"code"`
	Message string            `json:"message"`
	ErrorID string            `json:"error_id"`
	Fields  map[string]string `json:"fields,omitempty"`
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s (%d): %s", e.Code, e.Status, e.Message)
}

func New(code ErrorCode, message, errorID string) *Error {
	return &Error{
		Status:  code.StatusCode(),
		Code:    code,
		Message: message,
		ErrorID: errorID,
	}
}

func Encode(w http.ResponseWriter, e *Error) error {
	return json.EncodeJSON(w, e.Status, e)
}

// EncodeError writes an error body for code.
func EncodeError(w http.ResponseWriter, code ErrorCode, message, errorID string) error {
	return Encode(w, New(code, message, errorID))
}

// EncodeFieldErrors writes a bad_request body listing the invalid fields.
func EncodeFieldErrors(w http.ResponseWriter, fields map[string]string, errorID string) error {
	e := New(BadRequest, "invalid request", errorID)
	e.Fields = fields
	return Encode(w, e)
}

func EncodeInternalError(w http.ResponseWriter, errorID string) error {
	return EncodeError(w, InternalServerError, "internal server error", errorID)
}
