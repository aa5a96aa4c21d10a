// Package password checks the strength of user passwords.
package password

import (
	"errors"
	"strings"
	"unicode"

	passwordvalidator "github.com/wagslane/go-password-validator"
)

const (
	MinimumLength      = 8
	MinimumEntropyBits = 50

	// attributes shorter than this are not checked for similarity.
	minAttributeLength = 3
)

var (
	ErrTooShort        = errors.New("password must be at least 8 characters long")
	ErrEntirelyNumeric = errors.New("password must not be entirely numeric")
	ErrTooSimilar      = errors.New("password is too similar to the user's personal information")
	ErrTooWeak         = errors.New("password is too weak")
)

// ValidatePassword rejects short, all-digit and low-entropy passwords, and
// passwords containing one of userAttributes (username, email, names).
func ValidatePassword(password string, userAttributes ...string) error {
	if len([]rune(password)) < MinimumLength {
		return ErrTooShort
	}

	if isNumeric(password) {
		return ErrEntirelyNumeric
	}

	lowered := strings.ToLower(password)
	for _, attr := range userAttributes {
		for _, part := range attributeParts(attr) {
			if strings.Contains(lowered, part) {
				return ErrTooSimilar
			}
		}
	}

	if err := passwordvalidator.Validate(password, MinimumEntropyBits); err != nil {
		return errors.Join(ErrTooWeak, err)
	}
	return nil
}

func isNumeric(s string) bool {
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

// attributeParts splits an attribute such as "jane.doe@example.com" into the
// lowercase parts worth comparing against.
func attributeParts(attr string) []string {
	attr = strings.ToLower(attr)
	if local, _, ok := strings.Cut(attr, "@"); ok {
		attr = local
	}
	var parts []string
	for _, part := range strings.FieldsFunc(attr, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	}) {
		if len([]rune(part)) >= minAttributeLength {
			parts = append(parts, part)
		}
	}
	return parts
}
