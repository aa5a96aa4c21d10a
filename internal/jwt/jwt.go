// Package jwt issues and validates the HS256 access tokens used by the API.
package jwt

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	DefaultKID  = "1"
	JWTDuration = 24 * time.Hour
)

var ErrInvalidSubject = errors.New("invalid token subject")

// Claims are the claims carried by an access token. The subject is the
// user id.
type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// UserID parses the subject as a user id.
func (c *Claims) UserID() (int64, error) {
	id, err := strconv.ParseInt(c.Subject, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidSubject, c.Subject)
	}
	return id, nil
}

type JWTParams struct {
	UserID   int64
	Role     string
	IssuedAt time.Time
	Duration time.Duration
}

// GenerateJWT signs a token for params with secret. version is written to
// the kid header.
func GenerateJWT(params JWTParams, secret []byte, version string) (string, error) {
	issued := params.IssuedAt
	if issued.IsZero() {
		issued = time.Now()
	}
	duration := params.Duration
	if duration == 0 {
		duration = JWTDuration
	}

	claims := Claims{
		Role: params.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(params.UserID, 10),
			IssuedAt:  jwt.NewNumericDate(issued),
			ExpiresAt: jwt.NewNumericDate(issued.Add(duration)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	token.Header["kid"] = version

	signed, err := token.SignedString(secret)
	if err != nil {
		return "", fmt.Errorf("signing token: %w", err)
	}
	return signed, nil
}

// ValidateJWT parses rawToken and checks its signature, expiry and kid.
// Expired tokens fail with an error wrapping jwt.ErrTokenExpired.
func ValidateJWT(rawToken, version string, secret []byte) (*Claims, error) {
	keyFunc := func(token *jwt.Token) (any, error) {
		kid, ok := token.Header["kid"].(string)
		if !ok {
			return nil, errors.New("missing or invalid kid")
		}
		if kid != version {
			return nil, fmt.Errorf("unknown kid %q", kid)
		}
		return secret, nil
	}

	var claims Claims
	_, err := jwt.ParseWithClaims(rawToken, &claims, keyFunc,
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, err
	}
	return &claims, nil
}
