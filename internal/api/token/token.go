// Package token issues access tokens and reads them back from requests.
package token

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/matt-dz/foodgram/internal/env"
	"github.com/matt-dz/foodgram/internal/jwt"
	"github.com/matt-dz/foodgram/internal/role"
)

var (
	ErrNoUser       = errors.New("no authenticated user in context")
	ErrNoAppSecret  = errors.New("app secret not configured")
	ErrNoAuthHeader = errors.New("no access token in request")
)

// Authorization header schemes accepted for access tokens.
var schemes = []string{"Token", "Bearer"}

func AccessTokenName(env *env.Env) string {
	if env.Config.IsProd() {
		return "__Host-Http-access"
	}
	return "access"
}

func secret(env *env.Env) ([]byte, string, error) {
	value := env.Config.AppSecret.Value
	if value == nil || *value == "" {
		return nil, "", ErrNoAppSecret
	}
	version := env.Config.AppSecret.Version
	if version == "" {
		version = jwt.DefaultKID
	}
	return []byte(*value), version, nil
}

func CreateAccessToken(env *env.Env, userID int64, r role.Role) (string, error) {
	key, version, err := secret(env)
	if err != nil {
		return "", err
	}
	token, err := jwt.GenerateJWT(jwt.JWTParams{UserID: userID, Role: r.String()}, key, version)
	if err != nil {
		return "", fmt.Errorf("generating access token: %w", err)
	}
	return token, nil
}

func ValidateAccessToken(env *env.Env, raw string) (*jwt.Claims, error) {
	key, version, err := secret(env)
	if err != nil {
		return nil, err
	}
	return jwt.ValidateJWT(raw, version, key)
}

func NewAccessTokenCookie(token string, env *env.Env) *http.Cookie {
	return &http.Cookie{
		Name:     AccessTokenName(env),
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		MaxAge:   int(jwt.JWTDuration.Seconds()),
		SameSite: http.SameSiteLaxMode,
		Secure:   env.Config.IsProd(),
	}
}

// ExpiredAccessTokenCookie clears the access cookie.
func ExpiredAccessTokenCookie(env *env.Env) *http.Cookie {
	cookie := NewAccessTokenCookie("", env)
	cookie.MaxAge = -1
	return cookie
}

// FromRequest returns the raw access token of r, taken from the
// Authorization header ("Token <jwt>" or "Bearer <jwt>") or else the access
// cookie.
func FromRequest(r *http.Request, env *env.Env) (string, error) {
	if header := r.Header.Get("Authorization"); header != "" {
		scheme, value, ok := strings.Cut(header, " ")
		value = strings.TrimSpace(value)
		if ok && value != "" {
			for _, s := range schemes {
				if strings.EqualFold(scheme, s) {
					return value, nil
				}
			}
		}
		return "", fmt.Errorf("malformed authorization header: %w", ErrNoAuthHeader)
	}

	cookie, err := r.Cookie(AccessTokenName(env))
	if err != nil || cookie.Value == "" {
		return "", ErrNoAuthHeader
	}
	return cookie.Value, nil
}

type userKeyType struct{}

var userKey userKeyType

// User is the authenticated caller of a request.
type User struct {
	ID   int64
	Role role.Role
}

func UserWithCtx(ctx context.Context, user User) context.Context {
	return context.WithValue(ctx, userKey, user)
}

// UserFromCtx returns the authenticated user, or ErrNoUser for anonymous
// requests.
func UserFromCtx(ctx context.Context) (User, error) {
	if user, ok := ctx.Value(userKey).(User); ok {
		return user, nil
	}
	return User{}, ErrNoUser
}

// UserIDFromCtx returns the authenticated user's id, or 0 for anonymous
// requests.
func UserIDFromCtx(ctx context.Context) int64 {
	user, _ := UserFromCtx(ctx)
	return user.ID
}
