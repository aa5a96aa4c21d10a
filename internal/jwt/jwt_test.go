package jwt

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var secret = []byte("a-test-secret-that-is-long-enough-to-sign")

func TestGenerateAndValidate(t *testing.T) {
	raw, err := GenerateJWT(JWTParams{UserID: 42, Role: "admin"}, secret, DefaultKID)
	if err != nil {
		t.Fatalf("GenerateJWT() error = %v", err)
	}

	claims, err := ValidateJWT(raw, DefaultKID, secret)
	if err != nil {
		t.Fatalf("ValidateJWT() error = %v", err)
	}
	if claims.Role != "admin" {
		t.Errorf("Role = %q, want admin", claims.Role)
	}
	id, err := claims.UserID()
	if err != nil || id != 42 {
		t.Errorf("UserID() = %d, %v; want 42, nil", id, err)
	}
}

func TestValidateExpired(t *testing.T) {
	raw, err := GenerateJWT(JWTParams{
		UserID:   1,
		Role:     "user",
		IssuedAt: time.Now().Add(-2 * time.Hour),
		Duration: time.Hour,
	}, secret, DefaultKID)
	if err != nil {
		t.Fatalf("GenerateJWT() error = %v", err)
	}

	if _, err := ValidateJWT(raw, DefaultKID, secret); !errors.Is(err, jwt.ErrTokenExpired) {
		t.Errorf("ValidateJWT() error = %v, want ErrTokenExpired", err)
	}
}

func TestValidateRejects(t *testing.T) {
	raw, err := GenerateJWT(JWTParams{UserID: 1, Role: "user"}, secret, DefaultKID)
	if err != nil {
		t.Fatalf("GenerateJWT() error = %v", err)
	}

	tests := []struct {
		name    string
		raw     string
		version string
		secret  []byte
	}{
		{"wrong secret", raw, DefaultKID, []byte("another-secret-of-reasonable-length")},
		{"rotated version", raw, "2", secret},
		{"garbage", "not.a.token", DefaultKID, secret},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ValidateJWT(tt.raw, tt.version, tt.secret); err == nil {
				t.Error("ValidateJWT() succeeded, want error")
			}
		})
	}
}

func TestValidateRejectsNoneAlgorithm(t *testing.T) {
	token := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "1",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})
	token.Header["kid"] = DefaultKID
	raw, err := token.SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("SignedString() error = %v", err)
	}
	if _, err := ValidateJWT(raw, DefaultKID, secret); err == nil {
		t.Error("ValidateJWT() accepted an unsigned token")
	}
}

func TestClaimsUserID(t *testing.T) {
	for _, sub := range []string{"", "abc", "0", "-3"} {
		c := Claims{RegisteredClaims: jwt.RegisteredClaims{Subject: sub}}
		if _, err := c.UserID(); !errors.Is(err, ErrInvalidSubject) {
			t.Errorf("UserID() with subject %q error = %v, want ErrInvalidSubject", sub, err)
		}
	}
}
