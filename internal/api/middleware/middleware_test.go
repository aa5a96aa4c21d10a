package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/matt-dz/foodgram/internal/api/requestid"
	"github.com/matt-dz/foodgram/internal/api/token"
	"github.com/matt-dz/foodgram/internal/config"
	"github.com/matt-dz/foodgram/internal/env"
	"github.com/matt-dz/foodgram/internal/json"
	"github.com/matt-dz/foodgram/internal/jwt"
	"github.com/matt-dz/foodgram/internal/role"

	apiError "github.com/matt-dz/foodgram/internal/api/error"
)

const testSecret = "a-test-secret-that-is-long-enough-to-sign"

func testEnv() *env.Env {
	secret := config.AppSecretValue(testSecret)
	return env.New(nil, nil, nil, &config.Config{
		AppSecret: config.AppSecret{Value: &secret, Version: "1"},
		Env:       config.EnvDev,
	})
}

func signToken(t *testing.T, params jwt.JWTParams) string {
	t.Helper()
	raw, err := jwt.GenerateJWT(params, []byte(testSecret), "1")
	if err != nil {
		t.Fatalf("GenerateJWT() error = %v", err)
	}
	return raw
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) apiError.Error {
	t.Helper()
	var body apiError.Error
	if err := json.DecodeJSON(rec.Body, &body); err != nil {
		t.Fatalf("decoding error body: %v", err)
	}
	return body
}

func TestAddRequestID(t *testing.T) {
	var got uint64
	h := AddRequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = requestid.ExtractRequestID(r.Context())
	}))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	if got == 0 {
		t.Error("request id not injected")
	}
}

func TestAuthenticate(t *testing.T) {
	e := testEnv()
	valid := signToken(t, jwt.JWTParams{UserID: 7, Role: "user"})
	expired := signToken(t, jwt.JWTParams{
		UserID:   7,
		Role:     "user",
		IssuedAt: time.Now().Add(-2 * time.Hour),
		Duration: time.Hour,
	})

	tests := []struct {
		name       string
		header     string
		wantStatus int
		wantCode   apiError.ErrorCode
		wantUser   int64
	}{
		{name: "anonymous", wantStatus: http.StatusOK},
		{name: "token scheme", header: "Token " + valid, wantStatus: http.StatusOK, wantUser: 7},
		{name: "bearer scheme", header: "Bearer " + valid, wantStatus: http.StatusOK, wantUser: 7},
		{name: "expired", header: "Token " + expired, wantStatus: http.StatusUnauthorized, wantCode: apiError.ExpiredAccessToken},
		{name: "garbage", header: "Token nope", wantStatus: http.StatusUnauthorized, wantCode: apiError.InvalidAccessToken},
		{name: "bad scheme", header: "Basic abc", wantStatus: http.StatusUnauthorized, wantCode: apiError.InvalidAccessToken},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotUser int64
			h := InjectEnv(e)(Authenticate(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				gotUser = token.UserIDFromCtx(r.Context())
			})))

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if tt.wantCode != "" {
				if body := decodeError(t, rec); body.Code != tt.wantCode {
					t.Errorf("code = %q, want %q", body.Code, tt.wantCode)
				}
			}
			if gotUser != tt.wantUser {
				t.Errorf("user = %d, want %d", gotUser, tt.wantUser)
			}
		})
	}
}

func TestRequireRole(t *testing.T) {
	tests := []struct {
		name       string
		user       *token.User
		required   role.Role
		wantStatus int
	}{
		{"anonymous", nil, role.RoleUser, http.StatusUnauthorized},
		{"user on user route", &token.User{ID: 1, Role: role.RoleUser}, role.RoleUser, http.StatusOK},
		{"user on admin route", &token.User{ID: 1, Role: role.RoleUser}, role.RoleAdmin, http.StatusForbidden},
		{"admin on user route", &token.User{ID: 1, Role: role.RoleAdmin}, role.RoleUser, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := RequireRole(tt.required)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.user != nil {
				req = req.WithContext(token.UserWithCtx(req.Context(), *tt.user))
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
		})
	}
}

func TestRateLimit(t *testing.T) {
	h := RateLimit(2, time.Minute)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	var last *httptest.ResponseRecorder
	for range 3 {
		last = httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		h.ServeHTTP(last, req)
	}

	if last.Code != http.StatusTooManyRequests {
		t.Fatalf("status = %d, want 429", last.Code)
	}
	if body := decodeError(t, last); body.Code != apiError.TooManyRequests {
		t.Errorf("code = %q, want too_many_requests", body.Code)
	}
}

func TestRateLimitDisabled(t *testing.T) {
	h := RateLimit(0, time.Minute)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	for range 5 {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}
	}
}

func TestCors(t *testing.T) {
	h := Cors(config.Server{CORSOrigins: []string{"http://localhost:3000"}})(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	req := httptest.NewRequest(http.MethodOptions, "/api/recipes", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:3000" {
		t.Errorf("Access-Control-Allow-Origin = %q", got)
	}
	if got := rec.Header().Get("Access-Control-Allow-Credentials"); got != "true" {
		t.Errorf("Access-Control-Allow-Credentials = %q", got)
	}
}
