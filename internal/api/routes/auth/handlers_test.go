package auth

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/jackc/pgx/v5"
	"go.uber.org/mock/gomock"

	apiError "github.com/matt-dz/foodgram/internal/api/error"
	"github.com/matt-dz/foodgram/internal/api/token"
	"github.com/matt-dz/foodgram/internal/argon2id"
	"github.com/matt-dz/foodgram/internal/config"
	"github.com/matt-dz/foodgram/internal/database"
	"github.com/matt-dz/foodgram/internal/env"
	"github.com/matt-dz/foodgram/internal/json"
)

var testParams = argon2id.Params{Memory: 1024, Iterations: 1, Parallelism: 1, SaltLength: 16, KeyLength: 32}

func newEnv(q database.Querier) *env.Env {
	secret := config.AppSecretValue("a-test-secret-that-is-long-enough-to-sign")
	return env.New(nil, &database.Database{Querier: q}, nil, &config.Config{
		AppSecret: config.AppSecret{Value: &secret, Version: "1"},
	})
}

func TestHandleLogin(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockDB := database.NewMockQuerier(ctrl)

	hash, err := argon2id.EncodeHash("correct horse battery", testParams)
	if err != nil {
		t.Fatalf("EncodeHash() error = %v", err)
	}
	user := database.User{ID: 3, Email: "cook@example.com", PasswordHash: hash, Role: database.RoleUser}

	tests := []struct {
		name       string
		body       string
		setup      func()
		wantStatus int
		wantCode   apiError.ErrorCode
	}{
		{
			name: "valid credentials",
			body: `{"email":"cook@example.com","password":"correct horse battery"}`,
			setup: func() {
				mockDB.EXPECT().GetUserByEmail(gomock.Any(), "cook@example.com").Return(user, nil)
			},
			wantStatus: http.StatusOK,
		},
		{
			name: "wrong password",
			body: `{"email":"cook@example.com","password":"wrong"}`,
			setup: func() {
				mockDB.EXPECT().GetUserByEmail(gomock.Any(), "cook@example.com").Return(user, nil)
			},
			wantStatus: http.StatusBadRequest,
			wantCode:   apiError.InvalidCredentials,
		},
		{
			name: "unknown email",
			body: `{"email":"nobody@example.com","password":"whatever"}`,
			setup: func() {
				mockDB.EXPECT().GetUserByEmail(gomock.Any(), "nobody@example.com").Return(database.User{}, pgx.ErrNoRows)
			},
			wantStatus: http.StatusBadRequest,
			wantCode:   apiError.InvalidCredentials,
		},
		{
			name:       "missing password",
			body:       `{"email":"cook@example.com"}`,
			setup:      func() {},
			wantStatus: http.StatusBadRequest,
			wantCode:   apiError.BadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setup()
			e := newEnv(mockDB)
			req := httptest.NewRequest(http.MethodPost, "/api/auth/token/login", strings.NewReader(tt.body))
			req = req.WithContext(env.WithCtx(req.Context(), e))
			rec := httptest.NewRecorder()

			HandleLogin(rec, req)

			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d (%s)", rec.Code, tt.wantStatus, rec.Body.String())
			}
			if tt.wantCode != "" {
				var body apiError.Error
				if err := json.DecodeJSON(rec.Body, &body); err != nil {
					t.Fatalf("decoding body: %v", err)
				}
				if body.Code != tt.wantCode {
					t.Errorf("code = %q, want %q", body.Code, tt.wantCode)
				}
				return
			}

			var resp LoginResponse
			if err := json.DecodeJSON(rec.Body, &resp); err != nil {
				t.Fatalf("decoding body: %v", err)
			}
			claims, err := token.ValidateAccessToken(e, resp.AuthToken)
			if err != nil {
				t.Fatalf("returned token invalid: %v", err)
			}
			if id, _ := claims.UserID(); id != user.ID {
				t.Errorf("token subject = %d, want %d", id, user.ID)
			}
			if len(rec.Result().Cookies()) != 1 {
				t.Errorf("expected access cookie to be set")
			}
		})
	}
}

func TestHandleLogout(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/auth/token/logout", nil)
	rec := httptest.NewRecorder()
	HandleLogout(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want 204", rec.Code)
	}
	cookies := rec.Result().Cookies()
	if len(cookies) != 1 || cookies[0].MaxAge >= 0 {
		t.Errorf("expected an expired cookie, got %+v", cookies)
	}
}
