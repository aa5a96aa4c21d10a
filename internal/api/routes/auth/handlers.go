// Package auth contains handlers for the auth endpoints
package auth

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/jackc/pgx/v5"
	apiError "github.com/matt-dz/foodgram/internal/api/error"
	"github.com/matt-dz/foodgram/internal/api/request"
	"github.com/matt-dz/foodgram/internal/api/requestid"
	"github.com/matt-dz/foodgram/internal/api/token"
	"github.com/matt-dz/foodgram/internal/argon2id"
	"github.com/matt-dz/foodgram/internal/env"
	"github.com/matt-dz/foodgram/internal/json"
	"github.com/matt-dz/foodgram/internal/role"
)

// HandleLogin godoc
//
//	@Summary		Obtain an access token.
//	@Description	Exchanges an email and password for an access token. The token
//	@Description	is returned in the body and also set as an HttpOnly cookie.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		LoginRequest	true	"Credentials"
//	@Success		200		{object}	LoginResponse
//	@Failure		400		{object}	apiError.Error	"Invalid credentials"
//	@Failure		500		{object}	apiError.Error	"Internal server error"
//	@Router			/api/auth/token/login [post]
func HandleLogin(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	env := env.EnvFromCtx(ctx)
	requestID := requestid.String(ctx)

	var req LoginRequest
	env.Logger.DebugContext(ctx, "reading request body")
	if err := request.Decode(w, r, &req); err != nil {
		env.Logger.ErrorContext(ctx, "failed to decode request body", slog.Any("error", err))
		_ = request.EncodeError(w, err, requestID)
		return
	}

	env.Logger.DebugContext(ctx, "looking up user")
	user, err := env.Database.GetUserByEmail(ctx, req.Email)
	if errors.Is(err, pgx.ErrNoRows) {
		env.Logger.ErrorContext(ctx, "user not found")
		_ = apiError.EncodeError(w, apiError.InvalidCredentials, "unable to log in with provided credentials", requestID)
		return
	} else if err != nil {
		env.Logger.ErrorContext(ctx, "failed to get user", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}

	env.Logger.DebugContext(ctx, "comparing password")
	match, err := argon2id.Compare(req.Password, user.PasswordHash)
	if err != nil {
		env.Logger.ErrorContext(ctx, "failed to compare password hash", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}
	if !match {
		env.Logger.ErrorContext(ctx, "password mismatch", slog.Int64("user-id", user.ID))
		_ = apiError.EncodeError(w, apiError.InvalidCredentials, "unable to log in with provided credentials", requestID)
		return
	}

	env.Logger.DebugContext(ctx, "creating access token")
	accessToken, err := token.CreateAccessToken(env, user.ID, role.FromDB(user.Role))
	if err != nil {
		env.Logger.ErrorContext(ctx, "failed to create access token", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}

	http.SetCookie(w, token.NewAccessTokenCookie(accessToken, env))
	if err := json.EncodeJSON(w, http.StatusOK, LoginResponse{AuthToken: accessToken}); err != nil {
		env.Logger.ErrorContext(ctx, "failed to write response", slog.Any("error", err))
	}
}

// HandleLogout godoc
//
//	@Summary	Log out.
//	@Tags		Auth
//	@Success	204	"Logged out"
//	@Failure	401	{object}	apiError.Error	"Unauthorized"
//	@Security	TokenAuth
//	@Router		/api/auth/token/logout [post]
func HandleLogout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	env := env.EnvFromCtx(ctx)

	env.Logger.DebugContext(ctx, "clearing access token cookie")
	http.SetCookie(w, token.ExpiredAccessTokenCookie(env))
	w.WriteHeader(http.StatusNoContent)
}
