// Package users contains handlers for the user resource.
package users

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	apiError "github.com/matt-dz/foodgram/internal/api/error"
	"github.com/matt-dz/foodgram/internal/api/pagination"
	"github.com/matt-dz/foodgram/internal/api/request"
	"github.com/matt-dz/foodgram/internal/api/requestid"
	"github.com/matt-dz/foodgram/internal/api/token"
	"github.com/matt-dz/foodgram/internal/argon2id"
	"github.com/matt-dz/foodgram/internal/database"
	"github.com/matt-dz/foodgram/internal/env"
	"github.com/matt-dz/foodgram/internal/filestore"
	"github.com/matt-dz/foodgram/internal/form"
	"github.com/matt-dz/foodgram/internal/json"
	"github.com/matt-dz/foodgram/internal/password"
	"github.com/matt-dz/foodgram/internal/recipe"
)

const (
	emailConstraint    = "users_email_key"
	usernameConstraint = "users_username_key"
)

// HandleSignup godoc
//
//	@Summary	Register a user.
//	@Tags		Users
//	@Accept		json
//	@Produce	json
//	@Param		request	body		SignupRequest	true	"New user"
//	@Success	201		{object}	SignupResponse
//	@Failure	400		{object}	apiError.Error	"Validation error"
//	@Failure	409		{object}	apiError.Error	"Email or username taken"
//	@Failure	422		{object}	apiError.Error	"Weak password"
//	@Failure	500		{object}	apiError.Error	"Internal server error"
//	@Router		/api/users [post]
func HandleSignup(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	env := env.EnvFromCtx(ctx)
	requestID := requestid.String(ctx)

	var req SignupRequest
	env.Logger.DebugContext(ctx, "reading request body")
	if err := request.Decode(w, r, &req); err != nil {
		env.Logger.ErrorContext(ctx, "failed to decode request body", slog.Any("error", err))
		_ = request.EncodeError(w, err, requestID)
		return
	}

	env.Logger.DebugContext(ctx, "validating password")
	if err := password.ValidatePassword(req.Password, req.Username, req.Email, req.FirstName, req.LastName); err != nil {
		env.Logger.ErrorContext(ctx, "failed to validate password", slog.Any("error", err))
		_ = apiError.EncodeError(w, apiError.WeakPassword, err.Error(), requestID)
		return
	}

	env.Logger.DebugContext(ctx, "hashing password")
	hash, err := argon2id.EncodeHash(req.Password, argon2id.DefaultParams)
	if err != nil {
		env.Logger.ErrorContext(ctx, "failed to hash password", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}

	env.Logger.DebugContext(ctx, "creating user")
	userID, err := env.Database.CreateUser(ctx, database.CreateUserParams{
		Email:        req.Email,
		Username:     req.Username,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		PasswordHash: hash,
		Role:         database.RoleUser,
	})
	switch database.UniqueViolationConstraint(err) {
	case emailConstraint:
		env.Logger.ErrorContext(ctx, "email already in use", slog.Any("error", err))
		_ = apiError.EncodeError(w, apiError.EmailConflict, "a user with that email already exists", requestID)
		return
	case usernameConstraint:
		env.Logger.ErrorContext(ctx, "username already in use", slog.Any("error", err))
		_ = apiError.EncodeError(w, apiError.UsernameConflict, "a user with that username already exists", requestID)
		return
	}
	if err != nil {
		env.Logger.ErrorContext(ctx, "failed to create user", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}

	resp := SignupResponse{
		Email:     req.Email,
		ID:        userID,
		Username:  req.Username,
		FirstName: req.FirstName,
		LastName:  req.LastName,
	}
	if err := json.EncodeJSON(w, http.StatusCreated, resp); err != nil {
		env.Logger.ErrorContext(ctx, "failed to write response", slog.Any("error", err))
	}
}

// HandleListUsers godoc
//
//	@Summary	List users.
//	@Tags		Users
//	@Produce	json
//	@Param		page	query		int	false	"Page number"
//	@Param		limit	query		int	false	"Page size"
//	@Success	200		{object}	pagination.Page[recipe.Author]
//	@Failure	400		{object}	apiError.Error	"Invalid pagination"
//	@Failure	404		{object}	apiError.Error	"Page out of range"
//	@Failure	500		{object}	apiError.Error	"Internal server error"
//	@Router		/api/users [get]
func HandleListUsers(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	env := env.EnvFromCtx(ctx)
	requestID := requestid.String(ctx)

	params, err := pagination.Parse(r.URL.Query())
	if err != nil {
		env.Logger.ErrorContext(ctx, "invalid pagination", slog.Any("error", err))
		_ = apiError.EncodeError(w, apiError.BadRequest, err.Error(), requestID)
		return
	}

	count, err := env.Database.CountUsers(ctx)
	if err != nil {
		env.Logger.ErrorContext(ctx, "failed to count users", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}
	if !params.InRange(count) {
		env.Logger.ErrorContext(ctx, "page out of range", slog.Int("page", int(params.Page)))
		_ = apiError.EncodeError(w, apiError.NotFound, "invalid page", requestID)
		return
	}

	rows, err := env.Database.ListUsers(ctx, database.ListUsersParams{
		ViewerID: token.UserIDFromCtx(ctx),
		Limit:    params.Limit,
		Offset:   params.Offset(),
	})
	if err != nil {
		env.Logger.ErrorContext(ctx, "failed to list users", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}

	users := make([]recipe.Author, 0, len(rows))
	for _, row := range rows {
		users = append(users, recipe.NewAuthor(row, env.FileStore))
	}
	page := pagination.New(r, env.Config.HostOrigin, params, count, users)
	if err := json.EncodeJSON(w, http.StatusOK, page); err != nil {
		env.Logger.ErrorContext(ctx, "failed to write response", slog.Any("error", err))
	}
}

func writeProfile(w http.ResponseWriter, r *http.Request, userID int64) {
	ctx := r.Context()
	env := env.EnvFromCtx(ctx)
	requestID := requestid.String(ctx)

	row, err := env.Database.GetUserProfile(ctx, database.GetUserProfileParams{
		ViewerID: token.UserIDFromCtx(ctx),
		ID:       userID,
	})
	if errors.Is(err, pgx.ErrNoRows) {
		env.Logger.ErrorContext(ctx, "user not found", slog.Int64("target-id", userID))
		_ = apiError.EncodeError(w, apiError.UserNotFound, "user not found", requestID)
		return
	} else if err != nil {
		env.Logger.ErrorContext(ctx, "failed to get user", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}

	if err := json.EncodeJSON(w, http.StatusOK, recipe.NewAuthor(row, env.FileStore)); err != nil {
		env.Logger.ErrorContext(ctx, "failed to write response", slog.Any("error", err))
	}
}

// HandleGetUser godoc
//
//	@Summary	Get a user profile.
//	@Tags		Users
//	@Produce	json
//	@Param		id	path		int	true	"User ID"
//	@Success	200	{object}	recipe.Author
//	@Failure	404	{object}	apiError.Error	"User not found"
//	@Failure	500	{object}	apiError.Error	"Internal server error"
//	@Router		/api/users/{id} [get]
func HandleGetUser(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	env := env.EnvFromCtx(ctx)

	id, err := request.PathID(r, "id")
	if err != nil {
		env.Logger.ErrorContext(ctx, "invalid user id", slog.Any("error", err))
		_ = apiError.EncodeError(w, apiError.UserNotFound, "user not found", requestid.String(ctx))
		return
	}
	writeProfile(w, r, id)
}

// HandleMe godoc
//
//	@Summary	Get the current user.
//	@Tags		Users
//	@Produce	json
//	@Success	200	{object}	recipe.Author
//	@Failure	401	{object}	apiError.Error	"Unauthorized"
//	@Security	TokenAuth
//	@Router		/api/users/me [get]
func HandleMe(w http.ResponseWriter, r *http.Request) {
	writeProfile(w, r, token.UserIDFromCtx(r.Context()))
}

// HandleSetAvatar godoc
//
//	@Summary		Set the current user's avatar.
//	@Description	Accepts a base64 data URI of a JPEG, PNG, GIF or WebP image.
//	@Tags			Users
//	@Accept			json
//	@Produce		json
//	@Param			request	body		SetAvatarRequest	true	"Avatar"
//	@Success		200		{object}	SetAvatarResponse
//	@Failure		400		{object}	apiError.Error	"Invalid image"
//	@Failure		401		{object}	apiError.Error	"Unauthorized"
//	@Failure		500		{object}	apiError.Error	"Internal server error"
//	@Security		TokenAuth
//	@Router			/api/users/me/avatar [put]
func HandleSetAvatar(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	env := env.EnvFromCtx(ctx)
	requestID := requestid.String(ctx)
	userID := token.UserIDFromCtx(ctx)

	var req SetAvatarRequest
	if err := request.Decode(w, r, &req); err != nil {
		env.Logger.ErrorContext(ctx, "failed to decode request body", slog.Any("error", err))
		_ = request.EncodeError(w, err, requestID)
		return
	}

	image, err := form.DecodeImage(req.Avatar)
	if err != nil {
		env.Logger.ErrorContext(ctx, "failed to decode avatar", slog.Any("error", err))
		_ = apiError.EncodeFieldErrors(w, map[string]string{"avatar": err.Error()}, requestID)
		return
	}

	user, err := env.Database.GetUserByID(ctx, userID)
	if err != nil {
		env.Logger.ErrorContext(ctx, "failed to get user", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}

	env.Logger.DebugContext(ctx, "uploading avatar")
	key := filestore.NewAvatarKey(userID, image.Suffix)
	if err := env.FileStore.Put(ctx, key, image.Data, image.MimeType); err != nil {
		env.Logger.ErrorContext(ctx, "failed to store avatar", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}

	err = env.Database.UpdateUserAvatar(ctx, database.UpdateUserAvatarParams{
		ID:        userID,
		AvatarKey: pgtype.Text{String: key, Valid: true},
	})
	if err != nil {
		env.Logger.ErrorContext(ctx, "failed to update avatar", slog.Any("error", err))
		_ = env.FileStore.Delete(ctx, key)
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}
	if user.AvatarKey.Valid && user.AvatarKey.String != "" {
		if err := env.FileStore.Delete(ctx, user.AvatarKey.String); err != nil {
			env.Logger.WarnContext(ctx, "failed to delete previous avatar", slog.Any("error", err))
		}
	}

	if err := json.EncodeJSON(w, http.StatusOK, SetAvatarResponse{Avatar: env.FileStore.URL(key)}); err != nil {
		env.Logger.ErrorContext(ctx, "failed to write response", slog.Any("error", err))
	}
}

// HandleDeleteAvatar godoc
//
//	@Summary	Remove the current user's avatar.
//	@Tags		Users
//	@Success	204	"Avatar removed"
//	@Failure	401	{object}	apiError.Error	"Unauthorized"
//	@Failure	500	{object}	apiError.Error	"Internal server error"
//	@Security	TokenAuth
//	@Router		/api/users/me/avatar [delete]
func HandleDeleteAvatar(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	env := env.EnvFromCtx(ctx)
	requestID := requestid.String(ctx)
	userID := token.UserIDFromCtx(ctx)

	user, err := env.Database.GetUserByID(ctx, userID)
	if err != nil {
		env.Logger.ErrorContext(ctx, "failed to get user", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}

	if err := env.Database.UpdateUserAvatar(ctx, database.UpdateUserAvatarParams{ID: userID}); err != nil {
		env.Logger.ErrorContext(ctx, "failed to clear avatar", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}
	if user.AvatarKey.Valid && user.AvatarKey.String != "" {
		if err := env.FileStore.Delete(ctx, user.AvatarKey.String); err != nil {
			env.Logger.WarnContext(ctx, "failed to delete avatar", slog.Any("error", err))
		}
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleSetPassword godoc
//
//	@Summary	Change the current user's password.
//	@Tags		Users
//	@Accept		json
//	@Param		request	body	SetPasswordRequest	true	"Passwords"
//	@Success	204		"Password changed"
//	@Failure	400		{object}	apiError.Error	"Wrong current password"
//	@Failure	401		{object}	apiError.Error	"Unauthorized"
//	@Failure	422		{object}	apiError.Error	"Weak password"
//	@Failure	500		{object}	apiError.Error	"Internal server error"
//	@Security	TokenAuth
//	@Router		/api/users/set_password [post]
func HandleSetPassword(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	env := env.EnvFromCtx(ctx)
	requestID := requestid.String(ctx)
	userID := token.UserIDFromCtx(ctx)

	var req SetPasswordRequest
	if err := request.Decode(w, r, &req); err != nil {
		env.Logger.ErrorContext(ctx, "failed to decode request body", slog.Any("error", err))
		_ = request.EncodeError(w, err, requestID)
		return
	}

	user, err := env.Database.GetUserByID(ctx, userID)
	if err != nil {
		env.Logger.ErrorContext(ctx, "failed to get user", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}

	match, err := argon2id.Compare(req.CurrentPassword, user.PasswordHash)
	if err != nil {
		env.Logger.ErrorContext(ctx, "failed to compare password hash", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}
	if !match {
		env.Logger.ErrorContext(ctx, "current password mismatch")
		_ = apiError.EncodeFieldErrors(w, map[string]string{"current_password": "invalid password"}, requestID)
		return
	}

	if err := password.ValidatePassword(req.NewPassword, user.Username, user.Email, user.FirstName, user.LastName); err != nil {
		env.Logger.ErrorContext(ctx, "failed to validate password", slog.Any("error", err))
		_ = apiError.EncodeError(w, apiError.WeakPassword, err.Error(), requestID)
		return
	}

	hash, err := argon2id.EncodeHash(req.NewPassword, argon2id.DefaultParams)
	if err != nil {
		env.Logger.ErrorContext(ctx, "failed to hash password", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}
	err = env.Database.UpdateUserPassword(ctx, database.UpdateUserPasswordParams{ID: userID, PasswordHash: hash})
	if err != nil {
		env.Logger.ErrorContext(ctx, "failed to update password", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
