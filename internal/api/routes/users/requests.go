package users

import (
	"strconv"

	"github.com/jackc/pgx/v5/pgtype"
)

type SignupRequest struct {
	Email     string `json:"email" validate:"required,email,max=254"`
	Username  string `json:"username" validate:"required,max=150,username"`
	FirstName string `json:"first_name" validate:"required,max=150"`
	LastName  string `json:"last_name" validate:"required,max=150"`
	Password  string `json:"password" validate:"required,max=128"`
}

type SignupResponse struct {
	Email     string `json:"email"`
	ID        int64  `json:"id"`
	Username  string `json:"username"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

type SetAvatarRequest struct {
	Avatar string `json:"avatar" validate:"required"`
}

type SetAvatarResponse struct {
	Avatar string `json:"avatar"`
}

type SetPasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,max=128"`
}

// recipesLimit parses the recipes_limit query parameter. An absent value
// means no limit.
func recipesLimit(raw string) (pgtype.Int4, bool) {
	if raw == "" {
		return pgtype.Int4{}, true
	}
	v, err := strconv.ParseInt(raw, 10, 32)
	if err != nil || v < 0 {
		return pgtype.Int4{}, false
	}
	return pgtype.Int4{Int32: int32(v), Valid: true}, true
}
