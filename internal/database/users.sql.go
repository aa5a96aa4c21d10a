package database

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
)

const countUsers = `-- name: CountUsers :one
SELECT count(*) FROM users
`

func (q *Queries) CountUsers(ctx context.Context) (int64, error) {
	row := q.db.QueryRow(ctx, countUsers)
	var count int64
	err := row.Scan(&count)
	return count, err
}

const createUser = `-- name: CreateUser :one
INSERT INTO users (email, username, first_name, last_name, password_hash, role)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING id
`

type CreateUserParams struct {
	Email        string `json:"email"`
	Username     string `json:"username"`
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	PasswordHash string `json:"password_hash"`
	Role         Role   `json:"role"`
}

func (q *Queries) CreateUser(ctx context.Context, arg CreateUserParams) (int64, error) {
	row := q.db.QueryRow(ctx, createUser,
		arg.Email,
		arg.Username,
		arg.FirstName,
		arg.LastName,
		arg.PasswordHash,
		string(arg.Role),
	)
	var id int64
	err := row.Scan(&id)
	return id, err
}

const getAdminCount = `-- name: GetAdminCount :one
SELECT count(*) FROM users WHERE role = 'admin'
`

func (q *Queries) GetAdminCount(ctx context.Context) (int64, error) {
	row := q.db.QueryRow(ctx, getAdminCount)
	var count int64
	err := row.Scan(&count)
	return count, err
}

const userColumns = `id, email, username, first_name, last_name, password_hash, role, avatar_key, created_at`

func scanUser(row interface{ Scan(...any) error }) (User, error) {
	var (
		u    User
		role string
	)
	err := row.Scan(
		&u.ID,
		&u.Email,
		&u.Username,
		&u.FirstName,
		&u.LastName,
		&u.PasswordHash,
		&role,
		&u.AvatarKey,
		&u.CreatedAt,
	)
	u.Role = Role(role)
	return u, err
}

const getUserByEmail = `-- name: GetUserByEmail :one
SELECT ` + userColumns + ` FROM users WHERE lower(email) = lower($1)
`

func (q *Queries) GetUserByEmail(ctx context.Context, email string) (User, error) {
	return scanUser(q.db.QueryRow(ctx, getUserByEmail, email))
}

const getUserByID = `-- name: GetUserByID :one
SELECT ` + userColumns + ` FROM users WHERE id = $1
`

func (q *Queries) GetUserByID(ctx context.Context, id int64) (User, error) {
	return scanUser(q.db.QueryRow(ctx, getUserByID, id))
}

const userRowColumns = `u.id, u.email, u.username, u.first_name, u.last_name, u.avatar_key,
  EXISTS (SELECT 1 FROM subscriptions s WHERE s.subscriber_id = $1 AND s.author_id = u.id) AS is_subscribed`

func scanUserRow(row interface{ Scan(...any) error }) (UserRow, error) {
	var u UserRow
	err := row.Scan(
		&u.ID,
		&u.Email,
		&u.Username,
		&u.FirstName,
		&u.LastName,
		&u.AvatarKey,
		&u.IsSubscribed,
	)
	return u, err
}

const getUserProfile = `-- name: GetUserProfile :one
SELECT ` + userRowColumns + `
FROM users u
WHERE u.id = $2
`

type GetUserProfileParams struct {
	ViewerID int64 `json:"viewer_id"`
	ID       int64 `json:"id"`
}

func (q *Queries) GetUserProfile(ctx context.Context, arg GetUserProfileParams) (UserRow, error) {
	return scanUserRow(q.db.QueryRow(ctx, getUserProfile, arg.ViewerID, arg.ID))
}

const listUsers = `-- name: ListUsers :many
SELECT ` + userRowColumns + `
FROM users u
ORDER BY u.username
LIMIT $2 OFFSET $3
`

type ListUsersParams struct {
	ViewerID int64 `json:"viewer_id"`
	Limit    int32 `json:"limit"`
	Offset   int32 `json:"offset"`
}

func (q *Queries) ListUsers(ctx context.Context, arg ListUsersParams) ([]UserRow, error) {
	rows, err := q.db.Query(ctx, listUsers, arg.ViewerID, arg.Limit, arg.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []UserRow{}
	for rows.Next() {
		i, err := scanUserRow(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const updateUserAvatar = `-- name: UpdateUserAvatar :exec
UPDATE users SET avatar_key = $2 WHERE id = $1
`

type UpdateUserAvatarParams struct {
	ID        int64       `json:"id"`
	AvatarKey pgtype.Text `json:"avatar_key"`
}

func (q *Queries) UpdateUserAvatar(ctx context.Context, arg UpdateUserAvatarParams) error {
	_, err := q.db.Exec(ctx, updateUserAvatar, arg.ID, arg.AvatarKey)
	return err
}

const updateUserPassword = `-- name: UpdateUserPassword :exec
UPDATE users SET password_hash = $2 WHERE id = $1
`

type UpdateUserPasswordParams struct {
	ID           int64  `json:"id"`
	PasswordHash string `json:"password_hash"`
}

func (q *Queries) UpdateUserPassword(ctx context.Context, arg UpdateUserPasswordParams) error {
	_, err := q.db.Exec(ctx, updateUserPassword, arg.ID, arg.PasswordHash)
	return err
}
