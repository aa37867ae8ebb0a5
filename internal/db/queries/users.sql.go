package queries

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

const userColumns = `user_id, first_name, last_name, username, email, password_hash, role, avatar,
	auth_provider, created_at, last_login_at`

func scanUser(row pgx.Row) (User, error) {
	var i User
	err := row.Scan(
		&i.UserID,
		&i.FirstName,
		&i.LastName,
		&i.Username,
		&i.Email,
		&i.PasswordHash,
		&i.Role,
		&i.Avatar,
		&i.AuthProvider,
		&i.CreatedAt,
		&i.LastLoginAt,
	)
	return i, err
}

const createUser = `INSERT INTO users (first_name, last_name, username, email, password_hash, avatar, auth_provider)
VALUES ($1, $2, $3, $4, $5, $6, $7)
RETURNING ` + userColumns

type CreateUserParams struct {
	FirstName    string
	LastName     string
	Username     string
	Email        string
	PasswordHash pgtype.Text
	Avatar       pgtype.Text
	AuthProvider string
}

func (q *Queries) CreateUser(ctx context.Context, arg CreateUserParams) (User, error) {
	row := q.db.QueryRow(ctx, createUser,
		arg.FirstName,
		arg.LastName,
		arg.Username,
		arg.Email,
		arg.PasswordHash,
		arg.Avatar,
		arg.AuthProvider,
	)
	return scanUser(row)
}

const getUserByEmail = `SELECT ` + userColumns + ` FROM users WHERE lower(email) = lower($1)`

func (q *Queries) GetUserByEmail(ctx context.Context, email string) (User, error) {
	return scanUser(q.db.QueryRow(ctx, getUserByEmail, email))
}

const getUserByID = `SELECT ` + userColumns + ` FROM users WHERE user_id = $1`

func (q *Queries) GetUserByID(ctx context.Context, userID pgtype.UUID) (User, error) {
	return scanUser(q.db.QueryRow(ctx, getUserByID, userID))
}

const updateUserProfile = `UPDATE users SET first_name = $2, last_name = $3, username = $4, email = $5, avatar = $6
WHERE user_id = $1
RETURNING ` + userColumns

type UpdateUserProfileParams struct {
	UserID    pgtype.UUID
	FirstName string
	LastName  string
	Username  string
	Email     string
	Avatar    pgtype.Text
}

func (q *Queries) UpdateUserProfile(ctx context.Context, arg UpdateUserProfileParams) (User, error) {
	row := q.db.QueryRow(ctx, updateUserProfile,
		arg.UserID,
		arg.FirstName,
		arg.LastName,
		arg.Username,
		arg.Email,
		arg.Avatar,
	)
	return scanUser(row)
}

const updateUserLogin = `UPDATE users SET last_login_at = now() WHERE user_id = $1`

func (q *Queries) UpdateUserLogin(ctx context.Context, userID pgtype.UUID) error {
	_, err := q.db.Exec(ctx, updateUserLogin, userID)
	return err
}
