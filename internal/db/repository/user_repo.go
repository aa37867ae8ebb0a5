package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/gokatarajesh/algosync/internal/db/queries"
)

type userStore interface {
	CreateUser(ctx context.Context, arg queries.CreateUserParams) (queries.User, error)
	GetUserByEmail(ctx context.Context, email string) (queries.User, error)
	GetUserByID(ctx context.Context, userID pgtype.UUID) (queries.User, error)
	UpdateUserProfile(ctx context.Context, arg queries.UpdateUserProfileParams) (queries.User, error)
	UpdateUserLogin(ctx context.Context, userID pgtype.UUID) error
}

// UserRepository exposes typed DB operations required by auth flows.
type UserRepository struct {
	store userStore
}

// NewUserRepository wraps the user statements.
func NewUserRepository(store userStore) *UserRepository {
	return &UserRepository{store: store}
}

// Create inserts an account; a taken email or username yields ErrDuplicate.
func (r *UserRepository) Create(ctx context.Context, params queries.CreateUserParams) (queries.User, error) {
	u, err := r.store.CreateUser(ctx, params)
	return u, translate(err)
}

// GetByEmail fetches a user by email, case-insensitively.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (queries.User, error) {
	u, err := r.store.GetUserByEmail(ctx, email)
	return u, translate(err)
}

// GetByID fetches a user by ID.
func (r *UserRepository) GetByID(ctx context.Context, userID uuid.UUID) (queries.User, error) {
	u, err := r.store.GetUserByID(ctx, PGUUID(userID))
	return u, translate(err)
}

// UpdateProfile rewrites the editable profile columns.
func (r *UserRepository) UpdateProfile(ctx context.Context, params queries.UpdateUserProfileParams) (queries.User, error) {
	u, err := r.store.UpdateUserProfile(ctx, params)
	return u, translate(err)
}

// UpdateLogin records the last login timestamp.
func (r *UserRepository) UpdateLogin(ctx context.Context, userID uuid.UUID) error {
	return translate(r.store.UpdateUserLogin(ctx, PGUUID(userID)))
}
