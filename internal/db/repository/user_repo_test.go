package repository

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/gokatarajesh/algosync/internal/db/queries"
)

type mockUserStore struct {
	mock.Mock
}

func (m *mockUserStore) CreateUser(ctx context.Context, arg queries.CreateUserParams) (queries.User, error) {
	args := m.Called(ctx, arg)
	return args.Get(0).(queries.User), args.Error(1)
}

func (m *mockUserStore) GetUserByEmail(ctx context.Context, email string) (queries.User, error) {
	args := m.Called(ctx, email)
	return args.Get(0).(queries.User), args.Error(1)
}

func (m *mockUserStore) GetUserByID(ctx context.Context, userID pgtype.UUID) (queries.User, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(queries.User), args.Error(1)
}

func (m *mockUserStore) UpdateUserProfile(ctx context.Context, arg queries.UpdateUserProfileParams) (queries.User, error) {
	args := m.Called(ctx, arg)
	return args.Get(0).(queries.User), args.Error(1)
}

func (m *mockUserStore) UpdateUserLogin(ctx context.Context, userID pgtype.UUID) error {
	return m.Called(ctx, userID).Error(0)
}

func TestUserRepository_Create(t *testing.T) {
	store := new(mockUserStore)
	repo := NewUserRepository(store)

	params := queries.CreateUserParams{
		FirstName:    "Ada",
		LastName:     "Lovelace",
		Username:     "ada",
		Email:        "ada@example.com",
		PasswordHash: pgtype.Text{String: "hashed", Valid: true},
		AuthProvider: "local",
	}
	expect := queries.User{UserID: uuidFromByte(1), Username: "ada"}

	store.On("CreateUser", mock.Anything, params).Return(expect, nil)

	got, err := repo.Create(context.Background(), params)

	assert.NoError(t, err)
	assert.Equal(t, expect, got)
	store.AssertExpectations(t)
}

func TestUserRepository_CreateDuplicate(t *testing.T) {
	store := new(mockUserStore)
	repo := NewUserRepository(store)

	store.On("CreateUser", mock.Anything, mock.Anything).
		Return(queries.User{}, &pgconn.PgError{Code: "23505"})

	_, err := repo.Create(context.Background(), queries.CreateUserParams{Email: "ada@example.com"})

	assert.ErrorIs(t, err, ErrDuplicate)
}

func TestUserRepository_GetByEmail(t *testing.T) {
	store := new(mockUserStore)
	repo := NewUserRepository(store)

	expect := queries.User{UserID: uuidFromByte(2), Email: "ada@example.com"}
	store.On("GetUserByEmail", mock.Anything, "ada@example.com").Return(expect, nil)

	got, err := repo.GetByEmail(context.Background(), "ada@example.com")

	assert.NoError(t, err)
	assert.Equal(t, expect, got)
	store.AssertExpectations(t)
}

func TestUserRepository_GetByIDNotFound(t *testing.T) {
	store := new(mockUserStore)
	repo := NewUserRepository(store)

	id := uuid.New()
	store.On("GetUserByID", mock.Anything, PGUUID(id)).Return(queries.User{}, pgx.ErrNoRows)

	_, err := repo.GetByID(context.Background(), id)

	assert.ErrorIs(t, err, ErrNotFound)
	store.AssertExpectations(t)
}

func TestUserRepository_UpdateLogin(t *testing.T) {
	store := new(mockUserStore)
	repo := NewUserRepository(store)

	id := uuid.New()
	store.On("UpdateUserLogin", mock.Anything, PGUUID(id)).Return(nil)

	assert.NoError(t, repo.UpdateLogin(context.Background(), id))
	store.AssertExpectations(t)
}
