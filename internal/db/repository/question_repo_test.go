package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/gokatarajesh/algosync/internal/db/queries"
)

type mockQuestionStore struct {
	mock.Mock
}

func (m *mockQuestionStore) ListQuestionsByUser(ctx context.Context, arg queries.ListQuestionsByUserParams) ([]queries.Question, error) {
	args := m.Called(ctx, arg)
	return args.Get(0).([]queries.Question), args.Error(1)
}

func (m *mockQuestionStore) GetQuestion(ctx context.Context, arg queries.GetQuestionParams) (queries.Question, error) {
	args := m.Called(ctx, arg)
	return args.Get(0).(queries.Question), args.Error(1)
}

func (m *mockQuestionStore) InsertQuestion(ctx context.Context, arg queries.InsertQuestionParams) (queries.Question, error) {
	args := m.Called(ctx, arg)
	return args.Get(0).(queries.Question), args.Error(1)
}

func (m *mockQuestionStore) UpdateQuestion(ctx context.Context, arg queries.UpdateQuestionParams) (queries.Question, error) {
	args := m.Called(ctx, arg)
	return args.Get(0).(queries.Question), args.Error(1)
}

func (m *mockQuestionStore) DeleteQuestion(ctx context.Context, arg queries.GetQuestionParams) (int64, error) {
	args := m.Called(ctx, arg)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockQuestionStore) ToggleQuestionImportant(ctx context.Context, arg queries.GetQuestionParams) (queries.Question, error) {
	args := m.Called(ctx, arg)
	return args.Get(0).(queries.Question), args.Error(1)
}

func (m *mockQuestionStore) ToggleQuestionSolved(ctx context.Context, arg queries.GetQuestionParams) (queries.Question, error) {
	args := m.Called(ctx, arg)
	return args.Get(0).(queries.Question), args.Error(1)
}

func (m *mockQuestionStore) QuestionStatsByTopic(ctx context.Context, userID pgtype.UUID) ([]queries.QuestionStatsByTopicRow, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]queries.QuestionStatsByTopicRow), args.Error(1)
}

func TestQuestionRepository_InsertDuplicateTitle(t *testing.T) {
	store := new(mockQuestionStore)
	repo := NewQuestionRepository(store)

	params := queries.InsertQuestionParams{UserID: uuidFromByte(1), Title: "1. Two Sum"}
	store.On("InsertQuestion", mock.Anything, params).
		Return(queries.Question{}, &pgconn.PgError{Code: "23505", ConstraintName: "questions_user_title_key"})

	_, err := repo.Insert(context.Background(), params)

	assert.ErrorIs(t, err, ErrDuplicate)
	store.AssertExpectations(t)
}

func TestQuestionRepository_GetNotFound(t *testing.T) {
	store := new(mockQuestionStore)
	repo := NewQuestionRepository(store)

	params := queries.GetQuestionParams{QuestionID: uuidFromByte(9), UserID: uuidFromByte(1)}
	store.On("GetQuestion", mock.Anything, params).Return(queries.Question{}, pgx.ErrNoRows)

	_, err := repo.Get(context.Background(), params)

	assert.ErrorIs(t, err, ErrNotFound)
}

func TestQuestionRepository_DeleteNoRows(t *testing.T) {
	store := new(mockQuestionStore)
	repo := NewQuestionRepository(store)

	params := queries.GetQuestionParams{QuestionID: uuidFromByte(9), UserID: uuidFromByte(1)}
	store.On("DeleteQuestion", mock.Anything, params).Return(int64(0), nil).Once()
	store.On("DeleteQuestion", mock.Anything, params).Return(int64(1), nil).Once()

	assert.ErrorIs(t, repo.Delete(context.Background(), params), ErrNotFound)
	assert.NoError(t, repo.Delete(context.Background(), params))
	store.AssertExpectations(t)
}

func TestQuestionRepository_ListPassesThroughOtherErrors(t *testing.T) {
	store := new(mockQuestionStore)
	repo := NewQuestionRepository(store)

	boom := errors.New("connection reset")
	store.On("ListQuestionsByUser", mock.Anything, mock.Anything).Return([]queries.Question(nil), boom)

	_, err := repo.List(context.Background(), queries.ListQuestionsByUserParams{UserID: uuidFromByte(1)})

	assert.ErrorIs(t, err, boom)
	assert.NotErrorIs(t, err, ErrNotFound)
}

func TestQuestionRepository_StatsByTopic(t *testing.T) {
	store := new(mockQuestionStore)
	repo := NewQuestionRepository(store)

	rows := []queries.QuestionStatsByTopicRow{{Topic: "Arrays", Total: 3, Solved: 1, Easy: 2, Medium: 1}}
	store.On("QuestionStatsByTopic", mock.Anything, uuidFromByte(1)).Return(rows, nil)

	got, err := repo.StatsByTopic(context.Background(), uuidFromByte(1))

	assert.NoError(t, err)
	assert.Equal(t, rows, got)
}
