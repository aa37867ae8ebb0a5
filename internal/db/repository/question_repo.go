package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"

	"github.com/gokatarajesh/algosync/internal/db/queries"
)

type questionStore interface {
	ListQuestionsByUser(ctx context.Context, arg queries.ListQuestionsByUserParams) ([]queries.Question, error)
	GetQuestion(ctx context.Context, arg queries.GetQuestionParams) (queries.Question, error)
	InsertQuestion(ctx context.Context, arg queries.InsertQuestionParams) (queries.Question, error)
	UpdateQuestion(ctx context.Context, arg queries.UpdateQuestionParams) (queries.Question, error)
	DeleteQuestion(ctx context.Context, arg queries.GetQuestionParams) (int64, error)
	ToggleQuestionImportant(ctx context.Context, arg queries.GetQuestionParams) (queries.Question, error)
	ToggleQuestionSolved(ctx context.Context, arg queries.GetQuestionParams) (queries.Question, error)
	QuestionStatsByTopic(ctx context.Context, userID pgtype.UUID) ([]queries.QuestionStatsByTopicRow, error)
}

// QuestionRepository wraps the question statements and normalizes driver errors.
type QuestionRepository struct {
	store questionStore
}

func NewQuestionRepository(store questionStore) *QuestionRepository {
	return &QuestionRepository{store: store}
}

// List returns a user's questions matching the filter parameters.
func (r *QuestionRepository) List(ctx context.Context, params queries.ListQuestionsByUserParams) ([]queries.Question, error) {
	rows, err := r.store.ListQuestionsByUser(ctx, params)
	return rows, translate(err)
}

// Get fetches one question scoped to its owner.
func (r *QuestionRepository) Get(ctx context.Context, params queries.GetQuestionParams) (queries.Question, error) {
	row, err := r.store.GetQuestion(ctx, params)
	return row, translate(err)
}

// Insert stores a new question; a repeated title for the same user yields ErrDuplicate.
func (r *QuestionRepository) Insert(ctx context.Context, params queries.InsertQuestionParams) (queries.Question, error) {
	row, err := r.store.InsertQuestion(ctx, params)
	return row, translate(err)
}

// Update overwrites every editable column of a question.
func (r *QuestionRepository) Update(ctx context.Context, params queries.UpdateQuestionParams) (queries.Question, error) {
	row, err := r.store.UpdateQuestion(ctx, params)
	return row, translate(err)
}

// Delete removes a question, returning ErrNotFound when nothing matched.
func (r *QuestionRepository) Delete(ctx context.Context, params queries.GetQuestionParams) error {
	n, err := r.store.DeleteQuestion(ctx, params)
	if err != nil {
		return translate(err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *QuestionRepository) ToggleImportant(ctx context.Context, params queries.GetQuestionParams) (queries.Question, error) {
	row, err := r.store.ToggleQuestionImportant(ctx, params)
	return row, translate(err)
}

func (r *QuestionRepository) ToggleSolved(ctx context.Context, params queries.GetQuestionParams) (queries.Question, error) {
	row, err := r.store.ToggleQuestionSolved(ctx, params)
	return row, translate(err)
}

// StatsByTopic aggregates counters per topic for one user.
func (r *QuestionRepository) StatsByTopic(ctx context.Context, userID pgtype.UUID) ([]queries.QuestionStatsByTopicRow, error) {
	rows, err := r.store.QuestionStatsByTopic(ctx, userID)
	return rows, translate(err)
}
