package question

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/rs/zerolog"

	"github.com/gokatarajesh/algosync/internal/db/queries"
	"github.com/gokatarajesh/algosync/internal/db/repository"
)

// StatsCache stores per-user overview counters (implemented by Redis-backed Cache).
type StatsCache interface {
	Get(ctx context.Context, userID uuid.UUID) (*Stats, error)
	Set(ctx context.Context, userID uuid.UUID, stats Stats) error
	Invalidate(ctx context.Context, userID uuid.UUID) error
}

// Service owns a user's question collection.
type Service struct {
	repo   *repository.QuestionRepository
	cache  StatsCache
	logger zerolog.Logger
}

func NewService(repo *repository.QuestionRepository, cache StatsCache, logger zerolog.Logger) *Service {
	return &Service{
		repo:   repo,
		cache:  cache,
		logger: logger.With().Str("component", "question").Logger(),
	}
}

// List returns userID's questions narrowed by filter.
func (s *Service) List(ctx context.Context, userID uuid.UUID, filter ListFilter) ([]Question, error) {
	params := queries.ListQuestionsByUserParams{
		UserID:     repository.PGUUID(userID),
		Difficulty: filter.Difficulty,
		Topic:      filter.Topic,
		Solved:     pgBool(filter.Solved),
		Important:  pgBool(filter.Important),
		Sort:       filter.Sort,
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		params.Pattern = "%" + escapeLike(search) + "%"
	}

	rows, err := s.repo.List(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("list questions: %w", err)
	}
	out := make([]Question, 0, len(rows))
	for _, row := range rows {
		out = append(out, toDomain(row))
	}
	return out, nil
}

// Get returns one question owned by userID.
func (s *Service) Get(ctx context.Context, userID, questionID uuid.UUID) (Question, error) {
	row, err := s.repo.Get(ctx, s.key(userID, questionID))
	if err != nil {
		return Question{}, mapRepoErr(err)
	}
	return toDomain(row), nil
}

// Create validates d and stores it for userID.
func (s *Service) Create(ctx context.Context, userID uuid.UUID, d Draft) (Question, error) {
	d, err := Normalize(d)
	if err != nil {
		return Question{}, err
	}
	row, err := s.repo.Insert(ctx, insertParams(userID, d))
	if err != nil {
		return Question{}, mapRepoErr(err)
	}
	s.invalidate(ctx, userID)
	return toDomain(row), nil
}

// Update applies p on top of the stored question.
func (s *Service) Update(ctx context.Context, userID, questionID uuid.UUID, p Patch) (Question, error) {
	current, err := s.Get(ctx, userID, questionID)
	if err != nil {
		return Question{}, err
	}
	d := p.Apply(current)
	d, err = Normalize(d)
	if err != nil {
		return Question{}, err
	}
	row, err := s.repo.Update(ctx, queries.UpdateQuestionParams{
		QuestionID:           repository.PGUUID(questionID),
		InsertQuestionParams: insertParams(userID, d),
	})
	if err != nil {
		return Question{}, mapRepoErr(err)
	}
	s.invalidate(ctx, userID)
	return toDomain(row), nil
}

// Delete removes a question owned by userID.
func (s *Service) Delete(ctx context.Context, userID, questionID uuid.UUID) error {
	if err := s.repo.Delete(ctx, s.key(userID, questionID)); err != nil {
		return mapRepoErr(err)
	}
	s.invalidate(ctx, userID)
	return nil
}

// ToggleImportant flips the important flag.
func (s *Service) ToggleImportant(ctx context.Context, userID, questionID uuid.UUID) (Question, error) {
	row, err := s.repo.ToggleImportant(ctx, s.key(userID, questionID))
	if err != nil {
		return Question{}, mapRepoErr(err)
	}
	s.invalidate(ctx, userID)
	return toDomain(row), nil
}

// ToggleSolved flips the solved flag.
func (s *Service) ToggleSolved(ctx context.Context, userID, questionID uuid.UUID) (Question, error) {
	row, err := s.repo.ToggleSolved(ctx, s.key(userID, questionID))
	if err != nil {
		return Question{}, mapRepoErr(err)
	}
	s.invalidate(ctx, userID)
	return toDomain(row), nil
}

// Stats returns overview counters, served from cache when possible.
func (s *Service) Stats(ctx context.Context, userID uuid.UUID) (Stats, error) {
	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, userID); err == nil && cached != nil {
			return *cached, nil
		} else if err != nil {
			s.logger.Warn().Err(err).Msg("stats cache read failed")
		}
	}

	rows, err := s.repo.StatsByTopic(ctx, repository.PGUUID(userID))
	if err != nil {
		return Stats{}, fmt.Errorf("question stats: %w", err)
	}
	stats := aggregate(rows)

	if s.cache != nil {
		if err := s.cache.Set(ctx, userID, stats); err != nil {
			s.logger.Warn().Err(err).Msg("stats cache write failed")
		}
	}
	return stats, nil
}

// ForUser binds the collection of one user, the shape import and export work against.
func (s *Service) ForUser(userID uuid.UUID) *UserCollection {
	return &UserCollection{svc: s, userID: userID}
}

// UserCollection is a Service scoped to one owner.
type UserCollection struct {
	svc    *Service
	userID uuid.UUID
}

// List returns every question in the collection, newest first.
func (c *UserCollection) List(ctx context.Context) ([]Question, error) {
	return c.svc.List(ctx, c.userID, ListFilter{})
}

// Create stores d in the collection.
func (c *UserCollection) Create(ctx context.Context, d Draft) (Question, error) {
	return c.svc.Create(ctx, c.userID, d)
}

func (s *Service) key(userID, questionID uuid.UUID) queries.GetQuestionParams {
	return queries.GetQuestionParams{
		QuestionID: repository.PGUUID(questionID),
		UserID:     repository.PGUUID(userID),
	}
}

func (s *Service) invalidate(ctx context.Context, userID uuid.UUID) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, userID); err != nil {
		s.logger.Warn().Err(err).Str("user_id", userID.String()).Msg("stats cache invalidation failed")
	}
}

func aggregate(rows []queries.QuestionStatsByTopicRow) Stats {
	stats := Stats{ByTopic: make([]TopicStats, 0, len(rows))}
	for _, row := range rows {
		stats.Overall.Total += int(row.Total)
		stats.Overall.Solved += int(row.Solved)
		stats.Overall.Important += int(row.Important)
		stats.Overall.Easy += int(row.Easy)
		stats.Overall.Medium += int(row.Medium)
		stats.Overall.Hard += int(row.Hard)
		stats.ByTopic = append(stats.ByTopic, TopicStats{
			Topic:  row.Topic,
			Total:  int(row.Total),
			Solved: int(row.Solved),
		})
	}
	sort.SliceStable(stats.ByTopic, func(i, j int) bool {
		return stats.ByTopic[i].Total > stats.ByTopic[j].Total
	})
	return stats
}

func mapRepoErr(err error) error {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return ErrNotFound
	case errors.Is(err, repository.ErrDuplicate):
		return ErrConflict
	default:
		return err
	}
}

func insertParams(userID uuid.UUID, d Draft) queries.InsertQuestionParams {
	return queries.InsertQuestionParams{
		UserID:         repository.PGUUID(userID),
		Title:          d.Title,
		QuestionNumber: repository.Text(d.QuestionNumber),
		Description:    d.Description,
		Examples:       d.Examples,
		Constraints:    d.Constraints,
		TopicTags:      d.TopicTags,
		Difficulty:     d.Difficulty,
		PlatformTag:    d.PlatformTag,
		PlatformLink:   d.PlatformLink,
		YoutubeLink:    repository.Text(d.YoutubeLink),
		IsImportant:    d.IsImportant,
		IsSolved:       d.IsSolved,
		SavedCode:      repository.Text(d.SavedCode),
		GeneratedCode:  repository.Text(d.GeneratedCode),
		Language:       d.Language,
		Topic:          d.Topic,
		Notes:          repository.Text(d.Notes),
	}
}

func toDomain(row queries.Question) Question {
	return Question{
		ID:             repository.UUID(row.QuestionID),
		UserID:         repository.UUID(row.UserID),
		Title:          row.Title,
		QuestionNumber: row.QuestionNumber.String,
		Description:    row.Description,
		Examples:       nonNil(row.Examples),
		Constraints:    nonNil(row.Constraints),
		TopicTags:      nonNil(row.TopicTags),
		Difficulty:     row.Difficulty,
		PlatformTag:    row.PlatformTag,
		PlatformLink:   row.PlatformLink,
		YoutubeLink:    row.YoutubeLink.String,
		IsImportant:    row.IsImportant,
		IsSolved:       row.IsSolved,
		SavedCode:      row.SavedCode.String,
		GeneratedCode:  row.GeneratedCode.String,
		Language:       row.Language,
		Topic:          row.Topic,
		Notes:          row.Notes.String,
		CreatedAt:      row.CreatedAt.Time,
		UpdatedAt:      row.UpdatedAt.Time,
	}
}

func pgBool(b *bool) pgtype.Bool {
	if b == nil {
		return pgtype.Bool{}
	}
	return pgtype.Bool{Bool: *b, Valid: true}
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
