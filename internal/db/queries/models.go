package queries

import "github.com/jackc/pgx/v5/pgtype"

type Question struct {
	QuestionID     pgtype.UUID
	UserID         pgtype.UUID
	Title          string
	QuestionNumber pgtype.Text
	Description    string
	Examples       []string
	Constraints    []string
	TopicTags      []string
	Difficulty     string
	PlatformTag    string
	PlatformLink   string
	YoutubeLink    pgtype.Text
	IsImportant    bool
	IsSolved       bool
	SavedCode      pgtype.Text
	GeneratedCode  pgtype.Text
	Language       string
	Topic          string
	Notes          pgtype.Text
	CreatedAt      pgtype.Timestamptz
	UpdatedAt      pgtype.Timestamptz
}

type User struct {
	UserID       pgtype.UUID
	FirstName    string
	LastName     string
	Username     string
	Email        string
	PasswordHash pgtype.Text
	Role         string
	Avatar       pgtype.Text
	AuthProvider string
	CreatedAt    pgtype.Timestamptz
	LastLoginAt  pgtype.Timestamptz
}
