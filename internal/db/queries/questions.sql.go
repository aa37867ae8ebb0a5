package queries

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

const questionColumns = `question_id, user_id, title, question_number, description, examples, constraints,
	topic_tags, difficulty, platform_tag, platform_link, youtube_link, is_important, is_solved,
	saved_code, generated_code, language, topic, notes, created_at, updated_at`

func scanQuestion(row pgx.Row) (Question, error) {
	var i Question
	err := row.Scan(
		&i.QuestionID,
		&i.UserID,
		&i.Title,
		&i.QuestionNumber,
		&i.Description,
		&i.Examples,
		&i.Constraints,
		&i.TopicTags,
		&i.Difficulty,
		&i.PlatformTag,
		&i.PlatformLink,
		&i.YoutubeLink,
		&i.IsImportant,
		&i.IsSolved,
		&i.SavedCode,
		&i.GeneratedCode,
		&i.Language,
		&i.Topic,
		&i.Notes,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const listQuestionsByUser = `SELECT ` + questionColumns + `
FROM questions
WHERE user_id = $1
  AND ($2::text = '' OR title ILIKE $2 OR description ILIKE $2 OR topic ILIKE $2
       OR EXISTS (SELECT 1 FROM unnest(topic_tags) AS tag WHERE tag ILIKE $2))
  AND ($3::text = '' OR difficulty = $3)
  AND ($4::text = '' OR topic = $4)
  AND ($5::boolean IS NULL OR is_solved = $5)
  AND ($6::boolean IS NULL OR is_important = $6)
ORDER BY
  CASE WHEN $7::text = 'title' THEN lower(title) END ASC,
  CASE WHEN $7::text = 'difficulty' THEN
    CASE difficulty WHEN 'Easy' THEN 1 WHEN 'Medium' THEN 2 ELSE 3 END
  END ASC,
  CASE WHEN $7::text = 'oldest' THEN created_at END ASC,
  created_at DESC`

type ListQuestionsByUserParams struct {
	UserID     pgtype.UUID
	Pattern    string
	Difficulty string
	Topic      string
	Solved     pgtype.Bool
	Important  pgtype.Bool
	Sort       string
}

func (q *Queries) ListQuestionsByUser(ctx context.Context, arg ListQuestionsByUserParams) ([]Question, error) {
	rows, err := q.db.Query(ctx, listQuestionsByUser,
		arg.UserID,
		arg.Pattern,
		arg.Difficulty,
		arg.Topic,
		arg.Solved,
		arg.Important,
		arg.Sort,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []Question
	for rows.Next() {
		i, err := scanQuestion(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	return items, rows.Err()
}

const getQuestion = `SELECT ` + questionColumns + `
FROM questions
WHERE question_id = $1 AND user_id = $2`

type GetQuestionParams struct {
	QuestionID pgtype.UUID
	UserID     pgtype.UUID
}

func (q *Queries) GetQuestion(ctx context.Context, arg GetQuestionParams) (Question, error) {
	return scanQuestion(q.db.QueryRow(ctx, getQuestion, arg.QuestionID, arg.UserID))
}

const insertQuestion = `INSERT INTO questions (
	user_id, title, question_number, description, examples, constraints, topic_tags,
	difficulty, platform_tag, platform_link, youtube_link, is_important, is_solved,
	saved_code, generated_code, language, topic, notes
) VALUES (
	$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18
)
RETURNING ` + questionColumns

type InsertQuestionParams struct {
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
}

func (q *Queries) InsertQuestion(ctx context.Context, arg InsertQuestionParams) (Question, error) {
	row := q.db.QueryRow(ctx, insertQuestion,
		arg.UserID,
		arg.Title,
		arg.QuestionNumber,
		arg.Description,
		arg.Examples,
		arg.Constraints,
		arg.TopicTags,
		arg.Difficulty,
		arg.PlatformTag,
		arg.PlatformLink,
		arg.YoutubeLink,
		arg.IsImportant,
		arg.IsSolved,
		arg.SavedCode,
		arg.GeneratedCode,
		arg.Language,
		arg.Topic,
		arg.Notes,
	)
	return scanQuestion(row)
}

const updateQuestion = `UPDATE questions SET
	title = $3, question_number = $4, description = $5, examples = $6, constraints = $7,
	topic_tags = $8, difficulty = $9, platform_tag = $10, platform_link = $11, youtube_link = $12,
	is_important = $13, is_solved = $14, saved_code = $15, generated_code = $16, language = $17,
	topic = $18, notes = $19, updated_at = now()
WHERE question_id = $1 AND user_id = $2
RETURNING ` + questionColumns

type UpdateQuestionParams struct {
	QuestionID pgtype.UUID
	InsertQuestionParams
}

func (q *Queries) UpdateQuestion(ctx context.Context, arg UpdateQuestionParams) (Question, error) {
	row := q.db.QueryRow(ctx, updateQuestion,
		arg.QuestionID,
		arg.UserID,
		arg.Title,
		arg.QuestionNumber,
		arg.Description,
		arg.Examples,
		arg.Constraints,
		arg.TopicTags,
		arg.Difficulty,
		arg.PlatformTag,
		arg.PlatformLink,
		arg.YoutubeLink,
		arg.IsImportant,
		arg.IsSolved,
		arg.SavedCode,
		arg.GeneratedCode,
		arg.Language,
		arg.Topic,
		arg.Notes,
	)
	return scanQuestion(row)
}

const deleteQuestion = `DELETE FROM questions WHERE question_id = $1 AND user_id = $2`

func (q *Queries) DeleteQuestion(ctx context.Context, arg GetQuestionParams) (int64, error) {
	tag, err := q.db.Exec(ctx, deleteQuestion, arg.QuestionID, arg.UserID)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

const toggleQuestionImportant = `UPDATE questions SET is_important = NOT is_important, updated_at = now()
WHERE question_id = $1 AND user_id = $2
RETURNING ` + questionColumns

func (q *Queries) ToggleQuestionImportant(ctx context.Context, arg GetQuestionParams) (Question, error) {
	return scanQuestion(q.db.QueryRow(ctx, toggleQuestionImportant, arg.QuestionID, arg.UserID))
}

const toggleQuestionSolved = `UPDATE questions SET is_solved = NOT is_solved, updated_at = now()
WHERE question_id = $1 AND user_id = $2
RETURNING ` + questionColumns

func (q *Queries) ToggleQuestionSolved(ctx context.Context, arg GetQuestionParams) (Question, error) {
	return scanQuestion(q.db.QueryRow(ctx, toggleQuestionSolved, arg.QuestionID, arg.UserID))
}

const questionStatsByTopic = `SELECT topic,
	count(*) AS total,
	count(*) FILTER (WHERE is_solved) AS solved,
	count(*) FILTER (WHERE is_important) AS important,
	count(*) FILTER (WHERE difficulty = 'Easy') AS easy,
	count(*) FILTER (WHERE difficulty = 'Medium') AS medium,
	count(*) FILTER (WHERE difficulty = 'Hard') AS hard
FROM questions
WHERE user_id = $1
GROUP BY topic
ORDER BY topic`

type QuestionStatsByTopicRow struct {
	Topic     string
	Total     int64
	Solved    int64
	Important int64
	Easy      int64
	Medium    int64
	Hard      int64
}

func (q *Queries) QuestionStatsByTopic(ctx context.Context, userID pgtype.UUID) ([]QuestionStatsByTopicRow, error) {
	rows, err := q.db.Query(ctx, questionStatsByTopic, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []QuestionStatsByTopicRow
	for rows.Next() {
		var i QuestionStatsByTopicRow
		if err := rows.Scan(&i.Topic, &i.Total, &i.Solved, &i.Important, &i.Easy, &i.Medium, &i.Hard); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	return items, rows.Err()
}
