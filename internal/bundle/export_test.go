package bundle

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gokatarajesh/algosync/internal/question"
)

func sampleQuestions() []question.Question {
	owner := uuid.New()
	return []question.Question{
		{
			ID: uuid.New(), UserID: owner, Title: "1. Two Sum", QuestionNumber: "1",
			Difficulty: question.DifficultyEasy, PlatformTag: question.PlatformLeetCode,
			TopicTags: []string{"Array", "Hash Table"}, Topic: "Arrays", Language: "Java",
			IsSolved: true, IsImportant: true, SavedCode: "class Solution {}",
		},
		{
			ID: uuid.New(), UserID: owner, Title: "Number of Islands",
			Difficulty: question.DifficultyMedium, PlatformTag: question.PlatformGFG,
			TopicTags: []string{"Graph"}, Topic: "Graphs", Language: "Go",
			IsSolved: true,
		},
		{
			ID: uuid.New(), UserID: owner, Title: "Median of Two Sorted Arrays",
			Difficulty: question.DifficultyHard, PlatformTag: question.PlatformLeetCode,
			Topic: "Searching", Language: "Python",
		},
	}
}

func TestExportDerivesMetadata(t *testing.T) {
	fixed := time.Date(2024, 3, 9, 22, 15, 0, 0, time.FixedZone("IST", 5*3600+1800))
	exporter := NewExporter(nil)
	exporter.now = func() time.Time { return fixed }

	b, err := exporter.Export(context.Background(), &fakeStore{existing: sampleQuestions()}, "alice")
	require.NoError(t, err)

	assert.Equal(t, Version, b.Version)
	assert.Equal(t, "alice", b.ExportedBy)
	assert.Equal(t, fixed.UTC(), b.ExportedAt)
	assert.Len(t, b.Questions, 3)
	assert.Equal(t, Metadata{TotalQuestions: 3, SolvedCount: 2, ImportantCount: 1}, b.Metadata)
	assert.Equal(t, "algo-sync-questions-2024-03-09.json", FileName(b.ExportedAt))
}

func TestExportEmptyCollectionEncodesArray(t *testing.T) {
	b, err := NewExporter(nil).Export(context.Background(), &fakeStore{}, "bob@example.com")
	require.NoError(t, err)

	data, err := json.Marshal(b)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"questions":[]`)
	assert.Contains(t, string(data), `"metadata":{"totalQuestions":0,"solvedCount":0,"importantCount":0}`)
}

func TestExportListFailure(t *testing.T) {
	_, err := NewExporter(nil).Export(context.Background(), &fakeStore{listErr: errors.New("boom")}, "alice")
	require.Error(t, err)
}

func TestExportReimportIntoEmptyStore(t *testing.T) {
	b, err := NewExporter(nil).Export(context.Background(), &fakeStore{existing: sampleQuestions()}, "alice")
	require.NoError(t, err)
	data, err := json.Marshal(b)
	require.NoError(t, err)

	target := &fakeStore{}
	summary, err := newTestReconciler(Options{}).Import(context.Background(), target, bytes.NewReader(data), nil)
	require.NoError(t, err)

	assert.Equal(t, len(b.Questions), summary.Imported)
	assert.Zero(t, summary.Skipped)
	assert.Zero(t, summary.Errors)

	first := target.created[0]
	assert.Equal(t, "1. Two Sum", first.Title)
	assert.Equal(t, "1", first.QuestionNumber)
	assert.Equal(t, question.DifficultyEasy, first.Difficulty)
	assert.Equal(t, []string{"Array", "Hash Table"}, first.TopicTags)
	assert.Equal(t, "Java", first.Language)
	assert.True(t, first.IsSolved)
	assert.True(t, first.IsImportant)
	assert.Equal(t, "class Solution {}", first.SavedCode)
}

func TestExportReimportIntoSameStoreSkipsAll(t *testing.T) {
	store := &fakeStore{existing: sampleQuestions()}
	b, err := NewExporter(nil).Export(context.Background(), store, "alice")
	require.NoError(t, err)
	data, err := json.Marshal(b)
	require.NoError(t, err)

	summary, err := newTestReconciler(Options{}).Import(context.Background(), store, bytes.NewReader(data), nil)
	require.NoError(t, err)
	assert.Equal(t, 3, summary.Skipped)
	assert.Equal(t, LevelInfo, summary.Level)
	assert.Empty(t, store.created)
}

func TestDecodeKeepsRecordOrder(t *testing.T) {
	records, err := Decode(strings.NewReader(`
		{"version": "0.9", "questions": [{"title": "B"}, 7, {"name": "A"}], "extra": true}`))
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.JSONEq(t, `{"title":"B"}`, string(records[0]))
	assert.JSONEq(t, `7`, string(records[1]))
	assert.JSONEq(t, `{"name":"A"}`, string(records[2]))
}

func TestFormatErrorMessage(t *testing.T) {
	_, err := Decode(strings.NewReader(`{"questions": 3}`))
	require.Error(t, err)

	var fe *FormatError
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, `invalid bundle: "questions" must be an array`, err.Error())

	_, err = Decode(strings.NewReader(`{"questions": [}`))
	require.True(t, errors.As(err, &fe))
	assert.NotNil(t, fe.Unwrap())
}
