package bundle

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gokatarajesh/algosync/internal/auth"
	"github.com/gokatarajesh/algosync/internal/auth/jwt"
	"github.com/gokatarajesh/algosync/internal/question"
)

type stubIdentities struct {
	user *auth.User
	err  error
}

func (s stubIdentities) Profile(ctx context.Context, userID uuid.UUID) (*auth.User, error) {
	return s.user, s.err
}

type handlerFixture struct {
	handler *HTTPHandler
	store   *fakeStore
	jobs    *memoryJobs
	pub     *recordingPublisher
	userID  uuid.UUID
}

func newHandlerFixture(t *testing.T, worker bool, maxBytes int64) *handlerFixture {
	t.Helper()
	f := &handlerFixture{
		store:  &fakeStore{existing: []question.Question{{Title: "Two Sum", IsSolved: true}}},
		jobs:   newMemoryJobs(),
		pub:    &recordingPublisher{},
		userID: uuid.New(),
	}
	stores := func(uuid.UUID) Store { return f.store }
	reconciler := newTestReconciler(Options{})

	deps := HTTPDeps{
		Stores:         stores,
		Identities:     stubIdentities{user: &auth.User{Username: "alice", Email: "alice@example.com"}},
		Reconciler:     reconciler,
		Exporter:       NewExporter(nil),
		Jobs:           f.jobs,
		Publisher:      f.pub,
		MaxBundleBytes: maxBytes,
	}
	if worker {
		// Not started: async tests only observe the queued job.
		deps.Worker = NewWorker(reconciler, stores, f.jobs, f.pub, 4, zerolog.Nop())
	}
	f.handler = NewHTTPHandler(deps, zerolog.Nop())
	return f
}

func (f *handlerFixture) request(method, target string, body *bytes.Buffer) *http.Request {
	if body == nil {
		body = &bytes.Buffer{}
	}
	req := httptest.NewRequest(method, target, body)
	return req.WithContext(auth.WithClaims(req.Context(), &jwt.Claims{UserID: f.userID, Username: "alice"}))
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), v))
}

func TestExportHandler(t *testing.T) {
	f := newHandlerFixture(t, false, 0)
	rec := httptest.NewRecorder()
	f.handler.Export(rec, f.request(http.MethodGet, "/v1/questions/export", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.True(t, strings.HasPrefix(rec.Header().Get("Content-Disposition"), "attachment; filename=algo-sync-questions-"))

	var b Bundle
	decodeBody(t, rec, &b)
	assert.Equal(t, "1.0", b.Version)
	assert.Equal(t, "alice", b.ExportedBy)
	assert.Equal(t, Metadata{TotalQuestions: 1, SolvedCount: 1}, b.Metadata)
}

func TestExportHandlerFallsBackToEmail(t *testing.T) {
	f := newHandlerFixture(t, false, 0)
	f.handler.deps.Identities = stubIdentities{user: &auth.User{Email: "alice@example.com"}}

	rec := httptest.NewRecorder()
	f.handler.Export(rec, f.request(http.MethodGet, "/v1/questions/export", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var b Bundle
	decodeBody(t, rec, &b)
	assert.Equal(t, "alice@example.com", b.ExportedBy)
}

func TestExportHandlerRequiresAuth(t *testing.T) {
	f := newHandlerFixture(t, false, 0)
	rec := httptest.NewRecorder()
	f.handler.Export(rec, httptest.NewRequest(http.MethodGet, "/v1/questions/export", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestExportHandlerIdentityFailure(t *testing.T) {
	f := newHandlerFixture(t, false, 0)
	f.handler.deps.Identities = stubIdentities{err: errors.New("user not found")}

	rec := httptest.NewRecorder()
	f.handler.Export(rec, f.request(http.MethodGet, "/v1/questions/export", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestImportHandlerSync(t *testing.T) {
	f := newHandlerFixture(t, false, 0)
	body := bytes.NewBufferString(`{"questions":[{"title":"two sum"},{"name":"Jump Game"}]}`)

	rec := httptest.NewRecorder()
	f.handler.Import(rec, f.request(http.MethodPost, "/v1/questions/import", body))
	require.Equal(t, http.StatusOK, rec.Code)

	var summary Summary
	decodeBody(t, rec, &summary)
	assert.Equal(t, 1, summary.Imported)
	assert.Equal(t, 1, summary.Skipped)
	assert.Equal(t, LevelSuccess, summary.Level)
	assert.Equal(t, []string{"Jump Game"}, f.store.createdTitles())

	events := f.pub.snapshot()
	require.Len(t, events, 3)
	assert.Equal(t, f.userID, events[0].UserID)
	assert.Equal(t, EventComplete, events[2].Kind)
}

func TestImportHandlerMultipart(t *testing.T) {
	f := newHandlerFixture(t, false, 0)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", "algo-sync-questions-2024-01-01.json")
	require.NoError(t, err)
	_, err = part.Write([]byte(`{"questions":[{"title":"Rotate Image"}]}`))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := f.request(http.MethodPost, "/v1/questions/import", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()
	f.handler.Import(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"Rotate Image"}, f.store.createdTitles())
}

func TestImportHandlerInvalidFormat(t *testing.T) {
	f := newHandlerFixture(t, false, 0)
	rec := httptest.NewRecorder()
	f.handler.Import(rec, f.request(http.MethodPost, "/v1/questions/import", bytes.NewBufferString(`{"items":[]}`)))

	require.Equal(t, http.StatusBadRequest, rec.Code)
	var body map[string]any
	decodeBody(t, rec, &body)
	assert.Equal(t, "invalid_format", body["error"])
	assert.Equal(t, invalidFormatMessage, body["message"])
	assert.Equal(t, map[string]any{"reason": `missing "questions" array`}, body["details"])
	assert.Empty(t, f.store.created)
}

func TestImportHandlerTooLarge(t *testing.T) {
	f := newHandlerFixture(t, false, 16)
	rec := httptest.NewRecorder()
	f.handler.Import(rec, f.request(http.MethodPost, "/v1/questions/import",
		bytes.NewBufferString(`{"questions":[{"title":"a long enough title"}]}`)))
	require.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)

	var body map[string]any
	decodeBody(t, rec, &body)
	assert.Equal(t, "payload_too_large", body["error"])
	assert.Equal(t, map[string]any{"limit": float64(16)}, body["details"])
}

func TestImportHandlerAsync(t *testing.T) {
	f := newHandlerFixture(t, true, 0)
	rec := httptest.NewRecorder()
	f.handler.Import(rec, f.request(http.MethodPost, "/v1/questions/import?async=true",
		bytes.NewBufferString(`{"questions":[{"title":"A"}]}`)))

	require.Equal(t, http.StatusAccepted, rec.Code)
	var job Job
	decodeBody(t, rec, &job)
	assert.Equal(t, JobQueued, job.Status)
	assert.Equal(t, "/v1/imports/"+job.ID.String(), rec.Header().Get("Location"))

	stored, err := f.jobs.Get(context.Background(), job.ID)
	require.NoError(t, err)
	assert.Equal(t, f.userID, stored.UserID)
}

func TestImportHandlerAsyncWithoutWorker(t *testing.T) {
	f := newHandlerFixture(t, false, 0)
	rec := httptest.NewRecorder()
	f.handler.Import(rec, f.request(http.MethodPost, "/v1/questions/import?async=1",
		bytes.NewBufferString(`{"questions":[]}`)))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestJobHandler(t *testing.T) {
	f := newHandlerFixture(t, false, 0)
	mine := Job{ID: uuid.New(), UserID: f.userID, Status: JobCompleted}
	theirs := Job{ID: uuid.New(), UserID: uuid.New(), Status: JobCompleted}
	require.NoError(t, f.jobs.Save(context.Background(), mine))
	require.NoError(t, f.jobs.Save(context.Background(), theirs))

	get := func(id string) *httptest.ResponseRecorder {
		req := f.request(http.MethodGet, "/v1/imports/"+id, nil)
		req.SetPathValue("id", id)
		rec := httptest.NewRecorder()
		f.handler.Job(rec, req)
		return rec
	}

	rec := get(mine.ID.String())
	require.Equal(t, http.StatusOK, rec.Code)
	var job Job
	decodeBody(t, rec, &job)
	assert.Equal(t, mine.ID, job.ID)

	assert.Equal(t, http.StatusNotFound, get(theirs.ID.String()).Code)
	assert.Equal(t, http.StatusNotFound, get(uuid.NewString()).Code)
	assert.Equal(t, http.StatusBadRequest, get("not-a-uuid").Code)
}

func TestProgressHandlerRejectsMissingToken(t *testing.T) {
	f := newHandlerFixture(t, false, 0)
	rec := httptest.NewRecorder()
	f.handler.Progress(rec, httptest.NewRequest(http.MethodGet, "/ws/imports", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestToMessage(t *testing.T) {
	jobID := uuid.New()
	msg, err := toMessage(Event{Kind: EventProgress, JobID: jobID, Progress: Progress{Total: 2, Processed: 1, Imported: 1, Fraction: 0.5}})
	require.NoError(t, err)
	assert.Equal(t, "import_progress", msg.Type)
	assert.JSONEq(t, `{"job_id":"`+jobID.String()+`","total":2,"processed":1,"imported":1,"skipped":0,"errors":0,"fraction":0.5}`, string(msg.Payload))

	summary := NewSession(0).Summary()
	msg, err = toMessage(Event{Kind: EventComplete, JobID: jobID, Summary: &summary})
	require.NoError(t, err)
	assert.Equal(t, "import_complete", msg.Type)
	assert.Contains(t, string(msg.Payload), `"level":"failure"`)
}
