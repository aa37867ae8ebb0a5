package errors

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestRespondErrorWithDetails(t *testing.T) {
	rec := httptest.NewRecorder()
	RespondErrorWithDetails(rec, http.StatusBadRequest, ErrCodeInvalidFormat, "bad bundle", map[string]interface{}{"reason": "empty document"})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	body := decode(t, rec)
	assert.Equal(t, "invalid_format", body["error"])
	assert.Equal(t, map[string]any{"reason": "empty document"}, body["details"])
	assert.NotContains(t, body, "field")
}

func TestRespondValidationError(t *testing.T) {
	rec := httptest.NewRecorder()
	RespondValidationError(rec, ErrCodeMissingField, "Content is required", "content")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, "content", body["field"])
	assert.NotContains(t, body, "details")
}

func TestRespondInternalError(t *testing.T) {
	rec := httptest.NewRecorder()
	RespondInternalError(rec, "boom")

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "internal_error", decode(t, rec)["error"])
}
