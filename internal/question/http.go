package question

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/gokatarajesh/algosync/internal/auth"
	httperrors "github.com/gokatarajesh/algosync/pkg/http/errors"
)

// HTTPHandler exposes the question collection over REST.
type HTTPHandler struct {
	svc    *Service
	logger zerolog.Logger
}

// NewHTTPHandler constructs a question HTTP handler.
func NewHTTPHandler(svc *Service, logger zerolog.Logger) *HTTPHandler {
	return &HTTPHandler{
		svc:    svc,
		logger: logger.With().Str("component", "question_http").Logger(),
	}
}

// List handles GET /v1/questions?search=&difficulty=&topic=&solved=&important=&sort=
func (h *HTTPHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		httperrors.RespondUnauthorized(w, httperrors.ErrCodeAuthenticationRequired, "Authentication required")
		return
	}

	q := r.URL.Query()
	filter := ListFilter{
		Search:     q.Get("search"),
		Difficulty: q.Get("difficulty"),
		Topic:      q.Get("topic"),
		Solved:     parseBoolParam(q.Get("solved")),
		Important:  parseBoolParam(q.Get("important")),
		Sort:       q.Get("sort"),
	}

	questions, err := h.svc.List(r.Context(), userID, filter)
	if err != nil {
		h.logger.Error().Err(err).Msg("list questions failed")
		httperrors.RespondError(w, http.StatusInternalServerError, httperrors.ErrCodeQuestionFetchFailed, "Failed to fetch questions")
		return
	}
	writeJSON(w, http.StatusOK, questions)
}

// Create handles POST /v1/questions
func (h *HTTPHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		httperrors.RespondUnauthorized(w, httperrors.ErrCodeAuthenticationRequired, "Authentication required")
		return
	}

	var d Draft
	if err := json.NewDecoder(r.Body).Decode(&d); err != nil {
		httperrors.RespondBadRequest(w, httperrors.ErrCodeInvalidRequest, "Invalid JSON payload")
		return
	}

	created, err := h.svc.Create(r.Context(), userID, d)
	if err != nil {
		h.respondErr(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// Get handles GET /v1/questions/{id}
func (h *HTTPHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, questionID, ok := h.ids(w, r)
	if !ok {
		return
	}
	q, err := h.svc.Get(r.Context(), userID, questionID)
	if err != nil {
		h.respondErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, q)
}

// Update handles PUT /v1/questions/{id}; absent fields keep their stored value.
func (h *HTTPHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, questionID, ok := h.ids(w, r)
	if !ok {
		return
	}

	var p Patch
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		httperrors.RespondBadRequest(w, httperrors.ErrCodeInvalidRequest, "Invalid JSON payload")
		return
	}

	updated, err := h.svc.Update(r.Context(), userID, questionID, p)
	if err != nil {
		h.respondErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// Delete handles DELETE /v1/questions/{id}
func (h *HTTPHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, questionID, ok := h.ids(w, r)
	if !ok {
		return
	}
	if err := h.svc.Delete(r.Context(), userID, questionID); err != nil {
		h.respondErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Question deleted successfully"})
}

// ToggleImportant handles PATCH /v1/questions/{id}/toggle-important
func (h *HTTPHandler) ToggleImportant(w http.ResponseWriter, r *http.Request) {
	userID, questionID, ok := h.ids(w, r)
	if !ok {
		return
	}
	q, err := h.svc.ToggleImportant(r.Context(), userID, questionID)
	if err != nil {
		h.respondErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, q)
}

// ToggleSolved handles PATCH /v1/questions/{id}/toggle-solved
func (h *HTTPHandler) ToggleSolved(w http.ResponseWriter, r *http.Request) {
	userID, questionID, ok := h.ids(w, r)
	if !ok {
		return
	}
	q, err := h.svc.ToggleSolved(r.Context(), userID, questionID)
	if err != nil {
		h.respondErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, q)
}

// Stats handles GET /v1/questions/stats/overview
func (h *HTTPHandler) Stats(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		httperrors.RespondUnauthorized(w, httperrors.ErrCodeAuthenticationRequired, "Authentication required")
		return
	}
	stats, err := h.svc.Stats(r.Context(), userID)
	if err != nil {
		h.logger.Error().Err(err).Msg("stats failed")
		httperrors.RespondError(w, http.StatusInternalServerError, httperrors.ErrCodeStatsFetchFailed, "Failed to fetch statistics")
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (h *HTTPHandler) ids(w http.ResponseWriter, r *http.Request) (uuid.UUID, uuid.UUID, bool) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		httperrors.RespondUnauthorized(w, httperrors.ErrCodeAuthenticationRequired, "Authentication required")
		return uuid.Nil, uuid.Nil, false
	}
	questionID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		httperrors.RespondBadRequest(w, httperrors.ErrCodeInvalidQuestionID, "Invalid question id")
		return uuid.Nil, uuid.Nil, false
	}
	return userID, questionID, true
}

func (h *HTTPHandler) respondErr(w http.ResponseWriter, err error) {
	var verr *ValidationError
	switch {
	case errors.As(err, &verr):
		httperrors.RespondValidationError(w, httperrors.ErrCodeValidationFailed, verr.Error(), verr.Field)
	case errors.Is(err, ErrNotFound):
		httperrors.RespondNotFound(w, httperrors.ErrCodeQuestionNotFound, "Question not found")
	case errors.Is(err, ErrConflict):
		httperrors.RespondError(w, http.StatusConflict, httperrors.ErrCodeAlreadyExists, "Question with this title already exists")
	default:
		h.logger.Error().Err(err).Msg("question request failed")
		httperrors.RespondInternalError(w, "Internal server error")
	}
}

func parseBoolParam(raw string) *bool {
	if raw == "" {
		return nil
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		return nil
	}
	return &b
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
