package bundle

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/gokatarajesh/algosync/internal/auth"
	"github.com/gokatarajesh/algosync/internal/auth/jwt"
	httperrors "github.com/gokatarajesh/algosync/pkg/http/errors"
	ws "github.com/gokatarajesh/algosync/pkg/http/ws"
)

const (
	defaultMaxBundleBytes = 10 << 20
	invalidFormatMessage  = "Invalid file format. Please select a valid AlgoSync export file."
)

// IdentityLookup resolves the profile recorded as a bundle's exporter.
type IdentityLookup interface {
	Profile(ctx context.Context, userID uuid.UUID) (*auth.User, error)
}

// TokenValidator checks the access token a WebSocket client passes in the query string.
type TokenValidator interface {
	ValidateToken(token string) (*jwt.Claims, error)
}

// HTTPDeps groups what the import/export endpoints need. Worker may be nil,
// in which case async imports are refused.
type HTTPDeps struct {
	Stores         StoreFor
	Identities     IdentityLookup
	Tokens         TokenValidator
	Reconciler     *Reconciler
	Exporter       *Exporter
	Worker         *Worker
	Jobs           JobTracker
	Publisher      Publisher
	Hub            *ws.Hub
	Upgrader       *websocket.Upgrader
	MaxBundleBytes int64
}

// HTTPHandler exposes export, import and import progress.
type HTTPHandler struct {
	deps   HTTPDeps
	logger zerolog.Logger
}

func NewHTTPHandler(deps HTTPDeps, logger zerolog.Logger) *HTTPHandler {
	if deps.MaxBundleBytes <= 0 {
		deps.MaxBundleBytes = defaultMaxBundleBytes
	}
	if deps.Upgrader == nil {
		deps.Upgrader = ws.NewUpgrader(nil)
	}
	return &HTTPHandler{
		deps:   deps,
		logger: logger.With().Str("component", "bundle_http").Logger(),
	}
}

// Export handles GET /v1/questions/export
func (h *HTTPHandler) Export(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		httperrors.RespondUnauthorized(w, httperrors.ErrCodeAuthenticationRequired, "Authentication required")
		return
	}

	user, err := h.deps.Identities.Profile(r.Context(), userID)
	if err != nil {
		h.logger.Error().Err(err).Str("user_id", userID.String()).Msg("export identity lookup failed")
		httperrors.RespondInternalError(w, "Failed to export data")
		return
	}

	b, err := h.deps.Exporter.Export(r.Context(), h.deps.Stores(userID), user.DisplayIdentity())
	if err != nil {
		h.logger.Error().Err(err).Str("user_id", userID.String()).Msg("export failed")
		httperrors.RespondError(w, http.StatusInternalServerError, httperrors.ErrCodeExportFailed, "Failed to export data")
		return
	}

	data, err := json.MarshalIndent(b, "", "  ")
	if err != nil {
		h.logger.Error().Err(err).Msg("encode export failed")
		httperrors.RespondError(w, http.StatusInternalServerError, httperrors.ErrCodeExportFailed, "Failed to export data")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{
		"filename": FileName(b.ExportedAt),
	}))
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// Import handles POST /v1/questions/import[?async=true]
// The bundle is the request body, or the "file" part of a multipart form.
func (h *HTTPHandler) Import(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		httperrors.RespondUnauthorized(w, httperrors.ErrCodeAuthenticationRequired, "Authentication required")
		return
	}

	records, err := h.readBundle(w, r)
	if err != nil {
		var tooLarge *http.MaxBytesError
		var format *FormatError
		switch {
		case errors.As(err, &tooLarge):
			httperrors.RespondErrorWithDetails(w, http.StatusRequestEntityTooLarge, httperrors.ErrCodePayloadTooLarge,
				fmt.Sprintf("Bundle exceeds %d bytes", tooLarge.Limit), map[string]interface{}{"limit": tooLarge.Limit})
		case errors.As(err, &format):
			h.logger.Info().Err(err).Str("user_id", userID.String()).Msg("rejected import bundle")
			httperrors.RespondErrorWithDetails(w, http.StatusBadRequest, httperrors.ErrCodeInvalidFormat, invalidFormatMessage,
				map[string]interface{}{"reason": format.Reason})
		default:
			httperrors.RespondBadRequest(w, httperrors.ErrCodeInvalidRequest, "Failed to read import file")
		}
		return
	}

	if async, _ := strconv.ParseBool(r.URL.Query().Get("async")); async {
		h.enqueue(w, r, userID, records)
		return
	}

	job := Job{ID: uuid.New(), UserID: userID, Status: JobRunning}
	observer := &runObserver{ctx: r.Context(), job: &job, publisher: h.deps.Publisher, logger: h.logger}
	summary, err := h.deps.Reconciler.Run(r.Context(), h.deps.Stores(userID), records, observer)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			h.logger.Info().Str("user_id", userID.String()).Int("processed", summary.Imported+summary.Skipped+summary.Errors).
				Msg("import aborted by client")
			return
		}
		h.logger.Error().Err(err).Str("user_id", userID.String()).Msg("import failed")
		httperrors.RespondError(w, http.StatusInternalServerError, httperrors.ErrCodeImportFailed, "Import failed")
		return
	}

	if h.deps.Publisher != nil {
		evt := Event{Kind: EventComplete, JobID: job.ID, UserID: userID, Progress: job.Progress, Summary: &summary}
		if err := h.deps.Publisher.Publish(r.Context(), evt); err != nil {
			h.logger.Debug().Err(err).Msg("completion publish failed")
		}
	}
	writeJSON(w, http.StatusOK, summary)
}

func (h *HTTPHandler) enqueue(w http.ResponseWriter, r *http.Request, userID uuid.UUID, records []json.RawMessage) {
	if h.deps.Worker == nil {
		httperrors.RespondServiceUnavailable(w, httperrors.ErrCodeServiceUnavailable, "Background imports are disabled")
		return
	}
	job, err := h.deps.Worker.Enqueue(r.Context(), userID, records)
	if err != nil {
		if errors.Is(err, ErrQueueFull) {
			httperrors.RespondServiceUnavailable(w, httperrors.ErrCodeImportQueueFull, "Import queue is full, try again shortly")
			return
		}
		h.logger.Error().Err(err).Str("user_id", userID.String()).Msg("enqueue import failed")
		httperrors.RespondError(w, http.StatusInternalServerError, httperrors.ErrCodeImportFailed, "Import failed")
		return
	}
	w.Header().Set("Location", "/v1/imports/"+job.ID.String())
	writeJSON(w, http.StatusAccepted, job)
}

func (h *HTTPHandler) readBundle(w http.ResponseWriter, r *http.Request) ([]json.RawMessage, error) {
	r.Body = http.MaxBytesReader(w, r.Body, h.deps.MaxBundleBytes)
	defer r.Body.Close()

	var body io.Reader = r.Body
	if mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type")); mediaType == "multipart/form-data" {
		if err := r.ParseMultipartForm(h.deps.MaxBundleBytes); err != nil {
			return nil, err
		}
		file, _, err := r.FormFile("file")
		if err != nil {
			return nil, err
		}
		defer file.Close()
		body = file
	}
	return Decode(body)
}

// Job handles GET /v1/imports/{id}
func (h *HTTPHandler) Job(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		httperrors.RespondUnauthorized(w, httperrors.ErrCodeAuthenticationRequired, "Authentication required")
		return
	}
	jobID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		httperrors.RespondBadRequest(w, httperrors.ErrCodeInvalidRequest, "Invalid job ID")
		return
	}

	job, err := h.deps.Jobs.Get(r.Context(), jobID)
	if err != nil || job.UserID != userID {
		if err != nil && !errors.Is(err, ErrJobNotFound) {
			h.logger.Error().Err(err).Str("job_id", jobID.String()).Msg("load import job failed")
			httperrors.RespondInternalError(w, "Failed to load import job")
			return
		}
		httperrors.RespondNotFound(w, httperrors.ErrCodeJobNotFound, "Import job not found")
		return
	}
	writeJSON(w, http.StatusOK, job)
}

// Progress handles GET /ws/imports?token=
func (h *HTTPHandler) Progress(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		httperrors.RespondUnauthorized(w, httperrors.ErrCodeInvalidToken, "Missing token")
		return
	}

	claims, err := h.deps.Tokens.ValidateToken(token)
	if err != nil {
		h.logger.Warn().Err(err).Msg("WebSocket token validation failed")
		httperrors.RespondUnauthorized(w, httperrors.ErrCodeInvalidToken, "Invalid token")
		return
	}

	conn, err := h.deps.Upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Error().Err(err).Msg("WebSocket upgrade failed")
		return
	}

	userID := claims.UserID
	wsConn := ws.NewConnection(conn, h.logger.With().Str("user_id", userID.String()).Logger())
	h.deps.Hub.RegisterConnection(userID, wsConn)

	go wsConn.WritePump()

	wsConn.ReadPump(func(msg ws.Message) error {
		return h.handleMessage(wsConn, msg)
	})

	h.deps.Hub.UnregisterConnection(userID, wsConn)
}

func (h *HTTPHandler) handleMessage(conn *ws.Connection, msg ws.Message) error {
	switch msg.Type {
	case ws.TypePing:
		reply := ws.Message{Type: ws.TypePong, Payload: json.RawMessage(`{}`), RequestID: msg.RequestID}
		return conn.Send(reply)
	default:
		reply, err := ws.NewMessage(ws.TypeError, ws.ErrorPayload{
			Code:    httperrors.ErrCodeUnknownMessageType,
			Message: fmt.Sprintf("Unknown message type: %s", msg.Type),
		})
		if err != nil {
			return err
		}
		reply.RequestID = msg.RequestID
		return conn.Send(reply)
	}
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
