package parser

import (
	"encoding/json"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	httperrors "github.com/gokatarajesh/algosync/pkg/http/errors"
)

const maxContentBytes = 1 << 20

// Metrics counts parse requests by which fields were recovered.
type Metrics struct {
	requests *prometheus.CounterVec
}

// NewMetrics registers the parser counters on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "algosync",
			Subsystem: "parser",
			Name:      "requests_total",
			Help:      "Parse requests by whether a title was recovered.",
		}, []string{"title"}),
	}
	reg.MustRegister(m.requests)
	return m
}

func (m *Metrics) observe(d Draft) {
	if m == nil {
		return
	}
	found := "missing"
	if d.Title != "" {
		found = "found"
	}
	m.requests.WithLabelValues(found).Inc()
}

// HTTPHandler serves POST /v1/questions/parse.
type HTTPHandler struct {
	metrics *Metrics
	logger  zerolog.Logger
}

func NewHTTPHandler(metrics *Metrics, logger zerolog.Logger) *HTTPHandler {
	return &HTTPHandler{
		metrics: metrics,
		logger:  logger.With().Str("component", "parser_http").Logger(),
	}
}

func (h *HTTPHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Content string `json:"content"`
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxContentBytes)
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httperrors.RespondBadRequest(w, httperrors.ErrCodeInvalidRequest, "Invalid JSON payload")
		return
	}
	if req.Content == "" {
		httperrors.RespondValidationError(w, httperrors.ErrCodeMissingField, "Content is required", "content")
		return
	}

	d := Parse(req.Content)
	h.metrics.observe(d)
	h.logger.Debug().
		Bool("title", d.Title != "").
		Int("examples", len(d.Examples)).
		Int("tags", len(d.SuggestedTags)).
		Msg("content parsed")

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(d); err != nil {
		h.logger.Warn().Err(err).Msg("encode draft failed")
	}
}
