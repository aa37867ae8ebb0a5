package server

import (
	"context"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/gokatarajesh/algosync/internal/auth"
	"github.com/gokatarajesh/algosync/internal/bundle"
	"github.com/gokatarajesh/algosync/internal/config"
	"github.com/gokatarajesh/algosync/internal/logging"
	"github.com/gokatarajesh/algosync/internal/question"
	httperrors "github.com/gokatarajesh/algosync/pkg/http/errors"
)

// Handlers groups the feature handlers mounted on the API mux.
// Auth is optional: without it only health and metrics are served.
type Handlers struct {
	Auth      *auth.HTTPHandlers
	Questions *question.HTTPHandler
	Parser    http.Handler
	Bundles   *bundle.HTTPHandler

	// Authenticate injects claims from the bearer token, if any.
	Authenticate func(http.Handler) http.Handler
}

// Pinger reports whether a backing service is reachable.
type Pinger func(ctx context.Context) error

// NewHTTPServer wires every route of the API service.
func NewHTTPServer(cfg *config.App, logger zerolog.Logger, gatherer prometheus.Gatherer, pingers map[string]Pinger, h Handlers) *http.Server {
	return &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           NewRouter(cfg, logger, gatherer, pingers, h),
		ReadHeaderTimeout: 10 * time.Second,
	}
}

// NewRouter builds the mux with logging and CORS applied.
func NewRouter(cfg *config.App, logger zerolog.Logger, gatherer prometheus.Gatherer, pingers map[string]Pinger, h Handlers) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	mux.HandleFunc("GET /readyz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := pingDependencies(ctx, pingers); err != nil {
			reqLogger := logging.FromContext(r.Context())
			reqLogger.Error().Err(err).Msg("dependency ping failed")
			httperrors.RespondServiceUnavailable(w, httperrors.ErrCodeServiceUnavailable, "Dependencies unavailable")
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"ready"}`))
	})

	if gatherer != nil {
		mux.Handle("GET /metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	}

	if h.Auth != nil {
		mux.HandleFunc("POST /v1/auth/register", h.Auth.Register)
		mux.HandleFunc("POST /v1/auth/login", h.Auth.Login)
		mux.HandleFunc("POST /v1/auth/refresh", h.Auth.RefreshToken)
		mux.Handle("GET /v1/auth/profile", auth.RequireAuth(http.HandlerFunc(h.Auth.Profile)))
		mux.Handle("PUT /v1/auth/profile", auth.RequireAuth(http.HandlerFunc(h.Auth.UpdateProfile)))
		mux.HandleFunc("GET /v1/oauth/{provider}/start", h.Auth.OAuthStart)
		mux.HandleFunc("GET /v1/oauth/{provider}/callback", h.Auth.OAuthCallback)
	}

	if h.Questions != nil {
		mux.Handle("GET /v1/questions", auth.RequireAuth(http.HandlerFunc(h.Questions.List)))
		mux.Handle("POST /v1/questions", auth.RequireAuth(http.HandlerFunc(h.Questions.Create)))
		mux.Handle("GET /v1/questions/stats/overview", auth.RequireAuth(http.HandlerFunc(h.Questions.Stats)))
		mux.Handle("GET /v1/questions/{id}", auth.RequireAuth(http.HandlerFunc(h.Questions.Get)))
		mux.Handle("PUT /v1/questions/{id}", auth.RequireAuth(http.HandlerFunc(h.Questions.Update)))
		mux.Handle("DELETE /v1/questions/{id}", auth.RequireAuth(http.HandlerFunc(h.Questions.Delete)))
		mux.Handle("PATCH /v1/questions/{id}/toggle-important", auth.RequireAuth(http.HandlerFunc(h.Questions.ToggleImportant)))
		mux.Handle("PATCH /v1/questions/{id}/toggle-solved", auth.RequireAuth(http.HandlerFunc(h.Questions.ToggleSolved)))
	}

	if h.Parser != nil {
		mux.Handle("POST /v1/questions/parse", auth.RequireAuth(h.Parser))
	}

	if h.Bundles != nil {
		mux.Handle("GET /v1/questions/export", auth.RequireAuth(http.HandlerFunc(h.Bundles.Export)))
		mux.Handle("POST /v1/questions/import", auth.RequireAuth(http.HandlerFunc(h.Bundles.Import)))
		mux.Handle("GET /v1/imports/{id}", auth.RequireAuth(http.HandlerFunc(h.Bundles.Job)))
		// WebSocket clients cannot set headers; the token travels in the query string.
		mux.HandleFunc("GET /ws/imports", h.Bundles.Progress)
	}

	var handler http.Handler = mux
	if h.Authenticate != nil {
		handler = h.Authenticate(handler)
	}
	handler = CORS(cfg.CORS)(handler)
	return logging.Middleware(logger)(handler)
}

func pingDependencies(ctx context.Context, pingers map[string]Pinger) error {
	for name, ping := range pingers {
		if err := ping(ctx); err != nil {
			return &dependencyError{name: name, err: err}
		}
	}
	return nil
}

type dependencyError struct {
	name string
	err  error
}

func (e *dependencyError) Error() string { return e.name + ": " + e.err.Error() }
func (e *dependencyError) Unwrap() error { return e.err }

// PostgresPinger adapts a pool to Pinger.
func PostgresPinger(pool *pgxpool.Pool) Pinger {
	return pool.Ping
}

// RedisPinger adapts a client to Pinger.
func RedisPinger(client *redis.Client) Pinger {
	return func(ctx context.Context) error {
		return client.Ping(ctx).Err()
	}
}
