package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/gokatarajesh/algosync/internal/auth"
	"github.com/gokatarajesh/algosync/internal/auth/jwt"
	"github.com/gokatarajesh/algosync/internal/bundle"
	"github.com/gokatarajesh/algosync/internal/config"
	"github.com/gokatarajesh/algosync/internal/db/queries"
	"github.com/gokatarajesh/algosync/internal/db/repository"
	"github.com/gokatarajesh/algosync/internal/logging"
	"github.com/gokatarajesh/algosync/internal/question"
	"github.com/gokatarajesh/algosync/internal/question/parser"
	"github.com/gokatarajesh/algosync/internal/server"
	ws "github.com/gokatarajesh/algosync/pkg/http/ws"
)

// Application aggregates shared infrastructure (DB, cache, HTTP server).
type Application struct {
	cfg    *config.App
	logger zerolog.Logger

	pool  *pgxpool.Pool
	redis *redis.Client
	http  *http.Server

	importWorker  *bundle.Worker
	progressRelay *bundle.Relay
	bgCancels     []context.CancelFunc
}

// New bootstraps configs, logger, Postgres, Redis and HTTP server.
func New(ctx context.Context, cfg *config.App) (*Application, error) {
	logger := logging.New(cfg.Name, cfg.Env)
	logger.Info().Msg("starting application bootstrap")

	poolCfg, err := pgxpool.ParseConfig(cfg.Postgres.DSN())
	if err != nil {
		return nil, fmt.Errorf("parse postgres config: %w", err)
	}
	if cfg.Postgres.MaxConns > 0 {
		poolCfg.MaxConns = int32(cfg.Postgres.MaxConns)
	}
	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		DB:       cfg.Redis.DB,
		PoolSize: cfg.Redis.PoolSize,
	})

	db := queries.New(pool)
	userRepo := repository.NewUserRepository(db)
	questionRepo := repository.NewQuestionRepository(db)

	if cfg.Security.JWTSecret == "" {
		pool.Close()
		_ = redisClient.Close()
		return nil, errors.New("authentication service must be configured (set JWT_SECRET)")
	}

	authSvc := auth.NewService(userRepo, auth.ServiceOptions{
		TokenConfig: jwt.TokenConfig{
			AccessSecret: []byte(cfg.Security.JWTSecret),
			AccessTTL:    cfg.Security.AccessTTL,
			RefreshTTL:   cfg.Security.RefreshTTL,
			Issuer:       cfg.Name,
		},
	}, logger)

	var oauthSvc *auth.OAuthService
	if cfg.OAuth.GoogleClientID != "" && cfg.OAuth.GoogleClientSecret != "" {
		redirectURL := cfg.OAuth.GoogleRedirectURL
		if redirectURL == "" {
			redirectURL = fmt.Sprintf("http://%s/v1/oauth/google/callback", cfg.HTTPAddr)
		}
		oauthSvc = auth.NewOAuthService(
			cfg.OAuth.GoogleClientID,
			cfg.OAuth.GoogleClientSecret,
			redirectURL,
			redisClient,
			authSvc,
			logger,
		)
		logger.Info().Msg("OAuth service initialized")
	} else {
		logger.Warn().Msg("OAuth not configured (missing GOOGLE_OAUTH_CLIENT_ID or GOOGLE_OAUTH_CLIENT_SECRET)")
	}
	authHandlers := auth.NewHTTPHandlers(authSvc, oauthSvc, logger)

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	questionSvc := question.NewService(questionRepo, question.NewCache(redisClient, cfg.Stats.CacheTTL), logger)
	questionHandler := question.NewHTTPHandler(questionSvc, logger)
	parseHandler := parser.NewHTTPHandler(parser.NewMetrics(registry), logger)

	stores := func(userID uuid.UUID) bundle.Store { return questionSvc.ForUser(userID) }
	bundleMetrics := bundle.NewMetrics(registry)
	reconciler := bundle.NewReconciler(bundle.Options{
		RejectBatchDuplicates: cfg.Import.RejectBatchDuplicates,
		RecordTimeout:         cfg.Import.RecordTimeout,
	}, bundleMetrics, logger)
	jobs := bundle.NewJobStore(redisClient, cfg.Import.JobTTL)
	publisher := bundle.NewRedisPublisher(redisClient)
	importWorker := bundle.NewWorker(reconciler, stores, jobs, publisher, cfg.Import.QueueSize, logger)

	hub := ws.NewHub(logger)
	progressRelay := bundle.NewRelay(redisClient, hub, logger)
	bundleHandler := bundle.NewHTTPHandler(bundle.HTTPDeps{
		Stores:         stores,
		Identities:     authSvc,
		Tokens:         authSvc,
		Reconciler:     reconciler,
		Exporter:       bundle.NewExporter(bundleMetrics),
		Worker:         importWorker,
		Jobs:           jobs,
		Publisher:      publisher,
		Hub:            hub,
		Upgrader:       ws.NewUpgrader(cfg.CORS.AllowedOrigins),
		MaxBundleBytes: cfg.Import.MaxBundleBytes,
	}, logger)

	apiServer := server.NewHTTPServer(cfg, logger, registry, map[string]server.Pinger{
		"postgres": server.PostgresPinger(pool),
		"redis":    server.RedisPinger(redisClient),
	}, server.Handlers{
		Auth:         authHandlers,
		Questions:    questionHandler,
		Parser:       parseHandler,
		Bundles:      bundleHandler,
		Authenticate: auth.AuthMiddleware(authSvc, logger),
	})

	return &Application{
		cfg:           cfg,
		logger:        logger,
		pool:          pool,
		redis:         redisClient,
		http:          apiServer,
		importWorker:  importWorker,
		progressRelay: progressRelay,
		bgCancels:     make([]context.CancelFunc, 0, 1),
	}, nil
}

// Run starts the HTTP server and waits for termination signals.
func (a *Application) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	a.startBackgroundWorkers(ctx)

	go func() {
		a.logger.Info().Str("addr", a.cfg.HTTPAddr).Msg("http server listening")
		if err := a.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	var runErr error
	select {
	case sig := <-sigCh:
		a.logger.Info().Str("signal", sig.String()).Msg("shutdown signal received")
	case err := <-errCh:
		runErr = fmt.Errorf("http server error: %w", err)
	case <-ctx.Done():
		a.logger.Warn().Msg("context canceled")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.GracefulShutdownTimeout)
	defer cancel()

	if err := a.http.Shutdown(shutdownCtx); err != nil {
		a.logger.Error().Err(err).Msg("http shutdown error")
	}

	a.importWorker.Stop()
	for _, cancel := range a.bgCancels {
		cancel()
	}

	a.pool.Close()
	if err := a.redis.Close(); err != nil {
		a.logger.Error().Err(err).Msg("redis shutdown error")
	}

	a.logger.Info().Msg("shutdown complete")
	return runErr
}

func (a *Application) startBackgroundWorkers(ctx context.Context) {
	go a.importWorker.Run()

	bgCtx, cancel := context.WithCancel(ctx)
	a.bgCancels = append(a.bgCancels, cancel)
	go func() {
		if err := a.progressRelay.Run(bgCtx); err != nil && !errors.Is(err, context.Canceled) {
			a.logger.Warn().Err(err).Msg("import progress relay stopped")
		}
	}()
}
