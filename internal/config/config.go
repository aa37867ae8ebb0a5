package config

import (
	"context"
	"fmt"
	"time"

	"github.com/caarlos0/env/v10"
)

// App holds core runtime configuration shared across services.
type App struct {
	Name                    string        `env:"APP_NAME" envDefault:"algosync"`
	Env                     string        `env:"APP_ENV" envDefault:"development"`
	HTTPAddr                string        `env:"HTTP_ADDR" envDefault:"0.0.0.0:8080"`
	GracefulShutdownTimeout time.Duration `env:"GRACEFUL_SHUTDOWN_SECONDS" envDefault:"20s"`

	Postgres Postgres
	Redis    Redis
	Security Security
	OAuth    OAuth
	Import   Import
	Stats    Stats
	CORS     CORS
}

// Postgres captures connection info for the SQL database.
type Postgres struct {
	Host     string `env:"PG_HOST,notEmpty"`
	Port     int    `env:"PG_PORT" envDefault:"5432"`
	User     string `env:"PG_USER,notEmpty"`
	Password string `env:"PG_PASSWORD,notEmpty"`
	Database string `env:"PG_DATABASE,notEmpty"`
	SSLMode  string `env:"PG_SSL_MODE" envDefault:"disable"`
	MaxConns int    `env:"PG_MAX_CONNS" envDefault:"10"`
}

// DSN renders the keyword/value connection string understood by pgx.
// Pool sizing is applied separately so the string also works with database/sql.
func (p Postgres) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		p.Host, p.Port, p.User, p.Password, p.Database, p.SSLMode)
}

// Redis holds cache + pub/sub configuration.
type Redis struct {
	Addr     string `env:"REDIS_ADDR,notEmpty"`
	DB       int    `env:"REDIS_DB" envDefault:"0"`
	PoolSize int    `env:"REDIS_POOL_SIZE" envDefault:"20"`
}

// Security stores secrets for signing and auth.
type Security struct {
	JWTSecret  string        `env:"JWT_SECRET,notEmpty"`
	AccessTTL  time.Duration `env:"JWT_ACCESS_TTL" envDefault:"1h"`
	RefreshTTL time.Duration `env:"JWT_REFRESH_TTL" envDefault:"168h"`
}

// OAuth holds OAuth provider configuration.
type OAuth struct {
	GoogleClientID     string `env:"GOOGLE_OAUTH_CLIENT_ID" envDefault:""`
	GoogleClientSecret string `env:"GOOGLE_OAUTH_CLIENT_SECRET" envDefault:""`
	GoogleRedirectURL  string `env:"GOOGLE_OAUTH_REDIRECT_URL" envDefault:""`
}

// Import governs bundle import runs.
type Import struct {
	QueueSize             int           `env:"IMPORT_QUEUE_SIZE" envDefault:"16"`
	JobTTL                time.Duration `env:"IMPORT_JOB_TTL" envDefault:"1h"`
	RecordTimeout         time.Duration `env:"IMPORT_RECORD_TIMEOUT" envDefault:"5s"`
	MaxBundleBytes        int64         `env:"IMPORT_MAX_BUNDLE_BYTES" envDefault:"10485760"`
	RejectBatchDuplicates bool          `env:"IMPORT_REJECT_BATCH_DUPLICATES" envDefault:"false"`
}

// Stats configures the stats-overview cache.
type Stats struct {
	CacheTTL time.Duration `env:"STATS_CACHE_TTL" envDefault:"5m"`
}

// CORS holds Cross-Origin Resource Sharing configuration.
type CORS struct {
	AllowedOrigins   []string `env:"CORS_ALLOWED_ORIGINS" envSeparator:"," envDefault:"http://localhost:5173,http://127.0.0.1:5173"`
	AllowedMethods   []string `env:"CORS_ALLOWED_METHODS" envSeparator:"," envDefault:"GET,POST,PUT,PATCH,DELETE,OPTIONS"`
	AllowedHeaders   []string `env:"CORS_ALLOWED_HEADERS" envSeparator:"," envDefault:"Content-Type,Authorization"`
	AllowCredentials bool     `env:"CORS_ALLOW_CREDENTIALS" envDefault:"true"`
	MaxAge           int      `env:"CORS_MAX_AGE" envDefault:"3600"`
}

// Load parses environment variables into App config.
func Load(ctx context.Context) (*App, error) {
	cfg := &App{}
	if err := env.ParseWithOptions(cfg, env.Options{RequiredIfNoDef: true}); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}
