package config

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("PG_HOST", "localhost")
	t.Setenv("PG_USER", "algosync")
	t.Setenv("PG_PASSWORD", "secret")
	t.Setenv("PG_DATABASE", "algosync")
	t.Setenv("REDIS_ADDR", "localhost:6379")
	t.Setenv("JWT_SECRET", "test-secret")
}

func TestLoadDefaults(t *testing.T) {
	setRequired(t)

	cfg, err := Load(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "algosync", cfg.Name)
	assert.Equal(t, "0.0.0.0:8080", cfg.HTTPAddr)
	assert.Equal(t, 20*time.Second, cfg.GracefulShutdownTimeout)
	assert.Equal(t, 16, cfg.Import.QueueSize)
	assert.Equal(t, time.Hour, cfg.Import.JobTTL)
	assert.False(t, cfg.Import.RejectBatchDuplicates)
	assert.Equal(t, int64(10<<20), cfg.Import.MaxBundleBytes)
	assert.Equal(t, 5*time.Minute, cfg.Stats.CacheTTL)
	assert.Empty(t, cfg.OAuth.GoogleClientID)
	assert.Equal(t, []string{"http://localhost:5173", "http://127.0.0.1:5173"}, cfg.CORS.AllowedOrigins)
	assert.Equal(t,
		"host=localhost port=5432 user=algosync password=secret dbname=algosync sslmode=disable",
		cfg.Postgres.DSN())
}

func TestLoadOverrides(t *testing.T) {
	setRequired(t)
	t.Setenv("IMPORT_REJECT_BATCH_DUPLICATES", "true")
	t.Setenv("IMPORT_QUEUE_SIZE", "2")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://algosync.dev")

	cfg, err := Load(context.Background())
	require.NoError(t, err)
	assert.True(t, cfg.Import.RejectBatchDuplicates)
	assert.Equal(t, 2, cfg.Import.QueueSize)
	assert.Equal(t, []string{"https://algosync.dev"}, cfg.CORS.AllowedOrigins)
}

func TestLoadMissingSecret(t *testing.T) {
	setRequired(t)
	t.Setenv("JWT_SECRET", "")

	_, err := Load(context.Background())
	require.Error(t, err)
}
