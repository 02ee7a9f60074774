package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dzoniops/villa-pricing-service/pricing"
)

func TestFromEnvDefaults(t *testing.T) {
	for _, key := range []string{"PORT", "PGHOST", "PGPORT", "NEGATIVE_PRICE_POLICY", "TRACE_STDOUT", "LOG_LEVEL", "MAX_NIGHTS"} {
		t.Setenv(key, "")
	}

	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "localhost", cfg.Postgres.Host)
	assert.Equal(t, "5432", cfg.Postgres.Port)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, pricing.AllowNegative, cfg.Policy)
	assert.False(t, cfg.TraceStdout)
	assert.Equal(t, 365, cfg.MaxNights)
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("PORT", "3000")
	t.Setenv("PGHOST", "db")
	t.Setenv("PGPASSWORD", "secret")
	t.Setenv("NEGATIVE_PRICE_POLICY", "clamp")
	t.Setenv("TRACE_STDOUT", "true")
	t.Setenv("MAX_NIGHTS", "30")

	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, "3000", cfg.Port)
	assert.Equal(t, pricing.ClampAtZero, cfg.Policy)
	assert.True(t, cfg.TraceStdout)
	assert.Equal(t, 30, cfg.MaxNights)
	assert.Contains(t, cfg.Postgres.DSN(), "host=db")
	assert.Contains(t, cfg.Postgres.DSN(), "password=secret")
}

func TestFromEnvRejectsUnknownPolicy(t *testing.T) {
	t.Setenv("NEGATIVE_PRICE_POLICY", "round-up")

	_, err := FromEnv()
	assert.True(t, errors.Is(err, pricing.ErrUnknownPolicy))
}

func TestFromEnvRejectsBadMaxNights(t *testing.T) {
	for _, v := range []string{"0", "-7", "a year"} {
		t.Setenv("MAX_NIGHTS", v)

		_, err := FromEnv()
		assert.Error(t, err, v)
	}
}

func TestLoadReadsEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("METRICS_PORT=9191\n"), 0o600))

	// godotenv never overrides variables that are already set.
	t.Setenv("METRICS_PORT", "")
	require.NoError(t, os.Unsetenv("METRICS_PORT"))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "9191", cfg.MetricsPort)
}

func TestLoadToleratesMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	assert.NoError(t, err)
}
