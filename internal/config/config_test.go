package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cordoba/internal/config"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "memory", cfg.Preview.Store)
	assert.Equal(t, 30*time.Minute, cfg.Preview.TTL)
	assert.Equal(t, 200, cfg.Preview.MaxEntries)
	assert.Equal(t, int64(10), cfg.Import.MaxUploadMB)
	assert.Equal(t, int64(10*1024*1024), cfg.Import.MaxUploadBytes())
	assert.Equal(t, "duplicate_first", cfg.Import.DuplicatePrecedence)
	assert.Equal(t, 100, cfg.Import.PreviewRows)
	assert.Equal(t, 15*time.Minute, cfg.Import.DownloadURLExpiry)
	assert.Equal(t, 24*time.Hour, cfg.Import.OrphanArchiveAge)
	assert.Equal(t, time.Hour, cfg.Import.ArchiveSweepInterval)
	assert.True(t, cfg.RateLimit.Enabled)
	assert.Equal(t, int64(60), cfg.RateLimit.PerMinute)
	assert.Equal(t, 60*time.Minute, cfg.JWT.AccessTokenExpiry)
	assert.Contains(t, cfg.CORS.AllowedOrigins, "http://localhost:3000")
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("CORDOBA_PREVIEW_STORE", "redis")
	t.Setenv("CORDOBA_PREVIEW_TTL", "5m")
	t.Setenv("CORDOBA_IMPORT_DUPLICATE_PRECEDENCE", "invalid_first")
	t.Setenv("CORDOBA_RATE_LIMIT_PER_MINUTE", "120")
	t.Setenv("CORDOBA_CORS_ALLOWED_ORIGINS", " https://app.example.com , ,https://admin.example.com")
	t.Setenv("CORDOBA_DB_HOST", "db.internal")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "redis", cfg.Preview.Store)
	assert.Equal(t, 5*time.Minute, cfg.Preview.TTL)
	assert.Equal(t, "invalid_first", cfg.Import.DuplicatePrecedence)
	assert.Equal(t, int64(120), cfg.RateLimit.PerMinute)
	assert.Equal(t, []string{"https://app.example.com", "https://admin.example.com"}, cfg.CORS.AllowedOrigins)
	assert.Contains(t, cfg.DB.DSN(), "@db.internal:5432/")
}

func TestLoad_ServerPortFromPlatform(t *testing.T) {
	t.Setenv("PORT", "9100")
	t.Setenv("CORDOBA_SERVER_PORT", "")

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, ":9100", cfg.Server.Port)
}

func TestLoad_RejectsUnknownPreviewStore(t *testing.T) {
	t.Setenv("CORDOBA_PREVIEW_STORE", "memcached")

	_, err := config.Load()
	assert.ErrorContains(t, err, "preview.store")
}

func TestLoad_RejectsNonPositiveTTL(t *testing.T) {
	t.Setenv("CORDOBA_PREVIEW_TTL", "0s")

	_, err := config.Load()
	assert.ErrorContains(t, err, "preview.ttl")
}

func TestLoad_RejectsNonPositiveSweepInterval(t *testing.T) {
	t.Setenv("CORDOBA_PREVIEW_SWEEP_INTERVAL", "0s")

	_, err := config.Load()
	assert.ErrorContains(t, err, "preview.sweep_interval")
}

func TestLoad_OrphanArchiveAgeMustOutlivePreviews(t *testing.T) {
	t.Setenv("CORDOBA_PREVIEW_TTL", "2h")
	t.Setenv("CORDOBA_IMPORT_ORPHAN_ARCHIVE_AGE", "1h")

	_, err := config.Load()
	assert.ErrorContains(t, err, "import.orphan_archive_age")
}
