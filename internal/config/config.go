package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig
	DB        DBConfig
	JWT       JWTConfig
	S3        S3Config
	Log       LogConfig
	CORS      CORSConfig
	RateLimit RateLimitConfig
	Redis     RedisConfig
	Preview   PreviewConfig
	Import    ImportConfig
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// RateLimitConfig holds per-client request limits.
type RateLimitConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	PerMinute int64  `mapstructure:"per_minute"`
	Store     string `mapstructure:"store"`
}

// RedisConfig holds the shared Redis connection used by the preview store
// and the rate limiter.
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// PreviewConfig holds preview cache settings.
type PreviewConfig struct {
	Store         string        `mapstructure:"store"`
	TTL           time.Duration `mapstructure:"ttl"`
	MaxEntries    int           `mapstructure:"max_entries"`
	SweepInterval time.Duration `mapstructure:"sweep_interval"`
}

// ImportConfig holds spreadsheet import settings.
type ImportConfig struct {
	MaxUploadMB         int64  `mapstructure:"max_upload_mb"`
	DuplicatePrecedence string `mapstructure:"duplicate_precedence"`
	PreviewRows         int    `mapstructure:"preview_rows"`
	ArchiveUploads      bool   `mapstructure:"archive_uploads"`

	// DownloadURLExpiry bounds the lifetime of archive download links.
	DownloadURLExpiry time.Duration `mapstructure:"download_url_expiry"`
	// OrphanArchiveAge is how old an archived upload must be before it is
	// deleted for not being referenced by any import run.
	OrphanArchiveAge     time.Duration `mapstructure:"orphan_archive_age"`
	ArchiveSweepInterval time.Duration `mapstructure:"archive_sweep_interval"`
}

// MaxUploadBytes returns the upload limit in bytes.
func (c *ImportConfig) MaxUploadBytes() int64 {
	return c.MaxUploadMB * 1024 * 1024
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port         string        `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	Environment  string        `mapstructure:"environment"`
	AppName      string        `mapstructure:"app_name"`
	Version      string        `mapstructure:"version"`
}

// DBConfig holds PostgreSQL connection settings.
type DBConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
	SSLMode  string `mapstructure:"sslmode"`
	MaxOpen  int    `mapstructure:"max_open"`
	MaxIdle  int    `mapstructure:"max_idle"`
}

// DSN returns the PostgreSQL connection string.
func (d *DBConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode,
	)
}

// JWTConfig holds JWT signing and expiry settings.
type JWTConfig struct {
	Secret             string        `mapstructure:"secret"`
	AccessTokenExpiry  time.Duration `mapstructure:"access_expiry"`
	RefreshTokenExpiry time.Duration `mapstructure:"refresh_expiry"`
	Issuer             string        `mapstructure:"issuer"`
}

// S3Config holds AWS S3 settings for archiving uploaded spreadsheets.
type S3Config struct {
	Region    string `mapstructure:"region"`
	Bucket    string `mapstructure:"bucket"`
	Endpoint  string `mapstructure:"endpoint"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load reads configuration from environment variables with the CORDOBA_ prefix.
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("CORDOBA")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Server defaults
	v.SetDefault("server.port", ":8000")
	v.SetDefault("server.read_timeout", "30s")
	v.SetDefault("server.write_timeout", "120s")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.app_name", "Cordoba Collection API")
	v.SetDefault("server.version", "2.0.0")

	// DB defaults
	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", 5432)
	v.SetDefault("db.user", "cordoba")
	v.SetDefault("db.password", "cordoba_secret")
	v.SetDefault("db.name", "cordoba_db")
	v.SetDefault("db.sslmode", "disable")
	v.SetDefault("db.max_open", 25)
	v.SetDefault("db.max_idle", 10)

	// JWT defaults
	v.SetDefault("jwt.secret", "change-me-in-production")
	v.SetDefault("jwt.access_expiry", "60m")
	v.SetDefault("jwt.refresh_expiry", "168h")
	v.SetDefault("jwt.issuer", "cordoba")

	// S3 defaults; an empty bucket disables archiving
	v.SetDefault("s3.region", "sa-east-1")
	v.SetDefault("s3.bucket", "")
	v.SetDefault("s3.endpoint", "")

	// Log defaults
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")

	v.SetDefault("cors.allowed_origins", "http://localhost:3000,http://127.0.0.1:3000,http://localhost:5173")

	// Rate limit defaults
	v.SetDefault("rate_limit.enabled", true)
	v.SetDefault("rate_limit.per_minute", 60)
	v.SetDefault("rate_limit.store", "memory")

	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	// Preview cache defaults
	v.SetDefault("preview.store", "memory")
	v.SetDefault("preview.ttl", "30m")
	v.SetDefault("preview.max_entries", 200)
	v.SetDefault("preview.sweep_interval", "1m")

	// Import defaults
	v.SetDefault("import.max_upload_mb", 10)
	v.SetDefault("import.duplicate_precedence", "duplicate_first")
	v.SetDefault("import.preview_rows", 100)
	v.SetDefault("import.archive_uploads", true)
	v.SetDefault("import.download_url_expiry", "15m")
	v.SetDefault("import.orphan_archive_age", "24h")
	v.SetDefault("import.archive_sweep_interval", "1h")

	// Bind environment variables explicitly for nested keys
	envBindings := map[string]string{
		"server.port":                   "CORDOBA_SERVER_PORT",
		"server.read_timeout":           "CORDOBA_SERVER_READ_TIMEOUT",
		"server.write_timeout":          "CORDOBA_SERVER_WRITE_TIMEOUT",
		"server.environment":            "CORDOBA_SERVER_ENVIRONMENT",
		"server.app_name":               "CORDOBA_SERVER_APP_NAME",
		"server.version":                "CORDOBA_SERVER_VERSION",
		"db.host":                       "CORDOBA_DB_HOST",
		"db.port":                       "CORDOBA_DB_PORT",
		"db.user":                       "CORDOBA_DB_USER",
		"db.password":                   "CORDOBA_DB_PASSWORD",
		"db.name":                       "CORDOBA_DB_NAME",
		"db.sslmode":                    "CORDOBA_DB_SSLMODE",
		"db.max_open":                   "CORDOBA_DB_MAX_OPEN",
		"db.max_idle":                   "CORDOBA_DB_MAX_IDLE",
		"jwt.secret":                    "CORDOBA_JWT_SECRET",
		"jwt.access_expiry":             "CORDOBA_JWT_ACCESS_EXPIRY",
		"jwt.refresh_expiry":            "CORDOBA_JWT_REFRESH_EXPIRY",
		"jwt.issuer":                    "CORDOBA_JWT_ISSUER",
		"s3.region":                     "CORDOBA_S3_REGION",
		"s3.bucket":                     "CORDOBA_S3_BUCKET",
		"s3.endpoint":                   "CORDOBA_S3_ENDPOINT",
		"s3.access_key":                 "CORDOBA_S3_ACCESS_KEY",
		"s3.secret_key":                 "CORDOBA_S3_SECRET_KEY",
		"log.level":                     "CORDOBA_LOG_LEVEL",
		"log.format":                    "CORDOBA_LOG_FORMAT",
		"cors.allowed_origins":          "CORDOBA_CORS_ALLOWED_ORIGINS",
		"rate_limit.enabled":            "CORDOBA_RATE_LIMIT_ENABLED",
		"rate_limit.per_minute":         "CORDOBA_RATE_LIMIT_PER_MINUTE",
		"rate_limit.store":              "CORDOBA_RATE_LIMIT_STORE",
		"redis.addr":                    "CORDOBA_REDIS_ADDR",
		"redis.password":                "CORDOBA_REDIS_PASSWORD",
		"redis.db":                      "CORDOBA_REDIS_DB",
		"preview.store":                 "CORDOBA_PREVIEW_STORE",
		"preview.ttl":                   "CORDOBA_PREVIEW_TTL",
		"preview.max_entries":           "CORDOBA_PREVIEW_MAX_ENTRIES",
		"preview.sweep_interval":        "CORDOBA_PREVIEW_SWEEP_INTERVAL",
		"import.max_upload_mb":          "CORDOBA_IMPORT_MAX_UPLOAD_MB",
		"import.duplicate_precedence":   "CORDOBA_IMPORT_DUPLICATE_PRECEDENCE",
		"import.preview_rows":           "CORDOBA_IMPORT_PREVIEW_ROWS",
		"import.archive_uploads":        "CORDOBA_IMPORT_ARCHIVE_UPLOADS",
		"import.download_url_expiry":    "CORDOBA_IMPORT_DOWNLOAD_URL_EXPIRY",
		"import.orphan_archive_age":     "CORDOBA_IMPORT_ORPHAN_ARCHIVE_AGE",
		"import.archive_sweep_interval": "CORDOBA_IMPORT_ARCHIVE_SWEEP_INTERVAL",
	}
	for key, env := range envBindings {
		_ = v.BindEnv(key, env)
	}

	cfg := &Config{}

	// Hosting platforms set PORT; it applies unless CORDOBA_SERVER_PORT is set.
	serverPort := v.GetString("server.port")
	if port := os.Getenv("PORT"); port != "" && os.Getenv("CORDOBA_SERVER_PORT") == "" {
		serverPort = ":" + port
	}

	cfg.Server = ServerConfig{
		Port:         serverPort,
		ReadTimeout:  v.GetDuration("server.read_timeout"),
		WriteTimeout: v.GetDuration("server.write_timeout"),
		Environment:  v.GetString("server.environment"),
		AppName:      v.GetString("server.app_name"),
		Version:      v.GetString("server.version"),
	}
	cfg.DB = DBConfig{
		Host:     v.GetString("db.host"),
		Port:     v.GetInt("db.port"),
		User:     v.GetString("db.user"),
		Password: v.GetString("db.password"),
		Name:     v.GetString("db.name"),
		SSLMode:  v.GetString("db.sslmode"),
		MaxOpen:  v.GetInt("db.max_open"),
		MaxIdle:  v.GetInt("db.max_idle"),
	}
	cfg.JWT = JWTConfig{
		Secret:             v.GetString("jwt.secret"),
		AccessTokenExpiry:  v.GetDuration("jwt.access_expiry"),
		RefreshTokenExpiry: v.GetDuration("jwt.refresh_expiry"),
		Issuer:             v.GetString("jwt.issuer"),
	}
	cfg.S3 = S3Config{
		Region:    v.GetString("s3.region"),
		Bucket:    v.GetString("s3.bucket"),
		Endpoint:  v.GetString("s3.endpoint"),
		AccessKey: v.GetString("s3.access_key"),
		SecretKey: v.GetString("s3.secret_key"),
	}
	cfg.Log = LogConfig{
		Level:  v.GetString("log.level"),
		Format: v.GetString("log.format"),
	}
	cfg.CORS = CORSConfig{
		AllowedOrigins: splitList(v.GetString("cors.allowed_origins")),
	}
	cfg.RateLimit = RateLimitConfig{
		Enabled:   v.GetBool("rate_limit.enabled"),
		PerMinute: v.GetInt64("rate_limit.per_minute"),
		Store:     strings.ToLower(v.GetString("rate_limit.store")),
	}
	cfg.Redis = RedisConfig{
		Addr:     v.GetString("redis.addr"),
		Password: v.GetString("redis.password"),
		DB:       v.GetInt("redis.db"),
	}
	cfg.Preview = PreviewConfig{
		Store:         strings.ToLower(v.GetString("preview.store")),
		TTL:           v.GetDuration("preview.ttl"),
		MaxEntries:    v.GetInt("preview.max_entries"),
		SweepInterval: v.GetDuration("preview.sweep_interval"),
	}
	cfg.Import = ImportConfig{
		MaxUploadMB:          v.GetInt64("import.max_upload_mb"),
		DuplicatePrecedence:  v.GetString("import.duplicate_precedence"),
		PreviewRows:          v.GetInt("import.preview_rows"),
		ArchiveUploads:       v.GetBool("import.archive_uploads"),
		DownloadURLExpiry:    v.GetDuration("import.download_url_expiry"),
		OrphanArchiveAge:     v.GetDuration("import.orphan_archive_age"),
		ArchiveSweepInterval: v.GetDuration("import.archive_sweep_interval"),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.Preview.TTL <= 0 {
		return fmt.Errorf("config: preview.ttl must be positive, got %s", c.Preview.TTL)
	}
	if c.Preview.MaxEntries <= 0 {
		return fmt.Errorf("config: preview.max_entries must be positive, got %d", c.Preview.MaxEntries)
	}
	if c.Preview.SweepInterval <= 0 {
		return fmt.Errorf("config: preview.sweep_interval must be positive, got %s", c.Preview.SweepInterval)
	}
	switch c.Preview.Store {
	case "memory", "redis":
	default:
		return fmt.Errorf("config: unknown preview.store %q", c.Preview.Store)
	}
	switch c.RateLimit.Store {
	case "memory", "redis":
	default:
		return fmt.Errorf("config: unknown rate_limit.store %q", c.RateLimit.Store)
	}
	if c.Import.MaxUploadMB <= 0 {
		return fmt.Errorf("config: import.max_upload_mb must be positive, got %d", c.Import.MaxUploadMB)
	}
	if c.Import.DownloadURLExpiry <= 0 {
		return fmt.Errorf("config: import.download_url_expiry must be positive, got %s", c.Import.DownloadURLExpiry)
	}
	if c.Import.ArchiveSweepInterval <= 0 {
		return fmt.Errorf("config: import.archive_sweep_interval must be positive, got %s", c.Import.ArchiveSweepInterval)
	}
	if c.Import.OrphanArchiveAge <= c.Preview.TTL {
		return fmt.Errorf("config: import.orphan_archive_age (%s) must exceed preview.ttl (%s)",
			c.Import.OrphanArchiveAge, c.Preview.TTL)
	}
	return nil
}

// splitList parses a comma-separated list, dropping blanks.
func splitList(s string) []string {
	var out []string
	for _, o := range strings.Split(s, ",") {
		o = strings.TrimSpace(o)
		if o != "" {
			out = append(out, o)
		}
	}
	return out
}
