package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

type Config struct {
	Port     string `env:"PORT" envDefault:"8080"`
	AppEnv   string `env:"APP_ENV" envDefault:"production" validate:"oneof=development staging production test"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info" validate:"oneof=debug info warn error"`

	// Supabase (auth, rows, storage). Both URL and key are required, there
	// is no embedded fallback project.
	SupabaseUrl           string `env:"SUPABASE_URL" validate:"required,url"`
	SupabaseKey           string `env:"SUPABASE_KEY" validate:"required"`
	SupabaseJWTSecret     string `env:"SUPABASE_JWT_SECRET"`
	SupabaseStorageBucket string `env:"SUPABASE_STORAGE_BUCKET" envDefault:"verifications"`

	// Optional direct Postgres connection. When set, experiences are read and
	// written through pgx instead of PostgREST.
	DBUrl string `env:"DATABASE_URL"`

	// Redis/Upstash Configuration
	UpstashRedisURL      string `env:"UPSTASH_REDIS_URL"`
	UpstashRedisPassword string `env:"UPSTASH_REDIS_PASSWORD"`

	// S3-compatible storage for verification screenshots
	S3Provider        string `env:"S3_PROVIDER" envDefault:"aws" validate:"oneof=aws wasabi"`
	S3AccessKeyID     string `env:"S3_ACCESS_KEY_ID"`
	S3SecretAccessKey string `env:"S3_SECRET_ACCESS_KEY"`
	S3Region          string `env:"S3_REGION" envDefault:"ap-south-1"`
	S3Bucket          string `env:"S3_BUCKET"`

	// Optional clamd daemon for scanning verification screenshots
	ClamAVAddress string        `env:"CLAMAV_ADDRESS"`
	ClamAVTimeout time.Duration `env:"CLAMAV_TIMEOUT" envDefault:"30s"`

	// Browser sessions
	SessionCookieName string        `env:"SESSION_COOKIE_NAME" envDefault:"tayari_session"`
	SessionTTL        time.Duration `env:"SESSION_TTL" envDefault:"168h"`
	CookieSecure      bool          `env:"COOKIE_SECURE" envDefault:"true"`
	RequestTimeout    time.Duration `env:"REQUEST_TIMEOUT" envDefault:"10s"`

	// Browser origins allowed to call the JSON API
	CORSAllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envSeparator:"," envDefault:"http://localhost:3000"`

	// Rate Limiting Configuration
	RateLimitWindowSeconds int `env:"RATE_LIMIT_WINDOW_SECONDS" envDefault:"60" validate:"gt=0"`
	RateLimitAuthThreshold int `env:"RATE_LIMIT_AUTH_THRESHOLD" envDefault:"10" validate:"gt=0"`
	UploadDailyLimit       int `env:"UPLOAD_DAILY_LIMIT" envDefault:"20" validate:"gt=0"`
}

func LoadConfig() (*Config, error) {
	// .env is a local convenience, production injects real env vars
	_ = godotenv.Load()

	return Parse(env.Options{})
}

// Parse reads the configuration from the process environment, or from
// opts.Environment when it is set.
func Parse(opts env.Options) (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg, opts); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	// Strip trailing slash so path joins never produce ".co//auth"
	cfg.SupabaseUrl = strings.TrimRight(cfg.SupabaseUrl, "/")

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

// S3Enabled reports whether verification uploads go to S3 instead of
// Supabase Storage.
func (c *Config) S3Enabled() bool {
	return c.S3Bucket != "" && c.S3AccessKeyID != "" && c.S3SecretAccessKey != ""
}

func (c *Config) RateLimitWindow() time.Duration {
	return time.Duration(c.RateLimitWindowSeconds) * time.Second
}

func (c *Config) JWKSURL() string {
	return c.SupabaseUrl + "/auth/v1/.well-known/jwks.json"
}
