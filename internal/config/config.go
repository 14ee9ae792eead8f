// Package config reads server settings from the environment.
// A .env file in the working directory is loaded first when present;
// variables already set in the environment win over it.
package config

import (
	"encoding/hex"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Session backends
const (
	SessionBackendMemory = "memory"
	SessionBackendRedis  = "redis"
)

// Quiz flag scopes
const (
	QuizScopeGlobal  = "global"
	QuizScopeSession = "session"
)

// Config holds every setting the server reads at startup.
type Config struct {
	Addr      string
	Env       string
	DBPath    string
	UploadDir string
	StaticDir string

	AdminUsername string
	AdminPassword string

	ResendAPIKey string
	EmailFrom    string
	EmailReplyTo string

	SessionBackend string
	RedisAddr      string
	RedisPassword  string
	RedisDB        int

	QuizFlagScope string

	// CSRFKey is 32 bytes, or nil when CSRF_KEY is unset and a key must be generated.
	CSRFKey            []byte
	RateLimitPerSecond int

	LogLevel    slog.Level
	LogFormat   string
	SlowQuery   time.Duration
	SlowRequest time.Duration
}

// IsProduction reports whether cookies must be Secure.
func (c Config) IsProduction() bool {
	return c.Env == "production"
}

// Load reads the environment, after merging .env if one exists.
// POST: returned Config has every field defaulted; invalid values are errors
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}
	return FromEnv()
}

// FromEnv builds a Config from the current environment only.
func FromEnv() (Config, error) {
	cfg := Config{
		Addr:           envOrDefault("CLANSITE_ADDR", ":3000"),
		Env:            envOrDefault("CLANSITE_ENV", "development"),
		DBPath:         envOrDefault("CLANSITE_DB_PATH", "clansite.db"),
		UploadDir:      envOrDefault("CLANSITE_UPLOAD_DIR", "public/uploads"),
		StaticDir:      envOrDefault("CLANSITE_STATIC_DIR", "public"),
		AdminUsername:  envOrDefault("ADMIN_USERNAME", "admin"),
		AdminPassword:  envOrDefault("ADMIN_PASSWORD", "admin123"),
		ResendAPIKey:   os.Getenv("RESEND_API_KEY"),
		EmailFrom:      os.Getenv("EMAIL_FROM"),
		EmailReplyTo:   os.Getenv("EMAIL_REPLY_TO"),
		SessionBackend: strings.ToLower(envOrDefault("SESSION_BACKEND", SessionBackendMemory)),
		RedisAddr:      envOrDefault("REDIS_ADDR", "localhost:6379"),
		RedisPassword:  os.Getenv("REDIS_PASSWORD"),
		QuizFlagScope:  strings.ToLower(envOrDefault("QUIZ_FLAG_SCOPE", QuizScopeGlobal)),
		LogFormat:      strings.ToLower(envOrDefault("LOG_FORMAT", "text")),
	}

	var err error
	if cfg.RedisDB, err = envInt("REDIS_DB", 0); err != nil {
		return Config{}, err
	}
	if cfg.RateLimitPerSecond, err = envInt("RATE_LIMIT_PER_SECOND", 20); err != nil {
		return Config{}, err
	}
	if cfg.RateLimitPerSecond < 1 {
		return Config{}, fmt.Errorf("RATE_LIMIT_PER_SECOND must be positive, got %d", cfg.RateLimitPerSecond)
	}
	slowQueryMs, err := envInt("SLOW_QUERY_MS", 50)
	if err != nil {
		return Config{}, err
	}
	cfg.SlowQuery = time.Duration(slowQueryMs) * time.Millisecond
	slowRequestMs, err := envInt("SLOW_REQUEST_MS", 200)
	if err != nil {
		return Config{}, err
	}
	cfg.SlowRequest = time.Duration(slowRequestMs) * time.Millisecond

	if err := cfg.LogLevel.UnmarshalText([]byte(envOrDefault("LOG_LEVEL", "info"))); err != nil {
		return Config{}, fmt.Errorf("LOG_LEVEL: %w", err)
	}

	if raw := os.Getenv("CSRF_KEY"); raw != "" {
		key, err := hex.DecodeString(raw)
		if err != nil || len(key) != 32 {
			return Config{}, fmt.Errorf("CSRF_KEY must be 64 hex characters")
		}
		cfg.CSRFKey = key
	}

	switch cfg.SessionBackend {
	case SessionBackendMemory, SessionBackendRedis:
	default:
		return Config{}, fmt.Errorf("SESSION_BACKEND must be %q or %q, got %q", SessionBackendMemory, SessionBackendRedis, cfg.SessionBackend)
	}
	switch cfg.QuizFlagScope {
	case QuizScopeGlobal, QuizScopeSession:
	default:
		return Config{}, fmt.Errorf("QUIZ_FLAG_SCOPE must be %q or %q, got %q", QuizScopeGlobal, QuizScopeSession, cfg.QuizFlagScope)
	}
	switch cfg.LogFormat {
	case "text", "json":
	default:
		return Config{}, fmt.Errorf("LOG_FORMAT must be text or json, got %q", cfg.LogFormat)
	}

	return cfg, nil
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return n, nil
}
