// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package config loads the server configuration from CAMPUS_* environment
// variables.
package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// Supported database drivers.
const (
	DriverSQLite = "sqlite"
	DriverMySQL  = "mysql"
)

// knownWeakSecrets contains default/example secrets that must be rejected.
var knownWeakSecrets = []string{
	"change-me-to-32-byte-secret-key!",
	"REPLACE_WITH_YOUR_OWN_SECRET_KEY!",
}

// Config holds the application configuration loaded from environment variables.
type Config struct {
	DBDriver      string `env:"CAMPUS_DB_DRIVER" envDefault:"sqlite"`
	DBPath        string `env:"CAMPUS_DB_PATH" envDefault:"./data/campus.db"`
	DBDSN         string `env:"CAMPUS_DB_DSN"` // MySQL DSN, e.g. user:pass@tcp(host:3306)/campus
	SessionSecret string `env:"CAMPUS_SESSION_SECRET,required"`
	ServerHost    string `env:"CAMPUS_SERVER_HOST" envDefault:"localhost"`
	ServerPort    int    `env:"CAMPUS_SERVER_PORT" envDefault:"8080"`
	Env           string `env:"CAMPUS_ENV" envDefault:"development"`
	LogLevel      string `env:"CAMPUS_LOG_LEVEL" envDefault:"info"`

	UploadsDir      string `env:"CAMPUS_UPLOADS_DIR" envDefault:"./uploads"`
	UploadURLPrefix string `env:"CAMPUS_UPLOAD_URL_PREFIX" envDefault:"/uploads"`
	StaticDir       string `env:"CAMPUS_STATIC_DIR"` // Optional public site directory served at /
	MaxUploadSize   int64  `env:"CAMPUS_MAX_UPLOAD_SIZE" envDefault:"5242880"`

	// Cache configuration
	RedisURL    string `env:"CAMPUS_REDIS_URL"` // Optional Redis URL for shared caching
	CachePrefix string `env:"CAMPUS_CACHE_PREFIX" envDefault:"campus:"`
	CacheTTL    int    `env:"CAMPUS_CACHE_TTL" envDefault:"300"` // Seconds

	EventRetentionDays int `env:"CAMPUS_EVENT_RETENTION_DAYS" envDefault:"90"`

	// Initial admin, created on first boot only
	AdminUsername string `env:"CAMPUS_ADMIN_USERNAME" envDefault:"admin"`
	AdminPassword string `env:"CAMPUS_ADMIN_PASSWORD" envDefault:"admin123"`
}

// IsDevelopment returns true if the application is running in development mode.
func (c Config) IsDevelopment() bool {
	return c.Env == "development"
}

// ServerAddr returns the full server address in host:port format.
func (c Config) ServerAddr() string {
	return fmt.Sprintf("%s:%d", c.ServerHost, c.ServerPort)
}

// UseRedisCache returns true if Redis caching is configured.
func (c Config) UseRedisCache() bool {
	return c.RedisURL != ""
}

// UseMySQL returns true if MySQL is the backing store.
func (c Config) UseMySQL() bool {
	return c.DBDriver == DriverMySQL
}

// CacheTTLDuration returns CacheTTL as a time.Duration.
func (c Config) CacheTTLDuration() time.Duration {
	return time.Duration(c.CacheTTL) * time.Second
}

// EventRetention returns how long audit events are kept.
func (c Config) EventRetention() time.Duration {
	return time.Duration(c.EventRetentionDays) * 24 * time.Hour
}

// MinSessionSecretLength is the minimum required length for the session secret.
const MinSessionSecretLength = 32

// Load parses environment variables and returns a Config struct.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	if !hasMinimumEntropy(cfg.SessionSecret) {
		slog.Warn("CAMPUS_SESSION_SECRET has low character diversity; " +
			"consider generating a random secret with: openssl rand -base64 32")
	}
	if !cfg.IsDevelopment() && cfg.AdminPassword == "admin123" {
		slog.Warn("CAMPUS_ADMIN_PASSWORD is the default; change it after first login")
	}

	return cfg, nil
}

func (c *Config) validate() error {
	if len(c.SessionSecret) < MinSessionSecretLength {
		return fmt.Errorf("CAMPUS_SESSION_SECRET must be at least %d bytes long, got %d bytes; "+
			"generate a secure secret with: openssl rand -base64 32",
			MinSessionSecretLength, len(c.SessionSecret))
	}

	for _, weak := range knownWeakSecrets {
		if c.SessionSecret == weak {
			return fmt.Errorf("CAMPUS_SESSION_SECRET is a known default value and must not be used; " +
				"generate a secure secret with: openssl rand -base64 32")
		}
	}

	switch c.DBDriver {
	case DriverSQLite:
	case DriverMySQL:
		if c.DBDSN == "" {
			return fmt.Errorf("CAMPUS_DB_DSN is required when CAMPUS_DB_DRIVER=mysql")
		}
	default:
		return fmt.Errorf("CAMPUS_DB_DRIVER must be %q or %q, got %q", DriverSQLite, DriverMySQL, c.DBDriver)
	}

	if !strings.HasPrefix(c.UploadURLPrefix, "/") || strings.TrimRight(c.UploadURLPrefix, "/") == "" {
		return fmt.Errorf("CAMPUS_UPLOAD_URL_PREFIX must be an absolute path below /, got %q", c.UploadURLPrefix)
	}
	c.UploadURLPrefix = strings.TrimRight(c.UploadURLPrefix, "/")

	if c.MaxUploadSize <= 0 {
		return fmt.Errorf("CAMPUS_MAX_UPLOAD_SIZE must be positive")
	}
	if c.CacheTTL <= 0 {
		return fmt.Errorf("CAMPUS_CACHE_TTL must be positive")
	}
	if c.EventRetentionDays <= 0 {
		return fmt.Errorf("CAMPUS_EVENT_RETENTION_DAYS must be positive")
	}
	if strings.TrimSpace(c.AdminUsername) == "" {
		return fmt.Errorf("CAMPUS_ADMIN_USERNAME must not be empty")
	}

	return nil
}

// SlogLevel maps LogLevel to a slog.Level, defaulting to info.
func (c Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// hasMinimumEntropy checks that a secret contains at least 3 character classes
// (lowercase, uppercase, digits, special characters).
func hasMinimumEntropy(s string) bool {
	charTypes := 0
	if strings.ContainsAny(s, "abcdefghijklmnopqrstuvwxyz") {
		charTypes++
	}
	if strings.ContainsAny(s, "ABCDEFGHIJKLMNOPQRSTUVWXYZ") {
		charTypes++
	}
	if strings.ContainsAny(s, "0123456789") {
		charTypes++
	}
	if strings.ContainsAny(s, "!@#$%^&*()-_=+[]{}|;:,.<>?/~`'\"\\") {
		charTypes++
	}
	return charTypes >= 3
}
