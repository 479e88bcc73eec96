// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package config

import (
	"log/slog"
	"os"
	"testing"
	"time"
)

const testSecret = "test-secret-key-32-bytes-long!!!"

func setEnv(t *testing.T, key, value string) {
	t.Helper()
	if err := os.Setenv(key, value); err != nil {
		t.Fatalf("failed to set %s: %v", key, err)
	}
}

func TestLoad_Defaults(t *testing.T) {
	os.Clearenv()
	setEnv(t, "CAMPUS_SESSION_SECRET", testSecret)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.DBDriver != DriverSQLite {
		t.Errorf("DBDriver = %q, want %q", cfg.DBDriver, DriverSQLite)
	}
	if cfg.DBPath != "./data/campus.db" {
		t.Errorf("DBPath = %q, want %q", cfg.DBPath, "./data/campus.db")
	}
	if cfg.ServerPort != 8080 {
		t.Errorf("ServerPort = %d, want %d", cfg.ServerPort, 8080)
	}
	if cfg.UploadURLPrefix != "/uploads" {
		t.Errorf("UploadURLPrefix = %q, want %q", cfg.UploadURLPrefix, "/uploads")
	}
	if cfg.MaxUploadSize != 5*1024*1024 {
		t.Errorf("MaxUploadSize = %d, want %d", cfg.MaxUploadSize, 5*1024*1024)
	}
	if cfg.EventRetention() != 90*24*time.Hour {
		t.Errorf("EventRetention() = %v, want 90 days", cfg.EventRetention())
	}
	if cfg.AdminUsername != "admin" {
		t.Errorf("AdminUsername = %q, want %q", cfg.AdminUsername, "admin")
	}
	if cfg.UseMySQL() || cfg.UseRedisCache() {
		t.Error("defaults should use SQLite and the memory cache")
	}
}

func TestLoad_CustomValues(t *testing.T) {
	os.Clearenv()
	setEnv(t, "CAMPUS_SESSION_SECRET", testSecret)
	setEnv(t, "CAMPUS_DB_DRIVER", "mysql")
	setEnv(t, "CAMPUS_DB_DSN", "campus:pw@tcp(localhost:3306)/campus")
	setEnv(t, "CAMPUS_SERVER_HOST", "0.0.0.0")
	setEnv(t, "CAMPUS_SERVER_PORT", "3000")
	setEnv(t, "CAMPUS_ENV", "production")
	setEnv(t, "CAMPUS_UPLOAD_URL_PREFIX", "/media/")
	setEnv(t, "CAMPUS_REDIS_URL", "redis://localhost:6379/0")
	setEnv(t, "CAMPUS_CACHE_TTL", "60")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if !cfg.UseMySQL() {
		t.Error("UseMySQL() = false, want true")
	}
	if cfg.ServerAddr() != "0.0.0.0:3000" {
		t.Errorf("ServerAddr() = %q", cfg.ServerAddr())
	}
	if cfg.IsDevelopment() {
		t.Error("IsDevelopment() = true, want false")
	}
	if cfg.UploadURLPrefix != "/media" {
		t.Errorf("UploadURLPrefix = %q, want trailing slash trimmed", cfg.UploadURLPrefix)
	}
	if !cfg.UseRedisCache() {
		t.Error("UseRedisCache() = false, want true")
	}
	if cfg.CacheTTLDuration() != time.Minute {
		t.Errorf("CacheTTLDuration() = %v, want 1m", cfg.CacheTTLDuration())
	}
}

func TestLoad_RequiredSessionSecret(t *testing.T) {
	os.Clearenv()

	if _, err := Load(); err == nil {
		t.Fatal("Load() should fail when CAMPUS_SESSION_SECRET is not set")
	}
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"short secret", map[string]string{"CAMPUS_SESSION_SECRET": "short"}},
		{"31 byte secret", map[string]string{"CAMPUS_SESSION_SECRET": "1234567890123456789012345678901"}},
		{"weak secret", map[string]string{"CAMPUS_SESSION_SECRET": "change-me-to-32-byte-secret-key!"}},
		{"unknown driver", map[string]string{"CAMPUS_SESSION_SECRET": testSecret, "CAMPUS_DB_DRIVER": "postgres"}},
		{"mysql without dsn", map[string]string{"CAMPUS_SESSION_SECRET": testSecret, "CAMPUS_DB_DRIVER": "mysql"}},
		{"relative upload prefix", map[string]string{"CAMPUS_SESSION_SECRET": testSecret, "CAMPUS_UPLOAD_URL_PREFIX": "uploads"}},
		{"root upload prefix", map[string]string{"CAMPUS_SESSION_SECRET": testSecret, "CAMPUS_UPLOAD_URL_PREFIX": "/"}},
		{"zero upload size", map[string]string{"CAMPUS_SESSION_SECRET": testSecret, "CAMPUS_MAX_UPLOAD_SIZE": "0"}},
		{"zero retention", map[string]string{"CAMPUS_SESSION_SECRET": testSecret, "CAMPUS_EVENT_RETENTION_DAYS": "0"}},
		{"blank admin", map[string]string{"CAMPUS_SESSION_SECRET": testSecret, "CAMPUS_ADMIN_USERNAME": " "}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			os.Clearenv()
			for k, v := range tt.env {
				setEnv(t, k, v)
			}
			if _, err := Load(); err == nil {
				t.Fatal("Load() should fail")
			}
		})
	}
}

func TestConfig_IsDevelopment(t *testing.T) {
	tests := []struct {
		env  string
		want bool
	}{
		{"development", true},
		{"production", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.env, func(t *testing.T) {
			cfg := Config{Env: tt.env}
			if got := cfg.IsDevelopment(); got != tt.want {
				t.Errorf("IsDevelopment() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestConfig_SlogLevel(t *testing.T) {
	tests := []struct {
		level string
		want  slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"WARN", slog.LevelWarn},
		{"error", slog.LevelError},
		{"info", slog.LevelInfo},
		{"bogus", slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			if got := (Config{LogLevel: tt.level}).SlogLevel(); got != tt.want {
				t.Errorf("SlogLevel() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestHasMinimumEntropy(t *testing.T) {
	if hasMinimumEntropy("aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa") {
		t.Error("single class should fail")
	}
	if !hasMinimumEntropy(testSecret) {
		t.Error("lower+digits+special should pass")
	}
}
