// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/alexedwards/scs/v2"

	"github.com/olegiv/campus-site/internal/cache"
	"github.com/olegiv/campus-site/internal/session"
	"github.com/olegiv/campus-site/internal/testutil"
)

func newTestHealthHandler(t *testing.T) (*HealthHandler, *scs.SessionManager) {
	t.Helper()

	db, cleanup := testutil.TestDB(t)
	t.Cleanup(cleanup)

	c := cache.NewMemoryCache(cache.MemoryCacheOptions{DefaultTTL: time.Minute})
	t.Cleanup(func() { _ = c.Close() })

	sm := session.NewMemory(true)
	return NewHealthHandler(db, sm, c, t.TempDir(), "v1.2.3"), sm
}

// pingingCache is a cache backend that answers Ping like Redis does.
type pingingCache struct {
	cache.Cache
	err error
}

func (p pingingCache) Ping(context.Context) error { return p.err }

// withAdminSession loads a session holding an admin id into the request.
func withAdminSession(t *testing.T, sm *scs.SessionManager, r *http.Request) *http.Request {
	t.Helper()

	ctx, err := sm.Load(r.Context(), "")
	if err != nil {
		t.Fatalf("sm.Load: %v", err)
	}
	sm.Put(ctx, session.KeyAdminID, int64(1))
	return r.WithContext(ctx)
}

func assertStatus(t *testing.T, got, want int) {
	t.Helper()
	if got != want {
		t.Errorf("status = %d; want %d", got, want)
	}
}

func TestHealth_Public(t *testing.T) {
	h, _ := newTestHealthHandler(t)

	w := httptest.NewRecorder()
	h.Health(w, httptest.NewRequest(http.MethodGet, "/health?verbose=true", nil))

	assertStatus(t, w.Code, http.StatusOK)
	if ct := w.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q; want application/json", ct)
	}

	var resp map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}
	if resp["status"] != statusHealthy {
		t.Errorf("status = %v; want healthy", resp["status"])
	}
	for _, key := range []string{"checks", "uptime", "version", "system"} {
		if _, ok := resp[key]; ok {
			t.Errorf("public response should not contain %q", key)
		}
	}
}

func TestHealth_Admin(t *testing.T) {
	h, sm := newTestHealthHandler(t)

	req := withAdminSession(t, sm, httptest.NewRequest(http.MethodGet, "/health?verbose=true", nil))
	w := httptest.NewRecorder()
	h.Health(w, req)

	assertStatus(t, w.Code, http.StatusOK)

	var resp HealthStatus
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}
	if resp.Version != "v1.2.3" {
		t.Errorf("version = %q; want v1.2.3", resp.Version)
	}
	if resp.Checks["database"].Status != statusHealthy {
		t.Errorf("database check = %+v", resp.Checks["database"])
	}
	if resp.Checks["uploads"].Status != statusHealthy {
		t.Errorf("uploads check = %+v", resp.Checks["uploads"])
	}
	if resp.System == nil || resp.System.GoVersion == "" {
		t.Error("verbose admin response should include system info")
	}
	if time.Since(resp.Timestamp) > time.Minute {
		t.Errorf("timestamp = %v", resp.Timestamp)
	}
}

func TestHealth_UnhealthyDatabase(t *testing.T) {
	h, sm := newTestHealthHandler(t)
	_ = h.db.Close()

	w := httptest.NewRecorder()
	h.Health(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assertStatus(t, w.Code, http.StatusServiceUnavailable)

	var public HealthStatusPublic
	if err := json.Unmarshal(w.Body.Bytes(), &public); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}
	if public.Status != statusDegraded {
		t.Errorf("status = %q; want degraded", public.Status)
	}

	w = httptest.NewRecorder()
	h.Health(w, withAdminSession(t, sm, httptest.NewRequest(http.MethodGet, "/health", nil)))

	var resp HealthStatus
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}
	if check := resp.Checks["database"]; check.Status != statusUnhealthy || check.Message == "" {
		t.Errorf("database check = %+v", check)
	}
}

func TestHealth_UploadsCheck(t *testing.T) {
	h, _ := newTestHealthHandler(t)

	tests := []struct {
		name  string
		setup func(t *testing.T) string
		want  string
	}{
		{
			name:  "writable directory",
			setup: func(t *testing.T) string { return t.TempDir() },
			want:  statusHealthy,
		},
		{
			name:  "missing directory",
			setup: func(t *testing.T) string { return filepath.Join(t.TempDir(), "absent") },
			want:  statusUnhealthy,
		},
		{
			name: "file instead of directory",
			setup: func(t *testing.T) string {
				p := filepath.Join(t.TempDir(), "file")
				if err := os.WriteFile(p, []byte("x"), 0o644); err != nil {
					t.Fatal(err)
				}
				return p
			},
			want: statusUnhealthy,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h.uploadsDir = tt.setup(t)
			check := h.checkUploads()
			if check.Status != tt.want {
				t.Errorf("status = %q (%s); want %q", check.Status, check.Message, tt.want)
			}
		})
	}
}

func TestHealth_UploadsCheckLeavesNoFiles(t *testing.T) {
	h, _ := newTestHealthHandler(t)

	h.checkUploads()

	entries, err := os.ReadDir(h.uploadsDir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Errorf("uploads dir has %d leftover entries", len(entries))
	}
}

func TestHealth_CacheCheck(t *testing.T) {
	h, _ := newTestHealthHandler(t)
	mem := h.cache

	tests := []struct {
		name    string
		cache   cache.Cache
		status  string
		message string
	}{
		{"disabled", nil, statusHealthy, "Disabled"},
		{"in-memory", mem, statusHealthy, "In-memory"},
		{"remote up", pingingCache{Cache: mem}, statusHealthy, "Connected"},
		{"remote down", pingingCache{Cache: mem, err: errors.New("connection refused")}, statusDegraded, "connection refused"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h.cache = tt.cache
			check := h.checkCache(context.Background())
			if check.Status != tt.status || check.Message != tt.message {
				t.Errorf("checkCache() = %+v; want %s/%s", check, tt.status, tt.message)
			}
		})
	}
}

func TestHealth_CacheDownDoesNotFailHealth(t *testing.T) {
	h, sm := newTestHealthHandler(t)
	h.cache = pingingCache{Cache: h.cache, err: errors.New("connection refused")}

	w := httptest.NewRecorder()
	h.Health(w, withAdminSession(t, sm, httptest.NewRequest(http.MethodGet, "/health", nil)))
	assertStatus(t, w.Code, http.StatusOK)

	var resp HealthStatus
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}
	if resp.Status != statusHealthy {
		t.Errorf("status = %q; want healthy", resp.Status)
	}
	if resp.Checks["cache"].Status != statusDegraded {
		t.Errorf("cache check = %+v", resp.Checks["cache"])
	}
}

func TestLivenessAndReadiness(t *testing.T) {
	h, sm := newTestHealthHandler(t)

	w := httptest.NewRecorder()
	h.Liveness(w, httptest.NewRequest(http.MethodGet, "/health/live", nil))
	assertStatus(t, w.Code, http.StatusOK)

	w = httptest.NewRecorder()
	h.Readiness(w, httptest.NewRequest(http.MethodGet, "/health/ready", nil))
	assertStatus(t, w.Code, http.StatusOK)

	_ = h.db.Close()

	w = httptest.NewRecorder()
	h.Readiness(w, httptest.NewRequest(http.MethodGet, "/health/ready", nil))
	assertStatus(t, w.Code, http.StatusServiceUnavailable)
	var public map[string]string
	_ = json.Unmarshal(w.Body.Bytes(), &public)
	if _, ok := public["message"]; ok {
		t.Error("anonymous readiness should not include error details")
	}

	w = httptest.NewRecorder()
	h.Readiness(w, withAdminSession(t, sm, httptest.NewRequest(http.MethodGet, "/health/ready", nil)))
	var admin map[string]string
	_ = json.Unmarshal(w.Body.Bytes(), &admin)
	if admin["message"] == "" {
		t.Error("admin readiness should include error details")
	}
}

func TestIsAdmin_WithoutLoadedSession(t *testing.T) {
	h, _ := newTestHealthHandler(t)
	if h.isAdmin(httptest.NewRequest(http.MethodGet, "/health", nil)) {
		t.Error("isAdmin = true without a session")
	}

	h.sm = nil
	if h.isAdmin(httptest.NewRequest(http.MethodGet, "/health", nil)) {
		t.Error("isAdmin = true with nil session manager")
	}
}

func TestFormatBytes(t *testing.T) {
	tests := []struct {
		bytes uint64
		want  string
	}{
		{0, "0 B"},
		{512, "512 B"},
		{1024, "1.00 KB"},
		{1536, "1.50 KB"},
		{1048576, "1.00 MB"},
		{1073741824, "1.00 GB"},
	}

	for _, tt := range tests {
		if got := formatBytes(tt.bytes); got != tt.want {
			t.Errorf("formatBytes(%d) = %q; want %q", tt.bytes, got, tt.want)
		}
	}
}
