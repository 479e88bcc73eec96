// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package logging

import (
	"context"
	"database/sql"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/olegiv/campus-site/internal/model"
	"github.com/olegiv/campus-site/internal/store"
	"github.com/olegiv/campus-site/internal/testutil"
)

// discardHandler is a slog.Handler that discards all logs.
type discardHandler struct{}

func (h discardHandler) Enabled(context.Context, slog.Level) bool  { return true }
func (h discardHandler) Handle(context.Context, slog.Record) error { return nil }
func (h discardHandler) WithAttrs([]slog.Attr) slog.Handler        { return h }
func (h discardHandler) WithGroup(string) slog.Handler             { return h }

func listEvents(t *testing.T, db *sql.DB) []store.Event {
	t.Helper()
	events, err := store.New(db).ListEvents(context.Background(), store.ListEventsParams{Limit: 50})
	if err != nil {
		t.Fatalf("ListEvents: %v", err)
	}
	return events
}

func TestEventLogHandler_Levels(t *testing.T) {
	tests := []struct {
		name      string
		log       func(*slog.Logger)
		wantLevel string
	}{
		{"error", func(l *slog.Logger) { l.Error("database connection failed") }, model.EventLevelError},
		{"warn", func(l *slog.Logger) { l.Warn("slow query") }, model.EventLevelWarning},
		{"info", func(l *slog.Logger) { l.Info("server started") }, ""},
		{"debug", func(l *slog.Logger) { l.Debug("details") }, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, cleanup := testutil.TestDB(t)
			defer cleanup()

			tt.log(slog.New(NewEventLogHandler(discardHandler{}, db)))

			events := listEvents(t, db)
			if tt.wantLevel == "" {
				if len(events) != 0 {
					t.Fatalf("got %d events, want none", len(events))
				}
				return
			}
			if len(events) != 1 {
				t.Fatalf("got %d events, want 1", len(events))
			}
			if events[0].Level != tt.wantLevel {
				t.Errorf("Level = %q, want %q", events[0].Level, tt.wantLevel)
			}
		})
	}
}

func TestEventLogHandler_CustomLevel(t *testing.T) {
	db, cleanup := testutil.TestDB(t)
	defer cleanup()

	logger := slog.New(NewEventLogHandlerWithLevel(discardHandler{}, db, slog.LevelError))
	logger.Warn("below threshold")
	logger.Error("at threshold")

	events := listEvents(t, db)
	if len(events) != 1 {
		t.Fatalf("got %d events, want 1", len(events))
	}
	if events[0].Message != "at threshold" {
		t.Errorf("Message = %q, want %q", events[0].Message, "at threshold")
	}
}

func TestEventLogHandler_CategoryInference(t *testing.T) {
	tests := []struct {
		message string
		want    string
	}{
		{"failed login attempt", model.EventCategoryAuth},
		{"page section update failed", model.EventCategoryPage},
		{"news insert failed", model.EventCategoryNews},
		{"membership insert failed", model.EventCategoryMembership},
		{"failed to remove uploaded file", model.EventCategoryMedia},
		{"disk nearly full", model.EventCategorySystem},
	}

	for _, tt := range tests {
		t.Run(tt.message, func(t *testing.T) {
			if got := inferCategory(tt.message); got != tt.want {
				t.Errorf("inferCategory(%q) = %q, want %q", tt.message, got, tt.want)
			}
		})
	}
}

func TestEventLogHandler_Columns(t *testing.T) {
	db, cleanup := testutil.TestDB(t)
	defer cleanup()
	adminID := testutil.TestAdmin(t, db, "admin", "password")

	logger := slog.New(NewEventLogHandler(discardHandler{}, db))
	logger.Warn("password change failed",
		"category", model.EventCategoryAuth,
		"admin_id", adminID,
		"ip", "192.0.2.7",
		"reason", `bad "quote"`,
	)

	events := listEvents(t, db)
	if len(events) != 1 {
		t.Fatalf("got %d events, want 1", len(events))
	}
	e := events[0]
	if e.Category != model.EventCategoryAuth {
		t.Errorf("Category = %q, want auth", e.Category)
	}
	if !e.AdminID.Valid || e.AdminID.Int64 != adminID {
		t.Errorf("AdminID = %+v, want %d", e.AdminID, adminID)
	}
	if e.IpAddress != "192.0.2.7" {
		t.Errorf("IpAddress = %q, want 192.0.2.7", e.IpAddress)
	}

	var meta map[string]any
	if err := json.Unmarshal([]byte(e.Metadata), &meta); err != nil {
		t.Fatalf("metadata is not valid JSON: %v (%s)", err, e.Metadata)
	}
	if meta["reason"] != `bad "quote"` {
		t.Errorf("metadata reason = %v", meta["reason"])
	}
	if _, ok := meta["category"]; ok {
		t.Error("category should not be repeated in metadata")
	}
}

func TestEventLogHandler_WithAttrs(t *testing.T) {
	db, cleanup := testutil.TestDB(t)
	defer cleanup()

	logger := slog.New(NewEventLogHandler(discardHandler{}, db)).With("category", model.EventCategoryMedia, "component", "uploads")
	logger.Error("write failed")

	events := listEvents(t, db)
	if len(events) != 1 {
		t.Fatalf("got %d events, want 1", len(events))
	}
	if events[0].Category != model.EventCategoryMedia {
		t.Errorf("Category = %q, want media", events[0].Category)
	}
	var meta map[string]any
	if err := json.Unmarshal([]byte(events[0].Metadata), &meta); err != nil {
		t.Fatalf("metadata: %v", err)
	}
	if meta["component"] != "uploads" {
		t.Errorf("metadata component = %v, want uploads", meta["component"])
	}
}

func TestEventLogHandler_WithGroup(t *testing.T) {
	db, cleanup := testutil.TestDB(t)
	defer cleanup()

	logger := slog.New(NewEventLogHandler(discardHandler{}, db)).WithGroup("request")
	logger.Warn("rejected", slog.Group("client", "ua", "curl"))

	events := listEvents(t, db)
	if len(events) != 1 {
		t.Fatalf("got %d events, want 1", len(events))
	}
	if events[0].Metadata == "{}" {
		t.Error("group attributes were dropped")
	}
}

func TestLevelToEventLevel(t *testing.T) {
	tests := []struct {
		level slog.Level
		want  string
	}{
		{slog.LevelDebug, model.EventLevelInfo},
		{slog.LevelInfo, model.EventLevelInfo},
		{slog.LevelWarn, model.EventLevelWarning},
		{slog.LevelError, model.EventLevelError},
		{slog.LevelError + 4, model.EventLevelError},
	}
	for _, tt := range tests {
		if got := levelToEventLevel(tt.level); got != tt.want {
			t.Errorf("levelToEventLevel(%v) = %q, want %q", tt.level, got, tt.want)
		}
	}
}

func TestEventLogHandler_RequestPath(t *testing.T) {
	db, cleanup := testutil.TestDB(t)
	defer cleanup()

	logger := slog.New(NewEventLogHandler(discardHandler{}, db))
	ctx := WithRequestPath(context.Background(), "/api/news/7")
	logger.ErrorContext(ctx, "request failed")

	events := listEvents(t, db)
	if len(events) != 1 {
		t.Fatalf("got %d events, want 1", len(events))
	}
	var meta map[string]any
	if err := json.Unmarshal([]byte(events[0].Metadata), &meta); err != nil {
		t.Fatalf("metadata: %v", err)
	}
	if meta["url"] != "/api/news/7" {
		t.Errorf("url = %v, want /api/news/7", meta["url"])
	}
}

func TestRequestPath_Empty(t *testing.T) {
	if got := RequestPath(context.Background()); got != "" {
		t.Errorf("RequestPath() = %q, want empty", got)
	}
}
