// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package logging provides a slog handler that mirrors WARN and ERROR
// records into the events table, so operational problems show up in the
// admin activity log next to admin actions.
package logging

import (
	"context"
	"database/sql"
	"encoding/json"
	"log/slog"
	"strings"
	"time"

	"github.com/olegiv/campus-site/internal/model"
	"github.com/olegiv/campus-site/internal/store"
)

// writeTimeout bounds a single event insert.
const writeTimeout = 2 * time.Second

type requestPathKey struct{}

// WithRequestPath returns a context carrying the path of the current request.
// Events logged with that context record it as "url" metadata.
func WithRequestPath(ctx context.Context, path string) context.Context {
	return context.WithValue(ctx, requestPathKey{}, path)
}

// RequestPath returns the request path stored by WithRequestPath.
func RequestPath(ctx context.Context) string {
	path, _ := ctx.Value(requestPathKey{}).(string)
	return path
}

// EventLogHandler is a slog.Handler that wraps another handler and also writes
// records at or above its level to the events table.
type EventLogHandler struct {
	inner   slog.Handler
	queries *store.Queries
	level   slog.Level
	attrs   []slog.Attr
}

// NewEventLogHandler creates a new EventLogHandler that wraps the given handler.
// Logs at WARN level and above will be written to both the wrapped handler and the events table.
func NewEventLogHandler(inner slog.Handler, db *sql.DB) *EventLogHandler {
	return NewEventLogHandlerWithLevel(inner, db, slog.LevelWarn)
}

// NewEventLogHandlerWithLevel creates a new EventLogHandler with a custom minimum level.
func NewEventLogHandlerWithLevel(inner slog.Handler, db *sql.DB, level slog.Level) *EventLogHandler {
	return &EventLogHandler{
		inner:   inner,
		queries: store.New(db),
		level:   level,
	}
}

// Enabled implements slog.Handler.
func (h *EventLogHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.inner.Enabled(ctx, level)
}

// Handle implements slog.Handler.
func (h *EventLogHandler) Handle(ctx context.Context, r slog.Record) error {
	if err := h.inner.Handle(ctx, r); err != nil {
		return err
	}
	if r.Level >= h.level {
		h.writeToEventLog(ctx, r)
	}
	return nil
}

// WithAttrs implements slog.Handler.
func (h *EventLogHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	merged := make([]slog.Attr, 0, len(h.attrs)+len(attrs))
	merged = append(merged, h.attrs...)
	merged = append(merged, attrs...)
	return &EventLogHandler{
		inner:   h.inner.WithAttrs(attrs),
		queries: h.queries,
		level:   h.level,
		attrs:   merged,
	}
}

// WithGroup implements slog.Handler.
func (h *EventLogHandler) WithGroup(name string) slog.Handler {
	return &EventLogHandler{
		inner:   h.inner.WithGroup(name),
		queries: h.queries,
		level:   h.level,
		attrs:   h.attrs,
	}
}

// writeToEventLog stores r as an event. It uses its own context so the
// event is kept even when the request that logged it was cancelled.
func (h *EventLogHandler) writeToEventLog(reqCtx context.Context, r slog.Record) {
	e := eventRecord{metadata: make(map[string]any)}
	if reqCtx != nil {
		if path := RequestPath(reqCtx); path != "" {
			e.metadata["url"] = path
		}
	}
	for _, a := range h.attrs {
		e.add(a)
	}
	r.Attrs(func(a slog.Attr) bool {
		e.add(a)
		return true
	})
	if e.category == "" {
		e.category = inferCategory(r.Message)
	}

	metadata := "{}"
	if len(e.metadata) > 0 {
		if b, err := json.Marshal(e.metadata); err == nil {
			metadata = string(b)
		}
	}

	created := r.Time
	if created.IsZero() {
		created = time.Now()
	}

	ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
	defer cancel()
	_, _ = h.queries.CreateEvent(ctx, store.CreateEventParams{
		Level:     levelToEventLevel(r.Level),
		Category:  e.category,
		Message:   r.Message,
		AdminID:   e.adminID,
		Metadata:  metadata,
		IpAddress: e.ip,
		CreatedAt: created.UTC(),
	})
}

// eventRecord collects the columns of an event from slog attributes.
// "category", "admin_id" and "ip" fill their columns; everything else
// becomes metadata.
type eventRecord struct {
	category string
	adminID  sql.NullInt64
	ip       string
	metadata map[string]any
}

func (e *eventRecord) add(a slog.Attr) {
	v := a.Value.Resolve()
	switch a.Key {
	case "category":
		e.category = v.String()
	case "admin_id":
		if v.Kind() == slog.KindInt64 {
			e.adminID = sql.NullInt64{Int64: v.Int64(), Valid: true}
		}
	case "ip":
		e.ip = v.String()
	default:
		if v.Kind() == slog.KindGroup {
			group := make(map[string]any)
			for _, ga := range v.Group() {
				group[ga.Key] = ga.Value.Resolve().String()
			}
			e.metadata[a.Key] = group
			return
		}
		e.metadata[a.Key] = v.String()
	}
}

func levelToEventLevel(level slog.Level) string {
	switch {
	case level >= slog.LevelError:
		return model.EventLevelError
	case level >= slog.LevelWarn:
		return model.EventLevelWarning
	default:
		return model.EventLevelInfo
	}
}

// inferCategory guesses a category from the message when none was given.
func inferCategory(message string) string {
	msg := strings.ToLower(message)
	switch {
	case strings.Contains(msg, "auth") || strings.Contains(msg, "login") || strings.Contains(msg, "password"):
		return model.EventCategoryAuth
	case strings.Contains(msg, "section") || strings.Contains(msg, "page"):
		return model.EventCategoryPage
	case strings.Contains(msg, "news"):
		return model.EventCategoryNews
	case strings.Contains(msg, "membership"):
		return model.EventCategoryMembership
	case strings.Contains(msg, "message"):
		return model.EventCategoryMessage
	case strings.Contains(msg, "upload") || strings.Contains(msg, "image") || strings.Contains(msg, "slide") || strings.Contains(msg, "specialt"):
		return model.EventCategoryMedia
	default:
		return model.EventCategorySystem
	}
}
