// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/olegiv/campus-site/internal/model"
	"github.com/olegiv/campus-site/internal/store"
	"github.com/olegiv/campus-site/internal/util"
)

// DefaultEventLimit is used when a listing does not ask for a limit.
const DefaultEventLimit = 100

// EventService records and lists the admin activity log.
type EventService struct {
	queries *store.Queries
	logger  *slog.Logger
}

// NewEventService creates a new EventService.
func NewEventService(db *sql.DB, logger *slog.Logger) *EventService {
	return &EventService{
		queries: store.New(db),
		logger:  logger,
	}
}

// LogEvent creates a new event log entry.
func (s *EventService) LogEvent(ctx context.Context, level, category, message string, adminID *int64, ipAddress string, metadata map[string]any) error {
	metadataJSON := "{}"
	if metadata != nil {
		if b, err := json.Marshal(metadata); err == nil {
			metadataJSON = string(b)
		}
	}

	_, err := s.queries.CreateEvent(ctx, store.CreateEventParams{
		Level:     level,
		Category:  category,
		Message:   message,
		AdminID:   util.NullInt64FromPtr(adminID),
		Metadata:  metadataJSON,
		IpAddress: ipAddress,
		CreatedAt: time.Now().UTC(),
	})
	if err != nil {
		// Logged at INFO so the event log handler does not recurse into the same table.
		s.logger.Info("failed to log event", "category", category, "error", err)
		return fmt.Errorf("creating event: %w", err)
	}
	return nil
}

// LogInfo logs an info-level event.
func (s *EventService) LogInfo(ctx context.Context, category, message string, adminID *int64, ipAddress string, metadata map[string]any) error {
	return s.LogEvent(ctx, model.EventLevelInfo, category, message, adminID, ipAddress, metadata)
}

// LogWarning logs a warning-level event.
func (s *EventService) LogWarning(ctx context.Context, category, message string, adminID *int64, ipAddress string, metadata map[string]any) error {
	return s.LogEvent(ctx, model.EventLevelWarning, category, message, adminID, ipAddress, metadata)
}

// LogError logs an error-level event.
func (s *EventService) LogError(ctx context.Context, category, message string, adminID *int64, ipAddress string, metadata map[string]any) error {
	return s.LogEvent(ctx, model.EventLevelError, category, message, adminID, ipAddress, metadata)
}

// List returns the most recent events, optionally for one category.
// A limit of 0 means DefaultEventLimit.
func (s *EventService) List(ctx context.Context, category string, limit int) ([]model.Event, error) {
	if limit < 0 {
		return nil, invalidInput("limit must be a positive integer")
	}
	if limit == 0 {
		limit = DefaultEventLimit
	}

	rows, err := s.queries.ListEvents(ctx, store.ListEventsParams{
		Category: category,
		Limit:    int64(limit),
	})
	if err != nil {
		return nil, fmt.Errorf("listing events: %w", err)
	}

	events := make([]model.Event, 0, len(rows))
	for _, row := range rows {
		events = append(events, eventFromStore(row))
	}
	return events, nil
}

// DeleteOldEvents removes events older than olderThan and reports how many were removed.
func (s *EventService) DeleteOldEvents(ctx context.Context, olderThan time.Duration) (int64, error) {
	cutoff := time.Now().UTC().Add(-olderThan)
	n, err := s.queries.DeleteEventsBefore(ctx, cutoff)
	if err != nil {
		return 0, fmt.Errorf("deleting events before %s: %w", cutoff.Format(time.RFC3339), err)
	}
	return n, nil
}
