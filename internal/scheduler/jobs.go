// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package scheduler

import (
	"context"
	"log/slog"
	"time"
)

const (
	// EventPruneJob is the name of the activity log retention job.
	EventPruneJob = "prune-events"
	// EventPruneSchedule runs the retention job daily at 03:30.
	EventPruneSchedule = "30 3 * * *"
)

// EventPruner deletes activity log entries older than a cutoff.
type EventPruner interface {
	DeleteOldEvents(ctx context.Context, olderThan time.Duration) (int64, error)
}

// PruneEvents returns a job that removes events older than retention.
func PruneEvents(events EventPruner, retention time.Duration, logger *slog.Logger) JobFunc {
	return func(ctx context.Context) error {
		n, err := events.DeleteOldEvents(ctx, retention)
		if err != nil {
			return err
		}
		if n > 0 {
			logger.Info("pruned old events", "count", n, "retention", retention.String())
		}
		return nil
	}
}

// RegisterDefaults adds the built-in maintenance jobs.
func (s *Scheduler) RegisterDefaults(events EventPruner, retention time.Duration) error {
	return s.Add(EventPruneJob, "Delete activity log entries past retention",
		EventPruneSchedule, PruneEvents(events, retention, s.logger))
}
