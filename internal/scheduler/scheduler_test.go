// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/olegiv/campus-site/internal/model"
	"github.com/olegiv/campus-site/internal/service"
	"github.com/olegiv/campus-site/internal/store"
	"github.com/olegiv/campus-site/internal/testutil"
)

func TestNew(t *testing.T) {
	logger := testutil.TestLoggerSilent()

	s := New(logger)
	if s == nil {
		t.Fatal("New() returned nil")
	}
	if s.cron == nil {
		t.Error("New() scheduler has nil cron")
	}
	if s.logger != logger {
		t.Error("New() scheduler has wrong logger")
	}
}

func TestScheduler_StartStop(t *testing.T) {
	s := New(testutil.TestLoggerSilent())
	if err := s.Add("noop", "does nothing", "@hourly", func(context.Context) error { return nil }); err != nil {
		t.Fatalf("Add() error = %v", err)
	}

	s.Start()
	s.Stop()
}

func TestValidateSchedule(t *testing.T) {
	tests := []struct {
		schedule string
		wantErr  bool
	}{
		{"30 3 * * *", false},
		{"*/5 * * * *", false},
		{"@daily", false},
		{"", true},
		{"61 * * * *", true},
		{"not a schedule", true},
		{"0 30 3 * * *", true}, // seconds field is not accepted
	}

	for _, tt := range tests {
		t.Run(tt.schedule, func(t *testing.T) {
			err := ValidateSchedule(tt.schedule)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateSchedule(%q) error = %v, wantErr %v", tt.schedule, err, tt.wantErr)
			}
		})
	}
}

func TestAdd_Errors(t *testing.T) {
	s := New(testutil.TestLoggerSilent())
	noop := func(context.Context) error { return nil }

	if err := s.Add("job", "", "bogus", noop); err == nil {
		t.Error("Add() accepted an invalid schedule")
	}
	if err := s.Add("job", "", "@daily", noop); err != nil {
		t.Fatalf("Add() error = %v", err)
	}
	if err := s.Add("job", "", "@daily", noop); err == nil {
		t.Error("Add() accepted a duplicate name")
	}
}

func TestList(t *testing.T) {
	s := New(testutil.TestLoggerSilent())
	noop := func(context.Context) error { return nil }

	_ = s.Add("zeta", "last", "@daily", noop)
	_ = s.Add("alpha", "first", "@hourly", noop)

	s.Start()
	defer s.Stop()

	jobs := s.List()
	if len(jobs) != 2 {
		t.Fatalf("List() returned %d jobs, want 2", len(jobs))
	}
	if jobs[0].Name != "alpha" || jobs[1].Name != "zeta" {
		t.Errorf("List() order = %s, %s", jobs[0].Name, jobs[1].Name)
	}
	if jobs[0].NextRun.IsZero() {
		t.Error("NextRun should be set once the scheduler is running")
	}
}

func TestTriggerNow(t *testing.T) {
	s := New(testutil.TestLoggerSilent())
	wantErr := errors.New("boom")

	ran := 0
	_ = s.Add("counter", "", "@daily", func(context.Context) error { ran++; return nil })
	_ = s.Add("failing", "", "@daily", func(context.Context) error { return wantErr })

	if err := s.TriggerNow(context.Background(), "counter"); err != nil {
		t.Fatalf("TriggerNow() error = %v", err)
	}
	if ran != 1 {
		t.Errorf("job ran %d times, want 1", ran)
	}
	if err := s.TriggerNow(context.Background(), "failing"); !errors.Is(err, wantErr) {
		t.Errorf("TriggerNow() error = %v, want %v", err, wantErr)
	}
	if err := s.TriggerNow(context.Background(), "missing"); err == nil {
		t.Error("TriggerNow() on unknown job should fail")
	}
}

func TestExecute_RecoversPanic(t *testing.T) {
	s := New(testutil.TestLoggerSilent())
	job := &registeredJob{name: "panics", run: func(context.Context) error { panic("bad job") }}

	s.execute(job)
}

type fakePruner struct {
	olderThan time.Duration
	deleted   int64
	err       error
}

func (f *fakePruner) DeleteOldEvents(_ context.Context, olderThan time.Duration) (int64, error) {
	f.olderThan = olderThan
	return f.deleted, f.err
}

func TestRegisterDefaults(t *testing.T) {
	s := New(testutil.TestLoggerSilent())
	pruner := &fakePruner{deleted: 3}
	retention := 90 * 24 * time.Hour

	if err := s.RegisterDefaults(pruner, retention); err != nil {
		t.Fatalf("RegisterDefaults() error = %v", err)
	}

	jobs := s.List()
	if len(jobs) != 1 || jobs[0].Name != EventPruneJob || jobs[0].Schedule != EventPruneSchedule {
		t.Fatalf("jobs = %+v", jobs)
	}

	if err := s.TriggerNow(context.Background(), EventPruneJob); err != nil {
		t.Fatalf("TriggerNow() error = %v", err)
	}
	if pruner.olderThan != retention {
		t.Errorf("olderThan = %v, want %v", pruner.olderThan, retention)
	}
}

func TestEventPruneSchedule_RunsAt0330(t *testing.T) {
	sched, err := cron.ParseStandard(EventPruneSchedule)
	if err != nil {
		t.Fatal(err)
	}

	from := time.Date(2026, 3, 10, 12, 0, 0, 0, time.Local)
	next := sched.Next(from)
	want := time.Date(2026, 3, 11, 3, 30, 0, 0, time.Local)
	if !next.Equal(want) {
		t.Errorf("next run = %v, want %v", next, want)
	}
}

func TestPruneEvents_DeletesOldRows(t *testing.T) {
	db, cleanup := testutil.TestDB(t)
	defer cleanup()

	logger := testutil.TestLoggerSilent()
	events := service.NewEventService(db, logger)
	ctx := context.Background()

	if err := events.LogInfo(ctx, model.EventCategorySystem, "recent", nil, "", nil); err != nil {
		t.Fatalf("LogInfo: %v", err)
	}
	_, err := store.New(db).CreateEvent(ctx, store.CreateEventParams{
		Level:     model.EventLevelInfo,
		Category:  model.EventCategorySystem,
		Message:   "ancient",
		Metadata:  "{}",
		CreatedAt: time.Now().UTC().Add(-100 * 24 * time.Hour),
	})
	if err != nil {
		t.Fatalf("insert old event: %v", err)
	}

	if err := PruneEvents(events, 90*24*time.Hour, logger)(ctx); err != nil {
		t.Fatalf("prune: %v", err)
	}

	remaining, err := events.List(ctx, "", 0)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(remaining) != 1 || remaining[0].Message != "recent" {
		t.Errorf("remaining = %+v", remaining)
	}
}
