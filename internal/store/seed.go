// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/olegiv/campus-site/internal/auth"
)

// EnsureAdmin creates the initial admin account when no admin exists yet.
// It never touches an existing account.
func EnsureAdmin(ctx context.Context, db *sql.DB, username, password string) error {
	queries := New(db)

	count, err := queries.CountAdmins(ctx)
	if err != nil {
		return fmt.Errorf("counting admins: %w", err)
	}
	if count > 0 {
		slog.Debug("admin account already exists, skipping seed")
		return nil
	}

	passwordHash, err := auth.HashPassword(password)
	if err != nil {
		return fmt.Errorf("hashing password: %w", err)
	}

	now := time.Now().UTC()
	admin, err := queries.CreateAdmin(ctx, CreateAdminParams{
		Username:     username,
		PasswordHash: passwordHash,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		// Another instance seeded concurrently
		if IsUniqueViolation(err) {
			return nil
		}
		return fmt.Errorf("creating admin: %w", err)
	}

	slog.Info("created initial admin account", "id", admin.ID, "username", admin.Username)
	return nil
}

// IsNotFound reports whether err means the row does not exist.
func IsNotFound(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}
