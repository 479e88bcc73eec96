// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/olegiv/campus-site/internal/auth"
	"github.com/olegiv/campus-site/internal/model"
	"github.com/olegiv/campus-site/internal/store"
)

const invalidCredentials = "Invalid credentials"

// checkPassword is swapped in tests.
var checkPassword = auth.CheckPassword

// dummyHash is verified against when the username is unknown, so both
// failure paths pay the same argon2id cost.
var dummyHash = sync.OnceValue(func() string {
	hash, err := auth.HashPassword("campus-site-unknown-user")
	if err != nil {
		panic(fmt.Sprintf("hashing dummy password: %v", err))
	}
	return hash
})

// LoginInput is the body of a login request.
type LoginInput struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// ChangePasswordInput is the body of a password change request.
type ChangePasswordInput struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required"`
}

// AuthService verifies admin credentials.
type AuthService struct {
	queries *store.Queries
	logger  *slog.Logger
}

// NewAuthService creates a new AuthService.
func NewAuthService(db *sql.DB, logger *slog.Logger) *AuthService {
	return &AuthService{
		queries: store.New(db),
		logger:  logger,
	}
}

// Authenticate checks a username and password. Unknown users and wrong
// passwords fail with the same Unauthorized error. Hashes in a legacy
// format are upgraded to argon2id after a successful check.
func (s *AuthService) Authenticate(ctx context.Context, in LoginInput) (model.Admin, error) {
	in.Username = strings.TrimSpace(in.Username)
	if err := validateInput(in); err != nil {
		return model.Admin{}, err
	}

	admin, err := s.queries.GetAdminByUsername(ctx, in.Username)
	if store.IsNotFound(err) {
		_, _ = checkPassword(in.Password, dummyHash())
		return model.Admin{}, unauthorized(invalidCredentials)
	}
	if err != nil {
		return model.Admin{}, fmt.Errorf("getting admin: %w", err)
	}

	ok, err := checkPassword(in.Password, admin.PasswordHash)
	if err != nil {
		s.logger.Error("unreadable password hash", "admin_id", admin.ID, "error", err)
		return model.Admin{}, unauthorized(invalidCredentials)
	}
	if !ok {
		return model.Admin{}, unauthorized(invalidCredentials)
	}

	if auth.NeedsRehash(admin.PasswordHash) {
		s.rehash(ctx, admin.ID, in.Password)
	}

	return model.Admin{ID: admin.ID, Username: admin.Username}, nil
}

func (s *AuthService) rehash(ctx context.Context, adminID int64, password string) {
	hash, err := auth.HashPassword(password)
	if err == nil {
		err = s.queries.UpdateAdminPassword(ctx, store.UpdateAdminPasswordParams{
			PasswordHash: hash,
			UpdatedAt:    time.Now().UTC(),
			ID:           adminID,
		})
	}
	if err != nil {
		s.logger.Warn("failed to upgrade password hash", "admin_id", adminID, "error", err)
		return
	}
	s.logger.Info("upgraded password hash to argon2id", "admin_id", adminID)
}

// GetAdmin returns the admin with the given id.
func (s *AuthService) GetAdmin(ctx context.Context, id int64) (model.Admin, error) {
	admin, err := s.queries.GetAdminByID(ctx, id)
	if store.IsNotFound(err) {
		return model.Admin{}, notFound("Admin")
	}
	if err != nil {
		return model.Admin{}, fmt.Errorf("getting admin %d: %w", id, err)
	}
	return model.Admin{ID: admin.ID, Username: admin.Username}, nil
}

// ChangePassword verifies the current password and stores a new argon2id hash.
func (s *AuthService) ChangePassword(ctx context.Context, adminID int64, in ChangePasswordInput) error {
	if err := validateInput(in); err != nil {
		return err
	}
	if utf8.RuneCountInString(in.NewPassword) < auth.MinPasswordLength {
		msg := fmt.Sprintf("New password must be at least %d characters", auth.MinPasswordLength)
		return &Error{Kind: ErrInvalidInput, Message: msg, Fields: map[string]string{"newPassword": msg}}
	}

	admin, err := s.queries.GetAdminByID(ctx, adminID)
	if store.IsNotFound(err) {
		return unauthorized("Not authenticated")
	}
	if err != nil {
		return fmt.Errorf("getting admin %d: %w", adminID, err)
	}

	ok, err := checkPassword(in.CurrentPassword, admin.PasswordHash)
	if err != nil || !ok {
		return unauthorized("Current password is incorrect")
	}

	hash, err := auth.HashPassword(in.NewPassword)
	if err != nil {
		return fmt.Errorf("hashing password: %w", err)
	}
	if err := s.queries.UpdateAdminPassword(ctx, store.UpdateAdminPasswordParams{
		PasswordHash: hash,
		UpdatedAt:    time.Now().UTC(),
		ID:           adminID,
	}); err != nil {
		return fmt.Errorf("updating password: %w", err)
	}
	return nil
}
