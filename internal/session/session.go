// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package session configures the admin session manager and the keys the
// API stores in it.
package session

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"time"

	"github.com/alexedwards/scs/sqlite3store"
	"github.com/alexedwards/scs/v2"
	"github.com/alexedwards/scs/v2/memstore"

	"github.com/olegiv/campus-site/internal/model"
)

// Session keys.
const (
	KeyAdminID       = "admin_id"
	KeyAdminUsername = "admin_username"
)

// New creates a new session manager configured with SQLite store.
func New(db *sql.DB, isDev bool) *scs.SessionManager {
	sm := newManager(isDev)
	sm.Store = sqlite3store.New(db)
	return sm
}

// NewMemory creates a session manager backed by process memory. It is used
// when the database is MySQL, which has no store wired here; sessions do not
// survive a restart.
func NewMemory(isDev bool) *scs.SessionManager {
	sm := newManager(isDev)
	sm.Store = memstore.New()
	return sm
}

func newManager(isDev bool) *scs.SessionManager {
	sm := scs.New()

	sm.Lifetime = 24 * time.Hour
	sm.Cookie.HttpOnly = true
	sm.Cookie.SameSite = http.SameSiteLaxMode
	sm.Cookie.Path = "/"
	sm.Cookie.Secure = !isDev
	if !isDev {
		// __Host- requires Secure, Path=/ and no Domain
		sm.Cookie.Name = "__Host-session"
	}

	return sm
}

// Login renews the session token and records the admin in the session.
func Login(ctx context.Context, sm *scs.SessionManager, admin model.Admin) error {
	if err := sm.RenewToken(ctx); err != nil {
		return fmt.Errorf("renewing session token: %w", err)
	}
	sm.Put(ctx, KeyAdminID, admin.ID)
	sm.Put(ctx, KeyAdminUsername, admin.Username)
	return nil
}

// Logout destroys the session.
func Logout(ctx context.Context, sm *scs.SessionManager) error {
	if err := sm.Destroy(ctx); err != nil {
		return fmt.Errorf("destroying session: %w", err)
	}
	return nil
}

// AdminID returns the id of the logged-in admin, if any.
func AdminID(ctx context.Context, sm *scs.SessionManager) (int64, bool) {
	id := sm.GetInt64(ctx, KeyAdminID)
	return id, id > 0
}

// Admin returns the logged-in admin as stored in the session.
func Admin(ctx context.Context, sm *scs.SessionManager) (model.Admin, bool) {
	id, ok := AdminID(ctx, sm)
	if !ok {
		return model.Admin{}, false
	}
	return model.Admin{ID: id, Username: sm.GetString(ctx, KeyAdminUsername)}, true
}
