// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"errors"
	"fmt"
	"math"
	"net/http"
	"strings"
	"time"

	"github.com/olegiv/campus-site/internal/middleware"
	"github.com/olegiv/campus-site/internal/model"
	"github.com/olegiv/campus-site/internal/service"
	"github.com/olegiv/campus-site/internal/session"
)

// SessionStatus is the body of GET /api/auth/check.
type SessionStatus struct {
	Authenticated bool         `json:"authenticated"`
	Admin         *model.Admin `json:"admin,omitempty"`
}

// lockedMessage tells a locked-out caller how long to wait.
func lockedMessage(remaining time.Duration) string {
	minutes := int(math.Ceil(remaining.Minutes()))
	if minutes < 1 {
		minutes = 1
	}
	return fmt.Sprintf("Too many failed login attempts. Try again in %d minute(s).", minutes)
}

// Login handles POST /api/auth/login.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var in service.LoginInput
	if !decodeJSON(w, r, &in) {
		return
	}
	in.Username = strings.TrimSpace(in.Username)

	ip := middleware.ClientIP(r)
	client := parseUserAgent(r.UserAgent())

	if in.Username != "" {
		if locked, remaining := h.login.IsAccountLocked(in.Username); locked {
			WriteError(w, http.StatusTooManyRequests, lockedMessage(remaining), nil)
			return
		}
	}

	admin, err := h.auth.Authenticate(r.Context(), in)
	if err != nil {
		if !errors.Is(err, service.ErrUnauthorized) {
			h.writeServiceError(w, r, err)
			return
		}

		locked, d := h.login.RecordFailedAttempt(in.Username)

		meta := client.metadata()
		meta["username"] = in.Username
		meta["remaining_attempts"] = h.login.RemainingAttempts(in.Username)
		_ = h.events.LogWarning(r.Context(), model.EventCategoryAuth, "Failed login attempt", nil, ip, meta)

		if locked {
			WriteError(w, http.StatusTooManyRequests, lockedMessage(d), nil)
			return
		}
		h.writeServiceError(w, r, err)
		return
	}

	h.login.RecordSuccessfulLogin(in.Username)
	if err := session.Login(r.Context(), h.sm, admin); err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	_ = h.events.LogInfo(r.Context(), model.EventCategoryAuth, "Admin logged in", &admin.ID, ip, client.metadata())
	WriteMessage(w, "Login successful", admin)
}

// Logout handles POST /api/auth/logout.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	h.audit(r, model.EventCategoryAuth, "Admin logged out", nil)
	if err := session.Logout(r.Context(), h.sm); err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	WriteMessage(w, "Logged out successfully", nil)
}

// CheckSession handles GET /api/auth/check.
func (h *Handler) CheckSession(w http.ResponseWriter, r *http.Request) {
	admin, ok := session.Admin(r.Context(), h.sm)
	if !ok {
		WriteSuccess(w, SessionStatus{Authenticated: false})
		return
	}
	WriteSuccess(w, SessionStatus{Authenticated: true, Admin: &admin})
}

// ChangePassword handles PUT /api/auth/change-password.
func (h *Handler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	adminID, ok := middleware.AdminIDFromContext(r.Context())
	if !ok {
		WriteUnauthorized(w, "Authentication required")
		return
	}

	var in service.ChangePasswordInput
	if !decodeJSON(w, r, &in) {
		return
	}

	if err := h.auth.ChangePassword(r.Context(), adminID, in); err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	h.audit(r, model.EventCategoryAuth, "Password changed", nil)
	WriteMessage(w, "Password changed successfully", nil)
}
