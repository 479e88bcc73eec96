// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"context"
	"net/http"

	"github.com/alexedwards/scs/v2"

	"github.com/olegiv/campus-site/internal/session"
)

// ContextKeyAdminID holds the id of the authenticated admin.
const ContextKeyAdminID ContextKey = "admin_id"

// RequireAdmin rejects requests whose session carries no admin with a JSON
// 401. It must run inside the session manager's LoadAndSave.
func RequireAdmin(sm *scs.SessionManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, ok := session.AdminID(r.Context(), sm)
			if !ok {
				writeJSONError(w, http.StatusUnauthorized, "Authentication required")
				return
			}
			ctx := context.WithValue(r.Context(), ContextKeyAdminID, id)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// AdminIDFromContext returns the admin id stored by RequireAdmin.
func AdminIDFromContext(ctx context.Context) (int64, bool) {
	id, ok := ctx.Value(ContextKeyAdminID).(int64)
	return id, ok && id > 0
}
