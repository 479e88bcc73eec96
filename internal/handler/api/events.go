// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"net/http"
)

// maxEventLimit caps the limit query parameter of the activity log.
const maxEventLimit = 500

// ListEvents handles GET /api/events?limit=&category=
func (h *Handler) ListEvents(w http.ResponseWriter, r *http.Request) {
	limit, ok := parseLimitParam(r)
	if !ok {
		WriteBadRequest(w, "limit must be a positive integer")
		return
	}
	if limit > maxEventLimit {
		limit = maxEventLimit
	}

	events, err := h.events.List(r.Context(), r.URL.Query().Get("category"), limit)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	WriteSuccess(w, events)
}
