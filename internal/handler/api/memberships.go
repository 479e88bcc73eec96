// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"net/http"

	"github.com/olegiv/campus-site/internal/model"
	"github.com/olegiv/campus-site/internal/service"
)

// SubmitMembership handles POST /api/memberships
func (h *Handler) SubmitMembership(w http.ResponseWriter, r *http.Request) {
	var in service.SubmitMembershipInput
	if !decodeJSON(w, r, &in) {
		return
	}

	m, err := h.memberships.Submit(r.Context(), in)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	WriteCreated(w, "Membership application submitted successfully", m)
}

// ListMemberships handles GET /api/memberships?status=
func (h *Handler) ListMemberships(w http.ResponseWriter, r *http.Request) {
	items, err := h.memberships.List(r.Context(), r.URL.Query().Get("status"))
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	WriteSuccess(w, items)
}

// MembershipStats handles GET /api/memberships/stats
func (h *Handler) MembershipStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.memberships.Stats(r.Context())
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	WriteSuccess(w, stats)
}

// GetMembership handles GET /api/memberships/{id}
func (h *Handler) GetMembership(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r, "membership")
	if !ok {
		return
	}

	m, err := h.memberships.GetByID(r.Context(), id)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	WriteSuccess(w, m)
}

// UpdateMembershipStatus handles PATCH /api/memberships/{id}/status
func (h *Handler) UpdateMembershipStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r, "membership")
	if !ok {
		return
	}

	var in service.UpdateStatusInput
	if !decodeJSON(w, r, &in) {
		return
	}

	m, err := h.memberships.UpdateStatus(r.Context(), id, in)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	h.audit(r, model.EventCategoryMembership, "Membership status updated",
		map[string]any{"membership_id": id, "status": m.Status})
	WriteMessage(w, "Status updated successfully", m)
}

// DeleteMembership handles DELETE /api/memberships/{id}
func (h *Handler) DeleteMembership(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r, "membership")
	if !ok {
		return
	}

	if err := h.memberships.Delete(r.Context(), id); err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	h.audit(r, model.EventCategoryMembership, "Membership deleted", map[string]any{"membership_id": id})
	WriteMessage(w, "Membership deleted successfully", nil)
}
