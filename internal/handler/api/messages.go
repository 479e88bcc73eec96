// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"net/http"

	"github.com/olegiv/campus-site/internal/model"
	"github.com/olegiv/campus-site/internal/service"
)

// UnreadCount is the body of GET /api/messages/unread-count.
type UnreadCount struct {
	Count int64 `json:"count"`
}

// SubmitMessage handles POST /api/messages
func (h *Handler) SubmitMessage(w http.ResponseWriter, r *http.Request) {
	var in service.SubmitMessageInput
	if !decodeJSON(w, r, &in) {
		return
	}

	msg, err := h.messages.Submit(r.Context(), in)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	WriteCreated(w, "Message sent successfully", msg)
}

// ListMessages handles GET /api/messages
func (h *Handler) ListMessages(w http.ResponseWriter, r *http.Request) {
	messages, err := h.messages.List(r.Context())
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	WriteSuccess(w, messages)
}

// UnreadMessageCount handles GET /api/messages/unread-count
func (h *Handler) UnreadMessageCount(w http.ResponseWriter, r *http.Request) {
	n, err := h.messages.UnreadCount(r.Context())
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	WriteSuccess(w, UnreadCount{Count: n})
}

// GetMessage handles GET /api/messages/{id}
func (h *Handler) GetMessage(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r, "message")
	if !ok {
		return
	}

	msg, err := h.messages.GetByID(r.Context(), id)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	WriteSuccess(w, msg)
}

// MarkMessageRead handles PATCH /api/messages/{id}/read
func (h *Handler) MarkMessageRead(w http.ResponseWriter, r *http.Request) {
	h.setMessageRead(w, r, true)
}

// MarkMessageUnread handles PATCH /api/messages/{id}/unread
func (h *Handler) MarkMessageUnread(w http.ResponseWriter, r *http.Request) {
	h.setMessageRead(w, r, false)
}

func (h *Handler) setMessageRead(w http.ResponseWriter, r *http.Request, read bool) {
	id, ok := parseIDParam(w, r, "message")
	if !ok {
		return
	}

	mark, msg := h.messages.MarkUnread, "Message marked as unread"
	if read {
		mark, msg = h.messages.MarkRead, "Message marked as read"
	}
	if err := mark(r.Context(), id); err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	WriteMessage(w, msg, nil)
}

// DeleteMessage handles DELETE /api/messages/{id}
func (h *Handler) DeleteMessage(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r, "message")
	if !ok {
		return
	}

	if err := h.messages.Delete(r.Context(), id); err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	h.audit(r, model.EventCategoryMessage, "Message deleted", map[string]any{"message_id": id})
	WriteMessage(w, "Message deleted successfully", nil)
}
