// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"net/http"
	"strconv"

	"github.com/olegiv/campus-site/internal/model"
	"github.com/olegiv/campus-site/internal/service"
)

// parseLimitParam reads the limit query parameter. Absent means no limit.
func parseLimitParam(r *http.Request) (int, bool) {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return 0, true
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit <= 0 {
		return 0, false
	}
	return limit, true
}

// ListNews handles GET /api/news
// Public: returns only published articles.
// With a session: published=false returns drafts, published=all returns both.
func (h *Handler) ListNews(w http.ResponseWriter, r *http.Request) {
	limit, ok := parseLimitParam(r)
	if !ok {
		WriteBadRequest(w, "limit must be a positive integer")
		return
	}

	published := true
	filter := service.NewsFilter{
		Published: &published,
		Category:  r.URL.Query().Get("category"),
		Limit:     limit,
	}
	if h.isAdmin(r) {
		switch r.URL.Query().Get("published") {
		case "", "true":
		case "false":
			published = false
		case "all":
			filter.Published = nil
		default:
			WriteBadRequest(w, "published must be one of: true, false, all")
			return
		}
	}

	articles, err := h.news.List(r.Context(), filter)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	WriteSuccess(w, articles)
}

// ListAllNews handles GET /api/news/all
func (h *Handler) ListAllNews(w http.ResponseWriter, r *http.Request) {
	articles, err := h.news.ListAll(r.Context())
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	WriteSuccess(w, articles)
}

// GetNews handles GET /api/news/{id}
// Unpublished articles are only visible with a session.
func (h *Handler) GetNews(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r, "news")
	if !ok {
		return
	}

	article, err := h.news.GetByID(r.Context(), id)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	if !article.Published && !h.isAdmin(r) {
		WriteNotFound(w, "News not found")
		return
	}
	WriteSuccess(w, article)
}

// CreateNews handles POST /api/news
func (h *Handler) CreateNews(w http.ResponseWriter, r *http.Request) {
	var in service.CreateNewsInput
	if !decodeJSON(w, r, &in) {
		return
	}

	article, err := h.news.Create(r.Context(), in)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	h.audit(r, model.EventCategoryNews, "News created", map[string]any{"news_id": article.ID, "title": article.Title})
	WriteCreated(w, "News created successfully", article)
}

// UpdateNews handles PUT /api/news/{id}
func (h *Handler) UpdateNews(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r, "news")
	if !ok {
		return
	}

	var in service.UpdateNewsInput
	if !decodeJSON(w, r, &in) {
		return
	}

	article, err := h.news.Update(r.Context(), id, in)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	h.audit(r, model.EventCategoryNews, "News updated", map[string]any{"news_id": id})
	WriteMessage(w, "News updated successfully", article)
}

// DeleteNews handles DELETE /api/news/{id}
func (h *Handler) DeleteNews(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r, "news")
	if !ok {
		return
	}

	if err := h.news.Delete(r.Context(), id); err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	h.audit(r, model.EventCategoryNews, "News deleted", map[string]any{"news_id": id})
	WriteMessage(w, "News deleted successfully", nil)
}

// ToggleNewsPublish handles PATCH /api/news/{id}/toggle-publish
func (h *Handler) ToggleNewsPublish(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r, "news")
	if !ok {
		return
	}

	article, err := h.news.TogglePublish(r.Context(), id)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	msg := "News unpublished"
	if article.Published {
		msg = "News published"
	}
	h.audit(r, model.EventCategoryNews, msg, map[string]any{"news_id": id})
	WriteMessage(w, msg, article)
}
