// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/olegiv/campus-site/internal/model"
	"github.com/olegiv/campus-site/internal/service"
)

// ListPages handles GET /api/pages
func (h *Handler) ListPages(w http.ResponseWriter, r *http.Request) {
	pages, err := h.pages.ListAllPages(r.Context())
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	WriteSuccess(w, pages)
}

// GetPage handles GET /api/pages/{page}
// An unknown page yields an empty object.
func (h *Handler) GetPage(w http.ResponseWriter, r *http.Request) {
	sections, err := h.pages.GetPageSections(r.Context(), chi.URLParam(r, "page"))
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	WriteSuccess(w, sections)
}

// GetSection handles GET /api/pages/{page}/{section}
func (h *Handler) GetSection(w http.ResponseWriter, r *http.Request) {
	section, err := h.pages.GetSection(r.Context(), chi.URLParam(r, "page"), chi.URLParam(r, "section"))
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	WriteSuccess(w, section)
}

// CreateSection handles POST /api/pages/{page}
func (h *Handler) CreateSection(w http.ResponseWriter, r *http.Request) {
	page := chi.URLParam(r, "page")

	var in service.CreateSectionInput
	if !decodeJSON(w, r, &in) {
		return
	}

	section, err := h.pages.CreateSection(r.Context(), page, in)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	h.audit(r, model.EventCategoryPage, "Section created",
		map[string]any{"page": page, "section": section.SectionID})
	WriteCreated(w, "Section created successfully", section)
}

// UpdateSection handles PUT /api/pages/{page}/{section}
func (h *Handler) UpdateSection(w http.ResponseWriter, r *http.Request) {
	page, sectionID := chi.URLParam(r, "page"), chi.URLParam(r, "section")

	var in service.UpdateSectionInput
	if !decodeJSON(w, r, &in) {
		return
	}

	section, err := h.pages.UpdateSection(r.Context(), page, sectionID, in)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	h.audit(r, model.EventCategoryPage, "Section updated",
		map[string]any{"page": page, "section": sectionID})
	WriteMessage(w, "Section updated successfully", section)
}

// BulkUpdateSections handles PUT /api/pages/{page}/bulk
func (h *Handler) BulkUpdateSections(w http.ResponseWriter, r *http.Request) {
	page := chi.URLParam(r, "page")

	var in service.BulkUpdateInput
	if !decodeJSON(w, r, &in) {
		return
	}

	result, err := h.pages.BulkUpdateSections(r.Context(), page, in)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	h.audit(r, model.EventCategoryPage, "Sections bulk updated",
		map[string]any{"page": page, "processed": result.Processed, "updated": result.Updated})
	WriteMessage(w, "Sections updated successfully", result)
}

// DeleteSection handles DELETE /api/pages/{page}/{section}
func (h *Handler) DeleteSection(w http.ResponseWriter, r *http.Request) {
	page, sectionID := chi.URLParam(r, "page"), chi.URLParam(r, "section")

	if err := h.pages.DeleteSection(r.Context(), page, sectionID); err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	h.audit(r, model.EventCategoryPage, "Section deleted",
		map[string]any{"page": page, "section": sectionID})
	WriteMessage(w, "Section deleted successfully", nil)
}
