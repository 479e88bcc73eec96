// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/olegiv/campus-site/internal/model"
	"github.com/olegiv/campus-site/internal/service"
)

// multipartOverhead is the allowance for multipart framing on top of the
// upload size limit.
const multipartOverhead = 1 << 20

// URLRequest is a body carrying a single url field.
type URLRequest struct {
	URL string `json:"url"`
}

// ListActiveHeroSlides handles GET /api/media/hero
func (h *Handler) ListActiveHeroSlides(w http.ResponseWriter, r *http.Request) {
	slides, err := h.media.ListActiveHeroSlides(r.Context())
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	WriteSuccess(w, slides)
}

// ListAllHeroSlides handles GET /api/media/hero/all
func (h *Handler) ListAllHeroSlides(w http.ResponseWriter, r *http.Request) {
	slides, err := h.media.ListAllHeroSlides(r.Context())
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	WriteSuccess(w, slides)
}

// GetHeroSlide handles GET /api/media/hero/{id}
func (h *Handler) GetHeroSlide(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r, "hero slide")
	if !ok {
		return
	}

	slide, err := h.media.GetHeroSlide(r.Context(), id)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	WriteSuccess(w, slide)
}

// CreateHeroSlide handles POST /api/media/hero
func (h *Handler) CreateHeroSlide(w http.ResponseWriter, r *http.Request) {
	var in service.CreateHeroSlideInput
	if !decodeJSON(w, r, &in) {
		return
	}

	slide, err := h.media.CreateHeroSlide(r.Context(), in)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	h.audit(r, model.EventCategoryMedia, "Hero slide created", map[string]any{"hero_slide_id": slide.ID})
	WriteCreated(w, "Hero slide created successfully", slide)
}

// UpdateHeroSlide handles PUT /api/media/hero/{id}
func (h *Handler) UpdateHeroSlide(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r, "hero slide")
	if !ok {
		return
	}

	var in service.UpdateHeroSlideInput
	if !decodeJSON(w, r, &in) {
		return
	}

	slide, err := h.media.UpdateHeroSlide(r.Context(), id, in)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	h.audit(r, model.EventCategoryMedia, "Hero slide updated", map[string]any{"hero_slide_id": id})
	WriteMessage(w, "Hero slide updated successfully", slide)
}

// DeleteHeroSlide handles DELETE /api/media/hero/{id}
func (h *Handler) DeleteHeroSlide(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r, "hero slide")
	if !ok {
		return
	}

	if err := h.media.DeleteHeroSlide(r.Context(), id); err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	h.audit(r, model.EventCategoryMedia, "Hero slide deleted", map[string]any{"hero_slide_id": id})
	WriteMessage(w, "Hero slide deleted successfully", nil)
}

// ListActiveSpecialties handles GET /api/media/specialties
func (h *Handler) ListActiveSpecialties(w http.ResponseWriter, r *http.Request) {
	items, err := h.media.ListActiveSpecialties(r.Context())
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	WriteSuccess(w, items)
}

// ListAllSpecialties handles GET /api/media/specialties/all
func (h *Handler) ListAllSpecialties(w http.ResponseWriter, r *http.Request) {
	items, err := h.media.ListAllSpecialties(r.Context())
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	WriteSuccess(w, items)
}

// GetSpecialty handles GET /api/media/specialties/{id}
func (h *Handler) GetSpecialty(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r, "specialty")
	if !ok {
		return
	}

	sp, err := h.media.GetSpecialty(r.Context(), id)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	WriteSuccess(w, sp)
}

// CreateSpecialty handles POST /api/media/specialties
func (h *Handler) CreateSpecialty(w http.ResponseWriter, r *http.Request) {
	var in service.CreateSpecialtyInput
	if !decodeJSON(w, r, &in) {
		return
	}

	sp, err := h.media.CreateSpecialty(r.Context(), in)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	h.audit(r, model.EventCategoryMedia, "Specialty created", map[string]any{"specialty_id": sp.ID, "name": sp.Name})
	WriteCreated(w, "Specialty created successfully", sp)
}

// UpdateSpecialty handles PUT /api/media/specialties/{id}
func (h *Handler) UpdateSpecialty(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r, "specialty")
	if !ok {
		return
	}

	var in service.UpdateSpecialtyInput
	if !decodeJSON(w, r, &in) {
		return
	}

	sp, err := h.media.UpdateSpecialty(r.Context(), id, in)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	h.audit(r, model.EventCategoryMedia, "Specialty updated", map[string]any{"specialty_id": id})
	WriteMessage(w, "Specialty updated successfully", sp)
}

// DeleteSpecialty handles DELETE /api/media/specialties/{id}
func (h *Handler) DeleteSpecialty(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r, "specialty")
	if !ok {
		return
	}

	if err := h.media.DeleteSpecialty(r.Context(), id); err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	h.audit(r, model.EventCategoryMedia, "Specialty deleted", map[string]any{"specialty_id": id})
	WriteMessage(w, "Specialty deleted successfully", nil)
}

// UploadImage handles POST /api/media/upload/{type} with the file in the
// multipart field "image".
func (h *Handler) UploadImage(w http.ResponseWriter, r *http.Request) {
	uploadType := chi.URLParam(r, "type")
	if !model.IsValidUploadType(uploadType) {
		WriteBadRequest(w, "Invalid upload type")
		return
	}

	maxSize := h.cfg.MaxUploadSize
	r.Body = http.MaxBytesReader(w, r.Body, maxSize+multipartOverhead)
	if err := r.ParseMultipartForm(maxSize); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			writeTooLarge(w, maxSize)
			return
		}
		WriteBadRequest(w, "Invalid multipart form")
		return
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	file, header, err := r.FormFile("image")
	if err != nil {
		WriteBadRequest(w, "No file uploaded")
		return
	}
	defer func() { _ = file.Close() }()

	if header.Size > maxSize {
		writeTooLarge(w, maxSize)
		return
	}
	data, err := io.ReadAll(io.LimitReader(file, maxSize+1))
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	if int64(len(data)) > maxSize {
		writeTooLarge(w, maxSize)
		return
	}

	upload, err := h.media.UploadImage(r.Context(), uploadType, header.Filename, data)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	h.audit(r, model.EventCategoryMedia, "Image uploaded",
		map[string]any{"url": upload.URL, "size": upload.Size, "type": uploadType})
	WriteCreated(w, "File uploaded successfully", upload)
}

func writeTooLarge(w http.ResponseWriter, maxSize int64) {
	mb := maxSize >> 20
	if mb < 1 {
		mb = 1
	}
	WriteError(w, http.StatusRequestEntityTooLarge, fmt.Sprintf("File too large (max %d MB)", mb), nil)
}

// DeleteUpload handles DELETE /api/media/upload with body {url}.
func (h *Handler) DeleteUpload(w http.ResponseWriter, r *http.Request) {
	var in URLRequest
	if !decodeJSON(w, r, &in) {
		return
	}

	if err := h.media.DeleteUpload(r.Context(), in.URL); err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	h.audit(r, model.EventCategoryMedia, "Upload deleted", map[string]any{"url": in.URL})
	WriteMessage(w, "File deleted successfully", nil)
}

// ParseVideo handles POST /api/media/parse-video with body {url}.
func (h *Handler) ParseVideo(w http.ResponseWriter, r *http.Request) {
	var in URLRequest
	if !decodeJSON(w, r, &in) {
		return
	}
	if strings.TrimSpace(in.URL) == "" {
		WriteBadRequest(w, "url is required")
		return
	}

	info := service.ParseVideoURL(in.URL)
	if info == nil {
		WriteBadRequest(w, "Unsupported video URL")
		return
	}
	WriteSuccess(w, info)
}
