// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package api provides the JSON REST API of the campus site.
package api

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/alexedwards/scs/v2"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/olegiv/campus-site/internal/middleware"
	"github.com/olegiv/campus-site/internal/service"
	"github.com/olegiv/campus-site/internal/session"
)

// maxJSONBody bounds JSON request bodies.
const maxJSONBody = 1 << 20

// Services bundles the resource services the API exposes.
type Services struct {
	Pages       *service.PageService
	News        *service.NewsService
	Messages    *service.MessageService
	Memberships *service.MembershipService
	Media       *service.MediaService
	Auth        *service.AuthService
	Events      *service.EventService
}

// Config holds the HTTP-level settings of the API.
type Config struct {
	IsDevelopment bool
	MaxUploadSize int64
}

// Handler holds shared dependencies for all API handlers.
type Handler struct {
	pages       *service.PageService
	news        *service.NewsService
	messages    *service.MessageService
	memberships *service.MembershipService
	media       *service.MediaService
	auth        *service.AuthService
	events      *service.EventService

	sm     *scs.SessionManager
	login  *middleware.LoginProtection
	logger *slog.Logger
	cfg    Config
}

// NewHandler creates a new API handler.
func NewHandler(svc Services, sm *scs.SessionManager, login *middleware.LoginProtection, cfg Config, logger *slog.Logger) *Handler {
	return &Handler{
		pages:       svc.Pages,
		news:        svc.News,
		messages:    svc.Messages,
		memberships: svc.Memberships,
		media:       svc.Media,
		auth:        svc.Auth,
		events:      svc.Events,
		sm:          sm,
		login:       login,
		logger:      logger,
		cfg:         cfg,
	}
}

// Response is the envelope of every API response.
type Response struct {
	Success bool              `json:"success"`
	Message string            `json:"message,omitempty"`
	Data    any               `json:"data,omitempty"`
	Errors  map[string]string `json:"errors,omitempty"`
}

// WriteJSON writes a JSON response with the given status code.
func WriteJSON(w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(data)
}

// WriteSuccess writes a 200 envelope carrying data.
func WriteSuccess(w http.ResponseWriter, data any) {
	WriteJSON(w, http.StatusOK, Response{Success: true, Data: data})
}

// WriteMessage writes a 200 envelope carrying a message and optional data.
func WriteMessage(w http.ResponseWriter, message string, data any) {
	WriteJSON(w, http.StatusOK, Response{Success: true, Message: message, Data: data})
}

// WriteCreated writes a 201 Created envelope.
func WriteCreated(w http.ResponseWriter, message string, data any) {
	WriteJSON(w, http.StatusCreated, Response{Success: true, Message: message, Data: data})
}

// WriteError writes a failure envelope.
func WriteError(w http.ResponseWriter, statusCode int, message string, fields map[string]string) {
	WriteJSON(w, statusCode, Response{Success: false, Message: message, Errors: fields})
}

// WriteBadRequest writes a 400 Bad Request envelope.
func WriteBadRequest(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusBadRequest, message, nil)
}

// WriteNotFound writes a 404 Not Found envelope.
func WriteNotFound(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusNotFound, message, nil)
}

// WriteUnauthorized writes a 401 Unauthorized envelope.
func WriteUnauthorized(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusUnauthorized, message, nil)
}

// writeServiceError maps a service error onto its status code. Errors that
// carry no kind are logged and answered with a generic 500 outside
// development.
func (h *Handler) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	msg, _ := service.Message(err)
	fields := service.FieldErrors(err)

	switch {
	case errors.Is(err, service.ErrInvalidInput), errors.Is(err, service.ErrConflict):
		WriteError(w, http.StatusBadRequest, msg, fields)
	case errors.Is(err, service.ErrUnauthorized):
		WriteError(w, http.StatusUnauthorized, msg, nil)
	case errors.Is(err, service.ErrNotFound):
		WriteError(w, http.StatusNotFound, msg, nil)
	default:
		h.logger.ErrorContext(r.Context(), "request failed",
			"error", err,
			"method", r.Method,
			"path", r.URL.Path,
			"request_id", chimw.GetReqID(r.Context()),
			"ip", middleware.ClientIP(r),
		)
		message := "Internal server error"
		if h.cfg.IsDevelopment {
			message = err.Error()
		}
		WriteError(w, http.StatusInternalServerError, message, nil)
	}
}

// decodeJSON reads a JSON body into dst. It writes a 400 and returns false
// when the body is missing, too large or malformed.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBody)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		var maxErr *http.MaxBytesError
		switch {
		case errors.As(err, &maxErr):
			WriteError(w, http.StatusRequestEntityTooLarge, "Request body too large", nil)
		case errors.Is(err, io.EOF):
			WriteBadRequest(w, "Request body is required")
		default:
			WriteBadRequest(w, "Invalid JSON body")
		}
		return false
	}
	return true
}

// parseIDParam parses the {id} URL parameter. It writes a 400 and returns
// false when the value is not a positive integer.
func parseIDParam(w http.ResponseWriter, r *http.Request, entityName string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		WriteBadRequest(w, "Invalid "+entityName+" ID")
		return 0, false
	}
	return id, true
}

// isAdmin reports whether the request carries an admin session. Public
// routes use it to widen what they return.
func (h *Handler) isAdmin(r *http.Request) bool {
	if _, ok := middleware.AdminIDFromContext(r.Context()); ok {
		return true
	}
	_, ok := session.AdminID(r.Context(), h.sm)
	return ok
}

// audit records an admin action in the activity log.
func (h *Handler) audit(r *http.Request, category, message string, metadata map[string]any) {
	var adminID *int64
	if id, ok := middleware.AdminIDFromContext(r.Context()); ok {
		adminID = &id
	}
	_ = h.events.LogInfo(r.Context(), category, message, adminID, middleware.ClientIP(r), metadata)
}
