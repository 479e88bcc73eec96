// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/olegiv/campus-site/internal/middleware"
)

// Routes returns the /api router. Session loading and CSRF protection are
// applied by the caller; submissions are throttled by submitLimiter.
func (h *Handler) Routes(submitLimiter *middleware.RateLimiter) http.Handler {
	r := chi.NewRouter()
	requireAdmin := middleware.RequireAdmin(h.sm)

	r.Route("/auth", func(r chi.Router) {
		r.With(h.login.Middleware()).Post("/login", h.Login)
		r.Get("/check", h.CheckSession)
		r.With(requireAdmin).Post("/logout", h.Logout)
		r.With(requireAdmin).Put("/change-password", h.ChangePassword)
	})

	r.Route("/news", func(r chi.Router) {
		r.Get("/", h.ListNews)
		r.With(requireAdmin).Get("/all", h.ListAllNews)
		r.Get("/{id}", h.GetNews)

		r.Group(func(r chi.Router) {
			r.Use(requireAdmin)
			r.Post("/", h.CreateNews)
			r.Put("/{id}", h.UpdateNews)
			r.Delete("/{id}", h.DeleteNews)
			r.Patch("/{id}/toggle-publish", h.ToggleNewsPublish)
		})
	})

	r.Route("/messages", func(r chi.Router) {
		r.With(submitLimiter.Middleware()).Post("/", h.SubmitMessage)

		r.Group(func(r chi.Router) {
			r.Use(requireAdmin)
			r.Get("/", h.ListMessages)
			r.Get("/unread-count", h.UnreadMessageCount)
			r.Get("/{id}", h.GetMessage)
			r.Patch("/{id}/read", h.MarkMessageRead)
			r.Patch("/{id}/unread", h.MarkMessageUnread)
			r.Delete("/{id}", h.DeleteMessage)
		})
	})

	r.Route("/memberships", func(r chi.Router) {
		r.With(submitLimiter.Middleware()).Post("/", h.SubmitMembership)

		r.Group(func(r chi.Router) {
			r.Use(requireAdmin)
			r.Get("/", h.ListMemberships)
			r.Get("/stats", h.MembershipStats)
			r.Get("/{id}", h.GetMembership)
			r.Patch("/{id}/status", h.UpdateMembershipStatus)
			r.Delete("/{id}", h.DeleteMembership)
		})
	})

	r.Route("/pages", func(r chi.Router) {
		r.Get("/", h.ListPages)
		r.Get("/{page}", h.GetPage)
		r.Get("/{page}/{section}", h.GetSection)

		r.Group(func(r chi.Router) {
			r.Use(requireAdmin)
			// bulk must be registered before the single-section route
			r.Put("/{page}/bulk", h.BulkUpdateSections)
			r.Post("/{page}", h.CreateSection)
			r.Put("/{page}/{section}", h.UpdateSection)
			r.Delete("/{page}/{section}", h.DeleteSection)
		})
	})

	r.Route("/media", func(r chi.Router) {
		r.Get("/hero", h.ListActiveHeroSlides)
		r.Get("/specialties", h.ListActiveSpecialties)
		r.Post("/parse-video", h.ParseVideo)

		r.Group(func(r chi.Router) {
			r.Use(requireAdmin)

			r.Get("/hero/all", h.ListAllHeroSlides)
			r.Get("/hero/{id}", h.GetHeroSlide)
			r.Post("/hero", h.CreateHeroSlide)
			r.Put("/hero/{id}", h.UpdateHeroSlide)
			r.Delete("/hero/{id}", h.DeleteHeroSlide)

			r.Get("/specialties/all", h.ListAllSpecialties)
			r.Get("/specialties/{id}", h.GetSpecialty)
			r.Post("/specialties", h.CreateSpecialty)
			r.Put("/specialties/{id}", h.UpdateSpecialty)
			r.Delete("/specialties/{id}", h.DeleteSpecialty)

			r.Post("/upload/{type}", h.UploadImage)
			r.Delete("/upload", h.DeleteUpload)
		})
	})

	r.With(requireAdmin).Get("/events", h.ListEvents)

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		WriteNotFound(w, "Endpoint not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		WriteError(w, http.StatusMethodNotAllowed, "Method not allowed", nil)
	})

	return r
}
