// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package router sets up the HTTP routes and middleware chains of the
// Radic API. Generation routes accept anonymous callers; stored resources
// require a verified identity.
package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"radic/internal/handlers"
	"radic/internal/middleware"
)

// New creates the chi router. limiter guards the generation endpoints and
// may be nil to disable rate limiting.
func New(api *handlers.API, verifier middleware.Verifier, limiter *middleware.RateLimiter) chi.Router {
	r := chi.NewRouter()

	// Global middleware, applied to every request.
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.SecureHeaders)
	r.Use(middleware.LoadIdentity(verifier))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		middleware.WriteError(w, r, http.StatusNotFound, middleware.CodeNotFound, "route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		middleware.WriteError(w, r, http.StatusMethodNotAllowed, middleware.CodeValidation, "method not allowed")
	})

	r.Get("/health", api.Health)

	r.Route("/api/v1", func(r chi.Router) {
		r.With(middleware.Cacheable(time.Hour)).Get("/formats", api.Formats)

		r.Route("/ai", func(r chi.Router) {
			// Every call here may reach a paid provider.
			r.Group(func(r chi.Router) {
				if limiter != nil {
					r.Use(limiter.Middleware)
				}
				r.Post("/generate", api.Generate)
				r.Post("/brief", api.Brief)

				r.With(middleware.RequireIdentity).Post("/generate-image", api.GenerateImage)
			})

			r.Post("/placeholder", api.Placeholder)

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireIdentity)
				r.Get("/providers", api.ProviderStatus)
			})
		})

		// Owner-scoped resources.
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireIdentity)

			r.Get("/auth/me", api.Me)

			r.Route("/designs", func(r chi.Router) {
				r.Get("/", api.ListDesigns)
				r.Post("/", api.CreateDesign)
				r.Get("/{id}", api.GetDesign)
				r.Patch("/{id}", api.UpdateDesign)
				r.Delete("/{id}", api.DeleteDesign)
			})

			r.Route("/brands", func(r chi.Router) {
				r.Get("/", api.ListBrands)
				r.Post("/", api.CreateBrand)
				r.Get("/{id}", api.GetBrand)
				r.Put("/{id}", api.UpdateBrand)
				r.Delete("/{id}", api.DeleteBrand)
			})

			r.Route("/assets", func(r chi.Router) {
				r.Get("/", api.ListAssets)
				r.Get("/{id}", api.GetAsset)
				r.Delete("/{id}", api.DeleteAsset)
			})
		})
	})

	return r
}
