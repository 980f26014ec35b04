// Package router sets up all HTTP routes and middleware chains for the
// category planner API. Reads are open; every route that changes the
// session sits behind the editor token.
package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/StorkenPb/CategoryPlanner/internal/handlers"
	"github.com/StorkenPb/CategoryPlanner/internal/middleware"
)

// New creates and returns the configured Chi router with all middleware
// and route groups wired up. limiter guards the import and archive routes
// and may be nil.
func New(api *handlers.API, auth *middleware.TokenAuth, limiter *middleware.RateLimiter) chi.Router {
	r := chi.NewRouter()

	// Global middleware, applied to every request.
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)
	r.Use(middleware.SecureHeaders)

	// Health check, no auth.
	r.Get("/health", healthHandler)

	r.Route("/api", func(r chi.Router) {
		// Read-only views.
		r.Get("/categories", api.Categories)
		r.Get("/categories/{code}/descendants", api.Descendants)
		r.Get("/graph", api.Graph)
		r.Get("/graph/progress", api.GraphProgress)
		r.Get("/stats", api.Stats)
		r.Get("/outline", api.Outline)
		r.Get("/export", api.Export)

		// Editing.
		r.Group(func(r chi.Router) {
			r.Use(auth.RequireToken)

			r.Put("/categories", api.ReplaceCategories)
			r.Post("/categories", api.AddRoot)
			r.Route("/categories/{code}", func(r chi.Router) {
				r.Post("/sibling", api.AddSibling)
				r.Post("/child", api.AddChild)
				r.Put("/labels/{lang}", api.Relabel)
				r.Post("/edit", api.CommitEdit)
				r.Put("/parent", api.Reparent)
				r.Delete("/", api.Remove)
			})
			r.Delete("/removal", api.CancelRemoval)

			r.Post("/selection", api.Select)
			r.Delete("/selection", api.ClearSelection)

			r.Post("/drag/{code}/{phase}", api.Drag)
			r.Post("/keys", api.Key)
			r.Put("/language", api.SetLanguage)

			r.Put("/outline", api.EditOutline)
			r.Post("/outline/focus", api.FocusOutline)
			r.Post("/outline/{command}", api.OutlineCommand)

			// Bulk transfer, rate limited.
			r.Group(func(r chi.Router) {
				if limiter != nil {
					r.Use(limiter.Middleware)
				}
				r.Post("/import", api.Import)
				r.Post("/import/archive", api.ImportArchive)
				r.Post("/export/archive", api.ArchiveExport)
				r.Get("/export/archive", api.ListArchive)
			})
		})
	})

	return r
}

// healthHandler returns a simple JSON health check response.
func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}
