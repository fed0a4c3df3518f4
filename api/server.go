/*
server.go - HTTP router and middleware configuration

ROUTER: chi
  Lightweight, context-based, RESTful route patterns.

MIDDLEWARE STACK:
  1. RequestID:  Unique ID per request for tracing
  2. Recoverer:  Panic recovery (500 instead of crash)
  3. zerolog:    Structured request logging
  4. CORS:       Cross-origin requests for a local frontend

SEE ALSO:
  - handlers.go: Handler implementations
  - cmd/server/main.go: Server startup
*/
package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"
)

// NewRouter creates a new router with all routes configured.
func NewRouter(h *Handler, log zerolog.Logger) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(requestLogger(log))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173", "http://localhost:8080"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	r.Route("/api", func(r chi.Router) {
		// State & derived views
		r.Get("/state", h.GetState)
		r.Get("/overview", h.GetOverview)
		r.Get("/calendar", h.GetCalendar)
		r.Route("/charts", func(r chi.Router) {
			r.Get("/spending", h.GetSpending)
			r.Get("/planned-vs-actual", h.GetPlannedVsActual)
		})

		// Category commands
		r.Route("/categories", func(r chi.Router) {
			r.Get("/", h.ListCategories)
			r.Post("/", h.CreateCategory)
			r.Post("/reorder", h.ReorderCategory)
			r.Post("/bulk", h.BulkCategories)
			r.Route("/{id}", func(r chi.Router) {
				r.Patch("/", h.UpdateCategory)
				r.Post("/archive", h.ArchiveCategory)
				r.Post("/activate", h.ActivateCategory)
				r.Post("/delete", h.RequestDeleteCategory)
				r.Post("/delete/confirm", h.ConfirmDeleteCategory)
				r.Post("/delete/cancel", h.CancelDeleteCategory)
			})
		})

		// Transactions
		r.Route("/transactions", func(r chi.Router) {
			r.Get("/", h.ListTransactions)
			r.Post("/", h.CreateTransaction)
		})

		// Settings
		r.Route("/settings", func(r chi.Router) {
			r.Put("/income", h.SaveIncomeSettings)
			r.Put("/bonus", h.SaveBonusAllocations)
		})

		// Theme, undo, CSV interchange
		r.Post("/theme/toggle", h.ToggleTheme)
		r.Post("/undo", h.Undo)
		r.Get("/export", h.ExportCSV)
		r.Post("/import", h.ImportCSV)
	})

	return r
}

// requestLogger logs each request with method, path, status, and duration.
func requestLogger(log zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)
			log.Info().
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", ww.Status()).
				Dur("duration", time.Since(start)).
				Str("request_id", middleware.GetReqID(r.Context())).
				Msg("request")
		})
	}
}
