/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the HTTP router (chi), middleware stack, and route definitions.
  This is the wiring layer that connects URLs to handlers.

ROUTER: chi
  Chi was chosen for:
  - Lightweight and fast
  - Context-based
  - Middleware support
  - RESTful route patterns

MIDDLEWARE STACK:
  1. RequestID:  Unique ID per request for tracing
  2. Recoverer:  Panic recovery (500 instead of crash)
  3. zerolog:    Structured request logging
  4. CORS:       Cross-origin requests for frontend

ROUTE GROUPS:
  /api/resolve          Single run-date resolution
  /api/schedule/*       Generated and published schedules
  /api/holidays/*       Effective calendar and closure overrides
  /api/evaluations      Accuracy harness
  /api/reset            Database reset (dev only)

SECURITY NOTE:
  No authentication middleware currently. All endpoints are public.

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
func NewRouter(h *Handler) *chi.Mux {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(requestLogger(h.Log))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173", "http://localhost:8080"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	// API routes
	r.Route("/api", func(r chi.Router) {
		r.Get("/resolve", h.Resolve)

		// Schedule routes. Static segments (legacy, publish, published) take
		// precedence over the {month} parameter in chi.
		r.Route("/schedule/{table}/{year}", func(r chi.Router) {
			r.Get("/", h.GetYearSchedule)
			r.Get("/legacy", h.GetLegacySchedule)
			r.Post("/publish", h.PublishSchedule)
			r.Get("/published", h.GetPublishedSchedule)
			r.Get("/{month}", h.GetMonthSchedule)
		})

		// Holiday routes
		r.Route("/holidays", func(r chi.Router) {
			r.Get("/overrides", h.ListOverrides)
			r.Post("/overrides", h.CreateOverride)
			r.Delete("/overrides/{id}", h.DeleteOverride)
			r.Get("/{year}", h.ListYearHolidays)
		})

		// Evaluation routes
		r.Route("/evaluations", func(r chi.Router) {
			r.Get("/", h.ListEvaluations)
			r.Post("/", h.RunEvaluation)
		})

		// Dev only
		r.Post("/reset", h.Reset)
	})

	return r
}

// requestLogger logs each request with its chi request id.
func requestLogger(log zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)
			log.Info().
				Str("request_id", middleware.GetReqID(r.Context())).
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", ww.Status()).
				Dur("duration", time.Since(start)).
				Msg("request")
		})
	}
}
