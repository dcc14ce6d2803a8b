/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the HTTP router (chi), middleware stack, and route
  definitions. This is the wiring layer that connects URLs to handlers.

MIDDLEWARE STACK:
  1. Logger:     Request logging
  2. Recoverer:  Panic recovery (500 instead of crash)
  3. RequestID:  Unique ID per request for tracing
  4. CORS:       Cross-origin requests for the web client

ROUTE GROUPS:
  /api/plan          Plan configuration
  /api/days          Selected-day set
  /api/ledger        Daily ledger
  /api/balance       Point-in-time balance
  /api/suggestions   Optimizer runs
  /metrics           Prometheus metrics

SECURITY NOTE:
  No authentication middleware. This is a single-user local planner.

SEE ALSO:
  - handlers.go: Handler implementations
  - cmd/planner/main.go: Server startup
*/
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewRouter creates a new router with all routes configured.
func NewRouter(h *Handler, allowedOrigins []string) *chi.Mux {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	// API routes
	r.Route("/api", func(r chi.Router) {
		r.Route("/plan", func(r chi.Router) {
			r.Get("/", h.GetPlan)
			r.Put("/", h.PutPlan)
		})

		r.Route("/days", func(r chi.Router) {
			r.Get("/", h.ListDays)
			r.Post("/", h.AddDay)
			r.Delete("/{date}", h.RemoveDay)
		})

		r.Get("/ledger", h.GetLedger)
		r.Get("/balance", h.GetBalance)

		r.Route("/suggestions", func(r chi.Router) {
			r.Get("/", h.ListSuggestions)
			r.Post("/", h.Suggest)
		})
	})

	r.Handle("/metrics", promhttp.Handler())

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(`<!DOCTYPE html>
<html>
<head><title>PTO Planner</title></head>
<body style="font-family: system-ui; max-width: 800px; margin: 50px auto; padding: 20px;">
<h1>PTO Planner API</h1>
<ul>
<li><a href="/api/plan">/api/plan</a> - Plan configuration</li>
<li><a href="/api/days">/api/days</a> - Selected days off</li>
<li><a href="/api/ledger?year=2024">/api/ledger?year=</a> - Daily ledger</li>
<li><a href="/api/balance?date=2024-06-01">/api/balance?date=</a> - Balance on a date</li>
<li><a href="/api/suggestions">/api/suggestions</a> - Optimizer runs</li>
<li><a href="/metrics">/metrics</a> - Prometheus metrics</li>
</ul>
</body>
</html>`))
	})

	return r
}
