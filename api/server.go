/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the HTTP router (chi), middleware stack, and route definitions.
  This is the wiring layer that connects URLs to handlers.

MIDDLEWARE STACK:
  1. RequestID:  Unique ID per request for tracing
  2. Logger:     zap request logging (pkg/log)
  3. Recoverer:  Panic recovery (500 instead of crash)
  4. CORS:       Cross-origin requests for the calculator page

ROUTE GROUPS:
  /api/years/*          Year resolution and base amounts
  /api/calculate        Pro-rata calculation
  /api/admin/*          Table archive
  /metrics              Prometheus metrics
  /*                    Static files (calculator page)

SECURITY NOTE:
  No authentication middleware. The admin routes are meant for an
  internal network only.

SEE ALSO:
  - handlers.go: Handler implementations
  - cmd/server/main.go: Server startup
*/
package api

import (
	"net/http"
	"os"
	"path/filepath"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/warp/paycalc/pkg/log"
)

// RouterOptions configures NewRouter.
type RouterOptions struct {
	Logger         *zap.Logger
	AllowedOrigins []string
	StaticDir      string
}

// NewRouter creates a new router with all routes configured.
func NewRouter(h *Handler, opts RouterOptions) *chi.Mux {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	if opts.Logger != nil {
		r.Use(log.Logger(opts.Logger, "http"))
	}
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: opts.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}))

	// API routes
	r.Route("/api", func(r chi.Router) {
		r.Route("/years", func(r chi.Router) {
			r.Get("/", h.ListYears)
			r.Get("/{year}", h.GetYear)
			r.Get("/{year}/amount", h.GetAmount)
		})

		r.Post("/calculate", h.Calculate)

		r.Route("/admin", func(r chi.Router) {
			r.Get("/tables", h.ListTables)
			r.Post("/tables/import", h.ImportTables)
			r.Put("/tables/{year}", h.PublishTable)
		})
	})

	r.Handle("/metrics", promhttp.Handler())

	// Serve the calculator page if it exists
	if opts.StaticDir != "" {
		if _, err := os.Stat(filepath.Join(opts.StaticDir, "index.html")); err == nil {
			r.Handle("/*", http.FileServer(http.Dir(opts.StaticDir)))
			return r
		}
	}

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write([]byte(`<!DOCTYPE html>
<html>
<head><title>TVöD Gehaltsrechner</title></head>
<body style="font-family: system-ui; max-width: 800px; margin: 50px auto; padding: 20px;">
<h1>TVöD Gehaltsrechner API</h1>
<ul>
<li><a href="/api/years">/api/years</a> - Tarifjahre</li>
<li><a href="/api/years/2024">/api/years/2024</a> - Entgeltgruppen und Gültigkeit</li>
<li>POST /api/calculate - Anteilige Grundvergütung</li>
</ul>
</body>
</html>`))
	})

	return r
}
