// Package server assembles the HTTP router for the platos API.
package server

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/Lixing-Zhang/platos-api/internal/config"
	"github.com/Lixing-Zhang/platos-api/internal/handlers"
	"github.com/Lixing-Zhang/platos-api/internal/middleware"
	"github.com/Lixing-Zhang/platos-api/internal/service"
	"github.com/Lixing-Zhang/platos-api/pkg/metrics"
)

const requestTimeout = 60 * time.Second

// NewRouter wires middleware and routes:
//
//	GET    /              welcome message
//	GET    /health        status and version
//	GET    /metrics       Prometheus metrics
//	GET    /platos        list dishes
//	POST   /platos        create a dish
//	GET    /platos/{id}   get a dish
//	PUT    /platos/{id}   replace a dish
//	DELETE /platos/{id}   delete a dish
//
// The chi profiler is mounted under /debug when cfg.Debug is set.
func NewRouter(cfg *config.Config, dishes *service.DishService, m *metrics.Metrics, log *slog.Logger) http.Handler {
	rootHandler := handlers.NewRootHandler(cfg.App.Title, log)
	healthHandler := handlers.NewHealthHandler(cfg.App.Version, log)
	dishHandler := handlers.NewDishHandler(dishes, log)

	r := chi.NewRouter()

	// Apply middleware
	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logger(log))
	r.Use(middleware.Metrics(m))
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(requestTimeout))

	// Browsers reject a literal "*" with credentials, so the middleware
	// echoes the request origin instead.
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH", "HEAD"},
		AllowedHeaders:   []string{"*"},
		ExposedHeaders:   []string{middleware.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		handlers.WriteError(w, http.StatusNotFound, "Not Found", log)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		handlers.WriteError(w, http.StatusMethodNotAllowed, "Method Not Allowed", log)
	})

	r.Get("/", rootHandler.ServeHTTP)
	r.Get("/health", healthHandler.ServeHTTP)
	r.Method(http.MethodGet, "/metrics", m.Handler())

	r.Route("/platos", dishHandler.Routes)

	if cfg.Debug {
		r.Mount("/debug", chimiddleware.Profiler())
	}

	return r
}
