package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"scamshield/internal/api/handlers"
	apimiddleware "scamshield/internal/api/middleware"
	"scamshield/internal/config"
	"scamshield/pkg/logger"
)

const defaultRequestTimeout = 30 * time.Second

// Router holds dependencies for the API router
type Router struct {
	config   config.Config
	handlers *handlers.Handlers
	logger   *logger.Logger
}

// NewRouter creates a new Router instance
func NewRouter(cfg config.Config, h *handlers.Handlers, log *logger.Logger) *Router {
	return &Router{
		config:   cfg,
		handlers: h,
		logger:   log.WithComponent("router"),
	}
}

// Setup sets up the Chi router with all routes and middleware
func (r *Router) Setup() http.Handler {
	router := chi.NewRouter()

	timeout := r.config.Server.RequestTimeout
	if timeout <= 0 {
		timeout = defaultRequestTimeout
	}

	// Core middleware
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(apimiddleware.Logger(r.logger))
	router.Use(middleware.Recoverer)

	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   r.config.CORS.AllowedOrigins,
		AllowedMethods:   r.config.CORS.AllowedMethods,
		AllowedHeaders:   r.config.CORS.AllowedHeaders,
		AllowCredentials: r.config.CORS.AllowCredentials,
		MaxAge:           r.config.CORS.MaxAge,
	}))

	prefix := r.config.Scan.APIPrefix
	if prefix == "" {
		prefix = "/api"
	}

	router.Route(prefix, func(api chi.Router) {
		// Request/response endpoints
		api.Group(func(rr chi.Router) {
			rr.Use(middleware.Timeout(timeout))

			rr.Post("/scan", r.handlers.Scan.Scan)
			rr.Get("/history", r.handlers.Scan.History)
			rr.Get("/stats", r.handlers.Scan.Stats)

			rr.Get("/health", r.handlers.Health.Check)
			rr.Get("/ready", r.handlers.Health.Ready)

			rr.Get("/scans/live/stats", r.handlers.Streaming.Stats)
		})

		// Long-lived connection, no request timeout
		api.Get("/scans/live", r.handlers.Streaming.HandleWebSocket)
	})

	return router
}
