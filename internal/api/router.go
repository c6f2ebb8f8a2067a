package api

import (
	"net/http"
	"route-timing-service/internal/api/handlers"
	"route-timing-service/internal/services"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// NewRouter wires HTTP handlers with their dependencies and returns an http.Handler.
// This is the API composition root (handlers stay unaware of concrete adapters).
func NewRouter(routes *services.DayRoutes, logger *zap.Logger) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}

	h := &handlers.RouteHandler{Routes: routes, Logger: logger}

	r := chi.NewRouter()
	r.Use(requestIDMiddleware)
	r.Use(loggingMiddleware(logger))
	r.Use(middleware.Recoverer)

	r.Get("/health", handlers.Health)

	r.Route("/routes/{date}", func(r chi.Router) {
		r.Get("/stops", h.Stops)
		r.Get("/metrics", h.Metrics)
		r.Put("/saved", h.SaveRoute)
		r.Delete("/saved", h.ClearRoute)
		r.Post("/suppliers", h.AddSupplier)
		r.Post("/places", h.AddPlace)
		r.Delete("/stops/{stopID}", h.RemoveStop)
	})

	return r
}
