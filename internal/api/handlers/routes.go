package handlers

import (
	"errors"
	"math"
	"net/http"
	"route-timing-service/internal/api/dto"
	"route-timing-service/internal/domain"
	"route-timing-service/internal/ports"
	"route-timing-service/internal/services"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type RouteHandler struct {
	Routes *services.DayRoutes
	Logger *zap.Logger
}

// date extracts and validates the {date} path parameter.
func (h *RouteHandler) date(w http.ResponseWriter, r *http.Request) (string, bool) {
	date := chi.URLParam(r, "date")
	if _, err := domain.ParseDay(date, h.Routes.Location); err != nil {
		writeError(w, r, http.StatusBadRequest, "date must be YYYY-MM-DD")
		return "", false
	}
	return date, true
}

func (h *RouteHandler) Stops(w http.ResponseWriter, r *http.Request) {
	date, ok := h.date(w, r)
	if !ok {
		return
	}

	_, stops, err := h.Routes.Stops(r.Context(), date)
	if err != nil {
		h.fail(w, r, "list stops", err)
		return
	}

	writeJSON(w, r, http.StatusOK, dto.StopsResponse{Date: date, Stops: dto.FromStops(stops)})
}

// Metrics runs one timing cycle for the day and returns its snapshot.
func (h *RouteHandler) Metrics(w http.ResponseWriter, r *http.Request) {
	date, ok := h.date(w, r)
	if !ok {
		return
	}

	snap, err := h.Routes.Metrics(r.Context(), date)
	if err != nil {
		h.fail(w, r, "route metrics", err)
		return
	}

	writeJSON(w, r, http.StatusOK, dto.MetricsFrom(snap))
}

func (h *RouteHandler) SaveRoute(w http.ResponseWriter, r *http.Request) {
	date, ok := h.date(w, r)
	if !ok {
		return
	}

	var route domain.SavedRoute
	if !decodeJSON(w, r, &route) {
		return
	}
	if err := route.Validate(); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.Routes.SaveRoute(r.Context(), date, route); err != nil {
		h.fail(w, r, "save route", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *RouteHandler) ClearRoute(w http.ResponseWriter, r *http.Request) {
	date, ok := h.date(w, r)
	if !ok {
		return
	}

	if err := h.Routes.ClearRoute(r.Context(), date); err != nil {
		h.fail(w, r, "clear route", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *RouteHandler) AddSupplier(w http.ResponseWriter, r *http.Request) {
	date, ok := h.date(w, r)
	if !ok {
		return
	}

	var req dto.AddSupplierRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.SupplierID) == "" {
		writeError(w, r, http.StatusBadRequest, "supplier_id is required")
		return
	}

	stops, err := h.Routes.AddSupplier(r.Context(), date, req.SupplierID, position(req.Position))
	if err != nil {
		h.fail(w, r, "add supplier", err)
		return
	}
	writeJSON(w, r, http.StatusOK, dto.StopsResponse{Date: date, Stops: dto.FromStops(stops)})
}

func (h *RouteHandler) AddPlace(w http.ResponseWriter, r *http.Request) {
	date, ok := h.date(w, r)
	if !ok {
		return
	}

	var req dto.AddPlaceRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Address) == "" {
		writeError(w, r, http.StatusBadRequest, "address is required")
		return
	}

	stops, err := h.Routes.AddPlace(r.Context(), date, req.Name, req.Address, position(req.Position))
	if err != nil {
		h.fail(w, r, "add place", err)
		return
	}
	writeJSON(w, r, http.StatusOK, dto.StopsResponse{Date: date, Stops: dto.FromStops(stops)})
}

func (h *RouteHandler) RemoveStop(w http.ResponseWriter, r *http.Request) {
	date, ok := h.date(w, r)
	if !ok {
		return
	}

	stops, err := h.Routes.RemoveStop(r.Context(), date, chi.URLParam(r, "stopID"))
	if err != nil {
		h.fail(w, r, "remove stop", err)
		return
	}
	writeJSON(w, r, http.StatusOK, dto.StopsResponse{Date: date, Stops: dto.FromStops(stops)})
}

// position defaults an omitted insert position to just before the final
// home stop.
func position(p *int) int {
	if p == nil {
		return math.MaxInt
	}
	return *p
}

// fail maps service errors onto HTTP statuses. Anything unrecognized is
// logged and reported as a 500.
func (h *RouteHandler) fail(w http.ResponseWriter, r *http.Request, op string, err error) {
	switch {
	case errors.Is(err, ports.ErrEntityNotFound), errors.Is(err, services.ErrStopNotFound):
		writeError(w, r, http.StatusNotFound, err.Error())
	case errors.Is(err, services.ErrHomeEndpoint), errors.Is(err, services.ErrNoEndpoints):
		writeError(w, r, http.StatusConflict, err.Error())
	default:
		logger := h.Logger
		if logger == nil {
			logger = zap.NewNop()
		}
		logger.Error(op+" failed", zap.String("path", r.URL.Path), zap.Error(err))
		writeError(w, r, http.StatusInternalServerError, "internal server error")
	}
}
