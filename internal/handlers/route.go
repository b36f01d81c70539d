package handlers

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/diewo77/go-erp/httpx"
	"github.com/diewo77/go-erp/internal/services"
)

type RouteHandler struct {
	svc *services.RouteService
	log *slog.Logger
}

func NewRouteHandler(svc *services.RouteService, log *slog.Logger) *RouteHandler {
	if log == nil {
		log = slog.Default()
	}
	return &RouteHandler{svc: svc, log: log}
}

// Tolls returns the expected toll total for ?vehicle= along the route.
func (h *RouteHandler) Tolls(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	vehicle := strings.TrimSpace(r.URL.Query().Get("vehicle"))
	if vehicle == "" {
		httpx.JSONError(w, http.StatusBadRequest, "missing_vehicle", nil)
		return
	}
	total, err := h.svc.ExpectedTollTotal(r.Context(), id, vehicle)
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{
		"route_id":     id,
		"vehicle_type": vehicle,
		"toll_total":   total,
	})
}

type transportRequest struct {
	Items []services.TransportLine `json:"items"`
}

// Transport previews the freight cost of items on the route.
func (h *RouteHandler) Transport(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req transportRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.JSONErrorMessage(w, http.StatusBadRequest, "invalid_json", err.Error(), nil)
		return
	}
	t, err := h.svc.PreviewTransport(r.Context(), id, req.Items)
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	httpx.JSON(w, http.StatusOK, t)
}
