package handlers

import (
	"context"
	"net/http"

	"route-planner/internal/api/dto"
	"route-planner/internal/domain"
	"route-planner/internal/platform/logger"
	"route-planner/internal/platform/validate"
	"route-planner/internal/ports"
)

// RouteHandler serves the route service contract over any ports.RouteService.
type RouteHandler struct {
	Routes    ports.RouteService
	Validator *validate.Validator
	Log       *logger.Logger
}

func (h *RouteHandler) List(w http.ResponseWriter, r *http.Request) {
	routes, err := h.Routes.ListRoutes(r.Context())
	if err != nil {
		writeAppError(w, r, h.Log, err)
		return
	}

	res := dto.ListRoutesResponse{Routes: make([]dto.RouteResponse, 0, len(routes))}
	for _, rt := range routes {
		res.Routes = append(res.Routes, dto.RouteFromDomain(rt))
	}
	writeJSON(w, r, h.Log, http.StatusOK, res)
}

func (h *RouteHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateRouteRequest
	if !h.decode(w, r, &req) {
		return
	}

	rt, err := h.Routes.CreateRoute(r.Context(), req.ToDomain())
	h.respond(w, r, http.StatusCreated, rt, err)
}

func (h *RouteHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.Routes.DeleteRoute(r.Context(), r.PathValue("id")); err != nil {
		writeAppError(w, r, h.Log, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *RouteHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req dto.UpdateRouteRequest
	if !h.decode(w, r, &req) {
		return
	}

	rt, err := h.Routes.UpdateRoute(r.Context(), r.PathValue("id"), req.ToDomain())
	h.respond(w, r, http.StatusOK, rt, err)
}

func (h *RouteHandler) AddWaypoint(w http.ResponseWriter, r *http.Request) {
	var req dto.WaypointDTO
	if !h.decode(w, r, &req) {
		return
	}

	rt, err := h.Routes.AddWaypoint(r.Context(), r.PathValue("id"), req.ToDomain())
	h.respond(w, r, http.StatusOK, rt, err)
}

func (h *RouteHandler) RemoveWaypoint(w http.ResponseWriter, r *http.Request) {
	rt, err := h.Routes.RemoveWaypoint(r.Context(), r.PathValue("id"), r.PathValue("wid"))
	h.respond(w, r, http.StatusOK, rt, err)
}

func (h *RouteHandler) PatchWaypoint(w http.ResponseWriter, r *http.Request) {
	var req dto.PatchWaypointRequest
	if !h.decode(w, r, &req) {
		return
	}

	rt, err := h.Routes.PatchWaypoint(r.Context(), r.PathValue("id"), r.PathValue("wid"), req.ToDomain())
	h.respond(w, r, http.StatusOK, rt, err)
}

func (h *RouteHandler) Recompute(w http.ResponseWriter, r *http.Request) {
	h.action(w, r, h.Routes.RecomputeRoute)
}

func (h *RouteHandler) Optimize(w http.ResponseWriter, r *http.Request) {
	h.action(w, r, h.Routes.OptimizeRoute)
}

func (h *RouteHandler) Undo(w http.ResponseWriter, r *http.Request) {
	h.action(w, r, h.Routes.UndoLastAction)
}

func (h *RouteHandler) action(w http.ResponseWriter, r *http.Request, fn func(context.Context, string) (*domain.Route, error)) {
	rt, err := fn(r.Context(), r.PathValue("id"))
	h.respond(w, r, http.StatusOK, rt, err)
}

// decode parses and shape-checks a request body. Shape failures are 400;
// semantic failures come back from the service as 422.
func (h *RouteHandler) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if !decodeJSON(w, r, h.Log, dst) {
		return false
	}
	if err := h.Validator.Struct(dst); err != nil {
		writeError(w, r, h.Log, http.StatusBadRequest, err.Error())
		return false
	}
	return true
}

func (h *RouteHandler) respond(w http.ResponseWriter, r *http.Request, status int, rt *domain.Route, err error) {
	if err != nil {
		writeAppError(w, r, h.Log, err)
		return
	}
	writeJSON(w, r, h.Log, status, dto.RouteFromDomain(*rt))
}
