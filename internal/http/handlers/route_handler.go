// README: Route handlers for the booking screen's leg distance.
package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"compass/internal/maps"
	"compass/internal/modules/distance"
)

type RouteService interface {
	FastestLegMiles(ctx context.Context, origin, destination string) (maps.Leg, error)
}

type RouteHandler struct {
	routes RouteService
}

func NewRouteHandler(svc RouteService) *RouteHandler {
	return &RouteHandler{routes: svc}
}

func (h *RouteHandler) Leg(c *gin.Context) {
	origin := strings.TrimSpace(c.Query("origin"))
	destination := strings.TrimSpace(c.Query("destination"))
	if origin == "" || destination == "" {
		writeError(c, http.StatusBadRequest, "origin and destination are required")
		return
	}
	if h.routes == nil {
		writeRouteError(c, distance.ErrNotConfigured)
		return
	}
	leg, err := h.routes.FastestLegMiles(c.Request.Context(), origin, destination)
	if err != nil {
		writeRouteError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, leg)
}
