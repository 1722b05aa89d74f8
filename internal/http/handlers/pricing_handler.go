// README: Pricing handlers: live estimate and frozen trip pricing.
package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"compass/internal/modules/pricing"
	"compass/internal/types"
)

type PricingService interface {
	Estimate(ctx context.Context, req pricing.Request) pricing.Result
	SaveTripPricing(ctx context.Context, tripID types.ID, b pricing.Breakdown) error
	TripPricing(ctx context.Context, tripID types.ID) (pricing.Breakdown, error)
}

type PricingHandler struct {
	pricing PricingService
}

func NewPricingHandler(svc PricingService) *PricingHandler {
	return &PricingHandler{pricing: svc}
}

// Estimate always answers 200 for a well-formed body; a failed quote is
// reported in the body as success=false.
func (h *PricingHandler) Estimate(c *gin.Context) {
	var req pricing.Request
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	writeJSON(c, http.StatusOK, h.pricing.Estimate(c.Request.Context(), req))
}

func (h *PricingHandler) SaveTripPricing(c *gin.Context) {
	id := c.Param("id")
	if !isValidID(id) {
		writeError(c, http.StatusBadRequest, "invalid trip id")
		return
	}
	var b pricing.Breakdown
	if err := c.ShouldBindJSON(&b); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	if err := h.pricing.SaveTripPricing(c.Request.Context(), types.ID(id), b); err != nil {
		writePricingError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, map[string]any{"tripId": id, "status": "saved"})
}

func (h *PricingHandler) TripPricing(c *gin.Context) {
	id := c.Param("id")
	if !isValidID(id) {
		writeError(c, http.StatusBadRequest, "invalid trip id")
		return
	}
	b, err := h.pricing.TripPricing(c.Request.Context(), types.ID(id))
	if err != nil {
		writePricingError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, map[string]any{"tripId": id, "pricing": b})
}
