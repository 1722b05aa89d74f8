// README: API gateway; registers HTTP routes and delegates to module services.
package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"compass/internal/http/handlers"
	"compass/internal/http/middleware"
)

type ServerDeps struct {
	Pricing handlers.PricingService
	Routes  handlers.RouteService
	Logger  *zap.Logger
}

type Server struct {
	pricing handlers.PricingService
	routes  handlers.RouteService
	log     *zap.Logger
}

func NewServer(deps ServerDeps) *Server {
	log := deps.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return &Server{
		pricing: deps.Pricing,
		routes:  deps.Routes,
		log:     log,
	}
}

func (s *Server) Routes() http.Handler {
	r := gin.New()
	r.Use(middleware.RequestID(), middleware.Logging(s.log), middleware.Recovery(s.log))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "UP"})
	})

	api := r.Group("/api")
	{
		pricingHandler := handlers.NewPricingHandler(s.pricing)
		api.POST("/pricing/estimate", pricingHandler.Estimate)
		api.PUT("/trips/:id/pricing", pricingHandler.SaveTripPricing)
		api.GET("/trips/:id/pricing", pricingHandler.TripPricing)

		routeHandler := handlers.NewRouteHandler(s.routes)
		api.GET("/routes/leg", routeHandler.Leg)
	}
	return r
}
