// README: Entry point; loads config and rates, wires the pricing engine and starts the HTTP server.
package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"compass/internal/config"
	httptransport "compass/internal/http"
	"compass/internal/infra"
	"compass/internal/maps"
	"compass/internal/modules/distance"
	"compass/internal/modules/jurisdiction"
	"compass/internal/modules/pricing"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	appLogger, err := infra.NewLogger(cfg.IsProduction())
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer appLogger.Sync()

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	rates, err := pricing.LoadRates(cfg.Pricing.RatesFile)
	if err != nil {
		appLogger.Fatal("unable to load rate table", zap.Error(err))
	}

	deps := pricing.ServiceDeps{Rates: rates, Logger: appLogger}
	serverDeps := httptransport.ServerDeps{Logger: appLogger}

	var routes *maps.RouteService
	if cfg.Maps.APIKey != "" {
		routes, err = maps.NewRouteService(cfg.Maps.APIKey)
		if err != nil {
			appLogger.Fatal("unable to create maps client", zap.Error(err))
		}
		routes.WithTimeout(cfg.Routing.Timeout)
		serverDeps.Routes = routes
	}

	// The deployment's maps proxy wins over calling Google directly.
	var source distance.Source
	switch {
	case cfg.Routing.ProxyURL != "":
		source = distance.NewProxyClient(cfg.Routing.ProxyURL, &http.Client{Timeout: cfg.Routing.Timeout})
	case routes != nil:
		source = routes
	default:
		appLogger.Warn("no routing service configured; dead mileage will be estimated as zero")
	}
	deps.Distance = distance.NewProvider(source, rates.Depot.Address, cfg.Routing.Timeout, appLogger)

	patterns := jurisdiction.NewPatternClassifier(rates.Zones, appLogger)
	deps.Classifier = patterns
	if cfg.Maps.GeocodeEnabled {
		geocoder, err := maps.NewGeocodeService(cfg.Maps.APIKey)
		if err != nil {
			appLogger.Fatal("geocoding enabled without a maps API key", zap.Error(err))
		}
		deps.Classifier = jurisdiction.NewGeocodingClassifier(patterns, geocoder, cfg.Routing.Timeout, appLogger)
	}

	if cfg.DB.DSN != "" {
		pool, err := infra.NewDB(ctx, cfg.DB.DSN)
		if err != nil {
			appLogger.Fatal("cannot connect to db", zap.Error(err))
		}
		defer pool.Close()
		deps.Store = pricing.NewStore(pool)
		appLogger.Info("connected to database via pgxpool")
	}

	if cfg.Redis.Addr != "" {
		client, err := infra.NewRedis(ctx, cfg.Redis.Addr)
		if err != nil {
			appLogger.Warn("quote audit disabled", zap.Error(err))
		} else {
			defer client.Close()
			deps.Auditor = pricing.NewRedisAuditor(client)
		}
	}

	serverDeps.Pricing = pricing.NewService(deps)
	handler := httptransport.NewServer(serverDeps)

	srv := &http.Server{
		Addr:              cfg.HTTP.Addr,
		Handler:           handler.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		appLogger.Info("starting server", zap.String("addr", cfg.HTTP.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLogger.Fatal("listen", zap.Error(err))
		}
	}()

	<-ctx.Done()
	appLogger.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		appLogger.Error("server forced to shutdown", zap.Error(err))
	}
	appLogger.Info("server exiting")
}
