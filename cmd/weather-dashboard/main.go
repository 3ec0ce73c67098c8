package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	httpapi "github.com/i474232898/weather-dashboard/internal/api/http"
	"github.com/i474232898/weather-dashboard/internal/config"
	"github.com/i474232898/weather-dashboard/internal/geo"
	"github.com/i474232898/weather-dashboard/internal/logging"
	"github.com/i474232898/weather-dashboard/internal/scheduler"
	"github.com/i474232898/weather-dashboard/internal/store"
	"github.com/i474232898/weather-dashboard/internal/weather"
	"github.com/i474232898/weather-dashboard/internal/weather/providers"
)

const appName = "weather-dashboard"

func main() {
	// Load configuration.
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}

	log := logging.New(os.Stdout, cfg, appName)
	slog.SetDefault(log)

	// Shared HTTP client for outbound provider calls.
	httpClient := &http.Client{
		Timeout: cfg.HTTPTimeout,
	}

	client := providers.NewWeatherAPIProvider(httpClient, providers.Config{
		APIKey:  cfg.WeatherAPIKey,
		BaseURL: cfg.WeatherAPIBaseURL,
		Lang:    cfg.WeatherLang,
	})

	registry := store.NewRegistry(store.Seed())
	if cfg.GeoFallbackEnabled {
		if _, ok := registry.Get(cfg.GeoFallbackLocation); !ok {
			log.Error("fallback location is not a seeded location", "id", cfg.GeoFallbackLocation)
			os.Exit(1)
		}
	}

	// Server-side position source; the browser normally reports its own.
	var locator geo.Locator
	if cfg.GeoLookupURL != "" {
		locator = geo.NewIPLocator(httpClient, cfg.GeoLookupURL)
	}
	geoAdapter := geo.NewAdapter(locator, geo.Options{
		Timeout:      cfg.GeoTimeout,
		HighAccuracy: true,
	})

	coord := weather.NewCoordinator(client, registry, geoAdapter, weather.CoordinatorConfig{
		ForecastDays: cfg.ForecastDays,
		Fallback: weather.FallbackPolicy{
			Enabled:    cfg.GeoFallbackEnabled,
			LocationID: cfg.GeoFallbackLocation,
		},
	}, log)
	defer coord.Close()

	// Open on the device position, like the dashboard does on first load.
	coord.SelectGeo(nil)

	sched := scheduler.New(cfg.RefreshInterval, coord, log)
	if err := sched.Start(); err != nil {
		log.Error("failed to start scheduler", "error", err)
		os.Exit(1)
	}
	defer sched.Stop()

	app := fiber.New(fiber.Config{
		AppName:               appName,
		DisableStartupMessage: true,
		ReadTimeout:           10 * time.Second,
		WriteTimeout:          10 * time.Second,
		ErrorHandler:          httpapi.ErrorHandler,
	})

	// Global middleware
	app.Use(logger.New())
	app.Use(recover.New())

	// Basic health endpoint
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"service": appName,
		})
	})

	httpapi.RegisterRoutes(app, coord)

	go func() {
		log.Info("listening", "port", cfg.Port)
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Error("fiber server stopped", "error", err)
		}
	}()

	// Wait for termination signal
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error("error during shutdown", "error", err)
	}
	log.Info("shutting down")
}
