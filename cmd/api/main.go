// Package main is the entry point for the skycast API server.
//
// It loads configuration, opens the local blob store, wires the weather,
// settings, and notification services together, builds the HTTP server with
// the core chassis (middleware, routing, health checks), and starts
// listening for requests.
//
// Graceful shutdown is handled via OS signal interception (SIGINT, SIGTERM).
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"skycast/internal/analyzer"
	"skycast/internal/api/handlers"
	"skycast/internal/config"
	"skycast/internal/core"
	"skycast/internal/location"
	"skycast/internal/notify"
	"skycast/internal/settings"
	"skycast/internal/storage"
	"skycast/internal/suggest"
	"skycast/internal/types"
	"skycast/internal/weather"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

// run encapsulates the startup lifecycle so that main() can cleanly exit on error.
func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}

	logger := newLogger(cfg.LogLevel)
	logger.Info("skycast API starting",
		"environment", cfg.AppEnv,
		"port", cfg.Port,
	)

	store, err := storage.Open(cfg.Storage.Path)
	if err != nil {
		return fmt.Errorf("opening blob store: %w", err)
	}
	defer store.Close()

	settingsSvc := settings.NewService(settings.ServiceConfig{
		Store:  store,
		Logger: logger,
	})
	if err := settingsSvc.Load(context.Background()); err != nil {
		return fmt.Errorf("loading settings: %w", err)
	}

	weatherClient := weather.NewClient(weather.ClientConfig{
		BaseURL:   cfg.Weather.BaseURL,
		APIKey:    cfg.Weather.APIKey,
		Timeout:   cfg.Weather.Timeout,
		UserAgent: "skycast/1.0",
	})
	weatherSvc := weather.NewService(weather.ServiceConfig{
		Fetcher: weatherClient,
		Logger:  logger,
	})

	registrar := notify.NewCronRegistrar(notify.CronRegistrarConfig{
		Sink:           notify.NewLogSink(logger),
		Logger:         logger,
		SupportsWeekly: cfg.Tracking.WeeklyCron,
	})
	defer registrar.Stop()

	tracker := location.NewPollTracker(location.PollTrackerConfig{
		Provider: location.StaticProvider{Coords: types.Coordinates{
			Lat: cfg.Tracking.Lat,
			Lon: cfg.Tracking.Lon,
		}},
		Interval:      cfg.Tracking.PollInterval,
		MinDistanceKm: cfg.Tracking.MinDistanceKm,
		Logger:        logger,
	})
	defer tracker.Stop()

	manager := notify.NewManager(notify.ManagerConfig{
		Store:       store,
		Settings:    settingsSvc,
		Registrar:   registrar,
		Sink:        notify.NewLogSink(logger),
		Tracker:     tracker,
		Permissions: notify.StaticGate{Granted: true},
		Forecaster:  weatherSvc,
		Classify:    analyzer.ClassifyAlert,
		Logger:      logger,
	})

	// Settings mutations re-derive the notification schedules.
	settingsSvc.SetChangeHook(manager.Resync)
	manager.Reconcile(context.Background())

	srv, err := core.NewServer(cfg, logger)
	if err != nil {
		return fmt.Errorf("creating server: %w", err)
	}

	weatherHandler := handlers.NewWeatherHandler(weatherSvc, settingsSvc, suggest.NewEngine(nil), logger)
	settingsHandler := handlers.NewSettingsHandler(settingsSvc, srv.Validator, logger)
	notificationsHandler := handlers.NewNotificationsHandler(manager, logger)

	srv.V1RouteRegistrars = append(srv.V1RouteRegistrars,
		weatherHandler.RegisterRoutes,
		settingsHandler.RegisterRoutes,
		notificationsHandler.RegisterRoutes,
	)
	srv.MountRoutes()

	return runHTTPServer(srv, cfg, logger)
}

// runHTTPServer starts the server in standard HTTP mode with graceful shutdown.
func runHTTPServer(srv *core.Server, cfg *config.Config, logger *slog.Logger) error {
	addr := fmt.Sprintf(":%d", cfg.Port)

	httpServer := &http.Server{
		Addr:              addr,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("HTTP server listening", "addr", addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-shutdown:
		logger.Info("shutdown signal received", "signal", sig.String())
	case err := <-serverErr:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
	}

	logger.Info("initiating graceful shutdown")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(ctx); err != nil {
		logger.Error("HTTP server shutdown error", "error", err)
	}
	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	logger.Info("server stopped cleanly")
	return nil
}

// newLogger creates a structured slog.Logger configured for the given log level.
func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "info":
		lvl = slog.LevelInfo
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}

	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: lvl})
	return slog.New(handler)
}
