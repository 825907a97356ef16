// Package main is the entry point for alertd, the headless weather alert
// daemon. It shares the blob store with the API server, enables the
// notification pipeline at startup, and keeps the position tracker and cron
// schedules running until terminated.
//
// Settings are re-read from the store periodically so preference changes
// made through the API process are picked up without a restart.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"skycast/internal/analyzer"
	"skycast/internal/config"
	"skycast/internal/location"
	"skycast/internal/notify"
	"skycast/internal/settings"
	"skycast/internal/storage"
	"skycast/internal/types"
	"skycast/internal/weather"
)

// settingsReloadInterval is how often persisted settings are re-read to pick
// up changes written by the API process.
const settingsReloadInterval = 5 * time.Minute

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}

	logger := newLogger(cfg.LogLevel)
	logger.Info("alertd starting",
		"environment", cfg.AppEnv,
		"storage_path", cfg.Storage.Path,
		"poll_interval", cfg.Tracking.PollInterval.String(),
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
		UserAgent: "skycast-alertd/1.0",
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
	settingsSvc.SetChangeHook(manager.Resync)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// The daemon's purpose is delivering alerts; running it implies consent.
	enabled, err := manager.Enable(ctx)
	if err != nil {
		return fmt.Errorf("enabling notifications: %w", err)
	}
	if !enabled {
		return fmt.Errorf("notification permission denied")
	}
	logger.Info("notification pipeline enabled", "status", string(manager.Status()))

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		ticker := time.NewTicker(settingsReloadInterval)
		defer ticker.Stop()
		for {
			select {
			case <-gCtx.Done():
				return gCtx.Err()
			case <-ticker.C:
				if err := settingsSvc.Load(gCtx); err != nil {
					logger.Warn("settings reload failed", "error", err)
					continue
				}
				manager.Resync(gCtx)
			}
		}
	})

	g.Go(func() error {
		<-gCtx.Done()
		logger.Info("shutdown signal received")
		tracker.Stop()
		registrar.Stop()
		return gCtx.Err()
	})

	if err := g.Wait(); err != nil && ctx.Err() == nil {
		return err
	}
	logger.Info("alertd stopped cleanly")
	return nil
}

func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: lvl}))
}
