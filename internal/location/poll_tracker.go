package location

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"skycast/internal/types"
)

// PollTracker implements Tracker by polling a Provider on a fixed interval.
// The handler fires on the first successful poll and afterwards only when
// the position has moved at least MinDistanceKm, so a stationary device does
// not trigger repeated downstream work.
type PollTracker struct {
	provider Provider
	interval time.Duration
	minDist  float64
	logger   *slog.Logger

	mu      sync.Mutex
	cancel  context.CancelFunc
	last    *types.Coordinates
	running bool
}

// PollTrackerConfig holds the configuration for creating a PollTracker.
type PollTrackerConfig struct {
	Provider      Provider
	Interval      time.Duration
	MinDistanceKm float64
	Logger        *slog.Logger
}

// NewPollTracker creates a PollTracker. Zero interval and distance fall back
// to the package defaults.
func NewPollTracker(cfg PollTrackerConfig) *PollTracker {
	interval := cfg.Interval
	if interval == 0 {
		interval = DefaultPollInterval
	}
	minDist := cfg.MinDistanceKm
	if minDist == 0 {
		minDist = DefaultMinDistanceKm
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &PollTracker{
		provider: cfg.Provider,
		interval: interval,
		minDist:  minDist,
		logger:   logger,
	}
}

// Start begins polling in a background goroutine. The first poll runs
// immediately. Starting an already-running tracker is a no-op.
func (t *PollTracker) Start(ctx context.Context, handler UpdateHandler) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.running {
		return nil
	}

	runCtx, cancel := context.WithCancel(ctx)
	t.cancel = cancel
	t.running = true
	t.last = nil

	go t.loop(runCtx, handler)
	return nil
}

func (t *PollTracker) loop(ctx context.Context, handler UpdateHandler) {
	t.poll(ctx, handler)

	ticker := time.NewTicker(t.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			t.poll(ctx, handler)
		}
	}
}

func (t *PollTracker) poll(ctx context.Context, handler UpdateHandler) {
	coords, err := t.provider.Current(ctx)
	if err != nil {
		t.logger.WarnContext(ctx, "position poll failed", "error", err)
		return
	}

	t.mu.Lock()
	moved := t.last == nil || DistanceKm(*t.last, coords) >= t.minDist
	if moved {
		t.last = &coords
	}
	t.mu.Unlock()

	if moved {
		handler(ctx, coords)
	}
}

// Stop cancels the polling goroutine.
func (t *PollTracker) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.running {
		return
	}
	t.cancel()
	t.cancel = nil
	t.running = false
}

// Running reports whether the tracker is active.
func (t *PollTracker) Running() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.running
}
