// Package notify owns the notification lifecycle: the enable/disable state
// machine, recurring schedule synchronization, and the background weather
// check that turns a position update into an alert notification.
package notify

import (
	"context"
	"log/slog"
	"sync"

	"github.com/robfig/cron/v3"

	"skycast/internal/types"
)

// Notification is one deliverable message.
type Notification struct {
	Title string         `json:"title"`
	Body  string         `json:"body"`
	Data  map[string]any `json:"data,omitempty"`
}

// Sink delivers a notification to the user right now. Implementations push
// to a device channel, a webhook, or a log.
type Sink interface {
	Deliver(ctx context.Context, n Notification) error
}

// Registrar owns recurring notification schedules. Platforms without
// weekday-based triggers report SupportsWeekly false and the weekly
// schedule is skipped rather than failing the whole sync.
type Registrar interface {
	Schedule(kind types.NotificationKind, spec string, n Notification) error
	CancelAll()
	Scheduled() []types.NotificationKind
	SupportsWeekly() bool
}

// CronRegistrar implements Registrar on a cron runner, delivering fired
// schedules through a Sink.
type CronRegistrar struct {
	sink   Sink
	logger *slog.Logger
	weekly bool

	mu      sync.Mutex
	runner  *cron.Cron
	entries map[types.NotificationKind]cron.EntryID
}

// CronRegistrarConfig holds the configuration for creating a CronRegistrar.
type CronRegistrarConfig struct {
	Sink           Sink
	Logger         *slog.Logger
	SupportsWeekly bool
}

// NewCronRegistrar creates and starts a CronRegistrar.
func NewCronRegistrar(cfg CronRegistrarConfig) *CronRegistrar {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	runner := cron.New()
	runner.Start()
	return &CronRegistrar{
		sink:    cfg.Sink,
		logger:  logger,
		weekly:  cfg.SupportsWeekly,
		runner:  runner,
		entries: map[types.NotificationKind]cron.EntryID{},
	}
}

// Schedule registers a recurring notification under the given cron spec,
// replacing any existing schedule for the same kind.
func (r *CronRegistrar) Schedule(kind types.NotificationKind, spec string, n Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if id, ok := r.entries[kind]; ok {
		r.runner.Remove(id)
	}

	id, err := r.runner.AddFunc(spec, func() {
		ctx := context.Background()
		if err := r.sink.Deliver(ctx, n); err != nil {
			r.logger.WarnContext(ctx, "scheduled notification delivery failed",
				"kind", string(kind), "error", err)
		}
	})
	if err != nil {
		return err
	}
	r.entries[kind] = id
	return nil
}

// CancelAll removes every registered schedule.
func (r *CronRegistrar) CancelAll() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for kind, id := range r.entries {
		r.runner.Remove(id)
		delete(r.entries, kind)
	}
}

// Scheduled returns the kinds with an active schedule.
func (r *CronRegistrar) Scheduled() []types.NotificationKind {
	r.mu.Lock()
	defer r.mu.Unlock()
	kinds := make([]types.NotificationKind, 0, len(r.entries))
	for kind := range r.entries {
		kinds = append(kinds, kind)
	}
	return kinds
}

// SupportsWeekly reports whether weekday-based schedules are available.
func (r *CronRegistrar) SupportsWeekly() bool { return r.weekly }

// Stop halts the cron runner. Pending fires complete.
func (r *CronRegistrar) Stop() {
	r.runner.Stop()
}
