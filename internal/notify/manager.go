package notify

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"skycast/internal/location"
	"skycast/internal/types"
	"skycast/internal/weather"
)

// Status is the notification subsystem state.
type Status string

const (
	// StatusDisabled means no schedules and no tracking.
	StatusDisabled Status = "disabled"
	// StatusEnabled means schedules are active and tracking is running.
	StatusEnabled Status = "enabled"
	// StatusEnabledNoTracking means schedules are active but background
	// tracking could not be started; recurring notifications still fire.
	StatusEnabledNoTracking Status = "enabled_no_tracking"
)

// Blob store keys owned by the manager.
const (
	enabledFlagKey = "notifications_enabled"
	lastCheckKey   = "last_weather_check"
)

// checkInterval is the minimum spacing between background weather checks.
// Position updates inside the window are ignored.
const checkInterval = 30 * time.Minute

// Cron specs for the recurring schedules: daily at 08:00, tomorrow's
// outlook at 19:00, weekly on Sunday at 16:00.
const (
	dailySpec    = "0 8 * * *"
	tomorrowSpec = "0 19 * * *"
	weeklySpec   = "0 16 * * 0"
)

// PermissionGate models the user-facing notification permission prompt.
type PermissionGate interface {
	RequestPermission(ctx context.Context) (bool, error)
}

// SettingsSource is the read side of the settings service the manager
// consumes.
type SettingsSource interface {
	Get() types.UserSettings
}

// Forecaster fetches weather for a coordinate pair. *weather.Service
// satisfies it.
type Forecaster interface {
	FetchByCoords(ctx context.Context, lat, lon float64) (*weather.Snapshot, error)
}

// Alerter classifies a reading. Declared as a function so tests can swap in
// canned verdicts.
type Alerter func(current *types.CurrentWeather) *types.WeatherAlert

// Manager is the notification state machine. Enabling requests permission,
// persists the flag, rebuilds schedules, and starts background tracking;
// tracking failure degrades to StatusEnabledNoTracking instead of rolling
// back. Disabling tears everything down. Every step past the permission
// prompt is best-effort.
type Manager struct {
	store       types.BlobStore
	settings    SettingsSource
	registrar   Registrar
	sink        Sink
	tracker     location.Tracker
	permissions PermissionGate
	forecaster  Forecaster
	classify    Alerter
	copy        *CopyBuilder
	clock       types.Clock
	logger      *slog.Logger

	mu     sync.Mutex
	status Status
}

// ManagerConfig holds the configuration for creating a Manager.
type ManagerConfig struct {
	Store       types.BlobStore
	Settings    SettingsSource
	Registrar   Registrar
	Sink        Sink
	Tracker     location.Tracker
	Permissions PermissionGate
	Forecaster  Forecaster
	Classify    Alerter
	Copy        *CopyBuilder
	Clock       types.Clock
	Logger      *slog.Logger
}

// NewManager creates a Manager in the disabled state. Call Reconcile at
// startup to restore persisted state.
func NewManager(cfg ManagerConfig) *Manager {
	clock := cfg.Clock
	if clock == nil {
		clock = types.RealClock{}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	copyBuilder := cfg.Copy
	if copyBuilder == nil {
		copyBuilder = NewCopyBuilder(nil)
	}
	return &Manager{
		store:       cfg.Store,
		settings:    cfg.Settings,
		registrar:   cfg.Registrar,
		sink:        cfg.Sink,
		tracker:     cfg.Tracker,
		permissions: cfg.Permissions,
		forecaster:  cfg.Forecaster,
		classify:    cfg.Classify,
		copy:        copyBuilder,
		clock:       clock,
		logger:      logger,
		status:      StatusDisabled,
	}
}

// Status returns the current state.
func (m *Manager) Status() Status {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.status
}

// Enable runs the full enable flow: permission prompt, flag persistence,
// schedule sync, then tracking. A denied prompt returns false without an
// error; the caller surfaces it as a permission problem, not a failure.
func (m *Manager) Enable(ctx context.Context) (bool, error) {
	granted, err := m.permissions.RequestPermission(ctx)
	if err != nil {
		return false, types.NewAppError(types.ErrCodePermissionNotifications,
			"requesting notification permission", err)
	}
	if !granted {
		m.logger.InfoContext(ctx, "notification permission denied")
		return false, nil
	}

	if err := m.store.Set(enabledFlagKey, []byte("true")); err != nil {
		return false, err
	}

	m.mu.Lock()
	m.status = StatusEnabled
	m.mu.Unlock()

	m.Resync(ctx)

	if err := m.tracker.Start(ctx, m.HandleLocation); err != nil {
		m.logger.WarnContext(ctx, "background tracking unavailable, schedules only", "error", err)
		m.mu.Lock()
		m.status = StatusEnabledNoTracking
		m.mu.Unlock()
	}

	return true, nil
}

// Disable stops tracking, cancels all schedules, and persists the flag.
func (m *Manager) Disable(ctx context.Context) error {
	m.tracker.Stop()
	m.registrar.CancelAll()

	if err := m.store.Set(enabledFlagKey, []byte("false")); err != nil {
		return err
	}

	m.mu.Lock()
	m.status = StatusDisabled
	m.mu.Unlock()

	m.logger.InfoContext(ctx, "notifications disabled")
	return nil
}

// Reconcile restores the subsystem at startup. The tracker registration is
// the source of truth: a tracker already running means notifications were
// enabled, whatever the persisted flag says. The flag is consulted only when
// no registration is observable.
func (m *Manager) Reconcile(ctx context.Context) {
	if m.tracker.Running() {
		m.mu.Lock()
		m.status = StatusEnabled
		m.mu.Unlock()
		m.Resync(ctx)
		return
	}

	data, found, err := m.store.Get(enabledFlagKey)
	if err != nil {
		m.logger.WarnContext(ctx, "reading notifications flag", "error", err)
		return
	}
	if !found || string(data) != "true" {
		return
	}

	m.mu.Lock()
	m.status = StatusEnabled
	m.mu.Unlock()

	m.Resync(ctx)

	if err := m.tracker.Start(ctx, m.HandleLocation); err != nil {
		m.logger.WarnContext(ctx, "restoring background tracking failed", "error", err)
		m.mu.Lock()
		m.status = StatusEnabledNoTracking
		m.mu.Unlock()
	}
}

// Resync rebuilds the recurring schedules from the current preferences:
// cancel everything, then register each enabled schedule. Weekly is skipped
// when the registrar cannot express weekday triggers. Resync with
// notifications disabled only cancels. Safe to call on every settings
// change; the derived schedule set is a pure function of the preferences.
func (m *Manager) Resync(ctx context.Context) {
	m.registrar.CancelAll()

	m.mu.Lock()
	enabled := m.status != StatusDisabled
	m.mu.Unlock()
	if !enabled {
		return
	}

	prefs := m.settings.Get().NotificationPrefs

	if prefs.DailyForecast {
		if err := m.registrar.Schedule(types.NotifyDailyForecast, dailySpec, dailyNotification); err != nil {
			m.logger.WarnContext(ctx, "scheduling daily forecast failed", "error", err)
		}
	}
	if prefs.TomorrowForecast {
		if err := m.registrar.Schedule(types.NotifyTomorrowForecast, tomorrowSpec, tomorrowNotification); err != nil {
			m.logger.WarnContext(ctx, "scheduling tomorrow outlook failed", "error", err)
		}
	}
	if prefs.WeeklyForecast {
		if !m.registrar.SupportsWeekly() {
			m.logger.InfoContext(ctx, "weekly schedule unsupported on this platform, skipping")
		} else if err := m.registrar.Schedule(types.NotifyWeeklyForecast, weeklySpec, weeklyNotification); err != nil {
			m.logger.WarnContext(ctx, "scheduling weekly outlook failed", "error", err)
		}
	}
}

// HandleLocation is the background position handler. At most one weather
// check runs per 30-minute window regardless of how often the position
// changes; the window survives restarts because the last check time is
// persisted. Every failure is swallowed after logging, a background check
// must never crash the daemon.
func (m *Manager) HandleLocation(ctx context.Context, coords types.Coordinates) {
	now := m.clock.Now()

	if last, ok := m.lastCheck(); ok && now.Sub(last) <= checkInterval {
		return
	}

	m.checkWeatherAndNotify(ctx, coords)

	if err := m.store.Set(lastCheckKey, []byte(now.Format(time.RFC3339))); err != nil {
		m.logger.WarnContext(ctx, "persisting last check time", "error", err)
	}
}

func (m *Manager) lastCheck() (time.Time, bool) {
	data, found, err := m.store.Get(lastCheckKey)
	if err != nil || !found {
		return time.Time{}, false
	}
	t, err := time.Parse(time.RFC3339, string(data))
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

func (m *Manager) checkWeatherAndNotify(ctx context.Context, coords types.Coordinates) {
	snap, err := m.forecaster.FetchByCoords(ctx, coords.Lat, coords.Lon)
	if err != nil {
		m.logger.WarnContext(ctx, "background weather check failed", "error", err)
		return
	}

	current := &snap.Data.Current

	m.refreshScheduleCopy(ctx, current)

	alert := m.classify(current)
	if alert == nil {
		return
	}

	prefs := m.settings.Get().NotificationPrefs
	locationName := snap.Data.Location.Name

	var n Notification
	switch {
	case alert.Level == types.AlertSevere && prefs.SevereWeather:
		n = severeAlertNotification(locationName, alert)
	case alert.Level == types.AlertCaution && prefs.RainSnowAlerts:
		condition := strings.ToLower(current.Condition.Text)
		if !strings.Contains(condition, "rain") && !strings.Contains(condition, "snow") {
			return
		}
		n = precipitationAlertNotification(locationName, current)
	default:
		return
	}

	if err := m.sink.Deliver(ctx, n); err != nil {
		m.logger.WarnContext(ctx, "alert notification delivery failed",
			"location", locationName, "error", err)
	}
}

// refreshScheduleCopy rewrites the daily and tomorrow schedule bodies with
// conversational copy built from a fresh reading. The schedules are first
// registered with static copy at resync time, before any reading exists;
// each successful background check upgrades them. Schedule replaces by kind,
// so the set and the cron specs never change here.
func (m *Manager) refreshScheduleCopy(ctx context.Context, current *types.CurrentWeather) {
	m.mu.Lock()
	enabled := m.status != StatusDisabled
	m.mu.Unlock()
	if !enabled {
		return
	}

	prefs := m.settings.Get().NotificationPrefs

	if prefs.DailyForecast {
		n := Notification{
			Title: dailyNotification.Title,
			Body:  m.copy.WeatherMessage(current, MessageDaily),
		}
		if err := m.registrar.Schedule(types.NotifyDailyForecast, dailySpec, n); err != nil {
			m.logger.WarnContext(ctx, "refreshing daily forecast copy failed", "error", err)
		}
	}
	if prefs.TomorrowForecast {
		n := Notification{
			Title: tomorrowNotification.Title,
			Body:  m.copy.WeatherMessage(current, MessageTomorrow),
		}
		if err := m.registrar.Schedule(types.NotifyTomorrowForecast, tomorrowSpec, n); err != nil {
			m.logger.WarnContext(ctx, "refreshing tomorrow outlook copy failed", "error", err)
		}
	}
}
