// Package settings owns the user preference aggregate: construct with
// defaults, load-and-merge from the blob store, mutate through setters,
// persist the whole object on every change. The service is explicitly
// constructed and injected into its consumers; there is no ambient global.
//
// Every mutation also triggers the notification resync hook, even mutations
// unrelated to notifications. The over-triggering is deliberate: schedules
// are always rebuilt from the single persisted source of truth, so they can
// never drift from it.
package settings

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	"skycast/internal/types"
)

// BlobKey is the blob store key the settings aggregate is persisted under.
const BlobKey = "user_settings"

// Defaults returns the hard-coded first-run settings.
func Defaults() types.UserSettings {
	return types.UserSettings{
		TemperatureUnit: types.UnitCelsius,
		WidgetVisibility: map[types.WidgetKey]bool{
			// Top four most wanted tiles on by default.
			types.WidgetFeelsLike:     true,
			types.WidgetWind:          true,
			types.WidgetHumidity:      true,
			types.WidgetUV:            true,
			types.WidgetPressure:      false,
			types.WidgetVisibility:    false,
			types.WidgetPrecipitation: false,
			types.WidgetAQI:           false,
			types.WidgetDewPoint:      false,
			types.WidgetSunset:        false,
			types.WidgetSunrise:       false,
			types.WidgetMoonPhase:     false,
			types.WidgetCloudiness:    false,
		},
		ActivityPreferences: map[types.Activity]bool{
			types.ActivityDriving:    true,
			types.ActivityRunning:    true,
			types.ActivityHiking:     false,
			types.ActivityCycling:    false,
			types.ActivityFishing:    false,
			types.ActivityGardening:  false,
			types.ActivityStargazing: false,
			types.ActivityBBQ:        false,
		},
		NotificationPrefs: types.NotificationPreferences{
			DailyForecast:    true,
			TomorrowForecast: true,
			WeeklyForecast:   true,
			SevereWeather:    true,
			RainSnowAlerts:   true,
		},
		ForecastInterval: types.IntervalOneHour,
		SavedLocations:   []types.SavedLocation{},
		NewsEnabled:      true,
	}
}

// ChangeHook is invoked after every successful persist. The notification
// manager registers its resync here.
type ChangeHook func(ctx context.Context)

// Service holds the current settings snapshot and coordinates persistence.
type Service struct {
	store  types.BlobStore
	logger *slog.Logger

	mu       sync.RWMutex
	current  types.UserSettings
	onChange ChangeHook
}

// ServiceConfig holds the configuration for creating a settings Service.
type ServiceConfig struct {
	Store  types.BlobStore
	Logger *slog.Logger
}

// NewService creates a Service seeded with defaults. Call Load to merge in
// any persisted state before serving reads.
func NewService(cfg ServiceConfig) *Service {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		store:   cfg.Store,
		logger:  logger,
		current: Defaults(),
	}
}

// SetChangeHook registers the hook invoked after every persisted mutation.
// Registered after construction to break the cycle with the notification
// manager, which both consumes settings and reacts to their changes.
func (s *Service) SetChangeHook(hook ChangeHook) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onChange = hook
}

// Load reads the persisted settings blob and merges it over the defaults.
// Fields introduced by an app update keep their default values; the fixed
// widget/activity key sets are always fully populated afterwards. A missing
// blob leaves the defaults in place. A corrupt blob is logged and discarded
// rather than failing startup.
func (s *Service) Load(ctx context.Context) error {
	data, found, err := s.store.Get(BlobKey)
	if err != nil {
		return fmt.Errorf("loading settings: %w", err)
	}
	if !found {
		s.logger.InfoContext(ctx, "no persisted settings, using defaults")
		return nil
	}

	var persisted types.UserSettings
	if err := json.Unmarshal(data, &persisted); err != nil {
		s.logger.WarnContext(ctx, "discarding corrupt settings blob", "error", err)
		return nil
	}

	merged := mergeWithDefaults(persisted)

	s.mu.Lock()
	s.current = merged
	s.mu.Unlock()

	s.logger.InfoContext(ctx, "settings loaded",
		"saved_locations", len(merged.SavedLocations),
		"unit", string(merged.TemperatureUnit),
	)
	return nil
}

// mergeWithDefaults overlays a persisted aggregate on the defaults so that
// missing keys and zero values introduced by newer builds are backfilled.
func mergeWithDefaults(persisted types.UserSettings) types.UserSettings {
	merged := Defaults()

	if persisted.TemperatureUnit == types.UnitCelsius || persisted.TemperatureUnit == types.UnitFahrenheit {
		merged.TemperatureUnit = persisted.TemperatureUnit
	}
	for _, key := range types.AllWidgetKeys {
		if v, ok := persisted.WidgetVisibility[key]; ok {
			merged.WidgetVisibility[key] = v
		}
	}
	for _, activity := range types.AllActivities {
		if v, ok := persisted.ActivityPreferences[activity]; ok {
			merged.ActivityPreferences[activity] = v
		}
	}
	if persisted.WidgetVisibility != nil || persisted.ActivityPreferences != nil {
		// A persisted blob exists, so boolean aggregates reflect the user's
		// last choices rather than the defaults.
		merged.NotificationPrefs = persisted.NotificationPrefs
		merged.NewsEnabled = persisted.NewsEnabled
	}
	if persisted.ForecastInterval.Valid() {
		merged.ForecastInterval = persisted.ForecastInterval
	}
	if persisted.SavedLocations != nil {
		merged.SavedLocations = persisted.SavedLocations
	}
	merged.AboutContent = persisted.AboutContent

	return merged
}

// Get returns a deep copy of the current settings snapshot.
func (s *Service) Get() types.UserSettings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current.Clone()
}

// mutate applies fn to a copy of the current settings, swaps the copy in as
// the new snapshot, persists it, and fires the change hook. The whole-object
// replacement under the lock is what makes every mutation all-or-nothing.
func (s *Service) mutate(ctx context.Context, fn func(*types.UserSettings)) error {
	s.mu.Lock()
	next := s.current.Clone()
	fn(&next)
	s.current = next
	hook := s.onChange
	s.mu.Unlock()

	data, err := json.Marshal(next)
	if err != nil {
		return fmt.Errorf("encoding settings: %w", err)
	}
	if err := s.store.Set(BlobKey, data); err != nil {
		return fmt.Errorf("persisting settings: %w", err)
	}

	if hook != nil {
		hook(ctx)
	}
	return nil
}

// SetTemperatureUnit updates the unit preference.
func (s *Service) SetTemperatureUnit(ctx context.Context, unit types.TemperatureUnit) error {
	if unit != types.UnitCelsius && unit != types.UnitFahrenheit {
		return types.NewAppError(types.ErrCodeValidationInvalidUnit,
			fmt.Sprintf("unknown temperature unit %q", unit), nil)
	}
	return s.mutate(ctx, func(u *types.UserSettings) {
		u.TemperatureUnit = unit
	})
}

// SetWidgetVisibility toggles a metric tile.
func (s *Service) SetWidgetVisibility(ctx context.Context, key types.WidgetKey, visible bool) error {
	if _, ok := Defaults().WidgetVisibility[key]; !ok {
		return types.NewAppError(types.ErrCodeValidationInvalidWidget,
			fmt.Sprintf("unknown widget %q", key), nil)
	}
	return s.mutate(ctx, func(u *types.UserSettings) {
		u.WidgetVisibility[key] = visible
	})
}

// SetActivityPreference toggles interest in an activity.
func (s *Service) SetActivityPreference(ctx context.Context, activity types.Activity, enabled bool) error {
	if _, ok := Defaults().ActivityPreferences[activity]; !ok {
		return types.NewAppError(types.ErrCodeValidationInvalidActivity,
			fmt.Sprintf("unknown activity %q", activity), nil)
	}
	return s.mutate(ctx, func(u *types.UserSettings) {
		u.ActivityPreferences[activity] = enabled
	})
}

// SetForecastInterval updates the hourly sampling step.
func (s *Service) SetForecastInterval(ctx context.Context, interval types.ForecastInterval) error {
	if !interval.Valid() {
		return types.NewAppError(types.ErrCodeValidationInvalidInterval,
			fmt.Sprintf("forecast interval must be 1, 2 or 3 hours, got %d", interval), nil)
	}
	return s.mutate(ctx, func(u *types.UserSettings) {
		u.ForecastInterval = interval
	})
}

// SetNotificationPreference toggles one notification kind.
func (s *Service) SetNotificationPreference(ctx context.Context, kind types.NotificationKind, enabled bool) error {
	if !kind.Known() {
		return types.NewAppError(types.ErrCodeValidationInvalidPref,
			fmt.Sprintf("unknown notification preference %q", kind), nil)
	}
	return s.mutate(ctx, func(u *types.UserSettings) {
		u.NotificationPrefs = u.NotificationPrefs.Set(kind, enabled)
	})
}

// SetNewsEnabled toggles the news feed.
func (s *Service) SetNewsEnabled(ctx context.Context, enabled bool) error {
	return s.mutate(ctx, func(u *types.UserSettings) {
		u.NewsEnabled = enabled
	})
}

// SetAboutContent caches the generated about text.
func (s *Service) SetAboutContent(ctx context.Context, content string) error {
	return s.mutate(ctx, func(u *types.UserSettings) {
		u.AboutContent = content
	})
}

// AddSavedLocation appends a location. Duplicate detection is the caller's
// responsibility (see IsLocationSaved); the store itself stays permissive.
func (s *Service) AddSavedLocation(ctx context.Context, loc types.SavedLocation) error {
	return s.mutate(ctx, func(u *types.UserSettings) {
		u.SavedLocations = append(u.SavedLocations, loc)
	})
}

// RemoveSavedLocation deletes the location with the given id.
func (s *Service) RemoveSavedLocation(ctx context.Context, id string) error {
	found := false
	err := s.mutate(ctx, func(u *types.UserSettings) {
		kept := u.SavedLocations[:0]
		for _, loc := range u.SavedLocations {
			if loc.ID == id {
				found = true
				continue
			}
			kept = append(kept, loc)
		}
		u.SavedLocations = kept
	})
	if err != nil {
		return err
	}
	if !found {
		return types.NewAppError(types.ErrCodeNotFoundLocation,
			fmt.Sprintf("no saved location with id %q", id), nil)
	}
	return nil
}

// IsLocationSaved reports whether a location with the same name or nearby
// coordinates (~1 km) is already saved.
func (s *Service) IsLocationSaved(name string, lat, lon float64) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, loc := range s.current.SavedLocations {
		if loc.Matches(name, lat, lon) {
			return true
		}
	}
	return false
}

// Reset restores the hard-coded defaults and persists them.
func (s *Service) Reset(ctx context.Context) error {
	return s.mutate(ctx, func(u *types.UserSettings) {
		*u = Defaults()
	})
}
