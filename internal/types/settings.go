package types

import "math"

// savedLocationTolerance is the coordinate distance (in degrees, roughly
// 1 km) under which two saved locations are considered the same place.
const savedLocationTolerance = 0.01

// SavedLocation is a user-pinned place. The ID is generation-time unique
// (derived from the creation instant by the caller); the store itself does
// not enforce uniqueness.
type SavedLocation struct {
	ID      string  `json:"id"`
	Name    string  `json:"name"`
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
	Country string  `json:"country"`
}

// Matches reports whether the location refers to the same place as the given
// name and coordinates: an exact name match or coordinates within about 1 km.
func (l SavedLocation) Matches(name string, lat, lon float64) bool {
	if l.Name == name {
		return true
	}
	return math.Abs(l.Lat-lat) < savedLocationTolerance &&
		math.Abs(l.Lon-lon) < savedLocationTolerance
}

// NotificationPreferences holds the independent notification toggles. The
// first three drive recurring schedules; the last two gate the background
// location check.
type NotificationPreferences struct {
	DailyForecast    bool `json:"dailyForecast"`
	TomorrowForecast bool `json:"tomorrowForecast"`
	WeeklyForecast   bool `json:"weeklyForecast"`
	SevereWeather    bool `json:"severeWeather"`
	RainSnowAlerts   bool `json:"rainSnowAlerts"`
}

// Get returns the toggle value for the named preference kind.
func (p NotificationPreferences) Get(kind NotificationKind) bool {
	switch kind {
	case NotifyDailyForecast:
		return p.DailyForecast
	case NotifyTomorrowForecast:
		return p.TomorrowForecast
	case NotifyWeeklyForecast:
		return p.WeeklyForecast
	case NotifySevereWeather:
		return p.SevereWeather
	case NotifyRainSnowAlerts:
		return p.RainSnowAlerts
	}
	return false
}

// Set returns a copy of the preferences with the named kind set.
func (p NotificationPreferences) Set(kind NotificationKind, enabled bool) NotificationPreferences {
	switch kind {
	case NotifyDailyForecast:
		p.DailyForecast = enabled
	case NotifyTomorrowForecast:
		p.TomorrowForecast = enabled
	case NotifyWeeklyForecast:
		p.WeeklyForecast = enabled
	case NotifySevereWeather:
		p.SevereWeather = enabled
	case NotifyRainSnowAlerts:
		p.RainSnowAlerts = enabled
	}
	return p
}

// Known reports whether kind is one of the fixed notification preferences.
func (k NotificationKind) Known() bool {
	for _, known := range AllNotificationKinds {
		if k == known {
			return true
		}
	}
	return false
}

// UserSettings is the persisted aggregate of user preferences. Mutations go
// through the settings service, which replaces the whole object atomically
// and persists it on every change.
type UserSettings struct {
	TemperatureUnit     TemperatureUnit         `json:"temperatureUnit"`
	WidgetVisibility    map[WidgetKey]bool      `json:"widgetVisibility"`
	ActivityPreferences map[Activity]bool       `json:"activityPreferences"`
	NotificationPrefs   NotificationPreferences `json:"notificationPreferences"`
	ForecastInterval    ForecastInterval        `json:"forecastInterval"`
	SavedLocations      []SavedLocation         `json:"savedLocations"`
	NewsEnabled         bool                    `json:"newsEnabled"`
	AboutContent        string                  `json:"aboutContent,omitempty"`
}

// Clone returns a deep copy so callers can never mutate the service's
// current snapshot through a returned value.
func (s UserSettings) Clone() UserSettings {
	out := s
	out.WidgetVisibility = make(map[WidgetKey]bool, len(s.WidgetVisibility))
	for k, v := range s.WidgetVisibility {
		out.WidgetVisibility[k] = v
	}
	out.ActivityPreferences = make(map[Activity]bool, len(s.ActivityPreferences))
	for k, v := range s.ActivityPreferences {
		out.ActivityPreferences[k] = v
	}
	out.SavedLocations = make([]SavedLocation, len(s.SavedLocations))
	copy(out.SavedLocations, s.SavedLocations)
	return out
}
