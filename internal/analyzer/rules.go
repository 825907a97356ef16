// Package analyzer derives alerts, descriptions, and activity verdicts from
// a current weather reading. Everything here is a pure, total function of
// the snapshot: no state, no user preferences, no errors.
//
// Classification is an ordered cascade with first-match-wins semantics. The
// order is load-bearing: bands overlap conceptually (45°C satisfies both the
// extreme-heat and heat-advisory predicates) and only evaluation order
// disambiguates. Rules are kept as an explicit ordered list of
// (predicate, result) pairs so the ordering is visible and testable
// rule-by-rule.
package analyzer

import (
	"strings"

	"skycast/internal/types"
)

// alertRule pairs a predicate over the snapshot with the alert it produces.
type alertRule struct {
	name  string
	match func(c *types.CurrentWeather, condition string) bool
	alert types.WeatherAlert
}

// alertRules is the full cascade: the severe tier followed by the caution
// tier. Evaluation stops at the first matching rule, so a severe match can
// never fall through into a caution band.
var alertRules = []alertRule{
	// Severe tier.
	{
		name:  "extreme_heat",
		match: func(c *types.CurrentWeather, _ string) bool { return c.TempC > 40 },
		alert: types.WeatherAlert{
			Level:   types.AlertSevere,
			Message: "Extreme Heat Warning! Stay hydrated and avoid outdoor activities.",
			Icon:    "alert-triangle",
			Color:   types.ColorSevere,
		},
	},
	{
		name:  "extreme_cold",
		match: func(c *types.CurrentWeather, _ string) bool { return c.TempC < -10 },
		alert: types.WeatherAlert{
			Level:   types.AlertSevere,
			Message: "Extreme Cold Warning! Bundle up and limit time outdoors.",
			Icon:    "alert-triangle",
			Color:   types.ColorSevere,
		},
	},
	{
		name:  "high_wind",
		match: func(c *types.CurrentWeather, _ string) bool { return c.WindKph > 50 },
		alert: types.WeatherAlert{
			Level:   types.AlertSevere,
			Message: "High Wind Warning! Secure loose objects and avoid travel.",
			Icon:    "wind",
			Color:   types.ColorSevere,
		},
	},
	{
		name: "severe_weather",
		match: func(_ *types.CurrentWeather, condition string) bool {
			return strings.Contains(condition, "storm") ||
				strings.Contains(condition, "thunder") ||
				strings.Contains(condition, "hurricane")
		},
		alert: types.WeatherAlert{
			Level:   types.AlertSevere,
			Message: "Severe Weather Alert! Seek shelter immediately.",
			Icon:    "cloud-lightning",
			Color:   types.ColorSevere,
		},
	},
	{
		name:  "low_visibility",
		match: func(c *types.CurrentWeather, _ string) bool { return c.VisKm < 1 },
		alert: types.WeatherAlert{
			Level:   types.AlertSevere,
			Message: "Low Visibility Warning! Drive with extreme caution.",
			Icon:    "eye-off",
			Color:   types.ColorSevere,
		},
	},

	// Caution tier. Only reachable when no severe rule matched.
	{
		name:  "heat_advisory",
		match: func(c *types.CurrentWeather, _ string) bool { return c.TempC > 32 && c.TempC <= 40 },
		alert: types.WeatherAlert{
			Level:   types.AlertCaution,
			Message: "Heat Advisory. Stay cool and drink plenty of water.",
			Icon:    "thermometer-sun",
			Color:   types.ColorCaution,
		},
	},
	{
		name:  "cold_advisory",
		match: func(c *types.CurrentWeather, _ string) bool { return c.TempC < 0 && c.TempC >= -10 },
		alert: types.WeatherAlert{
			Level:   types.AlertCaution,
			Message: "Cold Advisory. Dress warmly for outdoor activities.",
			Icon:    "thermometer-snowflake",
			Color:   types.ColorCaution,
		},
	},
	{
		name:  "windy",
		match: func(c *types.CurrentWeather, _ string) bool { return c.WindKph > 30 && c.WindKph <= 50 },
		alert: types.WeatherAlert{
			Level:   types.AlertCaution,
			Message: "Windy Conditions. Secure loose items outdoors.",
			Icon:    "wind",
			Color:   types.ColorCaution,
		},
	},
	{
		name: "heavy_rain",
		match: func(_ *types.CurrentWeather, condition string) bool {
			return strings.Contains(condition, "rain") && !strings.Contains(condition, "light")
		},
		alert: types.WeatherAlert{
			Level:   types.AlertCaution,
			Message: "Heavy Rain Expected. Carry an umbrella and drive carefully.",
			Icon:    "cloud-rain",
			Color:   types.ColorCaution,
		},
	},
	{
		name: "snow_advisory",
		match: func(_ *types.CurrentWeather, condition string) bool {
			return strings.Contains(condition, "snow") && !strings.Contains(condition, "light")
		},
		alert: types.WeatherAlert{
			Level:   types.AlertCaution,
			Message: "Snow Advisory. Roads may be slippery.",
			Icon:    "cloud-snow",
			Color:   types.ColorCaution,
		},
	},
	{
		name:  "reduced_visibility",
		match: func(c *types.CurrentWeather, _ string) bool { return c.VisKm >= 1 && c.VisKm < 3 },
		alert: types.WeatherAlert{
			Level:   types.AlertCaution,
			Message: "Reduced Visibility. Drive with caution.",
			Icon:    "eye",
			Color:   types.ColorCaution,
		},
	},
	{
		name:  "high_uv",
		match: func(c *types.CurrentWeather, _ string) bool { return c.UV >= 8 },
		alert: types.WeatherAlert{
			Level:   types.AlertCaution,
			Message: "High UV Index. Wear sunscreen and protective clothing.",
			Icon:    "sun",
			Color:   types.ColorCaution,
		},
	},
}

// ClassifyAlert evaluates the rule cascade against the reading and returns
// the first matching alert, or nil when conditions are perfect.
func ClassifyAlert(current *types.CurrentWeather) *types.WeatherAlert {
	if current == nil {
		return nil
	}
	condition := strings.ToLower(current.Condition.Text)
	for _, rule := range alertRules {
		if rule.match(current, condition) {
			alert := rule.alert
			return &alert
		}
	}
	return nil
}
