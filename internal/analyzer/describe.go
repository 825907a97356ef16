package analyzer

import (
	"strings"

	"skycast/internal/types"
)

// Describe generates the primary/secondary description pair for a reading.
//
// The primary label is a fixed partition of Celsius temperature, inclusive
// at the lower bound of each band: [30,∞) Hot, [20,30) Warm, [10,20) Mild,
// [0,10) Cool, below zero Cold.
//
// The secondary line is an ordered cascade: the feels-like delta is checked
// before the comfort-range rule, so "feels warmer/colder" always wins over
// "perfect weather" when both apply.
func Describe(current *types.CurrentWeather) types.WeatherDescription {
	if current == nil {
		return types.WeatherDescription{}
	}

	temp := current.TempC
	condition := strings.ToLower(current.Condition.Text)
	tempDiff := current.FeelsLikeC - temp

	var primary string
	switch {
	case temp >= 30:
		primary = "Hot"
	case temp >= 20:
		primary = "Warm"
	case temp >= 10:
		primary = "Mild"
	case temp >= 0:
		primary = "Cool"
	default:
		primary = "Cold"
	}

	var secondary string
	switch {
	case tempDiff > 3:
		secondary = "Feels warmer than actual temperature"
	case tempDiff < -3:
		secondary = "Feels colder than actual temperature"
	case temp >= 18 && temp <= 25 && !strings.Contains(condition, "rain"):
		secondary = "Perfect weather for outdoor activities"
	case strings.Contains(condition, "clear") || strings.Contains(condition, "sunny"):
		secondary = "Clear skies and pleasant conditions"
	case strings.Contains(condition, "rain"):
		secondary = "Don't forget your umbrella"
	case strings.Contains(condition, "snow"):
		secondary = "Bundle up and stay warm"
	case strings.Contains(condition, "cloud"):
		secondary = "Overcast but comfortable"
	default:
		secondary = "Check conditions before heading out"
	}

	return types.WeatherDescription{Primary: primary, Secondary: secondary}
}
