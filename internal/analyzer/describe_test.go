package analyzer

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"skycast/internal/types"
)

func readingAt(tempC, feelsLikeC float64, condition string) *types.CurrentWeather {
	return &types.CurrentWeather{
		TempC:      tempC,
		FeelsLikeC: feelsLikeC,
		Condition:  types.WeatherCondition{Text: condition},
	}
}

func TestDescribePrimaryBands(t *testing.T) {
	tests := []struct {
		tempC float64
		want  string
	}{
		{35, "Hot"},
		{30, "Hot"},
		{29.999, "Warm"},
		{20, "Warm"},
		{19.5, "Mild"},
		{10, "Mild"},
		{9.9, "Cool"},
		{0, "Cool"},
		{-0.1, "Cold"},
		{-20, "Cold"},
	}
	for _, tc := range tests {
		got := Describe(readingAt(tc.tempC, tc.tempC, "Clear"))
		assert.Equal(t, tc.want, got.Primary, "temp %v", tc.tempC)
	}
}

func TestDescribeFeelsLikeDeltaWinsOverComfort(t *testing.T) {
	// 22°C is inside the comfort range, but the +4 delta takes priority.
	got := Describe(readingAt(22, 26, "Sunny"))
	assert.Equal(t, "Feels warmer than actual temperature", got.Secondary)

	got = Describe(readingAt(22, 18, "Sunny"))
	assert.Equal(t, "Feels colder than actual temperature", got.Secondary)

	// A delta of exactly 3 does not trigger the feels-like line.
	got = Describe(readingAt(22, 25, "Sunny"))
	assert.Equal(t, "Perfect weather for outdoor activities", got.Secondary)
}

func TestDescribeSecondaryCascade(t *testing.T) {
	tests := []struct {
		name      string
		tempC     float64
		condition string
		want      string
	}{
		{"comfort range", 20, "Overcast", "Perfect weather for outdoor activities"},
		{"comfort blocked by rain", 20, "Light rain", "Don't forget your umbrella"},
		{"clear outside comfort", 28, "Clear", "Clear skies and pleasant conditions"},
		{"rain", 10, "Moderate rain", "Don't forget your umbrella"},
		{"snow", -2, "Heavy snow", "Bundle up and stay warm"},
		{"cloud", 12, "Partly cloudy", "Overcast but comfortable"},
		{"fallback", 12, "Mist", "Check conditions before heading out"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := Describe(readingAt(tc.tempC, tc.tempC, tc.condition))
			assert.Equal(t, tc.want, got.Secondary)
		})
	}
}

func TestDescribeNilReading(t *testing.T) {
	assert.Equal(t, types.WeatherDescription{}, Describe(nil))
}
