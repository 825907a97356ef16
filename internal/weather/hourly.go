package weather

import (
	"time"

	"skycast/internal/types"
)

const hourlyWindow = 24

// localtimeLayout is the minute-resolution local time stamp the upstream
// attaches to a location (e.g. "2025-03-14 09:30").
const localtimeLayout = "2006-01-02 15:04"

// HourlyWindow builds the rolling next-24-hours view from a snapshot: the
// remaining hours of today starting at the location's current local hour,
// topped up from tomorrow, sampled at the given interval. A missing second
// forecast day just yields a shorter window.
func HourlyWindow(data *types.WeatherData, interval types.ForecastInterval) []types.HourlyForecast {
	if data == nil || len(data.Forecast.ForecastDay) == 0 {
		return nil
	}
	if !interval.Valid() {
		interval = types.IntervalOneHour
	}

	currentHour := 0
	if t, err := time.Parse(localtimeLayout, data.Location.Localtime); err == nil {
		currentHour = t.Hour()
	}

	today := data.Forecast.ForecastDay[0].Hour
	var pool []types.HourlyForecast
	for _, h := range today {
		if hourOf(h.Time) >= currentHour {
			pool = append(pool, h)
		}
	}
	if len(data.Forecast.ForecastDay) > 1 {
		pool = append(pool, data.Forecast.ForecastDay[1].Hour...)
	}
	if len(pool) > hourlyWindow {
		pool = pool[:hourlyWindow]
	}

	step := int(interval)
	out := make([]types.HourlyForecast, 0, (len(pool)+step-1)/step)
	for i := 0; i < len(pool); i += step {
		out = append(out, pool[i])
	}
	return out
}

func hourOf(stamp string) int {
	t, err := time.Parse(localtimeLayout, stamp)
	if err != nil {
		return 0
	}
	return t.Hour()
}
