package types

// AlertLevel classifies the severity of a derived weather alert.
type AlertLevel string

const (
	AlertSevere  AlertLevel = "severe"
	AlertCaution AlertLevel = "caution"
	AlertPerfect AlertLevel = "perfect"
)

// Severity colors shared by alerts and feasibility verdicts.
const (
	ColorSevere  = "#EF4444"
	ColorCaution = "#F59E0B"
	ColorIdeal   = "#10B981"
	ColorNeutral = "#6B7280"
)

// Activity identifies an outdoor activity the analyzer can score.
type Activity string

const (
	ActivityHiking     Activity = "hiking"
	ActivityRunning    Activity = "running"
	ActivityCycling    Activity = "cycling"
	ActivityDriving    Activity = "driving"
	ActivityFishing    Activity = "fishing"
	ActivityGardening  Activity = "gardening"
	ActivityStargazing Activity = "stargazing"
	ActivityBBQ        Activity = "bbq"
)

// AllActivities is the complete set of known activities in display order.
var AllActivities = []Activity{
	ActivityHiking,
	ActivityRunning,
	ActivityCycling,
	ActivityDriving,
	ActivityFishing,
	ActivityGardening,
	ActivityStargazing,
	ActivityBBQ,
}

// TemperatureUnit is the user's unit preference. It selects the unit system
// for every formatted metric, not just temperature.
type TemperatureUnit string

const (
	UnitCelsius    TemperatureUnit = "celsius"
	UnitFahrenheit TemperatureUnit = "fahrenheit"
)

// WidgetKey names a metric tile on the current-conditions view.
type WidgetKey string

const (
	WidgetFeelsLike     WidgetKey = "feelsLike"
	WidgetWind          WidgetKey = "wind"
	WidgetHumidity      WidgetKey = "humidity"
	WidgetUV            WidgetKey = "uv"
	WidgetPressure      WidgetKey = "pressure"
	WidgetVisibility    WidgetKey = "visibility"
	WidgetPrecipitation WidgetKey = "precipitation"
	WidgetAQI           WidgetKey = "aqi"
	WidgetDewPoint      WidgetKey = "dewPoint"
	WidgetSunset        WidgetKey = "sunset"
	WidgetSunrise       WidgetKey = "sunrise"
	WidgetMoonPhase     WidgetKey = "moonPhase"
	WidgetCloudiness    WidgetKey = "cloudiness"
)

// AllWidgetKeys is the fixed enumeration of widget tiles. Settings loading
// backfills any key missing from a persisted blob so app updates that add
// tiles never leave holes in the visibility map.
var AllWidgetKeys = []WidgetKey{
	WidgetFeelsLike,
	WidgetWind,
	WidgetHumidity,
	WidgetUV,
	WidgetPressure,
	WidgetVisibility,
	WidgetPrecipitation,
	WidgetAQI,
	WidgetDewPoint,
	WidgetSunset,
	WidgetSunrise,
	WidgetMoonPhase,
	WidgetCloudiness,
}

// NotificationKind names one of the recurring or gated notification
// preferences.
type NotificationKind string

const (
	NotifyDailyForecast    NotificationKind = "dailyForecast"
	NotifyTomorrowForecast NotificationKind = "tomorrowForecast"
	NotifyWeeklyForecast   NotificationKind = "weeklyForecast"
	NotifySevereWeather    NotificationKind = "severeWeather"
	NotifyRainSnowAlerts   NotificationKind = "rainSnowAlerts"
)

// AllNotificationKinds is the fixed enumeration of notification preferences.
var AllNotificationKinds = []NotificationKind{
	NotifyDailyForecast,
	NotifyTomorrowForecast,
	NotifyWeeklyForecast,
	NotifySevereWeather,
	NotifyRainSnowAlerts,
}

// ForecastInterval is the hourly sampling step for forecast views.
type ForecastInterval int

const (
	IntervalOneHour    ForecastInterval = 1
	IntervalTwoHours   ForecastInterval = 2
	IntervalThreeHours ForecastInterval = 3
)

// Valid reports whether the interval is one of the supported steps.
func (i ForecastInterval) Valid() bool {
	return i == IntervalOneHour || i == IntervalTwoHours || i == IntervalThreeHours
}
