package types

// WeatherCondition describes the textual condition reported by the upstream
// weather source (e.g. "Partly cloudy").
type WeatherCondition struct {
	Text string `json:"text"`
	Icon string `json:"icon"`
	Code int    `json:"code"`
}

// AirQuality is the optional air-quality sub-record attached to a snapshot.
type AirQuality struct {
	CO         float64 `json:"co"`
	NO2        float64 `json:"no2"`
	O3         float64 `json:"o3"`
	SO2        float64 `json:"so2"`
	PM25       float64 `json:"pm2_5"`
	PM10       float64 `json:"pm10"`
	EPAIndex   int     `json:"us-epa-index"`
	DefraIndex int     `json:"gb-defra-index"`
}

// CurrentWeather is a single immutable weather reading as returned by the
// upstream source. It is produced by the weather client and consumed
// read-only by the analyzer and formatter functions; nothing mutates it
// after creation.
type CurrentWeather struct {
	TempC       float64          `json:"temp_c"`
	TempF       float64          `json:"temp_f"`
	FeelsLikeC  float64          `json:"feelslike_c"`
	FeelsLikeF  float64          `json:"feelslike_f"`
	Condition   WeatherCondition `json:"condition"`
	Humidity    float64          `json:"humidity"`
	WindKph     float64          `json:"wind_kph"`
	WindMph     float64          `json:"wind_mph"`
	WindDegree  int              `json:"wind_degree"`
	WindDir     string           `json:"wind_dir"`
	PressureMb  float64          `json:"pressure_mb"`
	PressureIn  float64          `json:"pressure_in"`
	PrecipMm    float64          `json:"precip_mm"`
	PrecipIn    float64          `json:"precip_in"`
	UV          float64          `json:"uv"`
	VisKm       float64          `json:"vis_km"`
	VisMiles    float64          `json:"vis_miles"`
	GustKph     float64          `json:"gust_kph"`
	GustMph     float64          `json:"gust_mph"`
	Cloud       float64          `json:"cloud"`
	IsDay       int              `json:"is_day"`
	LastUpdated string           `json:"last_updated"`
	AirQuality  *AirQuality      `json:"air_quality,omitempty"`
}

// Location identifies the place a weather reading applies to.
type Location struct {
	Name       string  `json:"name"`
	Region     string  `json:"region"`
	Country    string  `json:"country"`
	Lat        float64 `json:"lat"`
	Lon        float64 `json:"lon"`
	TimezoneID string  `json:"tz_id"`
	Localtime  string  `json:"localtime"`
}

// HourlyForecast is one hourly entry inside a forecast day.
type HourlyForecast struct {
	Time         string           `json:"time"`
	TempC        float64          `json:"temp_c"`
	TempF        float64          `json:"temp_f"`
	Condition    WeatherCondition `json:"condition"`
	ChanceOfRain int              `json:"chance_of_rain"`
	ChanceOfSnow int              `json:"chance_of_snow"`
	WindKph      float64          `json:"wind_kph"`
	WindMph      float64          `json:"wind_mph"`
}

// DayForecast aggregates one calendar day of the forecast.
type DayForecast struct {
	MaxTempC        float64          `json:"maxtemp_c"`
	MaxTempF        float64          `json:"maxtemp_f"`
	MinTempC        float64          `json:"mintemp_c"`
	MinTempF        float64          `json:"mintemp_f"`
	AvgTempC        float64          `json:"avgtemp_c"`
	AvgTempF        float64          `json:"avgtemp_f"`
	Condition       WeatherCondition `json:"condition"`
	DailyChanceRain int              `json:"daily_chance_of_rain"`
	DailyChanceSnow int              `json:"daily_chance_of_snow"`
	MaxWindKph      float64          `json:"maxwind_kph"`
	MaxWindMph      float64          `json:"maxwind_mph"`
	UV              float64          `json:"uv"`
}

// Astro holds sun and moon timings for a forecast day.
type Astro struct {
	Sunrise          string `json:"sunrise"`
	Sunset           string `json:"sunset"`
	Moonrise         string `json:"moonrise"`
	Moonset          string `json:"moonset"`
	MoonPhase        string `json:"moon_phase"`
	MoonIllumination string `json:"moon_illumination"`
	IsMoonUp         int    `json:"is_moon_up"`
	IsSunUp          int    `json:"is_sun_up"`
}

// DailyForecast is one element of the 7-day forecast array.
type DailyForecast struct {
	Date  string           `json:"date"`
	Day   DayForecast      `json:"day"`
	Astro Astro            `json:"astro"`
	Hour  []HourlyForecast `json:"hour"`
}

// WeatherData is the full upstream payload for one query: location, current
// reading, and the forecast days.
type WeatherData struct {
	Location Location       `json:"location"`
	Current  CurrentWeather `json:"current"`
	Forecast struct {
		ForecastDay []DailyForecast `json:"forecastday"`
	} `json:"forecast"`
}

// CityMatch is one result from the city autocomplete search.
type CityMatch struct {
	ID      int     `json:"id"`
	Name    string  `json:"name"`
	Region  string  `json:"region"`
	Country string  `json:"country"`
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
}

// Coordinates is a latitude/longitude pair.
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// WeatherAlert is the derived alert classification for a snapshot. It is
// recomputed on demand and never persisted; at most one alert is active for
// a given snapshot.
type WeatherAlert struct {
	Level   AlertLevel `json:"level"`
	Message string     `json:"message"`
	Icon    string     `json:"icon"`
	Color   string     `json:"color"`
}

// WeatherDescription is the short/long description pair derived from a
// snapshot.
type WeatherDescription struct {
	Primary   string `json:"primary"`
	Secondary string `json:"secondary"`
}

// ActivityFeasibility is the per-activity verdict derived from a snapshot.
// Feasible with the amber color means "possible but use caution".
type ActivityFeasibility struct {
	Feasible bool   `json:"feasible"`
	Reason   string `json:"reason"`
	Color    string `json:"color"`
}
