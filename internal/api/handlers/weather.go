// Package handlers contains the HTTP handler implementations for the
// skycast API. Handlers depend on locally declared interfaces so tests can
// inject fakes without touching the concrete services.
package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"skycast/internal/analyzer"
	"skycast/internal/core"
	"skycast/internal/suggest"
	"skycast/internal/types"
	"skycast/internal/weather"
)

// WeatherService is the fetch orchestrator contract the handler consumes.
type WeatherService interface {
	FetchByCoords(ctx context.Context, lat, lon float64) (*weather.Snapshot, error)
	FetchByCity(ctx context.Context, city string) (*weather.Snapshot, error)
	Refresh(ctx context.Context) (*weather.Snapshot, error)
	Search(ctx context.Context, query string) ([]types.CityMatch, error)
}

// WeatherSettings is the read side of the settings service the handler
// needs for unit, interval, and activity preferences.
type WeatherSettings interface {
	Get() types.UserSettings
}

// activityVerdict pairs a feasibility verdict with its advice line.
type activityVerdict struct {
	Activity    types.Activity            `json:"activity"`
	Feasibility types.ActivityFeasibility `json:"feasibility"`
	Advice      string                    `json:"advice"`
}

// weatherResponse is the composed payload for GET /v1/weather: the raw
// snapshot plus everything derived from it.
type weatherResponse struct {
	Location    types.Location           `json:"location"`
	Current     types.CurrentWeather     `json:"current"`
	Description types.WeatherDescription `json:"description"`
	Alert       *types.WeatherAlert      `json:"alert,omitempty"`
	Insight     string                   `json:"insight"`
	Hourly      []types.HourlyForecast   `json:"hourly"`
	Forecast    []types.DailyForecast    `json:"forecast"`
	Activities  []activityVerdict        `json:"activities"`
	FetchedAt   string                   `json:"fetched_at"`
}

// WeatherHandler serves weather fetches, refresh, and city search.
type WeatherHandler struct {
	service  WeatherService
	settings WeatherSettings
	insights *suggest.Engine
	logger   *slog.Logger
}

// NewWeatherHandler creates a WeatherHandler.
func NewWeatherHandler(service WeatherService, settings WeatherSettings, insights *suggest.Engine, logger *slog.Logger) *WeatherHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &WeatherHandler{
		service:  service,
		settings: settings,
		insights: insights,
		logger:   logger,
	}
}

// RegisterRoutes mounts the weather routes.
func (h *WeatherHandler) RegisterRoutes(r chi.Router) {
	r.Route("/weather", func(r chi.Router) {
		r.Get("/", h.Get)
		r.Post("/refresh", h.Refresh)
	})
	r.Get("/search", h.Search)
}

// Get handles GET /v1/weather?lat=..&lon=.. or ?city=..
// It fetches a fresh snapshot and returns it with the full derived analysis
// block: classification, description, insight, hourly window, and the
// feasibility verdict for every activity the user has enabled.
func (h *WeatherHandler) Get(w http.ResponseWriter, r *http.Request) {
	snap, err := h.fetch(r)
	if err != nil {
		core.Error(w, r, err)
		return
	}
	core.JSON(w, r, http.StatusOK, core.APIResponse{Data: h.compose(snap)})
}

func (h *WeatherHandler) fetch(r *http.Request) (*weather.Snapshot, error) {
	q := r.URL.Query()

	if city := q.Get("city"); city != "" {
		return h.service.FetchByCity(r.Context(), city)
	}

	latStr, lonStr := q.Get("lat"), q.Get("lon")
	if latStr == "" || lonStr == "" {
		return nil, types.NewAppError(types.ErrCodeValidationMissingField,
			"either city or lat+lon query parameters are required", nil)
	}

	lat, err := strconv.ParseFloat(latStr, 64)
	if err != nil {
		return nil, types.NewAppError(types.ErrCodeValidationInvalidLat,
			"lat must be a number", err)
	}
	lon, err := strconv.ParseFloat(lonStr, 64)
	if err != nil {
		return nil, types.NewAppError(types.ErrCodeValidationInvalidLon,
			"lon must be a number", err)
	}

	return h.service.FetchByCoords(r.Context(), lat, lon)
}

func (h *WeatherHandler) compose(snap *weather.Snapshot) weatherResponse {
	data := snap.Data
	current := &data.Current
	prefs := h.settings.Get()

	var today *types.DailyForecast
	if len(data.Forecast.ForecastDay) > 0 {
		today = &data.Forecast.ForecastDay[0]
	}

	var verdicts []activityVerdict
	for _, activity := range types.AllActivities {
		if !prefs.ActivityPreferences[activity] {
			continue
		}
		feasibility := analyzer.Feasibility(current, activity)
		verdicts = append(verdicts, activityVerdict{
			Activity:    activity,
			Feasibility: feasibility,
			Advice:      h.insights.ActivityAdvice(activity, current, feasibility.Feasible),
		})
	}

	return weatherResponse{
		Location:    data.Location,
		Current:     *current,
		Description: analyzer.Describe(current),
		Alert:       analyzer.ClassifyAlert(current),
		Insight:     h.insights.DailyInsight(current, today),
		Hourly:      weather.HourlyWindow(data, prefs.ForecastInterval),
		Forecast:    data.Forecast.ForecastDay,
		Activities:  verdicts,
		FetchedAt:   snap.FetchedAt.Format(time.RFC3339),
	}
}

// Refresh handles POST /v1/weather/refresh, repeating the last fetch.
func (h *WeatherHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	snap, err := h.service.Refresh(r.Context())
	if err != nil {
		core.Error(w, r, err)
		return
	}
	core.JSON(w, r, http.StatusOK, core.APIResponse{Data: h.compose(snap)})
}

// Search handles GET /v1/search?q=.. for city autocomplete.
func (h *WeatherHandler) Search(w http.ResponseWriter, r *http.Request) {
	matches, err := h.service.Search(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		core.Error(w, r, err)
		return
	}
	core.JSON(w, r, http.StatusOK, core.APIResponse{Data: matches})
}
