package handlers

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"skycast/internal/core"
	"skycast/internal/types"
)

// SettingsService is the settings contract the handler consumes.
type SettingsService interface {
	Get() types.UserSettings
	SetTemperatureUnit(ctx context.Context, unit types.TemperatureUnit) error
	SetWidgetVisibility(ctx context.Context, key types.WidgetKey, visible bool) error
	SetActivityPreference(ctx context.Context, activity types.Activity, enabled bool) error
	SetForecastInterval(ctx context.Context, interval types.ForecastInterval) error
	SetNotificationPreference(ctx context.Context, kind types.NotificationKind, enabled bool) error
	SetNewsEnabled(ctx context.Context, enabled bool) error
	AddSavedLocation(ctx context.Context, loc types.SavedLocation) error
	RemoveSavedLocation(ctx context.Context, id string) error
	IsLocationSaved(name string, lat, lon float64) bool
	Reset(ctx context.Context) error
}

// --- Request Models ---

type setUnitRequest struct {
	Unit types.TemperatureUnit `json:"unit" validate:"required"`
}

type setWidgetRequest struct {
	Widget  types.WidgetKey `json:"widget" validate:"required"`
	Visible bool            `json:"visible"`
}

type setActivityRequest struct {
	Activity types.Activity `json:"activity" validate:"required"`
	Enabled  bool           `json:"enabled"`
}

type setIntervalRequest struct {
	Hours types.ForecastInterval `json:"hours" validate:"required"`
}

type setNotificationPrefRequest struct {
	Kind    types.NotificationKind `json:"kind" validate:"required"`
	Enabled bool                   `json:"enabled"`
}

type setNewsRequest struct {
	Enabled bool `json:"enabled"`
}

type addLocationRequest struct {
	Name    string  `json:"name" validate:"required,max=200"`
	Lat     float64 `json:"lat" validate:"min=-90,max=90"`
	Lon     float64 `json:"lon" validate:"min=-180,max=180"`
	Country string  `json:"country" validate:"max=100"`
}

// SettingsHandler exposes the settings aggregate over HTTP.
type SettingsHandler struct {
	service   SettingsService
	validator *core.Validator
	logger    *slog.Logger
}

// NewSettingsHandler creates a SettingsHandler.
func NewSettingsHandler(service SettingsService, v *core.Validator, logger *slog.Logger) *SettingsHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &SettingsHandler{service: service, validator: v, logger: logger}
}

// RegisterRoutes mounts the settings routes.
func (h *SettingsHandler) RegisterRoutes(r chi.Router) {
	r.Route("/settings", func(r chi.Router) {
		r.Get("/", h.Get)
		r.Put("/unit", h.SetUnit)
		r.Put("/widgets", h.SetWidget)
		r.Put("/activities", h.SetActivity)
		r.Put("/interval", h.SetInterval)
		r.Put("/notifications", h.SetNotificationPref)
		r.Put("/news", h.SetNews)
		r.Post("/reset", h.Reset)

		r.Route("/locations", func(r chi.Router) {
			r.Post("/", h.AddLocation)
			r.Delete("/{id}", h.RemoveLocation)
		})
	})
}

// Get handles GET /v1/settings.
func (h *SettingsHandler) Get(w http.ResponseWriter, r *http.Request) {
	core.JSON(w, r, http.StatusOK, core.APIResponse{Data: h.service.Get()})
}

// SetUnit handles PUT /v1/settings/unit.
func (h *SettingsHandler) SetUnit(w http.ResponseWriter, r *http.Request) {
	var req setUnitRequest
	if err := h.decode(w, r, &req); err != nil {
		core.Error(w, r, err)
		return
	}
	h.apply(w, r, h.service.SetTemperatureUnit(r.Context(), req.Unit))
}

// SetWidget handles PUT /v1/settings/widgets.
func (h *SettingsHandler) SetWidget(w http.ResponseWriter, r *http.Request) {
	var req setWidgetRequest
	if err := h.decode(w, r, &req); err != nil {
		core.Error(w, r, err)
		return
	}
	h.apply(w, r, h.service.SetWidgetVisibility(r.Context(), req.Widget, req.Visible))
}

// SetActivity handles PUT /v1/settings/activities.
func (h *SettingsHandler) SetActivity(w http.ResponseWriter, r *http.Request) {
	var req setActivityRequest
	if err := h.decode(w, r, &req); err != nil {
		core.Error(w, r, err)
		return
	}
	h.apply(w, r, h.service.SetActivityPreference(r.Context(), req.Activity, req.Enabled))
}

// SetInterval handles PUT /v1/settings/interval.
func (h *SettingsHandler) SetInterval(w http.ResponseWriter, r *http.Request) {
	var req setIntervalRequest
	if err := h.decode(w, r, &req); err != nil {
		core.Error(w, r, err)
		return
	}
	h.apply(w, r, h.service.SetForecastInterval(r.Context(), req.Hours))
}

// SetNotificationPref handles PUT /v1/settings/notifications.
func (h *SettingsHandler) SetNotificationPref(w http.ResponseWriter, r *http.Request) {
	var req setNotificationPrefRequest
	if err := h.decode(w, r, &req); err != nil {
		core.Error(w, r, err)
		return
	}
	h.apply(w, r, h.service.SetNotificationPreference(r.Context(), req.Kind, req.Enabled))
}

// SetNews handles PUT /v1/settings/news.
func (h *SettingsHandler) SetNews(w http.ResponseWriter, r *http.Request) {
	var req setNewsRequest
	if err := core.DecodeJSON(w, r, &req); err != nil {
		core.Error(w, r, err)
		return
	}
	h.apply(w, r, h.service.SetNewsEnabled(r.Context(), req.Enabled))
}

// Reset handles POST /v1/settings/reset.
func (h *SettingsHandler) Reset(w http.ResponseWriter, r *http.Request) {
	h.apply(w, r, h.service.Reset(r.Context()))
}

// AddLocation handles POST /v1/settings/locations. A location matching an
// existing one by name or nearby coordinates is rejected with a conflict.
func (h *SettingsHandler) AddLocation(w http.ResponseWriter, r *http.Request) {
	var req addLocationRequest
	if err := h.decode(w, r, &req); err != nil {
		core.Error(w, r, err)
		return
	}

	if h.service.IsLocationSaved(req.Name, req.Lat, req.Lon) {
		core.Error(w, r, types.NewAppError(types.ErrCodeConflictLocationExists,
			"location is already saved", nil))
		return
	}

	loc := types.SavedLocation{
		ID:      uuid.NewString(),
		Name:    req.Name,
		Lat:     req.Lat,
		Lon:     req.Lon,
		Country: req.Country,
	}
	if err := h.service.AddSavedLocation(r.Context(), loc); err != nil {
		core.Error(w, r, err)
		return
	}
	core.JSON(w, r, http.StatusCreated, core.APIResponse{Data: loc})
}

// RemoveLocation handles DELETE /v1/settings/locations/{id}.
func (h *SettingsHandler) RemoveLocation(w http.ResponseWriter, r *http.Request) {
	h.apply(w, r, h.service.RemoveSavedLocation(r.Context(), chi.URLParam(r, "id")))
}

// decode parses and validates a JSON request body.
func (h *SettingsHandler) decode(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	if err := core.DecodeJSON(w, r, dst); err != nil {
		return err
	}
	return h.validator.ValidateStruct(dst)
}

// apply writes the updated settings on success, the mapped error otherwise.
func (h *SettingsHandler) apply(w http.ResponseWriter, r *http.Request, err error) {
	if err != nil {
		core.Error(w, r, err)
		return
	}
	core.JSON(w, r, http.StatusOK, core.APIResponse{Data: h.service.Get()})
}
