package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"skycast/internal/core"
	"skycast/internal/settings"
	"skycast/internal/storage"
	"skycast/internal/types"
)

// newSettingsRouter wires the handler against the real settings service on
// an in-memory sqlite store.
func newSettingsRouter(t *testing.T) (*chi.Mux, *settings.Service) {
	t.Helper()

	store, err := storage.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	svc := settings.NewService(settings.ServiceConfig{Store: store})
	h := NewSettingsHandler(svc, core.NewValidator(nil), nil)
	r := chi.NewRouter()
	h.RegisterRoutes(r)
	return r, svc
}

func doJSON(router *chi.Mux, method, path, body string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(rec, req)
	return rec
}

func TestGetSettings(t *testing.T) {
	router, _ := newSettingsRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/settings", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	data := decodeBody(t, rec)["data"].(map[string]any)
	assert.Equal(t, "celsius", data["temperatureUnit"])
}

func TestSetUnit(t *testing.T) {
	router, svc := newSettingsRouter(t)

	rec := doJSON(router, http.MethodPut, "/settings/unit", `{"unit":"fahrenheit"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, types.UnitFahrenheit, svc.Get().TemperatureUnit)
}

func TestSetUnitRejectsUnknown(t *testing.T) {
	router, _ := newSettingsRouter(t)

	rec := doJSON(router, http.MethodPut, "/settings/unit", `{"unit":"kelvin"}`)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	errBody := decodeBody(t, rec)["error"].(map[string]any)
	assert.Equal(t, string(types.ErrCodeValidationInvalidUnit), errBody["code"])
}

func TestSetUnitRejectsUnknownField(t *testing.T) {
	router, _ := newSettingsRouter(t)

	rec := doJSON(router, http.MethodPut, "/settings/unit", `{"unit":"celsius","bogus":1}`)

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSetWidget(t *testing.T) {
	router, svc := newSettingsRouter(t)

	rec := doJSON(router, http.MethodPut, "/settings/widgets", `{"widget":"pressure","visible":true}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, svc.Get().WidgetVisibility[types.WidgetPressure])
}

func TestSetActivity(t *testing.T) {
	router, svc := newSettingsRouter(t)

	rec := doJSON(router, http.MethodPut, "/settings/activities", `{"activity":"hiking","enabled":true}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, svc.Get().ActivityPreferences[types.ActivityHiking])
}

func TestSetInterval(t *testing.T) {
	router, svc := newSettingsRouter(t)

	rec := doJSON(router, http.MethodPut, "/settings/interval", `{"hours":3}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, types.IntervalThreeHours, svc.Get().ForecastInterval)

	rec = doJSON(router, http.MethodPut, "/settings/interval", `{"hours":5}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSetNotificationPref(t *testing.T) {
	router, svc := newSettingsRouter(t)

	rec := doJSON(router, http.MethodPut, "/settings/notifications", `{"kind":"severeWeather","enabled":false}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, svc.Get().NotificationPrefs.SevereWeather)
}

func TestAddLocation(t *testing.T) {
	router, svc := newSettingsRouter(t)

	rec := doJSON(router, http.MethodPost, "/settings/locations",
		`{"name":"Oslo","lat":59.9139,"lon":10.7522,"country":"Norway"}`)

	require.Equal(t, http.StatusCreated, rec.Code)
	data := decodeBody(t, rec)["data"].(map[string]any)
	assert.NotEmpty(t, data["id"])

	locs := svc.Get().SavedLocations
	require.Len(t, locs, 1)
	assert.Equal(t, "Oslo", locs[0].Name)
}

func TestAddLocationConflict(t *testing.T) {
	router, _ := newSettingsRouter(t)

	body := `{"name":"Oslo","lat":59.9139,"lon":10.7522,"country":"Norway"}`
	require.Equal(t, http.StatusCreated, doJSON(router, http.MethodPost, "/settings/locations", body).Code)

	// Same name.
	rec := doJSON(router, http.MethodPost, "/settings/locations", body)
	require.Equal(t, http.StatusConflict, rec.Code)

	// Different name, coordinates within ~1km.
	rec = doJSON(router, http.MethodPost, "/settings/locations",
		`{"name":"Oslo Sentrum","lat":59.9140,"lon":10.7521,"country":"Norway"}`)
	require.Equal(t, http.StatusConflict, rec.Code)
}

func TestAddLocationValidation(t *testing.T) {
	router, _ := newSettingsRouter(t)

	rec := doJSON(router, http.MethodPost, "/settings/locations", `{"lat":59.9,"lon":10.7}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(router, http.MethodPost, "/settings/locations", `{"name":"X","lat":91,"lon":0}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRemoveLocation(t *testing.T) {
	router, svc := newSettingsRouter(t)
	require.NoError(t, svc.AddSavedLocation(context.Background(),
		types.SavedLocation{ID: "abc", Name: "Oslo"}))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/settings/locations/abc", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, svc.Get().SavedLocations)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/settings/locations/abc", nil))
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestReset(t *testing.T) {
	router, svc := newSettingsRouter(t)
	require.NoError(t, svc.SetTemperatureUnit(context.Background(), types.UnitFahrenheit))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/settings/reset", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, types.UnitCelsius, svc.Get().TemperatureUnit)
}
