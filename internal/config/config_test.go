package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("WEATHER_API_KEY", "k")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.AppEnv)
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "https://api.weatherapi.com/v1", cfg.Weather.BaseURL)
	assert.Equal(t, "skycast.db", cfg.Storage.Path)
	assert.Equal(t, 5.0, cfg.Tracking.MinDistanceKm)
	assert.False(t, cfg.IsProduction())
}

func TestLoadRequiresAPIKey(t *testing.T) {
	t.Setenv("WEATHER_API_KEY", "")

	_, err := Load()
	require.Error(t, err)
}

func TestAPIKeyIsRedactedInLogs(t *testing.T) {
	t.Setenv("WEATHER_API_KEY", "super-secret")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "***REDACTED***", cfg.Weather.APIKey.String())
	assert.Equal(t, "super-secret", cfg.Weather.APIKey.Unmask())
}

func TestLoadRejectsBadValues(t *testing.T) {
	t.Setenv("WEATHER_API_KEY", "k")

	t.Setenv("PORT", "70000")
	_, err := Load()
	require.Error(t, err)

	t.Setenv("PORT", "8080")
	t.Setenv("TRACKING_LAT", "95")
	_, err = Load()
	require.Error(t, err)
}
