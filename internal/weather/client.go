// Package weather provides the upstream forecast client and the fetch
// orchestrator that owns the in-memory weather state.
//
// The client is the anti-corruption layer toward the vendor API: all
// outbound calls go through a shared circuit breaker and map failures to
// domain AppErrors. Calls fail fast; a snapshot that cannot be fetched now
// is simply fetched again on the next trigger, so there is no retry loop.
package weather

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/sony/gobreaker/v2"

	"skycast/internal/types"
)

const (
	forecastDays   = 7
	searchMinChars = 3
)

// ClientConfig holds the configuration for creating a Client.
type ClientConfig struct {
	BaseURL   string
	APIKey    types.SecretString
	Timeout   time.Duration
	UserAgent string
}

// Client talks to the upstream weather API (weatherapi.com wire shape).
type Client struct {
	baseURL   string
	apiKey    types.SecretString
	client    *http.Client
	breaker   *gobreaker.CircuitBreaker[*http.Response]
	userAgent string
}

// NewClient creates a Client with its own circuit breaker. The breaker trips
// after five consecutive failures and half-opens after thirty seconds.
func NewClient(cfg ClientConfig) *Client {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 10 * time.Second
	}

	cb := gobreaker.NewCircuitBreaker[*http.Response](gobreaker.Settings{
		Name:        "weather-api",
		MaxRequests: 1,
		Interval:    60 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures > 5
		},
	})

	return &Client{
		baseURL:   cfg.BaseURL,
		apiKey:    cfg.APIKey,
		client:    &http.Client{Timeout: timeout},
		breaker:   cb,
		userAgent: cfg.UserAgent,
	}
}

// Forecast fetches the current conditions plus the 7-day forecast for the
// given free-form query ("lat,lon" or a city name).
func (c *Client) Forecast(ctx context.Context, query string) (*types.WeatherData, error) {
	params := url.Values{}
	params.Set("q", query)
	params.Set("days", fmt.Sprintf("%d", forecastDays))
	params.Set("aqi", "yes")
	params.Set("alerts", "yes")

	var data types.WeatherData
	if err := c.getJSON(ctx, "/forecast.json", params, &data); err != nil {
		return nil, err
	}
	return &data, nil
}

// SearchCities returns autocomplete matches for a partial city name.
// Queries shorter than three characters return no matches without touching
// the upstream.
func (c *Client) SearchCities(ctx context.Context, query string) ([]types.CityMatch, error) {
	if len(query) < searchMinChars {
		return []types.CityMatch{}, nil
	}

	params := url.Values{}
	params.Set("q", query)

	var matches []types.CityMatch
	if err := c.getJSON(ctx, "/search.json", params, &matches); err != nil {
		return nil, err
	}
	if matches == nil {
		matches = []types.CityMatch{}
	}
	return matches, nil
}

func (c *Client) getJSON(ctx context.Context, path string, params url.Values, out any) error {
	params.Set("key", c.apiKey.Unmask())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.baseURL+path+"?"+params.Encode(), nil)
	if err != nil {
		return types.NewAppError(types.ErrCodeInternalUnexpected,
			"building upstream request", err)
	}
	if traceID := types.GetRequestID(ctx); traceID != "" {
		req.Header.Set("X-B3-TraceId", traceID)
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.breaker.Execute(func() (*http.Response, error) {
		r, doErr := c.client.Do(req)
		if doErr != nil {
			return nil, doErr
		}
		// 5xx and 429 count as breaker failures.
		if r.StatusCode >= 500 || r.StatusCode == http.StatusTooManyRequests {
			r.Body.Close()
			return nil, fmt.Errorf("upstream returned %d", r.StatusCode)
		}
		return r, nil
	})
	if err != nil {
		return mapUpstreamError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return types.NewAppError(types.ErrCodeUpstreamWeather,
			fmt.Sprintf("upstream returned %d: %s", resp.StatusCode, string(body)), nil)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return types.NewAppError(types.ErrCodeUpstreamWeather,
			"decoding upstream response", err)
	}
	return nil
}

func mapUpstreamError(err error) *types.AppError {
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return types.NewAppError(types.ErrCodeUpstreamRateLimited,
			"circuit breaker is open; upstream weather service unavailable", err)
	}
	return types.NewAppError(types.ErrCodeUpstreamWeather,
		"upstream weather request failed", err)
}
