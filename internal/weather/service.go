package weather

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"skycast/internal/types"
)

// Fetcher is the upstream capability the Service consumes. *Client satisfies
// it; tests substitute fakes.
type Fetcher interface {
	Forecast(ctx context.Context, query string) (*types.WeatherData, error)
	SearchCities(ctx context.Context, query string) ([]types.CityMatch, error)
}

// Snapshot is the service's view of the last successful fetch.
type Snapshot struct {
	Data      *types.WeatherData
	FetchedAt time.Time
}

// Service is the fetch orchestrator. It owns the single current weather
// snapshot, tracks the parameters of the last request so Refresh can repeat
// it, and serializes result application so a stale fetch completing late can
// never overwrite a newer one.
type Service struct {
	fetcher Fetcher
	clock   types.Clock
	logger  *slog.Logger

	mu        sync.Mutex
	seq       uint64 // bumped at the start of every fetch
	snapshot  *Snapshot
	lastQuery string
	lastErr   error
	loading   bool
}

// ServiceConfig holds the configuration for creating a weather Service.
type ServiceConfig struct {
	Fetcher Fetcher
	Clock   types.Clock
	Logger  *slog.Logger
}

// NewService creates a weather Service.
func NewService(cfg ServiceConfig) *Service {
	clock := cfg.Clock
	if clock == nil {
		clock = types.RealClock{}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		fetcher: cfg.Fetcher,
		clock:   clock,
		logger:  logger,
	}
}

// FetchByCoords fetches weather for a coordinate pair.
func (s *Service) FetchByCoords(ctx context.Context, lat, lon float64) (*Snapshot, error) {
	if lat < -90 || lat > 90 {
		return nil, types.NewAppError(types.ErrCodeValidationInvalidLat,
			fmt.Sprintf("latitude must be in [-90, 90], got %v", lat), nil)
	}
	if lon < -180 || lon > 180 {
		return nil, types.NewAppError(types.ErrCodeValidationInvalidLon,
			fmt.Sprintf("longitude must be in [-180, 180], got %v", lon), nil)
	}
	return s.fetch(ctx, fmt.Sprintf("%.4f,%.4f", lat, lon))
}

// FetchByCity fetches weather for a named city.
func (s *Service) FetchByCity(ctx context.Context, city string) (*Snapshot, error) {
	if city == "" {
		return nil, types.NewAppError(types.ErrCodeValidationMissingField,
			"city name is required", nil)
	}
	return s.fetch(ctx, city)
}

// Refresh repeats the last fetch with its original parameters. It fails when
// nothing has been fetched yet.
func (s *Service) Refresh(ctx context.Context) (*Snapshot, error) {
	s.mu.Lock()
	query := s.lastQuery
	s.mu.Unlock()

	if query == "" {
		return nil, types.NewAppError(types.ErrCodeNotFoundSnapshot,
			"nothing fetched yet; fetch by coordinates or city first", nil)
	}
	return s.fetch(ctx, query)
}

// fetch runs one upstream request. Each call takes the next sequence number
// before releasing the lock; on completion the result is applied only if no
// newer fetch has started since. Losing the race drops the result, so the
// retained snapshot always corresponds to the most recently requested
// parameters.
func (s *Service) fetch(ctx context.Context, query string) (*Snapshot, error) {
	s.mu.Lock()
	s.seq++
	mySeq := s.seq
	s.lastQuery = query
	s.loading = true
	s.mu.Unlock()

	data, err := s.fetcher.Forecast(ctx, query)

	s.mu.Lock()
	defer s.mu.Unlock()

	if mySeq != s.seq {
		s.logger.DebugContext(ctx, "dropping stale fetch result",
			"query", query, "seq", mySeq, "latest", s.seq)
		if err != nil {
			return nil, err
		}
		return &Snapshot{Data: data, FetchedAt: s.clock.Now()}, nil
	}

	s.loading = false
	if err != nil {
		s.lastErr = err
		s.logger.WarnContext(ctx, "weather fetch failed", "query", query, "error", err)
		return nil, err
	}

	s.lastErr = nil
	s.snapshot = &Snapshot{Data: data, FetchedAt: s.clock.Now()}
	s.logger.InfoContext(ctx, "weather snapshot updated",
		"location", data.Location.Name, "query", query)
	return s.snapshot, nil
}

// Search proxies city autocomplete to the upstream.
func (s *Service) Search(ctx context.Context, query string) ([]types.CityMatch, error) {
	return s.fetcher.SearchCities(ctx, query)
}

// Current returns the latest snapshot, or nil when nothing has been fetched.
// A failed refresh does not clear a previously successful snapshot.
func (s *Service) Current() *Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot
}

// Loading reports whether a fetch is in flight.
func (s *Service) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

// LastError returns the error from the most recent completed fetch, nil
// after a success.
func (s *Service) LastError() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}
