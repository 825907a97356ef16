package weather

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"skycast/internal/types"
)

type fakeClock struct{ now time.Time }

func (c fakeClock) Now() time.Time { return c.now }

// fakeFetcher returns canned responses and can block until released so tests
// can interleave concurrent fetches deterministically.
type fakeFetcher struct {
	mu      sync.Mutex
	results map[string]*types.WeatherData
	errs    map[string]error
	block   map[string]chan struct{}
	calls   []string
}

func newFakeFetcher() *fakeFetcher {
	return &fakeFetcher{
		results: map[string]*types.WeatherData{},
		errs:    map[string]error{},
		block:   map[string]chan struct{}{},
	}
}

func (f *fakeFetcher) Forecast(ctx context.Context, query string) (*types.WeatherData, error) {
	f.mu.Lock()
	f.calls = append(f.calls, query)
	gate := f.block[query]
	f.mu.Unlock()

	if gate != nil {
		<-gate
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.errs[query]; err != nil {
		return nil, err
	}
	return f.results[query], nil
}

func (f *fakeFetcher) SearchCities(ctx context.Context, query string) ([]types.CityMatch, error) {
	return nil, nil
}

func dataFor(city string) *types.WeatherData {
	d := &types.WeatherData{}
	d.Location.Name = city
	d.Current.TempC = 21
	return d
}

func newTestService(f Fetcher) *Service {
	return NewService(ServiceConfig{
		Fetcher: f,
		Clock:   fakeClock{now: time.Date(2025, 3, 14, 12, 0, 0, 0, time.UTC)},
	})
}

func TestFetchByCityUpdatesSnapshot(t *testing.T) {
	f := newFakeFetcher()
	f.results["Oslo"] = dataFor("Oslo")
	svc := newTestService(f)

	snap, err := svc.FetchByCity(context.Background(), "Oslo")
	require.NoError(t, err)
	assert.Equal(t, "Oslo", snap.Data.Location.Name)
	assert.False(t, snap.FetchedAt.IsZero())

	assert.Same(t, snap, svc.Current())
	assert.NoError(t, svc.LastError())
	assert.False(t, svc.Loading())
}

func TestFetchByCoordsValidation(t *testing.T) {
	svc := newTestService(newFakeFetcher())

	_, err := svc.FetchByCoords(context.Background(), 91, 0)
	var appErr *types.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, types.ErrCodeValidationInvalidLat, appErr.Code)

	_, err = svc.FetchByCoords(context.Background(), 0, -181)
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, types.ErrCodeValidationInvalidLon, appErr.Code)
}

func TestFetchByCoordsFormatsQuery(t *testing.T) {
	f := newFakeFetcher()
	f.results["59.9139,10.7522"] = dataFor("Oslo")
	svc := newTestService(f)

	_, err := svc.FetchByCoords(context.Background(), 59.9139, 10.7522)
	require.NoError(t, err)
	assert.Equal(t, []string{"59.9139,10.7522"}, f.calls)
}

func TestRefreshRepeatsLastQuery(t *testing.T) {
	f := newFakeFetcher()
	f.results["Oslo"] = dataFor("Oslo")
	svc := newTestService(f)

	_, err := svc.FetchByCity(context.Background(), "Oslo")
	require.NoError(t, err)

	_, err = svc.Refresh(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"Oslo", "Oslo"}, f.calls)
}

func TestRefreshWithoutPriorFetch(t *testing.T) {
	svc := newTestService(newFakeFetcher())

	_, err := svc.Refresh(context.Background())
	var appErr *types.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, types.ErrCodeNotFoundSnapshot, appErr.Code)
}

func TestFailedFetchKeepsPreviousSnapshot(t *testing.T) {
	f := newFakeFetcher()
	f.results["Oslo"] = dataFor("Oslo")
	f.errs["Bergen"] = errors.New("boom")
	svc := newTestService(f)

	_, err := svc.FetchByCity(context.Background(), "Oslo")
	require.NoError(t, err)

	_, err = svc.FetchByCity(context.Background(), "Bergen")
	require.Error(t, err)

	require.NotNil(t, svc.Current())
	assert.Equal(t, "Oslo", svc.Current().Data.Location.Name)
	assert.Error(t, svc.LastError())
}

func TestStaleFetchResultIsDropped(t *testing.T) {
	f := newFakeFetcher()
	f.results["Oslo"] = dataFor("Oslo")
	f.results["Bergen"] = dataFor("Bergen")
	gate := make(chan struct{})
	f.block["Oslo"] = gate
	svc := newTestService(f)

	// Start the Oslo fetch and park it inside the fetcher.
	done := make(chan struct{})
	go func() {
		defer close(done)
		svc.FetchByCity(context.Background(), "Oslo")
	}()

	require.Eventually(t, func() bool {
		f.mu.Lock()
		defer f.mu.Unlock()
		return len(f.calls) == 1
	}, time.Second, time.Millisecond)

	// A newer fetch completes while Oslo is still in flight.
	_, err := svc.FetchByCity(context.Background(), "Bergen")
	require.NoError(t, err)

	// Let the stale Oslo fetch complete; its result must not be applied.
	close(gate)
	<-done

	assert.Equal(t, "Bergen", svc.Current().Data.Location.Name)
}
