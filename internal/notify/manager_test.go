package notify

import (
	"context"
	"errors"
	"math/rand/v2"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"skycast/internal/analyzer"
	"skycast/internal/location"
	"skycast/internal/types"
	"skycast/internal/weather"
)

type memStore struct {
	mu    sync.Mutex
	blobs map[string][]byte
}

func newMemStore() *memStore { return &memStore{blobs: map[string][]byte{}} }

func (m *memStore) Get(key string) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.blobs[key]
	return v, ok, nil
}

func (m *memStore) Set(key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.blobs[key] = value
	return nil
}

func (m *memStore) Delete(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.blobs, key)
	return nil
}

type fakeSettings struct{ prefs types.NotificationPreferences }

func (f *fakeSettings) Get() types.UserSettings {
	return types.UserSettings{NotificationPrefs: f.prefs}
}

func allPrefsOn() *fakeSettings {
	return &fakeSettings{prefs: types.NotificationPreferences{
		DailyForecast:    true,
		TomorrowForecast: true,
		WeeklyForecast:   true,
		SevereWeather:    true,
		RainSnowAlerts:   true,
	}}
}

type fakeRegistrar struct {
	weekly    bool
	scheduled map[types.NotificationKind]string
	notes     map[types.NotificationKind]Notification
	cancels   int
}

func newFakeRegistrar(weekly bool) *fakeRegistrar {
	return &fakeRegistrar{
		weekly:    weekly,
		scheduled: map[types.NotificationKind]string{},
		notes:     map[types.NotificationKind]Notification{},
	}
}

func (f *fakeRegistrar) Schedule(kind types.NotificationKind, spec string, n Notification) error {
	f.scheduled[kind] = spec
	f.notes[kind] = n
	return nil
}

func (f *fakeRegistrar) CancelAll() {
	f.cancels++
	f.scheduled = map[types.NotificationKind]string{}
	f.notes = map[types.NotificationKind]Notification{}
}

func (f *fakeRegistrar) Scheduled() []types.NotificationKind {
	kinds := make([]types.NotificationKind, 0, len(f.scheduled))
	for k := range f.scheduled {
		kinds = append(kinds, k)
	}
	return kinds
}

func (f *fakeRegistrar) SupportsWeekly() bool { return f.weekly }

type fakeSink struct {
	mu        sync.Mutex
	delivered []Notification
}

func (f *fakeSink) Deliver(ctx context.Context, n Notification) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.delivered = append(f.delivered, n)
	return nil
}

func (f *fakeSink) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.delivered)
}

type fakeTracker struct {
	running  bool
	startErr error
}

func (f *fakeTracker) Start(ctx context.Context, h location.UpdateHandler) error {
	if f.startErr != nil {
		return f.startErr
	}
	f.running = true
	return nil
}

func (f *fakeTracker) Stop()         { f.running = false }
func (f *fakeTracker) Running() bool { return f.running }

type fakeGate struct {
	granted bool
	err     error
}

func (f *fakeGate) RequestPermission(ctx context.Context) (bool, error) {
	return f.granted, f.err
}

type fakeForecaster struct {
	data *types.WeatherData
	err  error
}

func (f *fakeForecaster) FetchByCoords(ctx context.Context, lat, lon float64) (*weather.Snapshot, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &weather.Snapshot{Data: f.data}, nil
}

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func weatherAt(city, condition string, tempC float64) *types.WeatherData {
	d := &types.WeatherData{}
	d.Location.Name = city
	d.Current.TempC = tempC
	d.Current.Condition.Text = condition
	d.Current.VisKm = 10
	return d
}

type managerFixture struct {
	manager    *Manager
	store      *memStore
	settings   *fakeSettings
	registrar  *fakeRegistrar
	sink       *fakeSink
	tracker    *fakeTracker
	gate       *fakeGate
	forecaster *fakeForecaster
	clock      *fakeClock
}

func newFixture() *managerFixture {
	f := &managerFixture{
		store:      newMemStore(),
		settings:   allPrefsOn(),
		registrar:  newFakeRegistrar(true),
		sink:       &fakeSink{},
		tracker:    &fakeTracker{},
		gate:       &fakeGate{granted: true},
		forecaster: &fakeForecaster{data: weatherAt("Oslo", "Sunny", 20)},
		clock:      &fakeClock{now: time.Date(2025, 3, 14, 12, 0, 0, 0, time.UTC)},
	}
	f.manager = NewManager(ManagerConfig{
		Store:       f.store,
		Settings:    f.settings,
		Registrar:   f.registrar,
		Sink:        f.sink,
		Tracker:     f.tracker,
		Permissions: f.gate,
		Forecaster:  f.forecaster,
		Classify:    analyzer.ClassifyAlert,
		Copy:        NewCopyBuilder(rand.New(rand.NewPCG(3, 9))),
		Clock:       f.clock,
	})
	return f
}

func TestEnableHappyPath(t *testing.T) {
	f := newFixture()

	enabled, err := f.manager.Enable(context.Background())
	require.NoError(t, err)
	assert.True(t, enabled)

	assert.Equal(t, StatusEnabled, f.manager.Status())
	assert.Equal(t, []byte("true"), f.store.blobs[enabledFlagKey])
	assert.True(t, f.tracker.running)

	assert.Equal(t, dailySpec, f.registrar.scheduled[types.NotifyDailyForecast])
	assert.Equal(t, tomorrowSpec, f.registrar.scheduled[types.NotifyTomorrowForecast])
	assert.Equal(t, weeklySpec, f.registrar.scheduled[types.NotifyWeeklyForecast])
}

func TestEnablePermissionDenied(t *testing.T) {
	f := newFixture()
	f.gate.granted = false

	enabled, err := f.manager.Enable(context.Background())
	require.NoError(t, err)
	assert.False(t, enabled)

	assert.Equal(t, StatusDisabled, f.manager.Status())
	assert.Empty(t, f.registrar.scheduled)
	assert.False(t, f.tracker.running)
	_, found, _ := f.store.Get(enabledFlagKey)
	assert.False(t, found)
}

func TestEnablePermissionError(t *testing.T) {
	f := newFixture()
	f.gate.err = errors.New("prompt crashed")

	_, err := f.manager.Enable(context.Background())
	var appErr *types.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, types.ErrCodePermissionNotifications, appErr.Code)
}

func TestEnableTrackingFailureDegrades(t *testing.T) {
	f := newFixture()
	f.tracker.startErr = errors.New("no geo source")

	enabled, err := f.manager.Enable(context.Background())
	require.NoError(t, err)
	assert.True(t, enabled, "tracking failure must not fail the enable")

	assert.Equal(t, StatusEnabledNoTracking, f.manager.Status())
	// Recurring schedules still active.
	assert.Len(t, f.registrar.scheduled, 3)
}

func TestDisableTearsDown(t *testing.T) {
	f := newFixture()
	_, err := f.manager.Enable(context.Background())
	require.NoError(t, err)

	require.NoError(t, f.manager.Disable(context.Background()))

	assert.Equal(t, StatusDisabled, f.manager.Status())
	assert.False(t, f.tracker.running)
	assert.Empty(t, f.registrar.scheduled)
	assert.Equal(t, []byte("false"), f.store.blobs[enabledFlagKey])
}

func TestResyncSkipsWeeklyWhenUnsupported(t *testing.T) {
	f := newFixture()
	f.registrar.weekly = false

	_, err := f.manager.Enable(context.Background())
	require.NoError(t, err)

	assert.Contains(t, f.registrar.scheduled, types.NotifyDailyForecast)
	assert.Contains(t, f.registrar.scheduled, types.NotifyTomorrowForecast)
	assert.NotContains(t, f.registrar.scheduled, types.NotifyWeeklyForecast)
}

func TestResyncDerivesFromPreferences(t *testing.T) {
	f := newFixture()
	_, err := f.manager.Enable(context.Background())
	require.NoError(t, err)

	f.settings.prefs.DailyForecast = false
	f.settings.prefs.WeeklyForecast = false
	f.manager.Resync(context.Background())

	assert.Len(t, f.registrar.scheduled, 1)
	assert.Contains(t, f.registrar.scheduled, types.NotifyTomorrowForecast)
}

func TestResyncWhileDisabledOnlyCancels(t *testing.T) {
	f := newFixture()

	f.manager.Resync(context.Background())

	assert.Equal(t, 1, f.registrar.cancels)
	assert.Empty(t, f.registrar.scheduled)
}

func TestReconcileRestoresEnabledState(t *testing.T) {
	f := newFixture()
	require.NoError(t, f.store.Set(enabledFlagKey, []byte("true")))

	f.manager.Reconcile(context.Background())

	assert.Equal(t, StatusEnabled, f.manager.Status())
	assert.True(t, f.tracker.running)
	assert.Len(t, f.registrar.scheduled, 3)
}

func TestReconcileWithoutFlagStaysDisabled(t *testing.T) {
	f := newFixture()

	f.manager.Reconcile(context.Background())

	assert.Equal(t, StatusDisabled, f.manager.Status())
	assert.False(t, f.tracker.running)
	assert.Empty(t, f.registrar.scheduled)
}

func TestReconcileRunningTrackerWinsOverMissingFlag(t *testing.T) {
	f := newFixture()
	// The OS-side registration survived while the persisted flag was lost.
	f.tracker.running = true

	f.manager.Reconcile(context.Background())

	assert.Equal(t, StatusEnabled, f.manager.Status())
	assert.Len(t, f.registrar.scheduled, 3)
	assert.True(t, f.tracker.running)
}

func TestReconcileRunningTrackerWinsOverFalseFlag(t *testing.T) {
	f := newFixture()
	f.tracker.running = true
	require.NoError(t, f.store.Set(enabledFlagKey, []byte("false")))

	f.manager.Reconcile(context.Background())

	assert.Equal(t, StatusEnabled, f.manager.Status())
	assert.Len(t, f.registrar.scheduled, 3)
}

func TestHandleLocationSevereAlert(t *testing.T) {
	f := newFixture()
	f.forecaster.data = weatherAt("Oslo", "Thunderstorm", 15)

	f.manager.HandleLocation(context.Background(), types.Coordinates{Lat: 59.91, Lon: 10.75})

	require.Equal(t, 1, f.sink.count())
	n := f.sink.delivered[0]
	assert.Equal(t, "⚠️ Severe Weather Alert", n.Title)
	assert.Contains(t, n.Body, "Oslo")
}

func TestHandleLocationRainCaution(t *testing.T) {
	f := newFixture()
	f.forecaster.data = weatherAt("Bergen", "Moderate rain", 12)

	f.manager.HandleLocation(context.Background(), types.Coordinates{})

	require.Equal(t, 1, f.sink.count())
	n := f.sink.delivered[0]
	assert.Equal(t, "🌨️ Moderate rain Alert", n.Title)
	assert.Equal(t, "It's moderate rain in Bergen. Stay dry!", n.Body)
}

func TestHandleLocationCautionWithoutPrecipitationIsSilent(t *testing.T) {
	f := newFixture()
	// Caution for wind, but neither rain nor snow in the condition text.
	f.forecaster.data = weatherAt("Oslo", "Partly cloudy", 20)
	f.forecaster.data.Current.WindKph = 35

	f.manager.HandleLocation(context.Background(), types.Coordinates{})

	assert.Zero(t, f.sink.count())
}

func TestHandleLocationRespectsPreferences(t *testing.T) {
	f := newFixture()
	f.settings.prefs.SevereWeather = false
	f.forecaster.data = weatherAt("Oslo", "Thunderstorm", 15)

	f.manager.HandleLocation(context.Background(), types.Coordinates{})

	assert.Zero(t, f.sink.count())
}

func TestHandleLocationThrottled(t *testing.T) {
	f := newFixture()
	f.forecaster.data = weatherAt("Oslo", "Thunderstorm", 15)

	f.manager.HandleLocation(context.Background(), types.Coordinates{})
	require.Equal(t, 1, f.sink.count())

	// Second update 10 minutes later falls inside the window.
	f.clock.advance(10 * time.Minute)
	f.manager.HandleLocation(context.Background(), types.Coordinates{})
	assert.Equal(t, 1, f.sink.count())

	// Past the 30-minute window the check runs again.
	f.clock.advance(21 * time.Minute)
	f.manager.HandleLocation(context.Background(), types.Coordinates{})
	assert.Equal(t, 2, f.sink.count())
}

func TestHandleLocationSwallowsFetchFailure(t *testing.T) {
	f := newFixture()
	f.forecaster.err = errors.New("upstream down")

	f.manager.HandleLocation(context.Background(), types.Coordinates{})

	assert.Zero(t, f.sink.count())
	// The failed check still consumes the window.
	_, found, _ := f.store.Get(lastCheckKey)
	assert.True(t, found)
}

func TestBackgroundCheckRefreshesScheduleCopy(t *testing.T) {
	f := newFixture()
	_, err := f.manager.Enable(context.Background())
	require.NoError(t, err)

	// Schedules start with the static copy.
	assert.Equal(t, dailyNotification.Body, f.registrar.notes[types.NotifyDailyForecast].Body)

	f.forecaster.data = weatherAt("Bergen", "Moderate rain", 12)
	f.manager.HandleLocation(context.Background(), types.Coordinates{})

	daily := f.registrar.notes[types.NotifyDailyForecast]
	assert.Equal(t, "☀️ Daily Forecast", daily.Title)
	assert.Contains(t, daily.Body, "It's going to be rainy today with a high of 12°C")

	tomorrow := f.registrar.notes[types.NotifyTomorrowForecast]
	assert.Equal(t, "🌙 Tomorrow's Outlook", tomorrow.Title)
	assert.Equal(t, "Planning for tomorrow? Expect Moderate rain with a temperature around 12°C.", tomorrow.Body)

	// The cron specs are untouched by the copy refresh.
	assert.Equal(t, dailySpec, f.registrar.scheduled[types.NotifyDailyForecast])
	assert.Equal(t, tomorrowSpec, f.registrar.scheduled[types.NotifyTomorrowForecast])
}

func TestBackgroundCheckWhileDisabledLeavesSchedulesAlone(t *testing.T) {
	f := newFixture()
	f.forecaster.data = weatherAt("Bergen", "Moderate rain", 12)

	f.manager.HandleLocation(context.Background(), types.Coordinates{})

	// The rain caution still fires, but no schedule is created for a
	// disabled manager.
	assert.Empty(t, f.registrar.scheduled)
}

func TestPerfectWeatherSendsNothing(t *testing.T) {
	f := newFixture()
	f.forecaster.data = weatherAt("Oslo", "Sunny", 22)

	f.manager.HandleLocation(context.Background(), types.Coordinates{})

	assert.Zero(t, f.sink.count())
}
