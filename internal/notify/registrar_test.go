package notify

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"skycast/internal/types"
)

func newTestRegistrar(weekly bool) *CronRegistrar {
	return NewCronRegistrar(CronRegistrarConfig{
		Sink:           &fakeSink{},
		SupportsWeekly: weekly,
	})
}

func TestCronRegistrarBookkeeping(t *testing.T) {
	r := newTestRegistrar(true)
	defer r.Stop()

	require.NoError(t, r.Schedule(types.NotifyDailyForecast, dailySpec, dailyNotification))
	require.NoError(t, r.Schedule(types.NotifyTomorrowForecast, tomorrowSpec, tomorrowNotification))
	assert.ElementsMatch(t,
		[]types.NotificationKind{types.NotifyDailyForecast, types.NotifyTomorrowForecast},
		r.Scheduled())

	// Re-scheduling the same kind replaces rather than duplicates.
	require.NoError(t, r.Schedule(types.NotifyDailyForecast, dailySpec, dailyNotification))
	assert.Len(t, r.Scheduled(), 2)

	r.CancelAll()
	assert.Empty(t, r.Scheduled())
}

func TestCronRegistrarRejectsBadSpec(t *testing.T) {
	r := newTestRegistrar(true)
	defer r.Stop()

	err := r.Schedule(types.NotifyDailyForecast, "every day at eight", dailyNotification)
	require.Error(t, err)
	assert.Empty(t, r.Scheduled())
}

func TestCronRegistrarWeeklySupport(t *testing.T) {
	withWeekly := newTestRegistrar(true)
	defer withWeekly.Stop()
	assert.True(t, withWeekly.SupportsWeekly())

	without := newTestRegistrar(false)
	defer without.Stop()
	assert.False(t, without.SupportsWeekly())
}
