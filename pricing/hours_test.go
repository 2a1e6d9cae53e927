package pricing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func at(hour, minute int) time.Time {
	return time.Date(2024, 3, 15, hour, minute, 0, 0, StoreLocation())
}

func TestIsStoreClosedSameDayWindow(t *testing.T) {
	cases := []struct {
		now    time.Time
		closed bool
	}{
		{at(7, 59), true},
		{at(8, 0), false},
		{at(12, 30), false},
		{at(22, 59), false},
		{at(23, 0), true},
		{at(0, 30), true},
	}
	for _, tc := range cases {
		closed, err := IsStoreClosed(tc.now, "08:00", "23:00")
		require.NoError(t, err)
		assert.Equal(t, tc.closed, closed, tc.now.Format("15:04"))
	}
}

func TestIsStoreClosedWindowPastMidnight(t *testing.T) {
	cases := []struct {
		now    time.Time
		closed bool
	}{
		{at(17, 59), true},
		{at(18, 0), false},
		{at(23, 30), false},
		{at(1, 0), false},
		{at(1, 59), false},
		{at(2, 0), true},
		{at(10, 0), true},
	}
	for _, tc := range cases {
		closed, err := IsStoreClosed(tc.now, "18:00", "02:00")
		require.NoError(t, err)
		assert.Equal(t, tc.closed, closed, tc.now.Format("15:04"))
	}
}

func TestIsStoreClosedEqualTimesAlwaysClosed(t *testing.T) {
	for _, now := range []time.Time{at(0, 0), at(9, 0), at(9, 1), at(21, 0)} {
		closed, err := IsStoreClosed(now, "09:00", "09:00")
		require.NoError(t, err)
		assert.True(t, closed, now.Format("15:04"))
	}
}

func TestIsStoreClosedUsesStoreTimezone(t *testing.T) {
	// 07:30 UTC is 08:30 in Algiers
	now := time.Date(2024, 3, 15, 7, 30, 0, 0, time.UTC)
	closed, err := IsStoreClosed(now, "08:00", "23:00")
	require.NoError(t, err)
	assert.False(t, closed)

	// 22:30 UTC is 23:30 in Algiers
	now = time.Date(2024, 3, 15, 22, 30, 0, 0, time.UTC)
	closed, err = IsStoreClosed(now, "08:00", "23:00")
	require.NoError(t, err)
	assert.True(t, closed)
}

func TestIsStoreClosedMalformedTime(t *testing.T) {
	for _, bad := range [][2]string{{"8h", "23:00"}, {"08:00", "25:00"}, {"", "23:00"}, {"08:00", "23:75"}} {
		_, err := IsStoreClosed(at(12, 0), bad[0], bad[1])
		assert.ErrorIs(t, err, ErrInvalidConfiguration, bad)
	}
}

func TestParseClock(t *testing.T) {
	secs, err := ParseClock("08:30")
	require.NoError(t, err)
	assert.Equal(t, 8*3600+30*60, secs)

	secs, err = ParseClock(" 23:00 ")
	require.NoError(t, err)
	assert.Equal(t, 23*3600, secs)
}
