package biztime

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tehran(t *testing.T) *time.Location {
	MustInit(DefaultTimezone)
	loc, err := time.LoadLocation("Asia/Tehran")
	require.NoError(t, err)
	return loc
}

func TestStartOfDayUTC(t *testing.T) {
	loc := tehran(t)

	// 2025-11-03 14:30 Tehran (UTC+03:30) starts at 2025-11-02 20:30 UTC.
	in := time.Date(2025, 11, 3, 14, 30, 0, 0, loc)
	assert.Equal(t, time.Date(2025, 11, 2, 20, 30, 0, 0, time.UTC), StartOfDayUTC(in))
}

func TestDayBoundaryReached(t *testing.T) {
	loc := tehran(t)
	deadline := time.Date(2025, 11, 3, 14, 30, 0, 0, loc)

	tests := []struct {
		name string
		now  time.Time
		want bool
	}{
		{"one second before midnight", time.Date(2025, 11, 2, 23, 59, 59, 0, loc), false},
		{"exactly midnight", time.Date(2025, 11, 3, 0, 0, 0, 0, loc), true},
		{"before stored time of day", time.Date(2025, 11, 3, 9, 0, 0, 0, loc), true},
		{"next day", time.Date(2025, 11, 4, 0, 0, 0, 0, loc), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DayBoundaryReached(tt.now.UTC(), deadline.UTC()))
		})
	}
}

func TestIsBeforeToday(t *testing.T) {
	loc := tehran(t)
	now := time.Date(2025, 11, 3, 10, 0, 0, 0, loc)

	assert.True(t, IsBeforeToday(time.Date(2025, 11, 2, 23, 0, 0, 0, loc), now))
	assert.False(t, IsBeforeToday(time.Date(2025, 11, 3, 0, 0, 0, 0, loc), now))
	assert.False(t, IsBeforeToday(time.Date(2025, 12, 1, 0, 0, 0, 0, loc), now))
}

func TestMetadataTimeRoundTrip(t *testing.T) {
	in := time.Date(2025, 5, 1, 8, 15, 0, 0, time.UTC)
	out, err := ParseMetadataTime(FormatMetadataTime(in))
	require.NoError(t, err)
	assert.True(t, in.Equal(out))

	_, err = ParseMetadataTime("yesterday")
	assert.Error(t, err)
}

func TestParseDateInBizTimezone(t *testing.T) {
	tehran(t)
	got, err := ParseDateInBizTimezone("2025-11-03")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 11, 2, 20, 30, 0, 0, time.UTC), got)
}
