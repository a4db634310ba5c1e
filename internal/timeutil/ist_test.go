package timeutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToIST(t *testing.T) {
	utc := time.Date(2026, time.March, 14, 20, 0, 0, 0, time.UTC)

	ist := ToIST(utc)

	// IST is UTC+05:30, so 20:00 UTC is 01:30 the next day.
	assert.Equal(t, 15, ist.Day())
	assert.Equal(t, 1, ist.Hour())
	assert.Equal(t, 30, ist.Minute())
	assert.True(t, ist.Equal(utc), "conversion changes zone, not instant")
}

func TestParseInIST(t *testing.T) {
	parsed, err := ParseInIST(DateLayout, "2026-03-14")
	require.NoError(t, err)

	assert.Equal(t, "2026-03-14", FormatIST(parsed, DateLayout))
	_, offset := parsed.Zone()
	assert.Equal(t, 5*3600+1800, offset)
}

func TestStartAndEndOfDay(t *testing.T) {
	ist := ToIST(time.Date(2026, time.March, 14, 13, 45, 12, 0, time.UTC))

	start := StartOfDay(ist)
	end := EndOfDay(ist)

	assert.Equal(t, 0, start.Hour())
	assert.Equal(t, 0, start.Minute())
	assert.Equal(t, 23, end.Hour())
	assert.Equal(t, 59, end.Minute())
	assert.Equal(t, start.Day(), end.Day())
}

func TestStartOfMonth(t *testing.T) {
	ist := ToIST(time.Date(2026, time.March, 14, 13, 45, 12, 0, time.UTC))

	start := StartOfMonth(ist)

	assert.Equal(t, 1, start.Day())
	assert.Equal(t, time.March, start.Month())
	assert.Equal(t, 0, start.Hour())
}
