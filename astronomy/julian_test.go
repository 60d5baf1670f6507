package astronomy

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestJulianDateUTCKnownEpochs(t *testing.T) {
	tests := []struct {
		name string
		utc  time.Time
		want float64
	}{
		{"J2000 epoch", time.Date(2000, 1, 1, 12, 0, 0, 0, time.UTC), 2451545.0},
		{"J2000 midnight", time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC), 2451544.5},
		{"unix epoch", time.Date(1970, 1, 1, 0, 0, 0, 0, time.UTC), 2440587.5},
		{"sputnik launch day", time.Date(1957, 10, 4, 19, 26, 24, 0, time.UTC), 2436116.31},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, JulianDateUTC(tt.utc), 1e-6)
		})
	}
}

func TestJDToTimeRoundTrip(t *testing.T) {
	instants := []time.Time{
		time.Date(1950, 3, 15, 6, 45, 30, 0, time.UTC),
		time.Date(1988, 2, 4, 8, 30, 0, 0, time.UTC),
		time.Date(2024, 12, 31, 23, 59, 59, 0, time.UTC),
	}
	for _, instant := range instants {
		back := JDToTime(JulianDateUTC(instant))
		assert.WithinDuration(t, instant, back, time.Millisecond)
	}
}

func TestNormalizeDegrees(t *testing.T) {
	assert.InDelta(t, 0.0, NormalizeDegrees(360), 1e-12)
	assert.InDelta(t, 359.0, NormalizeDegrees(-1), 1e-12)
	assert.InDelta(t, 45.0, NormalizeDegrees(405), 1e-12)
	assert.InDelta(t, 180.0, NormalizeDegrees(-180), 1e-12)

	for _, deg := range []float64{-720.5, -0.001, 0, 123.456, 719.999} {
		got := NormalizeDegrees(deg)
		assert.GreaterOrEqual(t, got, 0.0)
		assert.Less(t, got, 360.0)
	}
}
