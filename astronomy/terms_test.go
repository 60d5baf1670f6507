package astronomy

import (
	"context"
	"math"
	"sort"
	"testing"
	"time"

	"github.com/mikkokotila/eightchars/timeconv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindSolarTermSelfConsistency(t *testing.T) {
	ctx := context.Background()
	solver := NewTermSolver()

	jds, err := solver.NearbyJieJDs(ctx, 2024)
	require.NoError(t, err)
	require.Len(t, jds, 36)

	// jds holds three consecutive years of the 12 targets, in target order.
	for i, jd := range jds {
		target := JieTargets[i%len(JieTargets)]
		residual := NormalizeLongitudeDiff(ApparentLongitudeAt(jd) - target)
		assert.Less(t, math.Abs(residual), 1e-5, "target %g", target)
	}
}

func TestJieBoundariesAreRoughlyMonthly(t *testing.T) {
	ctx := context.Background()
	solver := NewTermSolver()

	jds, err := solver.NearbyJieJDs(ctx, 2024)
	require.NoError(t, err)

	sorted := append([]float64(nil), jds...)
	sort.Float64s(sorted)
	for i := 1; i < len(sorted); i++ {
		gap := sorted[i] - sorted[i-1]
		assert.Greater(t, gap, 28.0, "gap %d", i)
		assert.Less(t, gap, 32.5, "gap %d", i)
	}
}

// Reference boundary instants in UTC, Hong Kong Observatory published times
// rounded to the minute.
func TestSolarTermsAgainstReferenceInstants(t *testing.T) {
	ctx := context.Background()
	solver := NewTermSolver()

	references := []struct {
		name      string
		targetDeg float64
		year      int
		utc       time.Time
	}{
		{"lichun 2020", 315, 2020, time.Date(2020, 2, 4, 9, 3, 0, 0, time.UTC)},
		{"lichun 2023", 315, 2023, time.Date(2023, 2, 4, 2, 43, 0, 0, time.UTC)},
		{"lichun 2024", 315, 2024, time.Date(2024, 2, 4, 8, 27, 0, 0, time.UTC)},
		{"lichun 1988", 315, 1988, time.Date(1988, 2, 4, 14, 43, 0, 0, time.UTC)},
		{"qingming 2024", 15, 2024, time.Date(2024, 4, 4, 7, 2, 0, 0, time.UTC)},
		{"liqiu 2024", 135, 2024, time.Date(2024, 8, 7, 0, 9, 0, 0, time.UTC)},
	}

	var totalError float64
	for _, ref := range references {
		t.Run(ref.name, func(t *testing.T) {
			month, day, ok := TermSeedMonthDay(ref.targetDeg)
			require.True(t, ok)
			seed := JulianDateUTC(time.Date(ref.year, time.Month(month), day, 0, 0, 0, 0, time.UTC))

			jd, err := solver.FindSolarTerm(ctx, ref.targetDeg, seed)
			require.NoError(t, err)

			// The solve is in TT; shift back to UTC for comparison.
			tt, err := timeconv.ConvertUTCToTT(ref.utc)
			require.NoError(t, err)
			computedUTC := JDToTime(jd - tt.TTMinusUTCSeconds/SecondsPerDay)

			errorSeconds := math.Abs(computedUTC.Sub(ref.utc).Seconds())
			assert.LessOrEqual(t, errorSeconds, 420.0, "computed %s", computedUTC)
			totalError += errorSeconds
		})
	}
	assert.LessOrEqual(t, totalError/float64(len(references)), 180.0)
}

func TestLichunJDFallsEarlyFebruary(t *testing.T) {
	ctx := context.Background()
	solver := NewTermSolver()

	for _, year := range []int{1950, 1988, 2000, 2024, 2050} {
		jd, err := solver.LichunJD(ctx, year)
		require.NoError(t, err)

		utc := JDToTime(jd)
		assert.Equal(t, year, utc.Year())
		assert.Equal(t, time.February, utc.Month())
		assert.InDelta(t, 4, float64(utc.Day()), 1.0, "year %d", year)
	}
}

func TestNearestJieDistanceSeconds(t *testing.T) {
	distance, err := NearestJieDistanceSeconds(100.5, []float64{99.0, 100.75, 103.0})
	require.NoError(t, err)
	assert.InDelta(t, 0.25*SecondsPerDay, distance, 1e-6)

	_, err = NearestJieDistanceSeconds(100.5, nil)
	require.Error(t, err)
}
