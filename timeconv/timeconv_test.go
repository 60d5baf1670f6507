package timeconv

import (
	"math"
	"testing"
	"time"

	"github.com/mikkokotila/eightchars/conventions"
	"github.com/mikkokotila/eightchars/policy"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func localInput(year, month, day, hour, minute, second int, zone string) BirthInput {
	return BirthInput{
		Year:         year,
		Month:        month,
		Day:          day,
		Hour:         hour,
		Minute:       minute,
		Second:       second,
		TimezoneName: zone,
		Conventions:  conventions.Default(),
	}
}

func TestLeapSecondOffsetLookup(t *testing.T) {
	tests := []struct {
		name string
		utc  time.Time
		want int
	}{
		{"before first threshold", time.Date(1971, 12, 31, 23, 59, 59, 0, time.UTC), 0},
		{"first threshold", time.Date(1972, 1, 1, 0, 0, 0, 0, time.UTC), 10},
		{"mid 1972", time.Date(1972, 6, 30, 0, 0, 0, 0, time.UTC), 10},
		{"after 1972 july step", time.Date(1972, 7, 1, 0, 0, 0, 0, time.UTC), 11},
		{"1999 plateau", time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC), 32},
		{"last threshold", time.Date(2017, 1, 1, 0, 0, 0, 0, time.UTC), 37},
		{"beyond table", time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC), 37},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, LeapSecondOffset(tt.utc))
		})
	}
}

func TestLeapSecondStepIsExactlyOne(t *testing.T) {
	thresholds := []time.Time{
		time.Date(1972, 7, 1, 0, 0, 0, 0, time.UTC),
		time.Date(1985, 7, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2006, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2017, 1, 1, 0, 0, 0, 0, time.UTC),
	}
	for _, threshold := range thresholds {
		before := LeapSecondOffset(threshold.Add(-time.Second))
		after := LeapSecondOffset(threshold)
		assert.Equal(t, before+1, after, "threshold %s", threshold)
	}
}

func TestEvaluateDeltaTAnchors(t *testing.T) {
	got, err := EvaluateDeltaT(1950.0)
	require.NoError(t, err)
	assert.InDelta(t, 29.07, got, 1e-9)

	got, err = EvaluateDeltaT(2000.0)
	require.NoError(t, err)
	assert.InDelta(t, 63.86, got, 1e-9)
}

func TestEvaluateDeltaTContinuityAtSegmentJoins(t *testing.T) {
	// Interior joins of the piecewise fit agree within the published
	// tolerance of the fit itself.
	for _, year := range []float64{1961, 1986, 2005, 2050} {
		left, err := EvaluateDeltaT(year - 1e-9)
		require.NoError(t, err)
		right, err := EvaluateDeltaT(year)
		require.NoError(t, err)
		assert.LessOrEqual(t, math.Abs(left-right), 0.2, "join at %v", year)
	}
}

func TestEvaluateDeltaTOutOfRange(t *testing.T) {
	for _, year := range []float64{1940.999, 2150.0, 1820.0} {
		_, err := EvaluateDeltaT(year)
		require.Error(t, err, "year %v", year)

		var rangeErr *DeltaTOutOfRangeError
		require.ErrorAs(t, err, &rangeErr)
		assert.Equal(t, "delta_t_out_of_range", rangeErr.Code())
	}
}

func TestDecimalYear(t *testing.T) {
	assert.InDelta(t, 1950.0, DecimalYear(time.Date(1950, 1, 1, 0, 0, 0, 0, time.UTC)), 1e-12)

	mid := DecimalYear(time.Date(2023, 7, 2, 12, 0, 0, 0, time.UTC))
	assert.InDelta(t, 2023.5, mid, 0.01)

	// Leap year fraction uses the actual 366-day span.
	end := DecimalYear(time.Date(2024, 12, 31, 23, 59, 59, 0, time.UTC))
	assert.Greater(t, end, 2024.99)
	assert.Less(t, end, 2025.0)
}

func TestConvertUTCToTTModernUsesLeapSeconds(t *testing.T) {
	result, err := ConvertUTCToTT(time.Date(2020, 5, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	assert.Equal(t, MethodLeapSeconds, result.Method)
	assert.InDelta(t, 69.184, result.TTMinusUTCSeconds, 1e-9)
	assert.Equal(t, result.TTMinusUTCSeconds, result.DeltaTSeconds)
	assert.Equal(t, policy.RoutePost1972LeapSeconds, policy.RouteTimeConversion(time.Date(2020, 5, 1, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, "IANA leap-seconds.list", result.LeapSecondMetadata.Source)
}

func TestConvertUTCToTTPre1972UsesDeltaT(t *testing.T) {
	result, err := ConvertUTCToTT(time.Date(1950, 1, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	assert.Equal(t, MethodDeltaT, result.Method)
	assert.InDelta(t, 29.07, result.TTMinusUTCSeconds, 0.01)
	assert.Equal(t, result.TTMinusUTCSeconds, result.DeltaTSeconds)
}

func TestTTMinusUTCStepsAcrossLeapThreshold(t *testing.T) {
	before, err := ConvertUTCToTT(time.Date(2016, 12, 31, 23, 59, 59, 0, time.UTC))
	require.NoError(t, err)
	after, err := ConvertUTCToTT(time.Date(2017, 1, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	assert.InDelta(t, 1.0, after.TTMinusUTCSeconds-before.TTMinusUTCSeconds, 1e-9)
}

func TestNormalizePlainLocalTime(t *testing.T) {
	normalized, err := Normalize(localInput(1988, 2, 4, 16, 30, 0, "Asia/Shanghai"))
	require.NoError(t, err)

	assert.True(t, normalized.UTCTime.Equal(time.Date(1988, 2, 4, 8, 30, 0, 0, time.UTC)))
	assert.True(t, normalized.HasCivilLocal())
	assert.True(t, normalized.CivilLocal.Equal(time.Date(1988, 2, 4, 16, 30, 0, 0, time.UTC)))
	assert.Equal(t, "Asia/Shanghai", normalized.TimezoneName)
	assert.False(t, normalized.HighLatitudeWarning)
	assert.NotEmpty(t, normalized.TzdbVersion)
}

func TestNormalizeDSTGapIsNonexistent(t *testing.T) {
	_, err := Normalize(localInput(2023, 3, 12, 2, 30, 0, "America/New_York"))
	require.Error(t, err)

	var gapErr *NonexistentTimeError
	require.ErrorAs(t, err, &gapErr)
	assert.Equal(t, "nonexistent_time", gapErr.Code())
}

func TestNormalizeDSTFoldRequiresSelector(t *testing.T) {
	_, err := Normalize(localInput(2023, 11, 5, 1, 30, 0, "America/New_York"))
	require.Error(t, err)

	var ambErr *AmbiguousTimeError
	require.ErrorAs(t, err, &ambErr)
	assert.Equal(t, "ambiguous_time", ambErr.Code())
	assert.Equal(t, time.Hour, ambErr.LaterUTC.Sub(ambErr.EarlierUTC))
}

func TestNormalizeDSTFoldSelection(t *testing.T) {
	fold0 := 0
	input0 := localInput(2023, 11, 5, 1, 30, 0, "America/New_York")
	input0.Fold = &fold0
	first, err := Normalize(input0)
	require.NoError(t, err)

	fold1 := 1
	input1 := localInput(2023, 11, 5, 1, 30, 0, "America/New_York")
	input1.Fold = &fold1
	second, err := Normalize(input1)
	require.NoError(t, err)

	assert.Equal(t, time.Hour, second.UTCTime.Sub(first.UTCTime))
	assert.True(t, first.UTCTime.Before(second.UTCTime))
}

func TestNormalizeUnknownTimezone(t *testing.T) {
	_, err := Normalize(localInput(2000, 6, 1, 12, 0, 0, "Mars/Olympus_Mons"))
	require.Error(t, err)

	var tzErr *UnknownTimezoneError
	require.ErrorAs(t, err, &tzErr)
	assert.Equal(t, "unknown_timezone", tzErr.Code())
}

func TestNormalizeMissingLocalFields(t *testing.T) {
	input := BirthInput{Conventions: conventions.Default()}
	_, err := Normalize(input)
	require.Error(t, err)

	var missingErr *MissingLocalFieldsError
	require.ErrorAs(t, err, &missingErr)
	assert.Equal(t, "missing_local_fields", missingErr.Code())
}

func TestNormalizeCoordinateValidation(t *testing.T) {
	input := localInput(2000, 6, 1, 12, 0, 0, "UTC")
	input.Latitude = 91
	_, err := Normalize(input)
	var latErr *InvalidLatitudeError
	require.ErrorAs(t, err, &latErr)
	assert.Equal(t, "invalid_latitude", latErr.Code())

	input = localInput(2000, 6, 1, 12, 0, 0, "UTC")
	input.Longitude = -181
	_, err = Normalize(input)
	var lonErr *InvalidLongitudeError
	require.ErrorAs(t, err, &lonErr)
	assert.Equal(t, "invalid_longitude", lonErr.Code())
}

func TestNormalizeYearRange(t *testing.T) {
	_, err := Normalize(localInput(1948, 6, 1, 12, 0, 0, "UTC"))
	var rangeErr *policy.YearOutOfRangeError
	require.ErrorAs(t, err, &rangeErr)

	_, err = Normalize(BirthInput{
		UTCTimestamp: "2101-01-01T00:00:00Z",
		Conventions:  conventions.Default(),
	})
	require.ErrorAs(t, err, &rangeErr)
}

func TestNormalizeUTCMode(t *testing.T) {
	normalized, err := Normalize(BirthInput{
		UTCTimestamp: "1988-02-04T08:30:00Z",
		Longitude:    104.066,
		Latitude:     30.658,
		Conventions:  conventions.Default(),
	})
	require.NoError(t, err)

	assert.True(t, normalized.UTCTime.Equal(time.Date(1988, 2, 4, 8, 30, 0, 0, time.UTC)))
	assert.False(t, normalized.HasCivilLocal())
	assert.Empty(t, normalized.TimezoneName)
	assert.Nil(t, normalized.Fold)
}

func TestNormalizeHighLatitudeWarning(t *testing.T) {
	input := localInput(2000, 6, 1, 12, 0, 0, "UTC")
	input.Latitude = 70
	normalized, err := Normalize(input)
	require.NoError(t, err)
	assert.True(t, normalized.HighLatitudeWarning)

	input.Latitude = -70
	normalized, err = Normalize(input)
	require.NoError(t, err)
	assert.True(t, normalized.HighLatitudeWarning)

	input.Latitude = 45
	normalized, err = Normalize(input)
	require.NoError(t, err)
	assert.False(t, normalized.HighLatitudeWarning)
}
