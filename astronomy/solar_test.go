package astronomy

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestComputeSolarPositionCanonicalInstant(t *testing.T) {
	utc := time.Date(1988, 2, 4, 8, 30, 0, 0, time.UTC)
	ttMinusUTC := 56.184 // TAI-UTC was 24 s in early 1988

	pos := ComputeSolarPosition(utc, 104.066, ttMinusUTC)

	assert.InDelta(t, JulianDateUTC(utc)+ttMinusUTC/SecondsPerDay, pos.JDTT, 1e-9)

	// Early February: just short of the Lichun boundary at 315 degrees.
	assert.Greater(t, pos.ApparentLongitudeDeg, 313.0)
	assert.Less(t, pos.ApparentLongitudeDeg, 315.0)

	// The equation of time bottoms out near -14 minutes in mid February.
	assert.InDelta(t, -14.0, pos.EquationOfTimeMinutes, 1.0)

	// LMST shifts the UTC clock by longitude/15 hours (~6h56m east).
	assert.Equal(t, 15, pos.LocalMeanSolarTime.Hour())
	assert.InDelta(t, 26, float64(pos.LocalMeanSolarTime.Minute()), 1.5)

	// TST trails LMST by the (negative) equation of time.
	assert.Equal(t, 15, pos.TrueSolarTime.Hour())
	assert.InDelta(t, 12, float64(pos.TrueSolarTime.Minute()), 2)
}

func TestEquationOfTimeStaysWithinAnnualEnvelope(t *testing.T) {
	for day := 0; day < 365; day += 3 {
		utc := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC).AddDate(0, 0, day)
		pos := ComputeSolarPosition(utc, 0, 69.184)
		assert.Greater(t, pos.EquationOfTimeMinutes, -15.0, "day %d", day)
		assert.Less(t, pos.EquationOfTimeMinutes, 17.5, "day %d", day)
	}
}

func TestObliquityNearKnownValue(t *testing.T) {
	// Mean obliquity at J2000.0 is 23 deg 26' 21.406".
	assert.InDelta(t, 84381.406, MeanObliquityArcsec(0), 1e-9)

	_, deltaEps := Nutation(0)
	eps := TrueObliquityRad(0, deltaEps)
	assert.InDelta(t, 23.44*DegToRad, eps, 0.01*DegToRad)
}

func TestNutationMagnitudesStayBounded(t *testing.T) {
	// Both components oscillate inside the principal-term envelope.
	for i := 0; i < 100; i++ {
		tc := -0.5 + float64(i)*0.01 // 1950..2050
		dpsi, deps := Nutation(tc)
		assert.Less(t, dpsi, 20.0)
		assert.Greater(t, dpsi, -20.0)
		assert.Less(t, deps, 10.5)
		assert.Greater(t, deps, -10.5)
	}
}

func TestWestwardLongitudeShiftsClockBack(t *testing.T) {
	utc := time.Date(2023, 11, 5, 6, 30, 0, 0, time.UTC)
	pos := ComputeSolarPosition(utc, -74.006, 69.184)

	assert.True(t, pos.LocalMeanSolarTime.Before(utc))
	// -74.006/15 hours is about -4h56m.
	assert.Equal(t, 1, pos.LocalMeanSolarTime.Hour())
}
