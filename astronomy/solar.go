package astronomy

import (
	"math"
	"time"
)

// aberrationConstantArcsec is the annual aberration constant scaled by the
// radius vector: delta = -20.4898/R arcseconds.
const aberrationConstantArcsec = 20.4898

// SolarPosition is the solar state at a TT instant, together with the
// derived local mean and true solar times at a meridian.
type SolarPosition struct {
	JDTT                  float64
	ApparentLongitudeDeg  float64
	BetaDeg               float64
	RadiusAU              float64
	DeltaPsiArcsec        float64
	DeltaEpsilonArcsec    float64
	EpsilonRad            float64
	EquationOfTimeMinutes float64
	// LocalMeanSolarTime and TrueSolarTime are naive wall clocks carried in
	// the UTC location.
	LocalMeanSolarTime time.Time
	TrueSolarTime      time.Time
}

// ApparentSolarLongitude computes the geocentric apparent ecliptic longitude
// of the Sun at a TT Julian date: VSOP87D Earth heliocentric position flipped
// to geocentric, corrected for nutation in longitude and annual aberration.
// It also returns beta, the radius vector, the nutation components, and the
// Julian-century argument used downstream.
func ApparentSolarLongitude(jdTT float64) (lambdaDeg, betaDeg, radiusAU, deltaPsiArcsec, deltaEpsilonArcsec, t float64) {
	tau := (jdTT - J2000) / 365250
	t = (jdTT - J2000) / 36525

	earthL, earthB, radiusAU := EarthHeliocentric(tau)
	thetaDeg := NormalizeDegrees(earthL + 180)
	betaDeg = -earthB

	deltaPsiArcsec, deltaEpsilonArcsec = Nutation(t)
	aberrationDeg := (-aberrationConstantArcsec / radiusAU) / 3600
	lambdaDeg = NormalizeDegrees(thetaDeg + deltaPsiArcsec/3600 + aberrationDeg)
	return lambdaDeg, betaDeg, radiusAU, deltaPsiArcsec, deltaEpsilonArcsec, t
}

// ApparentLongitudeAt is the scalar form used by the root finder.
func ApparentLongitudeAt(jdTT float64) float64 {
	lambda, _, _, _, _, _ := ApparentSolarLongitude(jdTT)
	return lambda
}

// equationOfTimeMinutes derives apparent-minus-mean solar time from the
// apparent longitude, the solar right ascension, and the Sun's mean
// longitude (Meeus chapter 28 form).
func equationOfTimeMinutes(lambdaDeg, betaDeg, radiusAU, deltaPsiArcsec, epsilonRad, t float64) float64 {
	lambdaRad := lambdaDeg * DegToRad
	betaRad := betaDeg * DegToRad

	alpha := math.Atan2(
		math.Sin(lambdaRad)*math.Cos(epsilonRad)-math.Tan(betaRad)*math.Sin(epsilonRad),
		math.Cos(lambdaRad),
	)
	if alpha < 0 {
		alpha += 2 * math.Pi
	}
	alphaDeg := alpha * RadToDeg

	l0Deg := NormalizeDegrees(280.46646 + 36000.76983*t + 0.0003032*t*t)
	eotDeg := l0Deg - alphaDeg +
		(deltaPsiArcsec/3600)*math.Cos(epsilonRad) -
		aberrationConstantArcsec/(3600*radiusAU)
	for eotDeg > 180 {
		eotDeg -= 360
	}
	for eotDeg <= -180 {
		eotDeg += 360
	}
	return eotDeg * 4
}

// ComputeSolarPosition evaluates the full solar state for a UTC instant at a
// birth meridian. TT is obtained by applying ttMinusUTCSeconds to the UTC
// Julian date; LMST is the UTC wall clock shifted by longitude/15 hours and
// TST adds the equation of time.
func ComputeSolarPosition(utc time.Time, longitudeDeg, ttMinusUTCSeconds float64) SolarPosition {
	jdUTC := JulianDateUTC(utc)
	jdTT := jdUTC + ttMinusUTCSeconds/SecondsPerDay

	lambdaDeg, betaDeg, radiusAU, deltaPsi, deltaEpsilon, t := ApparentSolarLongitude(jdTT)
	epsilonRad := TrueObliquityRad(t, deltaEpsilon)
	eotMinutes := equationOfTimeMinutes(lambdaDeg, betaDeg, radiusAU, deltaPsi, epsilonRad, t)

	utcNaive := utc.UTC()
	lmst := utcNaive.Add(time.Duration(longitudeDeg / 15 * float64(time.Hour)))
	tst := lmst.Add(time.Duration(eotMinutes * float64(time.Minute)))

	return SolarPosition{
		JDTT:                  jdTT,
		ApparentLongitudeDeg:  lambdaDeg,
		BetaDeg:               betaDeg,
		RadiusAU:              radiusAU,
		DeltaPsiArcsec:        deltaPsi,
		DeltaEpsilonArcsec:    deltaEpsilon,
		EpsilonRad:            epsilonRad,
		EquationOfTimeMinutes: eotMinutes,
		LocalMeanSolarTime:    lmst,
		TrueSolarTime:         tst,
	}
}
