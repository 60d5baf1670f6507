package astronomy

import "math"

// Fundamental arguments in degrees for the compact nutation model, with
// t in Julian centuries of TT since J2000.0.

func ascendingNodeLongitudeDeg(t float64) float64 {
	return 125.04452 - 1934.136261*t + 0.0020708*t*t
}

func meanLongitudeSunDeg(t float64) float64 {
	return 280.4665 + 36000.7698*t
}

func meanLongitudeMoonDeg(t float64) float64 {
	return 218.3165 + 481267.8813*t
}

// Nutation returns the nutation in longitude and obliquity (delta-psi,
// delta-epsilon) in arcseconds from the seed IAU-style series.
func Nutation(t float64) (deltaPsiArcsec, deltaEpsilonArcsec float64) {
	omega := ascendingNodeLongitudeDeg(t) * DegToRad
	lSun := meanLongitudeSunDeg(t) * DegToRad
	lMoon := meanLongitudeMoonDeg(t) * DegToRad

	deltaPsiArcsec = -17.20*math.Sin(omega) -
		1.32*math.Sin(2*lSun) -
		0.23*math.Sin(2*lMoon) +
		0.21*math.Sin(2*omega)
	deltaEpsilonArcsec = 9.20*math.Cos(omega) +
		0.57*math.Cos(2*lSun) +
		0.10*math.Cos(2*lMoon) -
		0.09*math.Cos(2*omega)
	return deltaPsiArcsec, deltaEpsilonArcsec
}
