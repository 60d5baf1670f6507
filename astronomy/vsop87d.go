// Package astronomy is the self-contained astronomical kernel: VSOP87D Earth
// series, IAU nutation and obliquity, apparent solar longitude, equation of
// time, and solar-term boundary solving. No external ephemeris is consulted;
// every table is compiled in.
package astronomy

import "math"

// VSOPTerm is one periodic term contributing A*cos(B + C*tau), with A in
// units of 1e-8 radian (or 1e-8 AU for the radius series).
type VSOPTerm struct {
	A, B, C float64
}

// VSOPSeries is a sequence of power groups; group i is scaled by tau^i.
// The data pack is swappable: any table in this shape evaluates identically.
type VSOPSeries [][]VSOPTerm

// Evaluate sums the series at tau = (JD_TT - J2000) / 365250, returning the
// raw 1e-8-scaled value. Terms are summed smallest-first within each group
// to preserve accuracy.
func (s VSOPSeries) Evaluate(tau float64) float64 {
	total := 0.0
	tpow := 1.0
	for _, group := range s {
		partial := 0.0
		for i := len(group) - 1; i >= 0; i-- {
			term := &group[i]
			partial += term.A * math.Cos(term.B+term.C*tau)
		}
		total += partial * tpow
		tpow *= tau
	}
	return total
}

// EarthHeliocentric evaluates the Earth L/B/R series at tau, returning
// heliocentric ecliptic longitude and latitude in degrees (L wrapped into
// [0, 360)) and the radius vector in AU.
func EarthHeliocentric(tau float64) (lDeg, bDeg, rAU float64) {
	lRad := earthL.Evaluate(tau) * 1e-8
	bRad := earthB.Evaluate(tau) * 1e-8
	rAU = earthR.Evaluate(tau) * 1e-8

	lDeg = NormalizeDegrees(lRad * RadToDeg)
	bDeg = bRad * RadToDeg
	return lDeg, bDeg, rAU
}
