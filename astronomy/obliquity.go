package astronomy

import "math"

// MeanObliquityArcsec evaluates the IAU 2006 mean obliquity polynomial in
// arcseconds, with t in Julian centuries of TT since J2000.0.
func MeanObliquityArcsec(t float64) float64 {
	return 84381.406 +
		t*(-46.836769+
			t*(-0.0001831+
				t*(0.00200340+
					t*(-0.000000576+
						t*(-0.0000000434)))))
}

// ArcsecToRad converts arcseconds to radians.
func ArcsecToRad(arcsec float64) float64 {
	return arcsec * math.Pi / (180 * 3600)
}

// TrueObliquityRad returns the true obliquity of the ecliptic in radians:
// the IAU 2006 mean value plus the nutation in obliquity.
func TrueObliquityRad(t, deltaEpsilonArcsec float64) float64 {
	return ArcsecToRad(MeanObliquityArcsec(t) + deltaEpsilonArcsec)
}
