// Package integrity evaluates how trustworthy a computed chart is: model
// uncertainty, boundary proximity, and the zi-hour ambiguity window.
package integrity

import (
	"time"
)

// ModelUncertaintySeconds is the modelling uncertainty budget for a birth
// year: the pre-1972 delta-T path carries more than the leap-second path.
func ModelUncertaintySeconds(year int) float64 {
	if year < 1972 {
		return 1.5
	}
	return 0.5
}

// EffectiveUncertaintySeconds combines the model budget with a user-supplied
// birth-time uncertainty.
func EffectiveUncertaintySeconds(modelSeconds, userSeconds float64) float64 {
	if userSeconds > modelSeconds {
		return userSeconds
	}
	return modelSeconds
}

// HourBoundaryDistanceSeconds returns the distance from the basis clock to
// the nearest whole hour, in [0, 1800].
func HourBoundaryDistanceSeconds(basis time.Time) float64 {
	secondsOfHour := float64(basis.Minute())*60 + float64(basis.Second()) + float64(basis.Nanosecond())/1e9
	toNext := 3600 - secondsOfHour
	if secondsOfHour < toNext {
		return secondsOfHour
	}
	return toNext
}

// IsZiHourWindow reports whether the basis clock falls in the 23:00-01:00
// double hour whose day attribution depends on the zi convention.
func IsZiHourWindow(basis time.Time) bool {
	h := basis.Hour()
	return h == 23 || h == 0
}

// Flags is the integrity section of the payload.
type Flags struct {
	ZiHourWindow                 bool    `json:"zi_hour_window"`
	SolarTermAmbiguous           bool    `json:"solar_term_ambiguous"`
	HourBoundaryProximitySeconds float64 `json:"hour_boundary_proximity_seconds"`
	ModelUncertaintySeconds      float64 `json:"model_uncertainty_seconds"`
	HighLatitudeWarning          bool    `json:"high_latitude_warning"`
}
