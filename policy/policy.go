// Package policy enforces the engine's temporal and calendrical scope and
// routes UTC instants to the correct TT conversion path.
package policy

import (
	"fmt"
	"time"
)

const (
	// MinSupportedYear and MaxSupportedYear bound the input range; the
	// solar-term tables and delta-T segments are fitted for this window.
	MinSupportedYear = 1949
	MaxSupportedYear = 2100

	SupportedCalendar = "gregorian"
)

// Route names a TT conversion path.
type Route string

const (
	RoutePost1972LeapSeconds Route = "post_1972_leap_seconds"
	RoutePre1972DeltaT       Route = "pre_1972_delta_t"
)

var routingThreshold = time.Date(1972, time.January, 1, 0, 0, 0, 0, time.UTC)

// YearOutOfRangeError reports a birth year outside the supported window.
type YearOutOfRangeError struct {
	Year int
}

func (e *YearOutOfRangeError) Error() string {
	return fmt.Sprintf("year %d out of supported range (%d-%d)", e.Year, MinSupportedYear, MaxSupportedYear)
}

// Code returns the stable error taxonomy name.
func (e *YearOutOfRangeError) Code() string { return "year_out_of_range" }

// NonGregorianInputError reports a request for an unsupported calendar.
type NonGregorianInputError struct {
	Calendar string
}

func (e *NonGregorianInputError) Error() string {
	return fmt.Sprintf("unsupported calendar %q: only Gregorian input is supported", e.Calendar)
}

// Code returns the stable error taxonomy name.
func (e *NonGregorianInputError) Code() string { return "non_gregorian_input" }

// Policy holds the engine scope decisions.
type Policy struct {
	MinYear               int
	MaxYear               int
	Calendar              string
	AstronomicalModel     string
	ReferenceFrame        string
	OutputScope           string
	AllowInterpretiveness bool
}

// Default returns the engine policy: Gregorian input within 1949-2100,
// VSOP87D full Earth series with IAU 2000A nutation, Four Pillars output only.
func Default() Policy {
	return Policy{
		MinYear:           MinSupportedYear,
		MaxYear:           MaxSupportedYear,
		Calendar:          SupportedCalendar,
		AstronomicalModel: "vsop87d_full_earth_plus_iau2000a",
		ReferenceFrame:    "geocentric_apparent_ecliptic_longitude",
		OutputScope:       "four_pillars_only",
	}
}

// ValidateYear rejects years outside the supported window.
func (p Policy) ValidateYear(year int) error {
	if year < p.MinYear || year > p.MaxYear {
		return &YearOutOfRangeError{Year: year}
	}
	return nil
}

// ValidateCalendar rejects non-Gregorian calendars.
func (p Policy) ValidateCalendar(calendar string) error {
	if calendar != p.Calendar {
		return &NonGregorianInputError{Calendar: calendar}
	}
	return nil
}

// ValidateOutputScope rejects requests for interpretive layers; the engine
// computes pillars and intermediates only.
func (p Policy) ValidateOutputScope(includeInterpretiveLayers bool) error {
	if includeInterpretiveLayers && !p.AllowInterpretiveness {
		return fmt.Errorf("interpretive layers are out of scope")
	}
	return nil
}

// RouteTimeConversion selects the TT conversion path for a UTC instant. The
// split is 1972-01-01T00:00:00Z, inclusive on the leap-second side.
func RouteTimeConversion(utc time.Time) Route {
	if !utc.UTC().Before(routingThreshold) {
		return RoutePost1972LeapSeconds
	}
	return RoutePre1972DeltaT
}
