package timeconv

import (
	"fmt"
	"time"
)

// UnknownTimezoneError reports an IANA zone name the timezone database does
// not recognize.
type UnknownTimezoneError struct {
	Name string
}

func (e *UnknownTimezoneError) Error() string {
	return fmt.Sprintf("unrecognized timezone identifier %q", e.Name)
}

// Code returns the stable error taxonomy name.
func (e *UnknownTimezoneError) Code() string { return "unknown_timezone" }

// AmbiguousTimeError reports a wall-clock time that occurs twice due to a DST
// fall-back. Both candidate UTC instants are carried for guidance.
type AmbiguousTimeError struct {
	EarlierUTC time.Time
	LaterUTC   time.Time
}

func (e *AmbiguousTimeError) Error() string {
	return fmt.Sprintf("local time is ambiguous due to DST fall-back (%s or %s): specify fold=0 (first occurrence) or fold=1 (second)",
		e.EarlierUTC.Format(time.RFC3339), e.LaterUTC.Format(time.RFC3339))
}

// Code returns the stable error taxonomy name.
func (e *AmbiguousTimeError) Code() string { return "ambiguous_time" }

// NonexistentTimeError reports a wall-clock time skipped by a DST spring-forward.
type NonexistentTimeError struct {
	Zone string
}

func (e *NonexistentTimeError) Error() string {
	return fmt.Sprintf("local time does not exist in %s due to DST transition: provide a UTC timestamp directly", e.Zone)
}

// Code returns the stable error taxonomy name.
func (e *NonexistentTimeError) Code() string { return "nonexistent_time" }

// MissingLocalFieldsError reports a local-mode input missing date, time, or
// timezone fields.
type MissingLocalFieldsError struct{}

func (e *MissingLocalFieldsError) Error() string {
	return "local time mode requires date, time, and timezone fields"
}

// Code returns the stable error taxonomy name.
func (e *MissingLocalFieldsError) Code() string { return "missing_local_fields" }

// InvalidLatitudeError reports a latitude outside [-90, 90].
type InvalidLatitudeError struct {
	Latitude float64
}

func (e *InvalidLatitudeError) Error() string {
	return fmt.Sprintf("invalid latitude %g: must be within [-90, 90]", e.Latitude)
}

// Code returns the stable error taxonomy name.
func (e *InvalidLatitudeError) Code() string { return "invalid_latitude" }

// InvalidLongitudeError reports a longitude outside [-180, 180].
type InvalidLongitudeError struct {
	Longitude float64
}

func (e *InvalidLongitudeError) Error() string {
	return fmt.Sprintf("invalid longitude %g: must be within [-180, 180]", e.Longitude)
}

// Code returns the stable error taxonomy name.
func (e *InvalidLongitudeError) Code() string { return "invalid_longitude" }

// DeltaTOutOfRangeError reports a decimal year outside the fitted delta-T
// segments.
type DeltaTOutOfRangeError struct {
	DecimalYear float64
}

func (e *DeltaTOutOfRangeError) Error() string {
	return fmt.Sprintf("decimal year %.3f outside supported delta-T segments [1941, 2150)", e.DecimalYear)
}

// Code returns the stable error taxonomy name.
func (e *DeltaTOutOfRangeError) Code() string { return "delta_t_out_of_range" }
