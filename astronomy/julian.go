package astronomy

import (
	"math"
	"time"
)

const (
	// J2000 is the Julian date of the J2000.0 epoch (2000-01-01T12:00 TT).
	J2000 = 2451545.0

	SecondsPerDay = 86400.0

	// unixEpochJD is the Julian date of 1970-01-01T00:00:00Z.
	unixEpochJD = 2440587.5

	DegToRad = math.Pi / 180
	RadToDeg = 180 / math.Pi
)

// JulianDateUTC converts a civil Gregorian UTC instant to a Julian date
// using the Meeus civil-to-JD rule.
func JulianDateUTC(t time.Time) float64 {
	u := t.UTC()
	year := u.Year()
	month := int(u.Month())
	dayFraction := float64(u.Day()) +
		(float64(u.Hour())+(float64(u.Minute())+(float64(u.Second())+float64(u.Nanosecond())/1e9)/60)/60)/24

	if month <= 2 {
		year--
		month += 12
	}

	a := year / 100
	b := 2 - a + a/4
	return math.Floor(365.25*float64(year+4716)) +
		math.Floor(30.6001*float64(month+1)) +
		dayFraction + float64(b) - 1524.5
}

// JDToTime converts a Julian date to the corresponding UTC instant.
func JDToTime(jd float64) time.Time {
	seconds := (jd - unixEpochJD) * SecondsPerDay
	whole := math.Floor(seconds)
	nanos := (seconds - whole) * 1e9
	return time.Unix(int64(whole), int64(math.Round(nanos))).UTC()
}

// NormalizeDegrees wraps an angle into [0, 360).
func NormalizeDegrees(deg float64) float64 {
	v := math.Mod(deg, 360)
	if v < 0 {
		v += 360
	}
	return v
}
