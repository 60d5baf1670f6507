// Package timeconv normalizes civil wall-clock input to UTC with explicit
// DST gap/fold handling, and converts UTC to Terrestrial Time via the routed
// leap-second / delta-T model.
package timeconv

import (
	"fmt"
	"sort"
	"time"

	"github.com/mikkokotila/eightchars/conventions"
	"github.com/mikkokotila/eightchars/policy"
)

// TTOffsetTAI is TT - TAI in seconds.
const TTOffsetTAI = 32.184

// Conversion method tags recorded in TTConversion.
const (
	MethodLeapSeconds = "leap_seconds"
	MethodDeltaT      = "delta_t"
)

// BirthInput carries a birth instant in one of two modes. Local mode uses
// the date/time fields plus TimezoneName; UTC mode is selected by a
// non-empty UTCTimestamp (RFC 3339, 'Z' accepted) and ignores the local
// fields.
type BirthInput struct {
	Year   int
	Month  int
	Day    int
	Hour   int
	Minute int
	Second int

	TimezoneName string
	Longitude    float64
	Latitude     float64

	// Fold disambiguates a wall-clock time that occurs twice: 0 selects the
	// first UTC occurrence, 1 the second. Nil leaves ambiguity unresolved.
	Fold *int

	UTCTimestamp string

	UncertaintySeconds float64

	Conventions conventions.Settings
}

// NormalizedInput is the resolved form of a BirthInput.
type NormalizedInput struct {
	// UTCTime is the resolved instant.
	UTCTime time.Time
	// CivilLocal holds the naive local wall clock in local mode; the zero
	// time in UTC mode.
	CivilLocal          time.Time
	TimezoneName        string
	Fold                *int
	Longitude           float64
	Latitude            float64
	HighLatitudeWarning bool
	TzdbVersion         string
}

// HasCivilLocal reports whether the input carried a local wall clock.
func (n NormalizedInput) HasCivilLocal() bool { return !n.CivilLocal.IsZero() }

// TTConversion is the result of a UTC -> TT conversion.
type TTConversion struct {
	// TTTime is the naive TT instant (carried in UTC location).
	TTTime time.Time
	// TTMinusUTCSeconds is TT - UTC.
	TTMinusUTCSeconds float64
	// DeltaTSeconds records TT - UTC on both paths; callers needing the pure
	// delta-T must subtract the leap-second and TAI offsets themselves.
	DeltaTSeconds      float64
	Method             string
	LeapSecondMetadata LeapSecondMetadata
}

func parseUTCTimestamp(raw string) (time.Time, error) {
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02T15:04:05Z0700", "2006-01-02T15:04:05"} {
		if t, err := time.Parse(layout, raw); err == nil {
			if layout == "2006-01-02T15:04:05" {
				return time.Time{}, fmt.Errorf("utc_timestamp must include timezone information")
			}
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unparseable utc_timestamp %q", raw)
}

// resolveLocalTime maps a naive wall clock in a named zone onto a UTC
// instant. The two-candidate probe mirrors the fold semantics of the IANA
// zone rules: each plausible UTC offset around the wall time is tried and
// kept iff it round-trips to the same wall clock.
func resolveLocalTime(year, month, day, hour, minute, second int, zoneName string, fold *int) (time.Time, error) {
	loc, err := time.LoadLocation(zoneName)
	if err != nil {
		return time.Time{}, &UnknownTimezoneError{Name: zoneName}
	}

	// Naive wall clock carried in UTC so arithmetic is offset-free.
	wall := time.Date(year, time.Month(month), day, hour, minute, second, 0, time.UTC)

	offsets := make(map[int]struct{}, 3)
	for _, shift := range []time.Duration{-24 * time.Hour, 0, 24 * time.Hour} {
		_, off := wall.Add(shift).In(loc).Zone()
		offsets[off] = struct{}{}
	}

	var matches []time.Time
	for off := range offsets {
		candidate := wall.Add(-time.Duration(off) * time.Second)
		rt := candidate.In(loc)
		if rt.Year() == year && int(rt.Month()) == month && rt.Day() == day &&
			rt.Hour() == hour && rt.Minute() == minute && rt.Second() == second {
			matches = append(matches, candidate)
		}
	}
	sort.Slice(matches, func(i, j int) bool { return matches[i].Before(matches[j]) })
	// Identical offsets can produce duplicate candidates; keep distinct instants.
	distinct := matches[:0]
	for _, m := range matches {
		if len(distinct) == 0 || !m.Equal(distinct[len(distinct)-1]) {
			distinct = append(distinct, m)
		}
	}

	switch len(distinct) {
	case 0:
		return time.Time{}, &NonexistentTimeError{Zone: zoneName}
	case 1:
		return distinct[0], nil
	default:
		if fold == nil {
			return time.Time{}, &AmbiguousTimeError{EarlierUTC: distinct[0], LaterUTC: distinct[1]}
		}
		if *fold == 0 {
			return distinct[0], nil
		}
		return distinct[1], nil
	}
}

// Normalize validates a BirthInput and resolves it to a UTC instant.
func Normalize(input BirthInput) (NormalizedInput, error) {
	if err := input.Conventions.Validate(); err != nil {
		return NormalizedInput{}, err
	}
	if input.Fold != nil && *input.Fold != 0 && *input.Fold != 1 {
		return NormalizedInput{}, fmt.Errorf("fold must be 0 or 1")
	}
	if input.Latitude < -90 || input.Latitude > 90 {
		return NormalizedInput{}, &InvalidLatitudeError{Latitude: input.Latitude}
	}
	if input.Longitude < -180 || input.Longitude > 180 {
		return NormalizedInput{}, &InvalidLongitudeError{Longitude: input.Longitude}
	}

	pol := policy.Default()
	highLatitude := input.Latitude > 66 || input.Latitude < -66
	tzdb := TzdbVersion()

	if input.UTCTimestamp != "" {
		utc, err := parseUTCTimestamp(input.UTCTimestamp)
		if err != nil {
			return NormalizedInput{}, err
		}
		if err := pol.ValidateYear(utc.Year()); err != nil {
			return NormalizedInput{}, err
		}
		return NormalizedInput{
			UTCTime:             utc,
			Longitude:           input.Longitude,
			Latitude:            input.Latitude,
			HighLatitudeWarning: highLatitude,
			TzdbVersion:         tzdb,
		}, nil
	}

	if input.Year == 0 || input.Month == 0 || input.Day == 0 || input.TimezoneName == "" {
		return NormalizedInput{}, &MissingLocalFieldsError{}
	}
	if err := pol.ValidateYear(input.Year); err != nil {
		return NormalizedInput{}, err
	}

	utc, err := resolveLocalTime(input.Year, input.Month, input.Day,
		input.Hour, input.Minute, input.Second, input.TimezoneName, input.Fold)
	if err != nil {
		return NormalizedInput{}, err
	}

	civil := time.Date(input.Year, time.Month(input.Month), input.Day,
		input.Hour, input.Minute, input.Second, 0, time.UTC)

	return NormalizedInput{
		UTCTime:             utc,
		CivilLocal:          civil,
		TimezoneName:        input.TimezoneName,
		Fold:                input.Fold,
		Longitude:           input.Longitude,
		Latitude:            input.Latitude,
		HighLatitudeWarning: highLatitude,
		TzdbVersion:         tzdb,
	}, nil
}

// DecimalYear expresses a UTC instant as a year fraction measured in UTC
// seconds within [Jan 1, next Jan 1).
func DecimalYear(utc time.Time) float64 {
	t := utc.UTC()
	year := t.Year()
	start := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(year+1, time.January, 1, 0, 0, 0, 0, time.UTC)
	elapsed := t.Sub(start).Seconds()
	total := end.Sub(start).Seconds()
	return float64(year) + elapsed/total
}

// ConvertUTCToTT converts a UTC instant to Terrestrial Time. At or after
// 1972-01-01Z, TT - UTC = (TAI - UTC) + 32.184 from the leap-second table;
// before that, the delta-T polynomial stands in for the whole offset.
func ConvertUTCToTT(utc time.Time) (TTConversion, error) {
	t := utc.UTC()
	if policy.RouteTimeConversion(t) == policy.RoutePost1972LeapSeconds {
		ttMinusUTC := float64(LeapSecondOffset(t)) + TTOffsetTAI
		return TTConversion{
			TTTime:             t.Add(time.Duration(ttMinusUTC * float64(time.Second))),
			TTMinusUTCSeconds:  ttMinusUTC,
			DeltaTSeconds:      ttMinusUTC,
			Method:             MethodLeapSeconds,
			LeapSecondMetadata: EmbeddedLeapSecondMetadata,
		}, nil
	}

	deltaT, err := EvaluateDeltaT(DecimalYear(t))
	if err != nil {
		return TTConversion{}, err
	}
	return TTConversion{
		TTTime:             t.Add(time.Duration(deltaT * float64(time.Second))),
		TTMinusUTCSeconds:  deltaT,
		DeltaTSeconds:      deltaT,
		Method:             MethodDeltaT,
		LeapSecondMetadata: EmbeddedLeapSecondMetadata,
	}, nil
}
