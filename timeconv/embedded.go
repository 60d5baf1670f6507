package timeconv

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"
)

// ModelIdentifiers names the astronomical models compiled into the engine.
var ModelIdentifiers = map[string]string{
	"vsop87_series":        "VSOP87D_full_Earth",
	"nutation_model":       "IAU_2000A",
	"mean_obliquity_model": "IAU_2006",
	"delta_t_model":        "Espenak_Meeus",
}

// LeapSecondMetadata describes the provenance of the embedded leap-second
// table.
type LeapSecondMetadata struct {
	Source     string `json:"source"`
	LastUpdate string `json:"last_update"`
	Expires    string `json:"expires"`
}

// EmbeddedLeapSecondMetadata matches the compiled-in table below.
var EmbeddedLeapSecondMetadata = LeapSecondMetadata{
	Source:     "IANA leap-seconds.list",
	LastUpdate: "2017-01-01T00:00:00Z",
	Expires:    "2025-06-28T00:00:00Z",
}

type leapSecondEntry struct {
	threshold   time.Time
	taiMinusUTC int
}

func utcDate(year int, month time.Month) time.Time {
	return time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
}

// Effective TAI-UTC at each UTC threshold moment, 1972 through 2017.
var leapSecondOffsets = []leapSecondEntry{
	{utcDate(1972, time.January), 10},
	{utcDate(1972, time.July), 11},
	{utcDate(1973, time.January), 12},
	{utcDate(1974, time.January), 13},
	{utcDate(1975, time.January), 14},
	{utcDate(1976, time.January), 15},
	{utcDate(1977, time.January), 16},
	{utcDate(1978, time.January), 17},
	{utcDate(1979, time.January), 18},
	{utcDate(1980, time.January), 19},
	{utcDate(1981, time.July), 20},
	{utcDate(1982, time.July), 21},
	{utcDate(1983, time.July), 22},
	{utcDate(1985, time.July), 23},
	{utcDate(1988, time.January), 24},
	{utcDate(1990, time.January), 25},
	{utcDate(1991, time.January), 26},
	{utcDate(1992, time.July), 27},
	{utcDate(1993, time.July), 28},
	{utcDate(1994, time.July), 29},
	{utcDate(1996, time.January), 30},
	{utcDate(1997, time.July), 31},
	{utcDate(1999, time.January), 32},
	{utcDate(2006, time.January), 33},
	{utcDate(2009, time.January), 34},
	{utcDate(2012, time.July), 35},
	{utcDate(2015, time.July), 36},
	{utcDate(2017, time.January), 37},
}

// LeapSecondOffset returns TAI-UTC in whole seconds at the given UTC instant:
// the value at the greatest threshold at or before it, or 0 before 1972.
func LeapSecondOffset(utc time.Time) int {
	t := utc.UTC()
	// first entry strictly after t
	idx := sort.Search(len(leapSecondOffsets), func(i int) bool {
		return leapSecondOffsets[i].threshold.After(t)
	})
	if idx == 0 {
		return 0
	}
	return leapSecondOffsets[idx-1].taiMinusUTC
}

// deltaTSegment is a closed-open decimal-year interval with its fitted
// polynomial. The five segments are the Espenak-Meeus piecewise fit.
type deltaTSegment struct {
	startYear float64
	endYear   float64
	reference string
	evaluate  func(y float64) float64
}

var deltaTSegments = []deltaTSegment{
	{1941, 1961, "t = y - 1950", func(y float64) float64 {
		t := y - 1950
		return 29.07 + 0.407*t - t*t/233 + t*t*t/2547
	}},
	{1961, 1986, "t = y - 1975", func(y float64) float64 {
		t := y - 1975
		return 45.45 + 1.067*t - t*t/260 - t*t*t/718
	}},
	{1986, 2005, "t = y - 2000", func(y float64) float64 {
		t := y - 2000
		return 63.86 + 0.3345*t - 0.060374*t*t + 0.0017275*t*t*t +
			0.000651814*t*t*t*t + 0.00002373599*t*t*t*t*t
	}},
	{2005, 2050, "t = y - 2000", func(y float64) float64 {
		t := y - 2000
		return 62.92 + 0.32217*t + 0.005589*t*t
	}},
	{2050, 2150, "u = (y - 1820) / 100", func(y float64) float64 {
		u := (y - 1820) / 100
		return -20 + 32*u*u - 0.5628*(2150-y)
	}},
}

// EvaluateDeltaT returns delta-T in seconds for a decimal year, or a
// DeltaTOutOfRangeError outside [1941, 2150).
func EvaluateDeltaT(decimalYear float64) (float64, error) {
	for _, seg := range deltaTSegments {
		if decimalYear >= seg.startYear && decimalYear < seg.endYear {
			return seg.evaluate(decimalYear), nil
		}
	}
	return 0, &DeltaTOutOfRangeError{DecimalYear: decimalYear}
}

var (
	tzdbVersionOnce  sync.Once
	tzdbVersionValue string
)

// TzdbVersion reports the IANA tzdata release, resolved once per process on
// the first call, or "system" when the platform does not expose one.
func TzdbVersion() string {
	tzdbVersionOnce.Do(func() {
		tzdbVersionValue = "system"
		dirs := []string{os.Getenv("TZDIR"), "/usr/share/zoneinfo", "/usr/share/lib/zoneinfo"}
		for _, dir := range dirs {
			if dir == "" {
				continue
			}
			raw, err := os.ReadFile(filepath.Join(dir, "+VERSION"))
			if err != nil {
				continue
			}
			if v := strings.TrimSpace(string(raw)); v != "" {
				tzdbVersionValue = v
				return
			}
		}
	})
	return tzdbVersionValue
}
