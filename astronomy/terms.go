package astronomy

import (
	"context"
	"fmt"
	"time"

	"github.com/mikkokotila/eightchars/observability"
	"go.opentelemetry.io/otel/attribute"
)

// DefaultTermToleranceSeconds is the solar-term solve tolerance on the time
// axis.
const DefaultTermToleranceSeconds = 0.01

// JieTargets lists the 12 sectioning solar-term longitudes in month order
// starting from Lichun.
var JieTargets = [12]float64{315, 345, 15, 45, 75, 105, 135, 165, 195, 225, 255, 285}

// LichunLongitudeDeg marks the sexagenary year boundary.
const LichunLongitudeDeg = 315.0

// TermLabelByTarget names each jie boundary for payload reporting.
var TermLabelByTarget = map[float64]string{
	315: "lichun_315",
	345: "jingzhe_345",
	15:  "qingming_15",
	45:  "lixia_45",
	75:  "mangzhong_75",
	105: "xiaoshu_105",
	135: "liqiu_135",
	165: "bailu_165",
	195: "hanlu_195",
	225: "lidong_225",
	255: "daxue_255",
	285: "xiaohan_285",
}

// termSeedMonthDay seeds the bracketing scan close to each boundary's usual
// civil date.
var termSeedMonthDay = map[float64][2]int{
	285: {1, 5},
	315: {2, 4},
	345: {3, 6},
	15:  {4, 5},
	45:  {5, 6},
	75:  {6, 6},
	105: {7, 7},
	135: {8, 7},
	165: {9, 7},
	195: {10, 8},
	225: {11, 7},
	255: {12, 7},
}

// TermSeedMonthDay exposes the seed (month, day) for a jie target.
func TermSeedMonthDay(targetDeg float64) (month, day int, ok bool) {
	md, ok := termSeedMonthDay[targetDeg]
	return md[0], md[1], ok
}

// TermSolver finds the TT instants where the apparent solar longitude equals
// jie boundary targets.
type TermSolver struct {
	observer         observability.ObserverInterface
	toleranceSeconds float64
}

// NewTermSolver creates a TermSolver with the default tolerance.
func NewTermSolver() *TermSolver {
	return &TermSolver{
		observer:         observability.Observer(),
		toleranceSeconds: DefaultTermToleranceSeconds,
	}
}

// FindSolarTerm solves lambda(JD_TT) = target (mod 360) near seedJD.
func (ts *TermSolver) FindSolarTerm(ctx context.Context, targetDeg, seedJD float64) (float64, error) {
	_, span := ts.observer.CreateSpan(ctx, "TermSolver.FindSolarTerm")
	defer span.End()

	span.SetAttributes(
		attribute.Float64("target_longitude_deg", targetDeg),
		attribute.Float64("seed_jd", seedJD),
	)

	a, b, err := FindBracket(targetDeg, seedJD, ApparentLongitudeAt)
	if err != nil {
		span.RecordError(err)
		return 0, err
	}

	xtolDays := ts.toleranceSeconds / SecondsPerDay
	root, err := Brent(func(jd float64) float64 {
		return NormalizeLongitudeDiff(ApparentLongitudeAt(jd) - targetDeg)
	}, a, b, xtolDays)
	if err != nil {
		span.RecordError(err)
		return 0, fmt.Errorf("solar term %g from seed JD %f: %w", targetDeg, seedJD, err)
	}

	span.SetAttributes(attribute.Float64("term_jd_tt", root))
	return root, nil
}

// LichunJD returns the TT Julian date of Lichun (315 degrees) for a civil
// year, seeded at February 4 of that year.
func (ts *TermSolver) LichunJD(ctx context.Context, civilYear int) (float64, error) {
	seed := JulianDateUTC(time.Date(civilYear, time.February, 4, 0, 0, 0, 0, time.UTC))
	return ts.FindSolarTerm(ctx, LichunLongitudeDeg, seed)
}

// NearbyJieJDs solves every jie boundary for the civil year and its two
// neighbours, bounding the nearest-boundary distance for any birth within
// the year.
func (ts *TermSolver) NearbyJieJDs(ctx context.Context, civilYear int) ([]float64, error) {
	ctx, span := ts.observer.CreateSpan(ctx, "TermSolver.NearbyJieJDs")
	defer span.End()

	span.SetAttributes(attribute.Int("civil_year", civilYear))

	jds := make([]float64, 0, 36)
	for _, year := range []int{civilYear - 1, civilYear, civilYear + 1} {
		for _, target := range JieTargets {
			seedMD := termSeedMonthDay[target]
			seed := JulianDateUTC(time.Date(year, time.Month(seedMD[0]), seedMD[1], 0, 0, 0, 0, time.UTC))
			jd, err := ts.FindSolarTerm(ctx, target, seed)
			if err != nil {
				span.RecordError(err)
				return nil, err
			}
			jds = append(jds, jd)
		}
	}

	span.SetAttributes(attribute.Int("term_count", len(jds)))
	return jds, nil
}

// NearestJieDistanceSeconds returns the smallest absolute distance from the
// birth instant to any of the candidate boundary instants, in seconds.
func NearestJieDistanceSeconds(birthJDTT float64, termJDs []float64) (float64, error) {
	if len(termJDs) == 0 {
		return 0, fmt.Errorf("term candidate list must not be empty")
	}
	min := -1.0
	for _, jd := range termJDs {
		d := birthJDTT - jd
		if d < 0 {
			d = -d
		}
		if min < 0 || d < min {
			min = d
		}
	}
	return min * SecondsPerDay, nil
}
