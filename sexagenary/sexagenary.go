// Package sexagenary derives the four pillars: stem/branch arithmetic on the
// sexagenary cycle with convention-driven day-boundary and zi-hour policies.
package sexagenary

import (
	"fmt"
	"time"

	"github.com/mikkokotila/eightchars/conventions"
)

// Stems and Branches are the two ordered character sequences of the
// sexagenary cycle.
var Stems = [10]string{"甲", "乙", "丙", "丁", "戊", "己", "庚", "辛", "壬", "癸"}
var Branches = [12]string{"子", "丑", "寅", "卯", "辰", "巳", "午", "未", "申", "酉", "戌", "亥"}

// firstMonthStemByYearStemMod5 gives the stem of the first month (the 寅
// month) for each year-stem class.
var firstMonthStemByYearStemMod5 = [5]int{2, 4, 6, 8, 0}

// ziHourStemByDayStemMod5 gives the stem of the zi hour for each day-stem
// class.
var ziHourStemByDayStemMod5 = [5]int{0, 2, 4, 6, 8}

// PolarityError reports a stem/branch pair with mismatched parity. It is a
// programming error, never reachable on valid input.
type PolarityError struct {
	StemIdx   int
	BranchIdx int
}

func (e *PolarityError) Error() string {
	return fmt.Sprintf("polarity violation: stem=%d, branch=%d", e.StemIdx, e.BranchIdx)
}

// Code returns the stable error taxonomy name.
func (e *PolarityError) Code() string { return "polarity_violation" }

// Pillar is a (stem, branch) pair. Valid pillars satisfy
// stem mod 2 == branch mod 2.
type Pillar struct {
	StemIdx   int
	BranchIdx int
}

// Validate checks the polarity invariant.
func (p Pillar) Validate() error {
	if p.StemIdx%2 != p.BranchIdx%2 {
		return &PolarityError{StemIdx: p.StemIdx, BranchIdx: p.BranchIdx}
	}
	return nil
}

// Stem returns the stem character.
func (p Pillar) Stem() string { return Stems[p.StemIdx] }

// Branch returns the branch character.
func (p Pillar) Branch() string { return Branches[p.BranchIdx] }

// String renders the pillar as its two characters.
func (p Pillar) String() string { return p.Stem() + p.Branch() }

// DayPillarResult is a day pillar with the effective civil date it was
// derived from.
type DayPillarResult struct {
	Pillar        Pillar
	EffectiveDate time.Time
	JDN           int
	Index0        int
}

// mod returns the non-negative remainder of a/n.
func mod(a, n int) int {
	m := a % n
	if m < 0 {
		m += n
	}
	return m
}

// GregorianToJDN computes the integer Julian Day Number at civil noon via
// Fliegel-Van Flandern.
func GregorianToJDN(year, month, day int) int {
	a := (14 - month) / 12
	y := year + 4800 - a
	m := month + 12*a - 3
	return day + (153*m+2)/5 + 365*y + y/4 - y/100 + y/400 - 32045
}

// DayIndexFromJDN maps a JDN onto the 0-based sexagenary day index.
func DayIndexFromJDN(jdn int) int {
	return mod(jdn-11, 60)
}

// YearPillar derives the year pillar. The sexagenary year steps at Lichun:
// a birth before the year's Lichun belongs to the previous year.
func YearPillar(civilYear int, birthJDTT, lichunJDTT float64) (Pillar, int, error) {
	baziYear := civilYear
	if birthJDTT < lichunJDTT {
		baziYear = civilYear - 1
	}
	pillar := Pillar{
		StemIdx:   mod(baziYear-4, 10),
		BranchIdx: mod(baziYear-4, 12),
	}
	if err := pillar.Validate(); err != nil {
		return Pillar{}, 0, err
	}
	return pillar, baziYear, nil
}

// MonthBranchFromLongitude maps an apparent solar longitude onto the month
// branch via the fixed 30-degree jie partition starting at 315.
func MonthBranchFromLongitude(lambdaDeg float64) int {
	lam := lambdaDeg
	for lam < 0 {
		lam += 360
	}
	for lam >= 360 {
		lam -= 360
	}
	switch {
	case lam >= 315 && lam < 345:
		return 2
	case lam >= 345 || lam < 15:
		return 3
	case lam < 45:
		return 4
	case lam < 75:
		return 5
	case lam < 105:
		return 6
	case lam < 135:
		return 7
	case lam < 165:
		return 8
	case lam < 195:
		return 9
	case lam < 225:
		return 10
	case lam < 255:
		return 11
	case lam < 285:
		return 0
	default:
		return 1
	}
}

// MonthPillar derives the month pillar from the apparent solar longitude and
// the year stem (five-tigers rule).
func MonthPillar(lambdaDeg float64, yearStemIdx int) (Pillar, error) {
	branchIdx := MonthBranchFromLongitude(lambdaDeg)
	monthNum := mod(branchIdx-2, 12)
	firstStem := firstMonthStemByYearStemMod5[mod(yearStemIdx, 5)]
	pillar := Pillar{
		StemIdx:   mod(firstStem+monthNum, 10),
		BranchIdx: branchIdx,
	}
	if err := pillar.Validate(); err != nil {
		return Pillar{}, err
	}
	return pillar, nil
}

func dayBasis(civilLocal, trueSolar time.Time, settings conventions.Settings) time.Time {
	if settings.DayBoundaryBasis == conventions.DayBoundaryTrueSolar {
		return trueSolar
	}
	return civilLocal
}

// EffectiveDayDate resolves the calendar date the day pillar is computed on.
// Under whole_zi_23 a basis hour of 23 already belongs to the next day.
func EffectiveDayDate(civilLocal, trueSolar time.Time, settings conventions.Settings) (time.Time, error) {
	if err := settings.Validate(); err != nil {
		return time.Time{}, err
	}
	basis := dayBasis(civilLocal, trueSolar, settings)
	date := time.Date(basis.Year(), basis.Month(), basis.Day(), 0, 0, 0, 0, time.UTC)
	if settings.ZiConvention == conventions.ZiWholeZi23 && basis.Hour() == 23 {
		date = date.AddDate(0, 0, 1)
	}
	return date, nil
}

// DayPillar derives the day pillar on the effective date.
func DayPillar(civilLocal, trueSolar time.Time, settings conventions.Settings) (DayPillarResult, error) {
	date, err := EffectiveDayDate(civilLocal, trueSolar, settings)
	if err != nil {
		return DayPillarResult{}, err
	}
	jdn := GregorianToJDN(date.Year(), int(date.Month()), date.Day())
	idx0 := DayIndexFromJDN(jdn)
	pillar := Pillar{
		StemIdx:   idx0 % 10,
		BranchIdx: idx0 % 12,
	}
	if err := pillar.Validate(); err != nil {
		return DayPillarResult{}, err
	}
	return DayPillarResult{
		Pillar:        pillar,
		EffectiveDate: date,
		JDN:           jdn,
		Index0:        idx0,
	}, nil
}

// HourBranchIndex maps a basis hour onto the double-hour branch. 23 and 0
// both fall in the zi hour.
func HourBranchIndex(hour int) int {
	if hour == 23 || hour == 0 {
		return 0
	}
	return ((hour + 1) / 2) % 12
}

// HourPillar derives the hour pillar from the day stem (five-rats rule) and
// the basis clock selected by the hour-basis convention.
func HourPillar(dayStemIdx int, civilLocal, trueSolar time.Time, settings conventions.Settings) (Pillar, error) {
	basis := civilLocal
	if settings.HourBasis == conventions.HourBasisTrueSolar {
		basis = trueSolar
	}
	branchIdx := HourBranchIndex(basis.Hour())
	ziStem := ziHourStemByDayStemMod5[mod(dayStemIdx, 5)]
	pillar := Pillar{
		StemIdx:   mod(ziStem+branchIdx, 10),
		BranchIdx: branchIdx,
	}
	if err := pillar.Validate(); err != nil {
		return Pillar{}, err
	}
	return pillar, nil
}
