package engine

import (
	"github.com/mikkokotila/eightchars/conventions"
	"github.com/mikkokotila/eightchars/integrity"
	"github.com/mikkokotila/eightchars/output"
	"github.com/mikkokotila/eightchars/timeconv"
)

// CharacterRef is a stem or branch reference: cycle index plus character.
type CharacterRef struct {
	Index   int    `json:"index"`
	Chinese string `json:"chinese"`
}

// PillarView is the serialized form of a pillar.
type PillarView struct {
	Stem   CharacterRef `json:"stem"`
	Branch CharacterRef `json:"branch"`
}

// Boundary describes the proximity of the birth to a pillar's governing
// solar-term boundary.
type Boundary struct {
	Type            string  `json:"type"`
	DistanceSeconds float64 `json:"distance_seconds"`
	Note            string  `json:"note"`
}

// BoundedPillarView is a pillar carrying its boundary record.
type BoundedPillarView struct {
	PillarView
	Boundary Boundary `json:"boundary"`
}

// EngineSection identifies the models and tables behind the computation.
type EngineSection struct {
	Version            string                      `json:"version"`
	Vsop87Series       string                      `json:"vsop87_series"`
	NutationModel      string                      `json:"nutation_model"`
	MeanObliquityModel string                      `json:"mean_obliquity_model"`
	DeltaTModel        string                      `json:"delta_t_model"`
	TzdbVersion        string                      `json:"tzdb_version"`
	LeapSecondTable    timeconv.LeapSecondMetadata `json:"leap_second_table"`
}

// InputSection echoes the request.
type InputSection struct {
	Date               string               `json:"date"`
	Time               string               `json:"time"`
	Timezone           *string              `json:"timezone"`
	Fold               *int                 `json:"fold"`
	Longitude          float64              `json:"longitude"`
	Latitude           float64              `json:"latitude"`
	UncertaintySeconds *float64             `json:"birth_time_uncertainty_seconds"`
	Conventions        conventions.Settings `json:"conventions"`
}

// IntermediateSection exposes the astronomical state the pillars were
// derived from.
type IntermediateSection struct {
	UTCTime               string  `json:"utc_time"`
	DeltaTSeconds         float64 `json:"delta_t_seconds"`
	TTConversionMethod    string  `json:"tt_conversion_method"`
	TTJulianDate          float64 `json:"tt_julian_date"`
	SolarLongitudeDeg     float64 `json:"solar_longitude_deg"`
	EquationOfTimeMinutes float64 `json:"equation_of_time_minutes"`
	LocalMeanSolarTime    string  `json:"local_mean_solar_time"`
	TrueSolarTime         string  `json:"true_solar_time"`
	EffectiveDayDate      string  `json:"effective_day_date"`
	JulianDayNumber       int     `json:"julian_day_number"`
	SexagenaryDayIndex    int     `json:"sexagenary_day_index"`
}

// PillarsSection carries the four pillars.
type PillarsSection struct {
	Year  BoundedPillarView `json:"year"`
	Month BoundedPillarView `json:"month"`
	Day   PillarView        `json:"day"`
	Hour  PillarView        `json:"hour"`
}

// AlternativePillars holds the day and hour pillars recomputed under the
// opposite zi convention, attached when the birth falls in the zi window.
type AlternativePillars struct {
	Day         PillarView           `json:"day"`
	Hour        PillarView           `json:"hour"`
	Conventions conventions.Settings `json:"conventions"`
}

// FlagsSection is the integrity block plus the zi-window alternatives.
type FlagsSection struct {
	integrity.Flags
	AlternativePillars *AlternativePillars `json:"alternative_pillars"`
}

// MetaSection carries derived calendrical metadata.
type MetaSection struct {
	BaziYear int `json:"bazi_year"`
}

// Payload is the full engine output.
type Payload struct {
	Engine       EngineSection       `json:"engine"`
	Input        InputSection        `json:"input"`
	Intermediate IntermediateSection `json:"intermediate"`
	Pillars      PillarsSection      `json:"pillars"`
	Flags        FlagsSection        `json:"flags"`
	Meta         MetaSection         `json:"meta"`
}

// NormalizePrecision applies the declared output rounding in place:
// longitude to 6 decimal places, equation of time to 2, delta-T to 1, TT
// Julian date to 8, boundary distances and flag seconds to 1.
func (p *Payload) NormalizePrecision() {
	p.Intermediate.SolarLongitudeDeg = output.Round(p.Intermediate.SolarLongitudeDeg, 6)
	p.Intermediate.EquationOfTimeMinutes = output.Round(p.Intermediate.EquationOfTimeMinutes, 2)
	p.Intermediate.DeltaTSeconds = output.Round(p.Intermediate.DeltaTSeconds, 1)
	p.Intermediate.TTJulianDate = output.Round(p.Intermediate.TTJulianDate, 8)

	p.Pillars.Year.Boundary.DistanceSeconds = output.Round(p.Pillars.Year.Boundary.DistanceSeconds, 1)
	p.Pillars.Month.Boundary.DistanceSeconds = output.Round(p.Pillars.Month.Boundary.DistanceSeconds, 1)

	p.Flags.HourBoundaryProximitySeconds = output.Round(p.Flags.HourBoundaryProximitySeconds, 1)
	p.Flags.ModelUncertaintySeconds = output.Round(p.Flags.ModelUncertaintySeconds, 1)
}
