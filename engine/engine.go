// Package engine composes the full pipeline: time normalization, TT
// conversion, solar state, solar-term boundaries, pillar arithmetic,
// integrity flags, and the serialized payload.
package engine

import (
	"context"
	"time"

	"github.com/mikkokotila/eightchars/astronomy"
	"github.com/mikkokotila/eightchars/conventions"
	"github.com/mikkokotila/eightchars/integrity"
	"github.com/mikkokotila/eightchars/log"
	"github.com/mikkokotila/eightchars/observability"
	"github.com/mikkokotila/eightchars/output"
	"github.com/mikkokotila/eightchars/sexagenary"
	"github.com/mikkokotila/eightchars/timeconv"
	"go.opentelemetry.io/otel/attribute"
)

// Version identifies the engine release recorded in every payload.
const Version = "1.0.0"

var logger = log.Logger()

const (
	dateLayout    = "2006-01-02"
	timeLayout    = "15:04:05"
	utcLayout     = "2006-01-02T15:04:05Z"
	naiveLayout   = "2006-01-02T15:04:05"
	monthNoteText = "Distance to nearest month boundary term."
)

// Engine computes Four-Pillar charts. It is stateless apart from the
// configuration captured at construction; Compute is safe for concurrent use.
type Engine struct {
	config   Config
	observer observability.ObserverInterface
	terms    *astronomy.TermSolver
}

// New creates an Engine.
func New(config Config) *Engine {
	return &Engine{
		config:   config,
		observer: observability.Observer(),
		terms:    astronomy.NewTermSolver(),
	}
}

func pillarView(p sexagenary.Pillar) PillarView {
	return PillarView{
		Stem:   CharacterRef{Index: p.StemIdx, Chinese: p.Stem()},
		Branch: CharacterRef{Index: p.BranchIdx, Chinese: p.Branch()},
	}
}

func boundaryNote(distanceSeconds float64, label string) string {
	if distanceSeconds < 0 {
		return "Birth is before boundary " + label + "."
	}
	return "Birth is after boundary " + label + "."
}

// Compute runs the pipeline for a birth input and returns the payload.
func (e *Engine) Compute(ctx context.Context, input timeconv.BirthInput) (*Payload, error) {
	ctx, span := e.observer.CreateSpan(ctx, "Engine.Compute")
	defer span.End()

	if (input.Conventions == conventions.Settings{}) {
		input.Conventions = e.config.Conventions
	}

	span.SetAttributes(
		attribute.String("timezone", input.TimezoneName),
		attribute.Float64("longitude", input.Longitude),
		attribute.Float64("latitude", input.Latitude),
		attribute.String("zi_convention", string(input.Conventions.ZiConvention)),
		attribute.String("hour_basis", string(input.Conventions.HourBasis)),
		attribute.String("day_boundary_basis", string(input.Conventions.DayBoundaryBasis)),
	)

	normalized, err := timeconv.Normalize(input)
	if err != nil {
		span.RecordError(err)
		observability.RecordError(ctx, err, observability.ErrorContext{
			Severity:    observability.SeverityMedium,
			Category:    observability.CategoryValidation,
			Operation:   "normalize_birth_input",
			Component:   "timeconv",
			ExpectedErr: true,
		})
		return nil, err
	}

	span.SetAttributes(
		attribute.String("utc_time", normalized.UTCTime.Format(utcLayout)),
		attribute.String("tzdb_version", normalized.TzdbVersion),
	)

	ttResult, err := timeconv.ConvertUTCToTT(normalized.UTCTime)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	solar := astronomy.ComputeSolarPosition(normalized.UTCTime, normalized.Longitude, ttResult.TTMinusUTCSeconds)

	span.SetAttributes(
		attribute.Float64("tt_julian_date", solar.JDTT),
		attribute.Float64("solar_longitude_deg", solar.ApparentLongitudeDeg),
		attribute.Float64("equation_of_time_minutes", solar.EquationOfTimeMinutes),
	)

	civilYear := normalized.UTCTime.Year()
	lichunJD, err := e.terms.LichunJD(ctx, civilYear)
	if err != nil {
		span.RecordError(err)
		observability.RecordError(ctx, err, observability.ErrorContext{
			Severity:  observability.SeverityHigh,
			Category:  observability.CategoryCalculation,
			Operation: "lichun_solve",
			Component: "astronomy",
		})
		return nil, err
	}

	yearPillar, baziYear, err := sexagenary.YearPillar(civilYear, solar.JDTT, lichunJD)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	monthPillar, err := sexagenary.MonthPillar(solar.ApparentLongitudeDeg, yearPillar.StemIdx)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	civilLocal := normalized.CivilLocal
	if !normalized.HasCivilLocal() {
		civilLocal = normalized.UTCTime.UTC()
		civilLocal = time.Date(civilLocal.Year(), civilLocal.Month(), civilLocal.Day(),
			civilLocal.Hour(), civilLocal.Minute(), civilLocal.Second(), 0, time.UTC)
	}

	dayResult, err := sexagenary.DayPillar(civilLocal, solar.TrueSolarTime, input.Conventions)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	hourPillar, err := sexagenary.HourPillar(dayResult.Pillar.StemIdx, civilLocal, solar.TrueSolarTime, input.Conventions)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	termJDs, err := e.terms.NearbyJieJDs(ctx, civilYear)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	nearestTermSeconds, err := astronomy.NearestJieDistanceSeconds(solar.JDTT, termJDs)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	modelUncertainty := integrity.ModelUncertaintySeconds(civilYear)
	totalUncertainty := integrity.EffectiveUncertaintySeconds(modelUncertainty, input.UncertaintySeconds)

	hourBasis := civilLocal
	if input.Conventions.HourBasis == conventions.HourBasisTrueSolar {
		hourBasis = solar.TrueSolarTime
	}
	ziBasis := civilLocal
	if input.Conventions.DayBoundaryBasis == conventions.DayBoundaryTrueSolar {
		ziBasis = solar.TrueSolarTime
	}
	ziWindow := integrity.IsZiHourWindow(ziBasis)

	var alternatives *AlternativePillars
	if ziWindow {
		altSettings := input.Conventions.OppositeZi()
		altDay, altErr := sexagenary.DayPillar(civilLocal, solar.TrueSolarTime, altSettings)
		if altErr != nil {
			span.RecordError(altErr)
			return nil, altErr
		}
		altHour, altErr := sexagenary.HourPillar(altDay.Pillar.StemIdx, civilLocal, solar.TrueSolarTime, altSettings)
		if altErr != nil {
			span.RecordError(altErr)
			return nil, altErr
		}
		alternatives = &AlternativePillars{
			Day:         pillarView(altDay.Pillar),
			Hour:        pillarView(altHour),
			Conventions: altSettings,
		}
	}

	lichunDistanceSeconds := (solar.JDTT - lichunJD) * astronomy.SecondsPerDay
	lichunLabel := astronomy.TermLabelByTarget[astronomy.LichunLongitudeDeg]

	var timezoneName *string
	if normalized.TimezoneName != "" {
		timezoneName = &normalized.TimezoneName
	}
	var uncertainty *float64
	if input.UncertaintySeconds != 0 {
		uncertainty = &input.UncertaintySeconds
	}

	payload := &Payload{
		Engine: EngineSection{
			Version:            Version,
			Vsop87Series:       timeconv.ModelIdentifiers["vsop87_series"],
			NutationModel:      timeconv.ModelIdentifiers["nutation_model"],
			MeanObliquityModel: timeconv.ModelIdentifiers["mean_obliquity_model"],
			DeltaTModel:        timeconv.ModelIdentifiers["delta_t_model"],
			TzdbVersion:        normalized.TzdbVersion,
			LeapSecondTable:    ttResult.LeapSecondMetadata,
		},
		Input: InputSection{
			Date:               civilLocal.Format(dateLayout),
			Time:               civilLocal.Format(timeLayout),
			Timezone:           timezoneName,
			Fold:               normalized.Fold,
			Longitude:          normalized.Longitude,
			Latitude:           normalized.Latitude,
			UncertaintySeconds: uncertainty,
			Conventions:        input.Conventions,
		},
		Intermediate: IntermediateSection{
			UTCTime:               normalized.UTCTime.Format(utcLayout),
			DeltaTSeconds:         ttResult.DeltaTSeconds,
			TTConversionMethod:    ttResult.Method,
			TTJulianDate:          solar.JDTT,
			SolarLongitudeDeg:     solar.ApparentLongitudeDeg,
			EquationOfTimeMinutes: solar.EquationOfTimeMinutes,
			LocalMeanSolarTime:    solar.LocalMeanSolarTime.Format(naiveLayout),
			TrueSolarTime:         solar.TrueSolarTime.Format(naiveLayout),
			EffectiveDayDate:      dayResult.EffectiveDate.Format(dateLayout),
			JulianDayNumber:       dayResult.JDN,
			SexagenaryDayIndex:    dayResult.Index0,
		},
		Pillars: PillarsSection{
			Year: BoundedPillarView{
				PillarView: pillarView(yearPillar),
				Boundary: Boundary{
					Type:            lichunLabel,
					DistanceSeconds: lichunDistanceSeconds,
					Note:            boundaryNote(lichunDistanceSeconds, lichunLabel),
				},
			},
			Month: BoundedPillarView{
				PillarView: pillarView(monthPillar),
				Boundary: Boundary{
					Type:            "nearest_jie_boundary",
					DistanceSeconds: nearestTermSeconds,
					Note:            monthNoteText,
				},
			},
			Day:  pillarView(dayResult.Pillar),
			Hour: pillarView(hourPillar),
		},
		Flags: FlagsSection{
			Flags: integrity.Flags{
				ZiHourWindow:                 ziWindow,
				SolarTermAmbiguous:           nearestTermSeconds < totalUncertainty,
				HourBoundaryProximitySeconds: integrity.HourBoundaryDistanceSeconds(hourBasis),
				ModelUncertaintySeconds:      modelUncertainty,
				HighLatitudeWarning:          normalized.HighLatitudeWarning,
			},
			AlternativePillars: alternatives,
		},
		Meta: MetaSection{BaziYear: baziYear},
	}

	logger.InfoContext(ctx, "Chart computed",
		"bazi_year", baziYear,
		"year_pillar", yearPillar.String(),
		"month_pillar", monthPillar.String(),
		"day_pillar", dayResult.Pillar.String(),
		"hour_pillar", hourPillar.String(),
		"solar_term_ambiguous", payload.Flags.SolarTermAmbiguous,
	)

	return payload, nil
}

// ComputeJSON runs Compute and serializes the payload into canonical bytes.
func (e *Engine) ComputeJSON(ctx context.Context, input timeconv.BirthInput) ([]byte, error) {
	payload, err := e.Compute(ctx, input)
	if err != nil {
		return nil, err
	}
	payload.NormalizePrecision()
	return output.MarshalCanonical(payload)
}
