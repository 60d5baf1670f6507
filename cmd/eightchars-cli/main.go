package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/mikkokotila/eightchars/astronomy"
	"github.com/mikkokotila/eightchars/conventions"
	"github.com/mikkokotila/eightchars/engine"
	"github.com/mikkokotila/eightchars/logging"
	"github.com/mikkokotila/eightchars/observability"
	"github.com/mikkokotila/eightchars/timeconv"
)

var (
	outputFormat string
	otlpEndpoint string
	debug        bool

	dateArg        string
	timeArg        string
	timezoneArg    string
	utcArg         string
	latitudeArg    float64
	longitudeArg   float64
	foldArg        int
	uncertaintyArg float64

	ziConventionArg     string
	hourBasisArg        string
	dayBoundaryBasisArg string

	termsYearArg int
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "eightchars-cli",
		Short: "Four-Pillar (BaZi) chart computation from civil birth time",
		Long: `eightchars-cli computes the Chinese Four-Pillar designation of a birth
instant using a self-contained astronomical kernel: VSOP87D Earth series,
IAU nutation and obliquity, solar-term root finding, and convention-driven
sexagenary arithmetic.

Examples:
  # Compute a chart from local wall-clock time
  eightchars-cli compute --date 1988-02-04 --time 16:30:00 \
    --timezone Asia/Shanghai --lon 104.066 --lat 30.658

  # Disambiguate a DST fall-back time
  eightchars-cli compute --date 2023-11-05 --time 01:30:00 \
    --timezone America/New_York --lon -74.006 --lat 40.7128 --fold 1

  # Compute from a UTC timestamp instead
  eightchars-cli compute --utc 1988-02-04T08:30:00Z --lon 104.066 --lat 30.658

  # List the 12 jie boundaries of a year
  eightchars-cli terms --year 2024`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logging.SetDebug(debug)
			if _, err := observability.NewObserver(otlpEndpoint); err != nil {
				logging.Logger.WithError(err).Warn("Failed to initialize tracing, continuing without export")
			}
		},
	}

	rootCmd.PersistentFlags().StringVarP(&outputFormat, "output", "o", "json", "Output format (json, yaml)")
	rootCmd.PersistentFlags().StringVar(&otlpEndpoint, "otlp-endpoint", "", "OTLP gRPC collector address (empty = stdout traces)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Enable debug output")

	rootCmd.AddCommand(newComputeCommand())
	rootCmd.AddCommand(newTermsCommand())
	rootCmd.AddCommand(newVersionCommand())

	if err := rootCmd.Execute(); err != nil {
		logging.Logger.WithError(err).Error("Command failed")
		os.Exit(1)
	}
}

func newComputeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compute",
		Short: "Compute the four pillars for a birth instant",
		RunE: func(cmd *cobra.Command, args []string) error {
			input, err := buildBirthInput()
			if err != nil {
				return err
			}

			ctx := context.Background()
			eng := engine.New(engine.Config{
				Conventions:  input.Conventions,
				OTLPEndpoint: otlpEndpoint,
			})

			payloadJSON, err := eng.ComputeJSON(ctx, input)
			if err != nil {
				return err
			}
			return emit(cmd, payloadJSON)
		},
	}

	cmd.Flags().StringVar(&dateArg, "date", "", "Birth date, YYYY-MM-DD (local mode)")
	cmd.Flags().StringVar(&timeArg, "time", "00:00:00", "Birth time, HH:MM:SS (local mode)")
	cmd.Flags().StringVar(&timezoneArg, "timezone", "", "IANA timezone name (local mode)")
	cmd.Flags().StringVar(&utcArg, "utc", "", "UTC timestamp, RFC 3339 (UTC mode; overrides local fields)")
	cmd.Flags().Float64Var(&latitudeArg, "lat", 0, "Latitude in degrees [-90, 90]")
	cmd.Flags().Float64Var(&longitudeArg, "lon", 0, "Longitude in degrees [-180, 180]")
	cmd.Flags().IntVar(&foldArg, "fold", -1, "DST fold selector for ambiguous times (0 or 1)")
	cmd.Flags().Float64Var(&uncertaintyArg, "uncertainty", 0, "Birth-time uncertainty in seconds")
	cmd.Flags().StringVar(&ziConventionArg, "zi-convention", string(conventions.ZiSplitMidnight), "Zi convention (split_midnight, whole_zi_23)")
	cmd.Flags().StringVar(&hourBasisArg, "hour-basis", string(conventions.HourBasisTrueSolar), "Hour basis (true_solar, civil)")
	cmd.Flags().StringVar(&dayBoundaryBasisArg, "day-boundary-basis", string(conventions.DayBoundaryTrueSolar), "Day boundary basis (true_solar, civil)")

	return cmd
}

func buildBirthInput() (timeconv.BirthInput, error) {
	settings := conventions.Settings{
		ZiConvention:     conventions.ZiConvention(ziConventionArg),
		HourBasis:        conventions.HourBasis(hourBasisArg),
		DayBoundaryBasis: conventions.DayBoundaryBasis(dayBoundaryBasisArg),
	}
	if err := settings.Validate(); err != nil {
		return timeconv.BirthInput{}, err
	}

	input := timeconv.BirthInput{
		Longitude:          longitudeArg,
		Latitude:           latitudeArg,
		UncertaintySeconds: uncertaintyArg,
		Conventions:        settings,
	}

	if utcArg != "" {
		input.UTCTimestamp = utcArg
		return input, nil
	}

	if dateArg == "" || timezoneArg == "" {
		return timeconv.BirthInput{}, fmt.Errorf("local mode requires --date and --timezone (or use --utc)")
	}
	date, err := time.Parse("2006-01-02", dateArg)
	if err != nil {
		return timeconv.BirthInput{}, fmt.Errorf("invalid --date %q: %w", dateArg, err)
	}
	clock, err := time.Parse("15:04:05", timeArg)
	if err != nil {
		return timeconv.BirthInput{}, fmt.Errorf("invalid --time %q: %w", timeArg, err)
	}

	input.Year = date.Year()
	input.Month = int(date.Month())
	input.Day = date.Day()
	input.Hour = clock.Hour()
	input.Minute = clock.Minute()
	input.Second = clock.Second()
	input.TimezoneName = timezoneArg
	if foldArg == 0 || foldArg == 1 {
		fold := foldArg
		input.Fold = &fold
	}
	return input, nil
}

func newTermsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "terms",
		Short: "List the 12 jie solar-term boundaries for a civil year",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			solver := astronomy.NewTermSolver()

			type termRow struct {
				Label        string  `json:"label" yaml:"label"`
				LongitudeDeg float64 `json:"longitude_deg" yaml:"longitude_deg"`
				UTCTime      string  `json:"utc_time" yaml:"utc_time"`
				JDTT         float64 `json:"jd_tt" yaml:"jd_tt"`
			}

			rows := make([]termRow, 0, len(astronomy.JieTargets))
			for _, target := range astronomy.JieTargets {
				month, day, ok := astronomy.TermSeedMonthDay(target)
				if !ok {
					return fmt.Errorf("no seed date for target %g", target)
				}
				seed := astronomy.JulianDateUTC(time.Date(termsYearArg, time.Month(month), day, 0, 0, 0, 0, time.UTC))
				jd, err := solver.FindSolarTerm(ctx, target, seed)
				if err != nil {
					return err
				}
				// The solve is in TT; shift back to UTC for the utc_time field.
				tt, err := timeconv.ConvertUTCToTT(astronomy.JDToTime(jd))
				if err != nil {
					return err
				}
				utcJD := jd - tt.TTMinusUTCSeconds/astronomy.SecondsPerDay
				rows = append(rows, termRow{
					Label:        astronomy.TermLabelByTarget[target],
					LongitudeDeg: target,
					UTCTime:      astronomy.JDToTime(utcJD).Format(time.RFC3339),
					JDTT:         jd,
				})
			}

			raw, err := json.Marshal(map[string]any{"year": termsYearArg, "terms": rows})
			if err != nil {
				return err
			}
			return emit(cmd, raw)
		},
	}
	cmd.Flags().IntVar(&termsYearArg, "year", time.Now().Year(), "Civil year")
	return cmd
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the engine version and model identifiers",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "eightchars %s\n", engine.Version)
			for _, key := range []string{"vsop87_series", "nutation_model", "mean_obliquity_model", "delta_t_model"} {
				fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", key, timeconv.ModelIdentifiers[key])
			}
			fmt.Fprintf(cmd.OutOrStdout(), "tzdb_version: %s\n", timeconv.TzdbVersion())
		},
	}
}

func emit(cmd *cobra.Command, payloadJSON []byte) error {
	switch outputFormat {
	case "json":
		fmt.Fprintln(cmd.OutOrStdout(), string(payloadJSON))
		return nil
	case "yaml":
		dec := json.NewDecoder(bytes.NewReader(payloadJSON))
		dec.UseNumber()
		var tree any
		if err := dec.Decode(&tree); err != nil {
			return err
		}
		rendered, err := yaml.Marshal(tree)
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), string(rendered))
		return nil
	default:
		return fmt.Errorf("unsupported output format %q (json, yaml)", outputFormat)
	}
}
