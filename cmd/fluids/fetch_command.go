package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"fluids/internal/config"
	"fluids/internal/fetch"
	"fluids/internal/history"
	"fluids/internal/logging"
	"fluids/internal/request"
	"fluids/internal/units"
)

type fetchFlags struct {
	id string

	variantName    string
	isobar         bool
	isotherm       bool
	isochore       bool
	satPressure    bool
	satTemperature bool

	t, p, d           string
	tLow, tHigh, tInc string
	pLow, pHigh, pInc string

	digits      int
	output      string
	refState    string
	unitCodes   string
	si          bool
	resolveName bool
}

var variantFlagNames = []string{"variant", "isobar", "isotherm", "isochore", "sat-pressure", "sat-temperature"}

func newFetchCommand(ctx *commandContext) *cobra.Command {
	var flags fetchFlags

	cmd := &cobra.Command{
		Use:   "fetch",
		Short: "Fetch a property table for one substance",
		Example: `  fluids fetch --id C7732185 --isotherm --t 725.5 --plow 1.0 --phigh 10.0 --pinc 0.5
  fluids fetch --id C7727379 --sat-temperature --tlow 70 --thigh 120 --tinc 1 --si
  fluids fetch --id C74828 --variant IsoBar --p 0.101325 --tlow 100 --thigh 200 --tinc 5`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			req, err := flags.request(cmd, cfg)
			if err != nil {
				return err
			}
			if err := req.Validate(); err != nil {
				return err
			}

			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}
			cat, err := ctx.openCatalogue()
			if err != nil {
				return err
			}
			opts := []fetch.Option{
				fetch.WithNames(cat),
				fetch.WithOutputPrefix(cfg.Request.OutputPrefix),
				fetch.WithLogger(logger),
			}
			store, err := history.Open(cfg.Paths.HistoryPath)
			if err != nil {
				logging.WarnWithContext(logger, "history unavailable; run will not be recorded", "history_open_failed",
					logging.Error(err),
					logging.String("history_path", cfg.Paths.HistoryPath),
					logging.String(logging.FieldImpact, "run is missing from 'fluids history'"),
					logging.String(logging.FieldErrorHint, "check paths.history_path permissions"))
			} else {
				defer store.Close()
				opts = append(opts, fetch.WithRecorder(store))
			}

			svc, err := fetch.NewService(ctx.newClient(cfg, logger), cfg.Service.BaseURL, opts...)
			if err != nil {
				return err
			}

			summary, err := svc.Run(cmd.Context(), fetch.Input{
				Request:     req,
				Output:      flags.output,
				ResolveName: flags.resolveName,
			})
			if err != nil {
				return err
			}
			printFetchSummary(cmd, summary)
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&flags.id, "id", "", "Substance identifier (e.g. C7732185 for water)")
	f.StringVar(&flags.variantName, "variant", "", "Calculation by name: isobar, isotherm, isochore, satpressure, sattemperature (or IsoBar, IsoTherm, IsoChor, SatP, SatT)")
	f.BoolVar(&flags.isobar, "isobar", false, "Constant-pressure sweep (--p, --tlow, --thigh, --tinc)")
	f.BoolVar(&flags.isotherm, "isotherm", false, "Constant-temperature sweep (--t, --plow, --phigh, --pinc)")
	f.BoolVar(&flags.isochore, "isochore", false, "Constant-density sweep (--d, --tlow, --thigh, --tinc)")
	f.BoolVar(&flags.satPressure, "sat-pressure", false, "Saturation sweep in pressure steps (--plow, --phigh, --pinc)")
	f.BoolVar(&flags.satTemperature, "sat-temperature", false, "Saturation sweep in temperature steps (--tlow, --thigh, --tinc)")
	f.StringVar(&flags.t, "t", "", "Fixed temperature")
	f.StringVar(&flags.p, "p", "", "Fixed pressure")
	f.StringVar(&flags.d, "d", "", "Fixed density")
	f.StringVar(&flags.tLow, "tlow", "", "Low temperature")
	f.StringVar(&flags.tHigh, "thigh", "", "High temperature")
	f.StringVar(&flags.tInc, "tinc", "", "Temperature increment")
	f.StringVar(&flags.pLow, "plow", "", "Low pressure")
	f.StringVar(&flags.pHigh, "phigh", "", "High pressure")
	f.StringVar(&flags.pInc, "pinc", "", "Pressure increment")
	f.IntVar(&flags.digits, "digits", 0, "Significant digits (default from config)")
	f.StringVarP(&flags.output, "output", "o", "", "Output file (default <prefix>_<variant>.dat)")
	f.StringVar(&flags.refState, "refstate", "", "Reference state: DEF, NBP, ASHRAE or IIR (default from config)")
	f.StringVar(&flags.unitCodes, "units", "", `Seven unit codes in T P D H W Vis ST order, e.g. "1 1 4 2 1 2 1"`)
	f.BoolVar(&flags.si, "si", false, "Use the SI unit preset")
	f.BoolVar(&flags.resolveName, "resolve-name", false, "Fail unless the substance ID is in the catalogue")

	cmd.MarkFlagsMutuallyExclusive(variantFlagNames...)
	cmd.MarkFlagsOneRequired(variantFlagNames...)
	cmd.MarkFlagsMutuallyExclusive("units", "si")

	return cmd
}

func (f *fetchFlags) variant() (request.Variant, error) {
	if strings.TrimSpace(f.variantName) != "" {
		return request.ParseVariant(f.variantName)
	}
	switch {
	case f.isobar:
		return request.Isobar, nil
	case f.isotherm:
		return request.Isotherm, nil
	case f.isochore:
		return request.Isochore, nil
	case f.satPressure:
		return request.SaturationByPressure, nil
	case f.satTemperature:
		return request.SaturationByTemperature, nil
	default:
		return 0, nil
	}
}

func (f *fetchFlags) request(cmd *cobra.Command, cfg *config.Config) (request.Request, error) {
	variant, err := f.variant()
	if err != nil {
		return request.Request{}, err
	}
	codes, err := selectUnits(cfg, f.si, f.unitCodes)
	if err != nil {
		return request.Request{}, err
	}
	req := request.Request{
		Variant:     variant,
		SubstanceID: f.id,
		Temperature: f.t,
		Pressure:    f.p,
		Density:     f.d,
		TLow:        f.tLow,
		THigh:       f.tHigh,
		TInc:        f.tInc,
		PLow:        f.pLow,
		PHigh:       f.pHigh,
		PInc:        f.pInc,
		RefState:    cfg.Request.RefState,
		Digits:      cfg.Request.Digits,
		Units:       codes,
	}
	if cmd.Flags().Changed("refstate") {
		req.RefState = f.refState
	}
	if cmd.Flags().Changed("digits") {
		req.Digits = f.digits
	}
	return req, nil
}

// selectUnits applies --si or --units over the configured default selection.
func selectUnits(cfg *config.Config, si bool, override string) (units.Codes, error) {
	switch {
	case si:
		return units.SI(), nil
	case strings.TrimSpace(override) != "":
		codes, err := units.ParseOverride(override)
		if err != nil {
			return units.Codes{}, &request.UsageError{Field: "units", Msg: err.Error()}
		}
		if err := codes.Validate(); err != nil {
			return units.Codes{}, &request.UsageError{Field: "units", Msg: err.Error()}
		}
		return codes, nil
	default:
		codes, err := cfg.UnitCodes()
		if err != nil {
			return units.Codes{}, fmt.Errorf("config request units: %w", err)
		}
		return codes, nil
	}
}

func printFetchSummary(cmd *cobra.Command, summary fetch.Summary) {
	out := cmd.OutOrStdout()
	colorize := shouldColorize(out)
	fmt.Fprintf(out, "Substance: %s\n", summary.SubstanceName)
	if summary.Table.Recognized {
		fmt.Fprintln(out, renderStatusLine("Format", statusOK,
			fmt.Sprintf("%s (%d columns)", summary.Table.Layout, summary.Table.Columns), colorize))
	} else {
		fmt.Fprintln(out, renderStatusLine("Format", statusWarn,
			fmt.Sprintf("not recognized (%d columns); written without legend", summary.Table.Columns), colorize))
	}
	fmt.Fprintln(out, renderStatusLine("Rows", statusInfo, fmt.Sprintf("%d", summary.Table.Rows), colorize))
	fmt.Fprintln(out, renderStatusLine("Output", statusOK, summary.Plan.OutputPath, colorize))
	fmt.Fprintf(out, "Run ID: %s\n", summary.RunID)
}
