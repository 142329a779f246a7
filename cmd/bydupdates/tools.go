// cmd/bydupdates/tools.go
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"net/url"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"
	"unicode/utf8"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"bydupdates/internal/calculator"
	"bydupdates/internal/content"
)

func (a *app) tocCmd() *cobra.Command {
	var showHTML bool
	cmd := &cobra.Command{
		Use:   "toc <file.html>",
		Short: "Print the table of contents the site would build for an HTML fragment",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			if !utf8.Valid(raw) {
				return fmt.Errorf("file is not valid UTF-8: %s", args[0])
			}
			proc := content.NewProcessor(content.Options{
				LegacyPrefix: a.cfg.Assets.LegacyPrefix,
				CDNBase:      a.cfg.Assets.CDNBase,
			})
			res := proc.Process(string(raw), nil)
			if res.Degraded {
				a.log.WithField("file", args[0]).Warn("markup could not be parsed, anchors were not added")
			}
			writeTOC(cmd.OutOrStdout(), res.TOC)
			if showHTML {
				fmt.Fprintln(cmd.OutOrStdout())
				fmt.Fprintln(cmd.OutOrStdout(), res.HTML)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&showHTML, "html", false, "also print the processed HTML")
	return cmd
}

func writeTOC(w io.Writer, toc []content.TOCEntry) {
	if len(toc) == 0 {
		fmt.Fprintln(w, "No headings found.")
		return
	}
	for _, e := range toc {
		indent := strings.Repeat("  ", max(0, e.Level-2))
		fmt.Fprintf(w, "%s- %s (#%s)\n", indent, e.Text, e.ID)
	}
}

// formFlags maps command line flags onto the query parameters the web forms
// use, so both go through the same parsing. With changedOnly, flags left at
// their defaults are omitted.
func formFlags(flags *pflag.FlagSet, names map[string]string, changedOnly bool) url.Values {
	q := url.Values{}
	for flag, param := range names {
		if f := flags.Lookup(flag); f != nil && (f.Changed || !changedOnly) {
			q.Set(param, f.Value.String())
		}
	}
	return q
}

func (a *app) calcCmd() *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "calc",
		Short: "Estimate charging time and cost for every charger level",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			calc := a.cfg.Calculator
			q := formFlags(cmd.Flags(), map[string]string{
				"preset":      "preset",
				"battery":     "battery",
				"current":     "current",
				"target":      "target",
				"rate":        "rate",
				"consumption": "consumption",
				"loss":        "loss",
			}, true)
			s := calculator.ParseSessionForm(calc.Session(), q, calc.Presets)
			res := calculator.Compute(s.Inputs, calc.Profiles)

			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(struct {
					Session calculator.Session `json:"session"`
					Result  calculator.Result  `json:"result"`
				}{s, res})
			}
			return writeCalc(cmd.OutOrStdout(), s, res, calc.Currency)
		},
	}
	f := cmd.Flags()
	f.String("preset", "", "vehicle preset name")
	f.Float64("battery", 0, "usable battery capacity in kWh (selects the custom vehicle)")
	f.Float64("current", 0, "current state of charge in %")
	f.Float64("target", 0, "target state of charge in %")
	f.Float64("rate", 0, "electricity rate per kWh")
	f.Float64("consumption", 0, "consumption in kWh/100 km, 0 hides the running cost")
	f.Float64("loss", 0, "charging losses in %")
	f.BoolVar(&asJSON, "json", false, "print the session and result as JSON")
	return cmd
}

func writeCalc(w io.Writer, s calculator.Session, res calculator.Result, currency string) error {
	fmt.Fprintf(w, "%s, %s kWh: %s%% to %s%% adds %s kWh\n\n",
		s.Preset, num(s.BatteryKWh), num(s.CurrentPct), num(s.TargetPct), res.EnergyDisplay)

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	header := "CHARGER\tPOWER\tTYPE\tTIME\tCOST"
	if s.ConsumptionKWhPer100km > 0 {
		header += "\tPER 100 KM"
	}
	fmt.Fprintln(tw, header)
	for _, row := range res.Rows {
		line := fmt.Sprintf("%s\t%s kW\t%s\t%s\t%s%s", row.Profile.Name, num(row.Profile.PowerKW), row.Profile.Type, row.Time, currency, row.CostDisplay)
		if s.ConsumptionKWhPer100km > 0 {
			line += fmt.Sprintf("\t%s%.2f", currency, row.CostPer100km)
		}
		fmt.Fprintln(tw, line)
	}
	return tw.Flush()
}

func num(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func (a *app) lifespanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lifespan",
		Short: "Estimate how many years an EV battery will last",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			q := formFlags(cmd.Flags(), map[string]string{
				"daily-km":      "dailyKm",
				"charging-type": "chargingType",
				"charging-freq": "chargingFreq",
				"charge-level":  "chargeLevel",
				"parking":       "parking",
				"climate":       "climate",
				"driving":       "driving",
			}, false)
			in, _ := calculator.ParseLifespanForm(q)
			est := calculator.EstimateLifespan(in)

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Estimated battery lifespan: %s years\n", est.Display)
			for _, d := range est.Deductions {
				fmt.Fprintf(out, "  -%s years: %s\n", num(d.Years), d.Reason)
			}
			return nil
		},
	}
	f := cmd.Flags()
	f.Float64("daily-km", 40, "kilometres driven per day")
	f.String("charging-type", "slow", "slow or fast")
	f.String("charging-freq", "weekly", "weekly or daily")
	f.String("charge-level", "80", "usual charge limit: 80, 90 or 100")
	f.String("parking", "covered", "covered or outdoor")
	f.String("climate", "normal", "normal or hot")
	f.String("driving", "smooth", "smooth or aggressive")
	return cmd
}
