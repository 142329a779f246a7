// internal/calculator/calculator.go
package calculator

import (
	"fmt"
	"math"
	"math/big"
	"strconv"
)

// ChargerType is the current type a charger delivers.
type ChargerType string

const (
	AC ChargerType = "AC"
	DC ChargerType = "DC"
)

// ChargerProfile is one row of the comparison table.
type ChargerProfile struct {
	Name        string      `json:"name" yaml:"name" toml:"name"`
	PowerKW     float64     `json:"power_kw" yaml:"power_kw" toml:"power_kw"`
	Type        ChargerType `json:"type" yaml:"type" toml:"type"`
	Description string      `json:"description" yaml:"description" toml:"description"`
	// Home profiles are billed at the household rate.
	Home bool `json:"home" yaml:"home" toml:"home"`
	// CostMultiplier scales the rate for public networks. Zero means 1.
	CostMultiplier float64 `json:"cost_multiplier,omitempty" yaml:"cost_multiplier,omitempty" toml:"cost_multiplier,omitempty"`
}

// Multiplier is the factor applied to the electricity rate for this profile.
func (p ChargerProfile) Multiplier() float64 {
	if p.Home || p.CostMultiplier <= 0 {
		return 1
	}
	return p.CostMultiplier
}

// DefaultProfiles are the charger levels shown when the site config lists none.
func DefaultProfiles() []ChargerProfile {
	return []ChargerProfile{
		{Name: "Level 1 (Wall Outlet)", PowerKW: 1.9, Type: AC, Description: "Standard household outlet (120V)", Home: true},
		{Name: "Level 2 (Home Station)", PowerKW: 7.0, Type: AC, Description: "Typical home wallbox (240V)", Home: true},
		{Name: "Level 2 (Public Fast)", PowerKW: 11, Type: AC, Description: "Office/Shopping center chargers", CostMultiplier: 1.2},
		{Name: "Level 3 (DC Fast)", PowerKW: 50, Type: DC, Description: "Standard highway fast charger", CostMultiplier: 1.8},
		{Name: "Tesla Supercharger", PowerKW: 150, Type: DC, Description: "High-speed network charging", CostMultiplier: 2.0},
		{Name: "Ultra-Fast DC", PowerKW: 350, Type: DC, Description: "Latest generation hyper-chargers", CostMultiplier: 2.4},
	}
}

// Inputs is the full state the results table is derived from.
type Inputs struct {
	BatteryKWh float64 `json:"battery_kwh"`
	CurrentPct float64 `json:"current_pct"`
	TargetPct  float64 `json:"target_pct"`
	Rate       float64 `json:"rate"`
	// EfficiencyLossPct models charger losses. Zero disables it.
	EfficiencyLossPct float64 `json:"efficiency_loss_pct,omitempty"`
	// ConsumptionKWhPer100km drives the running cost column. Zero hides it.
	ConsumptionKWhPer100km float64 `json:"consumption_kwh_per_100km,omitempty"`
}

const maxEfficiencyLoss = 95

func (in Inputs) normalized() Inputs {
	in.BatteryKWh = math.Max(0, in.BatteryKWh)
	in.CurrentPct = ClampPct(in.CurrentPct)
	in.TargetPct = ClampPct(in.TargetPct)
	in.Rate = math.Max(0, in.Rate)
	in.EfficiencyLossPct = clamp(in.EfficiencyLossPct, 0, maxEfficiencyLoss)
	in.ConsumptionKWhPer100km = math.Max(0, in.ConsumptionKWhPer100km)
	return in
}

// Row is the result for one charger profile.
type Row struct {
	Profile      ChargerProfile `json:"profile"`
	Hours        float64        `json:"hours"`
	Time         string         `json:"time"`
	Cost         float64        `json:"cost"`
	CostDisplay  string         `json:"cost_display"`
	CostPer100km float64        `json:"cost_per_100km,omitempty"`
}

// Result is the computed table.
type Result struct {
	Inputs        Inputs  `json:"inputs"`
	PercentAdded  float64 `json:"percent_added"`
	EnergyKWh     float64 `json:"energy_kwh"`
	EnergyDisplay string  `json:"energy_display"`
	Rows          []Row   `json:"rows"`
}

// EnergyNeeded is the kWh to add to go from the current to the target charge,
// grossed up for charger losses.
func EnergyNeeded(in Inputs) float64 {
	in = in.normalized()
	added := math.Max(0, in.TargetPct-in.CurrentPct)
	energy := added * in.BatteryKWh / 100
	if in.EfficiencyLossPct > 0 {
		energy /= 1 - in.EfficiencyLossPct/100
	}
	return energy
}

// Compute derives the results table for every profile. It never fails;
// out-of-range inputs are clamped first.
func Compute(in Inputs, profiles []ChargerProfile) Result {
	in = in.normalized()
	energy := EnergyNeeded(in)

	res := Result{
		Inputs:        in,
		PercentAdded:  math.Max(0, in.TargetPct-in.CurrentPct),
		EnergyKWh:     energy,
		EnergyDisplay: strconv.FormatFloat(energy, 'f', 1, 64),
		Rows:          make([]Row, 0, len(profiles)),
	}
	for _, p := range profiles {
		row := Row{Profile: p}
		if energy > 0 && p.PowerKW > 0 {
			row.Hours = energy / p.PowerKW
		}
		row.Time = FormatDuration(row.Hours)
		row.Cost = energy * in.Rate * p.Multiplier()
		row.CostDisplay = FormatMoney(row.Cost)
		row.CostPer100km = in.ConsumptionKWhPer100km * in.Rate * p.Multiplier()
		res.Rows = append(res.Rows, row)
	}
	return res
}

// FormatDuration renders a charge time as "5h 11m", "45m", "> 24h", or "-"
// when there is nothing to charge.
func FormatDuration(hours float64) string {
	if hours <= 0 || math.IsNaN(hours) {
		return "-"
	}
	if hours > 24 {
		return "> 24h"
	}
	h := math.Floor(hours)
	m := math.Round((hours - h) * 60)
	if m == 60 {
		h++
		m = 0
	}
	if h == 0 {
		return fmt.Sprintf("%dm", int(m))
	}
	return fmt.Sprintf("%dh %dm", int(h), int(m))
}

// FormatMoney rounds v to two decimals, halves away from zero, working on the
// shortest decimal representation of v so that 9.075 shows as "9.08".
func FormatMoney(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "0.00"
	}
	r, ok := new(big.Rat).SetString(strconv.FormatFloat(v, 'f', -1, 64))
	if !ok {
		return strconv.FormatFloat(v, 'f', 2, 64)
	}
	s := r.FloatString(2)
	if s == "-0.00" {
		return "0.00"
	}
	return s
}

// ClampPct limits a state-of-charge value to [0, 100].
func ClampPct(v float64) float64 {
	return clamp(v, 0, 100)
}

func clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) {
		return lo
	}
	return math.Min(hi, math.Max(lo, v))
}
