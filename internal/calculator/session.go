package calculator

import (
	"math"
	"net/url"
	"strconv"
	"strings"
)

// Preset is a vehicle with a known usable battery capacity.
type Preset struct {
	Name       string  `json:"name" yaml:"name" toml:"name"`
	BatteryKWh float64 `json:"battery_kwh" yaml:"battery_kwh" toml:"battery_kwh"`
}

// CustomPreset is selected whenever the battery size is set by hand.
const CustomPreset = "Custom Vehicle"

const (
	MinBatteryKWh  = 10
	MaxBatteryKWh  = 130
	BatteryStepKWh = 0.5
)

// DefaultPresets lists the vehicles offered in the preset picker.
func DefaultPresets() []Preset {
	return []Preset{
		{Name: "Tesla Model 3 / Y (Standard)", BatteryKWh: 60},
		{Name: "Tesla Model 3 / Y (Long Range)", BatteryKWh: 75},
		{Name: "BYD Atto 3", BatteryKWh: 60.5},
		{Name: "BYD Seal (Standard)", BatteryKWh: 61.4},
		{Name: "BYD Seal (Performance)", BatteryKWh: 82.5},
		{Name: "BYD Dolphin", BatteryKWh: 44.9},
		{Name: "Mustang Mach-E", BatteryKWh: 88},
		{Name: "Hyundai Ioniq 5", BatteryKWh: 77.4},
		{Name: "Kia EV6", BatteryKWh: 77.4},
		{Name: "Nissan Leaf", BatteryKWh: 40},
		{Name: CustomPreset, BatteryKWh: 50},
	}
}

// Session is the slider state of one calculator. Its setters return a new
// value and keep TargetPct >= CurrentPct.
type Session struct {
	Preset  string `json:"preset"`
	Inputs
}

// NewSession starts from the given defaults, clamped.
func NewSession(preset string, in Inputs) Session {
	s := Session{Preset: preset, Inputs: in}
	s.BatteryKWh = ClampBattery(s.BatteryKWh)
	s = s.WithCurrent(s.CurrentPct)
	return s.WithTarget(s.TargetPct)
}

// WithCurrent sets the current charge, raising the target when it would fall below.
func (s Session) WithCurrent(v float64) Session {
	s.CurrentPct = ClampPct(v)
	if s.CurrentPct > s.TargetPct {
		s.TargetPct = s.CurrentPct
	}
	return s
}

// WithTarget sets the target charge, lowering the current charge when it is above.
func (s Session) WithTarget(v float64) Session {
	s.TargetPct = ClampPct(v)
	if s.TargetPct < s.CurrentPct {
		s.CurrentPct = s.TargetPct
	}
	return s
}

// WithBattery sets the capacity by hand and switches to the custom preset.
func (s Session) WithBattery(kwh float64) Session {
	s.BatteryKWh = ClampBattery(kwh)
	s.Preset = CustomPreset
	return s
}

// WithPreset selects a preset by name. Unknown names leave s unchanged.
func (s Session) WithPreset(name string, presets []Preset) Session {
	for _, p := range presets {
		if p.Name == name {
			s.Preset = p.Name
			s.BatteryKWh = ClampBattery(p.BatteryKWh)
			return s
		}
	}
	return s
}

// WithRate sets the electricity price per kWh.
func (s Session) WithRate(rate float64) Session {
	if rate < 0 {
		rate = 0
	}
	s.Rate = rate
	return s
}

// ClampBattery limits a capacity to the slider range and snaps it to the slider step.
func ClampBattery(kwh float64) float64 {
	kwh = clamp(kwh, MinBatteryKWh, MaxBatteryKWh)
	steps := kwh / BatteryStepKWh
	return roundHalfUp(steps) * BatteryStepKWh
}

func roundHalfUp(v float64) float64 {
	f := float64(int64(v))
	if v-f >= 0.5 {
		return f + 1
	}
	return f
}

// ParseSessionForm applies the calculator query fields (preset, battery,
// current, target, rate, consumption, loss) on top of s. Missing or
// malformed fields keep the value from s.
func ParseSessionForm(s Session, q url.Values, presets []Preset) Session {
	if name := strings.TrimSpace(q.Get("preset")); name != "" {
		s = s.WithPreset(name, presets)
	}
	if v, ok := formFloat(q, "battery"); ok && ClampBattery(v) != s.BatteryKWh {
		s = s.WithBattery(v)
	}
	if v, ok := formFloat(q, "current"); ok {
		s = s.WithCurrent(v)
	}
	if v, ok := formFloat(q, "target"); ok {
		s = s.WithTarget(v)
	}
	if v, ok := formFloat(q, "rate"); ok {
		s = s.WithRate(v)
	}
	if v, ok := formFloat(q, "consumption"); ok {
		s.ConsumptionKWhPer100km = math.Max(0, v)
	}
	if v, ok := formFloat(q, "loss"); ok {
		s.EfficiencyLossPct = clamp(v, 0, maxEfficiencyLoss)
	}
	return s
}

func formFloat(q url.Values, key string) (float64, bool) {
	raw := strings.TrimSpace(q.Get(key))
	if raw == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}
