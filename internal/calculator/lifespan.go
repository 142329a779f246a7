package calculator

import (
	"net/url"
	"strconv"
	"strings"
)

// LifespanInputs are the answers of the battery lifespan form. Empty strings
// mean the question was skipped.
type LifespanInputs struct {
	DailyKm      float64 `json:"daily_km"`
	ChargingType string  `json:"charging_type"` // slow | fast
	ChargingFreq string  `json:"charging_freq"` // weekly | daily
	ChargeLevel  string  `json:"charge_level"`  // 80 | 90 | 100
	Parking      string  `json:"parking"`       // covered | outdoor
	Climate      string  `json:"climate"`       // normal | hot
	Driving      string  `json:"driving"`       // smooth | aggressive
}

// Deduction is one habit that shortens the estimate.
type Deduction struct {
	Reason string  `json:"reason"`
	Years  float64 `json:"years"`
}

// LifespanEstimate is the outcome of EstimateLifespan.
type LifespanEstimate struct {
	Years      float64     `json:"years"`
	Display    string      `json:"display"`
	Deductions []Deduction `json:"deductions"`
}

const (
	baseLifespanYears = 10
	minLifespanYears  = 3
)

// EstimateLifespan starts from ten years and subtracts a fixed amount per
// wearing habit, never going below three years.
func EstimateLifespan(in LifespanInputs) LifespanEstimate {
	var ds []Deduction
	add := func(reason string, years float64) {
		ds = append(ds, Deduction{Reason: reason, Years: years})
	}

	switch {
	case in.DailyKm > 80:
		add("More than 80 km driven per day", 2)
	case in.DailyKm > 50:
		add("More than 50 km driven per day", 1)
	}
	if in.ChargingType == "fast" {
		add("Mostly DC fast charging", 1.5)
	}
	if in.ChargingFreq == "daily" {
		add("Charging every day", 1)
	}
	switch in.ChargeLevel {
	case "100":
		add("Charging to 100%", 1.5)
	case "90":
		add("Charging to 90%", 0.8)
	}
	if in.Parking == "outdoor" {
		add("Parked outdoors", 1)
	}
	if in.Climate == "hot" {
		add("Hot climate", 1.2)
	}
	if in.Driving == "aggressive" {
		add("Aggressive driving", 1)
	}

	years := float64(baseLifespanYears)
	for _, d := range ds {
		years -= d.Years
	}
	if years < minLifespanYears {
		years = minLifespanYears
	}
	return LifespanEstimate{
		Years:      years,
		Display:    strconv.FormatFloat(years, 'f', 1, 64),
		Deductions: ds,
	}
}

// ParseLifespanForm reads the form fields from a query string. It reports
// false when the form was not submitted at all.
func ParseLifespanForm(q url.Values) (LifespanInputs, bool) {
	if len(q) == 0 {
		return LifespanInputs{}, false
	}
	in := LifespanInputs{
		ChargingType: strings.TrimSpace(q.Get("chargingType")),
		ChargingFreq: strings.TrimSpace(q.Get("chargingFreq")),
		ChargeLevel:  strings.TrimSpace(q.Get("chargeLevel")),
		Parking:      strings.TrimSpace(q.Get("parking")),
		Climate:      strings.TrimSpace(q.Get("climate")),
		Driving:      strings.TrimSpace(q.Get("driving")),
	}
	if km, err := strconv.ParseFloat(strings.TrimSpace(q.Get("dailyKm")), 64); err == nil && km > 0 {
		in.DailyKm = km
	}
	return in, true
}
