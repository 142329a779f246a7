// internal/pages/tools.go
package pages

import (
	"net/url"

	"bydupdates/internal/calculator"
	"bydupdates/internal/seo"
)

const (
	CalculatorPath = "/ev-charge-cost-calculator"
	LifespanPath   = "/ev-tool"
)

// Calculate applies the query to the configured default session and
// computes the results table.
func (a *Assembler) Calculate(q url.Values) (calculator.Session, calculator.Result) {
	calc := a.cfg.Calculator
	s := calculator.ParseSessionForm(calc.Session(), q, calc.Presets)
	return s, calculator.Compute(s.Inputs, calc.Profiles)
}

// Calculator assembles the charge cost calculator page. The form submits
// with GET so every state has a shareable URL.
func (a *Assembler) Calculator(q url.Values) PageData {
	s, res := a.Calculate(q)
	const desc = "Estimate how long it takes and how much it costs to charge your electric car at home or on public AC and DC chargers."

	d := a.base(KindCalculator, CalculatorPath, seo.Page{
		Title:       "EV Charging Cost & Time Calculator",
		Description: desc,
		Keywords:    []string{"EV charging cost calculator", "EV charging time", "electric car charging cost", "BYD charging"},
	}, seo.Crumb{Name: "EV Charge Cost Calculator", Path: CalculatorPath})
	d.Heading = "EV Charging Cost & Time Calculator"
	d.Intro = desc
	d.Calc = &CalculatorView{
		Session:  s,
		Result:   res,
		Presets:  a.cfg.Calculator.Presets,
		Currency: a.cfg.Calculator.Currency,
	}

	a.addSchema(&d, a.site.WebApplication("EV Charging Cost & Time Calculator", CalculatorPath, desc))
	a.addSchema(&d, seo.HowToSchema(
		"How to calculate EV charging cost and time",
		"Work out the energy, time and cost to charge an electric car.",
		"PT1M",
		[2]string{"Choose your vehicle", "Pick a preset or enter the usable battery capacity in kWh."},
		[2]string{"Set the charge window", "Set the current and target state of charge."},
		[2]string{"Enter your electricity rate", "Enter the price you pay per kWh at home."},
		[2]string{"Compare chargers", "Read the time and cost for each charger level."},
	))
	return d
}

// Lifespan assembles the battery lifespan estimator. Until the form is
// submitted no estimate is shown.
func (a *Assembler) Lifespan(q url.Values) PageData {
	in, submitted := calculator.ParseLifespanForm(q)
	const desc = "Estimate how many years your EV battery will last based on your driving, charging and parking habits."

	d := a.base(KindLifespan, LifespanPath, seo.Page{
		Title:       "EV Battery Lifespan Estimator",
		Description: desc,
		Keywords:    []string{"EV battery lifespan", "battery degradation", "BYD Blade battery life"},
	}, seo.Crumb{Name: "EV Battery Lifespan Estimator", Path: LifespanPath})
	d.Heading = "EV Battery Lifespan Estimator"
	d.Intro = desc
	d.Lifespan = &LifespanView{Inputs: in, Submitted: submitted}
	if submitted {
		d.Lifespan.Estimate = calculator.EstimateLifespan(in)
	}

	a.addSchema(&d, a.site.WebApplication("EV Battery Lifespan Estimator", LifespanPath, desc))
	return d
}
