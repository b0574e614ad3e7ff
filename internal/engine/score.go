package engine

import "strings"

// Weights holds the fixed per-component score weights. They sum to 100 when
// every component is populated.
type Weights struct {
	RevenueYoY  float64
	EPSYoY      float64
	MarginLevel float64
	MarginYoY   float64
	Guidance    float64
	FCFYoY      float64
	Leverage    float64
}

// DefaultWeights: 30 growth, 25 profitability, 25 guidance, 20 capital.
var DefaultWeights = Weights{
	RevenueYoY:  15.0,
	EPSYoY:      15.0,
	MarginLevel: 12.0,
	MarginYoY:   13.0,
	Guidance:    25.0,
	FCFYoY:      10.0,
	Leverage:    10.0,
}

// GuidanceNeutral is the signal the live pipeline feeds while no guidance
// source is wired in: the component is scored at its neutral midpoint and
// its full weight counts toward completeness.
const GuidanceNeutral = "unchanged"

// ScoreInputs carries the raw figures for one asset. Nil means the source
// had no usable value; absent inputs are excluded from both the score and
// the completeness denominator. An empty Guidance string excludes the
// guidance component entirely (offline rows without a recorded change).
type ScoreInputs struct {
	RevenueYoYPct     *float64
	EPSYoYPct         *float64
	OpMarginLatestPct *float64
	OpMarginPriorPct  *float64
	Guidance          string
	FCFYoYPct         *float64
	NetDebtToEBITDA   *float64
}

// ScoreResult is the weighted composite. Total is nil when not a single
// component could be evaluated; Grade is then "N/A".
type ScoreResult struct {
	Total               *float64           `json:"score_total"`
	Grade               string             `json:"grade"`
	Components          map[string]float64 `json:"components"`
	DataCompletenessPct float64            `json:"data_completeness_pct"`
}

// guidancePoints maps a guidance change to its absolute point award out of
// the 25-point guidance weight. Unknown non-empty values score neutral.
func guidancePoints(change string) float64 {
	switch strings.ToLower(strings.TrimSpace(change)) {
	case "cut", "lowered":
		return 0.0
	case "raised":
		return 25.0
	default:
		return 12.0
	}
}

// ComputeScore normalizes the available components into a 0..100 total. The
// margin level and margin delta components share a gate: both periods must
// be present or neither is scored.
func ComputeScore(in ScoreInputs) ScoreResult {
	w := DefaultWeights
	components := make(map[string]float64)
	rawPoints := 0.0
	availableWeights := 0.0

	if in.RevenueYoYPct != nil {
		s := Piecewise(*in.RevenueYoYPct, revenueYoYBands) * w.RevenueYoY
		components["growth_revenue"] = round1(s)
		rawPoints += s
		availableWeights += w.RevenueYoY
	}

	if in.EPSYoYPct != nil {
		s := Piecewise(*in.EPSYoYPct, epsYoYBands) * w.EPSYoY
		components["growth_eps"] = round1(s)
		rawPoints += s
		availableWeights += w.EPSYoY
	}

	if in.OpMarginLatestPct != nil && in.OpMarginPriorPct != nil {
		level := Piecewise(*in.OpMarginLatestPct, marginLevelBands) * w.MarginLevel
		delta := Piecewise(*in.OpMarginLatestPct-*in.OpMarginPriorPct, marginYoYBands) * w.MarginYoY
		components["profit_margin_level"] = round1(level)
		components["profit_margin_yoy"] = round1(delta)
		rawPoints += level + delta
		availableWeights += w.MarginLevel + w.MarginYoY
	}

	if in.Guidance != "" {
		s := guidancePoints(in.Guidance)
		components["guidance"] = round1(s)
		rawPoints += s
		availableWeights += w.Guidance
	}

	if in.FCFYoYPct != nil {
		s := Piecewise(*in.FCFYoYPct, fcfYoYBands) * w.FCFYoY
		components["capital_fcf"] = round1(s)
		rawPoints += s
		availableWeights += w.FCFYoY
	}

	if in.NetDebtToEBITDA != nil {
		s := Piecewise(*in.NetDebtToEBITDA, leverageBands) * w.Leverage
		components["capital_leverage"] = round1(s)
		rawPoints += s
		availableWeights += w.Leverage
	}

	result := ScoreResult{
		Grade:               "N/A",
		Components:          components,
		DataCompletenessPct: round1(availableWeights),
	}
	if availableWeights == 0 {
		return result
	}

	total := clamp(rawPoints/availableWeights*100.0, 0.0, 100.0)
	total = round1(total)
	result.Total = &total
	result.Grade = Grade(total)
	return result
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
