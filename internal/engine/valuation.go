package engine

import "strings"

// Valuation models. Internal tags; DisplayModel renders the wire form.
const (
	ModelPE       = "pe"
	ModelPB       = "pb"
	ModelEVEBITDA = "ev_ebitda"
)

// Style cohorts.
const (
	StyleTechHypergrowth = "tech_hypergrowth"
	StyleTechQuality     = "tech_quality"
	StyleFinancials      = "financials"
	StyleEnergy          = "energy"
	StyleIndustrials     = "industrials"
	StyleHealthcare      = "healthcare"
	StyleBroadMarket     = "broad_market"
)

// Assessment labels.
const (
	AssessUndervalued = "Undervalued"
	AssessFair        = "Fair"
	AssessOvervalued  = "Overvalued"
	AssessNA          = "N/A"
)

// ValuationResult is the model-implied fair value view of one asset.
type ValuationResult struct {
	Model           string   `json:"valuation_model"`
	Style           string   `json:"valuation_style"`
	ActualMultiple  *float64 `json:"actual_multiple"`
	FairMultiple    float64  `json:"fair_multiple"`
	MultipleRatio   *float64 `json:"multiple_ratio"`
	FairPrice       *float64 `json:"fair_price"`
	ValuationGapPct *float64 `json:"valuation_gap_pct"`
	Assessment      string   `json:"assessment"`
}

// ModelForSector picks the valuation multiple family from sector/industry
// text. Substring match, case-insensitive, first rule wins. Payment networks
// are carved out of financials: book value is meaningless for them.
func ModelForSector(sector, industry string) string {
	s := strings.ToLower(sector)
	i := strings.ToLower(industry)
	switch {
	case strings.Contains(i, "credit services") || strings.Contains(i, "payment"):
		return ModelPE
	case strings.Contains(s, "financial") || strings.Contains(s, "bank") || strings.Contains(s, "insurance"):
		return ModelPB
	case strings.Contains(s, "energy") || strings.Contains(s, "oil") || strings.Contains(s, "gas"):
		return ModelEVEBITDA
	case strings.Contains(s, "industrial") || strings.Contains(s, "transport") || strings.Contains(s, "shipping"):
		return ModelEVEBITDA
	default:
		return ModelPE
	}
}

// StyleForSector classifies the stylistic cohort, independent of the model.
func StyleForSector(sector, industry string) string {
	s := strings.ToLower(sector)
	i := strings.ToLower(industry)
	switch {
	case strings.Contains(i, "software") || strings.Contains(i, "semiconductor") || strings.Contains(i, "internet"):
		return StyleTechHypergrowth
	case strings.Contains(s, "technology") || strings.Contains(i, "electronic"):
		return StyleTechQuality
	case strings.Contains(s, "financial") || strings.Contains(s, "bank") || strings.Contains(s, "insurance"):
		return StyleFinancials
	case strings.Contains(s, "energy") || strings.Contains(i, "oil") || strings.Contains(i, "gas"):
		return StyleEnergy
	case strings.Contains(s, "industrial") || strings.Contains(s, "transport") || strings.Contains(i, "shipping"):
		return StyleIndustrials
	case strings.Contains(s, "healthcare") || strings.Contains(i, "pharmaceutical") || strings.Contains(i, "drug"):
		return StyleHealthcare
	default:
		return StyleBroadMarket
	}
}

// FairMultiple is a linear function of the composite score, conditioned on
// model and style. A benchmark override takes precedence for PE rows.
func FairMultiple(score float64, model, style string, benchFairPE *float64) float64 {
	if benchFairPE != nil && model == ModelPE {
		return *benchFairPE
	}
	switch {
	case model == ModelPE && style == StyleTechHypergrowth:
		return 14.0 + score*0.42
	case model == ModelPE && style == StyleTechQuality:
		return 11.0 + score*0.34
	case model == ModelPE && style == StyleHealthcare:
		return 9.0 + score*0.30
	case model == ModelPE:
		return 7.0 + score*0.26
	case model == ModelPB:
		return 0.6 + score*0.018
	case model == ModelEVEBITDA:
		return 3.0 + score*0.11
	default:
		return 10.0
	}
}

// ValuationLabel buckets the actual/fair ratio. The fair band is widened for
// tech cohorts, where elevated multiples persist. Boundaries are inclusive.
func ValuationLabel(ratio *float64, style string) string {
	if ratio == nil {
		return AssessNA
	}
	low, high := 0.85, 1.15
	if style == StyleTechHypergrowth || style == StyleTechQuality {
		low, high = 0.75, 1.30
	}
	switch {
	case *ratio <= low:
		return AssessUndervalued
	case *ratio >= high:
		return AssessOvervalued
	default:
		return AssessFair
	}
}

// OpportunityBonus is the ranking-only adjustment applied on top of the
// composite score. Never part of the displayed score.
func OpportunityBonus(assessment string) float64 {
	switch assessment {
	case AssessUndervalued:
		return 30.0
	case AssessFair:
		return 10.0
	default:
		return -20.0
	}
}

// DisplayModel renders the internal model tag in its wire form (PE, PB,
// EV/EBITDA).
func DisplayModel(model string) string {
	return strings.ReplaceAll(strings.ToUpper(model), "_", "/")
}

// positiveOnly discards non-positive multiples, which carry no valuation
// signal (negative earnings, negative book value).
func positiveOnly(v *float64) *float64 {
	if v != nil && *v <= 0 {
		return nil
	}
	return v
}

// ComputeValuation classifies the asset and inverts the fair multiple into a
// fair price. When the selected model's multiple is unavailable it falls
// back PE -> PB -> EV/EBITDA, retagging the model to match.
func ComputeValuation(score float64, m *RawMetrics) ValuationResult {
	model := ModelForSector(m.Sector, m.Industry)
	style := StyleForSector(m.Sector, m.Industry)

	trailingPE := positiveOnly(m.TrailingPE)
	pb := positiveOnly(m.PriceToBook)
	evEBITDA := positiveOnly(m.EnterpriseToEBITDA)

	var actual *float64
	switch model {
	case ModelPE:
		actual = trailingPE
	case ModelPB:
		actual = pb
	default:
		actual = evEBITDA
	}

	if actual == nil {
		switch {
		case trailingPE != nil:
			model, actual = ModelPE, trailingPE
		case pb != nil:
			model, actual = ModelPB, pb
		case evEBITDA != nil:
			model, actual = ModelEVEBITDA, evEBITDA
		}
	}

	// A price/book multiple this low is usually a data artifact; prefer the
	// earnings multiple when one exists.
	if model == ModelPB && actual != nil && *actual < 0.3 && trailingPE != nil {
		model, actual = ModelPE, trailingPE
	}

	fair := FairMultiple(score, model, style, nil)
	return finishValuation(model, style, actual, fair, m.Price)
}

// ComputeBenchmarkValuation skips the classifier: benchmarks are always PE /
// broad_market, valued through their configured proxy multiple against the
// configured (or default 20x) fair PE.
func ComputeBenchmarkValuation(proxyPE *float64, fairPE *float64, price *float64) ValuationResult {
	fair := 20.0
	if fairPE != nil {
		fair = *fairPE
	}
	return finishValuation(ModelPE, StyleBroadMarket, positiveOnly(proxyPE), fair, price)
}

func finishValuation(model, style string, actual *float64, fair float64, price *float64) ValuationResult {
	result := ValuationResult{
		Model:        model,
		Style:        style,
		FairMultiple: fair,
	}

	if actual != nil && fair > 0 {
		ratio := *actual / fair
		result.MultipleRatio = &ratio
		if ratio > 0 && price != nil {
			fp := *price / ratio
			result.FairPrice = &fp
			if *price != 0 {
				gap := (fp / *price - 1.0) * 100.0
				result.ValuationGapPct = &gap
			}
		}
	}

	result.ActualMultiple = actual
	result.Assessment = ValuationLabel(result.MultipleRatio, style)
	return result
}
