package report

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/hjortnaes/scorecard/internal/engine"
)

// Columns the scorecard expects in its input, besides company/index/report
// metadata. Each may be blank; blank excludes the component.
var (
	requiredMetaColumns = []string{"prior_report_date", "prior_report_url", "guidance_change"}

	requiredNumericColumns = []string{
		"revenue_yoy_pct",
		"eps_yoy_pct",
		"op_margin_latest_pct",
		"op_margin_prior_pct",
		"fcf_yoy_pct",
		"net_debt_to_ebitda",
	}

	scoreColumns = []string{
		"data_completeness_pct",
		"score_growth_revenue",
		"score_growth_eps",
		"score_profit_margin_level",
		"score_profit_margin_yoy",
		"score_guidance",
		"score_capital_fcf",
		"score_capital_leverage",
		"score_total",
		"grade",
	}
)

func parseCell(row Row, col string) *float64 {
	raw := strings.TrimSpace(row[col])
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil
	}
	return &v
}

func formatScore(components map[string]float64, key string) string {
	if v, ok := components[key]; ok {
		return fmt.Sprintf("%.1f", v)
	}
	return ""
}

// completeness for curated report rows counts filled columns, metadata
// included, against the full required set. This is a data-entry quality
// measure, distinct from the engine's weight-based completeness.
func rowCompleteness(row Row) float64 {
	total := len(requiredMetaColumns) + len(requiredNumericColumns)
	present := 0
	for _, col := range append(append([]string(nil), requiredMetaColumns...), requiredNumericColumns...) {
		if strings.TrimSpace(row[col]) != "" {
			present++
		}
	}
	return float64(present) / float64(total) * 100.0
}

// ScoreTable applies the composite scorecard to every row, appending the
// per-component and total score columns.
func ScoreTable(table *Table) {
	for _, col := range scoreColumns {
		table.AddColumn(col)
	}

	for _, row := range table.Rows {
		result := engine.ComputeScore(engine.ScoreInputs{
			RevenueYoYPct:     parseCell(row, "revenue_yoy_pct"),
			EPSYoYPct:         parseCell(row, "eps_yoy_pct"),
			OpMarginLatestPct: parseCell(row, "op_margin_latest_pct"),
			OpMarginPriorPct:  parseCell(row, "op_margin_prior_pct"),
			Guidance:          strings.TrimSpace(row["guidance_change"]),
			FCFYoYPct:         parseCell(row, "fcf_yoy_pct"),
			NetDebtToEBITDA:   parseCell(row, "net_debt_to_ebitda"),
		})

		row["data_completeness_pct"] = fmt.Sprintf("%.1f", rowCompleteness(row))
		row["score_growth_revenue"] = formatScore(result.Components, "growth_revenue")
		row["score_growth_eps"] = formatScore(result.Components, "growth_eps")
		row["score_profit_margin_level"] = formatScore(result.Components, "profit_margin_level")
		row["score_profit_margin_yoy"] = formatScore(result.Components, "profit_margin_yoy")
		row["score_guidance"] = formatScore(result.Components, "guidance")
		row["score_capital_fcf"] = formatScore(result.Components, "capital_fcf")
		row["score_capital_leverage"] = formatScore(result.Components, "capital_leverage")

		if result.Total != nil {
			row["score_total"] = fmt.Sprintf("%.1f", *result.Total)
		} else {
			row["score_total"] = ""
		}
		row["grade"] = result.Grade
	}
}

// WriteScorecardMarkdown renders the scored table as a Markdown report.
func WriteScorecardMarkdown(table *Table, path string) error {
	lines := []string{
		"| Company | Index | Completeness | Score | Grade | Latest report | Prior comparable |",
		"|---|---:|---:|---:|---:|---|---|",
	}
	for _, row := range table.Rows {
		latest := fmt.Sprintf("[%s](%s)", row["latest_report_date"], row["latest_report_url"])
		prior := "-"
		if row["prior_report_date"] != "" && row["prior_report_url"] != "" {
			prior = fmt.Sprintf("[%s](%s)", row["prior_report_date"], row["prior_report_url"])
		}
		lines = append(lines, fmt.Sprintf("| %s | %s | %s%% | %s | %s | %s | %s |",
			row["company"], row["index"], row["data_completeness_pct"],
			row["score_total"], row["grade"], latest, prior))
	}
	return os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0644)
}
