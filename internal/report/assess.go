package report

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/hjortnaes/scorecard/internal/engine"
)

// QuoteFunc supplies instant quote data for valuations. Failures degrade a
// row to a valuation-free entry, they never abort the batch.
type QuoteFunc func(ctx context.Context, ticker string) (*engine.QuoteInfo, error)

var assessColumns = []string{
	"ticker",
	"sector",
	"industry",
	"valuation_style",
	"valuation_model",
	"current_price",
	"actual_multiple",
	"fair_multiple",
	"multiple_ratio",
	"fair_price",
	"valuation_gap_pct",
	"price_assessment",
}

func tickerByCompany() map[string]string {
	m := make(map[string]string, len(engine.DefaultCompanyAssets))
	for _, asset := range engine.DefaultCompanyAssets {
		m[asset.Name] = asset.Ticker
	}
	return m
}

func fmtOpt(v *float64, decimals int) string {
	if v == nil {
		return ""
	}
	return fmt.Sprintf("%.*f", decimals, *v)
}

// AssessTable augments scored rows with sector-conditioned valuation columns
// and appends the broad benchmark rows.
func AssessTable(ctx context.Context, table *Table, quotes QuoteFunc) {
	for _, col := range assessColumns {
		table.AddColumn(col)
	}

	tickers := tickerByCompany()
	for _, row := range table.Rows {
		assessRow(ctx, row, tickers[row["company"]], quotes)
	}

	for _, bench := range engine.DefaultBenchmarkAssets {
		table.Rows = append(table.Rows, benchmarkRow(ctx, bench, quotes, table.Columns))
	}
}

func assessRow(ctx context.Context, row Row, ticker string, quotes QuoteFunc) {
	// Rows without a recorded score assess against an average company.
	score := 50.0
	if v := parseCell(row, "score_total"); v != nil {
		score = *v
	}

	metrics := &engine.RawMetrics{}
	if ticker != "" {
		if info, err := quotes(ctx, ticker); err == nil {
			metrics.Sector = info.Sector
			metrics.Industry = info.Industry
			metrics.Price = info.LastPrice
			metrics.TrailingPE = info.TrailingPE
			metrics.PriceToBook = info.PriceToBook
			metrics.EnterpriseToEBITDA = info.EnterpriseToEBITDA
		}
	}

	valuation := engine.ComputeValuation(score, metrics)

	fair := valuation.FairMultiple
	row["ticker"] = ticker
	row["sector"] = metrics.Sector
	row["industry"] = metrics.Industry
	row["valuation_style"] = valuation.Style
	row["valuation_model"] = engine.DisplayModel(valuation.Model)
	row["current_price"] = fmtOpt(metrics.Price, 2)
	row["actual_multiple"] = fmtOpt(valuation.ActualMultiple, 2)
	row["fair_multiple"] = fmt.Sprintf("%.2f", fair)
	row["multiple_ratio"] = fmtOpt(valuation.MultipleRatio, 2)
	row["fair_price"] = fmtOpt(valuation.FairPrice, 2)
	row["valuation_gap_pct"] = fmtOpt(valuation.ValuationGapPct, 1)
	row["price_assessment"] = valuation.Assessment
}

func benchmarkRow(ctx context.Context, bench engine.AssetDescriptor, quotes QuoteFunc, columns []string) Row {
	row := make(Row, len(columns))
	for _, col := range columns {
		row[col] = ""
	}

	var price, proxyPE *float64
	if info, err := quotes(ctx, bench.Ticker); err == nil {
		price = info.LastPrice
	}
	valuationTicker := bench.ValuationTicker
	if valuationTicker == "" {
		valuationTicker = bench.Ticker
	}
	if info, err := quotes(ctx, valuationTicker); err == nil {
		proxyPE = info.TrailingPE
	}

	valuation := engine.ComputeBenchmarkValuation(proxyPE, bench.BenchmarkFairPE, price)

	row["company"] = bench.Name
	row["index"] = "Benchmark"
	row["grade"] = "N/A"
	row["ticker"] = bench.Ticker
	row["sector"] = "Broad Market Index"
	row["industry"] = "Diversified"
	row["valuation_style"] = valuation.Style
	row["valuation_model"] = engine.DisplayModel(valuation.Model)
	row["current_price"] = fmtOpt(price, 2)
	row["actual_multiple"] = fmtOpt(valuation.ActualMultiple, 2)
	row["fair_multiple"] = fmt.Sprintf("%.2f", valuation.FairMultiple)
	row["multiple_ratio"] = fmtOpt(valuation.MultipleRatio, 2)
	row["fair_price"] = fmtOpt(valuation.FairPrice, 2)
	row["valuation_gap_pct"] = fmtOpt(valuation.ValuationGapPct, 1)
	row["price_assessment"] = valuation.Assessment
	return row
}

// WriteAssessmentMarkdown renders the valuation table with an as-of stamp.
func WriteAssessmentMarkdown(table *Table, path string, now time.Time) error {
	lines := []string{
		fmt.Sprintf("_As of: %s_", now.UTC().Format("2006-01-02 15:04 UTC")),
		"",
		"| Company | Score | Grade | Price | Fair Price | Upside/Downside % | Model | Actual | Fair | Ratio | Assessment |",
		"|---|---:|---:|---:|---:|---:|---|---:|---:|---:|---|",
	}
	for _, row := range table.Rows {
		lines = append(lines, fmt.Sprintf("| %s | %s | %s | %s | %s | %s | %s | %s | %s | %s | %s |",
			row["company"], row["score_total"], row["grade"],
			row["current_price"], row["fair_price"], row["valuation_gap_pct"],
			row["valuation_model"], row["actual_multiple"], row["fair_multiple"],
			row["multiple_ratio"], row["price_assessment"]))
	}
	return os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0644)
}
