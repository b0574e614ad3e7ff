package report

import (
	"context"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/hjortnaes/scorecard/internal/engine"
)

func fp(v float64) *float64 { return &v }

func fakeQuotes(t *testing.T) QuoteFunc {
	t.Helper()
	data := map[string]engine.QuoteInfo{
		"NVDA": {
			Sector:     "Technology",
			Industry:   "Semiconductors",
			LastPrice:  fp(100),
			TrailingPE: fp(28),
		},
		"^GSPC": {LastPrice: fp(5500)},
		"SPY":   {TrailingPE: fp(25.2)},
	}
	return func(ctx context.Context, ticker string) (*engine.QuoteInfo, error) {
		info, ok := data[ticker]
		if !ok {
			return nil, fmt.Errorf("no quote for %s", ticker)
		}
		return &info, nil
	}
}

func TestAssessTableCompanyRow(t *testing.T) {
	table := &Table{
		Columns: []string{"company", "score_total"},
		Rows:    []Row{{"company": "Nvidia", "score_total": "50"}},
	}

	AssessTable(context.Background(), table, fakeQuotes(t))

	row := table.Rows[0]
	if row["ticker"] != "NVDA" || row["sector"] != "Technology" {
		t.Errorf("resolution: %q / %q", row["ticker"], row["sector"])
	}
	if row["valuation_model"] != "PE" || row["valuation_style"] != "tech_hypergrowth" {
		t.Errorf("classification: %q / %q", row["valuation_model"], row["valuation_style"])
	}
	// Fair PE at score 50 is 14 + 0.42*50 = 35; PE 28 gives ratio 0.80,
	// inside the widened tech band.
	if row["fair_multiple"] != "35.00" || row["multiple_ratio"] != "0.80" {
		t.Errorf("multiples: %q / %q", row["fair_multiple"], row["multiple_ratio"])
	}
	if row["fair_price"] != "125.00" || row["valuation_gap_pct"] != "25.0" {
		t.Errorf("fair price: %q / %q", row["fair_price"], row["valuation_gap_pct"])
	}
	if row["price_assessment"] != engine.AssessFair {
		t.Errorf("assessment: %q", row["price_assessment"])
	}
}

func TestAssessTableUnknownCompany(t *testing.T) {
	table := &Table{
		Columns: []string{"company", "score_total"},
		Rows:    []Row{{"company": "Not In Universe"}},
	}

	AssessTable(context.Background(), table, fakeQuotes(t))

	row := table.Rows[0]
	if row["ticker"] != "" {
		t.Errorf("ticker: %q", row["ticker"])
	}
	if row["price_assessment"] != engine.AssessNA {
		t.Errorf("no quote data must assess N/A, got %q", row["price_assessment"])
	}
	if row["actual_multiple"] != "" || row["fair_price"] != "" {
		t.Errorf("valuation cells should be blank: %q / %q", row["actual_multiple"], row["fair_price"])
	}
}

func TestAssessTableAppendsBenchmarks(t *testing.T) {
	table := &Table{
		Columns: []string{"company", "score_total"},
		Rows:    []Row{{"company": "Nvidia", "score_total": "50"}},
	}

	AssessTable(context.Background(), table, fakeQuotes(t))

	want := 1 + len(engine.DefaultBenchmarkAssets)
	if len(table.Rows) != want {
		t.Fatalf("got %d rows, want %d", len(table.Rows), want)
	}

	var spx Row
	for _, row := range table.Rows {
		if row["ticker"] == "^GSPC" {
			spx = row
		}
	}
	if spx == nil {
		t.Fatal("S&P benchmark row missing")
	}
	if spx["index"] != "Benchmark" || spx["grade"] != "N/A" {
		t.Errorf("benchmark meta: %q / %q", spx["index"], spx["grade"])
	}
	// Priced off the index, valued off the SPY proxy: 25.2 / 21 = 1.20.
	if spx["current_price"] != "5500.00" || spx["multiple_ratio"] != "1.20" {
		t.Errorf("benchmark valuation: %q / %q", spx["current_price"], spx["multiple_ratio"])
	}
	if spx["price_assessment"] != engine.AssessOvervalued {
		t.Errorf("assessment: %q", spx["price_assessment"])
	}
}

func TestAssessRowScoreDefaultsToAverage(t *testing.T) {
	tall := &Table{
		Columns: []string{"company", "score_total"},
		Rows: []Row{
			{"company": "Nvidia"},                       // no score recorded
			{"company": "Nvidia", "score_total": "50"}, // explicit average
		},
	}
	AssessTable(context.Background(), tall, fakeQuotes(t))

	if tall.Rows[0]["fair_multiple"] != tall.Rows[1]["fair_multiple"] {
		t.Errorf("missing score should value like an average company: %q vs %q",
			tall.Rows[0]["fair_multiple"], tall.Rows[1]["fair_multiple"])
	}
}

func TestWriteAssessmentMarkdown(t *testing.T) {
	table := &Table{
		Columns: []string{"company", "score_total"},
		Rows:    []Row{{"company": "Nvidia", "score_total": "50"}},
	}
	AssessTable(context.Background(), table, fakeQuotes(t))

	path := filepath.Join(t.TempDir(), "assessment.md")
	now := time.Date(2025, 8, 1, 12, 30, 0, 0, time.UTC)
	if err := WriteAssessmentMarkdown(table, path, now); err != nil {
		t.Fatalf("WriteAssessmentMarkdown: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	out := string(data)
	if !strings.HasPrefix(out, "_As of: 2025-08-01 12:30 UTC_") {
		t.Errorf("missing as-of stamp: %s", out)
	}
	if !strings.Contains(out, "| Nvidia | 50 |") {
		t.Errorf("missing company row: %s", out)
	}
}

func TestFmtOpt(t *testing.T) {
	if got := fmtOpt(nil, 2); got != "" {
		t.Errorf("nil: %q", got)
	}
	if got := fmtOpt(fp(math.Pi), 2); got != "3.14" {
		t.Errorf("pi: %q", got)
	}
}
