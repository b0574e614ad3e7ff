package engine

import (
	"context"
	"math"
	"testing"
	"time"
)

func TestYoYPct(t *testing.T) {
	if got := YoYPct(f(110), f(100)); got == nil || *got != 10.0 {
		t.Errorf("yoy(110,100) = %v, want 10", got)
	}
	// Sign change against a negative base uses the absolute prior value.
	if got := YoYPct(f(50), f(-100)); got == nil || *got != 150.0 {
		t.Errorf("yoy(50,-100) = %v, want 150", got)
	}
	if got := YoYPct(f(110), f(0)); got != nil {
		t.Errorf("zero prior should be nil, got %v", *got)
	}
	if got := YoYPct(nil, f(100)); got != nil {
		t.Errorf("nil now should be nil, got %v", *got)
	}
	if got := YoYPct(f(110), nil); got != nil {
		t.Errorf("nil prior should be nil, got %v", *got)
	}
}

func TestMarginPct(t *testing.T) {
	if got := marginPct(f(30), f(100)); got == nil || *got != 30.0 {
		t.Errorf("margin(30,100) = %v, want 30", got)
	}
	if got := marginPct(f(30), f(0)); got != nil {
		t.Errorf("zero revenue should be nil, got %v", *got)
	}
	if got := marginPct(nil, f(100)); got != nil {
		t.Errorf("nil income should be nil, got %v", *got)
	}
}

func TestNetDebtToEBITDA(t *testing.T) {
	if got := netDebtToEBITDA(f(400), f(50)); got == nil || *got != 2.0 {
		t.Errorf("400/(50*4) = %v, want 2", got)
	}
	// Net cash floors at zero rather than going negative.
	if got := netDebtToEBITDA(f(-400), f(50)); got == nil || *got != 0.0 {
		t.Errorf("net cash = %v, want 0", got)
	}
	if got := netDebtToEBITDA(f(400), f(0)); got != nil {
		t.Errorf("zero ebitda should be nil, got %v", *got)
	}
}

func TestStatementCols(t *testing.T) {
	cols := func(n int) []string {
		out := make([]string, n)
		for i := range out {
			out[i] = "c"
		}
		return out
	}
	cases := []struct {
		n, now, prev int
	}{
		{6, 0, 4},
		{5, 0, 4},
		{4, 0, 1},
		{2, 0, 1},
		{1, -1, -1},
		{0, -1, -1},
	}
	for _, tc := range cases {
		now, prev := statementCols(Statement{Columns: cols(tc.n)})
		if now != tc.now || prev != tc.prev {
			t.Errorf("%d columns: got (%d,%d), want (%d,%d)", tc.n, now, prev, tc.now, tc.prev)
		}
	}
}

func TestStatementLineAliases(t *testing.T) {
	s := Statement{
		Columns: []string{"2025-06-30", "2025-03-31"},
		Lines: map[string][]*float64{
			"Total Revenue":     {f(100), f(90)},
			"Operating Revenue": {f(999), f(999)},
			"Basic EPS":         {f(1.5), nil},
		},
	}
	if got := s.Line(revenueLines, 0); got == nil || *got != 100 {
		t.Errorf("first alias should win, got %v", got)
	}
	if got := s.Line(epsLines, 0); got == nil || *got != 1.5 {
		t.Errorf("fallback alias: got %v, want 1.5", got)
	}
	if got := s.Line(epsLines, 1); got != nil {
		t.Errorf("nil cell should stay nil, got %v", *got)
	}
	if got := s.Line(fcfLines, 0); got != nil {
		t.Errorf("missing label should be nil, got %v", *got)
	}
	if got := s.Line(revenueLines, 5); got != nil {
		t.Errorf("out-of-range column should be nil, got %v", *got)
	}
}

// staticSource serves canned data for one ticker.
type staticSource struct {
	info  QuoteInfo
	stmts Statements
	close *float64
	err   error
}

func (s *staticSource) QuoteInfo(ctx context.Context, ticker string) (*QuoteInfo, error) {
	if s.err != nil {
		return nil, s.err
	}
	info := s.info
	return &info, nil
}

func (s *staticSource) Statements(ctx context.Context, ticker string) (*Statements, error) {
	if s.err != nil {
		return nil, s.err
	}
	stmts := s.stmts
	return &stmts, nil
}

func (s *staticSource) LastClose(ctx context.Context, ticker string, days int) (*float64, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.close, nil
}

func quarterCols() []string {
	return []string{"2025-06-30", "2025-03-31", "2024-12-31", "2024-09-30", "2024-06-30"}
}

func TestExtractMetrics(t *testing.T) {
	now := time.Date(2025, 8, 1, 0, 0, 0, 0, time.UTC)
	future := now.Add(20 * 24 * time.Hour).Unix()
	src := &staticSource{
		info: QuoteInfo{
			Sector:            "Technology",
			Industry:          "Semiconductors",
			LastPrice:         f(120),
			TrailingPE:        f(45),
			EarningsTimestamp: ts(future),
		},
		stmts: Statements{
			Income: Statement{
				Columns: quarterCols(),
				Lines: map[string][]*float64{
					"Total Revenue":    {f(130), f(120), f(115), f(110), f(100)},
					"Diluted EPS":      {f(1.2), f(1.1), f(1.05), f(1.0), f(1.0)},
					"Operating Income": {f(39), f(30), f(28), f(27), f(25)},
					"EBITDA":           {f(50), f(45), f(44), f(42), f(40)},
				},
			},
			CashFlow: Statement{
				Columns: quarterCols(),
				Lines: map[string][]*float64{
					"Free Cash Flow": {f(44), f(38), f(36), f(35), f(40)},
				},
			},
			BalanceSheet: Statement{
				Columns: []string{"2025-06-30", "2025-03-31"},
				Lines: map[string][]*float64{
					"Net Debt": {f(100), f(120)},
				},
			},
		},
	}

	m, err := ExtractMetrics(context.Background(), src, "NVDA", now)
	if err != nil {
		t.Fatalf("ExtractMetrics: %v", err)
	}
	if m.Sector != "Technology" || m.Industry != "Semiconductors" {
		t.Errorf("sector/industry: %q / %q", m.Sector, m.Industry)
	}
	if m.LatestPeriod != "2025-06-30" || m.PriorPeriod != "2024-06-30" {
		t.Errorf("periods: %q / %q", m.LatestPeriod, m.PriorPeriod)
	}
	if m.RevenueYoYPct == nil || math.Abs(*m.RevenueYoYPct-30.0) > 1e-9 {
		t.Errorf("revenue yoy = %v, want 30", m.RevenueYoYPct)
	}
	if m.EPSYoYPct == nil || math.Abs(*m.EPSYoYPct-20.0) > 1e-9 {
		t.Errorf("eps yoy = %v, want 20", m.EPSYoYPct)
	}
	if m.OpMarginLatestPct == nil || math.Abs(*m.OpMarginLatestPct-30.0) > 1e-9 {
		t.Errorf("latest margin = %v, want 30", m.OpMarginLatestPct)
	}
	if m.OpMarginPriorPct == nil || math.Abs(*m.OpMarginPriorPct-25.0) > 1e-9 {
		t.Errorf("prior margin = %v, want 25", m.OpMarginPriorPct)
	}
	if m.FCFYoYPct == nil || math.Abs(*m.FCFYoYPct-10.0) > 1e-9 {
		t.Errorf("fcf yoy = %v, want 10", m.FCFYoYPct)
	}
	if m.NetDebtToEBITDA == nil || math.Abs(*m.NetDebtToEBITDA-0.5) > 1e-9 {
		t.Errorf("leverage = %v, want 0.5", m.NetDebtToEBITDA)
	}
	if m.NextEarningsTS == nil || *m.NextEarningsTS != future {
		t.Errorf("earnings ts = %v, want %d", m.NextEarningsTS, future)
	}
}

func TestExtractMetricsSparseStatements(t *testing.T) {
	src := &staticSource{
		info: QuoteInfo{Sector: "Energy"},
		stmts: Statements{
			Income: Statement{
				Columns: []string{"2024-12-31"},
				Lines:   map[string][]*float64{"Total Revenue": {f(500)}},
			},
		},
	}
	m, err := ExtractMetrics(context.Background(), src, "XOM", time.Now())
	if err != nil {
		t.Fatalf("ExtractMetrics: %v", err)
	}
	if m.RevenueYoYPct != nil {
		t.Errorf("single column must not produce a yoy, got %v", *m.RevenueYoYPct)
	}
	// One column anchors nothing, so no period labels either.
	if m.LatestPeriod != "" || m.PriorPeriod != "" {
		t.Errorf("periods: %q / %q", m.LatestPeriod, m.PriorPeriod)
	}
	if m.OpMarginLatestPct != nil || m.NetDebtToEBITDA != nil {
		t.Errorf("missing lines must stay nil")
	}
}

func TestExtractMetricsSingleColumnBalanceSheet(t *testing.T) {
	// A balance sheet with only one reporting period must not back a
	// leverage figure, even when the income statement is complete.
	src := &staticSource{
		info: QuoteInfo{Sector: "Technology"},
		stmts: Statements{
			Income: Statement{
				Columns: quarterCols(),
				Lines: map[string][]*float64{
					"Total Revenue": {f(130), f(120), f(115), f(110), f(100)},
					"EBITDA":        {f(50), f(45), f(44), f(42), f(40)},
				},
			},
			BalanceSheet: Statement{
				Columns: []string{"2025-06-30"},
				Lines:   map[string][]*float64{"Net Debt": {f(400)}},
			},
		},
	}
	m, err := ExtractMetrics(context.Background(), src, "NVDA", time.Now())
	if err != nil {
		t.Fatalf("ExtractMetrics: %v", err)
	}
	if m.NetDebtToEBITDA != nil {
		t.Errorf("leverage = %v, want nil", *m.NetDebtToEBITDA)
	}
	if m.RevenueYoYPct == nil {
		t.Error("income statement comparison should still score")
	}
}
