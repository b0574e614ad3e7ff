package engine

import (
	"context"
	"math"
	"time"
)

// RawMetrics is the per-asset bag of raw financial figures, produced fresh
// on every computation. Absence is a first-class state: nil is never zero.
type RawMetrics struct {
	Sector             string
	Industry           string
	Price              *float64
	TrailingPE         *float64
	PriceToBook        *float64
	EnterpriseToEBITDA *float64
	LatestPeriod       string
	PriorPeriod        string
	RevenueYoYPct      *float64
	EPSYoYPct          *float64
	OpMarginLatestPct  *float64
	OpMarginPriorPct   *float64
	FCFYoYPct          *float64
	NetDebtToEBITDA    *float64
	NextEarningsISO    string
	NextEarningsTS     *int64
}

// Ordered label aliases, first match wins.
var (
	revenueLines  = []string{"Total Revenue", "Operating Revenue"}
	epsLines      = []string{"Diluted EPS", "Basic EPS"}
	opIncomeLines = []string{"Total Operating Income As Reported", "Operating Income"}
	ebitdaLines   = []string{"EBITDA", "Normalized EBITDA"}
	fcfLines      = []string{"Free Cash Flow"}
	netDebtLines  = []string{"Net Debt", "Total Debt"}
)

// statementCols picks the latest and prior comparison columns. Quarterly
// tables with at least five columns compare a quarter to the same quarter a
// year earlier (index 4); two to four columns fall back to adjacent columns.
// A single column cannot anchor a comparison and selects nothing.
func statementCols(s Statement) (now, prev int) {
	switch {
	case len(s.Columns) >= 5:
		return 0, 4
	case len(s.Columns) >= 2:
		return 0, 1
	default:
		return -1, -1
	}
}

func columnLabel(s Statement, col int) string {
	if col < 0 || col >= len(s.Columns) {
		return ""
	}
	return s.Columns[col]
}

// YoYPct computes the year-over-year percent change. Nil when either operand
// is missing or the prior value is exactly zero.
func YoYPct(now, prev *float64) *float64 {
	if now == nil || prev == nil || *prev == 0 {
		return nil
	}
	v := (*now - *prev) / math.Abs(*prev) * 100.0
	return &v
}

func marginPct(income, revenue *float64) *float64 {
	if income == nil || revenue == nil || *revenue == 0 {
		return nil
	}
	v := *income / *revenue * 100.0
	return &v
}

// netDebtToEBITDA annualizes a single quarter's EBITDA (x4) and floors the
// ratio at zero so net-cash balance sheets score as unlevered.
func netDebtToEBITDA(netDebt, ebitdaQuarter *float64) *float64 {
	if netDebt == nil || ebitdaQuarter == nil || *ebitdaQuarter == 0 {
		return nil
	}
	v := math.Max(0.0, *netDebt/(*ebitdaQuarter*4.0))
	return &v
}

// ExtractMetrics pulls the raw metric bag for one ticker from the data
// source. Individual missing figures degrade to nil; only a failed source
// call is returned as an error.
func ExtractMetrics(ctx context.Context, source MarketDataSource, ticker string, now time.Time) (*RawMetrics, error) {
	info, err := source.QuoteInfo(ctx, ticker)
	if err != nil {
		return nil, err
	}
	stmts, err := source.Statements(ctx, ticker)
	if err != nil {
		return nil, err
	}

	incNow, incPrev := statementCols(stmts.Income)
	cfNow, cfPrev := statementCols(stmts.CashFlow)
	bsNow, _ := statementCols(stmts.BalanceSheet)

	revNow := stmts.Income.Line(revenueLines, incNow)
	revPrev := stmts.Income.Line(revenueLines, incPrev)
	opNow := stmts.Income.Line(opIncomeLines, incNow)
	opPrev := stmts.Income.Line(opIncomeLines, incPrev)

	nextISO, nextTS := ResolveNextEarnings(info, now)

	return &RawMetrics{
		Sector:             info.Sector,
		Industry:           info.Industry,
		Price:              info.LastPrice,
		TrailingPE:         info.TrailingPE,
		PriceToBook:        info.PriceToBook,
		EnterpriseToEBITDA: info.EnterpriseToEBITDA,
		LatestPeriod:       columnLabel(stmts.Income, incNow),
		PriorPeriod:        columnLabel(stmts.Income, incPrev),
		RevenueYoYPct:      YoYPct(revNow, revPrev),
		EPSYoYPct:          YoYPct(stmts.Income.Line(epsLines, incNow), stmts.Income.Line(epsLines, incPrev)),
		OpMarginLatestPct:  marginPct(opNow, revNow),
		OpMarginPriorPct:   marginPct(opPrev, revPrev),
		FCFYoYPct:          YoYPct(stmts.CashFlow.Line(fcfLines, cfNow), stmts.CashFlow.Line(fcfLines, cfPrev)),
		NetDebtToEBITDA:    netDebtToEBITDA(stmts.BalanceSheet.Line(netDebtLines, bsNow), stmts.Income.Line(ebitdaLines, incNow)),
		NextEarningsISO:    nextISO,
		NextEarningsTS:     nextTS,
	}, nil
}

func round1(v float64) float64 { return math.Round(v*10) / 10 }
func round2(v float64) float64 { return math.Round(v*100) / 100 }

func round1p(v *float64) *float64 {
	if v == nil {
		return nil
	}
	r := round1(*v)
	return &r
}

func round2p(v *float64) *float64 {
	if v == nil {
		return nil
	}
	r := round2(*v)
	return &r
}
