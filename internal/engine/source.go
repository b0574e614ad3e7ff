package engine

import "context"

// QuoteInfo is the instant view of one instrument as reported by the market
// data source. Every numeric field is best-effort; nil means the source had
// no usable figure.
type QuoteInfo struct {
	Sector             string
	Industry           string
	LastPrice          *float64
	TrailingPE         *float64
	PriceToBook        *float64
	EnterpriseToEBITDA *float64

	// Earnings date candidates, all epoch seconds.
	EarningsTimestampStart *int64
	EarningsTimestamp      *int64
	EarningsTimestampEnd   *int64
	EarningsDates          []int64
}

// Statement is one financial statement: ordered reporting-period columns
// (most recent first) and line items keyed by label, each value aligned to
// the column at the same position. A nil cell means the figure was missing
// or non-numeric in the source.
type Statement struct {
	Columns []string
	Lines   map[string][]*float64
}

// Empty reports whether the statement carries no usable columns.
func (s Statement) Empty() bool { return len(s.Columns) == 0 }

// Line returns the value of the first label in names that exists in the
// statement, at the given column. Missing label, out-of-range column or a
// nil cell all yield nil.
func (s Statement) Line(names []string, col int) *float64 {
	if col < 0 || col >= len(s.Columns) {
		return nil
	}
	for _, name := range names {
		values, ok := s.Lines[name]
		if !ok {
			continue
		}
		if col >= len(values) {
			return nil
		}
		return values[col]
	}
	return nil
}

// Statements bundles the three statements for one ticker. The source falls
// back to annual cadence per statement when quarterly data is empty.
type Statements struct {
	Income       Statement
	CashFlow     Statement
	BalanceSheet Statement
}

// MarketDataSource is the external market-data collaborator. Implementations
// must tolerate concurrent independent calls; failures propagate to the
// caller and become placeholder rows, never a run abort.
type MarketDataSource interface {
	// QuoteInfo returns the instant quote attributes for a ticker.
	QuoteInfo(ctx context.Context, ticker string) (*QuoteInfo, error)
	// Statements returns the quarterly (or annual fallback) statements.
	Statements(ctx context.Context, ticker string) (*Statements, error)
	// LastClose returns the most recent daily close within the window, or
	// nil without error when the series is empty.
	LastClose(ctx context.Context, ticker string, days int) (*float64, error)
}
