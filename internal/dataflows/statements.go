package dataflows

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/hjortnaes/scorecard/internal/engine"
)

// timeseries line keys per statement, keyed by the display label the engine
// looks up. The key order inside a label is irrelevant; the engine's alias
// lists drive which label wins.
var (
	incomeKeys = map[string]string{
		"Total Revenue":                      "TotalRevenue",
		"Operating Revenue":                  "OperatingRevenue",
		"Diluted EPS":                        "DilutedEPS",
		"Basic EPS":                          "BasicEPS",
		"Total Operating Income As Reported": "TotalOperatingIncomeAsReported",
		"Operating Income":                   "OperatingIncome",
		"EBITDA":                             "EBITDA",
		"Normalized EBITDA":                  "NormalizedEBITDA",
	}
	cashFlowKeys = map[string]string{
		"Free Cash Flow": "FreeCashFlow",
	}
	balanceKeys = map[string]string{
		"Net Debt":   "NetDebt",
		"Total Debt": "TotalDebt",
	}
)

// timeseriesResponse is the envelope of the fundamentals-timeseries API.
// Each result carries its key in meta.type and the data points in a field
// named after that key, so the per-result payload is decoded lazily.
type timeseriesResponse struct {
	Timeseries struct {
		Result []json.RawMessage `json:"result"`
		Error  *apiError         `json:"error"`
	} `json:"timeseries"`
}

type timeseriesMeta struct {
	Meta struct {
		Type []string `json:"type"`
	} `json:"meta"`
}

type timeseriesPoint struct {
	AsOfDate      string   `json:"asOfDate"`
	ReportedValue rawValue `json:"reportedValue"`
}

// Statements implements engine.MarketDataSource. Quarterly cadence is
// preferred; any statement that comes back empty is refetched annually.
func (yc *YahooClient) Statements(ctx context.Context, ticker string) (*engine.Statements, error) {
	if err := ValidateSymbol(ticker); err != nil {
		return nil, err
	}
	ticker = NormalizeSymbol(ticker)

	var cached engine.Statements
	if yc.cache.Get("statements", ticker, &cached) {
		return &cached, nil
	}

	stmts := &engine.Statements{}
	for _, part := range []struct {
		target *engine.Statement
		keys   map[string]string
	}{
		{&stmts.Income, incomeKeys},
		{&stmts.CashFlow, cashFlowKeys},
		{&stmts.BalanceSheet, balanceKeys},
	} {
		stmt, err := yc.fetchStatement(ctx, ticker, "quarterly", part.keys)
		if err != nil {
			return nil, err
		}
		if stmt.Empty() {
			stmt, err = yc.fetchStatement(ctx, ticker, "annual", part.keys)
			if err != nil {
				return nil, err
			}
		}
		*part.target = stmt
	}

	yc.cache.Set("statements", ticker, stmts)
	return stmts, nil
}

func (yc *YahooClient) fetchStatement(ctx context.Context, ticker, cadence string, keys map[string]string) (engine.Statement, error) {
	types := make([]string, 0, len(keys))
	for _, key := range keys {
		types = append(types, cadence+key)
	}
	sort.Strings(types)

	end := time.Now()
	start := end.AddDate(-5, 0, 0)

	var body []byte
	err := WithRetry(yc.retry, func() error {
		resp, err := yc.http.R().
			SetContext(ctx).
			SetQueryParams(map[string]string{
				"type":    strings.Join(types, ","),
				"period1": fmt.Sprintf("%d", start.Unix()),
				"period2": fmt.Sprintf("%d", end.Unix()),
			}).
			Get(fmt.Sprintf("/ws/fundamentals-timeseries/v1/finance/timeseries/%s", ticker))
		if err != nil {
			return fmt.Errorf("failed to fetch %s statements for %s: %w", cadence, ticker, err)
		}
		if resp.StatusCode() != 200 {
			return fmt.Errorf("statements API error %d for %s", resp.StatusCode(), ticker)
		}
		body = resp.Body()
		return nil
	})
	if err != nil {
		return engine.Statement{}, err
	}

	return parseTimeseries(body, cadence, keys)
}

// parseTimeseries assembles the raw timeseries payload into a statement with
// reporting-period columns ordered most recent first. Cells the source does
// not report stay nil.
func parseTimeseries(body []byte, cadence string, keys map[string]string) (engine.Statement, error) {
	var parsed timeseriesResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return engine.Statement{}, fmt.Errorf("invalid timeseries response: %w", err)
	}
	if parsed.Timeseries.Error != nil {
		return engine.Statement{}, fmt.Errorf("timeseries API: %s", parsed.Timeseries.Error.Description)
	}

	// key -> label reverse index
	labelFor := make(map[string]string, len(keys))
	for label, key := range keys {
		labelFor[cadence+key] = label
	}

	// label -> period -> value
	values := make(map[string]map[string]*float64)
	periods := make(map[string]struct{})

	for _, raw := range parsed.Timeseries.Result {
		var meta timeseriesMeta
		if err := json.Unmarshal(raw, &meta); err != nil || len(meta.Meta.Type) == 0 {
			continue
		}
		key := meta.Meta.Type[0]
		label, ok := labelFor[key]
		if !ok {
			continue
		}

		var payload map[string]json.RawMessage
		if err := json.Unmarshal(raw, &payload); err != nil {
			continue
		}
		var points []*timeseriesPoint
		if err := json.Unmarshal(payload[key], &points); err != nil {
			continue
		}

		for _, point := range points {
			if point == nil || point.AsOfDate == "" {
				continue
			}
			if values[label] == nil {
				values[label] = make(map[string]*float64)
			}
			values[label][point.AsOfDate] = point.ReportedValue.Raw
			periods[point.AsOfDate] = struct{}{}
		}
	}

	if len(periods) == 0 {
		return engine.Statement{}, nil
	}

	columns := make([]string, 0, len(periods))
	for period := range periods {
		columns = append(columns, period)
	}
	// ISO dates sort lexically; most recent first.
	sort.Sort(sort.Reverse(sort.StringSlice(columns)))

	lines := make(map[string][]*float64, len(values))
	for label, byPeriod := range values {
		row := make([]*float64, len(columns))
		for i, period := range columns {
			row[i] = byPeriod[period]
		}
		lines[label] = row
	}

	return engine.Statement{Columns: columns, Lines: lines}, nil
}
