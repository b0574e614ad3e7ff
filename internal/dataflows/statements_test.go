package dataflows

import "testing"

const sampleTimeseries = `{
  "timeseries": {
    "result": [
      {
        "meta": {"symbol": ["NVDA"], "type": ["quarterlyTotalRevenue"]},
        "quarterlyTotalRevenue": [
          {"asOfDate": "2025-01-31", "reportedValue": {"raw": 39331000000, "fmt": "39.33B"}},
          {"asOfDate": "2025-04-30", "reportedValue": {"raw": 44062000000, "fmt": "44.06B"}}
        ]
      },
      {
        "meta": {"symbol": ["NVDA"], "type": ["quarterlyDilutedEPS"]},
        "quarterlyDilutedEPS": [
          {"asOfDate": "2025-04-30", "reportedValue": {"raw": 0.76, "fmt": "0.76"}},
          null
        ]
      },
      {
        "meta": {"symbol": ["NVDA"], "type": ["quarterlyOperatingIncome"]}
      },
      {
        "meta": {"symbol": ["NVDA"], "type": ["quarterlySomethingElse"]},
        "quarterlySomethingElse": [
          {"asOfDate": "2025-04-30", "reportedValue": {"raw": 1}}
        ]
      }
    ],
    "error": null
  }
}`

func TestParseTimeseries(t *testing.T) {
	stmt, err := parseTimeseries([]byte(sampleTimeseries), "quarterly", incomeKeys)
	if err != nil {
		t.Fatalf("parseTimeseries: %v", err)
	}

	// Most recent period first.
	if len(stmt.Columns) != 2 || stmt.Columns[0] != "2025-04-30" || stmt.Columns[1] != "2025-01-31" {
		t.Fatalf("columns: %v", stmt.Columns)
	}

	rev := stmt.Lines["Total Revenue"]
	if len(rev) != 2 || rev[0] == nil || *rev[0] != 44062000000 {
		t.Errorf("revenue line: %v", rev)
	}
	if rev[1] == nil || *rev[1] != 39331000000 {
		t.Errorf("prior revenue: %v", rev[1])
	}

	// EPS reported only one of the two periods; the other cell stays nil.
	eps := stmt.Lines["Diluted EPS"]
	if len(eps) != 2 || eps[0] == nil || *eps[0] != 0.76 {
		t.Errorf("eps line: %v", eps)
	}
	if eps[1] != nil {
		t.Errorf("unreported period should be nil, got %v", *eps[1])
	}

	// A result with no data points contributes nothing.
	if _, ok := stmt.Lines["Operating Income"]; ok {
		t.Error("empty result must not create a line")
	}
	// Types outside the requested key set are ignored.
	if len(stmt.Lines) != 2 {
		t.Errorf("unexpected lines: %v", stmt.Lines)
	}
}

func TestParseTimeseriesEmpty(t *testing.T) {
	stmt, err := parseTimeseries([]byte(`{"timeseries":{"result":[],"error":null}}`), "quarterly", incomeKeys)
	if err != nil {
		t.Fatalf("parseTimeseries: %v", err)
	}
	if !stmt.Empty() {
		t.Errorf("expected empty statement, got %v", stmt.Columns)
	}
}

func TestParseTimeseriesAPIError(t *testing.T) {
	body := `{"timeseries":{"result":null,"error":{"code":"Bad Request","description":"Invalid symbol"}}}`
	if _, err := parseTimeseries([]byte(body), "quarterly", incomeKeys); err == nil {
		t.Fatal("expected error")
	}
}

func TestParseTimeseriesInvalidJSON(t *testing.T) {
	if _, err := parseTimeseries([]byte("<html>rate limited</html>"), "quarterly", incomeKeys); err == nil {
		t.Fatal("expected error for non-JSON body")
	}
}
