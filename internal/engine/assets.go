package engine

import "strings"

// ListMode selects how the asset universe is built.
type ListMode string

const (
	ListModeDefault ListMode = "default"
	ListModeExtend  ListMode = "extend"
	ListModeCustom  ListMode = "custom"
)

// Settings is the immutable per-run configuration handed to the engine.
// It is resolved once by the caller and never read from ambient state.
type Settings struct {
	ListMode          ListMode `json:"list_mode"`
	CustomTickers     string   `json:"custom_tickers"`
	IncludeBenchmarks bool     `json:"include_benchmarks"`
}

// AssetDescriptor identifies one instrument in the universe.
// ValuationTicker is a proxy used for multiple lookup when the priced
// instrument has none (index benchmarks). BenchmarkFairPE overrides the
// fair multiple for benchmark rows.
type AssetDescriptor struct {
	Name            string
	Ticker          string
	IndexName       string
	Benchmark       bool
	ValuationTicker string
	BenchmarkFairPE *float64
}

func fairPE(v float64) *float64 { return &v }

// DefaultCompanyAssets is the fixed default company universe.
var DefaultCompanyAssets = []AssetDescriptor{
	{Name: "Nvidia", Ticker: "NVDA", IndexName: "S&P 500"},
	{Name: "Apple", Ticker: "AAPL", IndexName: "S&P 500"},
	{Name: "Microsoft", Ticker: "MSFT", IndexName: "S&P 500"},
	{Name: "Amazon", Ticker: "AMZN", IndexName: "S&P 500"},
	{Name: "Alphabet", Ticker: "GOOGL", IndexName: "S&P 500"},
	{Name: "Meta", Ticker: "META", IndexName: "S&P 500"},
	{Name: "Broadcom", Ticker: "AVGO", IndexName: "S&P 500"},
	{Name: "Tesla", Ticker: "TSLA", IndexName: "S&P 500"},
	{Name: "Berkshire Hathaway", Ticker: "BRK-B", IndexName: "S&P 500"},
	{Name: "Walmart", Ticker: "WMT", IndexName: "S&P 500"},
	{Name: "Eli Lilly", Ticker: "LLY", IndexName: "S&P 500"},
	{Name: "JPMorgan Chase", Ticker: "JPM", IndexName: "S&P 500"},
	{Name: "Visa", Ticker: "V", IndexName: "S&P 500"},
	{Name: "ExxonMobil", Ticker: "XOM", IndexName: "S&P 500"},
	{Name: "Johnson & Johnson", Ticker: "JNJ", IndexName: "S&P 500"},
	{Name: "Novo Nordisk", Ticker: "NVO", IndexName: "OMXC25"},
	{Name: "Nordea", Ticker: "NDA-FI.HE", IndexName: "OMXC25"},
	{Name: "DSV", Ticker: "DSV.CO", IndexName: "OMXC25"},
	{Name: "Danske Bank", Ticker: "DANSKE.CO", IndexName: "OMXC25"},
	{Name: "A.P. Moller - Maersk", Ticker: "MAERSK-B.CO", IndexName: "OMXC25"},
}

// DefaultBenchmarkAssets are index-level instruments. The valuation ticker is
// an ETF proxy when the index itself has no trailing multiple.
var DefaultBenchmarkAssets = []AssetDescriptor{
	{Name: "MSCI World ACWI (benchmark)", Ticker: "ACWI", IndexName: "Benchmark", Benchmark: true, ValuationTicker: "ACWI", BenchmarkFairPE: fairPE(20.0)},
	{Name: "S&P 500 (benchmark)", Ticker: "^GSPC", IndexName: "Benchmark", Benchmark: true, ValuationTicker: "SPY", BenchmarkFairPE: fairPE(21.0)},
	{Name: "OMXC25 (benchmark)", Ticker: "^OMXC25", IndexName: "Benchmark", Benchmark: true, ValuationTicker: "XACTC25.CO", BenchmarkFairPE: fairPE(17.5)},
}

// ParseCustomTickers splits a comma separated ticker list, trimming,
// upper-casing and deduplicating while preserving first-seen order.
func ParseCustomTickers(raw string) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, part := range strings.Split(raw, ",") {
		ticker := strings.ToUpper(strings.TrimSpace(part))
		if ticker == "" {
			continue
		}
		if _, ok := seen[ticker]; ok {
			continue
		}
		seen[ticker] = struct{}{}
		out = append(out, ticker)
	}
	return out
}

// ResolveAssets expands the configured selection into an ordered descriptor
// list. Custom tickers that repeat a default-set ticker in extend mode are
// kept as-is; only the custom list itself is deduplicated.
func ResolveAssets(settings Settings) []AssetDescriptor {
	var custom []AssetDescriptor
	for _, ticker := range ParseCustomTickers(settings.CustomTickers) {
		custom = append(custom, AssetDescriptor{Name: ticker, Ticker: ticker, IndexName: "Custom"})
	}

	var selected []AssetDescriptor
	switch settings.ListMode {
	case ListModeCustom:
		selected = custom
	case ListModeExtend:
		selected = append(selected, DefaultCompanyAssets...)
		selected = append(selected, custom...)
	default:
		selected = append(selected, DefaultCompanyAssets...)
	}

	if settings.IncludeBenchmarks {
		selected = append(selected, DefaultBenchmarkAssets...)
	}
	return selected
}
