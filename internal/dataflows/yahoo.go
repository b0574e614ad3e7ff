package dataflows

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/piquette/finance-go/chart"
	"github.com/piquette/finance-go/datetime"
	"github.com/piquette/finance-go/equity"
	"github.com/piquette/finance-go/etf"
	"github.com/piquette/finance-go/quote"
	"github.com/shopspring/decimal"

	"github.com/hjortnaes/scorecard/internal/engine"
)

const querySummaryBaseURL = "https://query2.finance.yahoo.com"

// YahooClient retrieves quotes, financial statements and price history from
// Yahoo Finance. It implements engine.MarketDataSource and is safe for
// concurrent use.
type YahooClient struct {
	http    *resty.Client
	cache   *CacheManager
	profile *ProfileScraper
	retry   *RetryConfig
}

// YahooConfig configures the Yahoo client.
type YahooConfig struct {
	CacheDir     string
	CacheTTL     time.Duration
	CacheEnabled bool
}

// NewYahooClient creates a new Yahoo Finance client.
func NewYahooClient(cfg YahooConfig) *YahooClient {
	ttl := cfg.CacheTTL
	if ttl == 0 {
		ttl = 24 * time.Hour
	}

	client := resty.New()
	client.SetBaseURL(querySummaryBaseURL)
	client.SetTimeout(30 * time.Second)
	client.SetHeader("User-Agent", "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0 Safari/537.36")

	return &YahooClient{
		http:    client,
		cache:   NewCacheManager(filepath.Join(cfg.CacheDir, "yahoo"), ttl, cfg.CacheEnabled),
		profile: NewProfileScraper(),
		retry:   DefaultRetryConfig(),
	}
}

// quoteSummaryResponse is the envelope of the v10 quoteSummary endpoint.
type quoteSummaryResponse struct {
	QuoteSummary struct {
		Result []struct {
			SummaryProfile *struct {
				Sector   string `json:"sector"`
				Industry string `json:"industry"`
			} `json:"summaryProfile"`
			SummaryDetail *struct {
				TrailingPE rawValue `json:"trailingPE"`
			} `json:"summaryDetail"`
			DefaultKeyStatistics *struct {
				EnterpriseToEbitda rawValue `json:"enterpriseToEbitda"`
				PriceToBook        rawValue `json:"priceToBook"`
			} `json:"defaultKeyStatistics"`
			CalendarEvents *struct {
				Earnings struct {
					EarningsDate []rawValue `json:"earningsDate"`
				} `json:"earnings"`
			} `json:"calendarEvents"`
		} `json:"result"`
		Error *apiError `json:"error"`
	} `json:"quoteSummary"`
}

type apiError struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}

// rawValue is Yahoo's {raw, fmt} number wrapper.
type rawValue struct {
	Raw *float64 `json:"raw"`
}

// QuoteInfo implements engine.MarketDataSource. The instant quote comes from
// the quote API; sector, industry, EV/EBITDA and the earnings calendar are
// enriched from quoteSummary, with an HTML profile scrape as last resort for
// the sector text.
func (yc *YahooClient) QuoteInfo(ctx context.Context, ticker string) (*engine.QuoteInfo, error) {
	if err := ValidateSymbol(ticker); err != nil {
		return nil, err
	}
	ticker = NormalizeSymbol(ticker)

	var cached engine.QuoteInfo
	if yc.cache.Get("quote_info", ticker, &cached) {
		return &cached, nil
	}

	info := &engine.QuoteInfo{}
	if err := yc.fetchQuote(ticker, info); err != nil {
		return nil, err
	}
	yc.enrichFromSummary(ctx, ticker, info)
	if info.Sector == "" {
		if sector, industry, err := yc.profile.SectorIndustry(ctx, ticker); err == nil {
			info.Sector, info.Industry = sector, industry
		}
	}

	yc.cache.Set("quote_info", ticker, info)
	return info, nil
}

// fetchQuote loads the instant quote. Equities carry the full multiple set;
// ETF proxies still report a trailing PE; anything else (index tickers)
// degrades to price only.
func (yc *YahooClient) fetchQuote(ticker string, info *engine.QuoteInfo) error {
	return WithRetry(yc.retry, func() error {
		if eq, err := equity.Get(ticker); err == nil && eq != nil {
			info.LastPrice = optFloat(eq.RegularMarketPrice)
			info.TrailingPE = optFloat(eq.TrailingPE)
			info.PriceToBook = optFloat(eq.PriceToBook)
			info.EarningsTimestamp = optEpoch(int64(eq.EarningsTimestamp))
			info.EarningsTimestampStart = optEpoch(int64(eq.EarningsTimestampStart))
			info.EarningsTimestampEnd = optEpoch(int64(eq.EarningsTimestampEnd))
			return nil
		}
		// ETFs report no equity multiples on the quote; summaryDetail
		// supplies the trailing PE for proxy valuation.
		if fund, err := etf.Get(ticker); err == nil && fund != nil {
			info.LastPrice = optFloat(fund.RegularMarketPrice)
			return nil
		}
		q, err := quote.Get(ticker)
		if err != nil {
			return fmt.Errorf("failed to get quote for %s: %w", ticker, err)
		}
		info.LastPrice = optFloat(q.RegularMarketPrice)
		return nil
	})
}

// enrichFromSummary is best-effort: a summary failure never fails the quote.
func (yc *YahooClient) enrichFromSummary(ctx context.Context, ticker string, info *engine.QuoteInfo) {
	resp, err := yc.http.R().
		SetContext(ctx).
		SetQueryParam("modules", "summaryProfile,summaryDetail,defaultKeyStatistics,calendarEvents").
		Get(fmt.Sprintf("/v10/finance/quoteSummary/%s", ticker))
	if err != nil || resp.StatusCode() != 200 {
		return
	}

	var parsed quoteSummaryResponse
	if err := json.Unmarshal(resp.Body(), &parsed); err != nil {
		return
	}
	if len(parsed.QuoteSummary.Result) == 0 {
		return
	}

	result := parsed.QuoteSummary.Result[0]
	if result.SummaryProfile != nil {
		info.Sector = result.SummaryProfile.Sector
		info.Industry = result.SummaryProfile.Industry
	}
	if detail := result.SummaryDetail; detail != nil && info.TrailingPE == nil {
		info.TrailingPE = detail.TrailingPE.Raw
	}
	if stats := result.DefaultKeyStatistics; stats != nil {
		info.EnterpriseToEBITDA = stats.EnterpriseToEbitda.Raw
		if info.PriceToBook == nil {
			info.PriceToBook = stats.PriceToBook.Raw
		}
	}
	if events := result.CalendarEvents; events != nil {
		for _, date := range events.Earnings.EarningsDate {
			if date.Raw != nil && *date.Raw > 0 {
				info.EarningsDates = append(info.EarningsDates, int64(*date.Raw))
			}
		}
	}
}

// LastClose implements engine.MarketDataSource using the chart API over a
// trailing daily window.
func (yc *YahooClient) LastClose(ctx context.Context, ticker string, days int) (*float64, error) {
	if err := ValidateSymbol(ticker); err != nil {
		return nil, err
	}
	ticker = NormalizeSymbol(ticker)

	cacheKey := map[string]interface{}{"ticker": ticker, "days": days}
	var cached float64
	if yc.cache.Get("last_close", cacheKey, &cached) {
		return &cached, nil
	}

	end := time.Now()
	start := end.AddDate(0, 0, -days)

	var last decimal.Decimal
	found := false
	err := WithRetry(yc.retry, func() error {
		params := &chart.Params{
			Symbol:   ticker,
			Start:    datetime.New(&start),
			End:      datetime.New(&end),
			Interval: datetime.OneDay,
		}

		iter := chart.Get(params)
		for iter.Next() {
			last = iter.Bar().Close
			found = true
		}
		if err := iter.Err(); err != nil {
			return fmt.Errorf("failed to get history for %s: %w", ticker, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	// An empty series is degraded data, not a transport failure; the
	// caller values the row without a price.
	if !found {
		return nil, nil
	}

	price, _ := last.Float64()
	yc.cache.Set("last_close", cacheKey, price)
	return &price, nil
}

// optFloat treats Yahoo's zero-valued floats as absent. A true zero multiple
// does not occur in practice; zero always means the field was not reported.
func optFloat(v float64) *float64 {
	if v == 0 || v != v {
		return nil
	}
	return &v
}

func optEpoch(v int64) *int64 {
	if v <= 0 {
		return nil
	}
	return &v
}
