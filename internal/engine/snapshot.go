package engine

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"
)

// placeholderOpportunity ranks failed rows behind every real row without
// removing them from the snapshot.
const placeholderOpportunity = -999.0

// benchmarkOpportunity is the sentinel for benchmark rows, which never enter
// the opportunity ranking.
const benchmarkOpportunity = 0.0

// RowMetrics is the display subset of the raw metric bag.
type RowMetrics struct {
	RevenueYoYPct     *float64 `json:"revenue_yoy_pct,omitempty"`
	EPSYoYPct         *float64 `json:"eps_yoy_pct,omitempty"`
	OpMarginLatestPct *float64 `json:"op_margin_latest_pct,omitempty"`
	OpMarginPriorPct  *float64 `json:"op_margin_prior_pct,omitempty"`
	FCFYoYPct         *float64 `json:"fcf_yoy_pct,omitempty"`
	NetDebtToEBITDA   *float64 `json:"net_debt_to_ebitda,omitempty"`
}

// AssetRow is one computed asset in a snapshot.
type AssetRow struct {
	Name      string `json:"name"`
	Ticker    string `json:"ticker"`
	Index     string `json:"index"`
	Benchmark bool   `json:"benchmark"`

	LatestPeriod string `json:"latest_period"`
	PriorPeriod  string `json:"prior_period"`
	Sector       string `json:"sector"`
	Industry     string `json:"industry"`

	Price           *float64 `json:"price"`
	ValuationModel  string   `json:"valuation_model,omitempty"`
	ValuationStyle  string   `json:"valuation_style,omitempty"`
	ActualMultiple  *float64 `json:"actual_multiple,omitempty"`
	FairMultiple    *float64 `json:"fair_multiple,omitempty"`
	MultipleRatio   *float64 `json:"multiple_ratio,omitempty"`
	FairPrice       *float64 `json:"fair_price,omitempty"`
	ValuationGapPct *float64 `json:"valuation_gap_pct,omitempty"`
	Assessment      string   `json:"assessment"`

	OpportunityScore    float64            `json:"opportunity_score"`
	ScoreTotal          *float64           `json:"score_total"`
	Grade               string             `json:"grade"`
	DataCompletenessPct *float64           `json:"data_completeness_pct"`
	Components          map[string]float64 `json:"components"`
	Metrics             RowMetrics         `json:"metrics"`

	NextEarningsISO string `json:"next_earnings_iso,omitempty"`
	NextEarningsTS  *int64 `json:"next_earnings_ts,omitempty"`

	Error string `json:"error,omitempty"`
}

// EarningsEntry is one upcoming-earnings row projection.
type EarningsEntry struct {
	Company          string             `json:"company"`
	Ticker           string             `json:"ticker"`
	Index            string             `json:"index"`
	NextEarningsISO  string             `json:"next_earnings_iso"`
	NextEarningsTS   *int64             `json:"next_earnings_ts"`
	Assessment       string             `json:"assessment"`
	Price            *float64           `json:"price"`
	FairPrice        *float64           `json:"fair_price"`
	ScoreTotal       *float64           `json:"score_total"`
	Grade            string             `json:"grade"`
	OpportunityScore float64            `json:"opportunity_score"`
	ValuationModel   string             `json:"valuation_model"`
	MultipleRatio    *float64           `json:"multiple_ratio"`
	Components       map[string]float64 `json:"components"`
	Metrics          RowMetrics         `json:"metrics"`
}

// Summary counts assessment labels across all rows, benchmarks included.
type Summary struct {
	Undervalued int `json:"undervalued"`
	Fair        int `json:"fair"`
	Overvalued  int `json:"overvalued"`
	NA          int `json:"na"`
}

// Snapshot is the sole artifact handed to collaborators. It is immutable
// after construction.
type Snapshot struct {
	GeneratedAt      string          `json:"generated_at"`
	Settings         Settings        `json:"settings"`
	Assets           []AssetRow      `json:"assets"`
	TopOpportunities []AssetRow      `json:"top_opportunities"`
	UpcomingEarnings []EarningsEntry `json:"upcoming_earnings_next_5"`
	Summary          Summary         `json:"summary"`
}

// Engine computes snapshots against a market data source.
type Engine struct {
	source          MarketDataSource
	workers         int
	perAssetTimeout time.Duration
	now             func() time.Time
}

// Option configures an Engine.
type Option func(*Engine)

// WithWorkers bounds the number of concurrent per-asset computations.
func WithWorkers(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.workers = n
		}
	}
}

// WithPerAssetTimeout caps how long one asset's extraction may run. A timed
// out asset becomes a placeholder row; the snapshot itself never aborts.
func WithPerAssetTimeout(d time.Duration) Option {
	return func(e *Engine) {
		if d > 0 {
			e.perAssetTimeout = d
		}
	}
}

// WithClock overrides the time source, for tests.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// New creates an Engine around a market data source.
func New(source MarketDataSource, opts ...Option) *Engine {
	e := &Engine{
		source:          source,
		workers:         4,
		perAssetTimeout: 60 * time.Second,
		now:             time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// BuildSnapshot resolves the universe and computes every asset row. Each
// asset is independent; failures are isolated into placeholder rows so the
// result set is always total.
func (e *Engine) BuildSnapshot(ctx context.Context, settings Settings) *Snapshot {
	descriptors := ResolveAssets(settings)
	rows := make([]AssetRow, len(descriptors))

	sem := make(chan struct{}, e.workers)
	var wg sync.WaitGroup
	for i, desc := range descriptors {
		wg.Add(1)
		go func(i int, desc AssetDescriptor) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()
			rows[i] = e.computeRow(ctx, desc)
		}(i, desc)
	}
	wg.Wait()

	snap := &Snapshot{
		GeneratedAt: e.now().UTC().Format(time.RFC3339),
		Settings:    settings,
		Assets:      rows,
	}
	snap.TopOpportunities = rankOpportunities(rows, 10)
	snap.UpcomingEarnings = upcomingEarnings(rows, 5)
	snap.Summary = summarize(rows)
	return snap
}

// computeRow dispatches to the company or benchmark path and converts any
// failure, panic included, into a placeholder row.
func (e *Engine) computeRow(ctx context.Context, desc AssetDescriptor) (row AssetRow) {
	defer func() {
		if r := recover(); r != nil {
			row = placeholderRow(desc, fmt.Errorf("panic: %v", r))
		}
	}()

	assetCtx, cancel := context.WithTimeout(ctx, e.perAssetTimeout)
	defer cancel()

	var err error
	if desc.Benchmark {
		row, err = e.computeBenchmark(assetCtx, desc)
	} else {
		row, err = e.computeCompany(assetCtx, desc)
	}
	if err != nil {
		return placeholderRow(desc, err)
	}
	return row
}

func (e *Engine) computeCompany(ctx context.Context, desc AssetDescriptor) (AssetRow, error) {
	m, err := ExtractMetrics(ctx, e.source, desc.Ticker, e.now())
	if err != nil {
		return AssetRow{}, err
	}

	score := ComputeScore(ScoreInputs{
		RevenueYoYPct:     m.RevenueYoYPct,
		EPSYoYPct:         m.EPSYoYPct,
		OpMarginLatestPct: m.OpMarginLatestPct,
		OpMarginPriorPct:  m.OpMarginPriorPct,
		Guidance:          GuidanceNeutral,
		FCFYoYPct:         m.FCFYoYPct,
		NetDebtToEBITDA:   m.NetDebtToEBITDA,
	})

	// Fair multiples need a score even when no fundamentals were available;
	// an unknown company is treated as average, not as worthless.
	scoreForValuation := 50.0
	if score.Total != nil {
		scoreForValuation = *score.Total
	}
	valuation := ComputeValuation(scoreForValuation, m)

	opportunity := OpportunityBonus(valuation.Assessment)
	if score.Total != nil {
		opportunity += *score.Total
	}

	fairMult := round2(valuation.FairMultiple)
	completeness := score.DataCompletenessPct
	return AssetRow{
		Name:                desc.Name,
		Ticker:              desc.Ticker,
		Index:               desc.IndexName,
		Benchmark:           false,
		LatestPeriod:        m.LatestPeriod,
		PriorPeriod:         m.PriorPeriod,
		Sector:              m.Sector,
		Industry:            m.Industry,
		Price:               round2p(m.Price),
		ValuationModel:      DisplayModel(valuation.Model),
		ValuationStyle:      valuation.Style,
		ActualMultiple:      round2p(valuation.ActualMultiple),
		FairMultiple:        &fairMult,
		MultipleRatio:       round2p(valuation.MultipleRatio),
		FairPrice:           round2p(valuation.FairPrice),
		ValuationGapPct:     round1p(valuation.ValuationGapPct),
		Assessment:          valuation.Assessment,
		OpportunityScore:    round1(opportunity),
		ScoreTotal:          score.Total,
		Grade:               score.Grade,
		DataCompletenessPct: &completeness,
		Components:          score.Components,
		Metrics: RowMetrics{
			RevenueYoYPct:     round1p(m.RevenueYoYPct),
			EPSYoYPct:         round1p(m.EPSYoYPct),
			OpMarginLatestPct: round1p(m.OpMarginLatestPct),
			OpMarginPriorPct:  round1p(m.OpMarginPriorPct),
			FCFYoYPct:         round1p(m.FCFYoYPct),
			NetDebtToEBITDA:   round2p(m.NetDebtToEBITDA),
		},
		NextEarningsISO: m.NextEarningsISO,
		NextEarningsTS:  m.NextEarningsTS,
	}, nil
}

func (e *Engine) computeBenchmark(ctx context.Context, desc AssetDescriptor) (AssetRow, error) {
	price, err := e.source.LastClose(ctx, desc.Ticker, 5)
	if err != nil {
		return AssetRow{}, err
	}

	valuationTicker := desc.ValuationTicker
	if valuationTicker == "" {
		valuationTicker = desc.Ticker
	}
	info, err := e.source.QuoteInfo(ctx, valuationTicker)
	if err != nil {
		return AssetRow{}, err
	}

	valuation := ComputeBenchmarkValuation(info.TrailingPE, desc.BenchmarkFairPE, price)

	fairMult := round2(valuation.FairMultiple)
	return AssetRow{
		Name:             desc.Name,
		Ticker:           desc.Ticker,
		Index:            desc.IndexName,
		Benchmark:        true,
		Sector:           "Broad Market Index",
		Industry:         "Diversified",
		Price:            round2p(price),
		ValuationModel:   DisplayModel(valuation.Model),
		ValuationStyle:   valuation.Style,
		ActualMultiple:   round2p(valuation.ActualMultiple),
		FairMultiple:     &fairMult,
		MultipleRatio:    round2p(valuation.MultipleRatio),
		FairPrice:        round2p(valuation.FairPrice),
		ValuationGapPct:  round1p(valuation.ValuationGapPct),
		Assessment:       valuation.Assessment,
		OpportunityScore: benchmarkOpportunity,
		Grade:            "N/A",
		Components:       map[string]float64{},
	}, nil
}

func placeholderRow(desc AssetDescriptor, err error) AssetRow {
	return AssetRow{
		Name:             desc.Name,
		Ticker:           desc.Ticker,
		Index:            desc.IndexName,
		Benchmark:        desc.Benchmark,
		Assessment:       AssessNA,
		Grade:            "N/A",
		OpportunityScore: placeholderOpportunity,
		Components:       map[string]float64{},
		Error:            err.Error(),
	}
}

// rankOpportunities orders non-benchmark rows by opportunity score, ties
// broken by composite score, and keeps the top n.
func rankOpportunities(rows []AssetRow, n int) []AssetRow {
	var companies []AssetRow
	for _, row := range rows {
		if !row.Benchmark {
			companies = append(companies, row)
		}
	}
	sort.SliceStable(companies, func(i, j int) bool {
		if companies[i].OpportunityScore != companies[j].OpportunityScore {
			return companies[i].OpportunityScore > companies[j].OpportunityScore
		}
		return scoreOrZero(companies[i].ScoreTotal) > scoreOrZero(companies[j].ScoreTotal)
	})
	if len(companies) > n {
		companies = companies[:n]
	}
	return companies
}

// upcomingEarnings lists non-benchmark rows with a known earnings timestamp,
// soonest first, capped at n.
func upcomingEarnings(rows []AssetRow, n int) []EarningsEntry {
	var entries []EarningsEntry
	for _, row := range rows {
		if row.Benchmark || row.NextEarningsTS == nil {
			continue
		}
		entries = append(entries, EarningsEntry{
			Company:          row.Name,
			Ticker:           row.Ticker,
			Index:            row.Index,
			NextEarningsISO:  row.NextEarningsISO,
			NextEarningsTS:   row.NextEarningsTS,
			Assessment:       row.Assessment,
			Price:            row.Price,
			FairPrice:        row.FairPrice,
			ScoreTotal:       row.ScoreTotal,
			Grade:            row.Grade,
			OpportunityScore: row.OpportunityScore,
			ValuationModel:   row.ValuationModel,
			MultipleRatio:    row.MultipleRatio,
			Components:       row.Components,
			Metrics:          row.Metrics,
		})
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return *entries[i].NextEarningsTS < *entries[j].NextEarningsTS
	})
	if len(entries) > n {
		entries = entries[:n]
	}
	return entries
}

func summarize(rows []AssetRow) Summary {
	var s Summary
	for _, row := range rows {
		switch row.Assessment {
		case AssessUndervalued:
			s.Undervalued++
		case AssessFair:
			s.Fair++
		case AssessOvervalued:
			s.Overvalued++
		default:
			s.NA++
		}
	}
	return s
}

func scoreOrZero(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}
