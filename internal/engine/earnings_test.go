package engine

import (
	"testing"
	"time"
)

func ts(v int64) *int64 { return &v }

func TestResolveNextEarningsPrefersEarliestFuture(t *testing.T) {
	now := time.Unix(1_000_000, 0)
	info := &QuoteInfo{
		EarningsTimestampStart: ts(900_000),
		EarningsTimestamp:      ts(1_200_000),
		EarningsTimestampEnd:   ts(1_500_000),
	}

	iso, chosen := ResolveNextEarnings(info, now)
	if chosen == nil || *chosen != 1_200_000 {
		t.Fatalf("chosen = %v, want 1200000", chosen)
	}
	if iso != time.Unix(1_200_000, 0).UTC().Format(time.RFC3339) {
		t.Errorf("iso = %q", iso)
	}
}

func TestResolveNextEarningsAllPastTakesLatest(t *testing.T) {
	now := time.Unix(2_000_000, 0)
	info := &QuoteInfo{
		EarningsTimestamp: ts(1_200_000),
		EarningsDates:     []int64{900_000, 1_500_000},
	}

	_, chosen := ResolveNextEarnings(info, now)
	if chosen == nil || *chosen != 1_500_000 {
		t.Fatalf("chosen = %v, want latest past 1500000", chosen)
	}
}

func TestResolveNextEarningsNowCountsAsFuture(t *testing.T) {
	now := time.Unix(1_200_000, 0)
	info := &QuoteInfo{
		EarningsDates: []int64{1_200_000, 1_600_000},
	}

	_, chosen := ResolveNextEarnings(info, now)
	if chosen == nil || *chosen != 1_200_000 {
		t.Fatalf("chosen = %v, want 1200000 (>= now is future)", chosen)
	}
}

func TestResolveNextEarningsNoCandidates(t *testing.T) {
	iso, chosen := ResolveNextEarnings(&QuoteInfo{}, time.Now())
	if iso != "" || chosen != nil {
		t.Fatalf("expected empty resolution, got (%q, %v)", iso, chosen)
	}

	// Non-positive candidates are discarded.
	info := &QuoteInfo{EarningsTimestamp: ts(0), EarningsDates: []int64{-5, 0}}
	iso, chosen = ResolveNextEarnings(info, time.Now())
	if iso != "" || chosen != nil {
		t.Fatalf("expected empty resolution, got (%q, %v)", iso, chosen)
	}
}
