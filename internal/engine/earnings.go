package engine

import (
	"sort"
	"time"
)

// ResolveNextEarnings disambiguates the earnings date candidates in a quote
// into a single canonical timestamp. The earliest future-or-now candidate
// wins; when every known date is already past (stale source data) the most
// recent past one is reported instead of nothing. Returns ("", nil) when no
// candidate survives.
func ResolveNextEarnings(info *QuoteInfo, now time.Time) (string, *int64) {
	var candidates []int64
	appendTS := func(ts *int64) {
		if ts != nil && *ts > 0 {
			candidates = append(candidates, *ts)
		}
	}
	appendTS(info.EarningsTimestampStart)
	appendTS(info.EarningsTimestamp)
	appendTS(info.EarningsTimestampEnd)
	for _, ts := range info.EarningsDates {
		if ts > 0 {
			candidates = append(candidates, ts)
		}
	}

	if len(candidates) == 0 {
		return "", nil
	}

	nowTS := now.Unix()
	sort.Slice(candidates, func(i, j int) bool { return candidates[i] < candidates[j] })

	chosen := candidates[len(candidates)-1]
	for _, ts := range candidates {
		if ts >= nowTS {
			chosen = ts
			break
		}
	}

	iso := time.Unix(chosen, 0).UTC().Format(time.RFC3339)
	return iso, &chosen
}
