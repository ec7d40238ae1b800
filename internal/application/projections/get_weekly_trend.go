package projections

import (
	"context"
	"fmt"
	"time"

	"gymtrack/internal/domain/gymday"
)

// GetWeeklyTrendQuery carries input for the weekly trend projection.
type GetWeeklyTrendQuery struct {
	Now time.Time // optional: if zero, time.Now() is used
}

// GetWeeklyTrendDeps holds dependencies for the weekly trend projection.
type GetWeeklyTrendDeps struct {
	Records RecordReader
}

// WeeklyBucket is one point on the trend line: an ISO week and its
// attendance rate over the eligible (non-rest) days of that week that fall
// inside the window.
type WeeklyBucket struct {
	Label string  // "W" + ISO week number
	Rate  float64 // attendedInBucket / eligibleDaysInBucket * 100
}

// GetWeeklyTrendResult carries the chart series, oldest bucket first.
// Weeks with zero eligible days in the window are omitted, not zero-filled.
type GetWeeklyTrendResult struct {
	Buckets []WeeklyBucket
}

// QueryGetWeeklyTrend partitions the 28 days ending today into ISO week
// buckets and computes a per-week attendance rate for the trend chart.
// Rest days are excluded from every bucket; a day counts as attended only
// when an attended record exists for it.
// PRE: deps.Records is loaded
// POST: Returns chronologically ordered buckets; empty weeks are absent
func QueryGetWeeklyTrend(ctx context.Context, query GetWeeklyTrendQuery, deps GetWeeklyTrendDeps) GetWeeklyTrendResult {
	now := query.Now
	if now.IsZero() {
		now = time.Now()
	}
	today := gymday.Normalize(now)
	start := today.AddDate(0, 0, -28)

	byKey := make(map[string]gymday.GymDay)
	for _, r := range deps.Records.All(ctx) {
		byKey[r.Key()] = r
	}

	type tally struct {
		attended int
		total    int
	}
	var order []string
	counts := make(map[string]*tally)

	for day := start; !day.After(today); day = day.AddDate(0, 0, 1) {
		if gymday.IsRestDay(day) {
			continue
		}
		_, week := day.ISOWeek()
		label := fmt.Sprintf("W%d", week)
		c, ok := counts[label]
		if !ok {
			c = &tally{}
			counts[label] = c
			order = append(order, label)
		}
		c.total++
		if r, ok := byKey[gymday.Key(day)]; ok && r.Attended {
			c.attended++
		}
	}

	buckets := make([]WeeklyBucket, 0, len(order))
	for _, label := range order {
		c := counts[label]
		buckets = append(buckets, WeeklyBucket{
			Label: label,
			Rate:  float64(c.attended) / float64(c.total) * 100,
		})
	}
	return GetWeeklyTrendResult{Buckets: buckets}
}
