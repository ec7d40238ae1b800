package projections

import (
	"context"
	"sort"

	"gymtrack/internal/domain/gymday"
)

// GetMetricsDeps holds dependencies for the metrics projection.
type GetMetricsDeps struct {
	Records RecordReader
}

// GetMetricsResult carries the derived metrics. These are never stored;
// they are recomputed from the record snapshot after every mutation.
type GetMetricsResult struct {
	AttendedCount  int
	MissedCount    int     // misses on non-rest days only
	AttendanceRate float64 // percent; 0 when there are no non-rest-day records
	Streak         int
}

// QueryGetMetrics recomputes the headline metrics from the current snapshot.
// PRE: deps.Records is loaded
// POST: Returns counts, rate and streak; no state is mutated
func QueryGetMetrics(ctx context.Context, deps GetMetricsDeps) GetMetricsResult {
	records := deps.Records.All(ctx)

	var attended, missed, eligible int
	for _, r := range records {
		if r.Attended {
			attended++
		}
		if !r.IsRest() {
			eligible++
			if !r.Attended {
				missed++
			}
		}
	}

	rate := 0.0
	if eligible > 0 {
		rate = float64(attended) / float64(eligible) * 100
	}

	return GetMetricsResult{
		AttendedCount:  attended,
		MissedCount:    missed,
		AttendanceRate: rate,
		Streak:         calculateStreak(records),
	}
}

// calculateStreak walks the records backward from the latest recorded day.
// Rest-day records are skipped outright: they neither extend nor break the
// streak. An attended non-rest day extends it; a missed non-rest day ends
// it. Days with no record at all are invisible to the walk, so a gap does
// not break a streak. The walk anchors on the latest record, not on today.
func calculateStreak(records []gymday.GymDay) int {
	sorted := make([]gymday.GymDay, len(records))
	copy(sorted, records)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Date.After(sorted[j].Date) })

	streak := 0
	for _, r := range sorted {
		if r.IsRest() {
			continue
		}
		if !r.Attended {
			break
		}
		streak++
	}
	return streak
}
