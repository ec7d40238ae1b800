package projections

import (
	"context"
	"time"

	"gymtrack/internal/domain/gymday"
	"gymtrack/internal/domain/plan"
)

// GetDashboardQuery carries input for the dashboard projection.
type GetDashboardQuery struct {
	Now time.Time // optional: if zero, time.Now() is used
}

// GetDashboardDeps holds dependencies for the dashboard projection.
type GetDashboardDeps struct {
	Records RecordReader
	Plans   PlanReader
}

// GetDashboardResult carries everything the daily check-in view shows.
type GetDashboardResult struct {
	Today         string // YYYY-MM-DD
	TodayRecorded bool
	TodayAttended bool // meaningful only when TodayRecorded
	TodayIsRest   bool
	Metrics       GetMetricsResult
	PlanStatus    plan.Status
	PlanEndDate   string // YYYY-MM-DD, empty when no plan
	PlanDaysLeft  int    // meaningful only when a plan exists
}

// QueryGetDashboard assembles today's state, the headline metrics and the
// plan status for the check-in view.
// PRE: deps stores are loaded
// POST: Returns a fresh recomputation; nothing is cached or mutated
func QueryGetDashboard(ctx context.Context, query GetDashboardQuery, deps GetDashboardDeps) GetDashboardResult {
	now := query.Now
	if now.IsZero() {
		now = time.Now()
	}
	today := gymday.Normalize(now)

	res := GetDashboardResult{
		Today:       today.Format(gymday.DayFormat),
		TodayIsRest: gymday.IsRestDay(today),
		Metrics:     QueryGetMetrics(ctx, GetMetricsDeps{Records: deps.Records}),
		PlanStatus:  plan.StatusNoPlan,
	}

	if r, ok := deps.Records.Get(ctx, today); ok {
		res.TodayRecorded = true
		res.TodayAttended = r.Attended
	}

	if p, ok := deps.Plans.Plan(ctx); ok {
		res.PlanStatus = p.StatusAt(now)
		res.PlanEndDate = p.EndDate.Format(gymday.DayFormat)
		res.PlanDaysLeft = p.DaysRemaining(now)
	}

	return res
}
