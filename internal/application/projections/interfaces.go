package projections

import (
	"context"
	"time"

	"gymtrack/internal/domain/gymday"
	"gymtrack/internal/domain/plan"
)

// RecordReader is the read-only view of the record store the projections
// need. Projections never mutate; they recompute from snapshots.
type RecordReader interface {
	All(ctx context.Context) []gymday.GymDay
	Get(ctx context.Context, date time.Time) (gymday.GymDay, bool)
}

// PlanReader exposes the active membership plan to projections.
type PlanReader interface {
	Plan(ctx context.Context) (plan.Plan, bool)
}
