package orchestrators

import (
	"context"
	"time"

	"gymtrack/internal/adapters/notify"
	"gymtrack/internal/domain/gymday"
	"gymtrack/internal/domain/plan"
)

// RecordStore defines the record-store surface the orchestrators mutate.
type RecordStore interface {
	Upsert(ctx context.Context, date time.Time, attended bool) (gymday.GymDay, error)
	Get(ctx context.Context, date time.Time) (gymday.GymDay, bool)
}

// PlanStore defines the plan surface the orchestrators use.
type PlanStore interface {
	Plan(ctx context.Context) (plan.Plan, bool)
	SetPlan(ctx context.Context, start time.Time, months int) (plan.Plan, error)
	HasNotified(ctx context.Context, p plan.Plan, status plan.Status) bool
	MarkNotified(ctx context.Context, p plan.Plan, status plan.Status) error
}

// Notifier delivers notification requests. In production this is the
// permission gate over the configured sink.
type Notifier interface {
	Send(ctx context.Context, n notify.Notification) error
}

// Scheduler defines the reminder scheduler surface the orchestrators drive.
type Scheduler interface {
	Arm(now time.Time, hasRecordToday bool, fire func()) (time.Time, bool)
	Cancel()
}

// nowOrDefault resolves an injectable clock.
func nowOrDefault(now func() time.Time) time.Time {
	if now != nil {
		return now()
	}
	return time.Now()
}
