package orchestrators

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"gymtrack/internal/adapters/notify"
	"gymtrack/internal/domain/plan"
)

// Plan milestone wording, fixed.
const (
	PlanExpiringTitle = "Gym Plan Expiring Soon"
	PlanExpiredTitle  = "Gym Plan Expired"

	planExpiring30Body = "Your gym membership will expire in 30 days."
	planExpiring7Body  = "Your gym membership will expire in 7 days."
	planExpiredBody    = "Your gym membership plan has expired. Time to renew!"
)

// PlanAlertsDeps holds dependencies for the plan milestone evaluation.
type PlanAlertsDeps struct {
	Plans      PlanStore
	Notifier   Notifier
	Now        func() time.Time // optional: defaults to time.Now
	GenerateID func() string    // optional: defaults to uuid
}

// ExecutePlanAlerts classifies the active plan against now and emits the
// milestone notification when one is due. Each milestone fires at most once
// per plan lifetime: a persisted marker keyed by the plan's (start, end)
// identity suppresses re-announcement on every later recomputation.
// PRE: deps.Plans and deps.Notifier are set
// POST: Returns the current status; a due milestone is notified and marked
func ExecutePlanAlerts(ctx context.Context, deps PlanAlertsDeps) (plan.Status, error) {
	p, ok := deps.Plans.Plan(ctx)
	if !ok {
		return plan.StatusNoPlan, nil
	}

	now := nowOrDefault(deps.Now)
	status := p.StatusAt(now)

	var title, body string
	switch status {
	case plan.StatusExpiringWithin30:
		title, body = PlanExpiringTitle, planExpiring30Body
	case plan.StatusExpiringWithin7:
		title, body = PlanExpiringTitle, planExpiring7Body
	case plan.StatusExpired:
		title, body = PlanExpiredTitle, planExpiredBody
	default:
		return status, nil
	}

	if deps.Plans.HasNotified(ctx, p, status) {
		return status, nil
	}

	generateID := deps.GenerateID
	if generateID == nil {
		generateID = func() string { return uuid.New().String() }
	}
	n := notify.Notification{
		ID:    generateID(),
		Kind:  notify.KindPlanMilestone,
		Title: title,
		Body:  body,
	}
	if err := deps.Notifier.Send(ctx, n); err != nil {
		// Not marked: the milestone stays eligible for the next evaluation.
		return status, err
	}

	if err := deps.Plans.MarkNotified(ctx, p, status); err != nil {
		return status, err
	}

	slog.Info("plan_event", "event", "milestone_notified", "plan", p.Key(), "status", status)
	return status, nil
}
