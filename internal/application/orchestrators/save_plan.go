package orchestrators

import (
	"context"
	"log/slog"
	"time"

	"gymtrack/internal/domain/plan"
)

// SavePlanInput carries input for the plan orchestrator.
type SavePlanInput struct {
	StartDate      time.Time
	DurationMonths int
}

// SavePlanDeps holds dependencies for SavePlan.
type SavePlanDeps struct {
	Plans      PlanStore
	AlertsDeps *PlanAlertsDeps // optional: nil skips milestone re-evaluation
}

// ExecuteSavePlan replaces the membership plan wholesale and re-evaluates
// the expiration milestones against the new plan.
// PRE: input.StartDate is a valid day; input.DurationMonths > 0
// POST: The new plan is active with a derived end date
func ExecuteSavePlan(ctx context.Context, input SavePlanInput, deps SavePlanDeps) (plan.Plan, error) {
	p, err := deps.Plans.SetPlan(ctx, input.StartDate, input.DurationMonths)
	if err != nil {
		return p, err
	}

	slog.Info("plan_event", "event", "plan_saved", "plan", p.Key(), "months", p.DurationMonths)

	// Best-effort milestone evaluation against the new plan.
	if deps.AlertsDeps != nil {
		if _, alertErr := ExecutePlanAlerts(ctx, *deps.AlertsDeps); alertErr != nil {
			slog.Error("plan_event", "event", "alert_eval_failed", "error", alertErr)
		}
	}

	return p, nil
}
