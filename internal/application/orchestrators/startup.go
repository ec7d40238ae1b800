package orchestrators

import (
	"context"
	"log/slog"
)

// SnapshotLoader loads the persisted snapshot into the record store.
type SnapshotLoader interface {
	Load(ctx context.Context) error
}

// PermissionRequester performs the one-time notification permission request.
type PermissionRequester interface {
	RequestPermission(ctx context.Context) bool
}

// StartupDeps holds dependencies for the startup routine.
type StartupDeps struct {
	Loader       SnapshotLoader
	Permission   PermissionRequester
	AlertsDeps   PlanAlertsDeps
	ReminderDeps ArmReminderDeps
}

// ExecuteStartup runs once when the host environment starts: load the
// persisted snapshot, request notification permission, evaluate plan
// milestones, and arm today's reminder. No retry loop; later re-evaluation
// comes from mutations and the daily tick.
// PRE: all deps are wired
// POST: Store is loaded and reactive evaluation is primed
func ExecuteStartup(ctx context.Context, deps StartupDeps) error {
	if err := deps.Loader.Load(ctx); err != nil {
		return err
	}

	granted := deps.Permission.RequestPermission(ctx)

	if _, err := ExecutePlanAlerts(ctx, deps.AlertsDeps); err != nil {
		slog.Error("startup_event", "event", "plan_alert_failed", "error", err)
	}
	_, armed := ExecuteArmReminder(ctx, deps.ReminderDeps)

	slog.Info("startup_event", "event", "started", "notifications_granted", granted, "reminder_armed", armed)
	return nil
}
