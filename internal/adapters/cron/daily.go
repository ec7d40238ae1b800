package cron

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/robfig/cron/v3"

	"gymtrack/internal/application/orchestrators"
)

// DailyTick re-evaluates the reminder and the plan milestones shortly after
// midnight, so a long-running process rolls over to the new day without a
// restart.
type DailyTick struct {
	scheduler    *cron.Cron
	alertsDeps   orchestrators.PlanAlertsDeps
	reminderDeps orchestrators.ArmReminderDeps
	jobID        cron.EntryID
}

// New creates the daily tick. Nothing is scheduled until Start.
func New(alertsDeps orchestrators.PlanAlertsDeps, reminderDeps orchestrators.ArmReminderDeps) *DailyTick {
	return &DailyTick{
		scheduler:    cron.New(cron.WithSeconds()),
		alertsDeps:   alertsDeps,
		reminderDeps: reminderDeps,
	}
}

// Start schedules the tick at 00:00:05 local time every day and starts the
// scheduler.
// PRE: deps are wired
// POST: The job runs daily until Stop
func (d *DailyTick) Start() error {
	var err error
	d.jobID, err = d.scheduler.AddFunc("5 0 0 * * *", d.run)
	if err != nil {
		return fmt.Errorf("scheduling daily tick: %w", err)
	}
	d.scheduler.Start()
	slog.Info("cron_event", "event", "daily_tick_started")
	return nil
}

// Stop halts the scheduler. Running jobs finish.
func (d *DailyTick) Stop() {
	if d.scheduler != nil {
		d.scheduler.Stop()
		slog.Info("cron_event", "event", "daily_tick_stopped")
	}
}

func (d *DailyTick) run() {
	ctx := context.Background()
	if _, err := orchestrators.ExecutePlanAlerts(ctx, d.alertsDeps); err != nil {
		slog.Error("cron_event", "event", "plan_alert_failed", "error", err)
	}
	_, armed := orchestrators.ExecuteArmReminder(ctx, d.reminderDeps)
	slog.Info("cron_event", "event", "daily_tick_ran", "reminder_armed", armed)
}
