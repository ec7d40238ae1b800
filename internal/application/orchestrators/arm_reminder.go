package orchestrators

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"gymtrack/internal/adapters/notify"
)

// Reminder wording, fixed.
const (
	ReminderTitle = "Gym Attendance Reminder"
	ReminderBody  = "Don't forget to log your gym attendance for today!"
)

// ArmReminderDeps holds dependencies for the reminder re-evaluation.
type ArmReminderDeps struct {
	Records    RecordStore
	Scheduler  Scheduler
	Notifier   Notifier
	Now        func() time.Time // optional: defaults to time.Now
	GenerateID func() string    // optional: defaults to uuid
}

// ExecuteArmReminder re-evaluates the same-day reminder against the current
// record state. Arming replaces any previously armed reminder; an
// ineligible day (rest day, already recorded, past 20:00) disarms.
// PRE: deps.Records, deps.Scheduler and deps.Notifier are set
// POST: At most one reminder is armed, for 20:00 today
func ExecuteArmReminder(ctx context.Context, deps ArmReminderDeps) (time.Time, bool) {
	now := nowOrDefault(deps.Now)
	_, hasRecord := deps.Records.Get(ctx, now)

	notifier := deps.Notifier
	generateID := deps.GenerateID
	if generateID == nil {
		generateID = func() string { return uuid.New().String() }
	}

	fireAt, armed := deps.Scheduler.Arm(now, hasRecord, func() {
		n := notify.Notification{
			ID:    generateID(),
			Kind:  notify.KindReminder,
			Title: ReminderTitle,
			Body:  ReminderBody,
		}
		if err := notifier.Send(context.Background(), n); err != nil {
			slog.Error("reminder_event", "event", "send_failed", "error", err)
		}
	})

	if armed {
		slog.Info("reminder_event", "event", "armed", "fire_at", fireAt.Format(time.RFC3339))
	} else {
		slog.Info("reminder_event", "event", "not_armed", "has_record", hasRecord)
	}
	return fireAt, armed
}
