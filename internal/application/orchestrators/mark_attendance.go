package orchestrators

import (
	"context"
	"log/slog"
	"time"

	"gymtrack/internal/domain/gymday"
)

// MarkAttendanceInput carries input for the attendance orchestrator.
type MarkAttendanceInput struct {
	Date     time.Time
	Attended bool
}

// MarkAttendanceDeps holds dependencies for MarkAttendance.
type MarkAttendanceDeps struct {
	Records      RecordStore
	ReminderDeps *ArmReminderDeps // optional: nil skips reminder re-evaluation
	Now          func() time.Time // optional: defaults to time.Now
}

// ExecuteMarkAttendance records attendance for a calendar day and, when the
// day is today, re-evaluates the same-day reminder (marking before 20:00
// disarms it).
// PRE: input.Date is a valid timestamp on the intended day
// POST: Exactly one record exists for the day with input's attended value
func ExecuteMarkAttendance(ctx context.Context, input MarkAttendanceInput, deps MarkAttendanceDeps) (gymday.GymDay, error) {
	rec, err := deps.Records.Upsert(ctx, input.Date, input.Attended)
	if err != nil {
		return rec, err
	}

	slog.Info("attendance_event", "event", "day_marked", "date", rec.Key(), "attended", rec.Attended)

	if deps.ReminderDeps != nil {
		now := nowOrDefault(deps.Now)
		if rec.Key() == gymday.Key(now) {
			ExecuteArmReminder(ctx, *deps.ReminderDeps)
		}
	}

	return rec, nil
}
