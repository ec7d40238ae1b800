package projections

import (
	"context"
	"fmt"
	"time"

	"gymtrack/internal/domain/gymday"
)

// DayState is the per-day marking shown on the calendar grid.
type DayState string

// Day states for the calendar grid.
const (
	DayAttended DayState = "attended"
	DayMissed   DayState = "missed"
	DayRest     DayState = "rest"   // rest day with no record
	DayFuture   DayState = "future" // after today
	DayNone     DayState = "none"   // past or present, no record
)

// GetCalendarQuery carries input for the calendar projection.
type GetCalendarQuery struct {
	Year  int
	Month time.Month
	Now   time.Time // optional: if zero, time.Now() is used
}

// CalendarDay is one cell of the month grid.
type CalendarDay struct {
	Date  string // YYYY-MM-DD
	State DayState
}

// GetCalendarResult carries the month grid, first day of month first.
type GetCalendarResult struct {
	Year  int
	Month time.Month
	Days  []CalendarDay
}

// GetCalendarDeps holds dependencies for the calendar projection.
type GetCalendarDeps struct {
	Records RecordReader
}

// QueryGetCalendar builds the per-day marking for one month. A recorded day
// shows attended or missed regardless of rest day; an unrecorded rest day
// shows rest; unrecorded future days show future.
// PRE: query.Year/Month identify a valid month
// POST: Returns one entry per calendar day of the month
func QueryGetCalendar(ctx context.Context, query GetCalendarQuery, deps GetCalendarDeps) (GetCalendarResult, error) {
	if query.Month < time.January || query.Month > time.December {
		return GetCalendarResult{}, fmt.Errorf("month must be 1..12")
	}
	now := query.Now
	if now.IsZero() {
		now = time.Now()
	}
	today := gymday.Normalize(now)

	byKey := make(map[string]gymday.GymDay)
	for _, r := range deps.Records.All(ctx) {
		byKey[r.Key()] = r
	}

	first := time.Date(query.Year, query.Month, 1, 0, 0, 0, 0, time.Local)
	daysInMonth := first.AddDate(0, 1, -1).Day()

	days := make([]CalendarDay, 0, daysInMonth)
	for i := 0; i < daysInMonth; i++ {
		day := first.AddDate(0, 0, i)
		cell := CalendarDay{Date: day.Format(gymday.DayFormat)}

		switch {
		case day.After(today):
			cell.State = DayFuture
		default:
			if r, ok := byKey[gymday.Key(day)]; ok {
				if r.Attended {
					cell.State = DayAttended
				} else {
					cell.State = DayMissed
				}
			} else if gymday.IsRestDay(day) {
				cell.State = DayRest
			} else {
				cell.State = DayNone
			}
		}
		days = append(days, cell)
	}

	return GetCalendarResult{Year: query.Year, Month: query.Month, Days: days}, nil
}
