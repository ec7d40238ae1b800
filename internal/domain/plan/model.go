package plan

import (
	"errors"
	"time"

	"gymtrack/internal/domain/gymday"
)

// Domain errors
var (
	ErrInvalidStart    = errors.New("plan start date must be a valid calendar day")
	ErrInvalidDuration = errors.New("plan duration must be a positive number of months")
)

// Status classifies how close the active plan is to expiring.
type Status string

// Plan statuses, evaluated fresh against the current time.
const (
	StatusNoPlan           Status = "no_plan"
	StatusActive           Status = "active"
	StatusExpiringWithin30 Status = "expiring_within_30_days"
	StatusExpiringWithin7  Status = "expiring_within_7_days"
	StatusExpired          Status = "expired"
)

// Plan is the membership window: a start day plus a duration in months.
// EndDate is derived with calendar-month arithmetic and always follows
// StartDate. At most one plan is active; saving a new one replaces it.
type Plan struct {
	StartDate      time.Time
	DurationMonths int
	EndDate        time.Time
}

// New builds a plan from a start day and a duration in months.
// PRE: start is any timestamp on the intended start day; months > 0
// POST: Returns a plan with EndDate = StartDate + months calendar months
func New(start time.Time, months int) (Plan, error) {
	if start.IsZero() {
		return Plan{}, ErrInvalidStart
	}
	if months <= 0 {
		return Plan{}, ErrInvalidDuration
	}
	day := gymday.Normalize(start)
	return Plan{
		StartDate:      day,
		DurationMonths: months,
		EndDate:        addMonths(day, months),
	}, nil
}

// Validate checks if the Plan has valid data.
// PRE: Plan struct is populated
// POST: Returns nil if valid, error otherwise
// INVARIANT: EndDate > StartDate
func (p *Plan) Validate() error {
	if p.StartDate.IsZero() {
		return ErrInvalidStart
	}
	if p.DurationMonths <= 0 {
		return ErrInvalidDuration
	}
	if !p.EndDate.After(p.StartDate) {
		return ErrInvalidDuration
	}
	return nil
}

// Key identifies this plan instance for notification de-duplication.
// No explicit plan ID exists, so the (start, end) pair is the identity.
func (p Plan) Key() string {
	return p.StartDate.Format(gymday.DayFormat) + "|" + p.EndDate.Format(gymday.DayFormat)
}

// StatusAt classifies the plan against the given time.
// PRE: now is the current time (any time-of-day)
// POST: Returns Expired when now >= EndDate, ExpiringWithin7 in
// [EndDate-7d, EndDate), ExpiringWithin30 in [EndDate-30d, EndDate-7d),
// Active before that
func (p Plan) StatusAt(now time.Time) Status {
	day := gymday.Normalize(now)
	switch {
	case !day.Before(p.EndDate):
		return StatusExpired
	case !day.Before(p.EndDate.AddDate(0, 0, -7)):
		return StatusExpiringWithin7
	case !day.Before(p.EndDate.AddDate(0, 0, -30)):
		return StatusExpiringWithin30
	default:
		return StatusActive
	}
}

// DaysRemaining returns whole days from now's calendar day until EndDate.
// Negative once the plan has expired.
func (p Plan) DaysRemaining(now time.Time) int {
	day := gymday.Normalize(now)
	return int(p.EndDate.Sub(day).Hours() / 24)
}

// addMonths adds calendar months, clamping the day-of-month to the last
// day of the target month (Jan 31 + 1 month = Feb 28/29, never Mar 3).
func addMonths(day time.Time, months int) time.Time {
	y, m, d := day.Date()
	first := time.Date(y, m, 1, 0, 0, 0, 0, time.Local).AddDate(0, months, 0)
	last := first.AddDate(0, 1, -1).Day()
	if d > last {
		d = last
	}
	return time.Date(first.Year(), first.Month(), d, 0, 0, 0, 0, time.Local)
}
