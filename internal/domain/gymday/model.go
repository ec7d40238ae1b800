package gymday

import (
	"errors"
	"time"
)

// Domain errors
var (
	ErrInvalidDate = errors.New("date must be a valid calendar day")
)

// DayFormat is the canonical YYYY-MM-DD key format for a calendar day.
const DayFormat = "2006-01-02"

// RestDay is the fixed weekly rest day. Records on this day never count
// toward the attendance rate and never break a streak.
const RestDay = time.Sunday

// GymDay records whether the gym was attended on one calendar day.
// Date is always normalized to local midnight; the day is the natural key,
// so at most one GymDay exists per calendar day.
type GymDay struct {
	Date     time.Time
	Attended bool
}

// Normalize truncates a timestamp to its calendar day in the local timezone.
// PRE: t may carry any time-of-day component
// POST: Returns local midnight of the same calendar day
func Normalize(t time.Time) time.Time {
	t = t.Local()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.Local)
}

// Key returns the canonical day key for a timestamp.
func Key(t time.Time) string {
	return Normalize(t).Format(DayFormat)
}

// ParseDay parses a YYYY-MM-DD string into a normalized local day.
// PRE: s is a stored or user-supplied date string
// POST: Returns local midnight of the day, or ErrInvalidDate
func ParseDay(s string) (time.Time, error) {
	t, err := time.ParseInLocation(DayFormat, s, time.Local)
	if err != nil {
		return time.Time{}, ErrInvalidDate
	}
	return t, nil
}

// IsRestDay reports whether the given day falls on the weekly rest day.
func IsRestDay(t time.Time) bool {
	return t.Local().Weekday() == RestDay
}

// Validate checks if the GymDay has valid data.
// PRE: GymDay struct is initialized
// POST: Returns error if validation fails, nil otherwise
// INVARIANT: Date must be set
func (d *GymDay) Validate() error {
	if d.Date.IsZero() {
		return ErrInvalidDate
	}
	return nil
}

// Key returns the canonical day key for this record.
func (d GymDay) Key() string {
	return Key(d.Date)
}

// IsRest reports whether this record falls on the weekly rest day.
func (d GymDay) IsRest() bool {
	return IsRestDay(d.Date)
}
