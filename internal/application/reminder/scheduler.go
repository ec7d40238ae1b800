package reminder

import (
	"sync"
	"time"

	"gymtrack/internal/domain/gymday"
)

// FireHour is the local hour the same-day reminder fires.
const FireHour = 20

// Evaluate decides whether a reminder should be armed for the day of now.
// Never on the rest day, never when today already has a record, never once
// the fire time has passed (no retroactive firing).
// PRE: now is the current local time
// POST: Returns the fire time and whether to arm
func Evaluate(now time.Time, hasRecordToday bool) (time.Time, bool) {
	if gymday.IsRestDay(now) {
		return time.Time{}, false
	}
	if hasRecordToday {
		return time.Time{}, false
	}
	day := gymday.Normalize(now)
	fireAt := day.Add(FireHour * time.Hour)
	if !now.Before(fireAt) {
		return time.Time{}, false
	}
	return fireAt, true
}

// Scheduler owns at most one armed reminder. Re-arming replaces any
// previously armed reminder. Cancel is race-free against firing: a cancel
// requested before the deadline always wins.
type Scheduler struct {
	mu       sync.Mutex
	timer    *time.Timer
	gen      int
	armedDay string
}

// New creates a Scheduler with nothing armed.
func New() *Scheduler {
	return &Scheduler{}
}

// Arm evaluates the reminder decision for now and arms a one-shot timer
// when the decision says so. Any previously armed reminder is replaced,
// never stacked.
// PRE: fire is non-nil
// POST: Returns the fire time and whether a reminder is armed
func (s *Scheduler) Arm(now time.Time, hasRecordToday bool, fire func()) (time.Time, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cancelLocked()

	fireAt, ok := Evaluate(now, hasRecordToday)
	if !ok {
		return time.Time{}, false
	}

	s.gen++
	gen := s.gen
	s.armedDay = gymday.Key(now)
	s.timer = time.AfterFunc(fireAt.Sub(now), func() {
		s.mu.Lock()
		if s.gen != gen {
			// canceled or replaced before firing
			s.mu.Unlock()
			return
		}
		s.timer = nil
		s.armedDay = ""
		s.mu.Unlock()
		fire()
	})
	return fireAt, true
}

// Cancel disarms any armed reminder. Safe to call when nothing is armed.
// PRE: none
// POST: No previously armed reminder will fire
func (s *Scheduler) Cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cancelLocked()
}

// ArmedFor reports the day key of the armed reminder, if any.
func (s *Scheduler) ArmedFor() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.armedDay, s.armedDay != ""
}

// cancelLocked disarms under s.mu. Bumping gen makes an in-flight timer
// callback a no-op even if it already left the timer queue.
func (s *Scheduler) cancelLocked() {
	s.gen++
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.armedDay = ""
}
