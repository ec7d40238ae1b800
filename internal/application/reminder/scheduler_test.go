package reminder

import (
	"testing"
	"time"
)

// TestEvaluate_ArmsBeforeEight verifies a plain weekday afternoon arms for
// 20:00 the same day.
func TestEvaluate_ArmsBeforeEight(t *testing.T) {
	now := time.Date(2026, 3, 11, 14, 0, 0, 0, time.Local) // Wednesday
	fireAt, ok := Evaluate(now, false)
	if !ok {
		t.Fatal("expected reminder to arm")
	}
	want := time.Date(2026, 3, 11, 20, 0, 0, 0, time.Local)
	if !fireAt.Equal(want) {
		t.Errorf("fireAt = %v, want %v", fireAt, want)
	}
}

// TestEvaluate_NoRetroactiveFiring verifies nothing arms at or after 20:00.
func TestEvaluate_NoRetroactiveFiring(t *testing.T) {
	at := time.Date(2026, 3, 11, 20, 0, 0, 0, time.Local)
	if _, ok := Evaluate(at, false); ok {
		t.Error("must not arm exactly at 20:00")
	}
	after := time.Date(2026, 3, 11, 21, 30, 0, 0, time.Local)
	if _, ok := Evaluate(after, false); ok {
		t.Error("must not arm after 20:00")
	}
}

// TestEvaluate_NeverOnRestDay verifies Sundays never arm.
func TestEvaluate_NeverOnRestDay(t *testing.T) {
	sunday := time.Date(2026, 3, 15, 9, 0, 0, 0, time.Local)
	if sunday.Weekday() != time.Sunday {
		t.Fatalf("fixture is not a Sunday: %v", sunday.Weekday())
	}
	if _, ok := Evaluate(sunday, false); ok {
		t.Error("must not arm on the rest day")
	}
}

// TestEvaluate_NeverWhenRecorded verifies a marked day never arms.
func TestEvaluate_NeverWhenRecorded(t *testing.T) {
	now := time.Date(2026, 3, 11, 9, 0, 0, 0, time.Local)
	if _, ok := Evaluate(now, true); ok {
		t.Error("must not arm when today already has a record")
	}
}

// TestScheduler_FiresAtDeadline verifies the armed timer actually fires.
func TestScheduler_FiresAtDeadline(t *testing.T) {
	s := New()
	fired := make(chan struct{})

	// 30ms before the 20:00 deadline; the timer duration is fireAt-now, so
	// the test fires in real time regardless of the wall clock.
	now := time.Date(2026, 3, 11, 19, 59, 59, int(970*time.Millisecond), time.Local)
	if _, ok := s.Arm(now, false, func() { close(fired) }); !ok {
		t.Fatal("expected reminder to arm")
	}

	select {
	case <-fired:
	case <-time.After(2 * time.Second):
		t.Fatal("reminder did not fire")
	}
	if _, armed := s.ArmedFor(); armed {
		t.Error("scheduler should report nothing armed after firing")
	}
}

// TestScheduler_CancelBeatsFire verifies marking attendance before the
// deadline prevents the 20:00 firing.
func TestScheduler_CancelBeatsFire(t *testing.T) {
	s := New()
	fired := make(chan struct{}, 1)

	now := time.Date(2026, 3, 11, 19, 59, 59, int(950*time.Millisecond), time.Local)
	if _, ok := s.Arm(now, false, func() { fired <- struct{}{} }); !ok {
		t.Fatal("expected reminder to arm")
	}
	s.Cancel()

	select {
	case <-fired:
		t.Fatal("reminder fired after cancel")
	case <-time.After(200 * time.Millisecond):
	}
	if _, armed := s.ArmedFor(); armed {
		t.Error("scheduler should report nothing armed after cancel")
	}
}

// TestScheduler_RearmReplaces verifies re-evaluation replaces, not stacks.
func TestScheduler_RearmReplaces(t *testing.T) {
	s := New()
	var firstFired, secondFired int
	firedCh := make(chan struct{}, 2)

	now := time.Date(2026, 3, 11, 19, 59, 59, int(900*time.Millisecond), time.Local)
	if _, ok := s.Arm(now, false, func() { firstFired++; firedCh <- struct{}{} }); !ok {
		t.Fatal("first arm failed")
	}
	if _, ok := s.Arm(now, false, func() { secondFired++; firedCh <- struct{}{} }); !ok {
		t.Fatal("second arm failed")
	}

	select {
	case <-firedCh:
	case <-time.After(2 * time.Second):
		t.Fatal("reminder did not fire")
	}
	// Allow a stale first timer a moment to misfire if it was going to.
	time.Sleep(150 * time.Millisecond)

	if firstFired != 0 {
		t.Errorf("replaced reminder fired %d times, want 0", firstFired)
	}
	if secondFired != 1 {
		t.Errorf("active reminder fired %d times, want 1", secondFired)
	}
}

// TestScheduler_ArmOnIneligibleDayDisarms verifies re-evaluating into a
// no-arm decision clears any previously armed reminder.
func TestScheduler_ArmOnIneligibleDayDisarms(t *testing.T) {
	s := New()
	now := time.Date(2026, 3, 11, 14, 0, 0, 0, time.Local)
	if _, ok := s.Arm(now, false, func() {}); !ok {
		t.Fatal("expected reminder to arm")
	}

	// Today got a record; the re-evaluation must disarm.
	if _, ok := s.Arm(now.Add(time.Hour), true, func() {}); ok {
		t.Fatal("must not arm once today is recorded")
	}
	if _, armed := s.ArmedFor(); armed {
		t.Error("previous reminder should be disarmed")
	}
}
