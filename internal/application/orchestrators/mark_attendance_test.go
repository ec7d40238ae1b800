package orchestrators

import (
	"context"
	"errors"
	"testing"
	"time"

	"gymtrack/internal/adapters/notify"
	"gymtrack/internal/domain/gymday"
	"gymtrack/internal/domain/plan"
)

// mockRecordStore implements RecordStore for testing.
type mockRecordStore struct {
	days      map[string]gymday.GymDay
	upsertErr error
}

func newMockRecordStore() *mockRecordStore {
	return &mockRecordStore{days: make(map[string]gymday.GymDay)}
}

// Upsert stores the normalized record or fails when scripted.
// PRE: date is non-zero
// POST: Record replaces any existing record for the day
func (m *mockRecordStore) Upsert(_ context.Context, date time.Time, attended bool) (gymday.GymDay, error) {
	if m.upsertErr != nil {
		return gymday.GymDay{}, m.upsertErr
	}
	rec := gymday.GymDay{Date: gymday.Normalize(date), Attended: attended}
	m.days[rec.Key()] = rec
	return rec, nil
}

// Get returns the stored record for the day, if any.
// PRE: date is non-zero
// POST: Returns the record and whether it exists
func (m *mockRecordStore) Get(_ context.Context, date time.Time) (gymday.GymDay, bool) {
	r, ok := m.days[gymday.Key(date)]
	return r, ok
}

// mockScheduler implements Scheduler, recording calls.
type mockScheduler struct {
	armCalls    []bool // hasRecordToday per call
	cancelCalls int
}

// Arm records the evaluation input and reports not-armed when today has a
// record, mirroring the real decision.
// PRE: fire is non-nil
// POST: Call is recorded
func (m *mockScheduler) Arm(now time.Time, hasRecordToday bool, _ func()) (time.Time, bool) {
	m.armCalls = append(m.armCalls, hasRecordToday)
	if hasRecordToday {
		return time.Time{}, false
	}
	return gymday.Normalize(now).Add(20 * time.Hour), true
}

// Cancel records the call.
// PRE: none
// POST: Call is recorded
func (m *mockScheduler) Cancel() {
	m.cancelCalls++
}

// mockNotifier implements Notifier, recording notifications.
type mockNotifier struct {
	sent    []notify.Notification
	sendErr error
}

// Send records or fails when scripted.
// PRE: none
// POST: Notification recorded on success
func (m *mockNotifier) Send(_ context.Context, n notify.Notification) error {
	if m.sendErr != nil {
		return m.sendErr
	}
	m.sent = append(m.sent, n)
	return nil
}

var markNow = time.Date(2026, 3, 11, 15, 0, 0, 0, time.Local) // Wednesday

func fixedNow() time.Time { return markNow }

func fixedID() string { return "test-id-001" }

// TestExecuteMarkAttendance_Upserts verifies the record lands in the store.
func TestExecuteMarkAttendance_Upserts(t *testing.T) {
	store := newMockRecordStore()
	rec, err := ExecuteMarkAttendance(context.Background(), MarkAttendanceInput{
		Date:     markNow,
		Attended: true,
	}, MarkAttendanceDeps{Records: store, Now: fixedNow})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Key() != "2026-03-11" || !rec.Attended {
		t.Errorf("record = %+v, want attended 2026-03-11", rec)
	}
	if _, ok := store.days["2026-03-11"]; !ok {
		t.Error("record not persisted in store")
	}
}

// TestExecuteMarkAttendance_TodayDisarmsReminder verifies marking today
// re-evaluates the reminder with the record present.
func TestExecuteMarkAttendance_TodayDisarmsReminder(t *testing.T) {
	store := newMockRecordStore()
	sched := &mockScheduler{}
	deps := MarkAttendanceDeps{
		Records: store,
		Now:     fixedNow,
		ReminderDeps: &ArmReminderDeps{
			Records:    store,
			Scheduler:  sched,
			Notifier:   &mockNotifier{},
			Now:        fixedNow,
			GenerateID: fixedID,
		},
	}

	if _, err := ExecuteMarkAttendance(context.Background(), MarkAttendanceInput{Date: markNow, Attended: true}, deps); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(sched.armCalls) != 1 {
		t.Fatalf("scheduler evaluated %d times, want 1", len(sched.armCalls))
	}
	if !sched.armCalls[0] {
		t.Error("re-evaluation should see today's record (hasRecordToday=true)")
	}
}

// TestExecuteMarkAttendance_PastDayLeavesReminderAlone verifies marking a
// past day does not touch today's reminder.
func TestExecuteMarkAttendance_PastDayLeavesReminderAlone(t *testing.T) {
	store := newMockRecordStore()
	sched := &mockScheduler{}
	deps := MarkAttendanceDeps{
		Records: store,
		Now:     fixedNow,
		ReminderDeps: &ArmReminderDeps{
			Records:   store,
			Scheduler: sched,
			Notifier:  &mockNotifier{},
			Now:       fixedNow,
		},
	}

	yesterday := markNow.AddDate(0, 0, -1)
	if _, err := ExecuteMarkAttendance(context.Background(), MarkAttendanceInput{Date: yesterday, Attended: false}, deps); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(sched.armCalls) != 0 {
		t.Errorf("scheduler touched %d times for a past-day mark, want 0", len(sched.armCalls))
	}
}

// TestExecuteMarkAttendance_UpsertErrorPropagates verifies store errors
// surface unchanged.
func TestExecuteMarkAttendance_UpsertErrorPropagates(t *testing.T) {
	store := newMockRecordStore()
	store.upsertErr = errors.New("invalid input")

	_, err := ExecuteMarkAttendance(context.Background(), MarkAttendanceInput{Date: markNow, Attended: true}, MarkAttendanceDeps{Records: store, Now: fixedNow})
	if err == nil {
		t.Fatal("expected error from store")
	}
}

// mockPlanStore implements PlanStore for testing.
type mockPlanStore struct {
	plan     *plan.Plan
	notified map[string]bool
	markErr  error
}

func newMockPlanStore() *mockPlanStore {
	return &mockPlanStore{notified: make(map[string]bool)}
}

// Plan returns the seeded plan, if any.
// PRE: none
// POST: ok=false when no plan is set
func (m *mockPlanStore) Plan(_ context.Context) (plan.Plan, bool) {
	if m.plan == nil {
		return plan.Plan{}, false
	}
	return *m.plan, true
}

// SetPlan derives and installs a plan.
// PRE: start is valid, months > 0
// POST: Plan replaces any previous plan
func (m *mockPlanStore) SetPlan(_ context.Context, start time.Time, months int) (plan.Plan, error) {
	p, err := plan.New(start, months)
	if err != nil {
		return plan.Plan{}, err
	}
	m.plan = &p
	return p, nil
}

// HasNotified reports a recorded marker.
// PRE: none
// POST: true iff MarkNotified was called for the pair
func (m *mockPlanStore) HasNotified(_ context.Context, p plan.Plan, status plan.Status) bool {
	return m.notified[p.Key()+"|"+string(status)]
}

// MarkNotified records a marker or fails when scripted.
// PRE: none
// POST: Marker recorded on success
func (m *mockPlanStore) MarkNotified(_ context.Context, p plan.Plan, status plan.Status) error {
	if m.markErr != nil {
		return m.markErr
	}
	m.notified[p.Key()+"|"+string(status)] = true
	return nil
}
