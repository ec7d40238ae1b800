package record

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"gymtrack/internal/adapters/storage/localstore"
	"gymtrack/internal/domain/gymday"
	"gymtrack/internal/domain/plan"
)

// ErrInvalidInput is returned when a mutation is rejected at the store
// boundary (malformed date, non-positive duration). Nothing is mutated.
var ErrInvalidInput = errors.New("invalid input")

// PersistenceError reports a failed snapshot write. The in-memory mutation
// has already taken effect; the store does not roll back or retry.
type PersistenceError struct {
	Key string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("failed to persist %s: %v", e.Key, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// Store owns the attendance records and the membership plan. All mutations
// are serialized through one mutex so overlapping upserts cannot interleave,
// and every successful mutation writes the full snapshot through the
// key-value store before returning.
type Store struct {
	kv localstore.Store

	mu       sync.Mutex
	days     map[string]gymday.GymDay
	plan     *plan.Plan
	notified map[string]bool // plan key + "|" + status
}

// Persisted forms. Dates are stored as ISO-8601 day strings.
type storedDay struct {
	Date     string `json:"date"`
	Attended bool   `json:"attended"`
}

type storedPlan struct {
	StartDate string `json:"startDate"`
	Duration  int    `json:"duration"`
	EndDate   string `json:"endDate"`
}

type storedMarker struct {
	Plan   string `json:"plan"`
	Status string `json:"status"`
}

// New creates an empty Store persisting through kv.
func New(kv localstore.Store) *Store {
	return &Store{
		kv:       kv,
		days:     make(map[string]gymday.GymDay),
		notified: make(map[string]bool),
	}
}

// Load reads the persisted snapshot. Malformed entries are skipped with a
// warning rather than aborting the load; a missing key is an empty store.
// PRE: kv is reachable
// POST: In-memory state mirrors the parseable part of the persisted state
func (s *Store) Load(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, ok, err := s.kv.Get(ctx, localstore.KeyGymDays)
	if err != nil {
		return fmt.Errorf("failed to load %s: %w", localstore.KeyGymDays, err)
	}
	if ok {
		var entries []storedDay
		if err := json.Unmarshal(raw, &entries); err != nil {
			slog.Warn("record_load", "event", "corrupt_key_discarded", "key", localstore.KeyGymDays, "error", err)
		} else {
			for _, e := range entries {
				day, err := gymday.ParseDay(e.Date)
				if err != nil {
					slog.Warn("record_load", "event", "corrupt_entry_skipped", "key", localstore.KeyGymDays, "date", e.Date)
					continue
				}
				s.days[gymday.Key(day)] = gymday.GymDay{Date: day, Attended: e.Attended}
			}
		}
	}

	raw, ok, err = s.kv.Get(ctx, localstore.KeyPlanInfo)
	if err != nil {
		return fmt.Errorf("failed to load %s: %w", localstore.KeyPlanInfo, err)
	}
	if ok {
		if p, parseErr := parseStoredPlan(raw); parseErr != nil {
			slog.Warn("record_load", "event", "corrupt_key_discarded", "key", localstore.KeyPlanInfo, "error", parseErr)
		} else {
			s.plan = &p
		}
	}

	raw, ok, err = s.kv.Get(ctx, localstore.KeyNotifiedMilestones)
	if err != nil {
		return fmt.Errorf("failed to load %s: %w", localstore.KeyNotifiedMilestones, err)
	}
	if ok {
		var markers []storedMarker
		if err := json.Unmarshal(raw, &markers); err != nil {
			slog.Warn("record_load", "event", "corrupt_key_discarded", "key", localstore.KeyNotifiedMilestones, "error", err)
		} else {
			for _, m := range markers {
				if m.Plan == "" || m.Status == "" {
					continue
				}
				s.notified[m.Plan+"|"+m.Status] = true
			}
		}
	}

	return nil
}

// All returns a snapshot of every attendance record, sorted ascending by day.
// Callers may re-sort freely; the slice is a copy.
func (s *Store) All(_ context.Context) []gymday.GymDay {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]gymday.GymDay, 0, len(s.days))
	for _, d := range s.days {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out
}

// Get returns the record for the given calendar day, if one exists.
func (s *Store) Get(_ context.Context, date time.Time) (gymday.GymDay, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	d, ok := s.days[gymday.Key(date)]
	return d, ok
}

// Upsert records attendance for a calendar day, replacing any existing
// record for that day.
// PRE: date is a valid (non-zero) timestamp; time-of-day is ignored
// POST: Exactly one record exists for the day; the snapshot is persisted
// INVARIANT: at most one record per calendar day
func (s *Store) Upsert(ctx context.Context, date time.Time, attended bool) (gymday.GymDay, error) {
	if date.IsZero() {
		return gymday.GymDay{}, fmt.Errorf("%w: %v", ErrInvalidInput, gymday.ErrInvalidDate)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	rec := gymday.GymDay{Date: gymday.Normalize(date), Attended: attended}
	s.days[rec.Key()] = rec

	if err := s.persistDaysLocked(ctx); err != nil {
		return rec, err
	}
	return rec, nil
}

// Plan returns the active membership plan, if one is set.
func (s *Store) Plan(_ context.Context) (plan.Plan, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.plan == nil {
		return plan.Plan{}, false
	}
	return *s.plan, true
}

// SetPlan replaces the membership plan wholesale.
// PRE: start is a valid day; months > 0
// POST: The new plan (with derived end date) is active and persisted
func (s *Store) SetPlan(ctx context.Context, start time.Time, months int) (plan.Plan, error) {
	p, err := plan.New(start, months)
	if err != nil {
		return plan.Plan{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.plan = &p

	stored := storedPlan{
		StartDate: p.StartDate.Format(gymday.DayFormat),
		Duration:  p.DurationMonths,
		EndDate:   p.EndDate.Format(gymday.DayFormat),
	}
	raw, err := json.Marshal(stored)
	if err != nil {
		return p, &PersistenceError{Key: localstore.KeyPlanInfo, Err: err}
	}
	if err := s.kv.Set(ctx, localstore.KeyPlanInfo, raw); err != nil {
		return p, &PersistenceError{Key: localstore.KeyPlanInfo, Err: err}
	}
	return p, nil
}

// HasNotified reports whether the milestone for this plan instance has
// already fired a notification.
func (s *Store) HasNotified(_ context.Context, p plan.Plan, status plan.Status) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.notified[p.Key()+"|"+string(status)]
}

// MarkNotified records that the milestone for this plan instance has fired,
// so recomputation never re-announces it.
// PRE: status is a milestone status (expiring/expired)
// POST: The marker is persisted; HasNotified returns true for the pair
func (s *Store) MarkNotified(ctx context.Context, p plan.Plan, status plan.Status) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.notified[p.Key()+"|"+string(status)] = true

	markers := make([]storedMarker, 0, len(s.notified))
	for k := range s.notified {
		// key format is "<plan>|<status>" where plan itself contains one "|"
		planKey, st, ok := splitMarkerKey(k)
		if !ok {
			continue
		}
		markers = append(markers, storedMarker{Plan: planKey, Status: st})
	}
	sort.Slice(markers, func(i, j int) bool {
		if markers[i].Plan != markers[j].Plan {
			return markers[i].Plan < markers[j].Plan
		}
		return markers[i].Status < markers[j].Status
	})

	raw, err := json.Marshal(markers)
	if err != nil {
		return &PersistenceError{Key: localstore.KeyNotifiedMilestones, Err: err}
	}
	if err := s.kv.Set(ctx, localstore.KeyNotifiedMilestones, raw); err != nil {
		return &PersistenceError{Key: localstore.KeyNotifiedMilestones, Err: err}
	}
	return nil
}

// persistDaysLocked writes the full gymDays snapshot. Caller holds s.mu.
func (s *Store) persistDaysLocked(ctx context.Context) error {
	entries := make([]storedDay, 0, len(s.days))
	for _, d := range s.days {
		entries = append(entries, storedDay{Date: d.Key(), Attended: d.Attended})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Date < entries[j].Date })

	raw, err := json.Marshal(entries)
	if err != nil {
		return &PersistenceError{Key: localstore.KeyGymDays, Err: err}
	}
	if err := s.kv.Set(ctx, localstore.KeyGymDays, raw); err != nil {
		return &PersistenceError{Key: localstore.KeyGymDays, Err: err}
	}
	return nil
}

func parseStoredPlan(raw []byte) (plan.Plan, error) {
	var sp storedPlan
	if err := json.Unmarshal(raw, &sp); err != nil {
		return plan.Plan{}, err
	}
	start, err := gymday.ParseDay(sp.StartDate)
	if err != nil {
		return plan.Plan{}, fmt.Errorf("bad startDate %q", sp.StartDate)
	}
	end, err := gymday.ParseDay(sp.EndDate)
	if err != nil {
		return plan.Plan{}, fmt.Errorf("bad endDate %q", sp.EndDate)
	}
	p := plan.Plan{StartDate: start, DurationMonths: sp.Duration, EndDate: end}
	if err := p.Validate(); err != nil {
		return plan.Plan{}, err
	}
	return p, nil
}

// splitMarkerKey splits "start|end|status" into plan key and status.
func splitMarkerKey(k string) (planKey, status string, ok bool) {
	last := strings.LastIndexByte(k, '|')
	if last <= 0 || last == len(k)-1 {
		return "", "", false
	}
	return k[:last], k[last+1:], true
}
