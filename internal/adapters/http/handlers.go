package web

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"gymtrack/internal/adapters/storage/record"
	"gymtrack/internal/application/orchestrators"
	"gymtrack/internal/application/projections"
	"gymtrack/internal/domain/gymday"
	"gymtrack/internal/domain/plan"
)

// timeNow is a variable for testability.
var timeNow = time.Now

// internalError logs the real error and returns a generic message to the client.
func internalError(w http.ResponseWriter, err error) {
	slog.Error("internal_error", "error", err.Error())
	http.Error(w, "internal server error", http.StatusInternalServerError)
}

// strictDecode decodes JSON from the request body, rejecting unknown fields.
func strictDecode(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

func handleHealthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}

type recordPayload struct {
	Date     string `json:"date"`
	Attended bool   `json:"attended"`
}

func toRecordPayload(r gymday.GymDay) recordPayload {
	return recordPayload{Date: r.Key(), Attended: r.Attended}
}

// handleRecords handles GET /api/records: the full attendance history,
// oldest day first.
func handleRecords(w http.ResponseWriter, r *http.Request) {
	if r.Method != "GET" {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	days := deps.Records.All(r.Context())
	out := make([]recordPayload, 0, len(days))
	for _, d := range days {
		out = append(out, toRecordPayload(d))
	}
	writeJSON(w, out)
}

// handleAttendance handles POST /api/attendance: record or overwrite one
// day's attendance. Marking today also re-evaluates the evening reminder.
func handleAttendance(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var input struct {
		Date     string `json:"date"`
		Attended bool   `json:"attended"`
	}
	if err := strictDecode(r, &input); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	date, err := gymday.ParseDay(input.Date)
	if err != nil {
		http.Error(w, "invalid date format (use YYYY-MM-DD)", http.StatusBadRequest)
		return
	}

	reminderDeps := deps.ReminderDeps
	rec, err := orchestrators.ExecuteMarkAttendance(r.Context(), orchestrators.MarkAttendanceInput{
		Date:     date,
		Attended: input.Attended,
	}, orchestrators.MarkAttendanceDeps{
		Records:      deps.Records,
		ReminderDeps: &reminderDeps,
		Now:          timeNow,
	})
	if err != nil {
		if errors.Is(err, record.ErrInvalidInput) {
			http.Error(w, "invalid attendance input", http.StatusBadRequest)
			return
		}
		internalError(w, err)
		return
	}
	writeJSON(w, toRecordPayload(rec))
}

type planPayload struct {
	StartDate      string `json:"startDate"`
	DurationMonths int    `json:"durationMonths"`
	EndDate        string `json:"endDate"`
	Status         string `json:"status"`
	DaysRemaining  int    `json:"daysRemaining"`
}

func toPlanPayload(p plan.Plan, now time.Time) planPayload {
	return planPayload{
		StartDate:      p.StartDate.Format(gymday.DayFormat),
		DurationMonths: p.DurationMonths,
		EndDate:        p.EndDate.Format(gymday.DayFormat),
		Status:         string(p.StatusAt(now)),
		DaysRemaining:  p.DaysRemaining(now),
	}
}

// handlePlan handles GET and PUT for /api/plan. GET returns null when no
// plan has been saved. PUT replaces the plan wholesale and immediately
// re-evaluates the expiration milestones.
func handlePlan(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case "GET":
		p, ok := deps.Records.Plan(r.Context())
		if !ok {
			writeJSON(w, nil)
			return
		}
		writeJSON(w, toPlanPayload(p, timeNow()))

	case "PUT":
		var input struct {
			StartDate      string `json:"startDate"`
			DurationMonths int    `json:"durationMonths"`
		}
		if err := strictDecode(r, &input); err != nil {
			http.Error(w, "invalid JSON", http.StatusBadRequest)
			return
		}
		start, err := gymday.ParseDay(input.StartDate)
		if err != nil {
			http.Error(w, "invalid startDate format (use YYYY-MM-DD)", http.StatusBadRequest)
			return
		}

		alertsDeps := deps.AlertsDeps
		p, err := orchestrators.ExecuteSavePlan(r.Context(), orchestrators.SavePlanInput{
			StartDate:      start,
			DurationMonths: input.DurationMonths,
		}, orchestrators.SavePlanDeps{
			Plans:      deps.Records,
			AlertsDeps: &alertsDeps,
		})
		if err != nil {
			if errors.Is(err, record.ErrInvalidInput) {
				http.Error(w, "invalid plan input", http.StatusBadRequest)
				return
			}
			internalError(w, err)
			return
		}
		writeJSON(w, toPlanPayload(p, timeNow()))

	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

// handleMetrics handles GET /api/metrics: counts, attendance rate, streak.
func handleMetrics(w http.ResponseWriter, r *http.Request) {
	if r.Method != "GET" {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	m := projections.QueryGetMetrics(r.Context(), projections.GetMetricsDeps{Records: deps.Records})
	writeJSON(w, map[string]any{
		"attendedCount":  m.AttendedCount,
		"missedCount":    m.MissedCount,
		"attendanceRate": m.AttendanceRate,
		"streak":         m.Streak,
	})
}

// handleTrend handles GET /api/trend: per-ISO-week attendance rates over
// the last four weeks.
func handleTrend(w http.ResponseWriter, r *http.Request) {
	if r.Method != "GET" {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	res := projections.QueryGetWeeklyTrend(r.Context(),
		projections.GetWeeklyTrendQuery{Now: timeNow()},
		projections.GetWeeklyTrendDeps{Records: deps.Records})

	type bucket struct {
		Week string  `json:"week"`
		Rate float64 `json:"rate"`
	}
	out := make([]bucket, 0, len(res.Buckets))
	for _, b := range res.Buckets {
		out = append(out, bucket{Week: b.Label, Rate: b.Rate})
	}
	writeJSON(w, out)
}

// handleCalendar handles GET /api/calendar?year=YYYY&month=M: the month
// grid with one state per day.
func handleCalendar(w http.ResponseWriter, r *http.Request) {
	if r.Method != "GET" {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	year, err := strconv.Atoi(r.URL.Query().Get("year"))
	if err != nil {
		http.Error(w, "year must be a number", http.StatusBadRequest)
		return
	}
	month, err := strconv.Atoi(r.URL.Query().Get("month"))
	if err != nil {
		http.Error(w, "month must be a number", http.StatusBadRequest)
		return
	}

	res, err := projections.QueryGetCalendar(r.Context(), projections.GetCalendarQuery{
		Year:  year,
		Month: time.Month(month),
		Now:   timeNow(),
	}, projections.GetCalendarDeps{Records: deps.Records})
	if err != nil {
		http.Error(w, "month must be 1..12", http.StatusBadRequest)
		return
	}

	type day struct {
		Date  string `json:"date"`
		State string `json:"state"`
	}
	days := make([]day, 0, len(res.Days))
	for _, d := range res.Days {
		days = append(days, day{Date: d.Date, State: string(d.State)})
	}
	writeJSON(w, map[string]any{
		"year":  res.Year,
		"month": int(res.Month),
		"days":  days,
	})
}

// handleDashboard handles GET /api/dashboard: today's state, the headline
// metrics and the plan status in one response.
func handleDashboard(w http.ResponseWriter, r *http.Request) {
	if r.Method != "GET" {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	res := projections.QueryGetDashboard(r.Context(),
		projections.GetDashboardQuery{Now: timeNow()},
		projections.GetDashboardDeps{Records: deps.Records, Plans: deps.Records})

	writeJSON(w, map[string]any{
		"today":         res.Today,
		"todayRecorded": res.TodayRecorded,
		"todayAttended": res.TodayAttended,
		"todayIsRest":   res.TodayIsRest,
		"metrics": map[string]any{
			"attendedCount":  res.Metrics.AttendedCount,
			"missedCount":    res.Metrics.MissedCount,
			"attendanceRate": res.Metrics.AttendanceRate,
			"streak":         res.Metrics.Streak,
		},
		"planStatus":   string(res.PlanStatus),
		"planEndDate":  res.PlanEndDate,
		"planDaysLeft": res.PlanDaysLeft,
	})
}
