package notify

import "context"

// Kind distinguishes the two notification families the tracker emits.
type Kind string

// Notification kinds.
const (
	KindReminder      Kind = "attendance_reminder"
	KindPlanMilestone Kind = "plan_milestone"
)

// Notification is a request to announce something to the user. Body is
// markdown; sinks that render rich output convert it, plain sinks use it
// as-is.
type Notification struct {
	ID    string
	Kind  Kind
	Title string
	Body  string
}

// Sink delivers notifications to wherever the user will see them.
type Sink interface {
	Send(ctx context.Context, n Notification) error
}
