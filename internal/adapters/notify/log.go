package notify

import (
	"context"
	"log/slog"
)

// LogSink announces notifications on the structured log. It is the default
// sink when no delivery channel is configured.
type LogSink struct{}

// NewLogSink creates a new LogSink.
func NewLogSink() *LogSink {
	return &LogSink{}
}

// Send logs the notification.
// PRE: n has a title
// POST: The notification is visible on the log
func (s *LogSink) Send(_ context.Context, n Notification) error {
	slog.Info("notification", "id", n.ID, "kind", n.Kind, "title", n.Title, "body", n.Body)
	return nil
}
