package notify

import "context"

// NoopSink swallows notifications. Used in tests and when notifications are
// disabled entirely.
type NoopSink struct{}

// NewNoopSink creates a new NoopSink.
func NewNoopSink() *NoopSink {
	return &NoopSink{}
}

// Send does nothing.
// PRE: none
// POST: The notification is dropped
func (s *NoopSink) Send(_ context.Context, _ Notification) error {
	return nil
}
