package notify

import (
	"context"
	"log/slog"
	"sync"
)

// PermissionFunc answers a one-time permission request. The answer is a
// plain boolean: denial is not an error.
type PermissionFunc func(ctx context.Context) bool

// Gate wraps a Sink with the user's notification permission. Until
// permission is granted, sends are silently dropped, never queued.
type Gate struct {
	sink    Sink
	request PermissionFunc

	mu      sync.Mutex
	asked   bool
	granted bool
}

// NewGate creates a Gate over sink. request is consulted exactly once, on
// the first RequestPermission call.
func NewGate(sink Sink, request PermissionFunc) *Gate {
	return &Gate{sink: sink, request: request}
}

// RequestPermission asks for notification permission once and caches the
// answer. Subsequent calls return the cached result without re-asking.
// PRE: none
// POST: Returns whether notifications may be delivered
func (g *Gate) RequestPermission(ctx context.Context) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	if !g.asked {
		g.asked = true
		g.granted = g.request(ctx)
		slog.Info("notification_permission", "granted", g.granted)
	}
	return g.granted
}

// Send forwards to the wrapped sink when permitted, otherwise drops.
// PRE: none
// POST: Delivered iff permission was granted; drops are not errors
func (g *Gate) Send(ctx context.Context, n Notification) error {
	g.mu.Lock()
	granted := g.granted
	g.mu.Unlock()

	if !granted {
		slog.Debug("notification_dropped", "id", n.ID, "kind", n.Kind, "title", n.Title)
		return nil
	}
	return g.sink.Send(ctx, n)
}
