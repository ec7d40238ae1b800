package notify

import (
	"context"
	"strings"
	"testing"
)

// recordingSink captures sent notifications.
type recordingSink struct {
	sent []Notification
}

// Send records the notification.
// PRE: none
// POST: Notification is appended to sent
func (s *recordingSink) Send(_ context.Context, n Notification) error {
	s.sent = append(s.sent, n)
	return nil
}

// TestGate_DropsWithoutPermission verifies sends before/without a grant are
// silently dropped, not queued.
func TestGate_DropsWithoutPermission(t *testing.T) {
	sink := &recordingSink{}
	gate := NewGate(sink, func(_ context.Context) bool { return false })
	ctx := context.Background()

	if err := gate.Send(ctx, Notification{Title: "before ask"}); err != nil {
		t.Fatalf("drop must not error: %v", err)
	}
	if got := gate.RequestPermission(ctx); got {
		t.Fatal("permission should be denied")
	}
	if err := gate.Send(ctx, Notification{Title: "after deny"}); err != nil {
		t.Fatalf("drop must not error: %v", err)
	}
	if len(sink.sent) != 0 {
		t.Errorf("sink received %d notifications, want 0", len(sink.sent))
	}
}

// TestGate_ForwardsAfterGrant verifies delivery once permission is granted.
func TestGate_ForwardsAfterGrant(t *testing.T) {
	sink := &recordingSink{}
	gate := NewGate(sink, func(_ context.Context) bool { return true })
	ctx := context.Background()

	if got := gate.RequestPermission(ctx); !got {
		t.Fatal("permission should be granted")
	}
	if err := gate.Send(ctx, Notification{Title: "hello"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(sink.sent) != 1 || sink.sent[0].Title != "hello" {
		t.Errorf("sink received %+v, want one 'hello'", sink.sent)
	}
}

// TestGate_AsksOnlyOnce verifies the permission prompt fires exactly once.
func TestGate_AsksOnlyOnce(t *testing.T) {
	asks := 0
	gate := NewGate(&recordingSink{}, func(_ context.Context) bool {
		asks++
		return true
	})
	ctx := context.Background()

	gate.RequestPermission(ctx)
	gate.RequestPermission(ctx)
	gate.RequestPermission(ctx)
	if asks != 1 {
		t.Errorf("permission requested %d times, want 1", asks)
	}
}

// TestRenderBody_Markdown verifies markdown bodies become HTML for email.
func TestRenderBody_Markdown(t *testing.T) {
	html, err := renderBody("Don't forget to log your **gym attendance** for today!")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(html, "<strong>gym attendance</strong>") {
		t.Errorf("rendered body missing bold span: %s", html)
	}
}
