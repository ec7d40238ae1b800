package notify

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"

	"github.com/resend/resend-go/v2"
	"github.com/yuin/goldmark"
	goldmarkHTML "github.com/yuin/goldmark/renderer/html"
)

// mdRenderer converts markdown notification bodies to HTML for email.
var mdRenderer = goldmark.New(
	goldmark.WithRendererOptions(
		goldmarkHTML.WithHardWraps(),
	),
)

// EmailSink delivers notifications to the user's inbox via the Resend API.
type EmailSink struct {
	client *resend.Client
	from   string
	to     string
}

// NewEmailSink creates a sink sending from and to the configured addresses.
// PRE: apiKey is a valid Resend API key; from and to are valid addresses
// POST: Returns a ready-to-use sink
func NewEmailSink(apiKey, from, to string) *EmailSink {
	return &EmailSink{
		client: resend.NewClient(apiKey),
		from:   from,
		to:     to,
	}
}

// Send delivers one notification as an email.
// PRE: n has a title
// POST: The email is queued for delivery
func (s *EmailSink) Send(ctx context.Context, n Notification) error {
	html, err := renderBody(n.Body)
	if err != nil {
		return fmt.Errorf("failed to render notification body: %w", err)
	}

	sent, err := s.client.Emails.SendWithContext(ctx, &resend.SendEmailRequest{
		From:    s.from,
		To:      []string{s.to},
		Subject: n.Title,
		Html:    html,
	})
	if err != nil {
		slog.Error("notify_email_failed", "error", err, "id", n.ID, "kind", n.Kind)
		return fmt.Errorf("resend send failed: %w", err)
	}

	slog.Info("notify_email_sent", "message_id", sent.Id, "id", n.ID, "kind", n.Kind, "title", n.Title)
	return nil
}

// renderBody converts a markdown body to HTML.
func renderBody(md string) (string, error) {
	var buf bytes.Buffer
	if err := mdRenderer.Convert([]byte(md), &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}
