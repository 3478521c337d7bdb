package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/soumenroy/portfolio/backend/internal/model"
	"github.com/soumenroy/portfolio/backend/pkg/mail"
)

// Notifier sends a best-effort notification about a stored submission.
// Callers invoke it exactly once per submission and discard the result
// from the response path; a failure is logged, never surfaced.
type Notifier interface {
	Notify(ctx context.Context, rec *model.SubmissionRecord) error
}

// NoopNotifier is used when no notification transport is configured.
type NoopNotifier struct{}

func (NoopNotifier) Notify(context.Context, *model.SubmissionRecord) error { return nil }

// MailNotifier emails the site owner about each submission.
type MailNotifier struct {
	client mail.Client
	cfg    mail.Config
}

// NewMailNotifier creates a Notifier that delivers through the given
// mail client.
func NewMailNotifier(client mail.Client, cfg mail.Config) *MailNotifier {
	return &MailNotifier{client: client, cfg: cfg}
}

// NewNotifier returns a MailNotifier when the config enables mail,
// otherwise a NoopNotifier. Absence of an SMTP host is the documented
// off switch, not an error.
func NewNotifier(cfg mail.Config) Notifier {
	if !cfg.Enabled() {
		return NoopNotifier{}
	}
	return NewMailNotifier(mail.NewClient(cfg), cfg)
}

// Notify sends one notification email describing rec. Missing
// recipient configuration is treated as "skip", not a failure.
func (n *MailNotifier) Notify(ctx context.Context, rec *model.SubmissionRecord) error {
	to := n.cfg.Recipient()
	if to == "" {
		return nil
	}
	return n.client.Send(ctx, mail.Message{
		From:    n.cfg.FromAddress(),
		To:      to,
		Subject: notificationSubject(rec),
		Body:    notificationBody(rec),
	})
}

func notificationSubject(rec *model.SubmissionRecord) string {
	if rec.IsDownloadRequest() {
		return "CV Download — " + rec.Name
	}
	return "Website contact — " + rec.Name
}

// notificationBody renders the record as a plain-text field list, with
// an em dash standing in for blank optional fields.
func notificationBody(rec *model.SubmissionRecord) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Name: %s\n", orDash(rec.Name))
	fmt.Fprintf(&b, "Email: %s\n", orDash(rec.Email))
	fmt.Fprintf(&b, "Contact: %s\n", orDash(rec.Contact))
	fmt.Fprintf(&b, "Subject: %s\n", orDash(rec.Subject))
	fmt.Fprintf(&b, "Message:\n%s\n", orDash(rec.Message))
	fmt.Fprintf(&b, "Download URL: %s\n", orDash(rec.DownloadURL))
	fmt.Fprintf(&b, "Time: %s\n", rec.SubmittedAt.Format("2 Jan 2006 15:04:05 MST"))
	return b.String()
}

func orDash(s string) string {
	if s == "" {
		return "—"
	}
	return s
}
