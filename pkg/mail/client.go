// Package mail provides a minimal SMTP client for submission
// notifications. Uses net/smtp directly (no SDK) to keep external
// dependencies down; the feature is disabled entirely when no host is
// configured.
package mail

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net"
	"net/smtp"
	"strconv"
	"strings"
	"time"
)

// ErrNotConfigured is returned when Send is called without an SMTP host configured.
var ErrNotConfigured = errors.New("mail: not configured")

// Config holds the SMTP transport options. An empty Host is the
// documented "feature disabled" switch: nothing else matters then.
type Config struct {
	Host   string
	Port   int    // default 587
	Secure bool   // implicit TLS when true, STARTTLS upgrade otherwise
	User   string // SMTP auth user; also the second-choice notification recipient
	Pass   string
	From   string // MAIL FROM / From header; defaults to "Website <User>"
	// NotifyTo is the explicit notification recipient. Recipient()
	// falls back to User, then OwnerEmail.
	NotifyTo   string
	OwnerEmail string // site owner's published address, last-resort recipient
}

// Enabled reports whether notification sending is configured at all.
func (c Config) Enabled() bool {
	return c.Host != ""
}

// Recipient resolves the notification recipient: explicit notify
// address, then the authenticated sender, then the owner's published
// address. Empty when none is configured.
func (c Config) Recipient() string {
	for _, to := range []string{c.NotifyTo, c.User, c.OwnerEmail} {
		if to != "" {
			return to
		}
	}
	return ""
}

// FromAddress resolves the sender for outgoing notifications.
func (c Config) FromAddress() string {
	if c.From != "" {
		return c.From
	}
	return fmt.Sprintf("Website <%s>", c.User)
}

func (c Config) port() int {
	if c.Port == 0 {
		return 587
	}
	return c.Port
}

// Message is one outgoing plain-text email.
type Message struct {
	From    string
	To      string
	Subject string
	Body    string
}

// Client sends email messages.
type Client interface {
	// Send delivers msg. Returns ErrNotConfigured when no transport
	// is configured.
	Send(ctx context.Context, msg Message) error
}

// SMTPClient is the production Client talking to a real SMTP server.
type SMTPClient struct {
	cfg     Config
	timeout time.Duration
}

// NewClient creates an SMTPClient for the given config.
func NewClient(cfg Config) *SMTPClient {
	return &SMTPClient{cfg: cfg, timeout: 15 * time.Second}
}

// Ensure SMTPClient implements Client at compile time.
var _ Client = (*SMTPClient)(nil)

// Send delivers one message over a fresh SMTP connection. One attempt,
// no retry; callers treat failures as best-effort.
func (c *SMTPClient) Send(ctx context.Context, msg Message) error {
	if !c.cfg.Enabled() {
		return ErrNotConfigured
	}

	addr := net.JoinHostPort(c.cfg.Host, strconv.Itoa(c.cfg.port()))
	dialer := net.Dialer{Timeout: c.timeout}
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return fmt.Errorf("mail: dial %s: %w", addr, err)
	}
	if c.cfg.Secure {
		conn = tls.Client(conn, &tls.Config{ServerName: c.cfg.Host})
	}

	sc, err := smtp.NewClient(conn, c.cfg.Host)
	if err != nil {
		conn.Close()
		return fmt.Errorf("mail: handshake: %w", err)
	}
	defer sc.Close()

	if !c.cfg.Secure {
		if ok, _ := sc.Extension("STARTTLS"); ok {
			if err := sc.StartTLS(&tls.Config{ServerName: c.cfg.Host}); err != nil {
				return fmt.Errorf("mail: starttls: %w", err)
			}
		}
	}

	if c.cfg.User != "" {
		if ok, _ := sc.Extension("AUTH"); ok {
			auth := smtp.PlainAuth("", c.cfg.User, c.cfg.Pass, c.cfg.Host)
			if err := sc.Auth(auth); err != nil {
				return fmt.Errorf("mail: auth: %w", err)
			}
		}
	}

	if err := sc.Mail(envelopeAddress(msg.From)); err != nil {
		return fmt.Errorf("mail: mail from: %w", err)
	}
	if err := sc.Rcpt(msg.To); err != nil {
		return fmt.Errorf("mail: rcpt to: %w", err)
	}

	w, err := sc.Data()
	if err != nil {
		return fmt.Errorf("mail: data: %w", err)
	}
	if _, err := w.Write(render(msg)); err != nil {
		return fmt.Errorf("mail: write body: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("mail: close body: %w", err)
	}
	return sc.Quit()
}

// render serializes the message as RFC 5322 headers plus plain-text body.
func render(msg Message) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", msg.From)
	fmt.Fprintf(&b, "To: %s\r\n", msg.To)
	fmt.Fprintf(&b, "Subject: %s\r\n", msg.Subject)
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=utf-8\r\n")
	b.WriteString("\r\n")
	b.WriteString(strings.ReplaceAll(msg.Body, "\n", "\r\n"))
	b.WriteString("\r\n")
	return []byte(b.String())
}

// envelopeAddress strips a display name ("Website <a@b>" -> "a@b") for
// the SMTP envelope; headers keep the full form.
func envelopeAddress(s string) string {
	if i := strings.LastIndex(s, "<"); i >= 0 {
		if j := strings.LastIndex(s, ">"); j > i {
			return s[i+1 : j]
		}
	}
	return s
}
