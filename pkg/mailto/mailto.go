// Package mailto builds mailto: URLs for the manual-send fallback.
// When the contact endpoint is down the user is handed one of these
// instead of an error dead-end, so a message is never silently lost.
package mailto

import (
	"net/url"
	"strings"
)

// DefaultSubject is used when the sender left the subject blank.
const DefaultSubject = "Contact via website"

// Draft is the user input a fallback email is composed from.
type Draft struct {
	Name    string
	Email   string // sender's reply address, optional
	Subject string
	Message string
}

// Compose builds a mailto: URL with the given recipient, subject and
// body. Subject and body are percent-encoded; spaces become %20, not
// '+', since mail clients do not decode form encoding.
func Compose(to, subject, body string) string {
	var b strings.Builder
	b.WriteString("mailto:")
	b.WriteString(to)
	b.WriteString("?subject=")
	b.WriteString(escape(subject))
	b.WriteString("&body=")
	b.WriteString(escape(body))
	return b.String()
}

// ComposeForDraft builds the fallback email for a submission draft:
// recipient is the site owner's published address, subject is the
// draft's subject or a generic default, body is the message followed
// by a signature line and an optional reply address.
func ComposeForDraft(to string, d Draft) string {
	subject := d.Subject
	if subject == "" {
		subject = DefaultSubject
	}

	parts := []string{d.Message, "", "— " + d.Name}
	if d.Email != "" {
		parts = append(parts, "Reply: "+d.Email)
	}
	return Compose(to, subject, strings.Join(parts, "\n"))
}

// escape percent-encodes a query component the way mail clients expect.
func escape(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}
