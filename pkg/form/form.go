// Package form implements the contact-form client: a draft the user
// edits field by field, a guarded submit against the contact endpoint,
// and the manual mailto fallback when the endpoint cannot be reached.
package form

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/soumenroy/portfolio/backend/pkg/mailto"
)

// State is the per-attempt lifecycle of a form.
type State int

const (
	Idle State = iota
	Submitting
)

// ErrSubmissionInFlight is returned by Submit while a previous attempt
// is still outstanding. One submission at a time per form prevents
// duplicate records from double-clicks.
var ErrSubmissionInFlight = errors.New("form: submission already in flight")

// ValidationError is a local precondition failure; the network is
// never touched when one occurs.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

// Draft is the pending user input.
type Draft struct {
	Name        string
	Email       string
	Contact     string
	Subject     string
	Message     string
	DownloadURL string
}

// Outcome is the two-path submission result: either the endpoint took
// the message, or the user must send it manually.
type Outcome int

const (
	Delivered Outcome = iota
	FallbackRequired
)

// Result is what a completed Submit produces.
type Result struct {
	Outcome Outcome

	// Reason explains why the fallback was required (network error,
	// endpoint missing, server failure). Empty on Delivered.
	Reason string

	// MailtoURL is the pre-filled email draft handed to the user's
	// mail client. Set only on FallbackRequired.
	MailtoURL string

	// DownloadedTo is the local path a requested file was saved to.
	// Set only for delivered download requests.
	DownloadedTo string
}

// Form drives one contact form instance.
type Form struct {
	baseURL    string
	ownerEmail string
	client     *http.Client

	// downloadDir receives requested files; defaults to the working
	// directory.
	downloadDir string
	// downloadDelay lets the success status render before the file
	// transfer starts, mirroring the site's behavior.
	downloadDelay time.Duration

	mu     sync.Mutex
	state  State
	draft  Draft
	status string
}

// New creates a Form posting to baseURL, with ownerEmail as the
// fallback recipient.
func New(baseURL, ownerEmail string) *Form {
	return &Form{
		baseURL:       strings.TrimRight(baseURL, "/"),
		ownerEmail:    ownerEmail,
		client:        &http.Client{Timeout: 20 * time.Second},
		downloadDir:   ".",
		downloadDelay: 300 * time.Millisecond,
	}
}

// SetDownloadDir changes where delivered download requests save their file.
func (f *Form) SetDownloadDir(dir string) { f.downloadDir = dir }

// UpdateField replaces one field of the pending draft and clears any
// previously shown status message. Unknown keys are ignored so the
// caller can wire inputs generically.
func (f *Form) UpdateField(key, value string) {
	f.mu.Lock()
	defer f.mu.Unlock()

	switch key {
	case "name":
		f.draft.Name = value
	case "email":
		f.draft.Email = value
	case "contact":
		f.draft.Contact = value
	case "subject":
		f.draft.Subject = value
	case "message":
		f.draft.Message = value
	case "downloadUrl":
		f.draft.DownloadURL = value
	}
	f.status = ""
}

// Draft returns a copy of the pending input.
func (f *Form) Draft() Draft {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.draft
}

// State returns the current lifecycle state.
func (f *Form) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// Status returns the last user-visible status message.
func (f *Form) Status() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.status
}

// submitPayload is the JSON body for POST /api/contact.
type submitPayload struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	Contact     string `json:"contact,omitempty"`
	Subject     string `json:"subject,omitempty"`
	Message     string `json:"message,omitempty"`
	DownloadURL string `json:"downloadUrl,omitempty"`
}

type submitReply struct {
	OK    bool   `json:"ok"`
	Error string `json:"error"`
}

// Submit validates the draft and posts it to the contact endpoint.
//
// A precondition failure returns a *ValidationError without any
// network traffic. A delivered general inquiry resets the draft; a
// delivered download request additionally fetches the file. When the
// endpoint is unreachable, missing or failing, Submit returns a
// FallbackRequired result carrying a composed mailto: URL — the
// message is never a dead-end.
func (f *Form) Submit(ctx context.Context) (Result, error) {
	f.mu.Lock()
	if f.state == Submitting {
		f.mu.Unlock()
		return Result{}, ErrSubmissionInFlight
	}
	draft := f.draft
	if err := validate(draft); err != nil {
		f.status = err.Error()
		f.mu.Unlock()
		return Result{}, err
	}
	f.state = Submitting
	f.status = ""
	f.mu.Unlock()

	res, err := f.post(ctx, draft)

	f.mu.Lock()
	defer f.mu.Unlock()
	f.state = Idle

	if err != nil {
		return Result{}, err
	}

	switch res.Outcome {
	case Delivered:
		f.status = "Message sent — thank you!"
		f.draft = Draft{}
	case FallbackRequired:
		f.status = "Opened your email client as a fallback — please send the message there."
	}
	return res, nil
}

// post performs the POST and classifies the response.
func (f *Form) post(ctx context.Context, draft Draft) (Result, error) {
	body, err := json.Marshal(submitPayload(draft))
	if err != nil {
		return Result{}, fmt.Errorf("form: marshal draft: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, f.baseURL+"/api/contact", bytes.NewReader(body))
	if err != nil {
		return Result{}, fmt.Errorf("form: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := f.client.Do(req)
	if err != nil {
		// Endpoint unreachable: degrade to the manual path.
		return f.fallback(draft, "endpoint unreachable: "+err.Error()), nil
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
		return f.delivered(ctx, draft)
	case resp.StatusCode == http.StatusBadRequest:
		// Server validation mirrors ours; surface it as a local error.
		var reply submitReply
		msg := "server rejected the request"
		if json.NewDecoder(resp.Body).Decode(&reply) == nil && reply.Error != "" {
			msg = reply.Error
		}
		return Result{}, &ValidationError{Msg: msg}
	default:
		// 404 (no endpoint deployed), 5xx and anything else: manual path.
		return f.fallback(draft, fmt.Sprintf("endpoint returned %d", resp.StatusCode)), nil
	}
}

// delivered finishes a successful submission, fetching the requested
// file for download requests.
func (f *Form) delivered(ctx context.Context, draft Draft) (Result, error) {
	res := Result{Outcome: Delivered}
	if draft.DownloadURL == "" {
		return res, nil
	}

	// Let the success message render before the transfer starts.
	select {
	case <-time.After(f.downloadDelay):
	case <-ctx.Done():
		return res, nil
	}

	path, err := f.download(ctx, draft.DownloadURL)
	if err != nil {
		// The submission itself succeeded; the fetch is best-effort.
		return res, nil
	}
	res.DownloadedTo = path
	return res, nil
}

// download fetches url (relative to the site base) into downloadDir.
func (f *Form) download(ctx context.Context, url string) (string, error) {
	if !strings.HasPrefix(url, "http") {
		url = f.baseURL + "/" + strings.TrimLeft(url, "/")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", err
	}
	resp, err := f.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("form: download returned %d", resp.StatusCode)
	}

	dest := filepath.Join(f.downloadDir, filepath.Base(url))
	out, err := os.Create(dest)
	if err != nil {
		return "", err
	}
	defer out.Close()
	if _, err := io.Copy(out, resp.Body); err != nil {
		return "", err
	}
	return dest, nil
}

// fallback composes the manual email draft for a failed server path.
func (f *Form) fallback(draft Draft, reason string) Result {
	return Result{
		Outcome: FallbackRequired,
		Reason:  reason,
		MailtoURL: mailto.ComposeForDraft(f.ownerEmail, mailto.Draft{
			Name:    draft.Name,
			Email:   draft.Email,
			Subject: draft.Subject,
			Message: draft.Message,
		}),
	}
}

// validate applies the client-side preconditions: name and email
// always, subject and message unless this is a download request.
func validate(d Draft) error {
	if strings.TrimSpace(d.Name) == "" || strings.TrimSpace(d.Email) == "" {
		return &ValidationError{Msg: "Please provide your name and email."}
	}
	if d.DownloadURL == "" {
		if strings.TrimSpace(d.Subject) == "" || strings.TrimSpace(d.Message) == "" {
			return &ValidationError{Msg: "Please provide a subject and a short message."}
		}
	}
	return nil
}
