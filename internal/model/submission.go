package model

import "time"

// SubmissionKind values accepted by SubmissionListOptions.Kind.
const (
	KindInquiry  = "inquiry"
	KindDownload = "download"
)

// SubmissionRecord represents one contact-form submission or CV download
// request. Records are append-only: once written they are never updated
// or deleted by this system.
type SubmissionRecord struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Email         string    `json:"email"`
	Contact       string    `json:"contact,omitempty"`
	Subject       string    `json:"subject,omitempty"`
	Message       string    `json:"message,omitempty"`
	DownloadURL   string    `json:"downloadUrl,omitempty"`
	UserAgent     string    `json:"userAgent,omitempty"`
	SourceAddress string    `json:"sourceAddress,omitempty"`
	SubmittedAt   time.Time `json:"submittedAt"`
}

// IsDownloadRequest reports whether this submission asked for a file
// (CV variant) rather than being a general inquiry.
func (r *SubmissionRecord) IsDownloadRequest() bool {
	return r.DownloadURL != ""
}

// SubmissionListOptions carries filter and pagination parameters for
// listing submissions.
type SubmissionListOptions struct {
	// Kind filters by submission kind: "", "all", "inquiry", "download".
	// Empty string and "all" return all submissions.
	Kind   string
	Limit  int
	Offset int
}
