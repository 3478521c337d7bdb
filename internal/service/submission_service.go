package service

import (
	"context"

	"github.com/soumenroy/portfolio/backend/internal/model"
)

// SubmissionService defines the business logic for contact submissions.
type SubmissionService interface {
	// Submit stores a new submission and fires the owner notification.
	// rec.ID and rec.SubmittedAt are populated by the implementation.
	// Persistence and notification failures are logged and swallowed:
	// once a payload is valid, Submit reports success.
	Submit(ctx context.Context, rec *model.SubmissionRecord) error

	// List returns stored submissions according to the given options.
	List(ctx context.Context, opts model.SubmissionListOptions) ([]*model.SubmissionRecord, error)
}
