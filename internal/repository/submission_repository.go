package repository

import (
	"context"

	"github.com/soumenroy/portfolio/backend/internal/model"
)

// SubmissionRepository defines the persistence interface for contact
// submissions. The store is append-only: there is no update or delete.
type SubmissionRepository interface {
	// Append stores one new submission. Implementations populate
	// rec.ID and never reorder previously stored records.
	Append(ctx context.Context, rec *model.SubmissionRecord) error

	// List returns submissions according to the given options, newest first.
	List(ctx context.Context, opts model.SubmissionListOptions) ([]*model.SubmissionRecord, error)

	// Count returns the total number of stored submissions.
	Count(ctx context.Context) (int, error)
}
