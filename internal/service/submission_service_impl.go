package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/soumenroy/portfolio/backend/internal/model"
	"github.com/soumenroy/portfolio/backend/internal/repository"
)

// submissionServiceImpl is the production implementation of SubmissionService.
type submissionServiceImpl struct {
	repo     repository.SubmissionRepository
	notifier Notifier
}

// NewSubmissionService creates a SubmissionService backed by the given
// repository and notifier.
func NewSubmissionService(repo repository.SubmissionRepository, notifier Notifier) SubmissionService {
	return &submissionServiceImpl{repo: repo, notifier: notifier}
}

// Submit stamps SubmittedAt at receipt, appends the record and then
// attempts the owner notification once. Neither a failed append nor a
// failed send alters the outcome: by the time a payload reaches this
// method it has passed validation, and the contract is that the caller
// reports success from here on.
func (s *submissionServiceImpl) Submit(ctx context.Context, rec *model.SubmissionRecord) error {
	rec.SubmittedAt = time.Now().UTC()

	if err := s.repo.Append(ctx, rec); err != nil {
		slog.Error("failed to persist submission", "name", rec.Name, "error", err)
	}

	if err := s.notifier.Notify(ctx, rec); err != nil {
		slog.Error("failed to send submission notification", "name", rec.Name, "error", err)
	}

	return nil
}

// List returns stored submissions according to the given filter/pagination options.
func (s *submissionServiceImpl) List(ctx context.Context, opts model.SubmissionListOptions) ([]*model.SubmissionRecord, error) {
	return s.repo.List(ctx, opts)
}
