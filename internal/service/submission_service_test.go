package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/soumenroy/portfolio/backend/internal/model"
)

// ---------------------------------------------------------------------------
// mocks — in-memory stubs for testing
// ---------------------------------------------------------------------------

type mockSubmissionRepository struct {
	appendFunc func(ctx context.Context, rec *model.SubmissionRecord) error
	listFunc   func(ctx context.Context, opts model.SubmissionListOptions) ([]*model.SubmissionRecord, error)
}

func (m *mockSubmissionRepository) Append(ctx context.Context, rec *model.SubmissionRecord) error {
	if m.appendFunc != nil {
		return m.appendFunc(ctx, rec)
	}
	return nil
}

func (m *mockSubmissionRepository) List(ctx context.Context, opts model.SubmissionListOptions) ([]*model.SubmissionRecord, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx, opts)
	}
	return nil, nil
}

func (m *mockSubmissionRepository) Count(ctx context.Context) (int, error) { return 0, nil }

type mockNotifier struct {
	notifyFunc func(ctx context.Context, rec *model.SubmissionRecord) error
	calls      int
}

func (m *mockNotifier) Notify(ctx context.Context, rec *model.SubmissionRecord) error {
	m.calls++
	if m.notifyFunc != nil {
		return m.notifyFunc(ctx, rec)
	}
	return nil
}

// ---------------------------------------------------------------------------
// Submit tests
// ---------------------------------------------------------------------------

func TestSubmissionService_Submit_SetsSubmittedAt(t *testing.T) {
	before := time.Now().UTC()
	var saved *model.SubmissionRecord
	repo := &mockSubmissionRepository{
		appendFunc: func(ctx context.Context, rec *model.SubmissionRecord) error {
			saved = rec
			return nil
		},
	}
	svc := NewSubmissionService(repo, &mockNotifier{})

	rec := &model.SubmissionRecord{Name: "Jane Doe", Email: "jane@x.com"}
	if err := svc.Submit(context.Background(), rec); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if saved == nil {
		t.Fatal("expected Append to be called")
	}
	if saved.SubmittedAt.Before(before) {
		t.Errorf("expected SubmittedAt at or after receipt, got %v", saved.SubmittedAt)
	}
}

// TestSubmissionService_Submit_PersistenceFailureSwallowed verifies that
// a failed append never fails the request.
func TestSubmissionService_Submit_PersistenceFailureSwallowed(t *testing.T) {
	repo := &mockSubmissionRepository{
		appendFunc: func(ctx context.Context, rec *model.SubmissionRecord) error {
			return errors.New("disk full")
		},
	}
	notifier := &mockNotifier{}
	svc := NewSubmissionService(repo, notifier)

	rec := &model.SubmissionRecord{Name: "Jane", Email: "jane@x.com"}
	if err := svc.Submit(context.Background(), rec); err != nil {
		t.Errorf("expected success despite append failure, got %v", err)
	}
	if notifier.calls != 1 {
		t.Errorf("expected notification still attempted once, got %d calls", notifier.calls)
	}
}

// TestSubmissionService_Submit_NotificationFailureSwallowed verifies
// that a failed send never fails the request and the record is kept.
func TestSubmissionService_Submit_NotificationFailureSwallowed(t *testing.T) {
	appended := 0
	repo := &mockSubmissionRepository{
		appendFunc: func(ctx context.Context, rec *model.SubmissionRecord) error {
			appended++
			return nil
		},
	}
	notifier := &mockNotifier{
		notifyFunc: func(ctx context.Context, rec *model.SubmissionRecord) error {
			return errors.New("smtp timeout")
		},
	}
	svc := NewSubmissionService(repo, notifier)

	rec := &model.SubmissionRecord{Name: "Jane", Email: "jane@x.com"}
	if err := svc.Submit(context.Background(), rec); err != nil {
		t.Errorf("expected success despite notification failure, got %v", err)
	}
	if appended != 1 {
		t.Errorf("expected record appended exactly once, got %d", appended)
	}
}

// TestSubmissionService_Submit_SingleNotificationAttempt verifies there
// is no retry on notification failure.
func TestSubmissionService_Submit_SingleNotificationAttempt(t *testing.T) {
	notifier := &mockNotifier{
		notifyFunc: func(ctx context.Context, rec *model.SubmissionRecord) error {
			return errors.New("refused")
		},
	}
	svc := NewSubmissionService(&mockSubmissionRepository{}, notifier)

	_ = svc.Submit(context.Background(), &model.SubmissionRecord{Name: "J", Email: "j@x.com"})
	if notifier.calls != 1 {
		t.Errorf("expected exactly one notification attempt, got %d", notifier.calls)
	}
}

func TestSubmissionService_List_PassesThrough(t *testing.T) {
	want := []*model.SubmissionRecord{{ID: "1", Name: "A", Email: "a@x.com"}}
	var captured model.SubmissionListOptions
	repo := &mockSubmissionRepository{
		listFunc: func(ctx context.Context, opts model.SubmissionListOptions) ([]*model.SubmissionRecord, error) {
			captured = opts
			return want, nil
		},
	}
	svc := NewSubmissionService(repo, &mockNotifier{})

	got, err := svc.List(context.Background(), model.SubmissionListOptions{Kind: model.KindDownload, Limit: 5})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 || got[0].ID != "1" {
		t.Errorf("unexpected result: %+v", got)
	}
	if captured.Kind != model.KindDownload || captured.Limit != 5 {
		t.Errorf("options not forwarded: %+v", captured)
	}
}
