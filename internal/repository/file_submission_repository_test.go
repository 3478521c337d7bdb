package repository

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/soumenroy/portfolio/backend/internal/model"
)

func newTestRepo(t *testing.T) (*FileSubmissionRepository, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "data", "submissions.json")
	return NewFileSubmissionRepository(path), path
}

func TestFileRepository_Append_CreatesFileAndRecord(t *testing.T) {
	repo, path := newTestRepo(t)

	rec := &model.SubmissionRecord{
		Name:        "Jane Doe",
		Email:       "jane@x.com",
		Subject:     "Pilot",
		Message:     "Hello",
		SubmittedAt: time.Now().UTC(),
	}
	if err := repo.Append(context.Background(), rec); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.ID == "" {
		t.Error("expected Append to assign an ID")
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("store file not written: %v", err)
	}
	var stored []*model.SubmissionRecord
	if err := json.Unmarshal(raw, &stored); err != nil {
		t.Fatalf("store file is not a JSON array: %v", err)
	}
	if len(stored) != 1 {
		t.Fatalf("expected 1 record, got %d", len(stored))
	}
	if stored[0].Subject != "Pilot" {
		t.Errorf("expected subject=Pilot, got %q", stored[0].Subject)
	}
}

func TestFileRepository_Append_PreservesInsertionOrder(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()

	for _, name := range []string{"first", "second", "third"} {
		rec := &model.SubmissionRecord{Name: name, Email: name + "@x.com"}
		if err := repo.Append(ctx, rec); err != nil {
			t.Fatalf("append %s: %v", name, err)
		}
	}

	n, err := repo.Count(ctx)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 3 {
		t.Fatalf("expected 3 records, got %d", n)
	}

	// List is newest first.
	records, err := repo.List(ctx, model.SubmissionListOptions{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if records[0].Name != "third" || records[2].Name != "first" {
		t.Errorf("expected newest-first order, got %q..%q", records[0].Name, records[2].Name)
	}
}

// TestFileRepository_Append_NoDeduplication verifies that submitting the
// same payload twice appends two distinct records.
func TestFileRepository_Append_NoDeduplication(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()

	a := &model.SubmissionRecord{Name: "Jane", Email: "jane@x.com", Message: "same"}
	b := &model.SubmissionRecord{Name: "Jane", Email: "jane@x.com", Message: "same"}
	if err := repo.Append(ctx, a); err != nil {
		t.Fatalf("append a: %v", err)
	}
	if err := repo.Append(ctx, b); err != nil {
		t.Fatalf("append b: %v", err)
	}

	if a.ID == b.ID {
		t.Error("expected distinct IDs for identical payloads")
	}
	n, _ := repo.Count(ctx)
	if n != 2 {
		t.Errorf("expected 2 records, got %d", n)
	}
}

// TestFileRepository_Append_FallsBackToTempDir verifies the secondary
// path is used when the primary location is not writable.
func TestFileRepository_Append_FallsBackToTempDir(t *testing.T) {
	dir := t.TempDir()
	// A file where the data directory should be makes MkdirAll fail.
	blocker := filepath.Join(dir, "data")
	if err := os.WriteFile(blocker, []byte("not a dir"), 0o644); err != nil {
		t.Fatal(err)
	}

	repo := NewFileSubmissionRepository(filepath.Join(blocker, "submissions.json"))
	repo.fallbackPath = filepath.Join(dir, "fallback.json")

	rec := &model.SubmissionRecord{Name: "Jane", Email: "jane@x.com"}
	if err := repo.Append(context.Background(), rec); err != nil {
		t.Fatalf("expected fallback append to succeed, got %v", err)
	}

	if _, err := os.Stat(repo.fallbackPath); err != nil {
		t.Errorf("expected record in fallback path: %v", err)
	}

	// Reads should follow the write to the fallback location.
	n, err := repo.Count(context.Background())
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 1 {
		t.Errorf("expected 1 record via fallback, got %d", n)
	}
}

// TestFileRepository_Append_BothPathsFail verifies the error is returned
// when neither location is writable (the service layer swallows it).
func TestFileRepository_Append_BothPathsFail(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "blocked")
	if err := os.WriteFile(blocker, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	repo := NewFileSubmissionRepository(filepath.Join(blocker, "a", "submissions.json"))
	repo.fallbackPath = filepath.Join(blocker, "b", "submissions.json")

	rec := &model.SubmissionRecord{Name: "Jane", Email: "jane@x.com"}
	if err := repo.Append(context.Background(), rec); err == nil {
		t.Error("expected error when both paths are unwritable")
	}
}

// TestFileRepository_Load_CorruptFile verifies a corrupt store does not
// block new appends.
func TestFileRepository_Load_CorruptFile(t *testing.T) {
	repo, path := newTestRepo(t)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}

	rec := &model.SubmissionRecord{Name: "Jane", Email: "jane@x.com"}
	if err := repo.Append(context.Background(), rec); err != nil {
		t.Fatalf("expected append over corrupt file to succeed, got %v", err)
	}
	n, _ := repo.Count(context.Background())
	if n != 1 {
		t.Errorf("expected 1 record after recovery, got %d", n)
	}
}

func TestFileRepository_List_KindFilter(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()

	_ = repo.Append(ctx, &model.SubmissionRecord{Name: "A", Email: "a@x.com", Subject: "Hi", Message: "..."})
	_ = repo.Append(ctx, &model.SubmissionRecord{Name: "B", Email: "b@x.com", DownloadURL: "/files/cv.pdf"})

	downloads, err := repo.List(ctx, model.SubmissionListOptions{Kind: model.KindDownload})
	if err != nil {
		t.Fatalf("list downloads: %v", err)
	}
	if len(downloads) != 1 || downloads[0].Name != "B" {
		t.Errorf("expected only the download request, got %d records", len(downloads))
	}

	inquiries, err := repo.List(ctx, model.SubmissionListOptions{Kind: model.KindInquiry})
	if err != nil {
		t.Fatalf("list inquiries: %v", err)
	}
	if len(inquiries) != 1 || inquiries[0].Name != "A" {
		t.Errorf("expected only the inquiry, got %d records", len(inquiries))
	}
}

func TestFileRepository_List_Pagination(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		_ = repo.Append(ctx, &model.SubmissionRecord{Name: "N", Email: "n@x.com"})
	}

	page, err := repo.List(ctx, model.SubmissionListOptions{Limit: 2, Offset: 1})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(page) != 2 {
		t.Errorf("expected page of 2, got %d", len(page))
	}

	past, err := repo.List(ctx, model.SubmissionListOptions{Limit: 2, Offset: 10})
	if err != nil {
		t.Fatalf("list past end: %v", err)
	}
	if len(past) != 0 {
		t.Errorf("expected empty page past the end, got %d", len(past))
	}
}

// TestFileRepository_ConcurrentAppends_SameProcess documents that the
// in-process mutex makes simultaneous appends safe within one server:
// every record survives the whole-file rewrite. (Two separate processes
// sharing the file would still race; that case needs the Postgres store.)
func TestFileRepository_ConcurrentAppends_SameProcess(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()

	const writers = 8
	var wg sync.WaitGroup
	wg.Add(writers)
	for i := 0; i < writers; i++ {
		go func() {
			defer wg.Done()
			_ = repo.Append(ctx, &model.SubmissionRecord{Name: "W", Email: "w@x.com"})
		}()
	}
	wg.Wait()

	n, err := repo.Count(ctx)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != writers {
		t.Errorf("lost update: expected %d records, got %d", writers, n)
	}
}
