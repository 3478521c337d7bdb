package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"

	"github.com/soumenroy/portfolio/backend/internal/model"
)

// FileSubmissionRepository stores submissions as a JSON array on disk.
// Writes go to the primary path; if its directory cannot be created or
// written, the repository falls back once to a file under the OS temp
// directory. The temp copy is non-durable and only exists so that a
// bad deployment (read-only data dir) does not start dropping messages.
//
// Append rewrites the whole file. A process-level mutex serializes
// writers within one process; two separate processes appending to the
// same file can still lose an update. Fine for a personal-site traffic
// profile; use PgSubmissionRepository when that matters.
type FileSubmissionRepository struct {
	primaryPath  string
	fallbackPath string

	mu sync.Mutex
	// activePath is the file the last successful write landed in.
	// Empty until the first write or read touches the disk.
	activePath string
}

// NewFileSubmissionRepository creates a file-backed repository.
// primaryPath is the durable location (e.g. "data/submissions.json");
// the fallback lives under os.TempDir().
func NewFileSubmissionRepository(primaryPath string) *FileSubmissionRepository {
	return &FileSubmissionRepository{
		primaryPath:  primaryPath,
		fallbackPath: filepath.Join(os.TempDir(), filepath.Base(primaryPath)),
	}
}

// Ensure FileSubmissionRepository implements SubmissionRepository at compile time.
var _ SubmissionRepository = (*FileSubmissionRepository)(nil)

// Append reads the current array, adds rec and writes the file back.
// It assigns rec.ID. On primary-path failure it retries once against
// the temp fallback; if both fail the error is returned to the caller
// (the service layer logs and swallows it).
func (r *FileSubmissionRepository) Append(_ context.Context, rec *model.SubmissionRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec.ID = uuid.NewString()

	if err := r.appendTo(r.primaryPath, rec); err != nil {
		slog.Warn("primary submission store not writable, using temp fallback",
			"path", r.primaryPath, "error", err)
		if ferr := r.appendTo(r.fallbackPath, rec); ferr != nil {
			return fmt.Errorf("repository: append failed on primary (%v) and fallback: %w", err, ferr)
		}
		r.activePath = r.fallbackPath
		return nil
	}
	r.activePath = r.primaryPath
	return nil
}

// List returns stored submissions newest first, filtered by kind and
// paginated by limit/offset.
func (r *FileSubmissionRepository) List(_ context.Context, opts model.SubmissionListOptions) ([]*model.SubmissionRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	records, err := r.load(r.readPath())
	if err != nil {
		return nil, err
	}

	// Stored order is insertion order; present newest first.
	var out []*model.SubmissionRecord
	for i := len(records) - 1; i >= 0; i-- {
		if !matchKind(records[i], opts.Kind) {
			continue
		}
		out = append(out, records[i])
	}

	if opts.Offset > 0 {
		if opts.Offset >= len(out) {
			return nil, nil
		}
		out = out[opts.Offset:]
	}
	if opts.Limit > 0 && opts.Limit < len(out) {
		out = out[:opts.Limit]
	}
	return out, nil
}

// Count returns the number of stored submissions.
func (r *FileSubmissionRepository) Count(_ context.Context) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	records, err := r.load(r.readPath())
	if err != nil {
		return 0, err
	}
	return len(records), nil
}

func matchKind(rec *model.SubmissionRecord, kind string) bool {
	switch kind {
	case model.KindInquiry:
		return !rec.IsDownloadRequest()
	case model.KindDownload:
		return rec.IsDownloadRequest()
	default: // "" and "all"
		return true
	}
}

// readPath is the file reads should come from: whichever location the
// last write landed in, defaulting to the primary.
func (r *FileSubmissionRepository) readPath() string {
	if r.activePath != "" {
		return r.activePath
	}
	return r.primaryPath
}

// load parses the JSON array at path. A missing file is an empty store;
// a corrupt file is treated as empty rather than blocking new appends.
func (r *FileSubmissionRepository) load(path string) ([]*model.SubmissionRecord, error) {
	raw, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("repository: read %s: %w", path, err)
	}

	var records []*model.SubmissionRecord
	if err := json.Unmarshal(raw, &records); err != nil {
		slog.Warn("submission store corrupt, starting over", "path", path, "error", err)
		return nil, nil
	}
	return records, nil
}

// appendTo performs the whole-file read-modify-write against one path.
func (r *FileSubmissionRepository) appendTo(path string, rec *model.SubmissionRecord) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("repository: mkdir: %w", err)
	}

	records, err := r.load(path)
	if err != nil {
		return err
	}
	records = append(records, rec)

	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("repository: marshal: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("repository: write %s: %w", path, err)
	}
	return nil
}
