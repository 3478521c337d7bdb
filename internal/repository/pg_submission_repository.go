package repository

import (
	"context"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/soumenroy/portfolio/backend/internal/model"
)

// PgSubmissionRepository is the PostgreSQL implementation of
// SubmissionRepository. Each Append is a single atomic INSERT, which
// removes the lost-update window of the file-backed store under
// concurrent submissions.
type PgSubmissionRepository struct {
	pool *pgxpool.Pool
}

// NewPgSubmissionRepository creates a PgSubmissionRepository backed by the given pool.
func NewPgSubmissionRepository(pool *pgxpool.Pool) *PgSubmissionRepository {
	return &PgSubmissionRepository{pool: pool}
}

// Ensure PgSubmissionRepository implements SubmissionRepository at compile time.
var _ SubmissionRepository = (*PgSubmissionRepository)(nil)

// Append inserts a new contact_submissions row and populates rec.ID
// from the database RETURNING clause. rec.SubmittedAt is stored as
// assigned by the service.
func (r *PgSubmissionRepository) Append(ctx context.Context, rec *model.SubmissionRecord) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO contact_submissions
		   (name, email, contact, subject, message, download_url, user_agent, source_address, submitted_at)
		 VALUES ($1, $2, NULLIF($3, ''), NULLIF($4, ''), NULLIF($5, ''), NULLIF($6, ''), NULLIF($7, ''), NULLIF($8, ''), $9)
		 RETURNING id`,
		rec.Name, rec.Email, rec.Contact, rec.Subject, rec.Message,
		rec.DownloadURL, rec.UserAgent, rec.SourceAddress, rec.SubmittedAt,
	).Scan(&rec.ID)
}

// List returns submissions filtered by kind and paginated by
// limit/offset, newest first. Kind "" or "all" returns everything.
func (r *PgSubmissionRepository) List(ctx context.Context, opts model.SubmissionListOptions) ([]*model.SubmissionRecord, error) {
	var conditions []string
	var args []any

	switch strings.TrimSpace(opts.Kind) {
	case model.KindDownload:
		conditions = append(conditions, "download_url IS NOT NULL")
	case model.KindInquiry:
		conditions = append(conditions, "download_url IS NULL")
	}

	where := ""
	if len(conditions) > 0 {
		where = "WHERE " + strings.Join(conditions, " AND ")
	}

	limitArg := len(args) + 1
	offsetArg := len(args) + 2
	args = append(args, opts.Limit, opts.Offset)

	query := `SELECT id, name, email,
	                 COALESCE(contact, ''), COALESCE(subject, ''), COALESCE(message, ''),
	                 COALESCE(download_url, ''), COALESCE(user_agent, ''), COALESCE(source_address, ''),
	                 submitted_at
	          FROM contact_submissions ` + where +
		` ORDER BY submitted_at DESC, id DESC
		  LIMIT $` + strconv.Itoa(limitArg) + ` OFFSET $` + strconv.Itoa(offsetArg)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []*model.SubmissionRecord
	for rows.Next() {
		var rec model.SubmissionRecord
		if err := rows.Scan(&rec.ID, &rec.Name, &rec.Email,
			&rec.Contact, &rec.Subject, &rec.Message,
			&rec.DownloadURL, &rec.UserAgent, &rec.SourceAddress,
			&rec.SubmittedAt); err != nil {
			return nil, err
		}
		records = append(records, &rec)
	}
	return records, rows.Err()
}

// Count returns the total number of stored submissions.
func (r *PgSubmissionRepository) Count(ctx context.Context) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM contact_submissions`).Scan(&n)
	return n, err
}
