package store

import (
	"context"
	goerrors "errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"foliogen/internal/errors"
	"foliogen/internal/types"
)

// RecordStore indexes generated portfolios in Postgres.
type RecordStore struct {
	pool *pgxpool.Pool
}

// NewRecordStore creates the store and ensures the portfolios table exists.
func NewRecordStore(ctx context.Context, pool *pgxpool.Pool) (*RecordStore, error) {
	s := &RecordStore{pool: pool}
	if err := s.ensureSchema(ctx); err != nil {
		return nil, errors.NewDatabaseError(errors.ErrCodeRecordIndexFailed, "failed to ensure portfolio schema", err)
	}
	return s, nil
}

func (s *RecordStore) ensureSchema(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, `
CREATE TABLE IF NOT EXISTS portfolios (
	id BIGSERIAL PRIMARY KEY,
	full_name TEXT NOT NULL,
	job_title TEXT NOT NULL,
	email TEXT NOT NULL DEFAULT '',
	location TEXT NOT NULL DEFAULT '',
	slug TEXT NOT NULL UNIQUE,
	resume_url TEXT NOT NULL,
	json_url TEXT NOT NULL,
	status TEXT NOT NULL DEFAULT 'draft',
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS portfolios_status_idx ON portfolios (status);
`)
	return err
}

// Insert adds a new portfolio record. The slug must be unique.
func (s *RecordStore) Insert(ctx context.Context, rec types.PortfolioRecord) error {
	createdAt := rec.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}
	status := rec.Status
	if status == "" {
		status = types.StatusDraft
	}
	_, err := s.pool.Exec(ctx, `
INSERT INTO portfolios (full_name, job_title, email, location, slug, resume_url, json_url, status, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
`, rec.FullName, rec.JobTitle, rec.Email, rec.Location, rec.Slug, rec.ResumeURL, rec.JSONURL, string(status), createdAt)
	if err != nil {
		return errors.NewDatabaseError(errors.ErrCodeRecordIndexFailed, "failed to index portfolio record", err).
			WithContext("slug", rec.Slug)
	}
	return nil
}

// Publish transitions a draft portfolio to published. Publishing a missing
// record fails with RECORD_NOT_FOUND; any other state fails with
// INVALID_TRANSITION.
func (s *RecordStore) Publish(ctx context.Context, slug string) error {
	tag, err := s.pool.Exec(ctx, `
UPDATE portfolios SET status = $1 WHERE slug = $2 AND status = $3
`, string(types.StatusPublished), slug, string(types.StatusDraft))
	if err != nil {
		return errors.NewDatabaseError(errors.ErrCodeRecordIndexFailed, "failed to publish portfolio", err).
			WithContext("slug", slug)
	}
	if tag.RowsAffected() > 0 {
		return nil
	}

	status, err := s.currentStatus(ctx, slug)
	if err != nil {
		return err
	}
	return errors.NewValidationError(errors.ErrCodeInvalidTransition, "portfolio cannot be published from its current status", nil).
		WithContext("slug", slug).
		WithContext("status", string(status))
}

// Delete transitions a portfolio to deleted. Deleting an already deleted
// record is a no-op; deleting a missing record fails with RECORD_NOT_FOUND.
func (s *RecordStore) Delete(ctx context.Context, slug string) error {
	tag, err := s.pool.Exec(ctx, `
UPDATE portfolios SET status = $1 WHERE slug = $2 AND status <> $1
`, string(types.StatusDeleted), slug)
	if err != nil {
		return errors.NewDatabaseError(errors.ErrCodeRecordIndexFailed, "failed to delete portfolio", err).
			WithContext("slug", slug)
	}
	if tag.RowsAffected() > 0 {
		return nil
	}

	// Zero rows means the record is either missing or already deleted.
	if _, err := s.currentStatus(ctx, slug); err != nil {
		return err
	}
	return nil
}

// GetPublished returns the record for a published portfolio. Drafts and
// deleted portfolios are indistinguishable from missing ones.
func (s *RecordStore) GetPublished(ctx context.Context, slug string) (types.PortfolioRecord, error) {
	row := s.pool.QueryRow(ctx, `
SELECT full_name, job_title, email, location, slug, resume_url, json_url, status, created_at
FROM portfolios WHERE slug = $1 AND status = $2
`, slug, string(types.StatusPublished))

	var rec types.PortfolioRecord
	var status string
	var created time.Time
	if err := row.Scan(&rec.FullName, &rec.JobTitle, &rec.Email, &rec.Location, &rec.Slug,
		&rec.ResumeURL, &rec.JSONURL, &status, &created); err != nil {
		if goerrors.Is(err, pgx.ErrNoRows) {
			return types.PortfolioRecord{}, notFound(slug)
		}
		return types.PortfolioRecord{}, errors.NewDatabaseError(errors.ErrCodeStorageReadFailed, "failed to read portfolio record", err).
			WithContext("slug", slug)
	}
	rec.Status = types.Status(status)
	rec.CreatedAt = created.UTC()
	return rec, nil
}

// CountByStatus returns the number of portfolios per lifecycle status.
func (s *RecordStore) CountByStatus(ctx context.Context) (map[types.Status]int64, error) {
	rows, err := s.pool.Query(ctx, `
SELECT status, COUNT(*) FROM portfolios GROUP BY status
`)
	if err != nil {
		return nil, errors.NewDatabaseError(errors.ErrCodeStorageReadFailed, "failed to count portfolio records", err)
	}
	defer rows.Close()

	counts := make(map[types.Status]int64)
	for rows.Next() {
		var status string
		var count int64
		if err := rows.Scan(&status, &count); err != nil {
			return nil, errors.NewDatabaseError(errors.ErrCodeStorageReadFailed, "failed to scan portfolio counts", err)
		}
		counts[types.Status(status)] = count
	}
	return counts, rows.Err()
}

func (s *RecordStore) currentStatus(ctx context.Context, slug string) (types.Status, error) {
	var status string
	err := s.pool.QueryRow(ctx, `SELECT status FROM portfolios WHERE slug = $1`, slug).Scan(&status)
	if err != nil {
		if goerrors.Is(err, pgx.ErrNoRows) {
			return "", notFound(slug)
		}
		return "", errors.NewDatabaseError(errors.ErrCodeStorageReadFailed, "failed to read portfolio status", err).
			WithContext("slug", slug)
	}
	return types.Status(status), nil
}

func notFound(slug string) *errors.AppError {
	return errors.NewValidationError(errors.ErrCodeRecordNotFound, "portfolio not found", nil).
		WithContext("slug", slug)
}
