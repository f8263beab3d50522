package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/ShriniwasAhirrao/MetaStitch/internal/domain"
	"github.com/ShriniwasAhirrao/MetaStitch/internal/port"
)

type jobRepo struct {
	db *sqlx.DB
}

// NewJobRepo creates a new PostgreSQL-backed JobRepository.
func NewJobRepo(db *sqlx.DB) port.JobRepository {
	return &jobRepo{db: db}
}

func (r *jobRepo) Create(ctx context.Context, job *domain.ProcessingJob) error {
	now := time.Now().UTC()
	job.CreatedAt = now
	job.UpdatedAt = now
	if job.EnqueuedAt.IsZero() {
		job.EnqueuedAt = now
	}

	query := `INSERT INTO processing_jobs
		(id, file_id, pipeline, status, attempts, last_error, enqueued_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	_, err := r.db.ExecContext(ctx, query,
		job.ID, job.FileID, job.Pipeline, job.Status, job.Attempts, job.LastError,
		job.EnqueuedAt, job.CreatedAt, job.UpdatedAt)
	if err != nil {
		return fmt.Errorf("jobRepo.Create: %w", err)
	}
	return nil
}

func (r *jobRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.ProcessingJob, error) {
	var job domain.ProcessingJob
	err := r.db.GetContext(ctx, &job,
		"SELECT * FROM processing_jobs WHERE id = $1", id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrJobNotFound
		}
		return nil, fmt.Errorf("jobRepo.GetByID: %w", err)
	}
	return &job, nil
}

func (r *jobRepo) GetByFileID(ctx context.Context, fileID uuid.UUID) ([]domain.ProcessingJob, error) {
	var jobs []domain.ProcessingJob
	err := r.db.SelectContext(ctx, &jobs,
		"SELECT * FROM processing_jobs WHERE file_id = $1 ORDER BY created_at DESC", fileID)
	if err != nil {
		return nil, fmt.Errorf("jobRepo.GetByFileID: %w", err)
	}
	return jobs, nil
}

func (r *jobRepo) List(ctx context.Context, status domain.ProcessingStatus, limit, offset int) ([]domain.ProcessingJob, error) {
	var jobs []domain.ProcessingJob
	var err error
	if status == "" {
		err = r.db.SelectContext(ctx, &jobs,
			"SELECT * FROM processing_jobs ORDER BY created_at DESC LIMIT $1 OFFSET $2",
			limit, offset)
	} else {
		err = r.db.SelectContext(ctx, &jobs,
			"SELECT * FROM processing_jobs WHERE status = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3",
			status, limit, offset)
	}
	if err != nil {
		return nil, fmt.Errorf("jobRepo.List: %w", err)
	}
	return jobs, nil
}

// ClaimQueued atomically marks up to limit pending jobs as processing so
// that concurrent workers never pick up the same job twice.
func (r *jobRepo) ClaimQueued(ctx context.Context, limit int) ([]domain.ProcessingJob, error) {
	query := `UPDATE processing_jobs
		SET status = $1, attempts = attempts + 1, started_at = $2, updated_at = $2
		WHERE id IN (
			SELECT id FROM processing_jobs
			WHERE status = $3
			ORDER BY enqueued_at
			LIMIT $4
			FOR UPDATE SKIP LOCKED
		)
		RETURNING *`

	var jobs []domain.ProcessingJob
	err := r.db.SelectContext(ctx, &jobs, query,
		domain.StatusProcessing, time.Now().UTC(), domain.StatusPending, limit)
	if err != nil {
		return nil, fmt.Errorf("jobRepo.ClaimQueued: %w", err)
	}
	return jobs, nil
}

func (r *jobRepo) MarkCompleted(ctx context.Context, id uuid.UUID) error {
	now := time.Now().UTC()
	result, err := r.db.ExecContext(ctx,
		`UPDATE processing_jobs
		 SET status = $1, last_error = '', completed_at = $2, updated_at = $2
		 WHERE id = $3`,
		domain.StatusCompleted, now, id)
	if err != nil {
		return fmt.Errorf("jobRepo.MarkCompleted: %w", err)
	}
	return checkAffected(result, domain.ErrJobNotFound)
}

// MarkFailed records the failure. Retryable failures go back to pending so
// the queue worker picks them up again.
func (r *jobRepo) MarkFailed(ctx context.Context, id uuid.UUID, lastError string, retryable bool) error {
	status := domain.StatusFailed
	if retryable {
		status = domain.StatusPending
	}
	result, err := r.db.ExecContext(ctx,
		`UPDATE processing_jobs
		 SET status = $1, last_error = $2, updated_at = $3
		 WHERE id = $4`,
		status, lastError, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("jobRepo.MarkFailed: %w", err)
	}
	return checkAffected(result, domain.ErrJobNotFound)
}

func (r *jobRepo) CountByStatus(ctx context.Context) (map[domain.ProcessingStatus]int, error) {
	rows := []struct {
		Status domain.ProcessingStatus `db:"status"`
		Count  int                     `db:"count"`
	}{}
	err := r.db.SelectContext(ctx, &rows,
		"SELECT status, COUNT(*) AS count FROM processing_jobs GROUP BY status")
	if err != nil {
		return nil, fmt.Errorf("jobRepo.CountByStatus: %w", err)
	}
	counts := make(map[domain.ProcessingStatus]int, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Count
	}
	return counts, nil
}

func checkAffected(result sql.Result, notFound error) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if rows == 0 {
		return notFound
	}
	return nil
}
