package port

import (
	"context"

	"github.com/google/uuid"

	"github.com/ShriniwasAhirrao/MetaStitch/internal/domain"
)

// FileMetaRepository persists uploaded file metadata.
type FileMetaRepository interface {
	Create(ctx context.Context, fm *domain.FileMeta) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.FileMeta, error)
	GetByChecksum(ctx context.Context, checksum string) (*domain.FileMeta, error)
	List(ctx context.Context, limit, offset int) ([]domain.FileMeta, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status domain.FileStatus) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// JobRepository persists processing jobs and drives the queue.
type JobRepository interface {
	Create(ctx context.Context, job *domain.ProcessingJob) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.ProcessingJob, error)
	GetByFileID(ctx context.Context, fileID uuid.UUID) ([]domain.ProcessingJob, error)
	// List returns jobs newest first, optionally filtered by status
	// (empty status matches all).
	List(ctx context.Context, status domain.ProcessingStatus, limit, offset int) ([]domain.ProcessingJob, error)
	// ClaimQueued atomically claims up to limit pending jobs, marking them
	// processing and incrementing attempts.
	ClaimQueued(ctx context.Context, limit int) ([]domain.ProcessingJob, error)
	MarkCompleted(ctx context.Context, id uuid.UUID) error
	MarkFailed(ctx context.Context, id uuid.UUID, lastError string, retryable bool) error
	CountByStatus(ctx context.Context) (map[domain.ProcessingStatus]int, error)
}

// ResultRepository persists extraction results.
type ResultRepository interface {
	Create(ctx context.Context, rec *domain.ExtractionRecord) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.ExtractionRecord, error)
	GetByJobID(ctx context.Context, jobID uuid.UUID) (*domain.ExtractionRecord, error)
	GetByFileID(ctx context.Context, fileID uuid.UUID) ([]domain.ExtractionRecord, error)
}
