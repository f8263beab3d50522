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

type resultRepo struct {
	db *sqlx.DB
}

// NewResultRepo creates a new PostgreSQL-backed ResultRepository.
func NewResultRepo(db *sqlx.DB) port.ResultRepository {
	return &resultRepo{db: db}
}

func (r *resultRepo) Create(ctx context.Context, rec *domain.ExtractionRecord) error {
	rec.CreatedAt = time.Now().UTC()

	query := `INSERT INTO extraction_results
		(id, job_id, file_id, pipeline, method, structured_data,
		 quality_score, confidence, validation_status, processing_ms, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

	_, err := r.db.ExecContext(ctx, query,
		rec.ID, rec.JobID, rec.FileID, rec.Pipeline, rec.Method, rec.StructuredData,
		rec.QualityScore, rec.Confidence, rec.ValidationStatus, rec.ProcessingMS, rec.CreatedAt)
	if err != nil {
		return fmt.Errorf("resultRepo.Create: %w", err)
	}
	return nil
}

func (r *resultRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.ExtractionRecord, error) {
	var rec domain.ExtractionRecord
	err := r.db.GetContext(ctx, &rec,
		"SELECT * FROM extraction_results WHERE id = $1", id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrResultNotFound
		}
		return nil, fmt.Errorf("resultRepo.GetByID: %w", err)
	}
	return &rec, nil
}

func (r *resultRepo) GetByJobID(ctx context.Context, jobID uuid.UUID) (*domain.ExtractionRecord, error) {
	var rec domain.ExtractionRecord
	err := r.db.GetContext(ctx, &rec,
		"SELECT * FROM extraction_results WHERE job_id = $1 ORDER BY created_at DESC LIMIT 1", jobID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrResultNotFound
		}
		return nil, fmt.Errorf("resultRepo.GetByJobID: %w", err)
	}
	return &rec, nil
}

func (r *resultRepo) GetByFileID(ctx context.Context, fileID uuid.UUID) ([]domain.ExtractionRecord, error) {
	var recs []domain.ExtractionRecord
	err := r.db.SelectContext(ctx, &recs,
		"SELECT * FROM extraction_results WHERE file_id = $1 ORDER BY created_at DESC", fileID)
	if err != nil {
		return nil, fmt.Errorf("resultRepo.GetByFileID: %w", err)
	}
	return recs, nil
}
