package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// FileMeta stores metadata about an uploaded file.
type FileMeta struct {
	ID           uuid.UUID  `db:"id" json:"id"`
	FileName     string     `db:"file_name" json:"file_name"`
	OriginalName string     `db:"original_name" json:"original_name"`
	FileType     FileType   `db:"file_type" json:"file_type"`
	FileSize     int64      `db:"file_size" json:"file_size"`
	ContentType  string     `db:"content_type" json:"content_type"`
	Checksum     string     `db:"checksum" json:"checksum"`
	Encoding     string     `db:"encoding" json:"encoding,omitempty"`
	S3Bucket     string     `db:"s3_bucket" json:"s3_bucket"`
	S3Key        string     `db:"s3_key" json:"s3_key"`
	Status       FileStatus `db:"status" json:"status"`
	CreatedAt    time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time  `db:"updated_at" json:"updated_at"`
}

// ProcessingJob tracks one pass of a file through the pipeline.
type ProcessingJob struct {
	ID          uuid.UUID        `db:"id" json:"id"`
	FileID      uuid.UUID        `db:"file_id" json:"file_id"`
	Pipeline    PipelineType     `db:"pipeline" json:"pipeline"`
	Status      ProcessingStatus `db:"status" json:"status"`
	Attempts    int              `db:"attempts" json:"attempts"`
	LastError   string           `db:"last_error" json:"last_error,omitempty"`
	EnqueuedAt  time.Time        `db:"enqueued_at" json:"enqueued_at"`
	StartedAt   *time.Time       `db:"started_at" json:"started_at,omitempty"`
	CompletedAt *time.Time       `db:"completed_at" json:"completed_at,omitempty"`
	CreatedAt   time.Time        `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time        `db:"updated_at" json:"updated_at"`
}

// ExtractionRecord is the persisted output of a completed pipeline run.
type ExtractionRecord struct {
	ID               uuid.UUID        `db:"id" json:"id"`
	JobID            uuid.UUID        `db:"job_id" json:"job_id"`
	FileID           uuid.UUID        `db:"file_id" json:"file_id"`
	Pipeline         PipelineType     `db:"pipeline" json:"pipeline"`
	Method           string           `db:"method" json:"method"`
	StructuredData   json.RawMessage  `db:"structured_data" json:"structured_data"`
	QualityScore     float64          `db:"quality_score" json:"quality_score"`
	Confidence       float64          `db:"confidence" json:"confidence"`
	ValidationStatus ValidationStatus `db:"validation_status" json:"validation_status"`
	ProcessingMS     int64            `db:"processing_ms" json:"processing_ms"`
	CreatedAt        time.Time        `db:"created_at" json:"created_at"`
}
