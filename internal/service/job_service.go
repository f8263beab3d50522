package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/ShriniwasAhirrao/MetaStitch/internal/domain"
	"github.com/ShriniwasAhirrao/MetaStitch/internal/port"
)

// JobService manages processing jobs and runs them through the pipeline.
type JobService interface {
	// Enqueue creates a pending job for an uploaded file. An empty pipeline
	// lets the classifier decide at processing time.
	Enqueue(ctx context.Context, fileID uuid.UUID, pipeline domain.PipelineType) (*domain.ProcessingJob, error)
	GetByID(ctx context.Context, jobID uuid.UUID) (*domain.ProcessingJob, error)
	GetByFileID(ctx context.Context, fileID uuid.UUID) ([]domain.ProcessingJob, error)
	List(ctx context.Context, status domain.ProcessingStatus, limit, offset int) ([]domain.ProcessingJob, error)
	QueueStats(ctx context.Context) (map[domain.ProcessingStatus]int, error)
	// ProcessJob runs one claimed job to completion, persisting the result
	// or recording the failure.
	ProcessJob(ctx context.Context, job *domain.ProcessingJob, maxRetries int)
	// GetResult returns the stored result for a completed job.
	GetResult(ctx context.Context, jobID uuid.UUID) (*domain.ExtractionRecord, error)
}

type jobService struct {
	jobRepo    port.JobRepository
	resultRepo port.ResultRepository
	files      FileService
	pipeline   PipelineService
}

// NewJobService creates a new JobService implementation.
func NewJobService(
	jobRepo port.JobRepository,
	resultRepo port.ResultRepository,
	files FileService,
	pipeline PipelineService,
) JobService {
	return &jobService{
		jobRepo:    jobRepo,
		resultRepo: resultRepo,
		files:      files,
		pipeline:   pipeline,
	}
}

func (s *jobService) Enqueue(ctx context.Context, fileID uuid.UUID, pipeline domain.PipelineType) (*domain.ProcessingJob, error) {
	meta, err := s.files.GetByID(ctx, fileID)
	if err != nil {
		return nil, err
	}
	if meta.Status != domain.FileStatusUploaded {
		return nil, fmt.Errorf("file %s is not ready for processing: %w", fileID, domain.ErrUploadFailed)
	}

	job := &domain.ProcessingJob{
		ID:       uuid.New(),
		FileID:   fileID,
		Pipeline: pipeline,
		Status:   domain.StatusPending,
	}
	if err := s.jobRepo.Create(ctx, job); err != nil {
		return nil, fmt.Errorf("enqueuing job for %s: %w", fileID, err)
	}
	log.Printf("jobService.Enqueue: job %s queued for file %s (pipeline=%q)", job.ID, fileID, pipeline)
	return job, nil
}

func (s *jobService) GetByID(ctx context.Context, jobID uuid.UUID) (*domain.ProcessingJob, error) {
	return s.jobRepo.GetByID(ctx, jobID)
}

func (s *jobService) GetByFileID(ctx context.Context, fileID uuid.UUID) ([]domain.ProcessingJob, error) {
	return s.jobRepo.GetByFileID(ctx, fileID)
}

func (s *jobService) List(ctx context.Context, status domain.ProcessingStatus, limit, offset int) ([]domain.ProcessingJob, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return s.jobRepo.List(ctx, status, limit, offset)
}

func (s *jobService) QueueStats(ctx context.Context) (map[domain.ProcessingStatus]int, error) {
	return s.jobRepo.CountByStatus(ctx)
}

func (s *jobService) ProcessJob(ctx context.Context, job *domain.ProcessingJob, maxRetries int) {
	started := time.Now()

	meta, content, err := s.files.Download(ctx, job.FileID)
	if err != nil {
		s.fail(ctx, job, maxRetries, fmt.Errorf("downloading content: %w", err))
		return
	}

	doc, err := s.pipeline.Process(ctx, meta.OriginalName, content, job.Pipeline)
	if err != nil {
		s.fail(ctx, job, maxRetries, err)
		return
	}

	raw, err := doc.JSON()
	if err != nil {
		s.fail(ctx, job, maxRetries, fmt.Errorf("marshaling document: %w", err))
		return
	}

	record := &domain.ExtractionRecord{
		ID:               uuid.New(),
		JobID:            job.ID,
		FileID:           job.FileID,
		Pipeline:         doc.Classification.Pipeline,
		Method:           doc.Method,
		StructuredData:   raw,
		QualityScore:     doc.Quality.Score,
		Confidence:       doc.Confidence,
		ValidationStatus: doc.Validation,
		ProcessingMS:     time.Since(started).Milliseconds(),
	}
	if err := s.resultRepo.Create(ctx, record); err != nil {
		s.fail(ctx, job, maxRetries, fmt.Errorf("persisting result: %w", err))
		return
	}

	if err := s.jobRepo.MarkCompleted(ctx, job.ID); err != nil {
		log.Printf("jobService.ProcessJob: marking job %s completed: %v", job.ID, err)
		return
	}
	log.Printf("jobService.ProcessJob: job %s completed in %dms (status=%s, quality=%.2f)",
		job.ID, record.ProcessingMS, record.ValidationStatus, record.QualityScore)
}

// fail writes the failure under its own context. The job context may
// already be canceled or past its deadline, and the status update must
// land anyway or the job stays in processing forever.
func (s *jobService) fail(_ context.Context, job *domain.ProcessingJob, maxRetries int, cause error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	retryable := job.Attempts < maxRetries && !errors.Is(cause, domain.ErrUnsupportedFileType)
	log.Printf("jobService.ProcessJob: job %s failed (attempt %d, retryable=%v): %v",
		job.ID, job.Attempts, retryable, cause)
	if err := s.jobRepo.MarkFailed(ctx, job.ID, cause.Error(), retryable); err != nil {
		log.Printf("jobService.ProcessJob: marking job %s failed: %v", job.ID, err)
	}
}

func (s *jobService) GetResult(ctx context.Context, jobID uuid.UUID) (*domain.ExtractionRecord, error) {
	job, err := s.jobRepo.GetByID(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if job.Status != domain.StatusCompleted {
		return nil, domain.ErrJobNotCompleted
	}
	return s.resultRepo.GetByJobID(ctx, jobID)
}
