package service

import (
	"context"
	"fmt"
	"log"
	"sync"

	"github.com/google/uuid"
	"github.com/panjf2000/ants/v2"

	"github.com/ShriniwasAhirrao/MetaStitch/internal/domain"
)

// BatchEntry is the outcome of enqueuing one file in a batch.
type BatchEntry struct {
	FileID uuid.UUID  `json:"file_id"`
	JobID  *uuid.UUID `json:"job_id,omitempty"`
	Error  string     `json:"error,omitempty"`
}

// BatchService enqueues processing jobs for many files at once.
type BatchService interface {
	EnqueueAll(ctx context.Context, fileIDs []uuid.UUID, pipeline domain.PipelineType) ([]BatchEntry, error)
	Close()
}

type batchService struct {
	jobs JobService
	pool *ants.Pool
}

// NewBatchService creates a BatchService backed by a shared goroutine pool.
func NewBatchService(jobs JobService, poolSize int) (BatchService, error) {
	pool, err := ants.NewPool(poolSize, ants.WithNonblocking(false))
	if err != nil {
		return nil, fmt.Errorf("creating batch pool: %w", err)
	}
	return &batchService{jobs: jobs, pool: pool}, nil
}

func (s *batchService) EnqueueAll(ctx context.Context, fileIDs []uuid.UUID, pipeline domain.PipelineType) ([]BatchEntry, error) {
	entries := make([]BatchEntry, len(fileIDs))
	var wg sync.WaitGroup

	for i, fileID := range fileIDs {
		i, fileID := i, fileID
		wg.Add(1)
		err := s.pool.Submit(func() {
			defer wg.Done()
			entry := BatchEntry{FileID: fileID}
			job, err := s.jobs.Enqueue(ctx, fileID, pipeline)
			if err != nil {
				entry.Error = err.Error()
			} else {
				entry.JobID = &job.ID
			}
			entries[i] = entry
		})
		if err != nil {
			wg.Done()
			entries[i] = BatchEntry{FileID: fileID, Error: err.Error()}
		}
	}
	wg.Wait()

	queued := 0
	for _, e := range entries {
		if e.Error == "" {
			queued++
		}
	}
	log.Printf("batchService.EnqueueAll: %d/%d files queued", queued, len(fileIDs))
	return entries, nil
}

func (s *batchService) Close() {
	s.pool.Release()
}
