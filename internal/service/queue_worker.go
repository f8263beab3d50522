package service

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/ShriniwasAhirrao/MetaStitch/internal/port"
)

// QueueWorkerConfig holds settings for the processing queue worker.
type QueueWorkerConfig struct {
	PollInterval time.Duration
	MaxRetries   int
	Concurrency  int
}

// QueueWorker polls for pending jobs and dispatches them to the pipeline.
type QueueWorker struct {
	jobRepo port.JobRepository
	jobs    JobService
	cfg     QueueWorkerConfig
	wg      sync.WaitGroup
}

// NewQueueWorker creates a new QueueWorker.
func NewQueueWorker(jobRepo port.JobRepository, jobs JobService, cfg QueueWorkerConfig) *QueueWorker {
	return &QueueWorker{
		jobRepo: jobRepo,
		jobs:    jobs,
		cfg:     cfg,
	}
}

// Start runs the polling loop until ctx is canceled. It blocks until all
// in-flight jobs have finished.
func (w *QueueWorker) Start(ctx context.Context) {
	ticker := time.NewTicker(w.cfg.PollInterval)
	defer ticker.Stop()

	sem := make(chan struct{}, w.cfg.Concurrency)

	log.Printf("queueWorker: started (poll=%s, concurrency=%d, maxRetries=%d)",
		w.cfg.PollInterval, w.cfg.Concurrency, w.cfg.MaxRetries)

	for {
		select {
		case <-ctx.Done():
			log.Printf("queueWorker: shutting down, waiting for in-flight jobs...")
			w.wg.Wait()
			log.Printf("queueWorker: shutdown complete")
			return
		case <-ticker.C:
			available := w.cfg.Concurrency - len(sem)
			if available <= 0 {
				continue
			}

			jobs, err := w.jobRepo.ClaimQueued(ctx, available)
			if err != nil {
				if ctx.Err() != nil {
					continue
				}
				log.Printf("queueWorker: ClaimQueued error: %v", err)
				continue
			}

			for i := range jobs {
				job := jobs[i] // copy for goroutine

				sem <- struct{}{} // acquire
				w.wg.Add(1)
				go func() {
					defer w.wg.Done()
					defer func() { <-sem }() // release

					// Use a fresh context independent of the poll context
					// so in-flight jobs complete even during shutdown.
					jobCtx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
					defer cancel()

					log.Printf("queueWorker: dispatching job %s (attempt %d)", job.ID, job.Attempts)
					w.jobs.ProcessJob(jobCtx, &job, w.cfg.MaxRetries)
				}()
			}
		}
	}
}
