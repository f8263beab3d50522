package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ShriniwasAhirrao/MetaStitch/internal/analysis"
	"github.com/ShriniwasAhirrao/MetaStitch/internal/classifier"
	"github.com/ShriniwasAhirrao/MetaStitch/internal/config"
	"github.com/ShriniwasAhirrao/MetaStitch/internal/extractor"
	"github.com/ShriniwasAhirrao/MetaStitch/internal/handler"
	"github.com/ShriniwasAhirrao/MetaStitch/internal/port"
	"github.com/ShriniwasAhirrao/MetaStitch/internal/repository/postgres"
	"github.com/ShriniwasAhirrao/MetaStitch/internal/router"
	"github.com/ShriniwasAhirrao/MetaStitch/internal/service"
	s3storage "github.com/ShriniwasAhirrao/MetaStitch/internal/storage/s3"
	"github.com/ShriniwasAhirrao/MetaStitch/internal/structuring"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	db, err := postgres.NewDB(&cfg.DB)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	// Initialize repositories
	fileRepo := postgres.NewFileMetaRepo(db)
	jobRepo := postgres.NewJobRepo(db)
	resultRepo := postgres.NewResultRepo(db)

	// Initialize storage
	s3Client, err := s3storage.NewS3Client(&cfg.S3)
	if err != nil {
		return fmt.Errorf("failed to initialize S3 client: %w", err)
	}

	// Initialize pipeline stages
	var ocrExtractor port.Extractor
	if cfg.OCR.Enabled {
		engine, err := extractor.NewTesseractEngine(cfg.OCR)
		if err != nil {
			return fmt.Errorf("failed to initialize OCR engine: %w", err)
		}
		defer func() { _ = engine.Close() }()
		ocrExtractor = extractor.NewOCRExtractor(engine, cfg.OCR.MinConfidence)
	}

	registry, err := extractor.NewRegistry(cfg, ocrExtractor)
	if err != nil {
		return fmt.Errorf("failed to build extractor registry: %w", err)
	}

	engine, err := structuring.NewEngine()
	if err != nil {
		return fmt.Errorf("failed to build structuring engine: %w", err)
	}

	// Initialize services
	pipelineSvc := service.NewPipelineService(
		classifier.New(cfg.Classifier),
		registry,
		analysis.New(cfg.Analysis),
		engine,
	)
	fileSvc := service.NewFileService(fileRepo, s3Client, &cfg.S3)
	jobSvc := service.NewJobService(jobRepo, resultRepo, fileSvc, pipelineSvc)
	batchSvc, err := service.NewBatchService(jobSvc, cfg.Batch.PoolSize)
	if err != nil {
		return fmt.Errorf("failed to build batch service: %w", err)
	}
	defer batchSvc.Close()
	exportSvc := service.NewExportService(jobSvc)

	// Initialize handlers
	fileH := handler.NewFileHandler(fileSvc)
	processH := handler.NewProcessHandler(jobSvc, batchSvc, pipelineSvc)
	jobH := handler.NewJobHandler(jobSvc)
	exportH := handler.NewExportHandler(exportSvc)
	healthH := handler.NewHealthHandler(db)

	r := router.Setup(fileH, processH, jobH, exportH, healthH, cfg.CORS.AllowedOrigins)

	// Background queue worker
	workerCtx, stopWorker := context.WithCancel(context.Background())
	worker := service.NewQueueWorker(jobRepo, jobSvc, service.QueueWorkerConfig{
		PollInterval: time.Duration(cfg.Queue.PollIntervalSecs) * time.Second,
		MaxRetries:   cfg.Queue.MaxRetries,
		Concurrency:  cfg.Queue.Concurrency,
	})
	workerDone := make(chan struct{})
	go func() {
		defer close(workerDone)
		worker.Start(workerCtx)
	}()

	srv := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("Server starting on %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		stopWorker()
		<-workerDone
		return fmt.Errorf("server failed: %w", err)
	case sig := <-quit:
		log.Printf("received %s, shutting down", sig)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("server shutdown error: %v", err)
	}

	stopWorker()
	<-workerDone

	return nil
}
