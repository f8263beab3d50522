package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/ShriniwasAhirrao/MetaStitch/internal/domain"
)

// MockJobService is a mock implementation of service.JobService.
type MockJobService struct {
	mock.Mock
}

func (m *MockJobService) Enqueue(ctx context.Context, fileID uuid.UUID, pipeline domain.PipelineType) (*domain.ProcessingJob, error) {
	args := m.Called(ctx, fileID, pipeline)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ProcessingJob), args.Error(1)
}

func (m *MockJobService) GetByID(ctx context.Context, jobID uuid.UUID) (*domain.ProcessingJob, error) {
	args := m.Called(ctx, jobID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ProcessingJob), args.Error(1)
}

func (m *MockJobService) GetByFileID(ctx context.Context, fileID uuid.UUID) ([]domain.ProcessingJob, error) {
	args := m.Called(ctx, fileID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ProcessingJob), args.Error(1)
}

func (m *MockJobService) List(ctx context.Context, status domain.ProcessingStatus, limit, offset int) ([]domain.ProcessingJob, error) {
	args := m.Called(ctx, status, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ProcessingJob), args.Error(1)
}

func (m *MockJobService) QueueStats(ctx context.Context) (map[domain.ProcessingStatus]int, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[domain.ProcessingStatus]int), args.Error(1)
}

func (m *MockJobService) ProcessJob(ctx context.Context, job *domain.ProcessingJob, maxRetries int) {
	m.Called(ctx, job, maxRetries)
}

func (m *MockJobService) GetResult(ctx context.Context, jobID uuid.UUID) (*domain.ExtractionRecord, error) {
	args := m.Called(ctx, jobID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ExtractionRecord), args.Error(1)
}
