package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/ShriniwasAhirrao/MetaStitch/internal/domain"
)

// MockJobRepo is a mock implementation of port.JobRepository.
type MockJobRepo struct {
	mock.Mock
}

func (m *MockJobRepo) Create(ctx context.Context, job *domain.ProcessingJob) error {
	args := m.Called(ctx, job)
	return args.Error(0)
}

func (m *MockJobRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.ProcessingJob, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ProcessingJob), args.Error(1)
}

func (m *MockJobRepo) GetByFileID(ctx context.Context, fileID uuid.UUID) ([]domain.ProcessingJob, error) {
	args := m.Called(ctx, fileID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ProcessingJob), args.Error(1)
}

func (m *MockJobRepo) List(ctx context.Context, status domain.ProcessingStatus, limit, offset int) ([]domain.ProcessingJob, error) {
	args := m.Called(ctx, status, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ProcessingJob), args.Error(1)
}

func (m *MockJobRepo) ClaimQueued(ctx context.Context, limit int) ([]domain.ProcessingJob, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ProcessingJob), args.Error(1)
}

func (m *MockJobRepo) MarkCompleted(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockJobRepo) MarkFailed(ctx context.Context, id uuid.UUID, lastError string, retryable bool) error {
	args := m.Called(ctx, id, lastError, retryable)
	return args.Error(0)
}

func (m *MockJobRepo) CountByStatus(ctx context.Context) (map[domain.ProcessingStatus]int, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[domain.ProcessingStatus]int), args.Error(1)
}
