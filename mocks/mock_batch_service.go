package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/ShriniwasAhirrao/MetaStitch/internal/domain"
	"github.com/ShriniwasAhirrao/MetaStitch/internal/service"
)

// MockBatchService is a mock implementation of service.BatchService.
type MockBatchService struct {
	mock.Mock
}

func (m *MockBatchService) EnqueueAll(ctx context.Context, fileIDs []uuid.UUID, pipeline domain.PipelineType) ([]service.BatchEntry, error) {
	args := m.Called(ctx, fileIDs, pipeline)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]service.BatchEntry), args.Error(1)
}

func (m *MockBatchService) Close() {
	m.Called()
}

// MockExportService is a mock implementation of service.ExportService.
type MockExportService struct {
	mock.Mock
}

func (m *MockExportService) Export(ctx context.Context, jobID uuid.UUID, format service.ExportFormat) (*service.ExportOutput, error) {
	args := m.Called(ctx, jobID, format)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ExportOutput), args.Error(1)
}
