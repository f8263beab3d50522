package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/ShriniwasAhirrao/MetaStitch/internal/domain"
)

// MockPipelineService is a mock implementation of service.PipelineService.
type MockPipelineService struct {
	mock.Mock
}

func (m *MockPipelineService) Process(ctx context.Context, fileName string, content []byte, pipeline domain.PipelineType) (*domain.StructuredDocument, error) {
	args := m.Called(ctx, fileName, content, pipeline)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.StructuredDocument), args.Error(1)
}

func (m *MockPipelineService) Classify(ctx context.Context, fileName string, content []byte) (*domain.ClassificationResult, error) {
	args := m.Called(ctx, fileName, content)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ClassificationResult), args.Error(1)
}
