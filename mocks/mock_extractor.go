package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/ShriniwasAhirrao/MetaStitch/internal/domain"
	"github.com/ShriniwasAhirrao/MetaStitch/internal/port"
)

// MockExtractor is a mock implementation of port.Extractor.
type MockExtractor struct {
	mock.Mock
}

func (m *MockExtractor) Name() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockExtractor) Supports(ft domain.FileType) bool {
	args := m.Called(ft)
	return args.Bool(0)
}

func (m *MockExtractor) Extract(ctx context.Context, in port.ExtractInput) (*domain.ExtractionResult, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ExtractionResult), args.Error(1)
}

// MockOCREngine is a mock implementation of port.OCREngine.
type MockOCREngine struct {
	mock.Mock
}

func (m *MockOCREngine) Recognize(ctx context.Context, image []byte) (*port.OCRText, error) {
	args := m.Called(ctx, image)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*port.OCRText), args.Error(1)
}

func (m *MockOCREngine) Close() error {
	args := m.Called()
	return args.Error(0)
}
