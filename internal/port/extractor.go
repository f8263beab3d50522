package port

import (
	"context"

	"github.com/ShriniwasAhirrao/MetaStitch/internal/domain"
)

// ExtractInput carries the raw file content and metadata into an extraction strategy.
type ExtractInput struct {
	FileName string
	FileType domain.FileType
	Content  []byte
	Encoding string
}

// Extractor turns raw file content into structured elements.
// Implementations are registered by name and selected by the pipeline router.
type Extractor interface {
	// Name returns the unique strategy name (e.g. "txt_parser").
	Name() string
	// Supports reports whether the strategy can handle the given file type.
	Supports(ft domain.FileType) bool
	// Extract parses the content into an extraction result.
	Extract(ctx context.Context, in ExtractInput) (*domain.ExtractionResult, error)
}
