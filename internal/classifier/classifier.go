package classifier

import (
	"context"
	"fmt"
	"log"
	"path/filepath"
	"strings"

	"github.com/ShriniwasAhirrao/MetaStitch/internal/config"
	"github.com/ShriniwasAhirrao/MetaStitch/internal/domain"
)

// Classifier runs detection, complexity analysis and pipeline routing.
type Classifier struct {
	detector *Detector
	analyzer *ContentAnalyzer
	router   *Router
}

// New creates a Classifier configured with routing thresholds.
func New(cfg config.ClassifierConfig) *Classifier {
	return &Classifier{
		detector: NewDetector(),
		analyzer: NewContentAnalyzer(),
		router:   NewRouter(cfg.HybridThreshold, cfg.OCROverTextThreshold),
	}
}

// Classify inspects the file and returns its type, complexity and the
// recommended pipeline.
func (c *Classifier) Classify(ctx context.Context, fileName string, content []byte) (*domain.ClassificationResult, error) {
	if len(content) == 0 {
		return nil, fmt.Errorf("Classifier.Classify: %s: %w", fileName, domain.ErrEmptyContent)
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("Classifier.Classify: %w", err)
	}

	info := c.detector.Detect(fileName, content)
	analysis := c.analyzer.Analyze(info.FileType, content)
	pipeline, reason := c.router.Route(info.FileType, analysis.Score)

	confidence := c.confidence(fileName, info)
	analysis.Details["content_type"] = info.ContentType
	if info.Encoding != "" {
		analysis.Details["encoding"] = info.Encoding
	}

	result := &domain.ClassificationResult{
		FileType:        info.FileType,
		Pipeline:        pipeline,
		Confidence:      confidence,
		ComplexityScore: analysis.Score,
		ComplexityLevel: analysis.Level,
		RequiresHybrid:  pipeline == domain.PipelineHybrid,
		Reasoning:       reason,
		Analysis:        analysis.Details,
	}
	log.Printf("Classifier.Classify: %s classified as %s, pipeline=%s, complexity=%.2f (%s)",
		fileName, result.FileType, result.Pipeline, result.ComplexityScore, result.ComplexityLevel)
	return result, nil
}

// BatchInput is one file in a batch classification request.
type BatchInput struct {
	FileName string
	Content  []byte
}

// BatchOutput pairs a classification with the file it came from. Err is set
// when classification failed for that file.
type BatchOutput struct {
	FileName string
	Result   *domain.ClassificationResult
	Err      error
}

// ClassifyBatch classifies each input independently. A failure on one file
// does not stop the rest.
func (c *Classifier) ClassifyBatch(ctx context.Context, inputs []BatchInput) []BatchOutput {
	out := make([]BatchOutput, len(inputs))
	for i, in := range inputs {
		result, err := c.Classify(ctx, in.FileName, in.Content)
		out[i] = BatchOutput{FileName: in.FileName, Result: result, Err: err}
	}
	return out
}

// confidence reflects how well the extension and sniffed content agree.
func (c *Classifier) confidence(fileName string, info FileInfo) float64 {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(fileName)), ".")
	_, known := domain.AllowedExtensions[ext]
	switch {
	case info.FileType == domain.FileTypeUnknown:
		return 0.3
	case known:
		return 0.95
	default:
		// Type came from content sniffing alone.
		return 0.7
	}
}
