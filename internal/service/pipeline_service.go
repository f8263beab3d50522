package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/ShriniwasAhirrao/MetaStitch/internal/analysis"
	"github.com/ShriniwasAhirrao/MetaStitch/internal/classifier"
	"github.com/ShriniwasAhirrao/MetaStitch/internal/domain"
	"github.com/ShriniwasAhirrao/MetaStitch/internal/extractor"
	"github.com/ShriniwasAhirrao/MetaStitch/internal/port"
	"github.com/ShriniwasAhirrao/MetaStitch/internal/structuring"
)

// PipelineService runs content through the full processing pipeline:
// classification, extraction, context analysis and output structuring.
type PipelineService interface {
	// Process runs the pipeline over raw content. A non-empty pipeline
	// overrides the classifier's routing decision.
	Process(ctx context.Context, fileName string, content []byte, pipeline domain.PipelineType) (*domain.StructuredDocument, error)
	// Classify runs classification only.
	Classify(ctx context.Context, fileName string, content []byte) (*domain.ClassificationResult, error)
}

type pipelineService struct {
	classifier *classifier.Classifier
	registry   *extractor.Registry
	analyzer   *analysis.Analyzer
	engine     *structuring.Engine
}

// NewPipelineService creates a PipelineService from its stage components.
func NewPipelineService(
	cls *classifier.Classifier,
	registry *extractor.Registry,
	analyzer *analysis.Analyzer,
	engine *structuring.Engine,
) PipelineService {
	return &pipelineService{
		classifier: cls,
		registry:   registry,
		analyzer:   analyzer,
		engine:     engine,
	}
}

func (s *pipelineService) Classify(ctx context.Context, fileName string, content []byte) (*domain.ClassificationResult, error) {
	return s.classifier.Classify(ctx, fileName, content)
}

func (s *pipelineService) Process(ctx context.Context, fileName string, content []byte, pipeline domain.PipelineType) (*domain.StructuredDocument, error) {
	started := time.Now()

	classification, err := s.classifier.Classify(ctx, fileName, content)
	if err != nil {
		return nil, fmt.Errorf("pipelineService.Process: %w", err)
	}
	if pipeline != "" && pipeline != classification.Pipeline {
		log.Printf("pipelineService.Process: %s: pipeline override %s (classifier recommended %s)",
			fileName, pipeline, classification.Pipeline)
		classification.Pipeline = pipeline
		classification.RequiresHybrid = pipeline == domain.PipelineHybrid
	}

	ex, err := s.registry.ForFile(classification.Pipeline, classification.FileType)
	if err != nil {
		return nil, fmt.Errorf("pipelineService.Process: selecting strategy: %w", err)
	}

	extraction, err := ex.Extract(ctx, extractorInput(fileName, classification, content))
	if err != nil {
		return nil, fmt.Errorf("pipelineService.Process: %w: %v", domain.ErrExtraction, err)
	}

	analyzed, err := s.analyzer.Analyze(ctx, extraction)
	if err != nil {
		return nil, fmt.Errorf("pipelineService.Process: %w", err)
	}

	doc, err := s.engine.Build(ctx, classification, extraction, analyzed)
	if err != nil {
		return nil, fmt.Errorf("pipelineService.Process: %w", err)
	}

	log.Printf("pipelineService.Process: %s processed in %s (pipeline=%s, method=%s, quality=%.2f)",
		fileName, time.Since(started).Round(time.Millisecond), classification.Pipeline, doc.Method, doc.Quality.Score)
	return doc, nil
}

func extractorInput(fileName string, classification *domain.ClassificationResult, content []byte) port.ExtractInput {
	encoding := ""
	if v, ok := classification.Analysis["encoding"].(string); ok {
		encoding = v
	}
	if encoding != "" && encoding != "utf-8" && classification.FileType.IsTextType() {
		if decoded, err := classifier.DecodeToUTF8(content, ""); err == nil {
			content = decoded
			encoding = "utf-8"
		} else {
			log.Printf("pipelineService: %s: keeping original bytes, %v", fileName, err)
		}
	}
	return port.ExtractInput{
		FileName: fileName,
		FileType: classification.FileType,
		Content:  content,
		Encoding: encoding,
	}
}
