package extractor

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/ShriniwasAhirrao/MetaStitch/internal/domain"
	"github.com/ShriniwasAhirrao/MetaStitch/internal/port"
)

// OCRExtractor recognizes text in image inputs through an OCREngine and
// structures the recognized text with the plain text parser.
type OCRExtractor struct {
	engine        port.OCREngine
	minConfidence float64
	txt           *TXTExtractor
}

// NewOCRExtractor creates an OCRExtractor over the given engine.
func NewOCRExtractor(engine port.OCREngine, minConfidence float64) *OCRExtractor {
	return &OCRExtractor{
		engine:        engine,
		minConfidence: minConfidence,
		txt:           NewTXTExtractor(),
	}
}

func (e *OCRExtractor) Name() string { return "ocr" }

func (e *OCRExtractor) Supports(ft domain.FileType) bool {
	return ft.IsImageType() || ft == domain.FileTypePDF || ft == domain.FileTypeDOCX
}

func (e *OCRExtractor) Extract(ctx context.Context, in port.ExtractInput) (*domain.ExtractionResult, error) {
	recognized, err := e.engine.Recognize(ctx, in.Content)
	if err != nil {
		return nil, fmt.Errorf("OCRExtractor.Extract: %s: %w", in.FileName, err)
	}
	if strings.TrimSpace(recognized.Text) == "" {
		return nil, fmt.Errorf("OCRExtractor.Extract: %s: %w", in.FileName, domain.ErrEmptyContent)
	}
	if recognized.Confidence < e.minConfidence {
		log.Printf("OCRExtractor.Extract: %s: low recognition confidence %.2f", in.FileName, recognized.Confidence)
	}

	// Run the recognized text through the text structure parser.
	structured, err := e.txt.Extract(ctx, port.ExtractInput{
		FileName: in.FileName,
		FileType: domain.FileTypeTXT,
		Content:  []byte(recognized.Text),
	})
	if err != nil {
		return nil, fmt.Errorf("OCRExtractor.Extract: structuring %s: %w", in.FileName, err)
	}

	meta := resultMetadata(in, recognized.Text)
	meta.Patterns = map[string]interface{}{"ocr_confidence": recognized.Confidence}
	result := &domain.ExtractionResult{
		Metadata:   meta,
		RawText:    recognized.Text,
		Elements:   structured.Elements,
		Method:     e.Name(),
		Confidence: round2(recognized.Confidence * structured.Confidence),
	}
	return result, nil
}
