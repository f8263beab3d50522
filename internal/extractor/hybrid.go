package extractor

import (
	"context"
	"fmt"
	"log"
	"sync"

	"github.com/ShriniwasAhirrao/MetaStitch/internal/domain"
	"github.com/ShriniwasAhirrao/MetaStitch/internal/port"
)

// HybridExtractor runs a text strategy and the OCR strategy in parallel and
// merges their results, preferring whichever produced the stronger
// extraction per concern.
type HybridExtractor struct {
	text port.Extractor
	ocr  port.Extractor
}

// NewHybridExtractor creates a HybridExtractor from text and OCR strategies.
func NewHybridExtractor(text, ocr port.Extractor) *HybridExtractor {
	return &HybridExtractor{text: text, ocr: ocr}
}

func (h *HybridExtractor) Name() string { return "hybrid" }

func (h *HybridExtractor) Supports(ft domain.FileType) bool {
	return h.text.Supports(ft) || h.ocr.Supports(ft)
}

func (h *HybridExtractor) Extract(ctx context.Context, in port.ExtractInput) (*domain.ExtractionResult, error) {
	type result struct {
		output *domain.ExtractionResult
		err    error
	}

	var wg sync.WaitGroup
	textCh := make(chan result, 1)
	ocrCh := make(chan result, 1)

	wg.Add(2)
	go func() {
		defer wg.Done()
		out, err := h.text.Extract(ctx, in)
		textCh <- result{out, err}
	}()
	go func() {
		defer wg.Done()
		out, err := h.ocr.Extract(ctx, in)
		ocrCh <- result{out, err}
	}()

	wg.Wait()
	close(textCh)
	close(ocrCh)

	tRes := <-textCh
	oRes := <-ocrCh

	if tRes.err != nil && oRes.err != nil {
		return nil, fmt.Errorf("both strategies failed: text: %v; ocr: %v", tRes.err, oRes.err)
	}
	if tRes.err != nil {
		log.Printf("extractor.HybridExtractor: text strategy failed (%v), using OCR only", tRes.err)
		oRes.output.Method = "hybrid_ocr_only"
		return oRes.output, nil
	}
	if oRes.err != nil {
		log.Printf("extractor.HybridExtractor: OCR strategy failed (%v), using text only", oRes.err)
		tRes.output.Method = "hybrid_text_only"
		return tRes.output, nil
	}

	return mergeResults(tRes.output, oRes.output), nil
}

// mergeResults combines the two extractions. The higher-confidence result
// supplies the element structure; the longer raw text wins the text layer.
// Element types missing from the winner are appended from the other side.
func mergeResults(text, ocr *domain.ExtractionResult) *domain.ExtractionResult {
	winner, loser := text, ocr
	source := "text"
	if ocr.Confidence > text.Confidence {
		winner, loser = ocr, text
		source = "ocr"
	}

	merged := *winner
	merged.Method = "hybrid"

	if len(loser.RawText) > len(winner.RawText) {
		merged.RawText = loser.RawText
		merged.Metadata.Statistics = loser.Metadata.Statistics
	}

	have := map[domain.ElementType]bool{}
	for _, el := range winner.Elements {
		have[el.Type] = true
	}
	elements := append([]domain.StructuredElement{}, winner.Elements...)
	for _, el := range loser.Elements {
		if !have[el.Type] {
			el.Position = len(elements)
			elements = append(elements, el)
		}
	}
	merged.Elements = elements

	// Agreement between strategies raises confidence.
	boost := 0.0
	if winner.Confidence > 0 && loser.Confidence > 0 {
		boost = 0.1 * loser.Confidence
	}
	merged.Confidence = round2(minFloat(winner.Confidence+boost, 1.0))

	if merged.Metadata.Patterns == nil {
		merged.Metadata.Patterns = map[string]interface{}{}
	}
	merged.Metadata.Patterns["hybrid_primary"] = source
	return &merged
}

func minFloat(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}
