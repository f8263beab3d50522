package extractor

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ShriniwasAhirrao/MetaStitch/internal/config"
	"github.com/ShriniwasAhirrao/MetaStitch/internal/domain"
	"github.com/ShriniwasAhirrao/MetaStitch/internal/port"
)

// stubExtractor is a scriptable extractor for chain tests.
type stubExtractor struct {
	name   string
	types  []domain.FileType
	result *domain.ExtractionResult
	err    error
	calls  int
}

func (s *stubExtractor) Name() string { return s.name }

func (s *stubExtractor) Supports(ft domain.FileType) bool {
	for _, t := range s.types {
		if t == ft {
			return true
		}
	}
	return false
}

func (s *stubExtractor) Extract(ctx context.Context, in port.ExtractInput) (*domain.ExtractionResult, error) {
	s.calls++
	return s.result, s.err
}

func stubResult(method string, confidence float64, elements ...domain.StructuredElement) *domain.ExtractionResult {
	return &domain.ExtractionResult{
		RawText:    "raw",
		Elements:   elements,
		Method:     method,
		Confidence: confidence,
	}
}

func TestFallbackUsesFirstSuccess(t *testing.T) {
	first := &stubExtractor{name: "a", result: stubResult("a", 0.9)}
	second := &stubExtractor{name: "b", result: stubResult("b", 0.5)}
	f := NewFallbackExtractor([]port.Extractor{first, second})

	out, err := f.Extract(context.Background(), port.ExtractInput{FileName: "x.txt"})
	require.NoError(t, err)
	assert.Equal(t, "a", out.Method)
	assert.Equal(t, 0, second.calls)
}

func TestFallbackMovesToNextOnFailure(t *testing.T) {
	first := &stubExtractor{name: "a", err: errors.New("boom")}
	second := &stubExtractor{name: "b", result: stubResult("b", 0.5)}
	f := NewFallbackExtractor([]port.Extractor{first, second})

	out, err := f.Extract(context.Background(), port.ExtractInput{FileName: "x.txt"})
	require.NoError(t, err)
	assert.Equal(t, "b_fallback", out.Method)
}

func TestFallbackAllFail(t *testing.T) {
	boom := errors.New("boom")
	f := NewFallbackExtractor([]port.Extractor{
		&stubExtractor{name: "a", err: boom},
		&stubExtractor{name: "b", err: boom},
	})

	_, err := f.Extract(context.Background(), port.ExtractInput{FileName: "x.txt"})
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
}

func TestFallbackCircuitOpensAfterRepeatedFailures(t *testing.T) {
	failing := &stubExtractor{name: "a", err: errors.New("boom")}
	healthy := &stubExtractor{name: "b", result: stubResult("b", 0.5)}
	f := NewFallbackExtractor([]port.Extractor{failing, healthy})

	for i := 0; i < circuitFailureLimit; i++ {
		_, err := f.Extract(context.Background(), port.ExtractInput{FileName: "x.txt"})
		require.NoError(t, err)
	}
	calls := failing.calls

	// Circuit is now open, the failing strategy is skipped entirely.
	_, err := f.Extract(context.Background(), port.ExtractInput{FileName: "x.txt"})
	require.NoError(t, err)
	assert.Equal(t, calls, failing.calls)
}

func TestHybridMergesBothResults(t *testing.T) {
	text := &stubExtractor{name: "txt_parser", result: stubResult("txt_parser", 0.9,
		domain.StructuredElement{Type: domain.ElementHeading, Content: "T", Confidence: 0.9})}
	ocr := &stubExtractor{name: "ocr", result: stubResult("ocr", 0.6,
		domain.StructuredElement{Type: domain.ElementParagraph, Content: "p", Confidence: 0.6})}
	h := NewHybridExtractor(text, ocr)

	out, err := h.Extract(context.Background(), port.ExtractInput{FileName: "doc.pdf"})
	require.NoError(t, err)
	assert.Equal(t, "hybrid", out.Method)
	assert.Len(t, out.Elements, 2)
	assert.Equal(t, "text", out.Metadata.Patterns["hybrid_primary"])
	assert.Greater(t, out.Confidence, 0.9)
}

func TestHybridFallsBackWhenOneSideFails(t *testing.T) {
	text := &stubExtractor{name: "txt_parser", err: errors.New("no text layer")}
	ocr := &stubExtractor{name: "ocr", result: stubResult("ocr", 0.6)}
	h := NewHybridExtractor(text, ocr)

	out, err := h.Extract(context.Background(), port.ExtractInput{FileName: "scan.png"})
	require.NoError(t, err)
	assert.Equal(t, "hybrid_ocr_only", out.Method)
}

func TestHybridBothFail(t *testing.T) {
	h := NewHybridExtractor(
		&stubExtractor{name: "txt_parser", err: errors.New("a")},
		&stubExtractor{name: "ocr", err: errors.New("b")},
	)

	_, err := h.Extract(context.Background(), port.ExtractInput{FileName: "scan.png"})
	require.Error(t, err)
}

func TestRegistrySelectsParserByType(t *testing.T) {
	reg, err := NewRegistry(&config.Config{}, nil)
	require.NoError(t, err)

	ex, err := reg.ForFile(domain.PipelineText, domain.FileTypeJSON)
	require.NoError(t, err)
	assert.True(t, ex.Supports(domain.FileTypeJSON))

	ex, err = reg.ForFile(domain.PipelineText, domain.FileTypeTXT)
	require.NoError(t, err)
	assert.Equal(t, "txt_parser", ex.Name())
}

func TestRegistryOCRRequiresEngine(t *testing.T) {
	reg, err := NewRegistry(&config.Config{}, nil)
	require.NoError(t, err)

	_, err = reg.ForFile(domain.PipelineOCR, domain.FileTypePNG)
	require.Error(t, err)

	ocr := &stubExtractor{name: "ocr", types: []domain.FileType{domain.FileTypePNG}}
	reg, err = NewRegistry(&config.Config{}, ocr)
	require.NoError(t, err)

	ex, err := reg.ForFile(domain.PipelineOCR, domain.FileTypePNG)
	require.NoError(t, err)
	assert.Equal(t, "ocr", ex.Name())
}
