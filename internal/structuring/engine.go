package structuring

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/ShriniwasAhirrao/MetaStitch/internal/domain"
	"github.com/ShriniwasAhirrao/MetaStitch/internal/schema"
)

// Engine assembles the final structured document, runs validation rules and
// the output schema check, and scores quality.
type Engine struct {
	registry  *Registry
	validator *schema.Validator
}

// NewEngine creates an Engine with the built-in rule set.
func NewEngine() (*Engine, error) {
	validator, err := schema.NewValidator()
	if err != nil {
		return nil, fmt.Errorf("structuring.NewEngine: %w", err)
	}
	return &Engine{
		registry:  NewBuiltinRegistry(),
		validator: validator,
	}, nil
}

// Build normalizes the extraction, folds in classification and analysis,
// and returns the validated document. Validation failures do not produce an
// error: they are recorded on the document itself.
func (e *Engine) Build(
	ctx context.Context,
	classification *domain.ClassificationResult,
	extraction *domain.ExtractionResult,
	analysis *domain.AnalysisResult,
) (*domain.StructuredDocument, error) {
	if extraction == nil {
		return nil, fmt.Errorf("Engine.Build: %w", domain.ErrStructuring)
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("Engine.Build: %w", err)
	}

	Normalize(extraction)

	doc := &domain.StructuredDocument{
		Metadata:    extraction.Metadata,
		RawText:     extraction.RawText,
		Elements:    extraction.Elements,
		Method:      extraction.Method,
		Confidence:  extraction.Confidence,
		ProcessedAt: time.Now().UTC(),
	}
	if classification != nil {
		doc.Classification = *classification
	}
	if analysis != nil {
		doc.Analysis = *analysis
	} else {
		doc.Analysis = domain.AnalysisResult{
			Entities:      []domain.Entity{},
			Relationships: []domain.Relationship{},
			Sections:      []domain.Section{},
			Intent:        "general",
		}
	}

	hasError := false
	hasWarning := false
	for _, rule := range e.registry.All() {
		for _, result := range rule.Validate(ctx, doc) {
			doc.RuleResults = append(doc.RuleResults, result)
			if result.Passed {
				continue
			}
			if result.Severity == domain.SeverityError {
				hasError = true
			} else {
				hasWarning = true
			}
		}
	}

	doc.Quality = AssessQuality(doc, hasError)
	switch {
	case hasError:
		doc.Validation = domain.ValidationInvalid
	case hasWarning || !doc.Quality.IsValid:
		doc.Validation = domain.ValidationWarning
	default:
		doc.Validation = domain.ValidationValid
	}

	// Schema check runs over the final serialized form.
	raw, err := doc.JSON()
	if err != nil {
		return nil, fmt.Errorf("Engine.Build: marshaling document: %w", err)
	}
	if err := e.validator.Validate(raw); err != nil {
		log.Printf("structuring.Engine: %s failed schema validation: %v", doc.Metadata.SourceFile, err)
		doc.Validation = domain.ValidationInvalid
		doc.Quality.IsValid = false
		doc.Quality.Issues = append(doc.Quality.Issues, "output does not conform to the document schema")
	}

	log.Printf("structuring.Engine: %s structured: %d elements, quality=%.2f, status=%s",
		doc.Metadata.SourceFile, len(doc.Elements), doc.Quality.Score, doc.Validation)
	return doc, nil
}
