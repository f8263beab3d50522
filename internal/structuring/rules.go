package structuring

import (
	"context"
	"fmt"
	"strings"

	"github.com/ShriniwasAhirrao/MetaStitch/internal/domain"
)

// RawContentRule requires a non-empty raw text layer for text pipelines.
type RawContentRule struct{}

func (r *RawContentRule) RuleKey() string  { return "raw_content_present" }
func (r *RawContentRule) RuleName() string { return "Raw content present" }
func (r *RawContentRule) Severity() domain.ValidationSeverity {
	return domain.SeverityError
}

func (r *RawContentRule) Validate(ctx context.Context, doc *domain.StructuredDocument) []domain.RuleResult {
	passed := strings.TrimSpace(doc.RawText) != ""
	result := domain.RuleResult{
		RuleKey:   r.RuleKey(),
		Passed:    passed,
		Severity:  r.Severity(),
		FieldPath: "raw_text",
	}
	if !passed {
		result.Message = "document has no extracted text"
	}
	return []domain.RuleResult{result}
}

// ElementOrderRule requires element positions to be sequential from zero.
type ElementOrderRule struct{}

func (r *ElementOrderRule) RuleKey() string  { return "element_positions_sequential" }
func (r *ElementOrderRule) RuleName() string { return "Element positions sequential" }
func (r *ElementOrderRule) Severity() domain.ValidationSeverity {
	return domain.SeverityError
}

func (r *ElementOrderRule) Validate(ctx context.Context, doc *domain.StructuredDocument) []domain.RuleResult {
	var results []domain.RuleResult
	for i, el := range doc.Elements {
		if el.Position == i {
			continue
		}
		results = append(results, domain.RuleResult{
			RuleKey:   r.RuleKey(),
			Passed:    false,
			Severity:  r.Severity(),
			FieldPath: fmt.Sprintf("elements[%d].position", i),
			Expected:  fmt.Sprintf("%d", i),
			Actual:    fmt.Sprintf("%d", el.Position),
			Message:   "element position out of order",
		})
	}
	if results == nil {
		results = append(results, domain.RuleResult{
			RuleKey:  r.RuleKey(),
			Passed:   true,
			Severity: r.Severity(),
		})
	}
	return results
}

// TableShapeRule requires every table row to match the header width.
type TableShapeRule struct{}

func (r *TableShapeRule) RuleKey() string  { return "table_shape_consistent" }
func (r *TableShapeRule) RuleName() string { return "Table shape consistent" }
func (r *TableShapeRule) Severity() domain.ValidationSeverity {
	return domain.SeverityWarning
}

func (r *TableShapeRule) Validate(ctx context.Context, doc *domain.StructuredDocument) []domain.RuleResult {
	var results []domain.RuleResult
	for i, el := range doc.Elements {
		if el.Type != domain.ElementTable {
			continue
		}
		tc, ok := el.Content.(domain.TableContent)
		if !ok {
			results = append(results, domain.RuleResult{
				RuleKey:   r.RuleKey(),
				Passed:    false,
				Severity:  r.Severity(),
				FieldPath: fmt.Sprintf("elements[%d].content", i),
				Message:   "table element does not carry table content",
			})
			continue
		}
		for j, row := range tc.Rows {
			if len(tc.Headers) > 0 && len(row) != len(tc.Headers) {
				results = append(results, domain.RuleResult{
					RuleKey:   r.RuleKey(),
					Passed:    false,
					Severity:  r.Severity(),
					FieldPath: fmt.Sprintf("elements[%d].content.rows[%d]", i, j),
					Expected:  fmt.Sprintf("%d cells", len(tc.Headers)),
					Actual:    fmt.Sprintf("%d cells", len(row)),
					Message:   "row width differs from header width",
				})
			}
		}
	}
	if results == nil {
		results = append(results, domain.RuleResult{
			RuleKey:  r.RuleKey(),
			Passed:   true,
			Severity: r.Severity(),
		})
	}
	return results
}

// ConfidenceRangeRule requires all confidences to lie in [0, 1].
type ConfidenceRangeRule struct{}

func (r *ConfidenceRangeRule) RuleKey() string  { return "confidence_in_range" }
func (r *ConfidenceRangeRule) RuleName() string { return "Confidence in range" }
func (r *ConfidenceRangeRule) Severity() domain.ValidationSeverity {
	return domain.SeverityError
}

func (r *ConfidenceRangeRule) Validate(ctx context.Context, doc *domain.StructuredDocument) []domain.RuleResult {
	var results []domain.RuleResult
	check := func(path string, v float64) {
		if v < 0 || v > 1 {
			results = append(results, domain.RuleResult{
				RuleKey:   r.RuleKey(),
				Passed:    false,
				Severity:  r.Severity(),
				FieldPath: path,
				Expected:  "[0, 1]",
				Actual:    fmt.Sprintf("%.3f", v),
				Message:   "confidence outside valid range",
			})
		}
	}
	check("confidence", doc.Confidence)
	for i, el := range doc.Elements {
		check(fmt.Sprintf("elements[%d].confidence", i), el.Confidence)
	}
	for i, ent := range doc.Analysis.Entities {
		check(fmt.Sprintf("analysis.entities[%d].confidence", i), ent.Confidence)
	}
	if results == nil {
		results = append(results, domain.RuleResult{
			RuleKey:  r.RuleKey(),
			Passed:   true,
			Severity: r.Severity(),
		})
	}
	return results
}

// EntitySpanRule requires entity positions to reference existing elements.
type EntitySpanRule struct{}

func (r *EntitySpanRule) RuleKey() string  { return "entity_positions_resolve" }
func (r *EntitySpanRule) RuleName() string { return "Entity positions resolve" }
func (r *EntitySpanRule) Severity() domain.ValidationSeverity {
	return domain.SeverityWarning
}

func (r *EntitySpanRule) Validate(ctx context.Context, doc *domain.StructuredDocument) []domain.RuleResult {
	var results []domain.RuleResult
	for i, ent := range doc.Analysis.Entities {
		if ent.Position >= 0 && ent.Position < len(doc.Elements) {
			continue
		}
		results = append(results, domain.RuleResult{
			RuleKey:   r.RuleKey(),
			Passed:    false,
			Severity:  r.Severity(),
			FieldPath: fmt.Sprintf("analysis.entities[%d].position", i),
			Actual:    fmt.Sprintf("%d", ent.Position),
			Message:   "entity references a missing element",
		})
	}
	if results == nil {
		results = append(results, domain.RuleResult{
			RuleKey:  r.RuleKey(),
			Passed:   true,
			Severity: r.Severity(),
		})
	}
	return results
}
