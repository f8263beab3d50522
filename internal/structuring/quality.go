package structuring

import (
	"math"
	"strings"

	"github.com/ShriniwasAhirrao/MetaStitch/internal/domain"
)

const qualityThreshold = 0.6

// AssessQuality scores the document: having a text layer and structured
// elements each contribute 0.3, the extraction confidence the remaining 0.4.
// A document with error-severity rule failures is never valid regardless of
// its score.
func AssessQuality(doc *domain.StructuredDocument, hasErrors bool) domain.QualityReport {
	score := 0.0
	var issues, recommendations []string

	if strings.TrimSpace(doc.RawText) != "" {
		score += 0.3
	} else {
		issues = append(issues, "no raw text extracted")
		recommendations = append(recommendations, "verify the source file has a text layer or enable OCR")
	}
	if len(doc.Elements) > 0 {
		score += 0.3
	} else {
		issues = append(issues, "no structured elements found")
		recommendations = append(recommendations, "try a different extraction strategy")
	}
	score += 0.4 * doc.Confidence
	if doc.Confidence < 0.5 {
		issues = append(issues, "low extraction confidence")
	}

	if hasErrors {
		issues = append(issues, "validation rules reported errors")
	}

	score = math.Round(score*100) / 100
	return domain.QualityReport{
		Score:           score,
		IsValid:         score >= qualityThreshold && !hasErrors,
		Issues:          issues,
		Recommendations: recommendations,
	}
}
