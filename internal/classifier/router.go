package classifier

import (
	"fmt"

	"github.com/ShriniwasAhirrao/MetaStitch/internal/domain"
)

// Router picks the processing pipeline for a classified file.
type Router struct {
	hybridThreshold      float64
	ocrOverTextThreshold float64
}

// NewRouter creates a Router with the given complexity thresholds.
func NewRouter(hybridThreshold, ocrOverTextThreshold float64) *Router {
	return &Router{
		hybridThreshold:      hybridThreshold,
		ocrOverTextThreshold: ocrOverTextThreshold,
	}
}

// Route selects a pipeline. Images always go to OCR. Document formats
// without a reliable text layer escalate from text to hybrid and then to
// OCR as complexity grows. Plain text formats always use the text pipeline.
func (r *Router) Route(ft domain.FileType, complexity float64) (domain.PipelineType, string) {
	if ft.IsImageType() {
		return domain.PipelineOCR, "image input requires optical recognition"
	}
	if ft.IsTextType() {
		return domain.PipelineText, fmt.Sprintf("%s content has a native text representation", ft)
	}

	switch ft {
	case domain.FileTypePDF, domain.FileTypeDOCX:
		if complexity >= r.ocrOverTextThreshold {
			return domain.PipelineOCR, fmt.Sprintf(
				"complexity %.2f at or above OCR threshold %.2f", complexity, r.ocrOverTextThreshold)
		}
		if complexity >= r.hybridThreshold {
			return domain.PipelineHybrid, fmt.Sprintf(
				"complexity %.2f at or above hybrid threshold %.2f", complexity, r.hybridThreshold)
		}
		return domain.PipelineText, fmt.Sprintf("complexity %.2f below hybrid threshold", complexity)
	}

	if complexity >= r.hybridThreshold {
		return domain.PipelineHybrid, "unknown type with high complexity"
	}
	return domain.PipelineText, "unknown type defaults to text extraction"
}
