package extractor

import (
	"fmt"

	"github.com/ShriniwasAhirrao/MetaStitch/internal/config"
	"github.com/ShriniwasAhirrao/MetaStitch/internal/domain"
	"github.com/ShriniwasAhirrao/MetaStitch/internal/port"
)

// StrategyFactory is a function that creates an Extractor from the app config.
type StrategyFactory func(cfg *config.Config) (port.Extractor, error)

// registry of extraction strategy factories, populated explicitly via
// RegisterStrategy.
var strategies = map[string]StrategyFactory{}

// RegisterStrategy registers an extraction strategy factory by name.
func RegisterStrategy(name string, factory StrategyFactory) {
	strategies[name] = factory
}

// NewStrategy creates an Extractor by registered name.
func NewStrategy(name string, cfg *config.Config) (port.Extractor, error) {
	factory, ok := strategies[name]
	if !ok {
		return nil, fmt.Errorf("unknown extraction strategy: %s", name)
	}
	return factory(cfg)
}

func init() {
	RegisterStrategy("txt_parser", func(cfg *config.Config) (port.Extractor, error) {
		return NewTXTExtractor(), nil
	})
	RegisterStrategy("html_parser", func(cfg *config.Config) (port.Extractor, error) {
		return NewHTMLExtractor(), nil
	})
	RegisterStrategy("json_parser", func(cfg *config.Config) (port.Extractor, error) {
		return NewJSONExtractor(), nil
	})
	RegisterStrategy("log_parser", func(cfg *config.Config) (port.Extractor, error) {
		return NewLogExtractor(), nil
	})
}

// Registry resolves the extractor chain for a classified file.
type Registry struct {
	byName map[string]port.Extractor
	ocr    port.Extractor
}

// NewRegistry builds the text strategies from the config and wires the
// optional OCR extractor. ocr may be nil when OCR is disabled.
func NewRegistry(cfg *config.Config, ocr port.Extractor) (*Registry, error) {
	byName := make(map[string]port.Extractor, len(strategies))
	for name := range strategies {
		ex, err := NewStrategy(name, cfg)
		if err != nil {
			return nil, fmt.Errorf("building strategy %s: %w", name, err)
		}
		byName[name] = ex
	}
	return &Registry{byName: byName, ocr: ocr}, nil
}

// Get returns a strategy by name.
func (r *Registry) Get(name string) (port.Extractor, bool) {
	if name == "ocr" && r.ocr != nil {
		return r.ocr, true
	}
	ex, ok := r.byName[name]
	return ex, ok
}

// ForFile returns the extractor for a file type within the given pipeline.
// Text pipelines get the type-specific parser wrapped in a fallback chain,
// OCR pipelines get the OCR extractor, and hybrid runs both and merges.
func (r *Registry) ForFile(pipeline domain.PipelineType, ft domain.FileType) (port.Extractor, error) {
	switch pipeline {
	case domain.PipelineText:
		primary, err := r.textStrategy(ft)
		if err != nil {
			return nil, err
		}
		// TXT is the last resort for any text content.
		if primary.Name() == "txt_parser" {
			return primary, nil
		}
		return NewFallbackExtractor([]port.Extractor{primary, r.byName["txt_parser"]}), nil

	case domain.PipelineOCR:
		if r.ocr == nil {
			return nil, fmt.Errorf("pipeline %s: OCR is not configured", pipeline)
		}
		return r.ocr, nil

	case domain.PipelineHybrid:
		primary, err := r.textStrategy(ft)
		if err != nil {
			primary = r.byName["txt_parser"]
		}
		if r.ocr == nil {
			return NewFallbackExtractor([]port.Extractor{primary, r.byName["txt_parser"]}), nil
		}
		return NewHybridExtractor(primary, r.ocr), nil
	}
	return nil, fmt.Errorf("unknown pipeline: %s", pipeline)
}

func (r *Registry) textStrategy(ft domain.FileType) (port.Extractor, error) {
	for _, ex := range r.byName {
		if ex.Supports(ft) {
			return ex, nil
		}
	}
	if ft == domain.FileTypeUnknown || ft == domain.FileTypePDF || ft == domain.FileTypeDOCX {
		// Best effort over whatever text layer is present.
		return r.byName["txt_parser"], nil
	}
	return nil, fmt.Errorf("%w: %s", domain.ErrUnsupportedFileType, ft)
}
