package analysis

import (
	"context"
	"fmt"
	"log"

	"github.com/ShriniwasAhirrao/MetaStitch/internal/config"
	"github.com/ShriniwasAhirrao/MetaStitch/internal/domain"
)

const defaultTagLimit = 10

// Analyzer runs entity, relationship, structure and semantic analysis over
// an extraction result.
type Analyzer struct {
	cfg           config.AnalysisConfig
	entities      *EntityExtractor
	relationships *RelationshipExtractor
	structure     *StructureAnalyzer
	semantic      *SemanticAnalyzer
}

// New creates an Analyzer from the analysis config.
func New(cfg config.AnalysisConfig) *Analyzer {
	return &Analyzer{
		cfg:           cfg,
		entities:      NewEntityExtractor(cfg.MaxEntities),
		relationships: NewRelationshipExtractor(cfg.MaxRelationships),
		structure:     NewStructureAnalyzer(),
		semantic:      NewSemanticAnalyzer(),
	}
}

// Analyze enriches the extraction with context. Individual analyses can be
// toggled off in the config; disabled ones yield empty slices rather than
// nulls.
func (a *Analyzer) Analyze(ctx context.Context, result *domain.ExtractionResult) (*domain.AnalysisResult, error) {
	if result == nil {
		return nil, fmt.Errorf("Analyzer.Analyze: %w", domain.ErrAnalysis)
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("Analyzer.Analyze: %w", err)
	}

	out := &domain.AnalysisResult{
		Entities:      []domain.Entity{},
		Relationships: []domain.Relationship{},
		Sections:      []domain.Section{},
		Intent:        "general",
	}

	if promoted := PromoteTables(result.Elements); promoted > 0 {
		log.Printf("analysis.Analyzer: %s: promoted %d paragraphs to tables",
			result.Metadata.SourceFile, promoted)
	}

	if a.cfg.EnableEntities {
		out.Entities = a.entities.Extract(result.Elements)
	}
	if a.cfg.EnableRelationships && len(out.Entities) > 0 {
		out.Relationships = a.relationships.Extract(result.Elements, out.Entities)
	}
	out.Sections = a.structure.Sections(result.Elements)
	if a.cfg.EnableSemantics {
		out.Intent, out.IntentScore = a.semantic.Intent(result.RawText)
		out.Tags = a.semantic.Tags(result.RawText, defaultTagLimit)
		out.Relationships = append(out.Relationships, ResolveReferences(result.Elements, out.Entities)...)
	}

	log.Printf("analysis.Analyzer: %s: %d entities, %d relationships, %d sections, intent=%s",
		result.Metadata.SourceFile, len(out.Entities), len(out.Relationships), len(out.Sections), out.Intent)
	return out, nil
}
