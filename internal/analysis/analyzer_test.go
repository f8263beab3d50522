package analysis

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ShriniwasAhirrao/MetaStitch/internal/config"
	"github.com/ShriniwasAhirrao/MetaStitch/internal/domain"
)

func testAnalysisConfig() config.AnalysisConfig {
	return config.AnalysisConfig{
		EnableEntities:      true,
		EnableRelationships: true,
		EnableSemantics:     true,
		MaxEntities:         1000,
		MaxRelationships:    500,
	}
}

func paragraph(pos int, text string) domain.StructuredElement {
	return domain.StructuredElement{
		Type:       domain.ElementParagraph,
		Content:    text,
		Position:   pos,
		Confidence: 0.8,
	}
}

func heading(pos, level int, text string) domain.StructuredElement {
	return domain.StructuredElement{
		Type:       domain.ElementHeading,
		Content:    text,
		Position:   pos,
		Confidence: 0.9,
		Metadata:   map[string]interface{}{"level": level},
	}
}

func TestEntityExtraction(t *testing.T) {
	e := NewEntityExtractor(1000)
	entities := e.Extract([]domain.StructuredElement{
		paragraph(0, "Contact alice@example.com or visit https://example.com from 10.0.0.1 on 2024-03-01 for $1,250.00 (up 12.5%)."),
	})

	byType := map[string][]string{}
	for _, ent := range entities {
		byType[ent.Type] = append(byType[ent.Type], ent.Value)
	}
	assert.Contains(t, byType["email"], "alice@example.com")
	assert.NotEmpty(t, byType["url"])
	assert.Contains(t, byType["ip"], "10.0.0.1")
	assert.Contains(t, byType["date"], "2024-03-01")
	assert.NotEmpty(t, byType["money"])
	assert.Contains(t, byType["percent"], "12.5%")
}

func TestEntityCapAndDedup(t *testing.T) {
	e := NewEntityExtractor(2)
	entities := e.Extract([]domain.StructuredElement{
		paragraph(0, "a@x.com b@x.com c@x.com a@x.com"),
	})
	assert.Len(t, entities, 2)
}

func TestEntityExtractionFromTable(t *testing.T) {
	e := NewEntityExtractor(1000)
	entities := e.Extract([]domain.StructuredElement{{
		Type:     domain.ElementTable,
		Position: 0,
		Content: domain.TableContent{
			Headers: []string{"user", "email"},
			Rows:    [][]string{{"alice", "alice@example.com"}},
		},
	}})
	require.Len(t, entities, 1)
	assert.Equal(t, "email", entities[0].Type)
}

func TestCoOccurrenceRelationships(t *testing.T) {
	elements := []domain.StructuredElement{
		paragraph(0, "alice@example.com logged in from 10.0.0.1"),
	}
	entities := NewEntityExtractor(1000).Extract(elements)
	rels := NewRelationshipExtractor(500).Extract(elements, entities)

	require.NotEmpty(t, rels)
	assert.Equal(t, "co_occurrence", rels[0].Kind)
}

func TestKeyValueRelationships(t *testing.T) {
	elements := []domain.StructuredElement{{
		Type:     domain.ElementKeyValue,
		Position: 0,
		Content:  map[string]interface{}{"Contact": "alice@example.com"},
	}}
	entities := NewEntityExtractor(1000).Extract(elements)
	rels := NewRelationshipExtractor(500).Extract(elements, entities)

	found := false
	for _, rel := range rels {
		if rel.Kind == "key_value" && rel.Source == "Contact" && rel.Target == "alice@example.com" {
			found = true
		}
	}
	assert.True(t, found)
}

func TestSectionsFromHeadings(t *testing.T) {
	elements := []domain.StructuredElement{
		heading(0, 1, "Intro"),
		paragraph(1, "intro body"),
		heading(2, 2, "Details"),
		paragraph(3, "details body"),
		heading(4, 1, "Wrap"),
		paragraph(5, "wrap body"),
	}
	sections := NewStructureAnalyzer().Sections(elements)

	require.Len(t, sections, 3)
	assert.Equal(t, "Intro", sections[0].Title)
	assert.Equal(t, 0, sections[0].Start)
	// Intro runs until the next level-1 heading, spanning Details.
	assert.Equal(t, 4, sections[0].End)
	assert.Equal(t, "Details", sections[1].Title)
	assert.Equal(t, 2, sections[1].Level)
	assert.Equal(t, "Wrap", sections[2].Title)
	assert.Equal(t, 6, sections[2].End)
}

func TestSectionsWithoutHeadings(t *testing.T) {
	sections := NewStructureAnalyzer().Sections([]domain.StructuredElement{
		paragraph(0, "a"), paragraph(1, "b"),
	})
	require.Len(t, sections, 1)
	assert.Equal(t, "", sections[0].Title)
	assert.Equal(t, 2, sections[0].Elements)
}

func TestIntentDetection(t *testing.T) {
	s := NewSemanticAnalyzer()

	intent, score := s.Intent("Invoice total amount due: payment of tax balance on account")
	assert.Equal(t, "financial", intent)
	assert.Greater(t, score, 0.2)

	intent, _ = s.Intent("the quick brown fox jumps over the lazy dog")
	assert.Equal(t, "general", intent)
}

func TestTags(t *testing.T) {
	s := NewSemanticAnalyzer()
	tags := s.Tags("deployment deployment deployment pipeline pipeline once", 5)
	require.NotEmpty(t, tags)
	assert.Equal(t, "deployment", tags[0])
	assert.NotContains(t, tags, "once")
}

func TestAnalyzeEndToEnd(t *testing.T) {
	a := New(testAnalysisConfig())
	result := &domain.ExtractionResult{
		RawText: "Invoice for payment. Contact alice@example.com. Total amount $100.",
		Elements: []domain.StructuredElement{
			heading(0, 1, "Invoice"),
			paragraph(1, "Contact alice@example.com. Total amount $100."),
		},
		Metadata: domain.ResultMetadata{SourceFile: "invoice.txt"},
	}

	out, err := a.Analyze(context.Background(), result)
	require.NoError(t, err)
	assert.NotEmpty(t, out.Entities)
	assert.NotEmpty(t, out.Sections)
	assert.Equal(t, "financial", out.Intent)
}

func TestAnalyzeDisabledStages(t *testing.T) {
	cfg := testAnalysisConfig()
	cfg.EnableEntities = false
	cfg.EnableSemantics = false
	a := New(cfg)

	out, err := a.Analyze(context.Background(), &domain.ExtractionResult{
		RawText:  "Invoice payment total",
		Elements: []domain.StructuredElement{paragraph(0, "alice@example.com")},
	})
	require.NoError(t, err)
	assert.Empty(t, out.Entities)
	assert.Equal(t, "general", out.Intent)
	assert.NotNil(t, out.Sections)
}

func TestPromoteTables(t *testing.T) {
	elements := []domain.StructuredElement{
		paragraph(0, "just a normal sentence about nothing in particular"),
		paragraph(1, "name|qty|price\nbolt|4|0.20\nnut|8|0.10"),
	}

	promoted := PromoteTables(elements)

	require.Equal(t, 1, promoted)
	assert.Equal(t, domain.ElementParagraph, elements[0].Type)
	assert.Equal(t, domain.ElementTable, elements[1].Type)

	tc := elements[1].Content.(domain.TableContent)
	assert.Equal(t, []string{"name", "qty", "price"}, tc.Headers)
	require.Len(t, tc.Rows, 2)
	assert.Equal(t, []string{"bolt", "4", "0.20"}, tc.Rows[0])
	assert.Equal(t, "paragraph", elements[1].Metadata["promoted_from"])
}

func TestPromoteTablesSkipsInconsistentRows(t *testing.T) {
	elements := []domain.StructuredElement{
		paragraph(0, "a|b|c\nd|e\nf|g|h"),
	}

	assert.Equal(t, 0, PromoteTables(elements))
	assert.Equal(t, domain.ElementParagraph, elements[0].Type)
}

func TestResolveReferences(t *testing.T) {
	elements := []domain.StructuredElement{
		paragraph(0, "Alice Johnson signed the agreement yesterday."),
		paragraph(1, "She confirmed it will take effect next week."),
	}
	entities := []domain.Entity{
		{Type: "name", Value: "Alice Johnson", Position: 0, Confidence: 0.5},
	}

	rels := ResolveReferences(elements, entities)

	require.Len(t, rels, 1)
	assert.Equal(t, "she", rels[0].Source)
	assert.Equal(t, "Alice Johnson", rels[0].Target)
	assert.Equal(t, "reference", rels[0].Kind)
	assert.Equal(t, 1, rels[0].Position)
}

func TestResolveReferencesNoAntecedent(t *testing.T) {
	elements := []domain.StructuredElement{
		paragraph(0, "It started raining during the deployment."),
	}
	entities := []domain.Entity{
		{Type: "name", Value: "Grace Hopper", Position: 3, Confidence: 0.5},
	}

	assert.Empty(t, ResolveReferences(elements, entities))
}
