package analysis

import (
	"fmt"
	"strings"

	"github.com/ShriniwasAhirrao/MetaStitch/internal/domain"
)

// RelationshipExtractor links entities that appear together.
type RelationshipExtractor struct {
	maxRelationships int
}

// NewRelationshipExtractor creates a RelationshipExtractor capped at max.
func NewRelationshipExtractor(max int) *RelationshipExtractor {
	return &RelationshipExtractor{maxRelationships: max}
}

// Extract derives co-occurrence links between entities sharing an element
// and key-value links from key-value sections whose values are entities.
func (r *RelationshipExtractor) Extract(elements []domain.StructuredElement, entities []domain.Entity) []domain.Relationship {
	relationships := []domain.Relationship{}
	seen := map[string]bool{}

	add := func(rel domain.Relationship) bool {
		if len(relationships) >= r.maxRelationships {
			return false
		}
		key := fmt.Sprintf("%s|%s|%s", rel.Kind, rel.Source, rel.Target)
		if seen[key] {
			return true
		}
		seen[key] = true
		relationships = append(relationships, rel)
		return true
	}

	// Entities found in the same element co-occur.
	byPosition := map[int][]domain.Entity{}
	for _, ent := range entities {
		byPosition[ent.Position] = append(byPosition[ent.Position], ent)
	}
	for pos, group := range byPosition {
		for i := 0; i < len(group); i++ {
			for j := i + 1; j < len(group); j++ {
				if group[i].Type == group[j].Type {
					continue
				}
				ok := add(domain.Relationship{
					Source:   group[i].Value,
					Target:   group[j].Value,
					Kind:     "co_occurrence",
					Position: pos,
					Weight:   group[i].Confidence * group[j].Confidence,
				})
				if !ok {
					return relationships
				}
			}
		}
	}

	// Key-value sections bind the key to any entity inside the value.
	entityValues := map[string]bool{}
	for _, ent := range entities {
		entityValues[ent.Value] = true
	}
	for _, el := range elements {
		if el.Type != domain.ElementKeyValue {
			continue
		}
		pairs, ok := el.Content.(map[string]interface{})
		if !ok {
			continue
		}
		for key, v := range pairs {
			value, ok := v.(string)
			if !ok {
				continue
			}
			for entValue := range entityValues {
				if !strings.Contains(value, entValue) {
					continue
				}
				ok := add(domain.Relationship{
					Source:   key,
					Target:   entValue,
					Kind:     "key_value",
					Position: el.Position,
					Weight:   0.9,
				})
				if !ok {
					return relationships
				}
			}
		}
	}
	return relationships
}
