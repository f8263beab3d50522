package analysis

import (
	"strings"

	"github.com/ShriniwasAhirrao/MetaStitch/internal/domain"
)

var pronouns = map[string]bool{
	"it": true, "they": true, "them": true, "he": true, "she": true,
	"this": true, "these": true, "those": true,
}

// ResolveReferences links pronouns to the nearest preceding name entity and
// reports the links as reference relationships. A pronoun in an element with
// no prior name entity stays unresolved.
func ResolveReferences(elements []domain.StructuredElement, entities []domain.Entity) []domain.Relationship {
	names := make([]domain.Entity, 0, len(entities))
	for _, ent := range entities {
		if ent.Type == "name" {
			names = append(names, ent)
		}
	}
	if len(names) == 0 {
		return nil
	}

	var rels []domain.Relationship
	for _, el := range elements {
		text, ok := el.Content.(string)
		if !ok {
			continue
		}
		pronoun := firstPronoun(text)
		if pronoun == "" {
			continue
		}
		antecedent, ok := nearestBefore(names, el.Position)
		if !ok {
			continue
		}
		rels = append(rels, domain.Relationship{
			Source:   pronoun,
			Target:   antecedent.Value,
			Kind:     "reference",
			Position: el.Position,
			Weight:   0.5,
		})
	}
	return rels
}

func firstPronoun(text string) string {
	for _, word := range strings.Fields(strings.ToLower(text)) {
		word = strings.Trim(word, ".,;:!?\"'()")
		if pronouns[word] {
			return word
		}
	}
	return ""
}

// nearestBefore picks the name entity in the closest earlier element.
func nearestBefore(names []domain.Entity, position int) (domain.Entity, bool) {
	best := domain.Entity{Position: -1}
	for _, ent := range names {
		if ent.Position < position && ent.Position > best.Position {
			best = ent
		}
	}
	return best, best.Position >= 0
}
