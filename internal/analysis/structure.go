package analysis

import (
	"fmt"

	"github.com/ShriniwasAhirrao/MetaStitch/internal/domain"
)

// StructureAnalyzer builds a section outline from heading elements.
type StructureAnalyzer struct{}

// NewStructureAnalyzer creates a StructureAnalyzer.
func NewStructureAnalyzer() *StructureAnalyzer {
	return &StructureAnalyzer{}
}

// Sections splits the element stream at headings. Each section runs from
// its heading to the next heading of the same or higher level. A document
// without headings becomes a single untitled section.
func (s *StructureAnalyzer) Sections(elements []domain.StructuredElement) []domain.Section {
	if len(elements) == 0 {
		return []domain.Section{}
	}

	var sections []domain.Section
	for i, el := range elements {
		if el.Type != domain.ElementHeading {
			continue
		}
		level := headingLevel(el)
		end := len(elements)
		for j := i + 1; j < len(elements); j++ {
			if elements[j].Type == domain.ElementHeading && headingLevel(elements[j]) <= level {
				end = j
				break
			}
		}
		title, _ := el.Content.(string)
		sections = append(sections, domain.Section{
			Title:    title,
			Level:    level,
			Start:    el.Position,
			End:      elements[end-1].Position + 1,
			Elements: end - i,
		})
	}

	if len(sections) == 0 {
		sections = append(sections, domain.Section{
			Title:    "",
			Level:    1,
			Start:    elements[0].Position,
			End:      elements[len(elements)-1].Position + 1,
			Elements: len(elements),
		})
	}
	return sections
}

func headingLevel(el domain.StructuredElement) int {
	if el.Metadata == nil {
		return 1
	}
	switch v := el.Metadata["level"].(type) {
	case int:
		return v
	case float64:
		return int(v)
	case string:
		var level int
		if _, err := fmt.Sscanf(v, "%d", &level); err == nil {
			return level
		}
	}
	return 1
}
