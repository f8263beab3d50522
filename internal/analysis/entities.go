package analysis

import (
	"regexp"
	"strings"

	"github.com/ShriniwasAhirrao/MetaStitch/internal/domain"
)

// entityPattern couples a regex with the confidence of a match.
type entityPattern struct {
	kind       string
	re         *regexp.Regexp
	confidence float64
}

var entityPatterns = []entityPattern{
	{"email", regexp.MustCompile(`[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}`), 0.95},
	{"url", regexp.MustCompile(`https?://[^\s<>"']+`), 0.95},
	{"ip", regexp.MustCompile(`\b(?:\d{1,3}\.){3}\d{1,3}\b`), 0.9},
	{"date", regexp.MustCompile(`\b\d{4}-\d{2}-\d{2}\b|\b\d{1,2}/\d{1,2}/\d{2,4}\b|\b\d{1,2} (?:Jan|Feb|Mar|Apr|May|Jun|Jul|Aug|Sep|Oct|Nov|Dec)[a-z]* \d{4}\b`), 0.85},
	{"money", regexp.MustCompile(`[$€£₹]\s?\d[\d,]*(?:\.\d+)?|\b\d[\d,]*(?:\.\d+)? ?(?:USD|EUR|GBP|INR)\b`), 0.85},
	{"percent", regexp.MustCompile(`\b\d+(?:\.\d+)?%`), 0.9},
	{"phone", regexp.MustCompile(`\+?\d{1,3}[ .\-]?\(?\d{2,4}\)?[ .\-]?\d{3,4}[ .\-]?\d{3,4}\b`), 0.6},
	{"name", regexp.MustCompile(`\b[A-Z][a-z]+ [A-Z][a-z]+\b`), 0.5},
}

// EntityExtractor finds typed spans in document text.
type EntityExtractor struct {
	maxEntities int
}

// NewEntityExtractor creates an EntityExtractor capped at maxEntities.
func NewEntityExtractor(maxEntities int) *EntityExtractor {
	return &EntityExtractor{maxEntities: maxEntities}
}

// Extract scans each element's text and returns deduplicated entities.
// Scanning stops once the cap is reached.
func (e *EntityExtractor) Extract(elements []domain.StructuredElement) []domain.Entity {
	entities := []domain.Entity{}
	seen := map[string]bool{}

	for _, el := range elements {
		text := elementText(el)
		if text == "" {
			continue
		}
		for _, p := range entityPatterns {
			for _, match := range p.re.FindAllString(text, -1) {
				if len(entities) >= e.maxEntities {
					return entities
				}
				key := p.kind + "|" + match
				if seen[key] {
					continue
				}
				seen[key] = true
				entities = append(entities, domain.Entity{
					Type:       p.kind,
					Value:      match,
					Position:   el.Position,
					Confidence: p.confidence,
				})
			}
		}
	}
	return entities
}

// elementText flattens an element's content into searchable text.
func elementText(el domain.StructuredElement) string {
	switch c := el.Content.(type) {
	case string:
		return c
	case map[string]interface{}:
		var b strings.Builder
		for k, v := range c {
			b.WriteString(k)
			b.WriteString(" ")
			if s, ok := v.(string); ok {
				b.WriteString(s)
			}
			b.WriteString("\n")
		}
		return b.String()
	case domain.TableContent:
		var b strings.Builder
		b.WriteString(strings.Join(c.Headers, " "))
		for _, row := range c.Rows {
			b.WriteString("\n")
			b.WriteString(strings.Join(row, " "))
		}
		return b.String()
	case domain.ListContent:
		var b strings.Builder
		var visit func(items []domain.ListItem)
		visit = func(items []domain.ListItem) {
			for _, it := range items {
				b.WriteString(it.Text)
				b.WriteString("\n")
				visit(it.Children)
			}
		}
		visit(c.Items)
		return b.String()
	case []domain.LogEntry:
		var b strings.Builder
		for _, entry := range c {
			b.WriteString(entry.Message)
			b.WriteString("\n")
		}
		return b.String()
	}
	return ""
}
