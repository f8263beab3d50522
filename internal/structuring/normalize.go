package structuring

import (
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/ShriniwasAhirrao/MetaStitch/internal/domain"
)

// Normalize cleans an extraction result in place: elements are sorted and
// renumbered, empty text elements dropped, strings trimmed, key-value dates
// and numbers canonicalized, and confidences clamped into [0, 1].
func Normalize(result *domain.ExtractionResult) {
	sort.SliceStable(result.Elements, func(i, j int) bool {
		return result.Elements[i].Position < result.Elements[j].Position
	})

	cleaned := result.Elements[:0]
	for _, el := range result.Elements {
		if s, ok := el.Content.(string); ok {
			s = strings.TrimSpace(s)
			if s == "" {
				continue
			}
			el.Content = s
		}
		if el.Type == domain.ElementKeyValue {
			if pairs, ok := el.Content.(map[string]interface{}); ok {
				canonicalizePairs(pairs)
			}
		}
		el.Confidence = clampConfidence(el.Confidence)
		el.Position = len(cleaned)
		cleaned = append(cleaned, el)
	}
	result.Elements = cleaned
	result.Confidence = clampConfidence(result.Confidence)
}

// dateLayouts are the input formats recognized during canonicalization.
var dateLayouts = []string{
	"2006-01-02",
	"02/01/2006",
	"01/02/2006",
	"2 Jan 2006",
	"Jan 2, 2006",
	"2006-01-02 15:04:05",
}

var numericRe = regexp.MustCompile(`^-?\d{1,3}(,\d{3})+(\.\d+)?$`)

// canonicalizePairs rewrites recognizable date values to RFC 3339 and strips
// thousands separators from numbers.
func canonicalizePairs(pairs map[string]interface{}) {
	for key, v := range pairs {
		s, ok := v.(string)
		if !ok {
			continue
		}
		s = strings.TrimSpace(s)
		if numericRe.MatchString(s) {
			pairs[key] = strings.ReplaceAll(s, ",", "")
			continue
		}
		for _, layout := range dateLayouts {
			if t, err := time.Parse(layout, s); err == nil {
				pairs[key] = t.UTC().Format(time.RFC3339)
				break
			}
		}
	}
}

func clampConfidence(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
