package export

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/ShriniwasAhirrao/MetaStitch/internal/domain"
)

const summaryLimit = 500

// tableContent recovers typed table content from an element. Documents
// loaded back from storage carry generic JSON maps instead of the typed
// structs, so both forms are handled.
func tableContent(el domain.StructuredElement) (domain.TableContent, bool) {
	if el.Type != domain.ElementTable {
		return domain.TableContent{}, false
	}
	switch c := el.Content.(type) {
	case domain.TableContent:
		return c, true
	case map[string]interface{}:
		raw, err := json.Marshal(c)
		if err != nil {
			return domain.TableContent{}, false
		}
		var tc domain.TableContent
		if err := json.Unmarshal(raw, &tc); err != nil {
			return domain.TableContent{}, false
		}
		return tc, true
	}
	return domain.TableContent{}, false
}

// elementSummary renders an element's content as a single cell value.
func elementSummary(el domain.StructuredElement) string {
	if tc, ok := tableContent(el); ok {
		return fmt.Sprintf("table %dx%d (%s)", len(tc.Rows), len(tc.Headers), tc.Format)
	}

	var text string
	switch c := el.Content.(type) {
	case string:
		text = c
	case domain.ListContent:
		var parts []string
		for _, it := range c.Items {
			parts = append(parts, it.Text)
		}
		text = strings.Join(parts, "; ")
	case []domain.LogEntry:
		text = fmt.Sprintf("%d log entries", len(c))
	default:
		if raw, err := json.Marshal(c); err == nil {
			text = string(raw)
		}
	}
	if len(text) > summaryLimit {
		text = text[:summaryLimit] + "..."
	}
	return text
}
