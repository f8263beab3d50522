package analysis

import (
	"strings"

	"github.com/ShriniwasAhirrao/MetaStitch/internal/domain"
)

// tableDelimiters are tried in order when promoting a paragraph to a table.
var tableDelimiters = []string{"|", "\t", ";"}

// PromoteTables rewrites paragraph elements whose lines form a consistent
// delimited grid into table elements. Elements are modified in place.
func PromoteTables(elements []domain.StructuredElement) int {
	promoted := 0
	for i, el := range elements {
		if el.Type != domain.ElementParagraph {
			continue
		}
		text, ok := el.Content.(string)
		if !ok {
			continue
		}
		tc, ok := paragraphTable(text)
		if !ok {
			continue
		}
		elements[i].Type = domain.ElementTable
		elements[i].Content = tc
		if elements[i].Metadata == nil {
			elements[i].Metadata = map[string]interface{}{}
		}
		elements[i].Metadata["promoted_from"] = "paragraph"
		promoted++
	}
	return promoted
}

// paragraphTable splits the text into rows if every line carries the same
// delimiter with a consistent column count of at least two.
func paragraphTable(text string) (domain.TableContent, bool) {
	lines := nonBlankLines(text)
	if len(lines) < 2 {
		return domain.TableContent{}, false
	}

	for _, delim := range tableDelimiters {
		cols := strings.Count(lines[0], delim)
		if cols < 1 {
			continue
		}
		consistent := true
		for _, line := range lines[1:] {
			if strings.Count(line, delim) != cols {
				consistent = false
				break
			}
		}
		if !consistent {
			continue
		}

		rows := make([][]string, 0, len(lines))
		for _, line := range lines {
			cells := strings.Split(line, delim)
			for i := range cells {
				cells[i] = strings.TrimSpace(cells[i])
			}
			rows = append(rows, cells)
		}
		return domain.TableContent{
			Headers: rows[0],
			Rows:    rows[1:],
			Format:  "delimited",
		}, true
	}
	return domain.TableContent{}, false
}

func nonBlankLines(text string) []string {
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) != "" {
			lines = append(lines, line)
		}
	}
	return lines
}
