package extractor

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/ShriniwasAhirrao/MetaStitch/internal/domain"
	"github.com/ShriniwasAhirrao/MetaStitch/internal/port"
)

var (
	markdownHeaderRe  = regexp.MustCompile(`^(#{1,6})\s+(.*)$`)
	underlineRe       = regexp.MustCompile(`^([=-]){3,}\s*$`)
	numberedHeaderRe  = regexp.MustCompile(`^(\d+(?:\.\d+)*)\.\s+([A-Z].*)$`)
	bulletItemRe      = regexp.MustCompile(`^(\s*)([-*+•])\s+(.*)$`)
	numberedItemRe    = regexp.MustCompile(`^(\s*)(\d+[.)])\s+(.*)$`)
	keyValueRe        = regexp.MustCompile(`^\s*([\w][\w .\-/]*?)\s*:\s+(.+)$`)
	alignedRowRe      = regexp.MustCompile(`^\s*\S+(\s{2,}\S+){2,}\s*$`)
	allCapsRe         = regexp.MustCompile(`^[A-Z][A-Z0-9 .,&'\-]+$`)
)

// tableDelimiters are tried in order when sniffing delimited tables.
var tableDelimiters = []string{"|", "\t", ";", ","}

const tableLookahead = 20

// TXTExtractor parses plain text into headings, lists, tables, code blocks,
// key-value sections and paragraphs. It is the last-resort strategy for any
// content with a text layer.
type TXTExtractor struct{}

// NewTXTExtractor creates a TXTExtractor.
func NewTXTExtractor() *TXTExtractor {
	return &TXTExtractor{}
}

func (e *TXTExtractor) Name() string { return "txt_parser" }

func (e *TXTExtractor) Supports(ft domain.FileType) bool {
	return ft == domain.FileTypeTXT
}

func (e *TXTExtractor) Extract(ctx context.Context, in port.ExtractInput) (*domain.ExtractionResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("TXTExtractor.Extract: %w", err)
	}
	text := string(in.Content)
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("TXTExtractor.Extract: %s: %w", in.FileName, domain.ErrEmptyContent)
	}

	p := &txtParser{lines: strings.Split(text, "\n")}
	elements := p.parse()

	return &domain.ExtractionResult{
		Metadata:   resultMetadata(in, text),
		RawText:    text,
		Elements:   elements,
		Method:     e.Name(),
		Confidence: p.confidence(elements),
	}, nil
}

type txtParser struct {
	lines    []string
	consumed int // non-blank lines folded into elements
}

func (p *txtParser) parse() []domain.StructuredElement {
	elements := []domain.StructuredElement{}
	pos := 0
	i := 0
	for i < len(p.lines) {
		line := p.lines[i]
		if strings.TrimSpace(line) == "" {
			i++
			continue
		}

		if el, next, ok := p.fencedCode(i); ok {
			el.Position = pos
			elements, pos = append(elements, el), pos+1
			i = next
			continue
		}
		if el, next, ok := p.table(i); ok {
			el.Position = pos
			elements, pos = append(elements, el), pos+1
			i = next
			continue
		}
		if el, next, ok := p.header(i); ok {
			el.Position = pos
			elements, pos = append(elements, el), pos+1
			i = next
			continue
		}
		if el, next, ok := p.list(i); ok {
			el.Position = pos
			elements, pos = append(elements, el), pos+1
			i = next
			continue
		}
		if el, next, ok := p.keyValues(i); ok {
			el.Position = pos
			elements, pos = append(elements, el), pos+1
			i = next
			continue
		}
		if el, next, ok := p.indentedCode(i); ok {
			el.Position = pos
			elements, pos = append(elements, el), pos+1
			i = next
			continue
		}

		el, next := p.paragraph(i)
		el.Position = pos
		elements, pos = append(elements, el), pos+1
		i = next
	}
	return elements
}

func (p *txtParser) fencedCode(i int) (domain.StructuredElement, int, bool) {
	line := strings.TrimSpace(p.lines[i])
	var fence string
	switch {
	case strings.HasPrefix(line, "```"):
		fence = "```"
	case strings.HasPrefix(line, "~~~"):
		fence = "~~~"
	default:
		return domain.StructuredElement{}, i, false
	}

	lang := strings.TrimSpace(strings.TrimPrefix(line, fence))
	var body []string
	j := i + 1
	for j < len(p.lines) {
		if strings.HasPrefix(strings.TrimSpace(p.lines[j]), fence) {
			j++
			break
		}
		body = append(body, p.lines[j])
		j++
	}
	p.consumed += p.countNonBlank(i, j)

	meta := map[string]interface{}{"fenced": true}
	if lang != "" {
		meta["language"] = lang
	}
	return domain.StructuredElement{
		Type:       domain.ElementCodeBlock,
		Content:    strings.Join(body, "\n"),
		Confidence: 0.95,
		Metadata:   meta,
	}, j, true
}

func (p *txtParser) indentedCode(i int) (domain.StructuredElement, int, bool) {
	isIndented := func(line string) bool {
		return strings.HasPrefix(line, "    ") || strings.HasPrefix(line, "\t")
	}
	if !isIndented(p.lines[i]) {
		return domain.StructuredElement{}, i, false
	}
	j := i
	var body []string
	for j < len(p.lines) && (isIndented(p.lines[j]) || strings.TrimSpace(p.lines[j]) == "") {
		if strings.TrimSpace(p.lines[j]) == "" && (j+1 >= len(p.lines) || !isIndented(p.lines[j+1])) {
			break
		}
		body = append(body, p.lines[j])
		j++
	}
	if p.countNonBlank(i, j) < 2 {
		return domain.StructuredElement{}, i, false
	}
	p.consumed += p.countNonBlank(i, j)
	return domain.StructuredElement{
		Type:       domain.ElementCodeBlock,
		Content:    strings.Join(body, "\n"),
		Confidence: 0.7,
		Metadata:   map[string]interface{}{"fenced": false},
	}, j, true
}

func (p *txtParser) header(i int) (domain.StructuredElement, int, bool) {
	line := p.lines[i]
	trimmed := strings.TrimSpace(line)

	if m := markdownHeaderRe.FindStringSubmatch(trimmed); m != nil {
		p.consumed++
		return headerElement(m[2], len(m[1]), "markdown", 0.95), i + 1, true
	}

	// Underlined headers: a text line followed by === or ---.
	if i+1 < len(p.lines) {
		if m := underlineRe.FindStringSubmatch(strings.TrimSpace(p.lines[i+1])); m != nil && trimmed != "" {
			level := 1
			if m[1] == "-" {
				level = 2
			}
			p.consumed += 2
			return headerElement(trimmed, level, "underlined", 0.9), i + 2, true
		}
	}

	if m := numberedHeaderRe.FindStringSubmatch(trimmed); m != nil {
		level := strings.Count(m[1], ".") + 1
		p.consumed++
		return headerElement(m[2], level, "numbered", 0.8), i + 1, true
	}

	// Short ALL-CAPS lines read as section headers.
	if len(trimmed) <= 50 && allCapsRe.MatchString(trimmed) {
		if words := len(strings.Fields(trimmed)); words >= 1 && words <= 8 {
			p.consumed++
			return headerElement(trimmed, 2, "all_caps", 0.7), i + 1, true
		}
	}
	return domain.StructuredElement{}, i, false
}

func headerElement(text string, level int, style string, conf float64) domain.StructuredElement {
	return domain.StructuredElement{
		Type:       domain.ElementHeading,
		Content:    text,
		Confidence: conf,
		Metadata:   map[string]interface{}{"level": level, "style": style},
	}
}

func (p *txtParser) list(i int) (domain.StructuredElement, int, bool) {
	type flatItem struct {
		depth  int
		marker string
		text   string
	}
	var flat []flatItem
	listType := ""

	j := i
	for j < len(p.lines) {
		line := p.lines[j]
		if strings.TrimSpace(line) == "" {
			// A single blank line inside a list is tolerated.
			if j+1 < len(p.lines) && (bulletItemRe.MatchString(p.lines[j+1]) || numberedItemRe.MatchString(p.lines[j+1])) {
				j++
				continue
			}
			break
		}
		if m := bulletItemRe.FindStringSubmatch(line); m != nil {
			if listType == "" {
				listType = "bulleted"
			}
			flat = append(flat, flatItem{depth: len(m[1]) / 2, marker: m[2], text: m[3]})
			j++
			continue
		}
		if m := numberedItemRe.FindStringSubmatch(line); m != nil {
			if listType == "" {
				listType = "numbered"
			}
			flat = append(flat, flatItem{depth: len(m[1]) / 2, marker: m[2], text: m[3]})
			j++
			continue
		}
		break
	}
	if len(flat) == 0 {
		return domain.StructuredElement{}, i, false
	}
	p.consumed += len(flat)

	// Rebuild nesting from indent depth.
	var build func(idx, depth int) ([]domain.ListItem, int)
	build = func(idx, depth int) ([]domain.ListItem, int) {
		var items []domain.ListItem
		for idx < len(flat) {
			it := flat[idx]
			if it.depth < depth {
				break
			}
			if it.depth > depth {
				if len(items) == 0 {
					// Orphan indent, treat as current depth.
					it.depth = depth
				} else {
					children, next := build(idx, it.depth)
					items[len(items)-1].Children = children
					idx = next
					continue
				}
			}
			items = append(items, domain.ListItem{Text: it.text, Marker: it.marker})
			idx++
		}
		return items, idx
	}
	items, _ := build(0, flat[0].depth)

	return domain.StructuredElement{
		Type: domain.ElementList,
		Content: domain.ListContent{
			ListType: listType,
			Items:    items,
		},
		Confidence: 0.85,
		Metadata:   map[string]interface{}{"item_count": len(flat)},
	}, j, true
}

func (p *txtParser) table(i int) (domain.StructuredElement, int, bool) {
	if el, next, ok := p.delimitedTable(i); ok {
		return el, next, true
	}
	return p.alignedTable(i)
}

func (p *txtParser) delimitedTable(i int) (domain.StructuredElement, int, bool) {
	line := p.lines[i]
	for _, delim := range tableDelimiters {
		count := strings.Count(line, delim)
		if count < 2 {
			continue
		}
		j := i + 1
		rows := 1
		for j < len(p.lines) && j < i+tableLookahead {
			next := p.lines[j]
			if strings.TrimSpace(next) == "" || strings.Count(next, delim) != count {
				break
			}
			// Markdown separator rows (|---|---|) are part of the table.
			rows++
			j++
		}
		if rows < 2 {
			continue
		}

		var headers []string
		var body [][]string
		for k := i; k < j; k++ {
			cells := splitTableRow(p.lines[k], delim)
			if isSeparatorRow(cells) {
				continue
			}
			if headers == nil {
				headers = cells
			} else {
				body = append(body, cells)
			}
		}
		if len(headers) == 0 || len(body) == 0 {
			continue
		}
		p.consumed += j - i
		return domain.StructuredElement{
			Type: domain.ElementTable,
			Content: domain.TableContent{
				Headers: headers,
				Rows:    body,
				Format:  "delimited",
			},
			Confidence: 0.9,
			Metadata:   map[string]interface{}{"delimiter": delim, "row_count": len(body)},
		}, j, true
	}
	return domain.StructuredElement{}, i, false
}

func splitTableRow(line, delim string) []string {
	line = strings.TrimSpace(line)
	if delim == "|" {
		line = strings.Trim(line, "|")
	}
	parts := strings.Split(line, delim)
	cells := make([]string, len(parts))
	for i, p := range parts {
		cells[i] = strings.TrimSpace(p)
	}
	return cells
}

func isSeparatorRow(cells []string) bool {
	for _, c := range cells {
		if c == "" {
			continue
		}
		if strings.Trim(c, "-: ") != "" {
			return false
		}
	}
	return true
}

func (p *txtParser) alignedTable(i int) (domain.StructuredElement, int, bool) {
	if !alignedRowRe.MatchString(p.lines[i]) {
		return domain.StructuredElement{}, i, false
	}
	cols := len(regexp.MustCompile(`\s{2,}`).Split(strings.TrimSpace(p.lines[i]), -1))
	j := i + 1
	for j < len(p.lines) && j < i+tableLookahead {
		next := strings.TrimSpace(p.lines[j])
		if next == "" || !alignedRowRe.MatchString(p.lines[j]) {
			break
		}
		if len(regexp.MustCompile(`\s{2,}`).Split(next, -1)) != cols {
			break
		}
		j++
	}
	if j-i < 2 {
		return domain.StructuredElement{}, i, false
	}

	var headers []string
	var body [][]string
	for k := i; k < j; k++ {
		cells := regexp.MustCompile(`\s{2,}`).Split(strings.TrimSpace(p.lines[k]), -1)
		if headers == nil {
			headers = cells
		} else {
			body = append(body, cells)
		}
	}
	p.consumed += j - i
	return domain.StructuredElement{
		Type: domain.ElementTable,
		Content: domain.TableContent{
			Headers: headers,
			Rows:    body,
			Format:  "whitespace_aligned",
		},
		Confidence: 0.75,
		Metadata:   map[string]interface{}{"row_count": len(body)},
	}, j, true
}

func (p *txtParser) keyValues(i int) (domain.StructuredElement, int, bool) {
	pairs := map[string]interface{}{}
	var order []string
	j := i
	for j < len(p.lines) {
		m := keyValueRe.FindStringSubmatch(p.lines[j])
		if m == nil {
			break
		}
		if _, dup := pairs[m[1]]; !dup {
			order = append(order, m[1])
		}
		pairs[m[1]] = m[2]
		j++
	}
	if len(pairs) < 2 {
		return domain.StructuredElement{}, i, false
	}
	p.consumed += j - i
	return domain.StructuredElement{
		Type:       domain.ElementKeyValue,
		Content:    pairs,
		Confidence: 0.8,
		Metadata:   map[string]interface{}{"keys": order},
	}, j, true
}

func (p *txtParser) paragraph(i int) (domain.StructuredElement, int) {
	var body []string
	j := i
	for j < len(p.lines) {
		line := p.lines[j]
		if strings.TrimSpace(line) == "" {
			break
		}
		// Stop when a structural block starts mid-paragraph.
		if j > i && (bulletItemRe.MatchString(line) || markdownHeaderRe.MatchString(line) ||
			strings.HasPrefix(strings.TrimSpace(line), "```")) {
			break
		}
		body = append(body, strings.TrimSpace(line))
		j++
	}
	p.consumed += j - i
	return domain.StructuredElement{
		Type:       domain.ElementParagraph,
		Content:    strings.Join(body, " "),
		Confidence: 0.7,
	}, j
}

func (p *txtParser) countNonBlank(from, to int) int {
	n := 0
	for k := from; k < to && k < len(p.lines); k++ {
		if strings.TrimSpace(p.lines[k]) != "" {
			n++
		}
	}
	return n
}

// confidence blends element diversity, line coverage and the share of
// structured (non-paragraph) elements.
func (p *txtParser) confidence(elements []domain.StructuredElement) float64 {
	if len(elements) == 0 {
		return 0.1
	}
	types := map[domain.ElementType]bool{}
	structured := 0
	for _, el := range elements {
		types[el.Type] = true
		if el.Type != domain.ElementParagraph {
			structured++
		}
	}
	diversity := float64(len(types)) / 5.0
	if diversity > 1 {
		diversity = 1
	}

	nonBlank := p.countNonBlank(0, len(p.lines))
	coverage := 1.0
	if nonBlank > 0 {
		coverage = float64(p.consumed) / float64(nonBlank)
		if coverage > 1 {
			coverage = 1
		}
	}
	structureRatio := float64(structured) / float64(len(elements))

	return round2(0.3*diversity + 0.4*coverage + 0.3*structureRatio)
}
