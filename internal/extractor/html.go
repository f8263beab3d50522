package extractor

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"golang.org/x/net/html"

	"github.com/ShriniwasAhirrao/MetaStitch/internal/domain"
	"github.com/ShriniwasAhirrao/MetaStitch/internal/port"
)

// HTMLExtractor parses HTML documents into structured elements using the
// DOM tree. Script and style content is dropped.
type HTMLExtractor struct{}

// NewHTMLExtractor creates an HTMLExtractor.
func NewHTMLExtractor() *HTMLExtractor {
	return &HTMLExtractor{}
}

func (e *HTMLExtractor) Name() string { return "html_parser" }

func (e *HTMLExtractor) Supports(ft domain.FileType) bool {
	return ft == domain.FileTypeHTML
}

func (e *HTMLExtractor) Extract(ctx context.Context, in port.ExtractInput) (*domain.ExtractionResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("HTMLExtractor.Extract: %w", err)
	}
	doc, err := html.Parse(bytes.NewReader(in.Content))
	if err != nil {
		return nil, fmt.Errorf("HTMLExtractor.Extract: parsing %s: %w", in.FileName, err)
	}

	w := &htmlWalker{}
	w.walk(doc)
	if len(w.elements) == 0 && strings.TrimSpace(w.rawText.String()) == "" {
		return nil, fmt.Errorf("HTMLExtractor.Extract: %s: %w", in.FileName, domain.ErrEmptyContent)
	}

	rawText := strings.TrimSpace(w.rawText.String())
	result := &domain.ExtractionResult{
		Metadata:   resultMetadata(in, rawText),
		RawText:    rawText,
		Elements:   w.elements,
		Method:     e.Name(),
		Confidence: resultConfidence(w.elements),
	}
	if w.title != "" {
		result.Metadata.Patterns = map[string]interface{}{"title": w.title}
	}
	return result, nil
}

type htmlWalker struct {
	elements []domain.StructuredElement
	rawText  strings.Builder
	title    string
	pos      int
}

func (w *htmlWalker) walk(n *html.Node) {
	if n.Type == html.ElementNode {
		switch n.Data {
		case "script", "style", "noscript":
			return
		case "title":
			w.title = strings.TrimSpace(nodeText(n))
			return
		case "h1", "h2", "h3", "h4", "h5", "h6":
			text := strings.TrimSpace(nodeText(n))
			if text != "" {
				level := int(n.Data[1] - '0')
				w.add(domain.StructuredElement{
					Type:       domain.ElementHeading,
					Content:    text,
					Confidence: 0.95,
					Metadata:   map[string]interface{}{"level": level, "style": "html"},
				})
				w.appendText(text)
			}
			return
		case "p":
			text := strings.TrimSpace(nodeText(n))
			if text != "" {
				w.add(domain.StructuredElement{
					Type:       domain.ElementParagraph,
					Content:    text,
					Confidence: 0.9,
				})
				w.appendText(text)
			}
			return
		case "ul", "ol":
			listType := "bulleted"
			if n.Data == "ol" {
				listType = "numbered"
			}
			items := w.listItems(n)
			if len(items) > 0 {
				w.add(domain.StructuredElement{
					Type:       domain.ElementList,
					Content:    domain.ListContent{ListType: listType, Items: items},
					Confidence: 0.9,
					Metadata:   map[string]interface{}{"item_count": len(items)},
				})
			}
			return
		case "table":
			if tc, ok := w.tableContent(n); ok {
				w.add(domain.StructuredElement{
					Type:       domain.ElementTable,
					Content:    tc,
					Confidence: 0.95,
					Metadata:   map[string]interface{}{"row_count": len(tc.Rows)},
				})
			}
			return
		case "pre", "code":
			text := rawNodeText(n)
			if strings.TrimSpace(text) != "" {
				w.add(domain.StructuredElement{
					Type:       domain.ElementCodeBlock,
					Content:    strings.Trim(text, "\n"),
					Confidence: 0.9,
					Metadata:   map[string]interface{}{"fenced": false},
				})
				w.appendText(text)
			}
			return
		case "dl":
			if pairs := w.definitionPairs(n); len(pairs) >= 2 {
				w.add(domain.StructuredElement{
					Type:       domain.ElementKeyValue,
					Content:    pairs,
					Confidence: 0.85,
				})
				return
			}
		}
	}
	if n.Type == html.TextNode {
		// Text outside captured blocks still contributes to raw text.
		if text := strings.TrimSpace(n.Data); text != "" {
			w.appendText(text)
		}
		return
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		w.walk(c)
	}
}

func (w *htmlWalker) add(el domain.StructuredElement) {
	el.Position = w.pos
	w.pos++
	w.elements = append(w.elements, el)
}

func (w *htmlWalker) appendText(text string) {
	if w.rawText.Len() > 0 {
		w.rawText.WriteString("\n")
	}
	w.rawText.WriteString(text)
}

func (w *htmlWalker) listItems(n *html.Node) []domain.ListItem {
	var items []domain.ListItem
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.ElementNode || c.Data != "li" {
			continue
		}
		item := domain.ListItem{Text: strings.TrimSpace(directText(c))}
		for gc := c.FirstChild; gc != nil; gc = gc.NextSibling {
			if gc.Type == html.ElementNode && (gc.Data == "ul" || gc.Data == "ol") {
				item.Children = append(item.Children, w.listItems(gc)...)
			}
		}
		if item.Text != "" || len(item.Children) > 0 {
			w.appendText(item.Text)
			items = append(items, item)
		}
	}
	return items
}

func (w *htmlWalker) tableContent(n *html.Node) (domain.TableContent, bool) {
	var headers []string
	var rows [][]string
	var visitRows func(*html.Node)
	visitRows = func(node *html.Node) {
		for c := node.FirstChild; c != nil; c = c.NextSibling {
			if c.Type != html.ElementNode {
				continue
			}
			if c.Data == "tr" {
				var cells []string
				isHeader := false
				for td := c.FirstChild; td != nil; td = td.NextSibling {
					if td.Type != html.ElementNode {
						continue
					}
					if td.Data == "th" {
						isHeader = true
					}
					if td.Data == "th" || td.Data == "td" {
						cells = append(cells, strings.TrimSpace(nodeText(td)))
					}
				}
				if len(cells) == 0 {
					continue
				}
				if isHeader && headers == nil {
					headers = cells
				} else {
					rows = append(rows, cells)
				}
				continue
			}
			visitRows(c)
		}
	}
	visitRows(n)

	if headers == nil && len(rows) > 1 {
		headers, rows = rows[0], rows[1:]
	}
	if headers == nil && len(rows) == 0 {
		return domain.TableContent{}, false
	}
	for _, row := range rows {
		w.appendText(strings.Join(row, " "))
	}
	return domain.TableContent{Headers: headers, Rows: rows, Format: "html"}, true
}

func (w *htmlWalker) definitionPairs(n *html.Node) map[string]interface{} {
	pairs := map[string]interface{}{}
	var key string
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.ElementNode {
			continue
		}
		switch c.Data {
		case "dt":
			key = strings.TrimSpace(nodeText(c))
		case "dd":
			if key != "" {
				pairs[key] = strings.TrimSpace(nodeText(c))
				key = ""
			}
		}
	}
	return pairs
}

// nodeText returns all text under a node.
func nodeText(n *html.Node) string {
	var b strings.Builder
	var visit func(*html.Node)
	visit = func(node *html.Node) {
		if node.Type == html.TextNode {
			b.WriteString(node.Data)
		}
		for c := node.FirstChild; c != nil; c = c.NextSibling {
			visit(c)
		}
	}
	visit(n)
	return strings.Join(strings.Fields(b.String()), " ")
}

// rawNodeText returns all text under a node with whitespace preserved.
func rawNodeText(n *html.Node) string {
	var b strings.Builder
	var visit func(*html.Node)
	visit = func(node *html.Node) {
		if node.Type == html.TextNode {
			b.WriteString(node.Data)
		}
		for c := node.FirstChild; c != nil; c = c.NextSibling {
			visit(c)
		}
	}
	visit(n)
	return b.String()
}

// directText returns the text of a node excluding nested lists.
func directText(n *html.Node) string {
	var b strings.Builder
	var visit func(*html.Node)
	visit = func(node *html.Node) {
		if node.Type == html.TextNode {
			b.WriteString(node.Data)
		}
		for c := node.FirstChild; c != nil; c = c.NextSibling {
			if c.Type == html.ElementNode && (c.Data == "ul" || c.Data == "ol") {
				continue
			}
			visit(c)
		}
	}
	visit(n)
	return strings.Join(strings.Fields(b.String()), " ")
}
