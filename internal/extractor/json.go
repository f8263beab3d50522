package extractor

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/ShriniwasAhirrao/MetaStitch/internal/domain"
	"github.com/ShriniwasAhirrao/MetaStitch/internal/port"
)

// JSONExtractor turns JSON documents into structured elements. Arrays of
// flat records become tables, scalar fields are grouped into key-value
// sections, and nested objects and arrays keep their structure.
type JSONExtractor struct{}

// NewJSONExtractor creates a JSONExtractor.
func NewJSONExtractor() *JSONExtractor {
	return &JSONExtractor{}
}

func (e *JSONExtractor) Name() string { return "json_parser" }

func (e *JSONExtractor) Supports(ft domain.FileType) bool {
	return ft == domain.FileTypeJSON
}

func (e *JSONExtractor) Extract(ctx context.Context, in port.ExtractInput) (*domain.ExtractionResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("JSONExtractor.Extract: %w", err)
	}
	var value interface{}
	if err := json.Unmarshal(in.Content, &value); err != nil {
		return nil, fmt.Errorf("JSONExtractor.Extract: parsing %s: %w", in.FileName, err)
	}

	pretty, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("JSONExtractor.Extract: %w", err)
	}
	rawText := string(pretty)

	b := &jsonBuilder{}
	switch v := value.(type) {
	case map[string]interface{}:
		b.object("$", v)
	case []interface{}:
		b.array("$", v)
	default:
		b.add(domain.StructuredElement{
			Type:       domain.ElementPrimitive,
			Content:    v,
			Confidence: 0.9,
			Metadata:   map[string]interface{}{"path": "$"},
		})
	}

	return &domain.ExtractionResult{
		Metadata:   resultMetadata(in, rawText),
		RawText:    rawText,
		Elements:   b.elements,
		Method:     e.Name(),
		Confidence: resultConfidence(b.elements),
	}, nil
}

type jsonBuilder struct {
	elements []domain.StructuredElement
	pos      int
}

func (b *jsonBuilder) add(el domain.StructuredElement) {
	el.Position = b.pos
	b.pos++
	b.elements = append(b.elements, el)
}

// object emits the scalar fields of an object as one key-value element and
// recurses into nested objects and arrays.
func (b *jsonBuilder) object(path string, obj map[string]interface{}) {
	scalars := map[string]interface{}{}
	keys := make([]string, 0, len(obj))
	for k := range obj {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		childPath := path + "." + k
		switch child := obj[k].(type) {
		case map[string]interface{}:
			b.add(domain.StructuredElement{
				Type:       domain.ElementObject,
				Content:    child,
				Confidence: 0.85,
				Metadata:   map[string]interface{}{"path": childPath, "key_count": len(child)},
			})
		case []interface{}:
			b.array(childPath, child)
		default:
			scalars[k] = child
		}
	}
	if len(scalars) > 0 {
		b.add(domain.StructuredElement{
			Type:       domain.ElementKeyValue,
			Content:    scalars,
			Confidence: 0.95,
			Metadata:   map[string]interface{}{"path": path},
		})
	}
}

// array emits a table when all entries are flat records sharing keys, and a
// plain array element otherwise.
func (b *jsonBuilder) array(path string, arr []interface{}) {
	if tc, ok := recordsTable(arr); ok {
		b.add(domain.StructuredElement{
			Type:       domain.ElementTable,
			Content:    tc,
			Confidence: 0.95,
			Metadata:   map[string]interface{}{"path": path, "row_count": len(tc.Rows)},
		})
		return
	}
	b.add(domain.StructuredElement{
		Type:       domain.ElementArray,
		Content:    arr,
		Confidence: 0.85,
		Metadata:   map[string]interface{}{"path": path, "length": len(arr)},
	})
}

// recordsTable converts an array of flat objects with a common key set into
// tabular form.
func recordsTable(arr []interface{}) (domain.TableContent, bool) {
	if len(arr) < 2 {
		return domain.TableContent{}, false
	}

	keySet := map[string]bool{}
	records := make([]map[string]interface{}, 0, len(arr))
	for _, entry := range arr {
		rec, ok := entry.(map[string]interface{})
		if !ok {
			return domain.TableContent{}, false
		}
		for k, v := range rec {
			switch v.(type) {
			case map[string]interface{}, []interface{}:
				return domain.TableContent{}, false
			}
			keySet[k] = true
		}
		records = append(records, rec)
	}

	headers := make([]string, 0, len(keySet))
	for k := range keySet {
		headers = append(headers, k)
	}
	sort.Strings(headers)

	rows := make([][]string, 0, len(records))
	for _, rec := range records {
		row := make([]string, len(headers))
		for i, h := range headers {
			if v, ok := rec[h]; ok && v != nil {
				row[i] = fmt.Sprintf("%v", v)
			}
		}
		rows = append(rows, row)
	}
	return domain.TableContent{Headers: headers, Rows: rows, Format: "json_records"}, true
}
