package extractor

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ShriniwasAhirrao/MetaStitch/internal/domain"
	"github.com/ShriniwasAhirrao/MetaStitch/internal/port"
)

func extractTXT(t *testing.T, content string) *domain.ExtractionResult {
	t.Helper()
	result, err := NewTXTExtractor().Extract(context.Background(), port.ExtractInput{
		FileName: "sample.txt",
		FileType: domain.FileTypeTXT,
		Content:  []byte(content),
	})
	require.NoError(t, err)
	return result
}

func elementsOfType(result *domain.ExtractionResult, et domain.ElementType) []domain.StructuredElement {
	var out []domain.StructuredElement
	for _, el := range result.Elements {
		if el.Type == et {
			out = append(out, el)
		}
	}
	return out
}

func TestTXTEmptyContent(t *testing.T) {
	_, err := NewTXTExtractor().Extract(context.Background(), port.ExtractInput{
		FileName: "empty.txt",
		FileType: domain.FileTypeTXT,
		Content:  []byte("   \n\n  "),
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrEmptyContent)
}

func TestTXTHeaders(t *testing.T) {
	result := extractTXT(t, "# Top Title\n\nIntro text here.\n\nSection Title\n=============\n\n2.1. Numbered Section\n\nOVERVIEW AND SCOPE\n\nbody text\n")

	headers := elementsOfType(result, domain.ElementHeading)
	require.Len(t, headers, 4)
	assert.Equal(t, "Top Title", headers[0].Content)
	assert.Equal(t, 1, headers[0].Metadata["level"])
	assert.Equal(t, "Section Title", headers[1].Content)
	assert.Equal(t, "underlined", headers[1].Metadata["style"])
	assert.Equal(t, "Numbered Section", headers[2].Content)
	assert.Equal(t, 2, headers[2].Metadata["level"])
	assert.Equal(t, "OVERVIEW AND SCOPE", headers[3].Content)
}

func TestTXTNestedList(t *testing.T) {
	result := extractTXT(t, "- parent one\n  - child a\n  - child b\n- parent two\n")

	lists := elementsOfType(result, domain.ElementList)
	require.Len(t, lists, 1)
	lc := lists[0].Content.(domain.ListContent)
	assert.Equal(t, "bulleted", lc.ListType)
	require.Len(t, lc.Items, 2)
	assert.Equal(t, "parent one", lc.Items[0].Text)
	require.Len(t, lc.Items[0].Children, 2)
	assert.Equal(t, "child a", lc.Items[0].Children[0].Text)
	assert.Empty(t, lc.Items[1].Children)
}

func TestTXTNumberedList(t *testing.T) {
	result := extractTXT(t, "1. first step\n2. second step\n3. third step\n")

	lists := elementsOfType(result, domain.ElementList)
	require.Len(t, lists, 1)
	lc := lists[0].Content.(domain.ListContent)
	assert.Equal(t, "numbered", lc.ListType)
	assert.Len(t, lc.Items, 3)
}

func TestTXTDelimitedTable(t *testing.T) {
	result := extractTXT(t, "name|age|city\nalice|30|paris\nbob|25|lyon\n")

	tables := elementsOfType(result, domain.ElementTable)
	require.Len(t, tables, 1)
	tc := tables[0].Content.(domain.TableContent)
	assert.Equal(t, "delimited", tc.Format)
	assert.Equal(t, []string{"name", "age", "city"}, tc.Headers)
	require.Len(t, tc.Rows, 2)
	assert.Equal(t, []string{"alice", "30", "paris"}, tc.Rows[0])
}

func TestTXTMarkdownTableSkipsSeparator(t *testing.T) {
	result := extractTXT(t, "| name | age |\n|------|-----|\n| alice | 30 |\n")

	tables := elementsOfType(result, domain.ElementTable)
	require.Len(t, tables, 1)
	tc := tables[0].Content.(domain.TableContent)
	assert.Equal(t, []string{"name", "age"}, tc.Headers)
	require.Len(t, tc.Rows, 1)
	assert.Equal(t, []string{"alice", "30"}, tc.Rows[0])
}

func TestTXTWhitespaceAlignedTable(t *testing.T) {
	result := extractTXT(t, "NAME    AGE    CITY\nalice   30     paris\nbob     25     lyon\n\ndone\n")

	tables := elementsOfType(result, domain.ElementTable)
	require.Len(t, tables, 1)
	tc := tables[0].Content.(domain.TableContent)
	assert.Equal(t, "whitespace_aligned", tc.Format)
	assert.Len(t, tc.Rows, 2)
}

func TestTXTFencedCodeBlock(t *testing.T) {
	result := extractTXT(t, "```go\nfunc main() {}\n```\n\nafter\n")

	blocks := elementsOfType(result, domain.ElementCodeBlock)
	require.Len(t, blocks, 1)
	assert.Equal(t, "func main() {}", blocks[0].Content)
	assert.Equal(t, "go", blocks[0].Metadata["language"])
}

func TestTXTKeyValueSection(t *testing.T) {
	result := extractTXT(t, "Name: Alice\nRole: Engineer\nTeam: Platform\n")

	kvs := elementsOfType(result, domain.ElementKeyValue)
	require.Len(t, kvs, 1)
	pairs := kvs[0].Content.(map[string]interface{})
	assert.Equal(t, "Alice", pairs["Name"])
	assert.Equal(t, "Platform", pairs["Team"])
}

func TestTXTParagraphsAndPositions(t *testing.T) {
	result := extractTXT(t, "First paragraph\nstill first.\n\nSecond paragraph.\n")

	paras := elementsOfType(result, domain.ElementParagraph)
	require.Len(t, paras, 2)
	assert.Equal(t, "First paragraph still first.", paras[0].Content)

	for i, el := range result.Elements {
		assert.Equal(t, i, el.Position)
	}
}

func TestTXTConfidenceRange(t *testing.T) {
	rich := extractTXT(t, "# Title\n\n- a\n- b\n\nname|x|y\nv1|v2|v3\n\nKey: Value\nOther: Thing\n")
	plain := extractTXT(t, "just one plain paragraph of text\n")

	assert.Greater(t, rich.Confidence, plain.Confidence)
	assert.LessOrEqual(t, rich.Confidence, 1.0)
	assert.GreaterOrEqual(t, plain.Confidence, 0.1)
}

func TestTXTStatistics(t *testing.T) {
	result := extractTXT(t, "one two three\n\nfour five\n")
	stats := result.Metadata.Statistics
	assert.Equal(t, 5, stats.Words)
	assert.Equal(t, 2, stats.Paragraphs)
}
