package extractor

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ShriniwasAhirrao/MetaStitch/internal/domain"
	"github.com/ShriniwasAhirrao/MetaStitch/internal/port"
)

func extractJSON(t *testing.T, content string) *domain.ExtractionResult {
	t.Helper()
	result, err := NewJSONExtractor().Extract(context.Background(), port.ExtractInput{
		FileName: "data.json",
		FileType: domain.FileTypeJSON,
		Content:  []byte(content),
	})
	require.NoError(t, err)
	return result
}

func TestJSONInvalidInput(t *testing.T) {
	_, err := NewJSONExtractor().Extract(context.Background(), port.ExtractInput{
		FileName: "bad.json",
		FileType: domain.FileTypeJSON,
		Content:  []byte(`{"broken": `),
	})
	require.Error(t, err)
}

func TestJSONScalarFieldsBecomeKeyValues(t *testing.T) {
	result := extractJSON(t, `{"name": "alice", "age": 30, "active": true}`)

	kvs := elementsOfType(result, domain.ElementKeyValue)
	require.Len(t, kvs, 1)
	pairs := kvs[0].Content.(map[string]interface{})
	assert.Equal(t, "alice", pairs["name"])
	assert.Equal(t, float64(30), pairs["age"])
	assert.Equal(t, true, pairs["active"])
}

func TestJSONRecordArrayBecomesTable(t *testing.T) {
	result := extractJSON(t, `{"users": [
		{"name": "alice", "age": 30},
		{"name": "bob", "age": 25}
	]}`)

	tables := elementsOfType(result, domain.ElementTable)
	require.Len(t, tables, 1)
	tc := tables[0].Content.(domain.TableContent)
	assert.Equal(t, "json_records", tc.Format)
	assert.Equal(t, []string{"age", "name"}, tc.Headers)
	require.Len(t, tc.Rows, 2)
	assert.Equal(t, []string{"30", "alice"}, tc.Rows[0])
}

func TestJSONMixedArrayStaysArray(t *testing.T) {
	result := extractJSON(t, `{"values": [1, "two", {"three": 3}]}`)

	arrays := elementsOfType(result, domain.ElementArray)
	require.Len(t, arrays, 1)
	assert.Equal(t, 3, arrays[0].Metadata["length"])
	assert.Empty(t, elementsOfType(result, domain.ElementTable))
}

func TestJSONNestedObject(t *testing.T) {
	result := extractJSON(t, `{"meta": {"version": 2, "author": "x"}, "title": "doc"}`)

	objects := elementsOfType(result, domain.ElementObject)
	require.Len(t, objects, 1)
	assert.Equal(t, "$.meta", objects[0].Metadata["path"])

	kvs := elementsOfType(result, domain.ElementKeyValue)
	require.Len(t, kvs, 1)
	assert.Equal(t, "doc", kvs[0].Content.(map[string]interface{})["title"])
}

func TestJSONTopLevelPrimitive(t *testing.T) {
	result := extractJSON(t, `"hello"`)

	prims := elementsOfType(result, domain.ElementPrimitive)
	require.Len(t, prims, 1)
	assert.Equal(t, "hello", prims[0].Content)
}

func TestJSONRawTextIsPrettyPrinted(t *testing.T) {
	result := extractJSON(t, `{"a":1}`)
	assert.Contains(t, result.RawText, "\n")
	assert.Contains(t, result.RawText, `"a": 1`)
}
