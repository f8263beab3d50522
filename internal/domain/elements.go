package domain

import (
	"encoding/json"
	"time"
)

// StructuredElement is one unit of structured content pulled from a document.
// Content holds a type-specific payload: a string for headings, paragraphs and
// code blocks, TableContent for tables, ListContent for lists, a map for
// key-value sections.
type StructuredElement struct {
	Type       ElementType            `json:"type"`
	Content    interface{}            `json:"content"`
	Position   int                    `json:"position"`
	Confidence float64                `json:"confidence"`
	Metadata   map[string]interface{} `json:"metadata,omitempty"`
}

// TableContent is the payload of a table element.
type TableContent struct {
	Headers []string   `json:"headers"`
	Rows    [][]string `json:"rows"`
	Format  string     `json:"format"` // delimited, whitespace_aligned, html, json_records
}

// ListContent is the payload of a list element.
type ListContent struct {
	ListType string     `json:"list_type"` // bulleted, numbered
	Items    []ListItem `json:"items"`
}

// ListItem is a single list entry, possibly nested.
type ListItem struct {
	Text     string     `json:"text"`
	Marker   string     `json:"marker,omitempty"`
	Children []ListItem `json:"children,omitempty"`
}

// LogEntry is a single parsed log line.
type LogEntry struct {
	LineNumber int        `json:"line_number"`
	Timestamp  *time.Time `json:"timestamp,omitempty"`
	Level      string     `json:"level,omitempty"`
	Message    string     `json:"message"`
	Fields     map[string]string `json:"fields,omitempty"`
}

// ExtractionResult is the unified output of an extraction strategy.
type ExtractionResult struct {
	Metadata   ResultMetadata      `json:"metadata"`
	RawText    string              `json:"raw_text"`
	Elements   []StructuredElement `json:"elements"`
	Method     string              `json:"method"`
	Confidence float64             `json:"confidence"`
}

// ResultMetadata describes the source file and content statistics of a result.
type ResultMetadata struct {
	SourceFile  string                 `json:"source_file"`
	FileType    FileType               `json:"file_type"`
	FileSize    int64                  `json:"file_size"`
	Encoding    string                 `json:"encoding,omitempty"`
	ExtractedAt time.Time              `json:"extracted_at"`
	Statistics  ContentStatistics      `json:"statistics"`
	Patterns    map[string]interface{} `json:"detected_patterns,omitempty"`
}

// ContentStatistics holds basic counts over the raw content.
type ContentStatistics struct {
	Lines      int `json:"line_count"`
	Words      int `json:"word_count"`
	Characters int `json:"character_count"`
	Paragraphs int `json:"paragraph_count"`
}

// ClassificationResult is the outcome of classifying an input file.
type ClassificationResult struct {
	FileType        FileType               `json:"file_type"`
	Pipeline        PipelineType           `json:"recommended_pipeline"`
	Confidence      float64                `json:"confidence"`
	ComplexityScore float64                `json:"complexity_score"`
	ComplexityLevel ComplexityLevel        `json:"complexity_level"`
	RequiresHybrid  bool                   `json:"requires_hybrid"`
	Reasoning       string                 `json:"reasoning"`
	Analysis        map[string]interface{} `json:"analysis_details,omitempty"`
}

// Entity is a typed span of text found during context analysis.
type Entity struct {
	Type       string  `json:"type"` // email, url, ip, date, money, phone, percent, name
	Value      string  `json:"value"`
	Position   int     `json:"position"` // element position the entity was found in
	Confidence float64 `json:"confidence"`
}

// Relationship links two entities discovered in the same context.
type Relationship struct {
	Source   string  `json:"source"`
	Target   string  `json:"target"`
	Kind     string  `json:"kind"` // co_occurrence, key_value
	Position int     `json:"position"`
	Weight   float64 `json:"weight"`
}

// Section is one node of the generated document outline.
type Section struct {
	Title    string `json:"title"`
	Level    int    `json:"level"`
	Start    int    `json:"start"` // position of the first element in the section
	End      int    `json:"end"`   // position after the last element
	Elements int    `json:"element_count"`
}

// AnalysisResult carries the context-analysis additions over an extraction.
type AnalysisResult struct {
	Entities      []Entity       `json:"entities"`
	Relationships []Relationship `json:"relationships"`
	Sections      []Section      `json:"sections"`
	Intent        string         `json:"intent"`
	IntentScore   float64        `json:"intent_score"`
	Tags          []string       `json:"semantic_tags,omitempty"`
}

// QualityReport summarizes the structuring stage's quality assessment.
type QualityReport struct {
	Score           float64  `json:"quality_score"`
	IsValid         bool     `json:"is_valid"`
	Issues          []string `json:"issues,omitempty"`
	Recommendations []string `json:"recommendations,omitempty"`
}

// RuleResult is the outcome of one validation rule.
type RuleResult struct {
	RuleKey   string             `json:"rule_key"`
	Passed    bool               `json:"passed"`
	Severity  ValidationSeverity `json:"severity"`
	FieldPath string             `json:"field_path,omitempty"`
	Expected  string             `json:"expected_value,omitempty"`
	Actual    string             `json:"actual_value,omitempty"`
	Message   string             `json:"message,omitempty"`
}

// StructuredDocument is the canonical final output of the pipeline.
type StructuredDocument struct {
	Metadata       ResultMetadata      `json:"metadata"`
	Classification ClassificationResult `json:"classification"`
	RawText        string              `json:"raw_text"`
	Elements       []StructuredElement `json:"elements"`
	Analysis       AnalysisResult      `json:"analysis"`
	Quality        QualityReport       `json:"quality"`
	Validation     ValidationStatus    `json:"validation_status"`
	RuleResults    []RuleResult        `json:"rule_results,omitempty"`
	Method         string              `json:"method"`
	Confidence     float64             `json:"confidence"`
	ProcessedAt    time.Time           `json:"processed_at"`
}

// JSON marshals the document for persistence.
func (d *StructuredDocument) JSON() (json.RawMessage, error) {
	return json.Marshal(d)
}
