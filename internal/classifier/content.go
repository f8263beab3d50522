package classifier

import (
	"encoding/json"
	"regexp"
	"strings"

	"github.com/ShriniwasAhirrao/MetaStitch/internal/domain"
)

const (
	sizeModerate = 50 * 1024
	sizeLarge    = 100 * 1024

	imageSizeModerate = 2 * 1024 * 1024
	imageSizeLarge    = 5 * 1024 * 1024

	pdfSizeModerate = 5 * 1024 * 1024
	pdfSizeLarge    = 10 * 1024 * 1024
)

var timestampPatterns = map[string]*regexp.Regexp{
	"iso8601":  regexp.MustCompile(`\d{4}-\d{2}-\d{2}[T ]\d{2}:\d{2}:\d{2}`),
	"apache":   regexp.MustCompile(`\d{2}/[A-Z][a-z]{2}/\d{4}:\d{2}:\d{2}:\d{2}`),
	"syslog":   regexp.MustCompile(`[A-Z][a-z]{2}\s+\d{1,2}\s\d{2}:\d{2}:\d{2}`),
	"unix_ms":  regexp.MustCompile(`\b1\d{12}\b`),
	"time_only": regexp.MustCompile(`^\d{2}:\d{2}:\d{2}`),
}

var htmlTagRe = regexp.MustCompile(`<[a-zA-Z][^>]*>`)

// ContentAnalyzer scores how complex an input is to extract.
type ContentAnalyzer struct{}

// NewContentAnalyzer creates a ContentAnalyzer.
func NewContentAnalyzer() *ContentAnalyzer {
	return &ContentAnalyzer{}
}

// ComplexityAnalysis is the analyzer's scoring output.
type ComplexityAnalysis struct {
	Score   float64
	Level   domain.ComplexityLevel
	Details map[string]interface{}
}

// Analyze scores the content by file type. Higher scores mean harder inputs
// and push routing toward the hybrid and OCR pipelines.
func (a *ContentAnalyzer) Analyze(ft domain.FileType, content []byte) ComplexityAnalysis {
	var score float64
	details := map[string]interface{}{}

	switch ft {
	case domain.FileTypeTXT:
		score = a.textScore(content, details)
	case domain.FileTypeHTML:
		score = a.htmlScore(content, details)
	case domain.FileTypeJSON:
		score = a.jsonScore(content, details)
	case domain.FileTypeLOG:
		score = a.logScore(content, details)
	case domain.FileTypePNG, domain.FileTypeJPG:
		score = a.imageScore(int64(len(content)), details)
	case domain.FileTypePDF:
		score = a.pdfScore(int64(len(content)), details)
	case domain.FileTypeDOCX:
		score = 0.7
	default:
		score = 0.5
	}

	score = clamp(score)
	return ComplexityAnalysis{
		Score:   score,
		Level:   LevelForScore(score),
		Details: details,
	}
}

// LevelForScore buckets a complexity score into a level.
func LevelForScore(score float64) domain.ComplexityLevel {
	switch {
	case score < 0.6:
		return domain.ComplexitySimple
	case score < 0.8:
		return domain.ComplexityModerate
	default:
		return domain.ComplexityComplex
	}
}

func (a *ContentAnalyzer) textScore(content []byte, details map[string]interface{}) float64 {
	text := string(content)
	score := 0.1
	switch {
	case len(content) > sizeLarge:
		score = 0.3
	case len(content) > sizeModerate:
		score = 0.2
	}
	details["size_bytes"] = len(content)

	indicators := 0
	if regexp.MustCompile(`(?m)^#{1,6}\s`).MatchString(text) ||
		regexp.MustCompile(`(?m)^\S.*\n[=-]{3,}\s*$`).MatchString(text) {
		score += 0.1
		indicators++
		details["has_headers"] = true
	}
	if regexp.MustCompile(`(?m)^\s*[-*+]\s`).MatchString(text) ||
		regexp.MustCompile(`(?m)^\s*\d+\.\s`).MatchString(text) {
		score += 0.1
		indicators++
		details["has_lists"] = true
	}
	if strings.Contains(text, "|") || regexp.MustCompile(`(?m)^\s*\S+(\s{2,}\S+){2,}\s*$`).MatchString(text) {
		score += 0.1
		indicators++
		details["has_tables"] = true
	}
	if strings.Contains(text, "```") {
		score += 0.1
		indicators++
		details["has_code_blocks"] = true
	}
	details["structure_indicators"] = indicators
	return score
}

func (a *ContentAnalyzer) htmlScore(content []byte, details map[string]interface{}) float64 {
	text := string(content)
	tags := len(htmlTagRe.FindAllString(text, -1))
	details["tag_count"] = tags

	score := 0.1
	switch {
	case tags > 500:
		score = 0.3
	case tags > 100:
		score = 0.2
	}
	lower := strings.ToLower(text)
	for _, tag := range []string{"<table", "<script", "<style"} {
		if strings.Contains(lower, tag) {
			score += 0.1
			details["has_"+strings.TrimPrefix(tag, "<")] = true
		}
	}
	return score
}

func (a *ContentAnalyzer) jsonScore(content []byte, details map[string]interface{}) float64 {
	var value interface{}
	if err := json.Unmarshal(content, &value); err != nil {
		details["valid_json"] = false
		return 0.4
	}
	details["valid_json"] = true

	depth, keys := measureJSON(value, 1)
	details["max_depth"] = depth
	details["key_count"] = keys

	score := 0.1
	switch {
	case depth > 5:
		score = 0.3
	case depth > 3:
		score = 0.2
	}
	switch {
	case keys > 100:
		score += 0.2
	case keys > 50:
		score += 0.1
	}
	return score
}

// measureJSON walks a decoded JSON value and returns its maximum nesting
// depth and total object key count.
func measureJSON(value interface{}, depth int) (maxDepth, keys int) {
	maxDepth = depth
	switch v := value.(type) {
	case map[string]interface{}:
		keys = len(v)
		for _, child := range v {
			d, k := measureJSON(child, depth+1)
			if d > maxDepth {
				maxDepth = d
			}
			keys += k
		}
	case []interface{}:
		for _, child := range v {
			d, k := measureJSON(child, depth+1)
			if d > maxDepth {
				maxDepth = d
			}
			keys += k
		}
	}
	return maxDepth, keys
}

func (a *ContentAnalyzer) logScore(content []byte, details map[string]interface{}) float64 {
	text := string(content)
	lines := strings.Count(text, "\n") + 1
	details["line_count"] = lines

	score := 0.1
	switch {
	case lines > 10000:
		score = 0.3
	case lines > 1000:
		score = 0.2
	}

	formats := 0
	for name, re := range timestampPatterns {
		if re.MatchString(text) {
			formats++
			details["timestamp_"+name] = true
		}
	}
	details["timestamp_formats"] = formats
	score += 0.05 * float64(formats)
	return score
}

func (a *ContentAnalyzer) imageScore(size int64, details map[string]interface{}) float64 {
	details["size_bytes"] = size
	switch {
	case size > imageSizeLarge:
		return 0.7
	case size > imageSizeModerate:
		return 0.5
	}
	return 0.3
}

func (a *ContentAnalyzer) pdfScore(size int64, details map[string]interface{}) float64 {
	details["size_bytes"] = size
	switch {
	case size > pdfSizeLarge:
		return 0.8
	case size > pdfSizeModerate:
		return 0.7
	}
	return 0.6
}

func clamp(score float64) float64 {
	if score < 0 {
		return 0
	}
	if score > 1 {
		return 1
	}
	return score
}
