package extractor

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/ShriniwasAhirrao/MetaStitch/internal/domain"
	"github.com/ShriniwasAhirrao/MetaStitch/internal/port"
)

var (
	apacheCommonRe = regexp.MustCompile(`^(\S+) \S+ (\S+) \[([^\]]+)\] "(\S+) (\S+) ([^"]*)" (\d{3}) (\S+)`)
	nginxAccessRe  = regexp.MustCompile(`^(\S+) - (\S+) \[([^\]]+)\] "(\S+) (\S+) ([^"]*)" (\d{3}) (\d+) "([^"]*)" "([^"]*)"`)
	syslog3164Re   = regexp.MustCompile(`^([A-Z][a-z]{2}\s+\d{1,2} \d{2}:\d{2}:\d{2}) (\S+) ([\w\-./]+)(?:\[(\d+)\])?: (.*)$`)
	syslog5424Re   = regexp.MustCompile(`^<(\d{1,3})>(\d) (\S+) (\S+) (\S+) (\S+) (\S+) (.*)$`)
	isoTimestampRe = regexp.MustCompile(`(\d{4}-\d{2}-\d{2}[T ]\d{2}:\d{2}:\d{2}(?:[.,]\d+)?(?:Z|[+-]\d{2}:?\d{2})?)`)
	genericTimeRe  = regexp.MustCompile(`(\d{2}/\d{2}/\d{4} \d{2}:\d{2}:\d{2}|\d{2}:\d{2}:\d{2})`)
	jsonLineRe     = regexp.MustCompile(`^\{.*\}$`)
	logLevelRe     = regexp.MustCompile(`(?i)\b(DEBUG|INFO|WARN|WARNING|ERROR|FATAL|TRACE|CRITICAL)\b`)
	ipv4Re         = regexp.MustCompile(`\b(?:\d{1,3}\.){3}\d{1,3}\b`)
	stackFrameRe   = regexp.MustCompile(`^\s+(at\s|File ")`)
)

var errorKeywords = []string{"exception", "failed", "failure", "timeout", "refused", "panic", "denied"}

const apacheTimeLayout = "02/Jan/2006:15:04:05 -0700"

// LogExtractor parses log files line by line, recognizing common access log
// and syslog formats, JSON lines, and free-form lines with timestamps and
// levels.
type LogExtractor struct{}

// NewLogExtractor creates a LogExtractor.
func NewLogExtractor() *LogExtractor {
	return &LogExtractor{}
}

func (e *LogExtractor) Name() string { return "log_parser" }

func (e *LogExtractor) Supports(ft domain.FileType) bool {
	return ft == domain.FileTypeLOG
}

func (e *LogExtractor) Extract(ctx context.Context, in port.ExtractInput) (*domain.ExtractionResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("LogExtractor.Extract: %w", err)
	}
	text := string(in.Content)
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("LogExtractor.Extract: %s: %w", in.FileName, domain.ErrEmptyContent)
	}

	entries := []domain.LogEntry{}
	levelCounts := map[string]int{}
	formatCounts := map[string]int{}
	ips := map[string]bool{}
	errorLines := []string{}
	stackFrames := 0
	var firstTS, lastTS *time.Time

	for i, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		if stackFrameRe.MatchString(line) && len(entries) > 0 {
			// Stack trace continuation folds into the previous entry.
			stackFrames++
			entries[len(entries)-1].Message += "\n" + line
			continue
		}

		entry, format := parseLogLine(line)
		entry.LineNumber = i + 1
		formatCounts[format]++

		if entry.Level != "" {
			levelCounts[entry.Level]++
		}
		if entry.Timestamp != nil {
			if firstTS == nil || entry.Timestamp.Before(*firstTS) {
				firstTS = entry.Timestamp
			}
			if lastTS == nil || entry.Timestamp.After(*lastTS) {
				lastTS = entry.Timestamp
			}
		}
		if ip := entry.Fields["ip"]; ip != "" {
			ips[ip] = true
		}
		if isErrorLine(entry) {
			errorLines = append(errorLines, entry.Message)
		}
		entries = append(entries, entry)
	}

	patterns := map[string]interface{}{
		"entry_count":        len(entries),
		"level_distribution": levelCounts,
		"format_distribution": formatCounts,
		"unique_ips":         len(ips),
		"error_count":        len(errorLines),
		"stack_frames":       stackFrames,
	}
	if firstTS != nil && lastTS != nil {
		patterns["time_range"] = map[string]string{
			"start": firstTS.Format(time.RFC3339),
			"end":   lastTS.Format(time.RFC3339),
		}
	}

	elements := []domain.StructuredElement{{
		Type:       domain.ElementLogGroup,
		Content:    entries,
		Position:   0,
		Confidence: logConfidence(entries, formatCounts),
		Metadata:   patterns,
	}}

	meta := resultMetadata(in, text)
	meta.Patterns = patterns
	return &domain.ExtractionResult{
		Metadata:   meta,
		RawText:    text,
		Elements:   elements,
		Method:     e.Name(),
		Confidence: elements[0].Confidence,
	}, nil
}

// parseLogLine tries the structured formats first, then timestamped
// free-form, then bare text.
func parseLogLine(line string) (domain.LogEntry, string) {
	if m := nginxAccessRe.FindStringSubmatch(line); m != nil {
		entry := domain.LogEntry{
			Message: line,
			Fields: map[string]string{
				"ip": m[1], "user": m[2], "method": m[4],
				"path": m[5], "status": m[7], "bytes": m[8],
				"referer": m[9], "user_agent": m[10],
			},
		}
		if ts, err := time.Parse(apacheTimeLayout, m[3]); err == nil {
			entry.Timestamp = &ts
		}
		return entry, "nginx_access"
	}
	if m := apacheCommonRe.FindStringSubmatch(line); m != nil {
		entry := domain.LogEntry{
			Message: line,
			Fields: map[string]string{
				"ip": m[1], "user": m[2], "method": m[4],
				"path": m[5], "status": m[7], "bytes": m[8],
			},
		}
		if ts, err := time.Parse(apacheTimeLayout, m[3]); err == nil {
			entry.Timestamp = &ts
		}
		return entry, "apache_common"
	}
	if m := syslog5424Re.FindStringSubmatch(line); m != nil {
		entry := domain.LogEntry{
			Message: m[8],
			Fields:  map[string]string{"host": m[4], "app": m[5], "priority": m[1]},
		}
		if ts, err := time.Parse(time.RFC3339, m[3]); err == nil {
			entry.Timestamp = &ts
		}
		entry.Level = extractLevel(line)
		return entry, "syslog_rfc5424"
	}
	if m := syslog3164Re.FindStringSubmatch(line); m != nil {
		entry := domain.LogEntry{
			Message: m[5],
			Fields:  map[string]string{"host": m[2], "app": m[3]},
		}
		if m[4] != "" {
			entry.Fields["pid"] = m[4]
		}
		if ts, err := time.Parse(time.Stamp, m[1]); err == nil {
			ts = ts.AddDate(time.Now().Year(), 0, 0)
			entry.Timestamp = &ts
		}
		entry.Level = extractLevel(line)
		return entry, "syslog_rfc3164"
	}
	if jsonLineRe.MatchString(strings.TrimSpace(line)) {
		var obj map[string]interface{}
		if err := json.Unmarshal([]byte(line), &obj); err == nil {
			entry := domain.LogEntry{Message: line, Fields: map[string]string{}}
			for _, key := range []string{"level", "severity"} {
				if v, ok := obj[key].(string); ok {
					entry.Level = strings.ToUpper(v)
					break
				}
			}
			if v, ok := obj["message"].(string); ok {
				entry.Message = v
			} else if v, ok := obj["msg"].(string); ok {
				entry.Message = v
			}
			for _, key := range []string{"timestamp", "time", "ts"} {
				if v, ok := obj[key].(string); ok {
					if ts, err := time.Parse(time.RFC3339, v); err == nil {
						entry.Timestamp = &ts
					}
					break
				}
			}
			return entry, "json"
		}
	}

	entry := domain.LogEntry{Message: line, Level: extractLevel(line)}
	format := "unstructured"
	if m := isoTimestampRe.FindStringSubmatch(line); m != nil {
		if ts, ok := parseISOTimestamp(m[1]); ok {
			entry.Timestamp = &ts
			format = "timestamped"
		}
	} else if genericTimeRe.MatchString(line) {
		format = "timestamped"
	}
	if ip := ipv4Re.FindString(line); ip != "" {
		entry.Fields = map[string]string{"ip": ip}
	}
	return entry, format
}

func parseISOTimestamp(s string) (time.Time, bool) {
	s = strings.Replace(s, ",", ".", 1)
	for _, layout := range []string{
		time.RFC3339Nano,
		time.RFC3339,
		"2006-01-02T15:04:05.999",
		"2006-01-02T15:04:05",
		"2006-01-02 15:04:05.999",
		"2006-01-02 15:04:05",
	} {
		if ts, err := time.Parse(layout, s); err == nil {
			return ts, true
		}
	}
	return time.Time{}, false
}

func extractLevel(line string) string {
	m := logLevelRe.FindString(line)
	if m == "" {
		return ""
	}
	level := strings.ToUpper(m)
	if level == "WARNING" {
		level = "WARN"
	}
	return level
}

func isErrorLine(entry domain.LogEntry) bool {
	switch entry.Level {
	case "ERROR", "FATAL", "CRITICAL":
		return true
	}
	lower := strings.ToLower(entry.Message)
	for _, kw := range errorKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	if status := entry.Fields["status"]; len(status) == 3 && (status[0] == '4' || status[0] == '5') {
		return true
	}
	return false
}

// logConfidence reflects how many lines matched a known format.
func logConfidence(entries []domain.LogEntry, formats map[string]int) float64 {
	if len(entries) == 0 {
		return 0.1
	}
	structured := 0
	for format, n := range formats {
		if format != "unstructured" {
			structured += n
		}
	}
	ratio := float64(structured) / float64(len(entries))
	return round2(0.5 + 0.5*ratio)
}
