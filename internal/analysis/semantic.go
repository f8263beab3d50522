package analysis

import (
	"sort"
	"strings"
)

// intentKeywords maps a document intent to its signal words.
var intentKeywords = map[string][]string{
	"financial":      {"invoice", "payment", "total", "amount", "tax", "price", "balance", "account"},
	"technical":      {"error", "exception", "server", "api", "config", "deploy", "request", "debug"},
	"report":         {"summary", "analysis", "findings", "conclusion", "results", "overview", "metrics"},
	"correspondence": {"dear", "regards", "sincerely", "hello", "thanks", "meeting", "schedule"},
	"legal":          {"agreement", "contract", "terms", "liability", "clause", "party", "hereby"},
}

var stopWords = map[string]bool{
	"the": true, "and": true, "for": true, "with": true, "that": true,
	"this": true, "from": true, "have": true, "are": true,
	"was": true, "were": true, "will": true, "not": true, "has": true,
	"but": true, "you": true, "all": true, "can": true, "their": true,
}

// SemanticAnalyzer derives document intent and rough topic tags from text.
type SemanticAnalyzer struct{}

// NewSemanticAnalyzer creates a SemanticAnalyzer.
func NewSemanticAnalyzer() *SemanticAnalyzer {
	return &SemanticAnalyzer{}
}

// Intent scores each known intent by keyword hits and returns the best one.
// The score is the hit ratio of the winning intent's keyword list.
func (s *SemanticAnalyzer) Intent(rawText string) (string, float64) {
	lower := strings.ToLower(rawText)

	best := "general"
	bestScore := 0.0
	for intent, words := range intentKeywords {
		hits := 0
		for _, w := range words {
			if strings.Contains(lower, w) {
				hits++
			}
		}
		score := float64(hits) / float64(len(words))
		if score > bestScore {
			best = intent
			bestScore = score
		}
	}
	if bestScore < 0.2 {
		return "general", bestScore
	}
	return best, bestScore
}

// Tags returns the most frequent non-trivial words as topic tags.
func (s *SemanticAnalyzer) Tags(rawText string, limit int) []string {
	counts := map[string]int{}
	for _, word := range strings.Fields(strings.ToLower(rawText)) {
		word = strings.Trim(word, ".,;:!?\"'()[]{}")
		if len(word) < 4 || stopWords[word] {
			continue
		}
		counts[word]++
	}

	type wc struct {
		word  string
		count int
	}
	ranked := make([]wc, 0, len(counts))
	for w, c := range counts {
		if c > 1 {
			ranked = append(ranked, wc{w, c})
		}
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].count != ranked[j].count {
			return ranked[i].count > ranked[j].count
		}
		return ranked[i].word < ranked[j].word
	})

	tags := make([]string, 0, limit)
	for _, r := range ranked {
		if len(tags) >= limit {
			break
		}
		tags = append(tags, r.word)
	}
	return tags
}
