package extractor

import (
	"math"
	"regexp"
	"strings"
	"time"

	"github.com/ShriniwasAhirrao/MetaStitch/internal/domain"
	"github.com/ShriniwasAhirrao/MetaStitch/internal/port"
)

var wordRe = regexp.MustCompile(`\S+`)

// contentStatistics computes line, word, character and paragraph counts.
func contentStatistics(text string) domain.ContentStatistics {
	paragraphs := 0
	for _, block := range strings.Split(text, "\n\n") {
		if strings.TrimSpace(block) != "" {
			paragraphs++
		}
	}
	return domain.ContentStatistics{
		Lines:      strings.Count(text, "\n") + 1,
		Words:      len(wordRe.FindAllString(text, -1)),
		Characters: len(text),
		Paragraphs: paragraphs,
	}
}

// resultMetadata builds the common metadata block for an extraction result.
func resultMetadata(in port.ExtractInput, rawText string) domain.ResultMetadata {
	return domain.ResultMetadata{
		SourceFile:  in.FileName,
		FileType:    in.FileType,
		FileSize:    int64(len(in.Content)),
		Encoding:    in.Encoding,
		ExtractedAt: time.Now().UTC(),
		Statistics:  contentStatistics(rawText),
	}
}

// resultConfidence scores an extraction from its element confidences.
// A 0.8 base is averaged with the mean element confidence, nudged up for
// rich extractions and down for sparse ones.
func resultConfidence(elements []domain.StructuredElement) float64 {
	const base = 0.8
	conf := base
	if len(elements) > 0 {
		var sum float64
		for _, el := range elements {
			sum += el.Confidence
		}
		conf = (base + sum/float64(len(elements))) / 2
	}
	if len(elements) > 10 {
		conf += 0.1
	} else if len(elements) < 3 {
		conf -= 0.1
	}
	if conf > 1.0 {
		conf = 1.0
	}
	if conf < 0.1 {
		conf = 0.1
	}
	return round2(conf)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
