package extractor

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/ShriniwasAhirrao/MetaStitch/internal/domain"
	"github.com/ShriniwasAhirrao/MetaStitch/internal/port"
)

const (
	circuitFailureLimit = 3
	circuitCooldown     = 30 * time.Second
)

// circuitState tracks consecutive failures for a single strategy.
type circuitState struct {
	mu       sync.RWMutex
	failures int
	resetAt  time.Time // zero value = closed (healthy)
}

func (c *circuitState) isOpen(now time.Time) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return !c.resetAt.IsZero() && now.Before(c.resetAt)
}

func (c *circuitState) recordFailure(now time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.failures++
	if c.failures >= circuitFailureLimit {
		c.resetAt = now.Add(circuitCooldown)
		c.failures = 0
	}
}

func (c *circuitState) recordSuccess() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.failures = 0
	c.resetAt = time.Time{}
}

// FallbackExtractor tries strategies in order, skipping those with open
// circuits. It implements port.Extractor.
type FallbackExtractor struct {
	extractors []port.Extractor
	circuits   []*circuitState
}

// NewFallbackExtractor creates a FallbackExtractor from an ordered list of
// strategies.
func NewFallbackExtractor(extractors []port.Extractor) *FallbackExtractor {
	circuits := make([]*circuitState, len(extractors))
	for i := range circuits {
		circuits[i] = &circuitState{}
	}
	return &FallbackExtractor{extractors: extractors, circuits: circuits}
}

func (f *FallbackExtractor) Name() string { return "fallback" }

func (f *FallbackExtractor) Supports(ft domain.FileType) bool {
	for _, ex := range f.extractors {
		if ex.Supports(ft) {
			return true
		}
	}
	return false
}

func (f *FallbackExtractor) Extract(ctx context.Context, in port.ExtractInput) (*domain.ExtractionResult, error) {
	now := time.Now()
	var lastErr error

	for i, ex := range f.extractors {
		if f.circuits[i].isOpen(now) {
			log.Printf("extractor.FallbackExtractor: skipping %s (circuit open)", ex.Name())
			continue
		}

		out, err := ex.Extract(ctx, in)
		if err == nil {
			f.circuits[i].recordSuccess()
			if i > 0 {
				out.Method = fmt.Sprintf("%s_fallback", out.Method)
			}
			return out, nil
		}

		log.Printf("extractor.FallbackExtractor: %s failed on %s: %v", ex.Name(), in.FileName, err)
		f.circuits[i].recordFailure(now)
		lastErr = err
	}

	if lastErr == nil {
		return nil, fmt.Errorf("all extraction strategies skipped: %w", domain.ErrExtraction)
	}
	return nil, fmt.Errorf("all extraction strategies failed: %w", lastErr)
}
