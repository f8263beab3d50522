package extractor

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/otiai10/gosseract/v2"

	"github.com/ShriniwasAhirrao/MetaStitch/internal/config"
	"github.com/ShriniwasAhirrao/MetaStitch/internal/port"
)

// TesseractEngine implements port.OCREngine over a gosseract client.
// The underlying client is not safe for concurrent use, so calls are
// serialized.
type TesseractEngine struct {
	mu     sync.Mutex
	client *gosseract.Client
}

// NewTesseractEngine creates a Tesseract-backed OCR engine.
func NewTesseractEngine(cfg config.OCRConfig) (*TesseractEngine, error) {
	client := gosseract.NewClient()
	langs := strings.Split(cfg.Languages, "+")
	if err := client.SetLanguage(langs...); err != nil {
		client.Close()
		return nil, fmt.Errorf("NewTesseractEngine: setting languages %q: %w", cfg.Languages, err)
	}
	if cfg.PageSegMode > 0 {
		if err := client.SetPageSegMode(gosseract.PageSegMode(cfg.PageSegMode)); err != nil {
			client.Close()
			return nil, fmt.Errorf("NewTesseractEngine: setting page seg mode %d: %w", cfg.PageSegMode, err)
		}
	}
	return &TesseractEngine{client: client}, nil
}

func (t *TesseractEngine) Recognize(ctx context.Context, image []byte) (*port.OCRText, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("TesseractEngine.Recognize: %w", err)
	}
	t.mu.Lock()
	defer t.mu.Unlock()

	if err := t.client.SetImageFromBytes(image); err != nil {
		return nil, fmt.Errorf("TesseractEngine.Recognize: setting image: %w", err)
	}
	text, err := t.client.Text()
	if err != nil {
		return nil, fmt.Errorf("TesseractEngine.Recognize: %w", err)
	}

	confidence := 0.5
	if boxes, err := t.client.GetBoundingBoxes(gosseract.RIL_TEXTLINE); err == nil && len(boxes) > 0 {
		var sum float64
		for _, box := range boxes {
			sum += box.Confidence
		}
		confidence = sum / float64(len(boxes)) / 100
	}
	return &port.OCRText{Text: text, Confidence: confidence}, nil
}

func (t *TesseractEngine) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.client.Close()
}
