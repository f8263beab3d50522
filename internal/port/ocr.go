package port

import "context"

// OCRText is the recognized text for a single page or region.
type OCRText struct {
	Text       string
	Confidence float64
}

// OCREngine abstracts the optical character recognition backend.
type OCREngine interface {
	// Recognize runs OCR over the image bytes and returns the recognized text.
	Recognize(ctx context.Context, image []byte) (*OCRText, error)
	// Close releases engine resources.
	Close() error
}
