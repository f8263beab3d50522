package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/ShriniwasAhirrao/MetaStitch/internal/domain"
)

// UTF-8 BOM bytes for Excel compatibility on Windows.
var BOM = []byte{0xEF, 0xBB, 0xBF}

// elementColumns defines the element sheet header row.
var elementColumns = []string{
	"Position",
	"Type",
	"Confidence",
	"Content",
}

// entityColumns defines the entity sheet header row.
var entityColumns = []string{
	"Type",
	"Value",
	"Element Position",
	"Confidence",
}

// CSVWriter exports a structured document as CSV.
type CSVWriter struct {
	csv *csv.Writer
}

// NewCSVWriter creates a CSVWriter that writes to w. The BOM should be
// written by the caller before the first row.
func NewCSVWriter(w io.Writer) *CSVWriter {
	return &CSVWriter{csv: csv.NewWriter(w)}
}

// WriteDocument writes the element rows followed by a blank row and the
// entity rows.
func (w *CSVWriter) WriteDocument(doc *domain.StructuredDocument) error {
	if err := w.csv.Write(elementColumns); err != nil {
		return fmt.Errorf("csv header: %w", err)
	}
	for _, el := range doc.Elements {
		row := []string{
			strconv.Itoa(el.Position),
			string(el.Type),
			formatFloat(el.Confidence),
			elementSummary(el),
		}
		if err := w.csv.Write(row); err != nil {
			return fmt.Errorf("csv element row: %w", err)
		}
	}

	if len(doc.Analysis.Entities) > 0 {
		if err := w.csv.Write([]string{}); err != nil {
			return fmt.Errorf("csv separator: %w", err)
		}
		if err := w.csv.Write(entityColumns); err != nil {
			return fmt.Errorf("csv entity header: %w", err)
		}
		for _, ent := range doc.Analysis.Entities {
			row := []string{
				ent.Type,
				ent.Value,
				strconv.Itoa(ent.Position),
				formatFloat(ent.Confidence),
			}
			if err := w.csv.Write(row); err != nil {
				return fmt.Errorf("csv entity row: %w", err)
			}
		}
	}

	w.csv.Flush()
	return w.csv.Error()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
