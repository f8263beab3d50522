package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/ShriniwasAhirrao/MetaStitch/internal/domain"
)

// XLSXWriter exports a structured document as an Excel workbook with one
// sheet per concern: overview, elements, tables and entities.
type XLSXWriter struct{}

// NewXLSXWriter creates an XLSXWriter.
func NewXLSXWriter() *XLSXWriter {
	return &XLSXWriter{}
}

// WriteDocument renders the document into a workbook and writes it to w.
func (x *XLSXWriter) WriteDocument(w io.Writer, doc *domain.StructuredDocument) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := x.overviewSheet(f, doc); err != nil {
		return err
	}
	if err := x.elementsSheet(f, doc); err != nil {
		return err
	}
	if err := x.tableSheets(f, doc); err != nil {
		return err
	}
	if err := x.entitiesSheet(f, doc); err != nil {
		return err
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("xlsx write: %w", err)
	}
	return nil
}

func (x *XLSXWriter) overviewSheet(f *excelize.File, doc *domain.StructuredDocument) error {
	const sheet = "Overview"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return fmt.Errorf("xlsx overview: %w", err)
	}
	rows := [][]interface{}{
		{"Source File", doc.Metadata.SourceFile},
		{"File Type", string(doc.Metadata.FileType)},
		{"File Size", doc.Metadata.FileSize},
		{"Pipeline", string(doc.Classification.Pipeline)},
		{"Method", doc.Method},
		{"Complexity", string(doc.Classification.ComplexityLevel)},
		{"Confidence", doc.Confidence},
		{"Quality Score", doc.Quality.Score},
		{"Validation", string(doc.Validation)},
		{"Intent", doc.Analysis.Intent},
		{"Processed At", doc.ProcessedAt.Format("2006-01-02 15:04:05")},
	}
	for i, row := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("xlsx overview row: %w", err)
		}
	}
	return nil
}

func (x *XLSXWriter) elementsSheet(f *excelize.File, doc *domain.StructuredDocument) error {
	const sheet = "Elements"
	if _, err := f.NewSheet(sheet); err != nil {
		return fmt.Errorf("xlsx elements: %w", err)
	}
	header := []interface{}{"Position", "Type", "Confidence", "Content"}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("xlsx elements header: %w", err)
	}
	for i, el := range doc.Elements {
		row := []interface{}{el.Position, string(el.Type), el.Confidence, elementSummary(el)}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("xlsx elements row: %w", err)
		}
	}
	return nil
}

// tableSheets writes each table element to its own sheet.
func (x *XLSXWriter) tableSheets(f *excelize.File, doc *domain.StructuredDocument) error {
	n := 0
	for _, el := range doc.Elements {
		tc, ok := tableContent(el)
		if !ok {
			continue
		}
		n++
		sheet := fmt.Sprintf("Table %d", n)
		if _, err := f.NewSheet(sheet); err != nil {
			return fmt.Errorf("xlsx table sheet: %w", err)
		}
		header := make([]interface{}, len(tc.Headers))
		for i, h := range tc.Headers {
			header[i] = h
		}
		if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
			return fmt.Errorf("xlsx table header: %w", err)
		}
		for i, tr := range tc.Rows {
			row := make([]interface{}, len(tr))
			for j, cell := range tr {
				row[j] = cell
			}
			cell, _ := excelize.CoordinatesToCellName(1, i+2)
			if err := f.SetSheetRow(sheet, cell, &row); err != nil {
				return fmt.Errorf("xlsx table row: %w", err)
			}
		}
	}
	return nil
}

func (x *XLSXWriter) entitiesSheet(f *excelize.File, doc *domain.StructuredDocument) error {
	if len(doc.Analysis.Entities) == 0 {
		return nil
	}
	const sheet = "Entities"
	if _, err := f.NewSheet(sheet); err != nil {
		return fmt.Errorf("xlsx entities: %w", err)
	}
	header := []interface{}{"Type", "Value", "Element Position", "Confidence"}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("xlsx entities header: %w", err)
	}
	for i, ent := range doc.Analysis.Entities {
		row := []interface{}{ent.Type, ent.Value, ent.Position, ent.Confidence}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("xlsx entities row: %w", err)
		}
	}
	return nil
}
