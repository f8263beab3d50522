package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/ShriniwasAhirrao/MetaStitch/internal/domain"
	"github.com/ShriniwasAhirrao/MetaStitch/internal/export"
)

// ExportFormat identifies a supported export format.
type ExportFormat string

const (
	ExportCSV  ExportFormat = "csv"
	ExportXLSX ExportFormat = "xlsx"
	ExportJSON ExportFormat = "json"
)

// ExportOutput carries the rendered export.
type ExportOutput struct {
	FileName    string
	ContentType string
	Data        []byte
}

// ExportService renders stored results in downloadable formats.
type ExportService interface {
	Export(ctx context.Context, jobID uuid.UUID, format ExportFormat) (*ExportOutput, error)
}

type exportService struct {
	jobs JobService
}

// NewExportService creates a new ExportService.
func NewExportService(jobs JobService) ExportService {
	return &exportService{jobs: jobs}
}

func (s *exportService) Export(ctx context.Context, jobID uuid.UUID, format ExportFormat) (*ExportOutput, error) {
	record, err := s.jobs.GetResult(ctx, jobID)
	if err != nil {
		return nil, err
	}

	base := fmt.Sprintf("result-%s", jobID)

	if format == ExportJSON {
		return &ExportOutput{
			FileName:    base + ".json",
			ContentType: "application/json",
			Data:        record.StructuredData,
		}, nil
	}

	var doc domain.StructuredDocument
	if err := json.Unmarshal(record.StructuredData, &doc); err != nil {
		return nil, fmt.Errorf("exportService.Export: decoding stored document: %w", err)
	}

	switch format {
	case ExportCSV:
		var buf bytes.Buffer
		buf.Write(export.BOM)
		if err := export.NewCSVWriter(&buf).WriteDocument(&doc); err != nil {
			return nil, fmt.Errorf("exportService.Export: %w", err)
		}
		return &ExportOutput{
			FileName:    base + ".csv",
			ContentType: "text/csv; charset=utf-8",
			Data:        buf.Bytes(),
		}, nil

	case ExportXLSX:
		var buf bytes.Buffer
		if err := export.NewXLSXWriter().WriteDocument(&buf, &doc); err != nil {
			return nil, fmt.Errorf("exportService.Export: %w", err)
		}
		return &ExportOutput{
			FileName:    base + ".xlsx",
			ContentType: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
			Data:        buf.Bytes(),
		}, nil
	}
	return nil, fmt.Errorf("unsupported export format: %s", format)
}
