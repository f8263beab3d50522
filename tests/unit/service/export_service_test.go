package service_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/ShriniwasAhirrao/MetaStitch/internal/domain"
	"github.com/ShriniwasAhirrao/MetaStitch/internal/service"
	"github.com/ShriniwasAhirrao/MetaStitch/mocks"
)

func completedRecord(t *testing.T, jobID uuid.UUID) *domain.ExtractionRecord {
	t.Helper()
	doc := testDocument()
	doc.Elements = append(doc.Elements, domain.StructuredElement{
		Type:     domain.ElementTable,
		Position: 1,
		Content: domain.TableContent{
			Headers: []string{"name", "qty"},
			Rows:    [][]string{{"bolt", "4"}, {"nut", "8"}},
			Format:  "delimited",
		},
		Confidence: 0.9,
	})
	raw, err := json.Marshal(doc)
	require.NoError(t, err)
	return &domain.ExtractionRecord{
		ID:             uuid.New(),
		JobID:          jobID,
		StructuredData: raw,
	}
}

func TestExportService_JSONPassthrough(t *testing.T) {
	jobs := new(mocks.MockJobService)
	svc := service.NewExportService(jobs)

	jobID := uuid.New()
	record := completedRecord(t, jobID)
	jobs.On("GetResult", mock.Anything, jobID).Return(record, nil)

	out, err := svc.Export(context.Background(), jobID, service.ExportJSON)

	require.NoError(t, err)
	assert.Equal(t, "result-"+jobID.String()+".json", out.FileName)
	assert.Equal(t, "application/json", out.ContentType)
	assert.JSONEq(t, string(record.StructuredData), string(out.Data))
}

func TestExportService_CSV(t *testing.T) {
	jobs := new(mocks.MockJobService)
	svc := service.NewExportService(jobs)

	jobID := uuid.New()
	jobs.On("GetResult", mock.Anything, jobID).Return(completedRecord(t, jobID), nil)

	out, err := svc.Export(context.Background(), jobID, service.ExportCSV)

	require.NoError(t, err)
	assert.Equal(t, "result-"+jobID.String()+".csv", out.FileName)
	// UTF-8 BOM first, so spreadsheet tools render non-ASCII correctly.
	assert.Equal(t, []byte{0xEF, 0xBB, 0xBF}, out.Data[:3])
	assert.Contains(t, string(out.Data), "paragraph")
	assert.Contains(t, string(out.Data), "table")
}

func TestExportService_XLSX(t *testing.T) {
	jobs := new(mocks.MockJobService)
	svc := service.NewExportService(jobs)

	jobID := uuid.New()
	jobs.On("GetResult", mock.Anything, jobID).Return(completedRecord(t, jobID), nil)

	out, err := svc.Export(context.Background(), jobID, service.ExportXLSX)

	require.NoError(t, err)
	assert.Equal(t, "result-"+jobID.String()+".xlsx", out.FileName)
	// XLSX files are ZIP archives.
	assert.Equal(t, []byte("PK"), out.Data[:2])
}

func TestExportService_JobNotCompleted(t *testing.T) {
	jobs := new(mocks.MockJobService)
	svc := service.NewExportService(jobs)

	jobID := uuid.New()
	jobs.On("GetResult", mock.Anything, jobID).Return(nil, domain.ErrJobNotCompleted)

	_, err := svc.Export(context.Background(), jobID, service.ExportJSON)

	assert.ErrorIs(t, err, domain.ErrJobNotCompleted)
}
