package handler_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/ShriniwasAhirrao/MetaStitch/internal/domain"
	"github.com/ShriniwasAhirrao/MetaStitch/internal/handler"
	"github.com/ShriniwasAhirrao/MetaStitch/internal/service"
	"github.com/ShriniwasAhirrao/MetaStitch/mocks"
)

func TestJobHandler_GetByID(t *testing.T) {
	jobSvc := new(mocks.MockJobService)
	h := handler.NewJobHandler(jobSvc)

	jobID := uuid.New()
	job := &domain.ProcessingJob{ID: jobID, Status: domain.StatusProcessing, Attempts: 1}
	jobSvc.On("GetByID", mock.Anything, jobID).Return(job, nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodGet, "/api/v1/jobs/"+jobID.String(), nil)
	c.Params = gin.Params{{Key: "id", Value: jobID.String()}}

	h.GetByID(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "processing")
}

func TestJobHandler_GetByID_NotFound(t *testing.T) {
	jobSvc := new(mocks.MockJobService)
	h := handler.NewJobHandler(jobSvc)

	jobID := uuid.New()
	jobSvc.On("GetByID", mock.Anything, jobID).Return(nil, domain.ErrJobNotFound)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodGet, "/api/v1/jobs/"+jobID.String(), nil)
	c.Params = gin.Params{{Key: "id", Value: jobID.String()}}

	h.GetByID(c)

	assert.Equal(t, http.StatusNotFound, w.Code)

	var resp handler.APIResponse
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "JOB_NOT_FOUND", resp.Error.Code)
}

func TestJobHandler_List(t *testing.T) {
	jobSvc := new(mocks.MockJobService)
	h := handler.NewJobHandler(jobSvc)

	jobs := []domain.ProcessingJob{
		{ID: uuid.New(), Status: domain.StatusFailed, Attempts: 3},
		{ID: uuid.New(), Status: domain.StatusFailed, Attempts: 1},
	}
	jobSvc.On("List", mock.Anything, domain.StatusFailed, 10, 0).Return(jobs, nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodGet, "/api/v1/jobs?status=failed&limit=10", nil)

	h.List(c)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp handler.APIResponse
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 2, resp.Meta.Total)
	assert.Equal(t, 10, resp.Meta.Limit)
}

func TestJobHandler_List_InvalidStatus(t *testing.T) {
	jobSvc := new(mocks.MockJobService)
	h := handler.NewJobHandler(jobSvc)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodGet, "/api/v1/jobs?status=paused", nil)

	h.List(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "INVALID_STATUS")
	jobSvc.AssertNotCalled(t, "List")
}

func TestJobHandler_QueueStats(t *testing.T) {
	jobSvc := new(mocks.MockJobService)
	h := handler.NewJobHandler(jobSvc)

	jobSvc.On("QueueStats", mock.Anything).Return(map[domain.ProcessingStatus]int{
		domain.StatusPending:   4,
		domain.StatusCompleted: 10,
	}, nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodGet, "/api/v1/jobs/stats", nil)

	h.QueueStats(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"pending":4`)
}

func TestJobHandler_GetResult_NotCompleted(t *testing.T) {
	jobSvc := new(mocks.MockJobService)
	h := handler.NewJobHandler(jobSvc)

	jobID := uuid.New()
	jobSvc.On("GetResult", mock.Anything, jobID).Return(nil, domain.ErrJobNotCompleted)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodGet, "/api/v1/jobs/"+jobID.String()+"/result", nil)
	c.Params = gin.Params{{Key: "id", Value: jobID.String()}}

	h.GetResult(c)

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestJobHandler_GetResult(t *testing.T) {
	jobSvc := new(mocks.MockJobService)
	h := handler.NewJobHandler(jobSvc)

	jobID := uuid.New()
	record := &domain.ExtractionRecord{
		ID:               uuid.New(),
		JobID:            jobID,
		FileID:           uuid.New(),
		Pipeline:         domain.PipelineText,
		Method:           "txt_parser",
		StructuredData:   json.RawMessage(`{"raw_text":"hello"}`),
		QualityScore:     0.82,
		Confidence:       0.75,
		ValidationStatus: domain.ValidationValid,
	}
	jobSvc.On("GetResult", mock.Anything, jobID).Return(record, nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodGet, "/api/v1/jobs/"+jobID.String()+"/result", nil)
	c.Params = gin.Params{{Key: "id", Value: jobID.String()}}

	h.GetResult(c)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp handler.APIResponse
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data := resp.Data.(map[string]interface{})
	assert.Equal(t, "txt_parser", data["method"])
	assert.Equal(t, "valid", data["validation_status"])
	doc := data["document"].(map[string]interface{})
	assert.Equal(t, "hello", doc["raw_text"])
}

func TestExportHandler_Export_InvalidFormat(t *testing.T) {
	exportSvc := new(mocks.MockExportService)
	h := handler.NewExportHandler(exportSvc)

	jobID := uuid.New()

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodGet, "/api/v1/jobs/"+jobID.String()+"/export?format=pdf", nil)
	c.Params = gin.Params{{Key: "id", Value: jobID.String()}}

	h.Export(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	exportSvc.AssertNotCalled(t, "Export", mock.Anything, mock.Anything, mock.Anything)
}

func TestExportHandler_Export_CSV(t *testing.T) {
	exportSvc := new(mocks.MockExportService)
	h := handler.NewExportHandler(exportSvc)

	jobID := uuid.New()
	exportSvc.On("Export", mock.Anything, jobID, service.ExportCSV).Return(&service.ExportOutput{
		FileName:    "result-" + jobID.String() + ".csv",
		ContentType: "text/csv; charset=utf-8",
		Data:        []byte("position,type\n0,paragraph\n"),
	}, nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodGet, "/api/v1/jobs/"+jobID.String()+"/export?format=csv", nil)
	c.Params = gin.Params{{Key: "id", Value: jobID.String()}}

	h.Export(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Disposition"), ".csv")
	assert.Contains(t, w.Body.String(), "paragraph")
}
