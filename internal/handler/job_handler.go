package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/ShriniwasAhirrao/MetaStitch/internal/domain"
	"github.com/ShriniwasAhirrao/MetaStitch/internal/service"
)

// JobHandler handles processing job status and result endpoints.
type JobHandler struct {
	jobService service.JobService
}

// NewJobHandler creates a new JobHandler.
func NewJobHandler(jobService service.JobService) *JobHandler {
	return &JobHandler{jobService: jobService}
}

// List handles GET /api/v1/jobs?status=pending&limit=20&offset=0
func (h *JobHandler) List(c *gin.Context) {
	status := domain.ProcessingStatus(c.Query("status"))
	switch status {
	case "", domain.StatusPending, domain.StatusProcessing, domain.StatusCompleted, domain.StatusFailed:
	default:
		RespondError(c, http.StatusBadRequest, "INVALID_STATUS", "status must be one of: pending, processing, completed, failed")
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	jobs, err := h.jobService.List(c.Request.Context(), status, limit, offset)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondPaginated(c, jobs, PagMeta{Total: len(jobs), Offset: offset, Limit: limit})
}

// GetByID handles GET /api/v1/jobs/:id
func (h *JobHandler) GetByID(c *gin.Context) {
	jobID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid job ID format")
		return
	}

	job, err := h.jobService.GetByID(c.Request.Context(), jobID)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, job)
}

// ListByFile handles GET /api/v1/files/:id/jobs
func (h *JobHandler) ListByFile(c *gin.Context) {
	fileID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid file ID format")
		return
	}

	jobs, err := h.jobService.GetByFileID(c.Request.Context(), fileID)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, jobs)
}

// QueueStats handles GET /api/v1/jobs/stats
func (h *JobHandler) QueueStats(c *gin.Context) {
	stats, err := h.jobService.QueueStats(c.Request.Context())
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, stats)
}

// GetResult handles GET /api/v1/jobs/:id/result
func (h *JobHandler) GetResult(c *gin.Context) {
	jobID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid job ID format")
		return
	}

	record, err := h.jobService.GetResult(c.Request.Context(), jobID)
	if err != nil {
		HandleError(c, err)
		return
	}

	var document json.RawMessage = record.StructuredData
	RespondOK(c, gin.H{
		"job_id":            record.JobID,
		"file_id":           record.FileID,
		"pipeline":          record.Pipeline,
		"method":            record.Method,
		"quality_score":     record.QualityScore,
		"confidence":        record.Confidence,
		"validation_status": record.ValidationStatus,
		"processing_ms":     record.ProcessingMS,
		"document":          document,
	})
}
