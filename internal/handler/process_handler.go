package handler

import (
	"io"
	"net/http"
	"sort"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/ShriniwasAhirrao/MetaStitch/internal/domain"
	"github.com/ShriniwasAhirrao/MetaStitch/internal/service"
)

// ProcessHandler handles processing and classification endpoints.
type ProcessHandler struct {
	jobService      service.JobService
	batchService    service.BatchService
	pipelineService service.PipelineService
}

// NewProcessHandler creates a new ProcessHandler.
func NewProcessHandler(
	jobService service.JobService,
	batchService service.BatchService,
	pipelineService service.PipelineService,
) *ProcessHandler {
	return &ProcessHandler{
		jobService:      jobService,
		batchService:    batchService,
		pipelineService: pipelineService,
	}
}

type processRequest struct {
	FileID   uuid.UUID `json:"file_id" binding:"required"`
	Pipeline string    `json:"pipeline"`
}

type batchProcessRequest struct {
	FileIDs  []uuid.UUID `json:"file_ids" binding:"required,min=1,max=100"`
	Pipeline string      `json:"pipeline"`
}

// parsePipeline validates an optional pipeline override. Empty means the
// classifier decides.
func parsePipeline(raw string) (domain.PipelineType, bool) {
	switch domain.PipelineType(raw) {
	case "", domain.PipelineText, domain.PipelineOCR, domain.PipelineHybrid:
		return domain.PipelineType(raw), true
	default:
		return "", false
	}
}

// Process handles POST /api/v1/process
func (h *ProcessHandler) Process(c *gin.Context) {
	var req processRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "file_id is required")
		return
	}

	pipeline, ok := parsePipeline(req.Pipeline)
	if !ok {
		RespondError(c, http.StatusBadRequest, "INVALID_PIPELINE", "pipeline must be one of: text, ocr, hybrid")
		return
	}

	job, err := h.jobService.Enqueue(c.Request.Context(), req.FileID, pipeline)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondAccepted(c, job)
}

// BatchProcess handles POST /api/v1/process/batch
func (h *ProcessHandler) BatchProcess(c *gin.Context) {
	var req batchProcessRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "file_ids must contain between 1 and 100 entries")
		return
	}

	pipeline, ok := parsePipeline(req.Pipeline)
	if !ok {
		RespondError(c, http.StatusBadRequest, "INVALID_PIPELINE", "pipeline must be one of: text, ocr, hybrid")
		return
	}

	entries, err := h.batchService.EnqueueAll(c.Request.Context(), req.FileIDs, pipeline)
	if err != nil {
		HandleError(c, err)
		return
	}

	queued := 0
	for _, e := range entries {
		if e.Error == "" {
			queued++
		}
	}

	RespondAccepted(c, gin.H{
		"entries": entries,
		"queued":  queued,
		"total":   len(entries),
	})
}

// ProcessSync handles POST /api/v1/process/sync. It runs the full pipeline
// over the uploaded content and returns the structured document directly,
// without persisting a job or result.
func (h *ProcessHandler) ProcessSync(c *gin.Context) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		RespondError(c, http.StatusBadRequest, "MISSING_FILE", "file field is required")
		return
	}
	defer func() { _ = file.Close() }()

	pipeline, ok := parsePipeline(c.PostForm("pipeline"))
	if !ok {
		RespondError(c, http.StatusBadRequest, "INVALID_PIPELINE", "pipeline must be one of: text, ocr, hybrid")
		return
	}

	content, err := io.ReadAll(file)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "READ_FAILED", "could not read uploaded file")
		return
	}

	doc, err := h.pipelineService.Process(c.Request.Context(), header.Filename, content, pipeline)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, doc)
}

// SupportedFormats handles GET /api/v1/formats
func (h *ProcessHandler) SupportedFormats(c *gin.Context) {
	type format struct {
		Extension   string          `json:"extension"`
		FileType    domain.FileType `json:"file_type"`
		ContentType string          `json:"content_type"`
	}

	formats := make([]format, 0, len(domain.AllowedExtensions))
	for ext, ft := range domain.AllowedExtensions {
		formats = append(formats, format{
			Extension:   ext,
			FileType:    ft,
			ContentType: domain.AllowedFileTypes[ft],
		})
	}
	sort.Slice(formats, func(i, j int) bool { return formats[i].Extension < formats[j].Extension })

	RespondOK(c, formats)
}

// Classify handles POST /api/v1/classify. It runs classification on the
// uploaded content without enqueuing a processing job.
func (h *ProcessHandler) Classify(c *gin.Context) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		RespondError(c, http.StatusBadRequest, "MISSING_FILE", "file field is required")
		return
	}
	defer func() { _ = file.Close() }()

	content, err := io.ReadAll(file)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "READ_FAILED", "could not read uploaded file")
		return
	}

	result, err := h.pipelineService.Classify(c.Request.Context(), header.Filename, content)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, result)
}
