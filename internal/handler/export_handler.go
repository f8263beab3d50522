package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/ShriniwasAhirrao/MetaStitch/internal/service"
)

// ExportHandler handles result export endpoints.
type ExportHandler struct {
	exportService service.ExportService
}

// NewExportHandler creates a new ExportHandler.
func NewExportHandler(exportService service.ExportService) *ExportHandler {
	return &ExportHandler{exportService: exportService}
}

// Export handles GET /api/v1/jobs/:id/export?format=csv|xlsx|json
func (h *ExportHandler) Export(c *gin.Context) {
	jobID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid job ID format")
		return
	}

	format := service.ExportFormat(c.DefaultQuery("format", "json"))
	switch format {
	case service.ExportCSV, service.ExportXLSX, service.ExportJSON:
	default:
		RespondError(c, http.StatusBadRequest, "INVALID_FORMAT", "format must be one of: csv, xlsx, json")
		return
	}

	out, err := h.exportService.Export(c.Request.Context(), jobID, format)
	if err != nil {
		HandleError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", out.FileName))
	c.Data(http.StatusOK, out.ContentType, out.Data)
}
