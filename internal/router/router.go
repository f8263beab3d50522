package router

import (
	"github.com/gin-gonic/gin"

	"github.com/ShriniwasAhirrao/MetaStitch/internal/handler"
	"github.com/ShriniwasAhirrao/MetaStitch/internal/middleware"
)

// Setup configures the Gin engine with all routes and middleware.
func Setup(
	fileH *handler.FileHandler,
	processH *handler.ProcessHandler,
	jobH *handler.JobHandler,
	exportH *handler.ExportHandler,
	healthH *handler.HealthHandler,
	allowedOrigins []string,
) *gin.Engine {
	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.CORS(allowedOrigins))

	// Health checks
	r.GET("/healthz", healthH.Liveness)
	r.GET("/readyz", healthH.Readiness)

	v1 := r.Group("/api/v1")

	// File routes
	files := v1.Group("/files")
	files.POST("/upload", fileH.Upload)
	files.GET("", fileH.List)
	files.GET("/:id", fileH.GetByID)
	files.GET("/:id/download", fileH.DownloadURL)
	files.GET("/:id/jobs", jobH.ListByFile)
	files.DELETE("/:id", fileH.Delete)

	// Processing routes
	v1.GET("/formats", processH.SupportedFormats)
	v1.POST("/classify", processH.Classify)
	v1.POST("/process", processH.Process)
	v1.POST("/process/sync", processH.ProcessSync)
	v1.POST("/process/batch", processH.BatchProcess)

	// Job routes
	jobs := v1.Group("/jobs")
	jobs.GET("", jobH.List)
	jobs.GET("/stats", jobH.QueueStats)
	jobs.GET("/:id", jobH.GetByID)
	jobs.GET("/:id/result", jobH.GetResult)
	jobs.GET("/:id/export", exportH.Export)

	return r
}
