package router

import (
	"github.com/gin-gonic/gin"

	"dealdesk/internal/handler"
	"dealdesk/internal/middleware"
)

// Setup configures the Gin engine with all routes and middleware.
func Setup(
	extractH *handler.ExtractHandler,
	healthH *handler.HealthHandler,
	corsOrigins []string,
) *gin.Engine {
	r := gin.New()

	// Global middleware
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.CORS(corsOrigins))

	// Health checks
	r.GET("/healthz", healthH.Liveness)
	r.GET("/readyz", healthH.Readiness)

	v1 := r.Group("/api/v1")

	// Extraction routes
	v1.POST("/extract", extractH.Extract)
	v1.POST("/extract/batch", extractH.ExtractBatch)
	v1.POST("/extract/object", extractH.ExtractFromStorage)

	// Persisted job routes
	v1.GET("/extractions", extractH.ListExtractions)
	v1.GET("/extractions/:id", extractH.GetExtraction)

	return r
}
