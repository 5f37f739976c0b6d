package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/feichai0017/document-printer/api/handlers"
	"github.com/feichai0017/document-printer/api/middleware"
	"github.com/feichai0017/document-printer/pkg/logger"
)

// SetupRoutes 配置所有路由
func SetupRoutes(r *gin.Engine, h *handlers.Handlers, log logger.Logger) {
	r.Use(middleware.RequestLogger(log))
	r.Use(middleware.CORS())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := r.Group("/api/v1")

	docs := v1.Group("/documents")
	{
		docs.POST("/parse", h.Document.ParseDocument)
		docs.POST("/parse/batch", h.Document.ParseBatch)
		docs.GET("/formats", h.Document.SupportedFormats)
	}

	prn := v1.Group("/printer")
	{
		prn.GET("/status", h.Printer.Status)
		prn.POST("/shutdown", h.Printer.Shutdown)
		prn.POST("/jobs", h.Printer.SubmitJob)
		prn.GET("/jobs/:jobId", h.Printer.GetJob)
	}
}
