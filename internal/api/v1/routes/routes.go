package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/aken1023/care-sch/internal/api/middleware"
	"github.com/aken1023/care-sch/internal/api/v1/handlers"
	"github.com/aken1023/care-sch/internal/api/v1/services"
)

// ServiceContainer holds all services needed by handlers
type ServiceContainer struct {
	RecordService  services.RecordService
	UploadService  services.UploadService
	WebhookService services.WebhookService
	StatusService  services.StatusService

	// MetricsHandler serves /metrics when set.
	MetricsHandler http.Handler
}

// RegisterRoutes registers the v1 JSON API
func RegisterRoutes(router *gin.RouterGroup, container *ServiceContainer) {
	if container.RecordService != nil {
		recordHandler := handlers.NewRecordHandler(container.RecordService)
		records := router.Group("/records")
		{
			records.GET("", recordHandler.List)
			records.GET("/export", recordHandler.Export)
		}
	}
}

// RegisterBotRoutes registers the webhook, the upload form and the operational endpoints.
func RegisterBotRoutes(router *gin.Engine, container *ServiceContainer, channelSecret string, logger *zap.Logger) {
	statusHandler := handlers.NewStatusHandler(container.StatusService)
	router.GET("/", statusHandler.Root)
	router.GET("/health", statusHandler.Health)
	router.GET("/status", statusHandler.Status)

	if container.MetricsHandler != nil {
		router.GET("/metrics", gin.WrapH(container.MetricsHandler))
	}

	webhookHandler := handlers.NewWebhookHandler(container.WebhookService, logger)
	router.GET("/callback", webhookHandler.Verify)
	router.POST("/callback", middleware.LineSignature(channelSecret, logger), webhookHandler.Callback)

	uploadHandler := handlers.NewUploadHandler(container.UploadService, logger)
	careRecord := router.Group("/care-record")
	{
		careRecord.GET("/", uploadHandler.Page)
		careRecord.POST("/upload", uploadHandler.Upload)
	}
}
