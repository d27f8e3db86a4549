package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/aken1023/care-sch/internal/api/v1/dto"
	"github.com/aken1023/care-sch/internal/api/v1/services"
)

type StatusHandler struct {
	service services.StatusService
}

func NewStatusHandler(service services.StatusService) *StatusHandler {
	return &StatusHandler{service: service}
}

// Root handles GET /
func (h *StatusHandler) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"message": "Service is running",
		"endpoints": gin.H{
			"health":      "/health",
			"status":      "/status",
			"callback":    "/callback",
			"care_record": "/care-record/",
			"records":     "/api/v1/records",
		},
	})
}

// Health handles GET /health
func (h *StatusHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"timestamp": time.Now().Unix(),
	})
}

// Status handles GET /status; degraded dependencies answer 503.
func (h *StatusHandler) Status(c *gin.Context) {
	response := h.service.GetStatus(c.Request.Context())
	code := http.StatusOK
	if response.Status != dto.StatusOK {
		code = http.StatusServiceUnavailable
	}
	c.JSON(code, response)
}
