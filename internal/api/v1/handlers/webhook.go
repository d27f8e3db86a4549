package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/aken1023/care-sch/internal/api/middleware"
	"github.com/aken1023/care-sch/internal/api/v1/services"
	"github.com/aken1023/care-sch/internal/app/api/line"
)

// WebhookHandler receives chat platform callbacks
type WebhookHandler struct {
	service services.WebhookService
	logger  *zap.Logger
}

func NewWebhookHandler(service services.WebhookService, logger *zap.Logger) *WebhookHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &WebhookHandler{service: service, logger: logger}
}

// Verify handles GET /callback, used when the endpoint is registered.
func (h *WebhookHandler) Verify(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

// Callback handles POST /callback. It must run behind middleware.LineSignature.
// Events are processed before the response is written; a dropped connection
// does not cancel a run in progress.
func (h *WebhookHandler) Callback(c *gin.Context) {
	body, ok := c.Get(middleware.RawBodyKey)
	if !ok {
		c.AbortWithStatus(http.StatusBadRequest)
		return
	}

	req, err := line.ParseWebhook(body.([]byte))
	if err != nil {
		h.logger.Warn("malformed callback body", zap.Error(err))
		c.AbortWithStatus(http.StatusBadRequest)
		return
	}

	h.service.HandleEvents(context.WithoutCancel(c.Request.Context()), req.Events)
	c.String(http.StatusOK, "OK")
}
