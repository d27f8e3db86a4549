package handlers

import (
	_ "embed"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	apierrors "github.com/aken1023/care-sch/internal/api/errors"
	"github.com/aken1023/care-sch/internal/api/v1/dto"
	"github.com/aken1023/care-sch/internal/api/v1/services"
)

const (
	// UploadField is the multipart field carrying the recording.
	UploadField = "audio"
	// ErrorKindHeader names the failed pipeline stage on an upload error.
	ErrorKindHeader = "X-Error-Kind"
)

const (
	msgNoAudio       = "沒有收到音訊檔案"
	msgNoFileChosen  = "沒有選擇檔案"
	msgProcessFailed = "處理過程中發生錯誤: "
	msgUploadFailed  = "上傳處理過程中發生錯誤: "
)

//go:embed static/index.html
var uploadPage []byte

// UploadHandler serves the care-record upload form
type UploadHandler struct {
	service services.UploadService
	logger  *zap.Logger
}

func NewUploadHandler(service services.UploadService, logger *zap.Logger) *UploadHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UploadHandler{service: service, logger: logger}
}

// Page handles GET /care-record/
func (h *UploadHandler) Page(c *gin.Context) {
	c.Data(http.StatusOK, "text/html; charset=utf-8", uploadPage)
}

// Upload handles POST /care-record/upload
func (h *UploadHandler) Upload(c *gin.Context) {
	file, err := c.FormFile(UploadField)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
			h.logger.Warn(msgNoAudio, zap.Error(err))
			c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: msgNoAudio})
			return
		}
		h.logger.Error("failed to read upload", zap.Error(err))
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: msgUploadFailed + err.Error()})
		return
	}
	if file.Filename == "" {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: msgNoFileChosen})
		return
	}

	response, err := h.service.ProcessUpload(c.Request.Context(), file)
	if err != nil {
		apiErr := apierrors.FromPipeline(err)
		h.logger.Error("upload processing failed", zap.String("error_kind", apiErr.Code), zap.Error(err))
		if apiErr.Code != "" {
			c.Header(ErrorKindHeader, apiErr.Code)
		}
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: msgProcessFailed + err.Error()})
		return
	}

	c.JSON(http.StatusOK, response)
}
