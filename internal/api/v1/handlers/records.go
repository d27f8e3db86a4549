package handlers

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/aken1023/care-sch/internal/api/middleware"
	"github.com/aken1023/care-sch/internal/api/v1/dto"
	"github.com/aken1023/care-sch/internal/api/v1/services"
	"github.com/aken1023/care-sch/internal/app/export"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// RecordHandler serves the record index
type RecordHandler struct {
	service services.RecordService
	now     func() time.Time
}

func NewRecordHandler(service services.RecordService) *RecordHandler {
	return &RecordHandler{service: service, now: time.Now}
}

// List handles GET /api/v1/records?user_id=&date=YYYYMMDD&limit=
func (h *RecordHandler) List(c *gin.Context) {
	var query dto.ListRecordsQuery
	if err := middleware.ValidateQuery(c, &query); err != nil {
		middleware.HandleError(c, err)
		return
	}

	response, err := h.service.ListRecords(c.Request.Context(), query)
	if err != nil {
		middleware.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

// Export handles GET /api/v1/records/export and returns an xlsx attachment.
// The workbook is built in memory so a failure can still set the status code.
func (h *RecordHandler) Export(c *gin.Context) {
	var query dto.ListRecordsQuery
	if err := middleware.ValidateQuery(c, &query); err != nil {
		middleware.HandleError(c, err)
		return
	}

	var buf bytes.Buffer
	if err := h.service.ExportRecords(c.Request.Context(), query, &buf); err != nil {
		middleware.HandleError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s\"", export.FileName(h.now())))
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}
