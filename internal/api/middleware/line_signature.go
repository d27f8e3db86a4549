package middleware

import (
	"bytes"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/aken1023/care-sch/internal/app/api/line"
)

// RawBodyKey holds the verified callback body in the gin context.
const RawBodyKey = "raw_body"

// LineSignature rejects callbacks whose X-Line-Signature does not match the body.
// The verified body is stored under RawBodyKey and restored on the request.
func LineSignature(channelSecret string, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		signature := c.GetHeader(line.SignatureHeader)
		if signature == "" {
			logger.Warn("callback without signature", zap.String("request_id", c.GetString(RequestIDKey)))
			c.AbortWithStatus(http.StatusBadRequest)
			return
		}

		body, err := io.ReadAll(c.Request.Body)
		if err != nil {
			c.AbortWithStatus(http.StatusBadRequest)
			return
		}

		if !line.ValidateSignature(channelSecret, body, signature) {
			logger.Warn("invalid callback signature", zap.String("request_id", c.GetString(RequestIDKey)))
			c.AbortWithStatus(http.StatusBadRequest)
			return
		}

		c.Set(RawBodyKey, body)
		c.Request.Body = io.NopCloser(bytes.NewReader(body))
		c.Next()
	}
}
