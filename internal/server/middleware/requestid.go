package middleware

import (
	"github.com/gin-gonic/gin"

	"sentinel/internal/pkg/id"
)

// RequestID 请求 ID 中间件
// 优先透传调用方的 X-Request-ID
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader("X-Request-ID")
		if requestID == "" {
			requestID = id.New()
		}

		c.Set("request_id", requestID)
		c.Header("X-Request-ID", requestID)

		c.Next()
	}
}
