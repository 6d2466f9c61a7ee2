package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"sentinel/internal/pkg/ratelimit"
)

// RateLimit 按客户端 IP 限流
// 在路由之前拦截，超限请求不消耗任何流水线资源
func RateLimit(limiter ratelimit.Limiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		allowed, err := limiter.Allow(c.Request.Context(), c.ClientIP())
		if err == nil && !allowed {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"code":    42901,
				"message": "Too Many Requests",
			})
			return
		}

		c.Next()
	}
}
