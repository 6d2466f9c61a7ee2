package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"sentinel/internal/model"
)

// HealthHandler 健康检查处理器
type HealthHandler struct {
	gateway  ModelSwitcher
	services map[string]string
}

// NewHealthHandler 创建健康检查处理器
// services 标记各子系统的装配状态 (mongo/redis 可选)
func NewHealthHandler(gateway ModelSwitcher, services map[string]string) *HealthHandler {
	return &HealthHandler{gateway: gateway, services: services}
}

// Health 健康检查
func (h *HealthHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
	})
}

// Ready 就绪检查
func (h *HealthHandler) Ready(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ready",
	})
}

// Status 系统状态，供外部监控消费
func (h *HealthHandler) Status(c *gin.Context) {
	provider, modelName := h.gateway.Backend()

	c.JSON(http.StatusOK, model.StatusResponse{
		Status:    "healthy",
		Provider:  provider,
		Model:     modelName,
		Services:  h.services,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}
