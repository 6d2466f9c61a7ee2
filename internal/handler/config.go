package handler

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"sentinel/internal/config"
	"sentinel/internal/model"
)

// ModelSwitcher 运行时可切换模型的网关能力
type ModelSwitcher interface {
	Backend() (provider, modelName string)
	SwitchModel(ctx context.Context, modelName string) error
}

// ConfigHandler 配置处理器
type ConfigHandler struct {
	cfg     *config.Config
	gateway ModelSwitcher
}

// NewConfigHandler 创建配置处理器
func NewConfigHandler(cfg *config.Config, gateway ModelSwitcher) *ConfigHandler {
	return &ConfigHandler{cfg: cfg, gateway: gateway}
}

// Get 查询当前配置 (脱敏)
func (h *ConfigHandler) Get(c *gin.Context) {
	provider, modelName := h.gateway.Backend()

	c.JSON(http.StatusOK, model.ConfigResponse{
		Provider:            provider,
		Model:               modelName,
		ConfidenceThreshold: h.cfg.Router.ConfidenceThreshold,
		ContextWindow:       h.cfg.Pipeline.ContextWindow,
		TimeoutSeconds:      int(h.cfg.Pipeline.Timeout.Seconds()),
		RequestsPerMinute:   h.cfg.RateLimit.RequestsPerMinute,
	})
}

// Update 切换当前模型，仅对后续请求生效
func (h *ConfigHandler) Update(c *gin.Context) {
	var req model.UpdateConfigRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{
			Code:    40001,
			Message: "Invalid request body",
			Detail:  err.Error(),
		})
		return
	}

	if err := h.gateway.SwitchModel(c.Request.Context(), req.Model); err != nil {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{
			Code:    40002,
			Message: "Failed to switch model",
			Detail:  err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, model.UpdateConfigResponse{
		Status:  "success",
		Message: "Configuration updated",
		Changes: []string{fmt.Sprintf("model: %s", req.Model)},
	})
}
