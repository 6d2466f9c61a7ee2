package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"sentinel/internal/model"
	"sentinel/internal/service"
	"sentinel/internal/stream"
)

// ChatHandler 对话处理器
type ChatHandler struct {
	svc *service.ChatService
}

// NewChatHandler 创建对话处理器
func NewChatHandler(svc *service.ChatService) *ChatHandler {
	return &ChatHandler{svc: svc}
}

// Stream 流式对话接口 (NDJSON)
// 响应体是逐行的 {"type": ..., "content": ...} 记录
func (h *ChatHandler) Stream(c *gin.Context) {
	var req model.StreamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{
			Code:    40001,
			Message: "Invalid request body",
			Detail:  err.Error(),
		})
		return
	}

	c.Header("Content-Type", "application/x-ndjson")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")
	c.Status(http.StatusOK)

	events := h.svc.Stream(c.Request.Context(), &req)
	if err := stream.Emit(c.Writer, events); err != nil {
		log.Debug().Err(err).Str("request_id", req.RequestID).Msg("stream write aborted")
	}
}
