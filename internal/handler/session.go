package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"sentinel/internal/model"
	"sentinel/internal/repository"
)

// SessionHandler 会话处理器
type SessionHandler struct {
	store *repository.Store
}

// NewSessionHandler 创建会话处理器
func NewSessionHandler(store *repository.Store) *SessionHandler {
	return &SessionHandler{store: store}
}

// Create 创建会话
func (h *SessionHandler) Create(c *gin.Context) {
	var req model.CreateSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil && c.Request.ContentLength > 0 {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{
			Code:    40001,
			Message: "Invalid request body",
			Detail:  err.Error(),
		})
		return
	}

	session, err := h.store.CreateSession(c.Request.Context(), req.Title)
	if err != nil {
		c.JSON(http.StatusInternalServerError, model.ErrorResponse{
			Code:    50001,
			Message: "Failed to create session",
			Detail:  err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, model.CreateSessionResponse{
		SessionID: session.ID.Hex(),
		Title:     session.Title,
	})
}

// History 查询会话历史，按时间升序
func (h *SessionHandler) History(c *gin.Context) {
	sessionID := c.Param("id")

	msgs, err := h.store.History(c.Request.Context(), sessionID)
	if err != nil {
		c.JSON(http.StatusNotFound, model.ErrorResponse{
			Code:    40401,
			Message: "Session not found",
			Detail:  err.Error(),
		})
		return
	}

	history := make([]model.HistoryMessage, 0, len(msgs))
	for _, m := range msgs {
		history = append(history, model.HistoryMessage{
			Role:      m.Role,
			Content:   m.Content,
			Timestamp: m.Timestamp.Format(time.RFC3339),
		})
	}

	c.JSON(http.StatusOK, history)
}
