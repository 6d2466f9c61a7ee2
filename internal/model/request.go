package model

// StreamRequest 流式对话请求
// Message 不做绑定校验，空输入由流水线的校验阶段以 error 事件拒绝
type StreamRequest struct {
	Message   string         `json:"message"`
	RequestID string         `json:"request_id,omitempty"`
	Metadata  StreamMetadata `json:"metadata,omitempty"`
}

// StreamMetadata 请求附带的会话信息
type StreamMetadata struct {
	SessionID  string `json:"session_id,omitempty"`
	ActiveMode string `json:"active_mode,omitempty"`
}

// CreateSessionRequest 创建会话请求
type CreateSessionRequest struct {
	Title string `json:"title,omitempty"`
}

// UpdateConfigRequest 更新模型配置请求
type UpdateConfigRequest struct {
	Model string `json:"model" binding:"required"`
}
