package model

// ErrorResponse 错误响应
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Detail  string `json:"detail,omitempty"`
}

// CreateSessionResponse 创建会话响应
type CreateSessionResponse struct {
	SessionID string `json:"session_id"`
	Title     string `json:"title"`
}

// HistoryMessage 历史消息条目
type HistoryMessage struct {
	Role      string `json:"role"`
	Content   string `json:"content"`
	Timestamp string `json:"timestamp"`
}

// ConfigResponse 配置查询响应 (脱敏)
type ConfigResponse struct {
	Provider            string  `json:"provider"`
	Model               string  `json:"model"`
	ConfidenceThreshold float64 `json:"confidence_threshold"`
	ContextWindow       int     `json:"context_window"`
	TimeoutSeconds      int     `json:"timeout_seconds"`
	RequestsPerMinute   int     `json:"requests_per_minute"`
}

// UpdateConfigResponse 配置更新响应
type UpdateConfigResponse struct {
	Status  string   `json:"status"`
	Message string   `json:"message"`
	Changes []string `json:"changes,omitempty"`
}

// StatusResponse 系统状态响应
type StatusResponse struct {
	Status    string            `json:"status"`
	Provider  string            `json:"provider"`
	Model     string            `json:"model"`
	Services  map[string]string `json:"services"`
	Timestamp string            `json:"timestamp"`
}
