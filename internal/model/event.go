package model

// EventType 流事件类型
type EventType string

// 事件类型常量，与 NDJSON 协议中的 type 字段一一对应
const (
	EventThought    EventType = "thought"
	EventAction     EventType = "action"
	EventToken      EventType = "token"
	EventToolOutput EventType = "tool_output"
	EventError      EventType = "error"
)

// StreamEvent 流水线输出的单个事件
// 产生顺序即发送顺序；error 事件一定是序列的最后一个
type StreamEvent struct {
	Type    EventType `json:"type"`
	Content string    `json:"content"`
}

// Thought 构造 thought 事件
func Thought(content string) StreamEvent {
	return StreamEvent{Type: EventThought, Content: content}
}

// Action 构造 action 事件
func Action(content string) StreamEvent {
	return StreamEvent{Type: EventAction, Content: content}
}

// Token 构造 token 事件
func Token(content string) StreamEvent {
	return StreamEvent{Type: EventToken, Content: content}
}

// ToolOutput 构造 tool_output 事件
func ToolOutput(content string) StreamEvent {
	return StreamEvent{Type: EventToolOutput, Content: content}
}

// ErrorEvent 构造 error 事件
func ErrorEvent(content string) StreamEvent {
	return StreamEvent{Type: EventError, Content: content}
}
