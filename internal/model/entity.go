package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// 消息角色
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Session 会话实体
// 创建后只允许改标题
type Session struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title     string             `bson:"title" json:"title"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
}

// Message 单轮消息，追加后不可变
// 每条消息独立成文档，追加是单文档插入，读取走 (session_id, timestamp) 索引
type Message struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	SessionID primitive.ObjectID `bson:"session_id" json:"session_id"`
	Role      string             `bson:"role" json:"role"`
	Content   string             `bson:"content" json:"content"`
	Timestamp time.Time          `bson:"timestamp" json:"timestamp"`
	Metadata  map[string]any     `bson:"metadata,omitempty" json:"metadata,omitempty"`
}

// Interaction 一次完整问答的分析记录
// 仅用于报表，不参与会话回放
type Interaction struct {
	ID                primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	SessionID         primitive.ObjectID `bson:"session_id" json:"session_id"`
	UserInput         string             `bson:"user_input" json:"user_input"`
	AssistantResponse string             `bson:"assistant_response" json:"assistant_response"`
	Provider          string             `bson:"provider" json:"provider"`
	Model             string             `bson:"model" json:"model"`
	LatencyMs         int64              `bson:"latency_ms" json:"latency_ms"`
	Timestamp         time.Time          `bson:"timestamp" json:"timestamp"`
}
