package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"sentinel/internal/model"
	"sentinel/internal/pipeline"
	"sentinel/internal/router"
)

// Store 快路径落库所需的存储能力
type Store interface {
	CreateSession(ctx context.Context, title string) (*model.Session, error)
	AppendMessage(ctx context.Context, sessionID, role, content string) (*model.Message, error)
	RecordInteraction(ctx context.Context, sessionID string, rec *model.Interaction) error
}

// ChatService 对话服务
// 编排一次请求: 净化输入 -> 路由快路径 -> 生成流水线兜底
// 两条路径产出同一种事件流
type ChatService struct {
	router    *router.Router
	pipe      *pipeline.Pipeline
	store     Store // 可为 nil，表示无持久化降级运行
	chunkSize int
}

// NewChatService 创建对话服务
func NewChatService(rt *router.Router, pipe *pipeline.Pipeline, store Store, chunkSize int) *ChatService {
	if chunkSize <= 0 {
		chunkSize = 100
	}
	return &ChatService{
		router:    rt,
		pipe:      pipe,
		store:     store,
		chunkSize: chunkSize,
	}
}

// Stream 处理一次流式请求，事件按序写入返回的 channel
func (s *ChatService) Stream(ctx context.Context, req *model.StreamRequest) <-chan model.StreamEvent {
	out := make(chan model.StreamEvent, 16)

	go func() {
		defer close(out)

		emit := func(ev model.StreamEvent) bool {
			select {
			case out <- ev:
				return true
			case <-ctx.Done():
				return false
			}
		}

		input := pipeline.Sanitize(req.Message)
		mode := req.Metadata.ActiveMode
		sessionID := req.Metadata.SessionID

		// 未带会话 ID 时自动建会话
		if sessionID == "" && s.store != nil {
			session, err := s.store.CreateSession(ctx, "")
			if err != nil {
				log.Warn().Err(err).Msg("failed to auto-create session, continuing without persistence")
			} else {
				sessionID = session.ID.Hex()
				emit(model.Thought(fmt.Sprintf("Initialized new session %s.", sessionID)))
			}
		}

		// 快路径: 缓存或知识库命中，不触发流水线
		if answer := s.router.Route(input, mode); answer != nil {
			s.streamLocal(ctx, emit, input, sessionID, answer)
			return
		}

		// 兜底: 生成流水线
		for ev := range s.pipe.Execute(ctx, pipeline.Request{
			SessionID: sessionID,
			Input:     input,
			Mode:      mode,
			RequestID: req.RequestID,
		}) {
			if !emit(ev) {
				return
			}
		}
	}()

	return out
}

// streamLocal 把本地应答按分片走同一套事件协议送出，并落库
func (s *ChatService) streamLocal(ctx context.Context, emit func(model.StreamEvent) bool, input, sessionID string, answer *router.Answer) {
	started := time.Now()

	emit(model.Thought("Query matched local knowledge base. Executing rapid response protocol."))

	// 分片按字符数计，多字节字符不能被切开
	content := answer.Content
	runes := []rune(content)
	for i := 0; i < len(runes); i += s.chunkSize {
		end := i + s.chunkSize
		if end > len(runes) {
			end = len(runes)
		}
		if !emit(model.Token(string(runes[i:end]))) {
			return
		}
	}

	emit(model.ToolOutput("Source: " + answer.Source))

	if s.store == nil || sessionID == "" || ctx.Err() != nil {
		return
	}

	if _, err := s.store.AppendMessage(ctx, sessionID, model.RoleUser, input); err != nil {
		log.Warn().Err(err).Str("session_id", sessionID).Msg("durability warning: failed to persist user message")
		return
	}
	if _, err := s.store.AppendMessage(ctx, sessionID, model.RoleAssistant, content); err != nil {
		log.Warn().Err(err).Str("session_id", sessionID).Msg("durability warning: failed to persist assistant message")
		return
	}

	rec := &model.Interaction{
		UserInput:         input,
		AssistantResponse: content,
		Provider:          "local",
		Model:             answer.Source,
		LatencyMs:         time.Since(started).Milliseconds(),
		Timestamp:         time.Now(),
	}
	if err := s.store.RecordInteraction(ctx, sessionID, rec); err != nil {
		log.Warn().Err(err).Msg("durability warning: failed to record interaction")
	}
}
