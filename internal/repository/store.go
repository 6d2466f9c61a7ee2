package repository

import (
	"context"
	"sync"

	"go.mongodb.org/mongo-driver/mongo"

	"sentinel/internal/model"
)

// Store 会话存储门面
// 聚合 session/message/interaction 三个仓库；同一会话的追加用
// 按会话加锁串行化，保证消息顺序不被并发写打乱
type Store struct {
	sessions     *SessionRepo
	messages     *MessageRepo
	interactions *InteractionRepo

	mu    sync.Mutex
	locks map[string]*sessionLock
}

// sessionLock 带引用计数的会话锁
type sessionLock struct {
	mu   sync.Mutex
	refs int
}

// NewStore 创建存储门面
func NewStore(db *mongo.Database) *Store {
	return &Store{
		sessions:     NewSessionRepo(db),
		messages:     NewMessageRepo(db),
		interactions: NewInteractionRepo(db),
		locks:        make(map[string]*sessionLock),
	}
}

// lockSession 取会话级锁，返回释放函数
// 引用计数归零的条目随释放移除，锁表大小只跟在途写入数相关
func (s *Store) lockSession(sessionID string) func() {
	s.mu.Lock()
	l, ok := s.locks[sessionID]
	if !ok {
		l = &sessionLock{}
		s.locks[sessionID] = l
	}
	l.refs++
	s.mu.Unlock()

	l.mu.Lock()
	return func() {
		l.mu.Unlock()

		s.mu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(s.locks, sessionID)
		}
		s.mu.Unlock()
	}
}

// CreateSession 创建会话
func (s *Store) CreateSession(ctx context.Context, title string) (*model.Session, error) {
	return s.sessions.Create(ctx, title)
}

// AppendMessage 单会话单写者追加
func (s *Store) AppendMessage(ctx context.Context, sessionID, role, content string) (*model.Message, error) {
	unlock := s.lockSession(sessionID)
	defer unlock()

	return s.messages.Append(ctx, sessionID, role, content)
}

// GetRecentMessages 最近 limit 条消息，升序
func (s *Store) GetRecentMessages(ctx context.Context, sessionID string, limit int64) ([]*model.Message, error) {
	return s.messages.Recent(ctx, sessionID, limit)
}

// History 会话全部消息，升序
func (s *Store) History(ctx context.Context, sessionID string) ([]*model.Message, error) {
	return s.messages.History(ctx, sessionID)
}

// RecordInteraction 写入问答分析记录
func (s *Store) RecordInteraction(ctx context.Context, sessionID string, rec *model.Interaction) error {
	return s.interactions.Record(ctx, sessionID, rec)
}
