package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/cloudwego/eino/schema"
	"github.com/rs/zerolog/log"

	"sentinel/internal/ai"
	"sentinel/internal/model"
)

// 规划器动作
const (
	actionAnswerDirectly = "ANSWER_DIRECTLY"
	actionRunFeature     = "RUN_FEATURE"
)

const plannerPrompt = `You are an AI planner inside a chat-based system.

Your task:
Given the conversation so far and the latest user message,
decide the NEXT ACTION.

POSSIBLE ACTIONS (CHOOSE ONLY ONE):
1. ANSWER_DIRECTLY
2. RUN_FEATURE

RULES:
- If the user asks for explanation, learning, advice, or discussion -> ANSWER_DIRECTLY
- If the user asks to generate, create, modify, fix, build, or execute something -> RUN_FEATURE
- Only run a feature if the intent is explicit

AVAILABLE FEATURES:
%s

OUTPUT FORMAT (STRICT JSON ONLY):
{
  "action": "ANSWER_DIRECTLY | RUN_FEATURE",
  "feature_name": "<string or null>",
  "reason": "<short reason>"
}`

// ModelGateway 流水线依赖的模型能力
type ModelGateway interface {
	Generate(ctx context.Context, prompt string) (string, error)
	Stream(ctx context.Context, prompt string) (*schema.StreamReader[*schema.Message], error)
	Backend() (provider, modelName string)
}

// ConversationStore 流水线依赖的会话存储能力
type ConversationStore interface {
	AppendMessage(ctx context.Context, sessionID, role, content string) (*model.Message, error)
	GetRecentMessages(ctx context.Context, sessionID string, limit int64) ([]*model.Message, error)
	RecordInteraction(ctx context.Context, sessionID string, rec *model.Interaction) error
}

// Config 流水线参数
type Config struct {
	ContextWindow  int           // 上下文保留的最近消息数
	MaxInputLength int           // 输入最大长度
	Timeout        time.Duration // 单次模型调用超时
}

// Request 单次请求
type Request struct {
	SessionID string
	Input     string
	Mode      string
	RequestID string
}

// Pipeline 生成流水线
// 固定阶段顺序执行: validate -> context -> plan -> [act] -> generate -> persist
// 所有失败都转成事件，绝不向上抛
type Pipeline struct {
	gateway   ModelGateway
	store     ConversationStore
	features  *FeatureRegistry
	cfg       Config
	onSuccess func(req Request, answer string) // 成功后的回调 (缓存回写)，可为 nil
}

// New 创建流水线
func New(gateway ModelGateway, store ConversationStore, features *FeatureRegistry, cfg Config) *Pipeline {
	if cfg.ContextWindow <= 0 {
		cfg.ContextWindow = 10
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 60 * time.Second
	}
	return &Pipeline{
		gateway:  gateway,
		store:    store,
		features: features,
		cfg:      cfg,
	}
}

// OnSuccess 设置成功回调
func (p *Pipeline) OnSuccess(fn func(req Request, answer string)) {
	p.onSuccess = fn
}

// Execute 执行流水线，事件按产生顺序写入返回的 channel
// channel 在流结束或出错后关闭
func (p *Pipeline) Execute(ctx context.Context, req Request) <-chan model.StreamEvent {
	events := make(chan model.StreamEvent, 16)
	go p.run(ctx, req, events)
	return events
}

// plannerDecision 规划器的结构化决策
type plannerDecision struct {
	Action      string `json:"action"`
	FeatureName string `json:"feature_name"`
	Reason      string `json:"reason"`
}

// runState 单次执行的中间状态
type runState struct {
	req      Request
	context  string // 会话上下文拼接结果
	decision plannerDecision
	answer   strings.Builder // 已发出 token 的累计
	started  time.Time
}

func (p *Pipeline) run(ctx context.Context, req Request, events chan<- model.StreamEvent) {
	defer close(events)

	emit := func(ev model.StreamEvent) bool {
		select {
		case events <- ev:
			return true
		case <-ctx.Done():
			return false
		}
	}

	rs := &runState{
		req:      req,
		started:  time.Now(),
		decision: plannerDecision{Action: actionAnswerDirectly},
	}

	s := stageValidate
	for s != stageDone {
		var r stageResult
		switch s {
		case stageValidate:
			r = p.validate(rs)
		case stageContext:
			r = p.loadContext(ctx, rs, emit)
		case stagePlan:
			r = p.plan(ctx, rs, emit)
		case stageAct:
			r = p.act(ctx, rs, emit)
		case stageGenerate:
			r = p.generate(ctx, rs, emit)
		case stagePersist:
			r = p.persist(ctx, rs)
		}

		switch r.status {
		case stageRejected:
			emit(model.ErrorEvent(r.reason))
		case stageFailed:
			log.Error().Err(r.err).Str("stage", s.String()).
				Str("request_id", req.RequestID).Msg("pipeline stage failed")
			emit(model.ErrorEvent(ai.Describe(r.err)))
		}

		s = next(s, r, rs.decision.Action == actionRunFeature)
	}
}

// validate 阶段 1: 输入校验，拒绝即终止，无任何副作用
func (p *Pipeline) validate(rs *runState) stageResult {
	if reason := validateInput(rs.req.Input, p.cfg.MaxInputLength); reason != "" {
		return rejected(reason)
	}
	return ok()
}

// loadContext 阶段 2: 加载会话上下文；失败降级为空上下文，不终止
func (p *Pipeline) loadContext(ctx context.Context, rs *runState, emit func(model.StreamEvent) bool) stageResult {
	if rs.req.SessionID == "" || p.store == nil {
		return ok()
	}

	emit(model.Thought("Retrieving conversation history..."))

	msgs, err := p.store.GetRecentMessages(ctx, rs.req.SessionID, int64(p.cfg.ContextWindow))
	if err != nil {
		log.Warn().Err(err).Str("session_id", rs.req.SessionID).Msg("failed to load history")
		emit(model.Thought("Memory retrieval failed, starting with fresh context."))
		return ok()
	}

	var sb strings.Builder
	for _, m := range msgs {
		sb.WriteString(capitalize(m.Role))
		sb.WriteString(": ")
		sb.WriteString(m.Content)
		sb.WriteString("\n")
	}
	rs.context = sb.String()

	emit(model.Thought(fmt.Sprintf("Loaded %d messages for context.", len(msgs))))
	return ok()
}

// plan 阶段 3: 规划器决策；解析失败默认直接回答
func (p *Pipeline) plan(ctx context.Context, rs *runState, emit func(model.StreamEvent) bool) stageResult {
	emit(model.Thought("Consulting planner for response strategy..."))

	var featureList string
	if p.features != nil {
		featureList = "- " + strings.Join(p.features.Names(), "\n- ")
	}

	prompt := fmt.Sprintf(plannerPrompt, featureList) +
		"\n\nCONVERSATION SO FAR:\n" + rs.context +
		"\n\nLatest user message: " + rs.req.Input

	callCtx, cancel := context.WithTimeout(ctx, p.cfg.Timeout)
	defer cancel()

	raw, err := p.gateway.Generate(callCtx, prompt)
	if err != nil {
		return failed(err)
	}

	decision, perr := parseDecision(raw)
	if perr != nil {
		emit(model.Thought("Planner response malformed, defaulting to direct answer."))
		rs.decision = plannerDecision{Action: actionAnswerDirectly}
		return ok()
	}

	rs.decision = decision
	emit(model.Thought(fmt.Sprintf("Intent identified as %s. Reason: %s", decision.Action, decision.Reason)))
	return ok()
}

// parseDecision 解析规划器输出；容忍 markdown 代码围栏
func parseDecision(raw string) (plannerDecision, error) {
	clean := strings.TrimSpace(raw)
	clean = strings.TrimPrefix(clean, "```json")
	clean = strings.TrimPrefix(clean, "```")
	clean = strings.TrimSuffix(clean, "```")
	clean = strings.TrimSpace(clean)

	var d plannerDecision
	if err := json.Unmarshal([]byte(clean), &d); err != nil {
		return plannerDecision{}, err
	}
	if d.Action != actionAnswerDirectly && d.Action != actionRunFeature {
		return plannerDecision{}, fmt.Errorf("unknown planner action: %s", d.Action)
	}
	return d, nil
}

// act 阶段 4 (条件): 执行侧能力，结果并入上下文
// 能力失败不终止，把失败信息交给生成阶段解释
func (p *Pipeline) act(ctx context.Context, rs *runState, emit func(model.StreamEvent) bool) stageResult {
	name := rs.decision.FeatureName

	emit(model.Action(fmt.Sprintf("Executing %s module", name)))

	result, err := p.features.Run(ctx, name)
	if err != nil {
		log.Warn().Err(err).Str("feature", name).Msg("feature execution failed")
		rs.context += fmt.Sprintf("\n\nFEATURE EXECUTION FAILED (%s): %v", name, err)
		emit(model.Thought("Feature execution failed, explaining the issue."))
		return ok()
	}

	rs.context += fmt.Sprintf("\n\nFEATURE EXECUTION RESULT (%s):\n%s", name, result)
	emit(model.ToolOutput(result))
	return ok()
}

// generate 阶段 5: 流式生成，逐块转发 token
func (p *Pipeline) generate(ctx context.Context, rs *runState, emit func(model.StreamEvent) bool) stageResult {
	emit(model.Thought("Synthesizing final response..."))

	prompt := rs.req.Input
	if rs.context != "" {
		prompt = rs.context + "\nUser: " + rs.req.Input
	}

	callCtx, cancel := context.WithTimeout(ctx, p.cfg.Timeout)
	defer cancel()

	sr, err := p.gateway.Stream(callCtx, prompt)
	if err != nil {
		return failed(err)
	}
	defer sr.Close()

	for {
		msg, err := sr.Recv()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			// 已发出的 token 保持原样，error 事件作为流的结尾
			return failed(err)
		}
		if msg.Content == "" {
			continue
		}
		rs.answer.WriteString(msg.Content)
		if !emit(model.Token(msg.Content)) {
			return failed(ctx.Err())
		}
	}

	return ok()
}

// persist 阶段 6: 落库
// 调用方断开时丢弃半成品；落库失败只记日志，不再污染已经送达的流
func (p *Pipeline) persist(ctx context.Context, rs *runState) stageResult {
	if ctx.Err() != nil {
		log.Debug().Str("request_id", rs.req.RequestID).Msg("caller gone, discarding partial turn")
		return ok()
	}

	answer := rs.answer.String()
	if p.onSuccess != nil && answer != "" {
		p.onSuccess(rs.req, answer)
	}

	if p.store == nil || rs.req.SessionID == "" {
		return ok()
	}

	if _, err := p.store.AppendMessage(ctx, rs.req.SessionID, model.RoleUser, rs.req.Input); err != nil {
		log.Warn().Err(err).Str("session_id", rs.req.SessionID).Msg("durability warning: failed to persist user message")
		return ok()
	}
	if _, err := p.store.AppendMessage(ctx, rs.req.SessionID, model.RoleAssistant, answer); err != nil {
		log.Warn().Err(err).Str("session_id", rs.req.SessionID).Msg("durability warning: failed to persist assistant message")
		return ok()
	}

	provider, modelName := p.gateway.Backend()
	rec := &model.Interaction{
		UserInput:         rs.req.Input,
		AssistantResponse: answer,
		Provider:          provider,
		Model:             modelName,
		LatencyMs:         time.Since(rs.started).Milliseconds(),
		Timestamp:         time.Now(),
	}
	if err := p.store.RecordInteraction(ctx, rs.req.SessionID, rec); err != nil {
		log.Warn().Err(err).Msg("durability warning: failed to record interaction")
	}

	return ok()
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
