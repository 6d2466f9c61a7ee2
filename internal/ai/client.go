package ai

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/rs/zerolog/log"

	"sentinel/internal/ai/component"
	"sentinel/internal/config"
)

// binding 当前生效的模型绑定
// 整体原子替换，切换模型不影响在途请求
type binding struct {
	modelName string
	chatModel model.ChatModel
}

// Client 模型网关
// 职责: 封装外部文本生成后端，提供同步/流式两种调用
type Client struct {
	cfg   *config.AIConfig
	bound atomic.Pointer[binding]
}

// NewClient 创建模型网关，进程启动时按配置选定 Provider
func NewClient(ctx context.Context, cfg *config.AIConfig) (*Client, error) {
	if cfg.APIKey == "" {
		log.Warn().Str("provider", cfg.Provider).Msg("AI API key not configured, backend calls will fail")
	}

	cm, err := component.NewChatModel(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create chat model: %w", err)
	}

	c := &Client{cfg: cfg}
	c.bound.Store(&binding{modelName: cfg.Model, chatModel: cm})
	return c, nil
}

// Generate 同步生成
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	b := c.bound.Load()

	resp, err := b.chatModel.Generate(ctx, []*schema.Message{schema.UserMessage(prompt)})
	if err != nil {
		return "", fmt.Errorf("generate failed: %w", err)
	}
	if resp.Content == "" {
		return "", fmt.Errorf("empty response from chat model")
	}
	return resp.Content, nil
}

// Stream 流式生成
// 返回的 StreamReader 是一次性的，读到 io.EOF 或错误即结束
func (c *Client) Stream(ctx context.Context, prompt string) (*schema.StreamReader[*schema.Message], error) {
	b := c.bound.Load()
	return b.chatModel.Stream(ctx, []*schema.Message{schema.UserMessage(prompt)})
}

// Backend 当前后端标识
func (c *Client) Backend() (provider, modelName string) {
	return c.cfg.Provider, c.bound.Load().modelName
}

// SwitchModel 切换当前模型
// 仅对后续请求生效；AllowedModels 非空时做白名单校验
func (c *Client) SwitchModel(ctx context.Context, modelName string) error {
	if modelName == "" {
		return fmt.Errorf("model name is required")
	}

	if len(c.cfg.AllowedModels) > 0 {
		allowed := false
		for _, m := range c.cfg.AllowedModels {
			if m == modelName {
				allowed = true
				break
			}
		}
		if !allowed {
			return fmt.Errorf("model not allowed: %s", modelName)
		}
	}

	newCfg := *c.cfg
	newCfg.Model = modelName
	cm, err := component.NewChatModel(ctx, &newCfg)
	if err != nil {
		return fmt.Errorf("failed to create chat model %s: %w", modelName, err)
	}

	c.bound.Store(&binding{modelName: modelName, chatModel: cm})
	log.Info().Str("model", modelName).Msg("switched active model")
	return nil
}
