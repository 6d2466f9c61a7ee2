package config

import (
	"errors"
	"time"
)

// Config 应用配置根结构
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	AI        AIConfig        `mapstructure:"ai"`
	Log       LogConfig       `mapstructure:"log"`
	Mongo     MongoConfig     `mapstructure:"mongo"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Router    RouterConfig    `mapstructure:"router"`
	Pipeline  PipelineConfig  `mapstructure:"pipeline"`
	RateLimit RateLimitConfig `mapstructure:"ratelimit"`
	Knowledge KnowledgeConfig `mapstructure:"knowledge"`
}

// ServerConfig HTTP 服务器配置
type ServerConfig struct {
	Host         string        `mapstructure:"host"`
	Port         int           `mapstructure:"port"`
	Mode         string        `mapstructure:"mode"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

// AIConfig AI 服务配置
type AIConfig struct {
	Provider      string          `mapstructure:"provider"`
	APIKey        string          `mapstructure:"api_key"`
	Model         string          `mapstructure:"model"`
	BaseURL       string          `mapstructure:"base_url"`
	AllowedModels []string        `mapstructure:"allowed_models"` // 空表示不限制
	Options       AIOptionsConfig `mapstructure:"options"`
}

// AIOptionsConfig AI 模型参数
type AIOptionsConfig struct {
	Temperature float64 `mapstructure:"temperature"`
	MaxTokens   int     `mapstructure:"max_tokens"`
	TopP        float64 `mapstructure:"top_p"`
}

// LogConfig 日志配置 (Zerolog)
type LogConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	Output     string `mapstructure:"output"`
	FilePath   string `mapstructure:"file_path"`
	TimeFormat string `mapstructure:"time_format"`
}

// MongoConfig MongoDB 配置
type MongoConfig struct {
	URI         string `mapstructure:"uri"`
	Database    string `mapstructure:"database"`
	MaxPoolSize uint64 `mapstructure:"max_pool_size"`
	MinPoolSize uint64 `mapstructure:"min_pool_size"`
}

// RedisConfig Redis 配置
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// RouterConfig 请求路由配置
type RouterConfig struct {
	ConfidenceThreshold float64       `mapstructure:"confidence_threshold"` // 知识库命中阈值
	CacheTTL            time.Duration `mapstructure:"cache_ttl"`
	CacheCapacity       int           `mapstructure:"cache_capacity"`
}

// PipelineConfig 生成流水线配置
type PipelineConfig struct {
	ContextWindow  int           `mapstructure:"context_window"`   // 上下文保留的最近消息数
	MaxInputLength int           `mapstructure:"max_input_length"` // 输入最大长度
	Timeout        time.Duration `mapstructure:"timeout"`          // 单次模型调用超时
	ChunkSize      int           `mapstructure:"chunk_size"`       // 本地命中流式输出的分片大小
}

// RateLimitConfig 限流配置
type RateLimitConfig struct {
	RequestsPerMinute int `mapstructure:"requests_per_minute"`
}

// KnowledgeConfig 知识库配置
type KnowledgeConfig struct {
	Path string `mapstructure:"path"` // 额外词条文件 (JSON)，可选
}

// Validate 验证配置有效性
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return errors.New("invalid server port")
	}

	validModes := map[string]bool{"debug": true, "release": true, "test": true}
	if !validModes[c.Server.Mode] {
		return errors.New("invalid server mode, must be debug/release/test")
	}

	if c.Router.ConfidenceThreshold < 0 || c.Router.ConfidenceThreshold > 1 {
		return errors.New("router confidence threshold must be in [0,1]")
	}

	if c.Pipeline.ContextWindow <= 0 {
		return errors.New("pipeline context window must be positive")
	}

	if c.RateLimit.RequestsPerMinute <= 0 {
		return errors.New("rate limit ceiling must be positive")
	}

	return nil
}
