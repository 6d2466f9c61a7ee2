package router

import (
	"time"

	"github.com/rs/zerolog/log"

	"sentinel/internal/knowledge"
	"sentinel/internal/pkg/cache"
)

// 应答来源标记
const (
	SourceCache     = "cache"
	SourceKnowledge = "knowledge"
)

// Lookup 本地知识查询能力
type Lookup interface {
	Search(query string) (knowledge.Result, bool)
}

// Answer 路由命中的应答
type Answer struct {
	Content string
	Source  string
}

// Router 请求路由器
// 依次查应答缓存、本地知识库；两步都是本地内存操作，未命中返回 nil
// 交由生成流水线处理
type Router struct {
	cache     *cache.ResponseCache
	lookup    Lookup
	threshold float64
	cacheTTL  time.Duration
}

// New 创建路由器
func New(c *cache.ResponseCache, lookup Lookup, threshold float64, cacheTTL time.Duration) *Router {
	return &Router{
		cache:     c,
		lookup:    lookup,
		threshold: threshold,
		cacheTTL:  cacheTTL,
	}
}

// Route 路由一条用户输入
// 1. 缓存精确命中
// 2. 知识库命中且置信度超过阈值，同时回写缓存
// 3. 返回 nil，调用方进入生成流水线
func (r *Router) Route(input, mode string) *Answer {
	key := cache.Key(input, mode)

	if v, ok := r.cache.Get(key); ok {
		log.Debug().Str("source", v.Source).Msg("router: cache hit")
		return &Answer{Content: v.Content, Source: SourceCache}
	}

	if r.lookup != nil {
		if res, ok := r.lookup.Search(input); ok && res.Confidence > r.threshold {
			log.Debug().Float64("confidence", res.Confidence).Msg("router: knowledge hit")
			r.cache.Set(key, cache.Value{Content: res.Answer, Source: SourceKnowledge}, r.cacheTTL)
			return &Answer{Content: res.Answer, Source: SourceKnowledge}
		}
	}

	return nil
}

// CacheResult 生成流水线成功后回写缓存
func (r *Router) CacheResult(input, mode, content, source string) {
	r.cache.Set(cache.Key(input, mode), cache.Value{Content: content, Source: source}, r.cacheTTL)
}
