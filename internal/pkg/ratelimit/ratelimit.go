package ratelimit

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// Limiter 固定窗口限流器
type Limiter interface {
	// Allow 判断 key (通常是客户端 IP) 在当前窗口内是否还有配额
	Allow(ctx context.Context, key string) (bool, error)
}

// MemoryLimiter 进程内固定窗口限流
type MemoryLimiter struct {
	mu        sync.Mutex
	limit     int
	window    time.Duration
	counts    map[string]int
	windows   map[string]time.Time // 窗口起点
	lastSweep time.Time
}

// NewMemoryLimiter 创建进程内限流器
func NewMemoryLimiter(requestsPerMinute int) *MemoryLimiter {
	return &MemoryLimiter{
		limit:     requestsPerMinute,
		window:    time.Minute,
		counts:    make(map[string]int),
		windows:   make(map[string]time.Time),
		lastSweep: time.Now(),
	}
}

// Allow 实现 Limiter
func (l *MemoryLimiter) Allow(_ context.Context, key string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	l.sweep(now)

	start, ok := l.windows[key]
	if !ok || now.Sub(start) >= l.window {
		l.windows[key] = now
		l.counts[key] = 0
	}

	if l.counts[key] >= l.limit {
		return false, nil
	}
	l.counts[key]++
	return true, nil
}

// sweep 清理过期窗口，每个窗口周期至多全表扫一次
// 不清理的话闲置 key 会一直留在表里
func (l *MemoryLimiter) sweep(now time.Time) {
	if now.Sub(l.lastSweep) < l.window {
		return
	}
	l.lastSweep = now

	for key, start := range l.windows {
		if now.Sub(start) >= l.window {
			delete(l.windows, key)
			delete(l.counts, key)
		}
	}
}

// RedisLimiter 基于 Redis 的固定窗口限流，多实例共享配额
type RedisLimiter struct {
	client *redis.Client
	limit  int
	window time.Duration
}

// NewRedisLimiter 创建 Redis 限流器
func NewRedisLimiter(client *redis.Client, requestsPerMinute int) *RedisLimiter {
	return &RedisLimiter{
		client: client,
		limit:  requestsPerMinute,
		window: time.Minute,
	}
}

// Allow 实现 Limiter
// Redis 不可达时放行，限流是保护机制而不是可用性瓶颈
func (l *RedisLimiter) Allow(ctx context.Context, key string) (bool, error) {
	bucket := fmt.Sprintf("ratelimit:%s:%d", key, time.Now().Unix()/int64(l.window.Seconds()))

	n, err := l.client.Incr(ctx, bucket).Result()
	if err != nil {
		log.Warn().Err(err).Msg("rate limit backend unreachable, allowing request")
		return true, nil
	}
	if n == 1 {
		l.client.Expire(ctx, bucket, l.window)
	}

	return n <= int64(l.limit), nil
}
