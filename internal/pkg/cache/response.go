package cache

import (
	"container/list"
	"crypto/md5"
	"encoding/hex"
	"strings"
	"sync"
	"time"
)

// Value 缓存的应答
type Value struct {
	Content string `json:"content"`
	Source  string `json:"source"`
}

type entry struct {
	key       string
	value     Value
	expiresAt time.Time
}

// ResponseCache 进程内应答缓存
// 有界 (LRU 淘汰) + TTL 惰性过期；路由器直接读它，不允许任何网络 IO
type ResponseCache struct {
	mu       sync.Mutex
	capacity int
	ll       *list.List // 头部为最近使用
	items    map[string]*list.Element
}

// NewResponseCache 创建应答缓存
func NewResponseCache(capacity int) *ResponseCache {
	if capacity <= 0 {
		capacity = 1000
	}
	return &ResponseCache{
		capacity: capacity,
		ll:       list.New(),
		items:    make(map[string]*list.Element),
	}
}

// Key 生成归一化缓存 key: lower(trim(input))|mode 的 md5
func Key(input, mode string) string {
	if mode == "" {
		mode = "standard"
	}
	normalized := strings.ToLower(strings.TrimSpace(input)) + "|" + mode
	sum := md5.Sum([]byte(normalized))
	return hex.EncodeToString(sum[:])
}

// Get 查询缓存；过期条目视为不存在并被删除
func (c *ResponseCache) Get(key string) (Value, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	el, ok := c.items[key]
	if !ok {
		return Value{}, false
	}

	ent := el.Value.(*entry)
	if time.Now().After(ent.expiresAt) {
		c.ll.Remove(el)
		delete(c.items, key)
		return Value{}, false
	}

	c.ll.MoveToFront(el)
	return ent.value, true
}

// Set 写入缓存；超出容量时淘汰最久未使用的条目
func (c *ResponseCache) Set(key string, value Value, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	expiresAt := time.Now().Add(ttl)

	if el, ok := c.items[key]; ok {
		ent := el.Value.(*entry)
		ent.value = value
		ent.expiresAt = expiresAt
		c.ll.MoveToFront(el)
		return
	}

	el := c.ll.PushFront(&entry{key: key, value: value, expiresAt: expiresAt})
	c.items[key] = el

	for c.ll.Len() > c.capacity {
		oldest := c.ll.Back()
		if oldest == nil {
			break
		}
		c.ll.Remove(oldest)
		delete(c.items, oldest.Value.(*entry).key)
	}
}

// Len 当前条目数 (含未被惰性清理的过期条目)
func (c *ResponseCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ll.Len()
}
