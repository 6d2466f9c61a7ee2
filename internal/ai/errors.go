package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// ErrorKind 后端错误分类
// 流水线不区分重试策略，但事件文案需要区分鉴权/配额与临时故障
type ErrorKind int

const (
	ErrKindTransient ErrorKind = iota
	ErrKindAuth
	ErrKindQuota
	ErrKindTimeout
)

// Classify 根据错误内容判断分类
func Classify(err error) ErrorKind {
	if err == nil {
		return ErrKindTransient
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return ErrKindTimeout
	}

	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "401") || strings.Contains(msg, "403") ||
		strings.Contains(msg, "api key") || strings.Contains(msg, "unauthorized") ||
		strings.Contains(msg, "authentication"):
		return ErrKindAuth
	case strings.Contains(msg, "429") || strings.Contains(msg, "quota") ||
		strings.Contains(msg, "rate limit") || strings.Contains(msg, "insufficient"):
		return ErrKindQuota
	case strings.Contains(msg, "timeout") || strings.Contains(msg, "deadline"):
		return ErrKindTimeout
	default:
		return ErrKindTransient
	}
}

// Describe 生成面向调用方的错误文案
func Describe(err error) string {
	switch Classify(err) {
	case ErrKindAuth:
		return fmt.Sprintf("backend authentication failed: %v", err)
	case ErrKindQuota:
		return fmt.Sprintf("backend quota exceeded: %v", err)
	case ErrKindTimeout:
		return fmt.Sprintf("backend request timed out: %v", err)
	default:
		return fmt.Sprintf("backend error: %v", err)
	}
}
