package pipeline

import (
	"context"
	"fmt"
	"sort"
)

// FeatureFunc 侧能力执行函数，返回文本结果供后续生成阶段引用
type FeatureFunc func(ctx context.Context) (string, error)

// FeatureRegistry 侧能力注册表
type FeatureRegistry struct {
	features map[string]FeatureFunc
}

// NewFeatureRegistry 创建注册表并注册内置能力
func NewFeatureRegistry() *FeatureRegistry {
	r := &FeatureRegistry{features: make(map[string]FeatureFunc)}
	r.Register("generate_ci_and_docker", generateCIAndDocker)
	return r
}

// Register 注册一个能力
func (r *FeatureRegistry) Register(name string, fn FeatureFunc) {
	r.features[name] = fn
}

// Names 已注册能力名，供规划器提示词引用
func (r *FeatureRegistry) Names() []string {
	names := make([]string, 0, len(r.features))
	for name := range r.features {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Run 执行指定能力
func (r *FeatureRegistry) Run(ctx context.Context, name string) (string, error) {
	fn, ok := r.features[name]
	if !ok {
		return "", fmt.Errorf("feature not found: %s", name)
	}
	return fn(ctx)
}

// generateCIAndDocker 生成部署用的 Dockerfile / CI / compose 文本
func generateCIAndDocker(_ context.Context) (string, error) {
	return `Generated deployment stack:

--- Dockerfile ---
FROM golang:1.24-alpine AS builder
WORKDIR /app
COPY go.mod go.sum ./
RUN go mod download
COPY . .
RUN CGO_ENABLED=0 go build -o sentinel .

FROM alpine:3.20
WORKDIR /app
COPY --from=builder /app/sentinel .
COPY configs ./configs
EXPOSE 8080
CMD ["./sentinel", "serve"]

--- .github/workflows/ci.yml ---
name: CI
on:
  push:
    branches: [ main ]
  pull_request:
    branches: [ main ]
jobs:
  test:
    runs-on: ubuntu-latest
    steps:
    - uses: actions/checkout@v4
    - uses: actions/setup-go@v5
      with:
        go-version: '1.24'
    - run: go vet ./...
    - run: go test ./...
    - run: docker build -t sentinel .

--- docker-compose.yml ---
services:
  mongo:
    image: mongo:7
    ports:
      - "27017:27017"
  redis:
    image: redis:7-alpine
    ports:
      - "6379:6379"
  backend:
    build: .
    ports:
      - "8080:8080"
    environment:
      - SENTINEL_MONGO_URI=mongodb://mongo:27017
      - SENTINEL_REDIS_ADDR=redis:6379
    depends_on:
      - mongo
      - redis`, nil
}
