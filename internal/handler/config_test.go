package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	. "github.com/smartystreets/goconvey/convey"

	"sentinel/internal/config"
)

type fakeSwitcher struct {
	provider  string
	modelName string
	switchErr error
}

func (f *fakeSwitcher) Backend() (string, string) {
	return f.provider, f.modelName
}

func (f *fakeSwitcher) SwitchModel(_ context.Context, modelName string) error {
	if f.switchErr != nil {
		return f.switchErr
	}
	f.modelName = modelName
	return nil
}

func newConfigEngine(sw ModelSwitcher) *gin.Engine {
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{
		Router:    config.RouterConfig{ConfidenceThreshold: 0.8},
		Pipeline:  config.PipelineConfig{ContextWindow: 10, Timeout: 60 * time.Second},
		RateLimit: config.RateLimitConfig{RequestsPerMinute: 20},
	}

	engine := gin.New()
	h := NewConfigHandler(cfg, sw)
	engine.GET("/api/v1/config", h.Get)
	engine.POST("/api/v1/config", h.Update)
	return engine
}

func TestConfigHandler_Get(t *testing.T) {
	Convey("GET /api/v1/config 返回脱敏配置", t, func() {
		engine := newConfigEngine(&fakeSwitcher{provider: "openai", modelName: "gpt-4o-mini"})

		req := httptest.NewRequest(http.MethodGet, "/api/v1/config", nil)
		rec := httptest.NewRecorder()
		engine.ServeHTTP(rec, req)

		So(rec.Code, ShouldEqual, http.StatusOK)
		So(rec.Body.String(), ShouldContainSubstring, `"provider":"openai"`)
		So(rec.Body.String(), ShouldContainSubstring, `"model":"gpt-4o-mini"`)
		So(rec.Body.String(), ShouldNotContainSubstring, "api_key")
	})
}

func TestConfigHandler_Update(t *testing.T) {
	Convey("POST /api/v1/config 切换模型", t, func() {
		Convey("切换成功", func() {
			sw := &fakeSwitcher{provider: "openai", modelName: "gpt-4o-mini"}
			engine := newConfigEngine(sw)

			req := httptest.NewRequest(http.MethodPost, "/api/v1/config", strings.NewReader(`{"model": "gpt-4o"}`))
			req.Header.Set("Content-Type", "application/json")
			rec := httptest.NewRecorder()
			engine.ServeHTTP(rec, req)

			So(rec.Code, ShouldEqual, http.StatusOK)
			So(sw.modelName, ShouldEqual, "gpt-4o")
			So(rec.Body.String(), ShouldContainSubstring, "model: gpt-4o")
		})

		Convey("缺少 model 字段返回 400", func() {
			engine := newConfigEngine(&fakeSwitcher{})

			req := httptest.NewRequest(http.MethodPost, "/api/v1/config", strings.NewReader(`{}`))
			req.Header.Set("Content-Type", "application/json")
			rec := httptest.NewRecorder()
			engine.ServeHTTP(rec, req)

			So(rec.Code, ShouldEqual, http.StatusBadRequest)
			So(rec.Body.String(), ShouldContainSubstring, "40001")
		})

		Convey("网关拒绝切换返回 400", func() {
			engine := newConfigEngine(&fakeSwitcher{switchErr: errors.New("model not in allowed list")})

			req := httptest.NewRequest(http.MethodPost, "/api/v1/config", strings.NewReader(`{"model": "claude-3"}`))
			req.Header.Set("Content-Type", "application/json")
			rec := httptest.NewRecorder()
			engine.ServeHTTP(rec, req)

			So(rec.Code, ShouldEqual, http.StatusBadRequest)
			So(rec.Body.String(), ShouldContainSubstring, "40002")
		})
	})
}
