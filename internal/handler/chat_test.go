package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	. "github.com/smartystreets/goconvey/convey"

	"sentinel/internal/knowledge"
	"sentinel/internal/pipeline"
	"sentinel/internal/pkg/cache"
	"sentinel/internal/router"
	"sentinel/internal/service"
)

type hitLookup struct {
	answer string
}

func (l hitLookup) Search(query string) (knowledge.Result, bool) {
	if strings.TrimSpace(query) == "" {
		return knowledge.Result{}, false
	}
	return knowledge.Result{Answer: l.answer, Confidence: 1.0}, true
}

func newChatEngine(answer string) *gin.Engine {
	gin.SetMode(gin.TestMode)

	rt := router.New(cache.NewResponseCache(10), hitLookup{answer: answer}, 0.8, time.Hour)
	pipe := pipeline.New(nil, nil, pipeline.NewFeatureRegistry(), pipeline.Config{
		ContextWindow:  10,
		MaxInputLength: 8192,
		Timeout:        5 * time.Second,
	})
	svc := service.NewChatService(rt, pipe, nil, 100)

	engine := gin.New()
	engine.POST("/api/v1/stream", NewChatHandler(svc).Stream)
	return engine
}

func TestChatHandler_Stream(t *testing.T) {
	Convey("POST /api/v1/stream", t, func() {
		engine := newChatEngine("local answer")

		Convey("非法请求体返回 400", func() {
			req := httptest.NewRequest(http.MethodPost, "/api/v1/stream", strings.NewReader(`{"message": 123}`))
			req.Header.Set("Content-Type", "application/json")
			rec := httptest.NewRecorder()

			engine.ServeHTTP(rec, req)

			So(rec.Code, ShouldEqual, http.StatusBadRequest)
			So(rec.Body.String(), ShouldContainSubstring, "40001")
		})

		Convey("空 message 进入事件流，以单个 error 事件拒绝", func() {
			req := httptest.NewRequest(http.MethodPost, "/api/v1/stream", strings.NewReader(`{"message": ""}`))
			req.Header.Set("Content-Type", "application/json")
			rec := httptest.NewRecorder()

			engine.ServeHTTP(rec, req)

			So(rec.Code, ShouldEqual, http.StatusOK)
			So(rec.Header().Get("Content-Type"), ShouldEqual, "application/x-ndjson")

			lines := strings.Split(strings.TrimSpace(rec.Body.String()), "\n")
			So(len(lines), ShouldEqual, 1)
			So(lines[0], ShouldContainSubstring, `"type":"error"`)
			So(lines[0], ShouldContainSubstring, "empty")
		})

		Convey("正常请求返回 NDJSON 事件流", func() {
			req := httptest.NewRequest(http.MethodPost, "/api/v1/stream", strings.NewReader(`{"message": "who are you"}`))
			req.Header.Set("Content-Type", "application/json")
			rec := httptest.NewRecorder()

			engine.ServeHTTP(rec, req)

			So(rec.Code, ShouldEqual, http.StatusOK)
			So(rec.Header().Get("Content-Type"), ShouldEqual, "application/x-ndjson")

			lines := strings.Split(strings.TrimSpace(rec.Body.String()), "\n")
			So(len(lines), ShouldBeGreaterThanOrEqualTo, 3)
			So(lines[0], ShouldContainSubstring, `"type":"thought"`)
			So(rec.Body.String(), ShouldContainSubstring, `"type":"token"`)
			So(lines[len(lines)-1], ShouldContainSubstring, `"type":"tool_output"`)
		})
	})
}
