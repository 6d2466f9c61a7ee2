package router

import (
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	"sentinel/internal/knowledge"
	"sentinel/internal/pkg/cache"
)

type fakeLookup struct {
	res knowledge.Result
	ok  bool
}

func (f fakeLookup) Search(string) (knowledge.Result, bool) {
	return f.res, f.ok
}

func TestRouter_Route(t *testing.T) {
	Convey("Route 依次查缓存和知识库", t, func() {
		Convey("缓存命中直接返回，不查知识库", func() {
			c := cache.NewResponseCache(10)
			c.Set(cache.Key("hello", ""), cache.Value{Content: "cached answer", Source: SourceKnowledge}, time.Hour)

			// 知识库给出不同的答案，用来证明它没被采用
			rt := New(c, fakeLookup{res: knowledge.Result{Answer: "kb answer", Confidence: 1.0}, ok: true}, 0.8, time.Hour)

			ans := rt.Route("hello", "")
			So(ans, ShouldNotBeNil)
			So(ans.Content, ShouldEqual, "cached answer")
			So(ans.Source, ShouldEqual, SourceCache)
		})

		Convey("知识库高置信度命中，返回并回写缓存", func() {
			c := cache.NewResponseCache(10)
			rt := New(c, fakeLookup{res: knowledge.Result{Answer: "kb answer", Confidence: 0.95}, ok: true}, 0.8, time.Hour)

			ans := rt.Route("who are you", "")
			So(ans, ShouldNotBeNil)
			So(ans.Content, ShouldEqual, "kb answer")
			So(ans.Source, ShouldEqual, SourceKnowledge)

			v, ok := c.Get(cache.Key("who are you", ""))
			So(ok, ShouldBeTrue)
			So(v.Content, ShouldEqual, "kb answer")

			Convey("第二次同样的问题改走缓存", func() {
				again := rt.Route("who are you", "")
				So(again, ShouldNotBeNil)
				So(again.Source, ShouldEqual, SourceCache)
			})
		})

		Convey("置信度恰好等于阈值不算命中", func() {
			c := cache.NewResponseCache(10)
			rt := New(c, fakeLookup{res: knowledge.Result{Answer: "kb answer", Confidence: 0.8}, ok: true}, 0.8, time.Hour)

			So(rt.Route("borderline question", ""), ShouldBeNil)
			So(c.Len(), ShouldEqual, 0)
		})

		Convey("两步都未命中返回 nil", func() {
			c := cache.NewResponseCache(10)
			rt := New(c, fakeLookup{}, 0.8, time.Hour)

			So(rt.Route("novel question", ""), ShouldBeNil)
		})

		Convey("不同 mode 的缓存互不串扰", func() {
			c := cache.NewResponseCache(10)
			rt := New(c, fakeLookup{}, 0.8, time.Hour)
			rt.CacheResult("hello", "standard", "standard answer", "generation")

			So(rt.Route("hello", "creative"), ShouldBeNil)

			ans := rt.Route("hello", "standard")
			So(ans, ShouldNotBeNil)
			So(ans.Content, ShouldEqual, "standard answer")
		})
	})
}

func TestRouter_CacheResult(t *testing.T) {
	Convey("CacheResult 把生成结果写进缓存", t, func() {
		c := cache.NewResponseCache(10)
		rt := New(c, fakeLookup{}, 0.8, time.Hour)

		rt.CacheResult("explain goroutines", "", "goroutines are lightweight threads", "generation")

		ans := rt.Route("Explain Goroutines", "")
		So(ans, ShouldNotBeNil)
		So(ans.Content, ShouldEqual, "goroutines are lightweight threads")
		So(ans.Source, ShouldEqual, SourceCache)
	})
}
