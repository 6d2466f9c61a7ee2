package knowledge

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestBase_Search(t *testing.T) {
	Convey("Search 对查询打分", t, func() {
		b, err := NewWithEntries([]Entry{
			{
				Patterns: []string{"who are you", "what are you"},
				Answer:   "I am the assistant.",
			},
			{
				Patterns: []string{"system status"},
				Answer:   "All systems operational.",
			},
		})
		So(err, ShouldBeNil)

		Convey("归一化后的精确命中置信度为 1.0", func() {
			res, ok := b.Search("  Who Are You  ")
			So(ok, ShouldBeTrue)
			So(res.Confidence, ShouldEqual, 1.0)
			So(res.Answer, ShouldEqual, "I am the assistant.")
		})

		Convey("部分重合按 Jaccard 给分", func() {
			res, ok := b.Search("status")
			So(ok, ShouldBeTrue)
			So(res.Confidence, ShouldBeGreaterThan, 0)
			So(res.Confidence, ShouldBeLessThan, 1.0)
			So(res.Answer, ShouldEqual, "All systems operational.")
		})

		Convey("毫无重合的查询不命中", func() {
			_, ok := b.Search("quantum entanglement recipes")
			So(ok, ShouldBeFalse)
		})

		Convey("空查询不命中", func() {
			_, ok := b.Search("   ")
			So(ok, ShouldBeFalse)
		})

		Convey("同样的查询结果稳定", func() {
			first, _ := b.Search("who are you")
			second, _ := b.Search("who are you")
			So(first, ShouldResemble, second)
		})
	})
}

func TestBuiltinEntries(t *testing.T) {
	Convey("内置词条覆盖固定应答", t, func() {
		b, err := New("")
		So(err, ShouldBeNil)

		Convey("身份询问", func() {
			res, ok := b.Search("who are you")
			So(ok, ShouldBeTrue)
			So(res.Confidence, ShouldEqual, 1.0)
			So(res.Answer, ShouldContainSubstring, "Sentinel AI")
		})

		Convey("系统状态", func() {
			res, ok := b.Search("status")
			So(ok, ShouldBeTrue)
			So(res.Confidence, ShouldEqual, 1.0)
			So(res.Answer, ShouldContainSubstring, "System Status Report")
		})

		Convey("问候", func() {
			res, ok := b.Search("hello")
			So(ok, ShouldBeTrue)
			So(res.Confidence, ShouldEqual, 1.0)
		})
	})
}
