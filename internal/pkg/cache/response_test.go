package cache

import (
	"fmt"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
)

func TestKey(t *testing.T) {
	Convey("Key 对输入做归一化", t, func() {
		Convey("大小写和首尾空白不影响 key", func() {
			So(Key("  Hello World  ", "standard"), ShouldEqual, Key("hello world", "standard"))
		})

		Convey("mode 为空等价于 standard", func() {
			So(Key("hello", ""), ShouldEqual, Key("hello", "standard"))
		})

		Convey("不同 mode 产生不同 key", func() {
			So(Key("hello", "standard"), ShouldNotEqual, Key("hello", "creative"))
		})

		Convey("不同输入产生不同 key", func() {
			So(Key("hello", "standard"), ShouldNotEqual, Key("goodbye", "standard"))
		})
	})
}

func TestResponseCache_GetSet(t *testing.T) {
	Convey("ResponseCache 读写", t, func() {
		c := NewResponseCache(10)

		Convey("未写入的 key 不命中", func() {
			_, ok := c.Get(Key("missing", ""))
			So(ok, ShouldBeFalse)
		})

		Convey("写入后命中，内容和来源保持不变", func() {
			key := Key("what is go", "")
			c.Set(key, Value{Content: "a language", Source: "knowledge"}, time.Hour)

			v, ok := c.Get(key)
			So(ok, ShouldBeTrue)
			So(v.Content, ShouldEqual, "a language")
			So(v.Source, ShouldEqual, "knowledge")
		})

		Convey("重复读取返回同样的结果", func() {
			key := Key("stable", "")
			c.Set(key, Value{Content: "answer", Source: "generation"}, time.Hour)

			for i := 0; i < 3; i++ {
				v, ok := c.Get(key)
				So(ok, ShouldBeTrue)
				So(v.Content, ShouldEqual, "answer")
			}
		})

		Convey("覆盖写生效", func() {
			key := Key("overwrite", "")
			c.Set(key, Value{Content: "old"}, time.Hour)
			c.Set(key, Value{Content: "new"}, time.Hour)

			v, _ := c.Get(key)
			So(v.Content, ShouldEqual, "new")
			So(c.Len(), ShouldEqual, 1)
		})
	})
}

func TestResponseCache_TTL(t *testing.T) {
	Convey("过期条目视为不存在", t, func() {
		c := NewResponseCache(10)
		key := Key("ephemeral", "")
		c.Set(key, Value{Content: "short lived"}, time.Millisecond)

		time.Sleep(5 * time.Millisecond)

		_, ok := c.Get(key)
		So(ok, ShouldBeFalse)

		Convey("惰性清理把过期条目删掉", func() {
			So(c.Len(), ShouldEqual, 0)
		})
	})
}

func TestResponseCache_LRU(t *testing.T) {
	Convey("超出容量时淘汰最久未使用的条目", t, func() {
		c := NewResponseCache(3)
		for i := 0; i < 3; i++ {
			c.Set(Key(fmt.Sprintf("q%d", i), ""), Value{Content: fmt.Sprintf("a%d", i)}, time.Hour)
		}

		// 触碰 q0，让 q1 变成最久未使用
		_, ok := c.Get(Key("q0", ""))
		So(ok, ShouldBeTrue)

		c.Set(Key("q3", ""), Value{Content: "a3"}, time.Hour)

		So(c.Len(), ShouldEqual, 3)
		_, ok = c.Get(Key("q1", ""))
		So(ok, ShouldBeFalse)
		_, ok = c.Get(Key("q0", ""))
		So(ok, ShouldBeTrue)
		_, ok = c.Get(Key("q3", ""))
		So(ok, ShouldBeTrue)
	})
}
