package pipeline

import (
	"strings"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestSanitize(t *testing.T) {
	Convey("Sanitize 净化输入", t, func() {
		Convey("HTML 标签被转义", func() {
			got := Sanitize(`<b>bold</b>`)
			So(got, ShouldNotContainSubstring, "<b>")
			So(got, ShouldContainSubstring, "&lt;b&gt;")
		})

		Convey("空字节和控制字符被移除", func() {
			got := Sanitize("hel\x00lo\x01world")
			So(got, ShouldEqual, "helloworld")
		})

		Convey("换行和制表符保留", func() {
			got := Sanitize("line one\nline two\tend")
			So(got, ShouldEqual, "line one\nline two\tend")
		})

		Convey("空输入返回空", func() {
			So(Sanitize(""), ShouldEqual, "")
		})
	})
}

func TestValidateInput(t *testing.T) {
	Convey("validateInput 返回拒绝原因", t, func() {
		Convey("正常输入通过", func() {
			So(validateInput("explain goroutines to me", 8192), ShouldEqual, "")
		})

		Convey("空输入被拒", func() {
			So(validateInput("", 8192), ShouldContainSubstring, "empty")
			So(validateInput("   \n  ", 8192), ShouldContainSubstring, "empty")
		})

		Convey("超长输入被拒", func() {
			So(validateInput(strings.Repeat("a", 100), 50), ShouldContainSubstring, "maximum length")
		})

		Convey("长度按字符数计，不按字节", func() {
			// 60 个汉字是 180 字节，但只有 60 个字符
			So(validateInput(strings.Repeat("好", 60), 100), ShouldEqual, "")
			So(validateInput(strings.Repeat("好", 60), 50), ShouldContainSubstring, "maximum length")
		})

		Convey("HTML 实体按转义前的字符数计", func() {
			// 净化后 "&amp;" 是 5 字节，但原始输入只有 1 个字符
			escaped := Sanitize(strings.Repeat("&", 30))
			So(len(escaped), ShouldEqual, 150)
			So(validateInput(escaped, 40), ShouldEqual, "")
			So(validateInput(escaped, 20), ShouldContainSubstring, "maximum length")
		})

		Convey("脚本注入特征被拒", func() {
			cases := []string{
				"<script>alert(1)</script>",
				"&lt;script&gt;alert(1)&lt;/script&gt;",
				"click javascript:alert(1)",
				"<iframe src=x>",
				`<img onerror=alert(1)>`,
			}
			for _, input := range cases {
				So(validateInput(input, 8192), ShouldEqual, "input contains disallowed content")
			}
		})

		Convey("提到 script 这个词本身不算注入", func() {
			So(validateInput("how do I write a bash script", 8192), ShouldEqual, "")
		})
	})
}
