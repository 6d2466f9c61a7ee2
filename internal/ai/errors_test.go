package ai

import (
	"context"
	"errors"
	"fmt"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestClassify(t *testing.T) {
	Convey("Classify 根据错误内容分类", t, func() {
		Convey("鉴权类", func() {
			So(Classify(errors.New("401 unauthorized")), ShouldEqual, ErrKindAuth)
			So(Classify(errors.New("invalid api key provided")), ShouldEqual, ErrKindAuth)
			So(Classify(errors.New("status 403: forbidden")), ShouldEqual, ErrKindAuth)
		})

		Convey("配额类", func() {
			So(Classify(errors.New("429 too many requests")), ShouldEqual, ErrKindQuota)
			So(Classify(errors.New("you exceeded your current quota")), ShouldEqual, ErrKindQuota)
			So(Classify(errors.New("rate limit reached for gpt-4o-mini")), ShouldEqual, ErrKindQuota)
		})

		Convey("超时类", func() {
			So(Classify(context.DeadlineExceeded), ShouldEqual, ErrKindTimeout)
			So(Classify(fmt.Errorf("call model: %w", context.DeadlineExceeded)), ShouldEqual, ErrKindTimeout)
			So(Classify(errors.New("dial tcp: i/o timeout")), ShouldEqual, ErrKindTimeout)
		})

		Convey("其余归为临时故障", func() {
			So(Classify(errors.New("connection reset by peer")), ShouldEqual, ErrKindTransient)
			So(Classify(nil), ShouldEqual, ErrKindTransient)
		})
	})
}

func TestDescribe(t *testing.T) {
	Convey("Describe 生成面向调用方的文案", t, func() {
		So(Describe(errors.New("401 unauthorized")), ShouldContainSubstring, "authentication failed")
		So(Describe(errors.New("429 too many requests")), ShouldContainSubstring, "quota exceeded")
		So(Describe(context.DeadlineExceeded), ShouldContainSubstring, "timed out")
		So(Describe(errors.New("connection reset")), ShouldContainSubstring, "backend error")
	})
}
