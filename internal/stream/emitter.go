package stream

import (
	"encoding/json"
	"io"
	"net/http"

	"sentinel/internal/model"
)

// Emit 把事件序列写成 NDJSON
// 每个事件一行，写完立刻 flush，调用方在流水线结束前就能开始渲染
// 写失败后继续排空 channel，避免生产方阻塞
func Emit(w io.Writer, events <-chan model.StreamEvent) error {
	enc := json.NewEncoder(w)
	flusher, _ := w.(http.Flusher)

	var writeErr error
	for ev := range events {
		if writeErr != nil {
			continue // 排空
		}
		if err := enc.Encode(ev); err != nil {
			writeErr = err
			continue
		}
		if flusher != nil {
			flusher.Flush()
		}
	}
	return writeErr
}
