package repository

import (
	"sync"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
)

func TestStore_LockSession(t *testing.T) {
	Convey("会话锁表随释放回收", t, func() {
		s := &Store{locks: make(map[string]*sessionLock)}

		Convey("释放后条目从表中移除", func() {
			unlock := s.lockSession("a")
			So(len(s.locks), ShouldEqual, 1)

			unlock()
			So(len(s.locks), ShouldEqual, 0)
		})

		Convey("并发争抢同一会话时串行，结束后表为空", func() {
			var wg sync.WaitGroup
			var holders int
			var peak int
			var mu sync.Mutex

			for i := 0; i < 16; i++ {
				wg.Add(1)
				go func() {
					defer wg.Done()

					unlock := s.lockSession("b")
					mu.Lock()
					holders++
					if holders > peak {
						peak = holders
					}
					mu.Unlock()

					time.Sleep(time.Millisecond)

					mu.Lock()
					holders--
					mu.Unlock()
					unlock()
				}()
			}
			wg.Wait()

			So(peak, ShouldEqual, 1)
			So(len(s.locks), ShouldEqual, 0)
		})

		Convey("不同会话的锁互不阻塞", func() {
			unlockA := s.lockSession("a")
			unlockB := s.lockSession("b")
			So(len(s.locks), ShouldEqual, 2)

			unlockA()
			unlockB()
			So(len(s.locks), ShouldEqual, 0)
		})
	})
}
