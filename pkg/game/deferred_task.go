package game

import "time"

// DeferredTask 可取消的单次延迟任务
//
// 任务不会在后台触发，而是由循环每帧调用 Poll 检查是否到期，
// 保证回调与引擎更新在同一个执行流中。同一时刻最多只有一个待执行任务，
// 再次 Schedule 会替换之前的任务。
type DeferredTask struct {
	due     time.Time
	fn      func()
	pending bool
}

// Schedule 安排 fn 在 now+delay 之后的第一次 Poll 时执行
func (t *DeferredTask) Schedule(now time.Time, delay time.Duration, fn func()) {
	t.due = now.Add(delay)
	t.fn = fn
	t.pending = fn != nil
}

// Cancel 取消待执行任务
// 返回：是否确实取消了一个任务
func (t *DeferredTask) Cancel() bool {
	was := t.pending
	t.pending = false
	t.fn = nil
	return was
}

// Pending 是否有待执行任务
func (t *DeferredTask) Pending() bool {
	return t.pending
}

// Due 返回待执行任务的到期时间，没有任务时返回零值
func (t *DeferredTask) Due() time.Time {
	if !t.pending {
		return time.Time{}
	}
	return t.due
}

// Poll 到期时执行任务
// 返回：本次是否执行了任务
func (t *DeferredTask) Poll(now time.Time) bool {
	if !t.pending || now.Before(t.due) {
		return false
	}
	fn := t.fn
	t.pending = false
	t.fn = nil
	fn()
	return true
}
