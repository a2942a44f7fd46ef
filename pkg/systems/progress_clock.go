package systems

import "time"

// ProgressClock 过渡进度时钟
//
// 只在过渡进行中运行，每帧返回与上一帧之间的墙钟间隔，
// 使进度推进速度与帧率无关。进度本身保存在 TransitionComponent 中，
// 时钟重新启动时从已保存的进度继续，不会累积漂移。
type ProgressClock struct {
	now     Clock
	last    time.Time
	running bool
}

// NewProgressClock 创建进度时钟
// now 为 nil 时使用 time.Now
func NewProgressClock(now Clock) *ProgressClock {
	if now == nil {
		now = time.Now
	}
	return &ProgressClock{now: now}
}

// Start 开始计时，以当前时刻作为上一帧
func (c *ProgressClock) Start() {
	c.last = c.now()
	c.running = true
}

// Stop 停止计时，之后的 Frame 调用返回 ok=false
func (c *ProgressClock) Stop() {
	c.running = false
}

// Running 返回时钟是否在运行
func (c *ProgressClock) Running() bool {
	return c.running
}

// Frame 返回自上一帧以来经过的秒数
// 时钟停止时返回 (0, false)。墙钟回拨时返回 0。
func (c *ProgressClock) Frame() (float64, bool) {
	if !c.running {
		return 0, false
	}
	now := c.now()
	dt := now.Sub(c.last).Seconds()
	c.last = now
	if dt < 0 {
		dt = 0
	}
	return dt, true
}
