package components

import "time"

// InputLockComponent 输入锁
// 决定输入仲裁器能否发出新的过渡请求
type InputLockComponent struct {
	// UILocked 过渡期间锁定，完成后解锁
	UILocked bool

	// WheelBlockUntil 滚轮请求的冷却截止时间
	// 零值表示没有冷却
	WheelBlockUntil time.Time
}

// WheelBlocked 检查 now 时刻滚轮是否处于冷却中
func (l *InputLockComponent) WheelBlocked(now time.Time) bool {
	return now.Before(l.WheelBlockUntil)
}

// BlockWheelFor 从 now 开始屏蔽滚轮 d 时长
func (l *InputLockComponent) BlockWheelFor(now time.Time, d time.Duration) {
	l.WheelBlockUntil = now.Add(d)
}
