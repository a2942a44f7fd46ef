package systems

import (
	"log"
	"time"

	"github.com/decker502/vantage/pkg/components"
	"github.com/decker502/vantage/pkg/config"
	"github.com/decker502/vantage/pkg/ecs"
)

// InputArbiter 输入仲裁器
//
// 把四种输入统一转换为过渡请求：
//   - 直接选择（点击分区指示器）：明确意图，清除滚轮冷却
//   - 键盘上一个/下一个：只受锁定标记约束
//   - 滚动到边缘时的滚轮：受锁定与冷却约束，向下还要求哨兵已进入视口
//   - 哨兵可见时自动前进：受锁定与冷却约束
//
// 冷却期内或锁定时的请求直接丢弃，从不排队。
// 宿主未挂载滚动容器或哨兵时，相关逻辑保持不活跃。
type InputArbiter struct {
	entityManager *ecs.EntityManager
	entity        ecs.EntityID
	timing        config.TimingConfig
	now           Clock
	transitions   *TransitionSystem
}

// NewInputArbiter 创建输入仲裁器
func NewInputArbiter(em *ecs.EntityManager, entity ecs.EntityID, timing config.TimingConfig, now Clock, ts *TransitionSystem) *InputArbiter {
	return &InputArbiter{
		entityManager: em,
		entity:        entity,
		timing:        timing,
		now:           now,
		transitions:   ts,
	}
}

// SelectSection 直接选择分区
// 直接选择绕过滚轮冷却
func (a *InputArbiter) SelectSection(index int) bool {
	if lock, ok := ecs.GetComponent[*components.InputLockComponent](a.entityManager, a.entity); ok {
		lock.WheelBlockUntil = time.Time{}
	}
	return a.transitions.RequestTransition(index)
}

// Next 键盘：下一个分区
func (a *InputArbiter) Next() bool {
	return a.transitions.RequestTransition(a.transitions.CurrentSection() + 1)
}

// Previous 键盘：上一个分区
func (a *InputArbiter) Previous() bool {
	return a.transitions.RequestTransition(a.transitions.CurrentSection() - 1)
}

// Wheel 处理滚轮事件
//
// 参数：
//   - deltaY: 滚动增量（像素），向下为正
//
// 返回：
//   - bool: 事件是否被消费；被消费的事件宿主不得再当作普通滚动处理
func (a *InputArbiter) Wheel(deltaY float64) bool {
	if deltaY == 0 {
		return false
	}

	tc, lock, refs, ok := a.state()
	if !ok || tc.Active || lock.UILocked {
		return false
	}

	now := a.now()
	if lock.WheelBlocked(now) {
		return false
	}

	host := refs.Scroll
	if host == nil {
		return false
	}

	atTop, atBottom, scrollable := a.edges(host)
	if !scrollable {
		return false
	}

	if deltaY < 0 && atTop {
		lock.BlockWheelFor(now, seconds(a.timing.WheelBlockSec))
		log.Printf("[InputArbiter] 顶部滚轮 -> 上一个分区")
		a.transitions.RequestTransition(a.transitions.CurrentSection() - 1)
		return true
	}

	// 向下还要求哨兵已进入视口，用来区分"真正读到末尾"与"短暂越界滚动"
	if deltaY > 0 && atBottom && refs.Sentinel != nil && refs.Sentinel.InViewport() {
		lock.BlockWheelFor(now, seconds(a.timing.WheelBlockSec))
		log.Printf("[InputArbiter] 底部滚轮 -> 下一个分区")
		a.transitions.RequestTransition(a.transitions.CurrentSection() + 1)
		return true
	}

	return false
}

// SentinelChanged 处理哨兵可见性变化
// 哨兵变为可见、滚动位置接近底部且没有过渡时，自动请求下一个分区
func (a *InputArbiter) SentinelChanged(visible bool) bool {
	if !visible {
		return false
	}

	tc, lock, refs, ok := a.state()
	if !ok || tc.Active || lock.UILocked {
		return false
	}
	if lock.WheelBlocked(a.now()) {
		return false
	}
	if refs.Scroll == nil || refs.Sentinel == nil {
		return false
	}

	host := refs.Scroll
	// 内容不足一屏时哨兵一直可见，不能据此自动前进
	if host.ScrollHeight()-host.ClientHeight() <= 0 {
		return false
	}

	nearBottom := host.ScrollTop()+host.ClientHeight() >= host.ScrollHeight()-a.timing.SentinelSlackPx
	if !nearBottom {
		return false
	}

	log.Printf("[InputArbiter] 哨兵可见 -> 自动前进")
	return a.transitions.RequestTransition(a.transitions.CurrentSection() + 1)
}

// edges 判断滚动容器是否位于顶部/底部
// 内容不足一屏（最大滚动距离 ≤ 0）时 scrollable=false，滚轮不做边缘导航，
// 这样的分区只能通过键盘或分区指示器切换
func (a *InputArbiter) edges(host components.ScrollHost) (atTop, atBottom, scrollable bool) {
	maxScroll := host.ScrollHeight() - host.ClientHeight()
	if maxScroll <= 0 {
		return false, false, false
	}
	top := host.ScrollTop()
	return top <= a.timing.EdgeTolerancePx, top >= maxScroll-a.timing.EdgeTolerancePx, true
}

func (a *InputArbiter) state() (*components.TransitionComponent, *components.InputLockComponent, *components.HostRefsComponent, bool) {
	tc, ok1 := ecs.GetComponent[*components.TransitionComponent](a.entityManager, a.entity)
	lock, ok2 := ecs.GetComponent[*components.InputLockComponent](a.entityManager, a.entity)
	refs, ok3 := ecs.GetComponent[*components.HostRefsComponent](a.entityManager, a.entity)
	return tc, lock, refs, ok1 && ok2 && ok3
}
