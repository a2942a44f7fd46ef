package systems

import (
	"log"
	"math"

	"github.com/decker502/vantage/pkg/components"
	"github.com/decker502/vantage/pkg/config"
	"github.com/decker502/vantage/pkg/ecs"
	"github.com/decker502/vantage/pkg/utils"
)

// TransitionSystem 分区过渡状态机
//
// 状态：
//   - 空闲（Active=false）
//   - 过渡中（From, To, T）
//
// 它是过渡状态的唯一写入者：输入仲裁器通过 RequestTransition 发出请求，
// 进度时钟通过 Tick 推进进度。不支持中途取消，也不排队请求：
// 过渡中或锁定时到达的请求直接丢弃。
type TransitionSystem struct {
	entityManager *ecs.EntityManager
	entity        ecs.EntityID
	timing        config.TimingConfig
	now           Clock
	clock         *ProgressClock
	swapper       *MidpointSwapSystem
	audio         AudioCollaborator

	// onProgress 每次 Tick 推进后、完成判定前调用（调试与验证工具使用）
	onProgress func(TransitionState)
}

// NewTransitionSystem 创建过渡状态机
//
// 参数：
//   - em: EntityManager 实例
//   - entity: 持有过渡相关组件的实体
//   - timing: 时间参数
//   - now: 墙钟
//   - clock: 进度时钟（过渡开始时启动，完成时停止）
//   - swapper: 中点切换系统，可为 nil
//   - audio: 音频协作者，可为 nil
func NewTransitionSystem(
	em *ecs.EntityManager,
	entity ecs.EntityID,
	timing config.TimingConfig,
	now Clock,
	clock *ProgressClock,
	swapper *MidpointSwapSystem,
	audio AudioCollaborator,
) *TransitionSystem {
	return &TransitionSystem{
		entityManager: em,
		entity:        entity,
		timing:        timing,
		now:           now,
		clock:         clock,
		swapper:       swapper,
		audio:         audio,
	}
}

// SetProgressObserver 设置进度观察回调
func (ts *TransitionSystem) SetProgressObserver(fn func(TransitionState)) {
	ts.onProgress = fn
}

// Normalize 将任意整数索引环绕到 [0, N)
func (ts *TransitionSystem) Normalize(index int) int {
	sc, ok := ecs.GetComponent[*components.SectionComponent](ts.entityManager, ts.entity)
	if !ok {
		return 0
	}
	return utils.WrapIndex(index, sc.Count)
}

// RequestTransition 请求过渡到目标分区
//
// 过渡中或 UI 锁定时为纯空操作。目标（归一化后）等于当前分区时不启动过渡，
// 只通知宿主把内容滚回顶部。
//
// 返回：
//   - bool: 是否启动了新的过渡
func (ts *TransitionSystem) RequestTransition(target int) bool {
	tc, sc, lock, refs, ok := ts.scrollerComponents()
	if !ok {
		return false
	}

	if tc.Active || lock.UILocked {
		return false
	}

	next := utils.WrapIndex(target, sc.Count)
	if next == sc.Current {
		if refs.Scroll != nil {
			refs.Scroll.ScrollToTop(true)
		}
		return false
	}

	tc.Active = true
	tc.From = sc.Current
	tc.To = next
	tc.T = 0
	tc.MidpointSwapped = false

	lock.UILocked = true
	lock.BlockWheelFor(ts.now(), seconds(ts.timing.TransitionBlockSec))

	if ts.audio != nil {
		ts.audio.PlayWhoosh()
	}
	ts.clock.Start()

	log.Printf("[TransitionSystem] 开始过渡: %d -> %d (请求 %d)", tc.From, tc.To, target)
	return true
}

// Tick 推进过渡进度
// 只在过渡中有效；dt 为自上一帧以来的秒数
func (ts *TransitionSystem) Tick(dt float64) {
	tc, sc, lock, _, ok := ts.scrollerComponents()
	if !ok || !tc.Active {
		return
	}

	if dt < 0 || math.IsNaN(dt) {
		dt = 0
	}
	if ts.timing.TransitionSec > 0 {
		tc.T = math.Min(1, tc.T+dt/ts.timing.TransitionSec)
	} else {
		// 时长非正（含 NaN）时立即完成，不能让进度停在 NaN
		tc.T = 1
	}

	// 中点切换必须先于完成判定，单帧从 <0.5 跳到 1 时也只触发一次
	if ts.swapper != nil {
		ts.swapper.Update()
	}

	if ts.onProgress != nil {
		ts.onProgress(ts.snapshot(tc))
	}

	if tc.T >= 1 {
		ts.complete(tc, sc, lock)
	}
}

// complete 结束过渡并回到空闲状态
func (ts *TransitionSystem) complete(tc *components.TransitionComponent, sc *components.SectionComponent, lock *components.InputLockComponent) {
	sc.Current = tc.To
	sc.Displayed = tc.To

	tc.Active = false
	tc.From = sc.Current
	tc.To = sc.Current
	tc.T = 0

	lock.UILocked = false
	// 完成后的短冷却，吸收残余的滚轮惯性
	lock.BlockWheelFor(ts.now(), seconds(ts.timing.PostTransitionBlockSec))

	ts.clock.Stop()

	log.Printf("[TransitionSystem] 过渡完成: 当前分区 %d", sc.Current)
}

// IsActive 返回是否正在过渡
func (ts *TransitionSystem) IsActive() bool {
	tc, ok := ecs.GetComponent[*components.TransitionComponent](ts.entityManager, ts.entity)
	return ok && tc.Active
}

// CurrentSection 返回当前分区
func (ts *TransitionSystem) CurrentSection() int {
	sc, ok := ecs.GetComponent[*components.SectionComponent](ts.entityManager, ts.entity)
	if !ok {
		return 0
	}
	return sc.Current
}

// State 返回过渡状态快照
func (ts *TransitionSystem) State() TransitionState {
	tc, ok := ecs.GetComponent[*components.TransitionComponent](ts.entityManager, ts.entity)
	if !ok {
		return TransitionState{}
	}
	return ts.snapshot(tc)
}

func (ts *TransitionSystem) snapshot(tc *components.TransitionComponent) TransitionState {
	return TransitionState{Active: tc.Active, From: tc.From, To: tc.To, T: tc.T}
}

// scrollerComponents 获取过渡所需的全部组件
func (ts *TransitionSystem) scrollerComponents() (
	*components.TransitionComponent,
	*components.SectionComponent,
	*components.InputLockComponent,
	*components.HostRefsComponent,
	bool,
) {
	tc, ok1 := ecs.GetComponent[*components.TransitionComponent](ts.entityManager, ts.entity)
	sc, ok2 := ecs.GetComponent[*components.SectionComponent](ts.entityManager, ts.entity)
	lock, ok3 := ecs.GetComponent[*components.InputLockComponent](ts.entityManager, ts.entity)
	refs, ok4 := ecs.GetComponent[*components.HostRefsComponent](ts.entityManager, ts.entity)
	if !ok1 || !ok2 || !ok3 || !ok4 {
		log.Printf("[TransitionSystem] Warning: entity %d is missing scroller components", ts.entity)
		return nil, nil, nil, nil, false
	}
	return tc, sc, lock, refs, true
}
