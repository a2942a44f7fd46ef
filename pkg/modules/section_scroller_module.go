package modules

import (
	"errors"
	"fmt"
	"image/color"
	"log"
	"time"

	"github.com/decker502/vantage/pkg/components"
	"github.com/decker502/vantage/pkg/config"
	"github.com/decker502/vantage/pkg/ecs"
	"github.com/decker502/vantage/pkg/systems"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// ErrNilConfig 未提供体验配置
var ErrNilConfig = errors.New("section scroller requires an experience config")

// SectionScrollerModule 分区滚动协调器模块
// 封装分区过渡相关的全部功能，包括：
//   - 过渡状态机、中点切换、输入仲裁、镜头插值四个系统的创建与调度
//   - 宿主引用（滚动容器、哨兵、指针）的挂载与释放
//   - 每帧的调度顺序：进度时钟 -> 过渡推进（含中点切换）-> 镜头
//   - 内容与遮罩的渲染
//
// 模块只通过接口与音频、内容渲染、宿主控件交互，
// 同一套代码通过配置支持任意数量的分区。
type SectionScrollerModule struct {
	// ECS 框架
	entityManager *ecs.EntityManager
	entity        ecs.EntityID

	// 系统（内部管理）
	progressClock    *systems.ProgressClock
	transitionSystem *systems.TransitionSystem
	swapSystem       *systems.MidpointSwapSystem
	inputArbiter     *systems.InputArbiter
	cameraSystem     *systems.CameraSystem

	// 外部依赖
	config   *config.ExperienceConfig
	renderer systems.ContentRenderer
	now      systems.Clock

	// 宿主引用挂载令牌，detach 只释放自己挂载的那一份
	scrollToken   int
	sentinelToken int
	pointerToken  int
	nextToken     int

	// 运行状态
	started   bool
	lastFrame time.Time
}

// SectionScrollerOptions 模块创建参数
type SectionScrollerOptions struct {
	Config   *config.ExperienceConfig  // 必填
	Poses    systems.PoseProvider      // 可选，默认使用 Config.PoseTable()
	Renderer systems.ContentRenderer   // 可选，nil 时 Draw 只绘制遮罩
	Audio    systems.AudioCollaborator // 可选，nil 时静默
	Clock    systems.Clock             // 可选，默认 time.Now
	OnSwap   func(section int)         // 可选，中点切换内容时回调
}

// Snapshot 协调器对外的只读状态
type Snapshot struct {
	Section    int // 当前应显示内容的分区（中点切换）
	Current    int // 当前所在分区（完成时切换）
	Transition systems.TransitionState
	Opacity    float64 // 页面内容不透明度
	DimAlpha   float64 // 全屏遮罩不透明度
	UILocked   bool
}

// NewSectionScrollerModule 创建分区滚动协调器
//
// 参数:
//   - em: EntityManager 实例
//   - opts: 创建参数
//
// 返回:
//   - *SectionScrollerModule: 新创建的模块实例（未启动）
//   - error: 配置缺失、未通过校验或姿态数量与分区数量不一致
func NewSectionScrollerModule(em *ecs.EntityManager, opts SectionScrollerOptions) (*SectionScrollerModule, error) {
	if opts.Config == nil {
		return nil, ErrNilConfig
	}
	// 代码构造的配置没有经过 ParseExperienceConfig，这里同样校验
	if err := opts.Config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid experience config: %w", err)
	}

	poses := opts.Poses
	if poses == nil {
		poses = opts.Config.PoseTable()
	}
	count := len(opts.Config.Sections)
	if poses.Len() != count {
		return nil, fmt.Errorf("pose count %d does not match section count %d", poses.Len(), count)
	}

	now := opts.Clock
	if now == nil {
		now = time.Now
	}

	m := &SectionScrollerModule{
		entityManager: em,
		config:        opts.Config,
		renderer:      opts.Renderer,
		now:           now,
	}

	// 1. 创建协调器实体与状态组件
	m.entity = em.CreateEntity()
	ecs.AddComponent(em, m.entity, &components.TransitionComponent{})
	ecs.AddComponent(em, m.entity, &components.SectionComponent{Count: count})
	ecs.AddComponent(em, m.entity, &components.InputLockComponent{})
	ecs.AddComponent(em, m.entity, &components.HostRefsComponent{})

	// 2. 创建系统
	timing := opts.Config.Timing
	m.progressClock = systems.NewProgressClock(now)
	m.swapSystem = systems.NewMidpointSwapSystem(em, m.entity, opts.Audio, opts.OnSwap)
	m.transitionSystem = systems.NewTransitionSystem(em, m.entity, timing, now, m.progressClock, m.swapSystem, opts.Audio)
	m.inputArbiter = systems.NewInputArbiter(em, m.entity, timing, now, m.transitionSystem)
	m.cameraSystem = systems.NewCameraSystem(em, m.entity, poses, opts.Config.Camera)

	log.Printf("[SectionScrollerModule] Initialized with %d sections", count)
	return m, nil
}

// Start 启动协调器
// 如果停止时正有过渡在进行，从已保存的进度继续
func (m *SectionScrollerModule) Start() {
	if m.started || !m.Alive() {
		return
	}
	m.started = true
	m.lastFrame = m.now()
	if m.transitionSystem.IsActive() {
		m.progressClock.Start()
	}
	log.Printf("[SectionScrollerModule] Started")
}

// Stop 停止协调器并释放所有宿主引用
// 可重复调用
func (m *SectionScrollerModule) Stop() {
	if refs := m.hostRefs(); refs != nil {
		refs.Scroll = nil
		refs.Sentinel = nil
		refs.Pointer = nil
	}
	m.scrollToken, m.sentinelToken, m.pointerToken = 0, 0, 0
	m.progressClock.Stop()

	if m.started {
		m.started = false
		log.Printf("[SectionScrollerModule] Stopped")
	}
}

// Destroy 停止协调器并销毁实体上的全部状态
// 只在宿主卸载时调用；之后 Start 不再生效，输入与读数退化为空操作
func (m *SectionScrollerModule) Destroy() {
	m.Stop()
	if !m.entityManager.Exists(m.entity) {
		return
	}
	m.entityManager.DestroyEntity(m.entity)
	m.entityManager.RemoveMarkedEntities()
	log.Printf("[SectionScrollerModule] Destroyed entity %d", m.entity)
}

// Alive 返回协调器状态是否仍然存在（未被 Destroy）
func (m *SectionScrollerModule) Alive() bool {
	return ecs.HasComponent[*components.TransitionComponent](m.entityManager, m.entity)
}

// IsStarted 返回协调器是否在运行
func (m *SectionScrollerModule) IsStarted() bool {
	return m.started
}

// AttachScrollHost 挂载滚动容器，返回释放函数
func (m *SectionScrollerModule) AttachScrollHost(host components.ScrollHost) (detach func()) {
	refs := m.hostRefs()
	if refs == nil {
		return func() {}
	}
	refs.Scroll = host
	m.scrollToken = m.issueToken()
	token := m.scrollToken
	return func() {
		if m.scrollToken == token {
			m.hostRefs().Scroll = nil
			m.scrollToken = 0
		}
	}
}

// AttachSentinel 挂载底部哨兵，返回释放函数
func (m *SectionScrollerModule) AttachSentinel(s components.Sentinel) (detach func()) {
	refs := m.hostRefs()
	if refs == nil {
		return func() {}
	}
	refs.Sentinel = s
	m.sentinelToken = m.issueToken()
	token := m.sentinelToken
	return func() {
		if m.sentinelToken == token {
			m.hostRefs().Sentinel = nil
			m.sentinelToken = 0
		}
	}
}

// AttachPointer 挂载指针来源，返回释放函数
func (m *SectionScrollerModule) AttachPointer(p components.PointerSource) (detach func()) {
	refs := m.hostRefs()
	if refs == nil {
		return func() {}
	}
	refs.Pointer = p
	m.pointerToken = m.issueToken()
	token := m.pointerToken
	return func() {
		if m.pointerToken == token {
			m.hostRefs().Pointer = nil
			m.pointerToken = 0
		}
	}
}

func (m *SectionScrollerModule) issueToken() int {
	m.nextToken++
	return m.nextToken
}

// RequestTransition 请求过渡到目标分区（任意整数，按环绕规则归一化）
func (m *SectionScrollerModule) RequestTransition(target int) bool {
	if !m.started {
		return false
	}
	return m.transitionSystem.RequestTransition(target)
}

// SelectSection 直接选择分区（分区指示器）
func (m *SectionScrollerModule) SelectSection(index int) bool {
	if !m.started {
		return false
	}
	return m.inputArbiter.SelectSection(index)
}

// Next 下一个分区
func (m *SectionScrollerModule) Next() bool {
	if !m.started {
		return false
	}
	return m.inputArbiter.Next()
}

// Previous 上一个分区
func (m *SectionScrollerModule) Previous() bool {
	if !m.started {
		return false
	}
	return m.inputArbiter.Previous()
}

// OnWheel 滚轮事件
// 返回 true 表示事件已被消费，宿主不应再滚动内容
func (m *SectionScrollerModule) OnWheel(deltaY float64) bool {
	if !m.started {
		return false
	}
	return m.inputArbiter.Wheel(deltaY)
}

// OnSentinelChanged 哨兵可见性变化
func (m *SectionScrollerModule) OnSentinelChanged(visible bool) bool {
	if !m.started {
		return false
	}
	return m.inputArbiter.SentinelChanged(visible)
}

// Update 每帧更新
// 顺序：进度时钟 -> 过渡推进（中点切换先于完成判定）-> 镜头
func (m *SectionScrollerModule) Update() {
	if !m.started {
		return
	}

	if dt, ok := m.progressClock.Frame(); ok {
		m.transitionSystem.Tick(dt)
	}

	now := m.now()
	frameDt := now.Sub(m.lastFrame).Seconds()
	m.lastFrame = now
	if frameDt < 0 {
		frameDt = 0
	}
	m.cameraSystem.Update(frameDt)
}

// Snapshot 返回当前状态
func (m *SectionScrollerModule) Snapshot() Snapshot {
	state := m.transitionSystem.State()

	snap := Snapshot{
		Transition: state,
		Opacity:    systems.PageOpacity(state),
	}
	if sc, ok := ecs.GetComponent[*components.SectionComponent](m.entityManager, m.entity); ok {
		snap.Section = sc.Displayed
		snap.Current = sc.Current
	}
	if lock, ok := ecs.GetComponent[*components.InputLockComponent](m.entityManager, m.entity); ok {
		snap.UILocked = lock.UILocked
	}
	snap.DimAlpha = systems.DimAlpha(state, snap.UILocked)
	return snap
}

// Draw 绘制分区内容与过渡遮罩
// 3D 场景由调用方在此之前绘制
func (m *SectionScrollerModule) Draw(screen *ebiten.Image) {
	snap := m.Snapshot()

	if m.renderer != nil {
		scrollTop := 0.0
		if refs := m.hostRefs(); refs != nil && refs.Scroll != nil {
			scrollTop = refs.Scroll.ScrollTop()
		}
		m.renderer.DrawSection(screen, snap.Section, scrollTop, snap.Opacity)
	}

	if snap.DimAlpha > 0 {
		b := screen.Bounds()
		vector.DrawFilledRect(screen, 0, 0, float32(b.Dx()), float32(b.Dy()),
			color.RGBA{A: uint8(snap.DimAlpha * 255)}, false)
	}
}

// Camera 返回镜头系统
func (m *SectionScrollerModule) Camera() *systems.CameraSystem {
	return m.cameraSystem
}

// Config 返回体验配置
func (m *SectionScrollerModule) Config() *config.ExperienceConfig {
	return m.config
}

// SectionCount 返回分区数量
func (m *SectionScrollerModule) SectionCount() int {
	return len(m.config.Sections)
}

func (m *SectionScrollerModule) hostRefs() *components.HostRefsComponent {
	refs, _ := ecs.GetComponent[*components.HostRefsComponent](m.entityManager, m.entity)
	return refs
}
