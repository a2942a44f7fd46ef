package scenes

import (
	"fmt"
	"image/color"
	"log"
	"time"

	"github.com/decker502/vantage/pkg/config"
	"github.com/decker502/vantage/pkg/ecs"
	"github.com/decker502/vantage/pkg/game"
	"github.com/decker502/vantage/pkg/modules"
	"github.com/decker502/vantage/pkg/systems"
	"github.com/decker502/vantage/pkg/utils"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// tickRate 逻辑帧率，弹簧动画按此步长积分
const tickRate = 60

const gateText = "CLICK TO ENABLE SOUND"

var (
	backgroundColor = color.RGBA{R: 0, G: 0, B: 0, A: 255}
	gateOverlay     = color.RGBA{A: 140}
)

// ExperienceScene 分区滚动体验场景
//
// 负责把 Ebitengine 的输入（滚轮、触摸、键盘、点击）交给协调器模块，
// 并提供协调器需要的宿主控件：滚动面板、底部哨兵、指针来源。
// 绘制顺序：3D 背景 -> 分区内容 -> 遮罩 -> 指示器 -> 指针 HUD -> 声音开启提示。
type ExperienceScene struct {
	config *config.ExperienceConfig
	audio  *game.AudioManager // 可为 nil（无声模式）

	module    *modules.SectionScrollerModule
	panel     *ScrollPanel
	sentinel  *SentinelWatcher
	content   *SectionContentRenderer
	world     *WorldRenderer
	hud       *MouseHUD
	indicator *SectionIndicator
	pointer   *CursorPointer
	touch     *utils.TouchScroller

	detach    []func()
	touchOnly bool // 移动端没有悬停指针，不显示指针 HUD
	width     int
	height    int
	face      text.Face
}

// ExperienceSceneOptions 场景创建参数
type ExperienceSceneOptions struct {
	Config *config.ExperienceConfig
	Audio  *game.AudioManager
	Width  int
	Height int
	Clock  systems.Clock // 可选，默认 time.Now
}

// NewExperienceScene 创建体验场景
func NewExperienceScene(opts ExperienceSceneOptions) (*ExperienceScene, error) {
	if opts.Config == nil {
		return nil, modules.ErrNilConfig
	}
	now := opts.Clock
	if now == nil {
		now = time.Now
	}

	s := &ExperienceScene{
		config: opts.Config,
		audio:  opts.Audio,
		width:  opts.Width,
		height: opts.Height,
		face:   utils.DefaultFace(),
		touch:  utils.NewTouchScroller(),

		touchOnly: utils.IsMobile(),
	}

	s.content = NewSectionContentRenderer(opts.Config.Sections, opts.Width, opts.Height)
	s.panel = NewScrollPanel(float64(opts.Height), tickRate)
	s.sentinel = NewSentinelWatcher(s.panel, opts.Config.Timing.SentinelThreshold)
	s.pointer = NewCursorPointer(opts.Width, opts.Height)
	s.hud = NewMouseHUD(now, tickRate)

	ids := make([]string, len(opts.Config.Sections))
	for i, sec := range opts.Config.Sections {
		ids[i] = sec.ID
	}
	s.indicator = NewSectionIndicator(ids, opts.Width, opts.Height)

	var audio systems.AudioCollaborator
	if opts.Audio != nil {
		audio = game.NewSectionAudio(opts.Audio, opts.Config)
	}

	poses := opts.Config.PoseTable()
	module, err := modules.NewSectionScrollerModule(ecs.NewEntityManager(), modules.SectionScrollerOptions{
		Config:   opts.Config,
		Poses:    poses,
		Renderer: s.content,
		Audio:    audio,
		Clock:    now,
		OnSwap:   s.relayout,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create section scroller: %w", err)
	}
	s.module = module
	s.world = NewWorldRenderer(module.Camera(), poses)
	s.relayout(0)

	log.Printf("[ExperienceScene] Created with %d sections (%dx%d)", len(ids), opts.Width, opts.Height)
	return s, nil
}

// OnEnter 挂载宿主控件并启动协调器
func (s *ExperienceScene) OnEnter() {
	s.detach = append(s.detach,
		s.module.AttachScrollHost(s.panel),
		s.module.AttachSentinel(s.sentinel),
		s.module.AttachPointer(s.pointer),
	)
	s.module.Start()

	if s.audio != nil && s.audio.IsEnabled() {
		s.audio.PlayAmbience(s.config.AmbienceFor(s.module.Snapshot().Section))
	}
}

// OnExit 释放所有挂载并停止协调器
func (s *ExperienceScene) OnExit() {
	for _, d := range s.detach {
		d()
	}
	s.detach = nil
	s.module.Stop()
	// AudioManager 由 App 持有并释放，场景只停止自己的环境音
	if s.audio != nil {
		s.audio.StopAmbience()
	}
}

// Dispose 销毁协调器状态
// 应用退出时在 OnExit 之后调用，之后场景不能再次进入
func (s *ExperienceScene) Dispose() {
	s.module.Destroy()
}

// Module 返回协调器模块
func (s *ExperienceScene) Module() *modules.SectionScrollerModule {
	return s.module
}

// relayout 中点切换后按新分区的内容更新面板与哨兵
func (s *ExperienceScene) relayout(section int) {
	s.panel.SetContentHeight(s.content.ContentHeight(section))
	s.sentinel.SetOffset(s.content.SentinelOffset(section))
	s.sentinel.Reset()
}

// gateOpen 用户是否已经开启声音
func (s *ExperienceScene) gateOpen() bool {
	return s.audio == nil || s.audio.IsEnabled()
}

// Update 更新场景
func (s *ExperienceScene) Update(deltaTime float64) {
	s.handleInput(s.syncPanelLock())

	s.panel.Update()
	s.module.Update()
	s.pollSentinel()

	if s.touchOnly {
		return
	}
	px, py := utils.GetPointerPosition()
	s.hud.Observe(px, py, s.width, s.height)
	s.hud.Update(deltaTime)
}

// syncPanelLock 过渡或 UI 锁定期间禁止面板滚动
func (s *ExperienceScene) syncPanelLock() modules.Snapshot {
	snap := s.module.Snapshot()
	s.panel.SetLocked(snap.Transition.Active || snap.UILocked)
	return snap
}

// pollSentinel 把哨兵可见性变化交给协调器
// 可见通知被拒绝时（冷却中、过渡中），哨兵保持可见就在之后的帧重新报告；
// 只有一个分区时前进等于回到顶部，不重试
func (s *ExperienceScene) pollSentinel() {
	changed, visible := s.sentinel.Poll()
	if !changed {
		return
	}
	if s.module.OnSentinelChanged(visible) || !visible {
		return
	}
	if s.module.SectionCount() > 1 {
		s.sentinel.Retry()
	}
}

func (s *ExperienceScene) handleInput(snap modules.Snapshot) {
	clicked, cx, cy := utils.IsJustTouchedOrClicked()

	// 声音开启提示覆盖整个屏幕，第一次点击只用来开启声音
	if !s.gateOpen() {
		if clicked {
			s.audio.Enable(s.config.AmbienceFor(snap.Section))
		}
		return
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyM) && s.audio != nil {
		s.audio.ToggleMute()
	}

	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeyArrowRight), inpututil.IsKeyJustPressed(ebiten.KeyPageDown):
		s.module.Next()
	case inpututil.IsKeyJustPressed(ebiten.KeyArrowLeft), inpututil.IsKeyJustPressed(ebiten.KeyPageUp):
		s.module.Previous()
	}
	for i := 0; i < len(s.config.Sections) && i < 9; i++ {
		if inpututil.IsKeyJustPressed(ebiten.Key1 + ebiten.Key(i)) {
			s.module.SelectSection(i)
		}
	}

	if clicked {
		if i, ok := s.indicator.HitTest(cx, cy); ok {
			s.module.SelectSection(i)
		}
	}

	_, yoff := ebiten.Wheel()
	s.scroll(utils.WheelToDeltaY(yoff))
	s.scroll(s.touch.Update())
}

// scroll 先交给协调器判断边缘导航，未被消费时才滚动面板
func (s *ExperienceScene) scroll(dy float64) {
	if dy == 0 {
		return
	}
	if s.module.OnWheel(dy) {
		return
	}
	// 同一帧内的点击或按键可能已经开始过渡
	s.syncPanelLock()
	s.panel.ScrollBy(dy)
}

// Draw 绘制场景
func (s *ExperienceScene) Draw(screen *ebiten.Image) {
	screen.Fill(backgroundColor)

	snap := s.module.Snapshot()
	s.world.Draw(screen, snap.Transition)
	s.module.Draw(screen)

	muted := s.audio != nil && s.audio.IsMuted()
	s.indicator.Draw(screen, snap.Section, muted)
	if !s.touchOnly {
		s.hud.Draw(screen)
	}

	if !s.gateOpen() {
		s.drawGate(screen)
	}
}

func (s *ExperienceScene) drawGate(screen *ebiten.Image) {
	vector.DrawFilledRect(screen, 0, 0, float32(s.width), float32(s.height), gateOverlay, false)

	const scale = 2.0
	w := utils.MeasureTextWidth(gateText, s.face) * scale
	op := &text.DrawOptions{}
	op.GeoM.Scale(scale, scale)
	op.GeoM.Translate(float64(s.width)/2-w/2, float64(s.height)/2)
	text.Draw(screen, gateText, s.face, op)
}
