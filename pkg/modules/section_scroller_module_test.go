package modules

import (
	"errors"
	"testing"
	"time"

	"github.com/decker502/vantage/pkg/config"
	"github.com/decker502/vantage/pkg/ecs"
	"github.com/decker502/vantage/pkg/systems"
	"github.com/hajimehoshi/ebiten/v2"
)

const testExperienceYAML = `
id: test
sections:
  - id: a
    pose: {camera_position: [0, 1, 5], look_at: [0, 0, 0]}
  - id: b
    pose: {camera_position: [10, 1, 5], look_at: [10, 0, 0]}
  - id: c
    pose: {camera_position: [20, 1, 5], look_at: [20, 0, 0]}
`

type manualClock struct{ t time.Time }

func (c *manualClock) Now() time.Time { return c.t }
func (c *manualClock) Advance(d time.Duration) {
	c.t = c.t.Add(d)
}

type stubScrollHost struct {
	top, height, client float64
	toTop               int
}

func (h *stubScrollHost) ScrollTop() float64    { return h.top }
func (h *stubScrollHost) ScrollHeight() float64 { return h.height }
func (h *stubScrollHost) ClientHeight() float64 { return h.client }
func (h *stubScrollHost) ScrollToTop(bool)      { h.toTop++; h.top = 0 }

type stubSentinel struct{ visible bool }

func (s *stubSentinel) InViewport() bool { return s.visible }

type stubPointer struct{}

func (stubPointer) PointerNDC() (float64, float64) { return 0.5, 0.5 }

type recordingAudio struct {
	whooshes  int
	ambiences []int
}

func (a *recordingAudio) PlayWhoosh()             { a.whooshes++ }
func (a *recordingAudio) SetAmbience(section int) { a.ambiences = append(a.ambiences, section) }

type recordingRenderer struct {
	section   int
	scrollTop float64
	opacity   float64
	calls     int
}

func (r *recordingRenderer) DrawSection(_ *ebiten.Image, section int, scrollTop, opacity float64) {
	r.section, r.scrollTop, r.opacity = section, scrollTop, opacity
	r.calls++
}

func newTestModule(t *testing.T) (*SectionScrollerModule, *manualClock, *recordingAudio) {
	t.Helper()
	cfg, err := config.ParseExperienceConfig([]byte(testExperienceYAML))
	if err != nil {
		t.Fatalf("ParseExperienceConfig failed: %v", err)
	}
	clock := &manualClock{t: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	audio := &recordingAudio{}
	m, err := NewSectionScrollerModule(ecs.NewEntityManager(), SectionScrollerOptions{
		Config: cfg,
		Audio:  audio,
		Clock:  clock.Now,
	})
	if err != nil {
		t.Fatalf("NewSectionScrollerModule failed: %v", err)
	}
	return m, clock, audio
}

// run 以 60fps 推进 n 帧
func run(m *SectionScrollerModule, clock *manualClock, n int) {
	for i := 0; i < n; i++ {
		clock.Advance(time.Second / 60)
		m.Update()
	}
}

// TestNewSectionScrollerModule_Errors 测试创建参数校验
func TestNewSectionScrollerModule_Errors(t *testing.T) {
	cfg, _ := config.ParseExperienceConfig([]byte(testExperienceYAML))

	tests := []struct {
		name    string
		opts    SectionScrollerOptions
		wantErr error
	}{
		{"缺少配置", SectionScrollerOptions{}, ErrNilConfig},
		{"姿态数量不一致", SectionScrollerOptions{Config: cfg, Poses: config.PoseTable{{}}}, nil},
		{"没有分区", SectionScrollerOptions{Config: &config.ExperienceConfig{Timing: config.DefaultTiming()}}, config.ErrNoSections},
		{"未填充默认值的零时长配置", SectionScrollerOptions{Config: &config.ExperienceConfig{Sections: cfg.Sections}}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := NewSectionScrollerModule(ecs.NewEntityManager(), tt.opts)
			if err == nil || m != nil {
				t.Fatalf("Expected an error, got module=%v err=%v", m, err)
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("err = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

// TestSectionScrollerModule_InitialSnapshot 测试初始状态
func TestSectionScrollerModule_InitialSnapshot(t *testing.T) {
	m, _, _ := newTestModule(t)
	snap := m.Snapshot()

	if snap.Section != 0 || snap.Current != 0 {
		t.Errorf("Expected section 0, got %+v", snap)
	}
	if snap.Transition.Active || snap.UILocked {
		t.Errorf("Expected idle and unlocked, got %+v", snap)
	}
	if snap.Opacity != 1 || snap.DimAlpha != 0 {
		t.Errorf("Expected opacity 1 and no dim, got %+v", snap)
	}
	if m.SectionCount() != 3 {
		t.Errorf("SectionCount = %d, want 3", m.SectionCount())
	}
}

// TestSectionScrollerModule_InputGatedOnStart 测试未启动时忽略输入
func TestSectionScrollerModule_InputGatedOnStart(t *testing.T) {
	m, _, audio := newTestModule(t)

	if m.Next() || m.RequestTransition(2) || m.SelectSection(1) || m.OnWheel(-100) {
		t.Error("Input should be ignored before Start")
	}
	if audio.whooshes != 0 {
		t.Error("No whoosh expected before Start")
	}
}

// TestSectionScrollerModule_FullTransition 测试完整过渡流程
func TestSectionScrollerModule_FullTransition(t *testing.T) {
	m, clock, audio := newTestModule(t)
	host := &stubScrollHost{top: 200, height: 1200, client: 400}
	m.AttachScrollHost(host)
	m.Start()

	if !m.Next() {
		t.Fatal("Next() should start a transition")
	}

	run(m, clock, 20)
	snap := m.Snapshot()
	if !snap.Transition.Active || snap.Section != 0 {
		t.Errorf("Before midpoint: expected active, section 0; got %+v", snap)
	}
	if snap.Opacity >= 1 || snap.DimAlpha <= 0 {
		t.Errorf("Expected fading content and dim overlay, got %+v", snap)
	}

	run(m, clock, 15)
	snap = m.Snapshot()
	if snap.Section != 1 || snap.Current != 0 {
		t.Errorf("After midpoint: expected displayed 1, current 0; got %+v", snap)
	}
	if host.toTop != 1 || host.top != 0 {
		t.Errorf("Expected scroll reset at midpoint, toTop=%d top=%v", host.toTop, host.top)
	}

	run(m, clock, 30)
	snap = m.Snapshot()
	if snap.Transition.Active || snap.Current != 1 || snap.UILocked {
		t.Errorf("After completion: expected idle at 1, got %+v", snap)
	}
	if audio.whooshes != 1 || len(audio.ambiences) != 1 || audio.ambiences[0] != 1 {
		t.Errorf("Unexpected audio calls: %+v", audio)
	}
}

// TestSectionScrollerModule_StopReleasesAttachments 测试停止时释放所有挂载
func TestSectionScrollerModule_StopReleasesAttachments(t *testing.T) {
	m, _, _ := newTestModule(t)
	m.AttachScrollHost(&stubScrollHost{height: 1000, client: 400})
	m.AttachSentinel(&stubSentinel{visible: true})
	m.AttachPointer(stubPointer{})
	m.Start()

	m.Stop()
	refs := m.hostRefs()
	if refs.Scroll != nil || refs.Sentinel != nil || refs.Pointer != nil {
		t.Errorf("Stop should release all host refs, got %+v", *refs)
	}
	if m.IsStarted() {
		t.Error("Module should be stopped")
	}

	// 重复调用安全
	m.Stop()
}

// TestSectionScrollerModule_DetachIdempotent 测试释放函数幂等且不影响后续挂载
func TestSectionScrollerModule_DetachIdempotent(t *testing.T) {
	m, _, _ := newTestModule(t)
	first := &stubScrollHost{}
	second := &stubScrollHost{}

	detachFirst := m.AttachScrollHost(first)
	detachFirst()
	detachFirst()
	if m.hostRefs().Scroll != nil {
		t.Fatal("Scroll host should be detached")
	}

	m.AttachScrollHost(second)
	detachFirst()
	if m.hostRefs().Scroll != second {
		t.Error("Stale detach must not release a newer attachment")
	}
}

// TestSectionScrollerModule_StopMidTransition 测试过渡中停止再启动
func TestSectionScrollerModule_StopMidTransition(t *testing.T) {
	m, clock, _ := newTestModule(t)
	m.Start()
	m.Next()
	run(m, clock, 10)
	progress := m.Snapshot().Transition.T

	m.Stop()
	clock.Advance(5 * time.Second)
	m.Update()
	if m.Snapshot().Transition.T != progress {
		t.Error("Progress must not advance while stopped")
	}

	m.Start()
	run(m, clock, 1)
	got := m.Snapshot().Transition.T
	if got <= progress || got > progress+0.05 {
		t.Errorf("Progress after restart = %v, want slightly above %v", got, progress)
	}
}

// TestSectionScrollerModule_WheelAndSentinel 测试滚轮与哨兵输入
func TestSectionScrollerModule_WheelAndSentinel(t *testing.T) {
	m, clock, _ := newTestModule(t)
	host := &stubScrollHost{top: 600, height: 1000, client: 400}
	sentinel := &stubSentinel{visible: true}
	m.AttachScrollHost(host)
	m.AttachSentinel(sentinel)
	m.Start()

	if !m.OnSentinelChanged(true) {
		t.Fatal("Sentinel near the bottom should auto-advance")
	}
	if m.OnWheel(100) {
		t.Error("Wheel during a transition should not be consumed")
	}
	run(m, clock, 60)
	if m.Snapshot().Current != 1 {
		t.Errorf("Current = %d, want 1", m.Snapshot().Current)
	}
}

// TestSectionScrollerModule_Draw 测试渲染参数
func TestSectionScrollerModule_Draw(t *testing.T) {
	cfg, _ := config.ParseExperienceConfig([]byte(testExperienceYAML))
	renderer := &recordingRenderer{}
	m, err := NewSectionScrollerModule(ecs.NewEntityManager(), SectionScrollerOptions{
		Config:   cfg,
		Renderer: renderer,
	})
	if err != nil {
		t.Fatalf("NewSectionScrollerModule failed: %v", err)
	}
	m.AttachScrollHost(&stubScrollHost{top: 42, height: 1000, client: 400})

	screen := ebiten.NewImage(64, 64)
	m.Draw(screen)

	if renderer.calls != 1 || renderer.section != 0 || renderer.scrollTop != 42 || renderer.opacity != 1 {
		t.Errorf("Unexpected DrawSection arguments: %+v", *renderer)
	}
}

// TestSectionScrollerModule_Destroy 测试销毁后所有入口退化为空操作
func TestSectionScrollerModule_Destroy(t *testing.T) {
	m, clock, audio := newTestModule(t)
	m.AttachScrollHost(&stubScrollHost{top: 600, height: 1000, client: 400})
	m.Start()
	m.Next()
	run(m, clock, 10)

	m.Destroy()
	m.Destroy()

	if m.Alive() {
		t.Fatal("Alive should be false after Destroy")
	}
	if m.IsStarted() {
		t.Error("Destroy should stop the module")
	}
	m.Start()
	if m.IsStarted() {
		t.Error("Start after Destroy must be ignored")
	}
	if m.Next() || m.SelectSection(2) || m.OnWheel(100) || m.OnSentinelChanged(true) {
		t.Error("Input after Destroy must not be accepted")
	}
	snap := m.Snapshot()
	if snap.Transition != (systems.TransitionState{}) || snap.Section != 0 || snap.UILocked {
		t.Errorf("Snapshot after Destroy = %+v, want idle defaults", snap)
	}

	detach := m.AttachPointer(stubPointer{})
	detach()

	whooshes := audio.whooshes
	run(m, clock, 60)
	if audio.whooshes != whooshes {
		t.Error("Destroyed module should stay silent")
	}
}
