package systems

import (
	"time"

	"github.com/decker502/vantage/pkg/components"
	"github.com/decker502/vantage/pkg/config"
	"github.com/decker502/vantage/pkg/ecs"
	"github.com/go-gl/mathgl/mgl64"
)

// fakeClock 可手动推进的墙钟
type fakeClock struct {
	t time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time { return c.t }

func (c *fakeClock) Advance(sec float64) {
	c.t = c.t.Add(seconds(sec))
}

// fakeScrollHost 可编程的滚动容器
type fakeScrollHost struct {
	top, height, client float64
	toTopCalls          []bool
}

func (h *fakeScrollHost) ScrollTop() float64    { return h.top }
func (h *fakeScrollHost) ScrollHeight() float64 { return h.height }
func (h *fakeScrollHost) ClientHeight() float64 { return h.client }
func (h *fakeScrollHost) ScrollToTop(smooth bool) {
	h.toTopCalls = append(h.toTopCalls, smooth)
	if !smooth {
		h.top = 0
	}
}

type fakeSentinel struct{ visible bool }

func (s *fakeSentinel) InViewport() bool { return s.visible }

type fakePointer struct{ x, y float64 }

func (p *fakePointer) PointerNDC() (float64, float64) { return p.x, p.y }

// fakeAudio 记录音频调用
type fakeAudio struct {
	whooshes  int
	ambiences []int
}

func (a *fakeAudio) PlayWhoosh()             { a.whooshes++ }
func (a *fakeAudio) SetAmbience(section int) { a.ambiences = append(a.ambiences, section) }

// testScroller 组装好的一套过渡系统
type testScroller struct {
	em       *ecs.EntityManager
	entity   ecs.EntityID
	clock    *fakeClock
	progress *ProgressClock
	ts       *TransitionSystem
	swapper  *MidpointSwapSystem
	arbiter  *InputArbiter
	audio    *fakeAudio
	refs     *components.HostRefsComponent
	swaps    []int
}

func testPoses(n int) config.PoseTable {
	poses := make(config.PoseTable, n)
	for i := range poses {
		f := float64(i)
		poses[i] = config.Pose{
			CameraPosition: mgl64.Vec3{f * 10, 1, 5},
			LookAt:         mgl64.Vec3{f * 10, 0, 0},
		}
	}
	return poses
}

func newTestScroller(n int) *testScroller {
	s := &testScroller{
		em:    ecs.NewEntityManager(),
		clock: newFakeClock(),
		audio: &fakeAudio{},
		refs:  &components.HostRefsComponent{},
	}
	s.entity = s.em.CreateEntity()
	ecs.AddComponent(s.em, s.entity, &components.TransitionComponent{})
	ecs.AddComponent(s.em, s.entity, &components.SectionComponent{Count: n})
	ecs.AddComponent(s.em, s.entity, &components.InputLockComponent{})
	ecs.AddComponent(s.em, s.entity, s.refs)

	timing := config.DefaultTiming()
	s.progress = NewProgressClock(s.clock.Now)
	s.swapper = NewMidpointSwapSystem(s.em, s.entity, s.audio, func(section int) {
		s.swaps = append(s.swaps, section)
	})
	s.ts = NewTransitionSystem(s.em, s.entity, timing, s.clock.Now, s.progress, s.swapper, s.audio)
	s.arbiter = NewInputArbiter(s.em, s.entity, timing, s.clock.Now, s.ts)
	return s
}

// frame 推进墙钟并执行一帧
func (s *testScroller) frame(sec float64) {
	s.clock.Advance(sec)
	if dt, ok := s.progress.Frame(); ok {
		s.ts.Tick(dt)
	}
}

// runToCompletion 以 60fps 推进直到过渡结束，返回帧数
func (s *testScroller) runToCompletion() int {
	frames := 0
	for s.ts.IsActive() && frames < 1000 {
		s.frame(1.0 / 60)
		frames++
	}
	return frames
}

func (s *testScroller) transition() *components.TransitionComponent {
	tc, _ := ecs.GetComponent[*components.TransitionComponent](s.em, s.entity)
	return tc
}

func (s *testScroller) section() *components.SectionComponent {
	sc, _ := ecs.GetComponent[*components.SectionComponent](s.em, s.entity)
	return sc
}

func (s *testScroller) lock() *components.InputLockComponent {
	l, _ := ecs.GetComponent[*components.InputLockComponent](s.em, s.entity)
	return l
}
