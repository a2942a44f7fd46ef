package systems

import (
	"math"
	"testing"

	"github.com/decker502/vantage/pkg/config"
)

// TestTransitionSystem_Normalize 测试索引环绕
func TestTransitionSystem_Normalize(t *testing.T) {
	s := newTestScroller(3)

	tests := []struct {
		name  string
		input int
		want  int
	}{
		{"零", 0, 0},
		{"范围内", 2, 2},
		{"等于 N", 3, 0},
		{"超过 N", 7, 1},
		{"负一", -1, 2},
		{"负 N", -3, 0},
		{"负数大幅越界", -7, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := s.ts.Normalize(tt.input); got != tt.want {
				t.Errorf("Normalize(%d) = %d, want %d", tt.input, got, tt.want)
			}
		})
	}
}

// TestTransitionSystem_RequestStartsTransition 测试请求启动过渡
func TestTransitionSystem_RequestStartsTransition(t *testing.T) {
	s := newTestScroller(3)

	if !s.ts.RequestTransition(1) {
		t.Fatal("Expected RequestTransition(1) to start a transition")
	}

	tc := s.transition()
	if !tc.Active || tc.From != 0 || tc.To != 1 || tc.T != 0 {
		t.Errorf("Unexpected transition state: %+v", *tc)
	}
	if tc.MidpointSwapped {
		t.Error("MidpointSwapped should be reset on start")
	}
	if !s.lock().UILocked {
		t.Error("UI should be locked while transitioning")
	}
	if !s.lock().WheelBlocked(s.clock.Now()) {
		t.Error("Wheel should be blocked at transition start")
	}
	if s.audio.whooshes != 1 {
		t.Errorf("Expected 1 whoosh, got %d", s.audio.whooshes)
	}
	if !s.progress.Running() {
		t.Error("Progress clock should be running")
	}
}

// TestTransitionSystem_RequestIgnoredWhileBusy 测试过渡中或锁定时请求为空操作
func TestTransitionSystem_RequestIgnoredWhileBusy(t *testing.T) {
	t.Run("过渡中", func(t *testing.T) {
		s := newTestScroller(3)
		s.ts.RequestTransition(1)
		s.frame(0.2)
		before := *s.transition()

		if s.ts.RequestTransition(2) {
			t.Error("Request during an active transition should be rejected")
		}
		if *s.transition() != before {
			t.Errorf("Transition state mutated: before %+v, after %+v", before, *s.transition())
		}
		if s.audio.whooshes != 1 {
			t.Errorf("Expected 1 whoosh, got %d", s.audio.whooshes)
		}
	})

	t.Run("锁定但未过渡", func(t *testing.T) {
		s := newTestScroller(3)
		s.lock().UILocked = true

		if s.ts.RequestTransition(1) {
			t.Error("Request while UI locked should be rejected")
		}
		if s.transition().Active {
			t.Error("Transition should not start while locked")
		}
		if s.audio.whooshes != 0 {
			t.Errorf("Expected no whoosh, got %d", s.audio.whooshes)
		}
	})
}

// TestTransitionSystem_SameSectionScrollsToTop 测试请求当前分区只会滚回顶部
func TestTransitionSystem_SameSectionScrollsToTop(t *testing.T) {
	s := newTestScroller(3)
	host := &fakeScrollHost{top: 120, height: 1000, client: 400}
	s.refs.Scroll = host

	// 3 归一化后等于当前分区 0
	if s.ts.RequestTransition(3) {
		t.Error("Request for the current section should not start a transition")
	}
	if s.transition().Active {
		t.Error("Transition should stay idle")
	}
	if len(host.toTopCalls) != 1 || !host.toTopCalls[0] {
		t.Errorf("Expected one smooth ScrollToTop, got %v", host.toTopCalls)
	}
	if s.audio.whooshes != 0 {
		t.Error("No whoosh expected for same-section request")
	}
}

// TestTransitionSystem_ProgressMonotonic 测试进度单调递增并精确到达 1
func TestTransitionSystem_ProgressMonotonic(t *testing.T) {
	s := newTestScroller(3)

	var observed []float64
	s.ts.SetProgressObserver(func(st TransitionState) {
		observed = append(observed, st.T)
	})

	s.ts.RequestTransition(1)
	frames := s.runToCompletion()

	if frames < 56 || frames > 58 {
		t.Errorf("Expected about 57 frames at 60fps, got %d", frames)
	}
	if len(observed) == 0 {
		t.Fatal("Progress observer never called")
	}
	for i := 1; i < len(observed); i++ {
		if observed[i] < observed[i-1] {
			t.Fatalf("Progress decreased at frame %d: %v -> %v", i, observed[i-1], observed[i])
		}
	}
	if last := observed[len(observed)-1]; last != 1 {
		t.Errorf("Final progress = %v, want exactly 1", last)
	}
	for _, v := range observed {
		if v < 0 || v > 1 {
			t.Errorf("Progress out of range: %v", v)
		}
	}
}

// TestTransitionSystem_NegativeDtIgnored 测试负 dt 不会让进度倒退
func TestTransitionSystem_NegativeDtIgnored(t *testing.T) {
	s := newTestScroller(3)
	s.ts.RequestTransition(1)
	s.ts.Tick(0.3)
	before := s.transition().T

	s.ts.Tick(-0.5)
	s.ts.Tick(math.NaN())

	if s.transition().T != before {
		t.Errorf("Progress changed on negative/NaN dt: %v -> %v", before, s.transition().T)
	}
}

// TestTransitionSystem_Completion 测试过渡完成后的状态
func TestTransitionSystem_Completion(t *testing.T) {
	s := newTestScroller(3)
	s.ts.RequestTransition(2)
	s.runToCompletion()

	tc := s.transition()
	sc := s.section()
	if tc.Active {
		t.Error("Transition should be idle after completion")
	}
	if sc.Current != 2 || sc.Displayed != 2 {
		t.Errorf("Expected current=displayed=2, got current=%d displayed=%d", sc.Current, sc.Displayed)
	}
	if tc.From != 2 || tc.To != 2 || tc.T != 0 {
		t.Errorf("Idle state should be from=to=current, t=0; got %+v", *tc)
	}
	if s.lock().UILocked {
		t.Error("UI should be unlocked after completion")
	}
	if s.progress.Running() {
		t.Error("Progress clock should stop after completion")
	}
}

// TestTransitionSystem_TickIgnoredWhileIdle 测试空闲时 Tick 无效果
func TestTransitionSystem_TickIgnoredWhileIdle(t *testing.T) {
	s := newTestScroller(3)
	s.ts.Tick(5)

	if s.transition().T != 0 || s.transition().Active {
		t.Errorf("Tick while idle mutated state: %+v", *s.transition())
	}
	if len(s.swaps) != 0 {
		t.Error("Midpoint swap must not fire while idle")
	}
}

// TestTransitionSystem_LargeDtStillSwaps 测试单帧大跳跃时中点切换仍先于完成触发
func TestTransitionSystem_LargeDtStillSwaps(t *testing.T) {
	s := newTestScroller(3)
	s.ts.RequestTransition(1)

	s.frame(2.5)

	if s.transition().Active {
		t.Error("Transition should complete in a single large tick")
	}
	if len(s.swaps) != 1 || s.swaps[0] != 1 {
		t.Errorf("Expected exactly one swap to section 1, got %v", s.swaps)
	}
	if len(s.audio.ambiences) != 1 || s.audio.ambiences[0] != 1 {
		t.Errorf("Expected ambience switched to 1 once, got %v", s.audio.ambiences)
	}
	if s.section().Current != 1 {
		t.Errorf("Current = %d, want 1", s.section().Current)
	}
}

// TestTransitionSystem_ThreeSectionScenario 测试三分区完整场景
func TestTransitionSystem_ThreeSectionScenario(t *testing.T) {
	s := newTestScroller(3)

	steps := []struct {
		name    string
		request func() bool
		want    int
	}{
		{"下一个 0->1", s.arbiter.Next, 1},
		{"下一个 1->2", s.arbiter.Next, 2},
		{"下一个环绕 2->0", s.arbiter.Next, 0},
		{"上一个环绕 0->2", s.arbiter.Previous, 2},
		{"直接选择 2->1", func() bool { return s.arbiter.SelectSection(1) }, 1},
	}

	for _, step := range steps {
		t.Run(step.name, func(t *testing.T) {
			if !step.request() {
				t.Fatal("Expected request to start a transition")
			}
			s.runToCompletion()
			if got := s.section().Current; got != step.want {
				t.Errorf("Current = %d, want %d", got, step.want)
			}
		})
	}

	if s.audio.whooshes != len(steps) {
		t.Errorf("Expected %d whooshes, got %d", len(steps), s.audio.whooshes)
	}
	if len(s.swaps) != len(steps) {
		t.Errorf("Expected %d midpoint swaps, got %d", len(steps), len(s.swaps))
	}
}

// TestTransitionSystem_NonPositiveDurationCompletes 测试时长非正时过渡立即完成而不是卡在 NaN
func TestTransitionSystem_NonPositiveDurationCompletes(t *testing.T) {
	tests := []struct {
		name     string
		duration float64
	}{
		{"零时长", 0},
		{"负时长", -1},
		{"NaN 时长", math.NaN()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestScroller(3)
			timing := config.DefaultTiming()
			timing.TransitionSec = tt.duration
			s.ts = NewTransitionSystem(s.em, s.entity, timing, s.clock.Now, s.progress, s.swapper, s.audio)

			if !s.ts.RequestTransition(1) {
				t.Fatal("RequestTransition(1) should start a transition")
			}
			s.frame(0)

			tc := s.transition()
			if tc.Active || math.IsNaN(tc.T) {
				t.Fatalf("Transition stuck: active=%v t=%v", tc.Active, tc.T)
			}
			if s.lock().UILocked {
				t.Error("UI lock should be released after completion")
			}
			if s.section().Current != 1 || len(s.swaps) != 1 {
				t.Errorf("Current = %d swaps = %v, want 1 and one swap", s.section().Current, s.swaps)
			}
		})
	}
}
