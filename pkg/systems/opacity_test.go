package systems

import (
	"math"
	"testing"
)

// TestPageOpacity 测试页面不透明度曲线
func TestPageOpacity(t *testing.T) {
	tests := []struct {
		name  string
		state TransitionState
		want  float64
	}{
		{"空闲", TransitionState{}, 1},
		{"空闲时忽略 T", TransitionState{T: 0.5}, 1},
		{"过渡开始", TransitionState{Active: true, T: 0}, 1},
		{"过渡中点", TransitionState{Active: true, T: 0.5}, 0},
		{"过渡结束", TransitionState{Active: true, T: 1}, 1},
		{"四分之一", TransitionState{Active: true, T: 0.25}, 1 - math.Sin(math.Pi*0.25)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := PageOpacity(tt.state); math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("PageOpacity(%+v) = %v, want %v", tt.state, got, tt.want)
			}
		})
	}
}

// TestDimAlpha 测试全屏遮罩不透明度
func TestDimAlpha(t *testing.T) {
	tests := []struct {
		name     string
		state    TransitionState
		uiLocked bool
		want     float64
	}{
		{"空闲未锁定", TransitionState{}, false, 0},
		{"空闲但锁定", TransitionState{}, true, transitionDimMax},
		{"过渡开始", TransitionState{Active: true, T: 0}, true, 0},
		{"过渡中点", TransitionState{Active: true, T: 0.5}, true, transitionDimMax},
		{"过渡结束", TransitionState{Active: true, T: 1}, true, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DimAlpha(tt.state, tt.uiLocked); math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("DimAlpha = %v, want %v", got, tt.want)
			}
		})
	}
}
