package utils

import (
	"math"
	"testing"
)

// TestSmoothstep 测试三次平滑缓动
func TestSmoothstep(t *testing.T) {
	tests := []struct {
		name     string
		input    float64
		expected float64
	}{
		{"起点", 0.0, 0.0},
		{"中点", 0.5, 0.5},
		{"终点", 1.0, 1.0},
		{"四分之一", 0.25, 0.15625}, // 0.0625 * 2.5
		{"超出上界被限制", 1.5, 1.0},
		{"低于下界被限制", -0.5, 0.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Smoothstep(tt.input)
			if math.Abs(result-tt.expected) > 0.001 {
				t.Errorf("Smoothstep(%v) = %v, 期望 %v", tt.input, result, tt.expected)
			}
		})
	}

	t.Run("单调递增", func(t *testing.T) {
		prev := Smoothstep(0)
		for p := 0.05; p <= 1.0; p += 0.05 {
			cur := Smoothstep(p)
			if cur < prev {
				t.Errorf("Smoothstep(%v) = %v 小于前一个值 %v", p, cur, prev)
			}
			prev = cur
		}
	})
}

// TestFadeOpacity 测试页面淡出淡入曲线
func TestFadeOpacity(t *testing.T) {
	tests := []struct {
		name     string
		input    float64
		expected float64
	}{
		{"起点完全可见", 0.0, 1.0},
		{"中点完全透明", 0.5, 0.0},
		{"终点完全可见", 1.0, 1.0},
		{"四分之一", 0.25, 1 - math.Sqrt2/2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := FadeOpacity(tt.input)
			if math.Abs(result-tt.expected) > 1e-9 {
				t.Errorf("FadeOpacity(%v) = %v, 期望 %v", tt.input, result, tt.expected)
			}
		})
	}
}

// TestDampFactor 测试帧率无关阻尼
func TestDampFactor(t *testing.T) {
	t.Run("参考帧率下等于每帧比例", func(t *testing.T) {
		got := DampFactor(0.10, 1.0/60.0, 60)
		if math.Abs(got-0.10) > 1e-9 {
			t.Errorf("DampFactor = %v, 期望 0.10", got)
		}
	})

	t.Run("一帧 30fps 等价于两帧 60fps", func(t *testing.T) {
		// 60fps 两帧后剩余距离: (1-k)^2
		remaining60 := (1 - 0.10) * (1 - 0.10)
		remaining30 := 1 - DampFactor(0.10, 1.0/30.0, 60)
		if math.Abs(remaining60-remaining30) > 1e-9 {
			t.Errorf("30fps 剩余 %v, 60fps 剩余 %v", remaining30, remaining60)
		}
	})

	t.Run("dt 为 0 不移动", func(t *testing.T) {
		if got := DampFactor(0.12, 0, 60); got != 0 {
			t.Errorf("DampFactor(dt=0) = %v, 期望 0", got)
		}
	})

	t.Run("比例为 1 直接到达", func(t *testing.T) {
		if got := DampFactor(1, 0.5, 60); got != 1 {
			t.Errorf("DampFactor(k=1) = %v, 期望 1", got)
		}
	})
}

// TestWrapIndex 测试环绕索引
func TestWrapIndex(t *testing.T) {
	tests := []struct {
		name     string
		i, n     int
		expected int
	}{
		{"范围内", 1, 3, 1},
		{"等于 n 回到 0", 3, 3, 0},
		{"负一回到末尾", -1, 3, 2},
		{"大负数", -7, 3, 2},
		{"大正数", 10, 3, 1},
		{"单个分区", 5, 1, 0},
		{"n 非法", 4, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := WrapIndex(tt.i, tt.n); got != tt.expected {
				t.Errorf("WrapIndex(%d, %d) = %d, 期望 %d", tt.i, tt.n, got, tt.expected)
			}
		})
	}
}

// TestLerp 测试线性插值函数
func TestLerp(t *testing.T) {
	tests := []struct {
		name     string
		a, b, t  float64
		expected float64
	}{
		{"起点", 10, 20, 0, 10},
		{"终点", 10, 20, 1, 20},
		{"中点", 10, 20, 0.5, 15},
		{"反向", 3.5, -3.5, 0.5, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Lerp(tt.a, tt.b, tt.t); math.Abs(got-tt.expected) > 1e-9 {
				t.Errorf("Lerp(%v, %v, %v) = %v, 期望 %v", tt.a, tt.b, tt.t, got, tt.expected)
			}
		})
	}
}
