package utils

import "math"

// Easing Functions (缓动函数)
//
// 缓动函数用于控制动画的速度曲线，使动画看起来更自然。
// 所有函数接受一个进度值 t ∈ [0, 1]，返回缓动后的值 ∈ [0, 1]。
//
// 参考：https://easings.net/

// Clamp01 将值限制在 [0, 1] 范围内
func Clamp01(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}

// Smoothstep 三次平滑缓动（缓入缓出）
// 特点：起点和终点速度为 0，镜头移动不会突然启动或停止
// 公式：f(t) = t²(3 - 2t)
func Smoothstep(t float64) float64 {
	t = Clamp01(t)
	return t * t * (3 - 2*t)
}

// Lerp 线性插值
// 在 a 和 b 之间根据 t 插值
// t=0 返回 a，t=1 返回 b
func Lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

// SineBump 正弦鼓包曲线
// 0 → 1 → 0，t=0.5 时取得最大值
// 公式：f(t) = sin(πt)
func SineBump(t float64) float64 {
	return math.Sin(math.Pi * Clamp01(t))
}

// FadeOpacity 页面淡出淡入曲线
// 起点和终点为 1，中点为 0，与中点内容切换同步
// 公式：f(t) = 1 - sin(πt)
func FadeOpacity(t float64) float64 {
	return 1 - SineBump(t)
}

// DampFactor 计算帧率无关的指数阻尼系数
//
// perFrame 是参考帧率下每帧向目标靠近的比例（如 0.10）。
// 在参考帧率下 dt = 1/referenceFPS 时返回值恰好为 perFrame，
// 帧率变化时阻尼速度保持一致。
//
// 参数：
//   - perFrame: 参考帧率下的每帧插值比例 (0, 1]
//   - dt: 本帧时间增量（秒）
//   - referenceFPS: 参考帧率（通常为 60）
func DampFactor(perFrame, dt, referenceFPS float64) float64 {
	if perFrame >= 1 {
		return 1
	}
	if perFrame <= 0 || dt <= 0 {
		return 0
	}
	return 1 - math.Pow(1-perFrame, dt*referenceFPS)
}

// WrapIndex 环绕索引
// 将任意整数映射到 [0, n)，负数从尾部回绕
// 公式：((i % n) + n) % n
func WrapIndex(i, n int) int {
	if n <= 0 {
		return 0
	}
	return ((i % n) + n) % n
}
