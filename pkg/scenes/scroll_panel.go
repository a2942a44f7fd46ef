package scenes

import (
	"math"

	"github.com/charmbracelet/harmonica"
)

// scrollSpring 平滑滚回顶部使用的弹簧参数
const (
	scrollSpringFrequency = 7.0
	scrollSpringDamping   = 1.0
	scrollSettleEpsilon   = 0.5
)

// ScrollPanel 可滚动的内容面板
//
// 相当于网页里 overflow-y: auto 的容器。锁定时（过渡进行中）
// 用户滚动被忽略，但程序化的 ScrollToTop 依然生效。
type ScrollPanel struct {
	top           float64
	contentHeight float64
	clientHeight  float64
	locked        bool

	spring    harmonica.Spring
	velocity  float64
	animating bool
}

// NewScrollPanel 创建滚动面板
// clientHeight 为可视区域高度
func NewScrollPanel(clientHeight float64, fps int) *ScrollPanel {
	return &ScrollPanel{
		clientHeight: clientHeight,
		spring:       harmonica.NewSpring(harmonica.FPS(fps), scrollSpringFrequency, scrollSpringDamping),
	}
}

// ScrollTop 当前滚动偏移
func (p *ScrollPanel) ScrollTop() float64 { return p.top }

// ScrollHeight 内容总高度（不小于可视高度）
func (p *ScrollPanel) ScrollHeight() float64 { return math.Max(p.contentHeight, p.clientHeight) }

// ClientHeight 可视区域高度
func (p *ScrollPanel) ClientHeight() float64 { return p.clientHeight }

// MaxScroll 最大滚动偏移
func (p *ScrollPanel) MaxScroll() float64 {
	return math.Max(0, p.contentHeight-p.clientHeight)
}

// ScrollToTop 滚回顶部
// smooth=true 时由弹簧动画完成，否则立即到位
func (p *ScrollPanel) ScrollToTop(smooth bool) {
	if !smooth {
		p.top = 0
		p.velocity = 0
		p.animating = false
		return
	}
	p.animating = p.top > 0
}

// ScrollBy 用户滚动
// 锁定时忽略；用户滚动会打断平滑回顶动画
func (p *ScrollPanel) ScrollBy(dy float64) {
	if p.locked || dy == 0 {
		return
	}
	p.animating = false
	p.velocity = 0
	p.top = clamp(p.top+dy, 0, p.MaxScroll())
}

// SetContentHeight 设置内容高度，并把滚动位置限制在新范围内
func (p *ScrollPanel) SetContentHeight(h float64) {
	p.contentHeight = math.Max(0, h)
	p.top = clamp(p.top, 0, p.MaxScroll())
}

// SetClientHeight 设置可视区域高度
func (p *ScrollPanel) SetClientHeight(h float64) {
	p.clientHeight = math.Max(0, h)
	p.top = clamp(p.top, 0, p.MaxScroll())
}

// SetLocked 设置锁定状态（overflow hidden）
func (p *ScrollPanel) SetLocked(locked bool) {
	p.locked = locked
}

// IsLocked 返回是否锁定
func (p *ScrollPanel) IsLocked() bool { return p.locked }

// IsAnimating 是否正在平滑回顶
func (p *ScrollPanel) IsAnimating() bool { return p.animating }

// Update 推进平滑滚动动画，每个 tick 调用一次
func (p *ScrollPanel) Update() {
	if !p.animating {
		return
	}
	p.top, p.velocity = p.spring.Update(p.top, p.velocity, 0)
	if math.Abs(p.top) < scrollSettleEpsilon && math.Abs(p.velocity) < scrollSettleEpsilon {
		p.top = 0
		p.velocity = 0
		p.animating = false
	}
	if p.top < 0 {
		p.top = 0
	}
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
