package scenes

import "math"

// sentinelHeight 哨兵元素高度（像素）
const sentinelHeight = 2.0

// SentinelWatcher 内容末尾的哨兵元素
//
// 哨兵位于检查条之后、内容的最底部。它同时提供两种判断：
//   - InViewport: 上边缘是否已进入可视区域（滚轮判断使用）
//   - Poll: 可见比例是否越过阈值，只在状态变化时报告（相当于 IntersectionObserver）
type SentinelWatcher struct {
	panel     *ScrollPanel
	offset    float64 // 哨兵在内容中的纵向位置
	threshold float64

	visible bool
	pending bool // 上次报告的可见状态未被接受，下次 Poll 重新报告
}

// NewSentinelWatcher 创建哨兵
func NewSentinelWatcher(panel *ScrollPanel, threshold float64) *SentinelWatcher {
	return &SentinelWatcher{panel: panel, threshold: threshold}
}

// SetOffset 设置哨兵在内容中的位置
// 内容重新排版后调用
func (s *SentinelWatcher) SetOffset(y float64) {
	s.offset = y
}

// InViewport 哨兵上边缘是否在可视区域内
func (s *SentinelWatcher) InViewport() bool {
	return s.offset-s.panel.ScrollTop() <= s.panel.ClientHeight()
}

// IntersectionRatio 哨兵可见部分占自身高度的比例
func (s *SentinelWatcher) IntersectionRatio() float64 {
	top := s.offset - s.panel.ScrollTop()
	bottom := top + sentinelHeight
	visible := math.Min(bottom, s.panel.ClientHeight()) - math.Max(top, 0)
	if visible <= 0 {
		return 0
	}
	return math.Min(1, visible/sentinelHeight)
}

// Poll 检查可见性变化
// 返回 changed=true 时 visible 为新的可见状态；Retry 之后仍可见时再报告一次
func (s *SentinelWatcher) Poll() (changed, visible bool) {
	now := s.IntersectionRatio() >= s.threshold
	if now == s.visible {
		if now && s.pending {
			s.pending = false
			return true, true
		}
		return false, now
	}
	s.visible = now
	s.pending = false
	return true, now
}

// Retry 要求下一次 Poll 在哨兵仍然可见时重新报告
// 用于可见通知被协调器拒绝（冷却中、过渡中）的情况
func (s *SentinelWatcher) Retry() {
	s.pending = true
}

// Reset 清除记录的可见状态（切换分区后内容重新排版时调用）
func (s *SentinelWatcher) Reset() {
	s.visible = false
	s.pending = false
}
