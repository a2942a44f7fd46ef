package components

// ScrollHost 宿主的可滚动内容容器
// 协调器只读取滚动位置，并在需要时把内容滚回顶部
type ScrollHost interface {
	// ScrollTop 当前滚动偏移（像素）
	ScrollTop() float64
	// ScrollHeight 内容总高度
	ScrollHeight() float64
	// ClientHeight 可视区域高度
	ClientHeight() float64
	// ScrollToTop 滚回顶部；smooth=false 时立即到位
	ScrollToTop(smooth bool)
}

// Sentinel 内容末尾的不可见标记
type Sentinel interface {
	// InViewport 标记的上边缘是否已进入可视区域
	InViewport() bool
}

// PointerSource 连续的指针位置信号
type PointerSource interface {
	// PointerNDC 返回归一化设备坐标，x 向右、y 向上，范围 [-1, 1]
	PointerNDC() (x, y float64)
}

// HostRefsComponent 宿主挂载的句柄
// 任一字段为 nil 时，依赖它的逻辑保持不活跃
type HostRefsComponent struct {
	Scroll   ScrollHost
	Sentinel Sentinel
	Pointer  PointerSource
}
