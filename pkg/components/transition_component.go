package components

// TransitionComponent 分区过渡状态
//
// 不变量：
//   - T ∈ [0, 1]
//   - Active 时 From != To
//   - 空闲时 From == To == 当前分区，T == 0
type TransitionComponent struct {
	// Active 是否正在过渡
	Active bool

	// From 过渡起始分区
	From int

	// To 过渡目标分区（已归一化）
	To int

	// T 归一化进度 [0, 1]
	T float64

	// MidpointSwapped 本次过渡是否已在中点切换内容
	// 每次开始新过渡时重置为 false
	MidpointSwapped bool
}
