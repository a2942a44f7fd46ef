package components

// SectionComponent 分区索引状态
type SectionComponent struct {
	// Count 分区总数 N
	Count int

	// Current 当前所在分区，过渡完成时更新
	Current int

	// Displayed 当前显示内容的分区，过渡中点时切换
	// 空闲时与 Current 相同
	Displayed int
}
