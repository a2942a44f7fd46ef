package scenes

import "github.com/decker502/vantage/pkg/utils"

// CursorPointer 读取鼠标/触摸位置作为镜头视差的指针来源
type CursorPointer struct {
	width, height int
}

// NewCursorPointer 创建指针来源
func NewCursorPointer(width, height int) *CursorPointer {
	return &CursorPointer{width: width, height: height}
}

// Resize 更新屏幕尺寸
func (c *CursorPointer) Resize(width, height int) {
	c.width, c.height = width, height
}

// PointerNDC 返回归一化设备坐标
func (c *CursorPointer) PointerNDC() (float64, float64) {
	x, y := utils.GetPointerPosition()
	return utils.PointerToNDC(x, y, c.width, c.height)
}
