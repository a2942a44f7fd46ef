// Package utils 提供通用工具函数
package utils

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// WheelLinePixels 滚轮一格对应的像素数
// ebiten.Wheel() 返回的是"格"，浏览器 WheelEvent.deltaY 是像素
const WheelLinePixels = 48.0

// PointerToNDC 将屏幕坐标转换为归一化设备坐标
// x 向右为正，y 向上为正，范围 [-1, 1]
func PointerToNDC(x, y, width, height int) (float64, float64) {
	if width <= 0 || height <= 0 {
		return 0, 0
	}
	nx := float64(x)/float64(width)*2 - 1
	ny := -(float64(y)/float64(height))*2 + 1
	return nx, ny
}

// WheelToDeltaY 将 Ebitengine 的滚轮偏移转换为像素增量
// Ebitengine 向上滚动为正，这里转换为"向下为正"（与 DOM deltaY 一致）
func WheelToDeltaY(yoff float64) float64 {
	return -yoff * WheelLinePixels
}

// GetPointerPosition 获取当前指针位置（触摸或鼠标）
// 优先返回触摸位置，如果没有触摸则返回鼠标位置
func GetPointerPosition() (int, int) {
	touchIDs := ebiten.AppendTouchIDs(nil)
	if len(touchIDs) > 0 {
		return ebiten.TouchPosition(touchIDs[0])
	}
	return ebiten.CursorPosition()
}

// IsJustTouchedOrClicked 检查是否刚刚发生点击或触摸
// 返回是否点击以及点击位置
func IsJustTouchedOrClicked() (bool, int, int) {
	touchIDs := inpututil.AppendJustPressedTouchIDs(nil)
	if len(touchIDs) > 0 {
		x, y := ebiten.TouchPosition(touchIDs[0])
		return true, x, y
	}

	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		x, y := ebiten.CursorPosition()
		return true, x, y
	}

	return false, 0, 0
}

// TouchScroller 把触摸拖拽转换为滚动增量
// 移动端没有滚轮，手指上滑等价于向下滚动
type TouchScroller struct {
	touchID  ebiten.TouchID
	tracking bool
	lastY    int
}

// NewTouchScroller 创建触摸滚动跟踪器
func NewTouchScroller() *TouchScroller {
	return &TouchScroller{touchID: -1}
}

// Update 每帧调用一次，返回本帧的滚动增量（向下为正）
func (ts *TouchScroller) Update() float64 {
	if !ts.tracking {
		justPressed := inpututil.AppendJustPressedTouchIDs(nil)
		if len(justPressed) == 0 {
			return 0
		}
		ts.touchID = justPressed[0]
		_, ts.lastY = ebiten.TouchPosition(ts.touchID)
		ts.tracking = true
		return 0
	}

	if inpututil.IsTouchJustReleased(ts.touchID) {
		ts.Reset()
		return 0
	}

	_, y := ebiten.TouchPosition(ts.touchID)
	return ts.step(y)
}

// step 根据新的触摸位置计算增量
func (ts *TouchScroller) step(y int) float64 {
	delta := float64(ts.lastY - y)
	ts.lastY = y
	return delta
}

// Reset 停止跟踪当前触摸
func (ts *TouchScroller) Reset() {
	ts.touchID = -1
	ts.tracking = false
	ts.lastY = 0
}
