package scenes

import (
	"fmt"
	"image/color"
	"math"
	"time"

	"github.com/charmbracelet/harmonica"
	"github.com/decker502/vantage/pkg/utils"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

const (
	hudHideDelay     = 650 * time.Millisecond
	hudSpringFreq    = 9.0
	hudSpringDamping = 1.0
	hudFadeSpeed     = 6.0 // 每秒不透明度变化量
	hudCoordsAlpha   = 0.65
	hudGlowRadius    = 18
	hudTextOffset    = 14
)

// MouseHUD 指针光晕与坐标读数
//
// 光晕位置用弹簧平滑跟随指针；坐标读数在指针停止移动 650ms 后淡出。
// 坐标以屏幕百分比显示，如 "X 07 · Y 42"。
type MouseHUD struct {
	now    func() time.Time
	spring harmonica.Spring

	targetX, targetY float64 // 归一化到 [0,1]
	x, y             float64
	vx, vy           float64

	alpha     float64
	lastMove  time.Time
	lastRawX  int
	lastRawY  int
	hasSample bool

	face text.Face
}

// NewMouseHUD 创建指针 HUD
func NewMouseHUD(now func() time.Time, fps int) *MouseHUD {
	if now == nil {
		now = time.Now
	}
	return &MouseHUD{
		now:     now,
		spring:  harmonica.NewSpring(harmonica.FPS(fps), hudSpringFreq, hudSpringDamping),
		targetX: 0.5, targetY: 0.5,
		x: 0.5, y: 0.5,
		face: utils.DefaultFace(),
	}
}

// Observe 记录指针位置（屏幕像素）
// 位置变化时视为一次移动，重置淡出计时
func (h *MouseHUD) Observe(px, py, width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	if h.hasSample && px == h.lastRawX && py == h.lastRawY {
		return
	}
	h.hasSample = true
	h.lastRawX, h.lastRawY = px, py
	h.targetX = float64(px) / float64(width)
	h.targetY = float64(py) / float64(height)
	h.lastMove = h.now()
}

// Update 推进平滑与淡入淡出
// dt 为秒
func (h *MouseHUD) Update(dt float64) {
	h.x, h.vx = h.spring.Update(h.x, h.vx, h.targetX)
	h.y, h.vy = h.spring.Update(h.y, h.vy, h.targetY)

	target := 0.0
	if h.hasSample && h.now().Sub(h.lastMove) < hudHideDelay {
		target = 1
	}
	step := hudFadeSpeed * dt
	if h.alpha < target {
		h.alpha = math.Min(target, h.alpha+step)
	} else {
		h.alpha = math.Max(target, h.alpha-step)
	}
}

// Alpha 坐标读数的可见度 [0,1]
func (h *MouseHUD) Alpha() float64 {
	return h.alpha
}

// Position 平滑后的归一化位置
func (h *MouseHUD) Position() (float64, float64) {
	return h.x, h.y
}

// Label 坐标读数文字
func (h *MouseHUD) Label() string {
	return FormatHUDCoords(h.x, h.y)
}

// FormatHUDCoords 把归一化坐标格式化为百分比读数
func FormatHUDCoords(x, y float64) string {
	return fmt.Sprintf("X %02d · Y %02d", int(math.Round(x*100)), int(math.Round(y*100)))
}

// Draw 绘制光晕与读数
func (h *MouseHUD) Draw(screen *ebiten.Image) {
	if !h.hasSample {
		return
	}
	b := screen.Bounds()
	px := float32(h.x * float64(b.Dx()))
	py := float32(h.y * float64(b.Dy()))

	for i := 3; i >= 1; i-- {
		r := float32(hudGlowRadius * i / 3)
		vector.DrawFilledCircle(screen, px, py, r, color.RGBA{R: 255, G: 255, B: 255, A: uint8(10 * (4 - i))}, true)
	}

	if h.alpha <= 0 {
		return
	}
	op := &text.DrawOptions{}
	op.GeoM.Translate(float64(px)+hudTextOffset, float64(py)+hudTextOffset)
	op.ColorScale.ScaleAlpha(float32(hudCoordsAlpha * h.alpha))
	text.Draw(screen, h.Label(), h.face, op)
}
