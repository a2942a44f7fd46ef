package scenes

import (
	"image/color"
	"math"
	"strings"

	"github.com/decker502/vantage/pkg/utils"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

const (
	indicatorRadius   = 5.0
	indicatorSpacing  = 26.0
	indicatorMarginX  = 36.0
	indicatorHitSlack = 8.0
)

var (
	indicatorIdle   = color.RGBA{R: 255, G: 255, B: 255, A: 80}
	indicatorActive = color.RGBA{R: 255, G: 255, B: 255, A: 230}
	headerColor     = color.RGBA{R: 255, G: 255, B: 255, A: 160}
)

// SectionIndicator 右侧的分区指示点与顶部标签
// 点击指示点直接选择对应分区
type SectionIndicator struct {
	ids    []string
	width  float64
	height float64
	face   text.Face
}

// NewSectionIndicator 创建分区指示器
// ids 为每个分区的标识（大写后显示在顶部）
func NewSectionIndicator(ids []string, width, height int) *SectionIndicator {
	return &SectionIndicator{
		ids:    ids,
		width:  float64(width),
		height: float64(height),
		face:   utils.DefaultFace(),
	}
}

// Resize 更新屏幕尺寸
func (si *SectionIndicator) Resize(width, height int) {
	si.width = float64(width)
	si.height = float64(height)
}

// DotCenter 第 i 个指示点的中心
func (si *SectionIndicator) DotCenter(i int) (float64, float64) {
	n := float64(len(si.ids))
	top := si.height/2 - (n-1)*indicatorSpacing/2
	return si.width - indicatorMarginX, top + float64(i)*indicatorSpacing
}

// HitTest 返回 (x, y) 处的指示点索引
func (si *SectionIndicator) HitTest(x, y int) (int, bool) {
	for i := range si.ids {
		cx, cy := si.DotCenter(i)
		if math.Hypot(float64(x)-cx, float64(y)-cy) <= indicatorRadius+indicatorHitSlack {
			return i, true
		}
	}
	return 0, false
}

// Draw 绘制指示点与顶部标签
// active 为当前显示的分区，muted 决定声音提示文字
func (si *SectionIndicator) Draw(screen *ebiten.Image, active int, muted bool) {
	for i := range si.ids {
		cx, cy := si.DotCenter(i)
		c := indicatorIdle
		r := float32(indicatorRadius)
		if i == active {
			c = indicatorActive
			r += 1.5
		}
		vector.DrawFilledCircle(screen, float32(cx), float32(cy), r, c, true)
	}

	header := "VANTAGE"
	if active >= 0 && active < len(si.ids) {
		header += " / " + strings.ToUpper(si.ids[active])
	}
	si.drawText(screen, header, indicatorMarginX, 28)

	sound := "[M] SOUND ON"
	if muted {
		sound = "[M] SOUND OFF"
	}
	w := utils.MeasureTextWidth(sound, si.face)
	si.drawText(screen, sound, si.width-indicatorMarginX-w, si.height-40)
}

func (si *SectionIndicator) drawText(screen *ebiten.Image, s string, x, y float64) {
	op := &text.DrawOptions{}
	op.GeoM.Translate(x, y)
	op.ColorScale.ScaleWithColor(headerColor)
	text.Draw(screen, s, si.face, op)
}
