package scenes

import (
	"image/color"

	"github.com/decker502/vantage/pkg/config"
	"github.com/decker502/vantage/pkg/utils"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// 文字缩放与行距
const (
	labelScale     = 1.0
	titleScale     = 4.0
	paragraphScale = 1.5
	checkerScale   = 1.0
	lineSpacing    = 1.45
	blockGap       = 22.0
)

var (
	labelColor     = color.RGBA{R: 255, G: 255, B: 255, A: 140}
	titleColor     = color.RGBA{R: 255, G: 255, B: 255, A: 240}
	paragraphColor = color.RGBA{R: 255, G: 255, B: 255, A: 224}
	checkerColor   = color.RGBA{R: 255, G: 255, B: 255, A: 110}
)

// textLine 排版后的一行文字
type textLine struct {
	text  string
	y     float64 // 在内容中的纵向位置（行顶部）
	scale float64
	color color.RGBA
	rule  bool // 检查条的分隔线
}

// sectionLayout 一个分区排版后的结果
type sectionLayout struct {
	lines          []textLine
	align          string
	contentHeight  float64
	sentinelOffset float64
}

// SectionContentRenderer 分区内容渲染器
//
// 把配置中的标签、标题、段落、检查条排版为文字行，
// 排版结果按分区缓存，窗口尺寸变化时重新排版。
type SectionContentRenderer struct {
	sections []config.SectionConfig
	face     text.Face
	width    float64
	height   float64
	layouts  []sectionLayout
}

// NewSectionContentRenderer 创建内容渲染器
func NewSectionContentRenderer(sections []config.SectionConfig, width, height int) *SectionContentRenderer {
	r := &SectionContentRenderer{
		sections: sections,
		face:     utils.DefaultFace(),
	}
	r.Resize(width, height)
	return r
}

// Resize 按新的屏幕尺寸重新排版
func (r *SectionContentRenderer) Resize(width, height int) {
	if float64(width) == r.width && float64(height) == r.height && r.layouts != nil {
		return
	}
	r.width = float64(width)
	r.height = float64(height)
	r.layouts = make([]sectionLayout, len(r.sections))
	for i, s := range r.sections {
		r.layouts[i] = r.layout(s)
	}
}

// ContentHeight 分区内容总高度（含上下留白）
func (r *SectionContentRenderer) ContentHeight(section int) float64 {
	if l := r.layoutFor(section); l != nil {
		return l.contentHeight
	}
	return 0
}

// SentinelOffset 哨兵在分区内容中的纵向位置
func (r *SectionContentRenderer) SentinelOffset(section int) float64 {
	if l := r.layoutFor(section); l != nil {
		return l.sentinelOffset
	}
	return 0
}

// DrawSection 绘制分区内容
// opacity 作用于整页，scrollTop 为当前滚动偏移
func (r *SectionContentRenderer) DrawSection(screen *ebiten.Image, section int, scrollTop, opacity float64) {
	l := r.layoutFor(section)
	if l == nil || opacity <= 0 {
		return
	}

	left, right := r.columnBounds()
	for _, line := range l.lines {
		y := line.y - scrollTop
		lineHeight := r.lineHeight(line.scale)
		if y+lineHeight < 0 || y > r.height {
			continue
		}

		if line.rule {
			c := line.color
			c.A = uint8(float64(c.A) * opacity)
			vector.StrokeLine(screen, float32(left), float32(y), float32(right), float32(y), 1, c, true)
			continue
		}

		w := utils.MeasureTextWidth(line.text, r.face) * line.scale
		x := left
		switch l.align {
		case "right":
			x = right - w
		case "center":
			x = (left+right)/2 - w/2
		}

		op := &text.DrawOptions{}
		op.GeoM.Scale(line.scale, line.scale)
		op.GeoM.Translate(x, y)
		op.ColorScale.ScaleWithColor(line.color)
		op.ColorScale.ScaleAlpha(float32(opacity))
		text.Draw(screen, line.text, r.face, op)
	}
}

func (r *SectionContentRenderer) layoutFor(section int) *sectionLayout {
	if section < 0 || section >= len(r.layouts) {
		return nil
	}
	return &r.layouts[section]
}

// columnBounds 内容列的左右边界
func (r *SectionContentRenderer) columnBounds() (float64, float64) {
	pad := r.width * config.ContentPaddingXRatio
	return pad, r.width - pad
}

func (r *SectionContentRenderer) lineHeight(scale float64) float64 {
	_, h := text.Measure("M", r.face, 0)
	return h * scale
}

// layout 排版一个分区
func (r *SectionContentRenderer) layout(s config.SectionConfig) sectionLayout {
	left, right := r.columnBounds()
	colWidth := right - left

	l := sectionLayout{align: s.Align}
	y := config.ContentPaddingY

	add := func(str string, scale float64, c color.RGBA) {
		for _, part := range utils.WrapText(str, r.face, scale, colWidth) {
			l.lines = append(l.lines, textLine{text: part, y: y, scale: scale, color: c})
			y += r.lineHeight(scale) * lineSpacing
		}
	}

	if s.Label != "" {
		add(s.Label, labelScale, labelColor)
		y += blockGap * 0.5
	}
	if s.Title != "" {
		add(s.Title, titleScale, titleColor)
		y += blockGap
	}
	for i, p := range s.Paragraphs {
		add(p, paragraphScale, paragraphColor)
		y += blockGap
		// 第一段之后插入留白，制造需要滚动的长页面
		if i == 0 && s.Spacer > 0 {
			y += s.Spacer
		}
	}

	if s.Checker != "" {
		y += blockGap
		l.lines = append(l.lines, textLine{y: y, color: checkerColor, rule: true})
		y += blockGap * 0.5
		add(s.Checker, checkerScale, checkerColor)
	}

	// 哨兵紧跟检查条，之后是底部留白
	y += blockGap
	l.sentinelOffset = y
	l.contentHeight = y + sentinelHeight + config.ContentPaddingY
	return l
}
