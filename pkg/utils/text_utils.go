package utils

import (
	"strings"

	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"golang.org/x/image/font/basicfont"
)

// DefaultFace 返回内置的等宽位图字体
// 不依赖任何字体文件，所有平台都可用
func DefaultFace() text.Face {
	return text.NewGoXFace(basicfont.Face7x13)
}

// WrapText 将文本按指定宽度自动换行
// 参数:
//   - textStr: 要换行的文本
//   - face: 字体
//   - scale: 绘制时的缩放倍数
//   - maxWidth: 最大宽度（像素，缩放后）
//
// 返回:
//   - []string: 换行后的文本数组（每个元素为一行）
//
// 换行规则:
//   - 在空白处断行，连续空白折叠为一个空格
//   - 单词本身超宽时按字符强制断行
func WrapText(textStr string, face text.Face, scale, maxWidth float64) []string {
	words := strings.Fields(textStr)
	if len(words) == 0 || face == nil || maxWidth <= 0 {
		return []string{textStr}
	}
	if scale <= 0 {
		scale = 1
	}

	var lines []string
	current := ""
	for _, word := range words {
		candidate := word
		if current != "" {
			candidate = current + " " + word
		}
		if MeasureTextWidth(candidate, face)*scale <= maxWidth {
			current = candidate
			continue
		}

		if current != "" {
			lines = append(lines, current)
			current = ""
		}

		// 单词本身超宽，按字符切分
		for MeasureTextWidth(word, face)*scale > maxWidth {
			cut := breakIndex(word, face, scale, maxWidth)
			lines = append(lines, word[:cut])
			word = word[cut:]
		}
		current = word
	}
	if current != "" {
		lines = append(lines, current)
	}
	return lines
}

// breakIndex 返回 word 中能放入 maxWidth 的最长前缀的字节长度（至少一个字符）
func breakIndex(word string, face text.Face, scale, maxWidth float64) int {
	cut := 0
	for i := range word {
		if i > 0 && MeasureTextWidth(word[:i], face)*scale > maxWidth {
			break
		}
		cut = i
	}
	if cut == 0 {
		for i := range word {
			if i > 0 {
				return i
			}
		}
		return len(word)
	}
	return cut
}

// MeasureTextWidth 测量文本宽度
func MeasureTextWidth(textStr string, face text.Face) float64 {
	if textStr == "" || face == nil {
		return 0
	}
	width, _ := text.Measure(textStr, face, 0)
	return width
}
