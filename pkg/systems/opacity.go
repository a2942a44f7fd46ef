package systems

import "github.com/decker502/vantage/pkg/utils"

// transitionDimMax 过渡遮罩的最大不透明度
const transitionDimMax = 0.12

// PageOpacity 页面内容不透明度
// 空闲时恒为 1；过渡中按 1 - sin(πt) 变化，中点处为 0
func PageOpacity(state TransitionState) float64 {
	if !state.Active {
		return 1
	}
	return utils.FadeOpacity(state.T)
}

// DimAlpha 全屏遮罩不透明度
// 过渡中随 sin(πt) 起伏；锁定但未过渡时保持最大值；其余为 0
func DimAlpha(state TransitionState, uiLocked bool) float64 {
	if state.Active {
		return transitionDimMax * utils.SineBump(state.T)
	}
	if uiLocked {
		return transitionDimMax
	}
	return 0
}
