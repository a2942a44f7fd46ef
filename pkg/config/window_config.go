package config

// 窗口配置常量
const (
	// GameWindowWidth 逻辑屏幕宽度
	GameWindowWidth = 1280

	// GameWindowHeight 逻辑屏幕高度
	GameWindowHeight = 720

	// WindowTitle 窗口标题
	WindowTitle = "Vantage"

	// ContentPaddingY 内容区上下留白（像素）
	ContentPaddingY = 140.0

	// ContentPaddingXRatio 内容区左右留白占屏幕宽度的比例
	ContentPaddingXRatio = 0.06
)
