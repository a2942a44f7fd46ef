// Package app 提供体验应用的核心包装器
//
// 该包将初始化逻辑从 main 包提取出来，使其可以被桌面端和移动端共用。
// 桌面端通过 main.go 调用 NewApp()，移动端通过 mobile/mobile.go 调用。
package app

import (
	"fmt"
	"image/color"
	"io"
	"log"
	"time"

	"github.com/decker502/vantage/pkg/config"
	"github.com/decker502/vantage/pkg/game"
	"github.com/decker502/vantage/pkg/scenes"
	"github.com/decker502/vantage/pkg/utils"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/audio"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/quasilyte/gdata/v2"
)

// AppName gdata 存储使用的应用名
const AppName = "vantage"

// DefaultExperiencePath 默认体验配置路径（嵌入资源内）
const DefaultExperiencePath = "data/experience.yaml"

// maxFrameDelta 单帧时间上限（秒），防止窗口拖动等长时间阻塞后指针/相机跳变
//
// 过渡进度使用 ProgressClock 的墙钟时间，不受此上限影响。
const maxFrameDelta = 0.25

// Config 定义应用启动配置
type Config struct {
	// Verbose 启用详细日志输出
	Verbose bool
	// ExperiencePath 体验配置文件路径，为空时使用 DefaultExperiencePath
	ExperiencePath string
	// StartSection 启动后直接切换到的分区（0 表示首个分区，不触发过渡）
	StartSection int
}

// App 是体验应用的核心包装器，实现 ebiten.Game 接口
type App struct {
	sceneManager             *game.SceneManager
	settingsManager          *game.SettingsManager
	audioManager             *game.AudioManager
	scene                    *scenes.ExperienceScene
	verbose                  bool
	lastUpdate               time.Time
	pendingWindowSizeReset   bool // 延迟设置窗口大小标志
	windowSizeResetCountdown int  // 延迟帧数
}

// NewApp 创建并初始化体验应用
//
// 调用此函数前，必须先调用 embedded.Init() 初始化嵌入资源。
func NewApp(cfg Config) (*App, error) {
	// 配置日志输出
	if !cfg.Verbose {
		log.SetOutput(io.Discard)
		log.SetFlags(0)
	}

	path := cfg.ExperiencePath
	if path == "" {
		path = DefaultExperiencePath
	}
	experience, err := config.LoadExperienceConfig(path)
	if err != nil {
		return nil, fmt.Errorf("体验配置加载失败: %w", err)
	}

	// 偏好存储：gdata 不可用时降级为内存模式
	if err := utils.EnsureStorageDir(); err != nil {
		log.Printf("[App] Warning: %v", err)
	} else if p := utils.GetStoragePath(); p != "" {
		log.Printf("[App] Storage path: %s", p)
	}
	gdataManager, err := gdata.Open(gdata.Config{AppName: AppName})
	if err != nil {
		log.Printf("[App] Warning: gdata unavailable, settings will not persist: %v", err)
		gdataManager = nil
	}
	settingsManager := game.NewSettingsManager(gdataManager)
	if err := settingsManager.Load(); err != nil {
		log.Printf("[App] Warning: failed to load settings: %v", err)
	}

	// 初始化音频上下文
	audioContext := audio.NewContext(48000)
	resourceManager := game.NewResourceManager(audioContext)
	audioManager := game.NewAudioManager(resourceManager, settingsManager, experience.Audio)
	log.Printf("[App] AudioManager initialized")

	sceneManager := game.NewSceneManager()
	scene, err := scenes.NewExperienceScene(scenes.ExperienceSceneOptions{
		Config: experience,
		Audio:  audioManager,
		Width:  config.GameWindowWidth,
		Height: config.GameWindowHeight,
	})
	if err != nil {
		return nil, fmt.Errorf("体验场景创建失败: %w", err)
	}
	sceneManager.SwitchTo(scene)

	if cfg.StartSection != 0 {
		log.Printf("[App] Start section: %d", cfg.StartSection)
		scene.Module().SelectSection(cfg.StartSection)
	}

	return &App{
		sceneManager:    sceneManager,
		settingsManager: settingsManager,
		audioManager:    audioManager,
		scene:           scene,
		verbose:         cfg.Verbose,
	}, nil
}

// Update 更新逻辑
// 每个 tick 调用一次（通常每秒 60 次）
func (a *App) Update() error {
	// 延迟设置窗口大小（退出全屏后需要等待几帧才能正确设置）
	if a.pendingWindowSizeReset {
		a.windowSizeResetCountdown--
		if a.windowSizeResetCountdown <= 0 {
			ebiten.SetWindowSize(config.GameWindowWidth, config.GameWindowHeight)
			log.Printf("[App] Delayed SetWindowSize(%d, %d)", config.GameWindowWidth, config.GameWindowHeight)
			a.pendingWindowSizeReset = false
		}
	}

	// F11 切换全屏
	if inpututil.IsKeyJustPressed(ebiten.KeyF11) {
		if ebiten.IsFullscreen() {
			ebiten.SetFullscreen(false)
			if ebiten.IsWindowMaximized() || ebiten.IsWindowMinimized() {
				ebiten.RestoreWindow()
			}
			a.pendingWindowSizeReset = true
			a.windowSizeResetCountdown = 3
			log.Printf("[App] Exit fullscreen, will reset window size in 3 frames")
		} else {
			ebiten.SetFullscreen(true)
		}
	}

	a.sceneManager.Update(a.frameDelta(time.Now()))
	return nil
}

// frameDelta 计算距上一帧的墙钟秒数，首帧按 1/TPS 处理
func (a *App) frameDelta(now time.Time) float64 {
	deltaTime := 1.0 / float64(ebiten.TPS())
	if !a.lastUpdate.IsZero() {
		deltaTime = now.Sub(a.lastUpdate).Seconds()
	}
	a.lastUpdate = now
	if deltaTime < 0 {
		deltaTime = 0
	}
	if deltaTime > maxFrameDelta {
		deltaTime = maxFrameDelta
	}
	return deltaTime
}

// Draw 绘制画面
// 每帧调用一次
func (a *App) Draw(screen *ebiten.Image) {
	a.sceneManager.Draw(screen)
}

// DrawFinalScreen 实现 FinalScreenDrawer 接口
// 用于控制全屏时的缩放和 letterbox 颜色
func (a *App) DrawFinalScreen(screen ebiten.FinalScreen, offscreen *ebiten.Image, geoM ebiten.GeoM) {
	screen.Fill(color.Black)
	op := &ebiten.DrawImageOptions{}
	op.GeoM = geoM
	op.Filter = ebiten.FilterLinear
	screen.DrawImage(offscreen, op)
}

// Layout 返回逻辑屏幕尺寸
// 此尺寸独立于实际窗口大小，Ebitengine 会自动处理缩放
func (a *App) Layout(outsideWidth, outsideHeight int) (int, int) {
	return config.GameWindowWidth, config.GameWindowHeight
}

// Close 退出当前场景、销毁协调器状态、释放音频并保存偏好
func (a *App) Close() {
	a.sceneManager.Close()
	a.scene.Dispose()
	a.audioManager.Close()
	if err := a.settingsManager.Save(); err != nil {
		log.Printf("[App] Warning: failed to save settings: %v", err)
	}
}

// GetSceneManager 返回场景管理器
func (a *App) GetSceneManager() *game.SceneManager {
	return a.sceneManager
}

// IsVerbose 返回是否启用了详细日志
func (a *App) IsVerbose() bool {
	return a.verbose
}
