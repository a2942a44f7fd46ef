package main

import (
	"flag"
	"log"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/decker502/vantage/pkg/app"
	"github.com/decker502/vantage/pkg/config"
	"github.com/decker502/vantage/pkg/embedded"
)

func main() {
	defaults, err := config.LoadEnvConfig()
	if err != nil {
		log.Fatalf("环境变量解析失败: %v", err)
	}

	verbose := flag.Bool("verbose", defaults.Verbose, "启用详细日志输出 (VANTAGE_VERBOSE)")
	experiencePath := flag.String("config", defaults.ExperiencePath, "体验配置文件路径，嵌入资源或本地文件 (VANTAGE_CONFIG)")
	section := flag.Int("section", defaults.StartSection, "启动后切换到的分区索引，支持负数回绕 (VANTAGE_SECTION)")
	fullscreen := flag.Bool("fullscreen", defaults.Fullscreen, "全屏启动 (VANTAGE_FULLSCREEN)")
	flag.Parse()

	// 初始化嵌入资源（assetsFS 和 dataFS 在 embed.go 中声明）
	embedded.Init(assetsFS, dataFS)

	gameApp, err := app.NewApp(app.Config{
		Verbose:        *verbose,
		ExperiencePath: *experiencePath,
		StartSection:   *section,
	})
	if err != nil {
		log.Fatalf("初始化失败: %v", err)
	}
	defer gameApp.Close()

	ebiten.SetWindowSize(config.GameWindowWidth, config.GameWindowHeight)
	ebiten.SetWindowTitle(config.WindowTitle)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetFullscreen(*fullscreen)

	if err := ebiten.RunGame(gameApp); err != nil {
		log.Fatal(err)
	}
}
