package game

import (
	"github.com/hajimehoshi/ebiten/v2"
)

// Scene represents a screen of the experience.
// Each scene has its own update and rendering logic.
type Scene interface {
	// Update updates the scene logic based on the elapsed time.
	// deltaTime is the wall-clock time elapsed since the last update in seconds.
	Update(deltaTime float64)

	// Draw renders the scene to the provided screen.
	Draw(screen *ebiten.Image)
}

// Lifecycle 是一个可选接口，场景在成为/不再是当前场景时收到通知
//
// 场景在 OnEnter 中订阅宿主资源（滚动容器、哨兵、指针），
// 在 OnExit 中保证全部释放。
type Lifecycle interface {
	OnEnter()
	OnExit()
}
