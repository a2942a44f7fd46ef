package scenes

import (
	"github.com/decker502/vantage/pkg/game"
)

// Scene is a type alias for game.Scene.
type Scene = game.Scene

var (
	_ Scene          = (*ExperienceScene)(nil)
	_ game.Lifecycle = (*ExperienceScene)(nil)
)
