package engine

import (
	"github.com/emberengine/ember/engine/assets"
	"github.com/emberengine/ember/engine/core"
)

type ApplicationConfig struct {
	Name        string
	TargetFPS   uint32
	AssetsDir   string
	WatchAssets bool
	LogLevel    core.LogLevel
}

// Game is the application hooked into the engine loop. The loader is set by
// engine.New so the game can request batches without reaching for globals.
type Game struct {
	ApplicationConfig *ApplicationConfig
	Loader            *assets.AssetLoader
	State             interface{}
	FnInitialize      Initialize
	FnUpdate          Update
	FnShutdown        Shutdown
}

type Initialize func() error
type Update func(deltaTime float64) error
type Shutdown func() error
