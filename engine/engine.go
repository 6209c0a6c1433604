package engine

import (
	"fmt"
	"time"

	"github.com/emberengine/ember/engine/assets"
	"github.com/emberengine/ember/engine/assets/fetch"
	"github.com/emberengine/ember/engine/core"
)

type Stage uint8

const (
	// Engine is in an uninitialized state
	EngineStageUninitialized Stage = iota
	// Engine is currently booting up
	EngineStageBooting
	// Engine completed boot process and is ready to be initialized
	EngineStageBootComplete
	// Engine is currently initializing
	EngineStageInitializing
	// Engine initialization is complete
	EngineStageInitialized
	// Engine is currently running
	EngineStageRunning
	// Engine is in the process of shutting down
	EngineStageShuttingDown
)

const defaultFetchWorkers = 4
const defaultFetchQueueSize = 64
const defaultWatchQueueSize = 256

// Engine drives the frame loop: once per frame it advances the asset
// loader, drains the hot-reload watcher, runs the game update and paces to
// the target frame rate. Rendering and windowing live behind other
// subsystems; this loop only needs a cadence.
type Engine struct {
	currentStage Stage
	gameInstance *Game
	isRunning    bool

	fetcher     *fetch.FileFetcher
	assetLoader *assets.AssetLoader
	watcher     *assets.Watcher

	clock              *core.Clock
	targetFrameSeconds float64
}

func New(g *Game) (*Engine, error) {
	cfg := g.ApplicationConfig
	if cfg == nil {
		return nil, fmt.Errorf("game has no application config")
	}
	core.LogSetLevel(cfg.LogLevel)

	fetcher, err := fetch.NewFileFetcher(cfg.AssetsDir, defaultFetchWorkers, defaultFetchQueueSize)
	if err != nil {
		core.LogError(err.Error())
		return nil, err
	}

	loader := assets.NewAssetLoader(fetcher)
	g.Loader = loader

	var watcher *assets.Watcher
	if cfg.WatchAssets {
		watcher, err = assets.NewWatcher(cfg.AssetsDir, defaultWatchQueueSize)
		if err != nil {
			core.LogError(err.Error())
			return nil, err
		}
	}

	targetFPS := cfg.TargetFPS
	if targetFPS == 0 {
		targetFPS = 60
	}

	return &Engine{
		currentStage:       EngineStageUninitialized,
		gameInstance:       g,
		isRunning:          true,
		fetcher:            fetcher,
		assetLoader:        loader,
		watcher:            watcher,
		clock:              core.NewClock(),
		targetFrameSeconds: 1.0 / float64(targetFPS),
	}, nil
}

func (e *Engine) Initialize() error {
	e.currentStage = EngineStageBooting

	if !core.EventSystemInitialize() {
		core.LogWarn("event system was already initialized")
	}
	if err := core.MetricsInitialize(); err != nil {
		return err
	}

	core.EventRegister(core.EVENT_CODE_APPLICATION_QUIT, e, e.onQuit)
	core.EventRegister(core.EVENT_CODE_ASSET_FAILED, e, e.onAssetFailed)

	e.currentStage = EngineStageInitializing
	if e.gameInstance.FnInitialize != nil {
		if err := e.gameInstance.FnInitialize(); err != nil {
			return err
		}
	}
	e.currentStage = EngineStageInitialized

	return nil
}

// Run blocks until Shutdown is called or an application quit event fires.
func (e *Engine) Run() error {
	if e.currentStage == EngineStageShuttingDown {
		return core.ErrEngineShuttingDown
	}
	e.currentStage = EngineStageRunning
	e.clock.Start()

	for e.isRunning {
		frameStart := time.Now()
		e.clock.Update()
		delta := e.clock.Delta()

		// Advance pending loads before anything queries load state this frame.
		e.assetLoader.Update()

		if e.watcher != nil {
			for _, path := range e.watcher.Poll() {
				core.LogInfo("asset '%s' changed on disk", path)
				core.EventFire(core.EVENT_CODE_ASSET_CHANGED, e, core.EventContext{Source: path})
			}
		}

		if e.gameInstance.FnUpdate != nil {
			if err := e.gameInstance.FnUpdate(delta); err != nil {
				core.LogError(err.Error())
				e.isRunning = false
				break
			}
		}

		core.MetricsUpdate(time.Since(frameStart).Seconds())

		if sleep := e.targetFrameSeconds - time.Since(frameStart).Seconds(); sleep > 0 {
			time.Sleep(time.Duration(sleep * float64(time.Second)))
		}
	}

	return e.shutdownInternal()
}

// Shutdown requests the loop to stop after the current frame.
func (e *Engine) Shutdown() error {
	e.isRunning = false
	return nil
}

func (e *Engine) shutdownInternal() error {
	e.currentStage = EngineStageShuttingDown

	if e.gameInstance.FnShutdown != nil {
		if err := e.gameInstance.FnShutdown(); err != nil {
			core.LogError(err.Error())
		}
	}

	if e.watcher != nil {
		e.watcher.Close()
	}
	e.assetLoader.Clear()
	if err := e.fetcher.Shutdown(); err != nil {
		return err
	}
	return core.EventSystemShutdown()
}

func (e *Engine) onQuit(code core.SystemEventCode, sender interface{}, listener interface{}, data core.EventContext) bool {
	core.LogInfo("application quit requested")
	e.isRunning = false
	return true
}

func (e *Engine) onAssetFailed(code core.SystemEventCode, sender interface{}, listener interface{}, data core.EventContext) bool {
	core.LogWarn("asset load failed: %s", data.Message)
	// Leave the event unhandled so game listeners see it too.
	return false
}
