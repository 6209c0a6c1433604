package testbed

import (
	"fmt"
	"os"

	"github.com/emberengine/ember/engine"
	"github.com/emberengine/ember/engine/assets"
	"github.com/emberengine/ember/engine/assets/parsers"
	"github.com/emberengine/ember/engine/core"
)

type TestGame struct {
	*engine.Game
}

type gameState struct {
	batch *assets.AssetBatch
	scene *Scene
}

// Scene is what the demo combines the finished batch into.
type Scene struct {
	Sprite   *parsers.Image
	Material *parsers.Material
	Font     *parsers.Font
	RawBlob  []byte
}

func NewTestGame() (*TestGame, error) {
	tg := &TestGame{
		Game: &engine.Game{
			ApplicationConfig: &engine.ApplicationConfig{
				Name:        "Ember Testbed",
				TargetFPS:   60,
				AssetsDir:   "testbed/assets",
				WatchAssets: true,
				LogLevel:    core.DebugLevel,
			},
			State: &gameState{},
		},
	}

	tg.FnInitialize = tg.Initialize
	tg.FnUpdate = tg.Update
	tg.FnShutdown = tg.Shutdown

	return tg, nil
}

func (g *TestGame) Initialize() error {
	state := g.State.(*gameState)

	manifest, err := os.ReadFile("testbed/assets/manifest.toml")
	if err != nil {
		return err
	}

	batch, err := assets.NewAssetBatchFromManifest(g.Loader, manifest)
	if err != nil {
		return err
	}

	imageParser := &parsers.ImageParser{FlipY: true}
	assets.BatchWithParser(batch, "png", imageParser.Parse)
	assets.BatchWithParser(batch, "toml", (&parsers.MaterialParser{}).Parse)
	assets.BatchWithParser(batch, "fnt", (&parsers.FontParser{}).Parse)

	state.batch = batch

	core.EventRegister(core.EVENT_CODE_ASSET_CHANGED, g, g.onAssetChanged)

	return nil
}

func (g *TestGame) Update(deltaTime float64) error {
	state := g.State.(*gameState)
	if state.batch == nil || state.scene != nil {
		return nil
	}

	scene, done, err := assets.BatchParse(state.batch, buildScene)
	if err != nil {
		return err
	}
	if !done {
		core.LogDebug("loading... %.0f%%", state.batch.Progress()*100)
		return nil
	}

	state.scene = scene
	core.LogInfo("scene ready: sprite %dx%d, material '%s', font '%s', %d raw bytes",
		scene.Sprite.Width, scene.Sprite.Height,
		scene.Material.Name, scene.Font.Face, len(scene.RawBlob))

	// Demo is done once the scene is assembled.
	core.EventFire(core.EVENT_CODE_APPLICATION_QUIT, g, core.EventContext{})
	return nil
}

func (g *TestGame) Shutdown() error {
	core.EventUnregister(core.EVENT_CODE_ASSET_CHANGED, g, g.onAssetChanged)
	return nil
}

func (g *TestGame) onAssetChanged(code core.SystemEventCode, sender interface{}, listener interface{}, data core.EventContext) bool {
	core.LogInfo("hot reload available for '%s' (restart the batch to pick it up)", data.Source)
	return false
}

func buildScene(store *assets.TypedAssetStore) (*Scene, error) {
	sprite, err := assets.StoreGet[*parsers.Image](store, "textures/hero.png")
	if err != nil {
		return nil, fmt.Errorf("scene is missing its sprite: %w", err)
	}
	material, err := assets.StoreGet[*parsers.Material](store, "materials/hero.toml")
	if err != nil {
		return nil, fmt.Errorf("scene is missing its material: %w", err)
	}
	font, err := assets.StoreGet[*parsers.Font](store, "fonts/ubuntu.fnt")
	if err != nil {
		return nil, fmt.Errorf("scene is missing its font: %w", err)
	}
	blob, err := assets.StoreGet[[]byte](store, "data/level.dat")
	if err != nil {
		return nil, fmt.Errorf("scene is missing its level data: %w", err)
	}

	return &Scene{
		Sprite:   sprite,
		Material: material,
		Font:     font,
		RawBlob:  blob,
	}, nil
}
