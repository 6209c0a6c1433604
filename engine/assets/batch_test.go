package assets

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emberengine/ember/engine/assets/fetch"
)

type sprite struct {
	Width  int
	Height int
}

func parseSprite(source string, data []byte) (*sprite, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("bad sprite '%s': %w", source, err)
	}
	return &sprite{
		Width:  img.Bounds().Dx(),
		Height: img.Bounds().Dy(),
	}, nil
}

func encodePNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: 255, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

// driveBatch runs update+parse cycles until the combine fires or the
// attempt budget runs out.
func driveBatch[R any](t *testing.T, al *AssetLoader, b *AssetBatch, combine func(*TypedAssetStore) (R, error)) (R, bool, error) {
	t.Helper()
	var zero R
	for i := 0; i < 100; i++ {
		al.Update()
		result, ok, err := BatchParse(b, combine)
		if ok || err != nil {
			return result, ok, err
		}
	}
	return zero, false, nil
}

func TestBatchDeduplicatesSources(t *testing.T) {
	mf := fetch.NewMemoryFetcher()
	mf.Add("a.png", encodePNG(t, 2, 2))
	mf.Add("b.png", encodePNG(t, 2, 2))
	al := NewAssetLoader(mf)

	b := NewAssetBatch(al, "a.png", "a.png", "b.png")
	assert.Equal(t, 2, b.Total())
}

func TestBatchSceneScenario(t *testing.T) {
	mf := fetch.NewMemoryFetcher()
	mf.Add("hero.png", encodePNG(t, 8, 4))
	mf.Add("level.dat", []byte{1, 2, 3})
	al := NewAssetLoader(mf)

	b := NewAssetBatch(al, "hero.png", "level.dat")
	BatchWithParser(b, "png", parseSprite)

	assert.Equal(t, float32(0.0), b.Progress())

	combines := 0
	combine := func(store *TypedAssetStore) (*sprite, error) {
		combines++
		s, err := StoreGet[*sprite](store, "hero.png")
		if err != nil {
			return nil, err
		}
		if _, err := StoreGet[[]byte](store, "level.dat"); err != nil {
			return nil, err
		}
		return s, nil
	}

	// Memory operations resolve on the first poll here, so a single
	// update+parse cycle takes the batch from empty to complete.
	al.Update()
	result, ok, err := BatchParse(b, combine)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 8, result.Width)
	assert.Equal(t, 4, result.Height)
	assert.Equal(t, float32(1.0), b.Progress())
	assert.Equal(t, 1, combines)

	// The combine never fires a second time.
	_, ok, err = BatchParse(b, combine)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, 1, combines)
}

func TestBatchProgressMonotonic(t *testing.T) {
	mf := fetch.NewMemoryFetcher()
	mf.Add("a.dat", []byte("a"))
	mf.Add("b.dat", []byte("b"))
	mf.Add("c.dat", []byte("c"))
	mf.SetLatency(2)
	al := NewAssetLoader(mf)

	b := NewAssetBatch(al, "a.dat", "b.dat", "c.dat")

	combine := func(store *TypedAssetStore) (int, error) {
		return store.Len(), nil
	}

	last := float32(0.0)
	for i := 0; i < 100; i++ {
		al.Update()
		p := b.Progress()
		require.GreaterOrEqual(t, p, last, "progress must never decrease")
		last = p

		n, ok, err := BatchParse(b, combine)
		require.NoError(t, err)
		if ok {
			assert.Equal(t, 3, n)
			assert.Equal(t, float32(1.0), b.Progress())
			return
		}
	}
	t.Fatal("batch never completed")
}

func TestBatchFailedLoadFailsFast(t *testing.T) {
	mf := fetch.NewMemoryFetcher()
	mf.Add("ok.dat", []byte("ok"))
	mf.AddFailure("missing.png", "not found")
	al := NewAssetLoader(mf)

	b := NewAssetBatch(al, "ok.dat", "missing.png")

	combine := func(store *TypedAssetStore) (int, error) {
		return store.Len(), nil
	}

	_, ok, err := driveBatch(t, al, b, combine)
	require.Error(t, err)
	assert.False(t, ok)
	assert.Contains(t, err.Error(), "not found")

	// The batch is permanently stuck below completion.
	for i := 0; i < 10; i++ {
		al.Update()
		_, ok, err := BatchParse(b, combine)
		require.NoError(t, err)
		require.False(t, ok)
	}
	assert.False(t, b.IsLoaded())
	assert.Less(t, b.Progress(), float32(1.0))
}

func TestBatchParserErrorPropagates(t *testing.T) {
	mf := fetch.NewMemoryFetcher()
	mf.Add("bad.png", []byte("this is not a png"))
	al := NewAssetLoader(mf)

	b := NewAssetBatch(al, "bad.png")
	BatchWithParser(b, "png", parseSprite)

	combine := func(store *TypedAssetStore) (int, error) {
		return store.Len(), nil
	}

	_, ok, err := driveBatch(t, al, b, combine)
	require.Error(t, err)
	assert.False(t, ok)
	assert.Contains(t, err.Error(), "bad.png")
}

func TestBatchUnmatchedExtensionStoresRawBytes(t *testing.T) {
	mf := fetch.NewMemoryFetcher()
	mf.Add("blob.bin", []byte{9, 8, 7})
	al := NewAssetLoader(mf)

	b := NewAssetBatch(al, "blob.bin")

	combine := func(store *TypedAssetStore) ([]byte, error) {
		return StoreGet[[]byte](store, "blob.bin")
	}

	data, ok, err := driveBatch(t, al, b, combine)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []byte{9, 8, 7}, data)
}

func TestBatchEmptyCompletesImmediately(t *testing.T) {
	al := NewAssetLoader(fetch.NewMemoryFetcher())
	b := NewAssetBatch(al)

	assert.Equal(t, float32(1.0), b.Progress())

	n, ok, err := BatchParse(b, func(store *TypedAssetStore) (int, error) {
		return store.Len(), nil
	})
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 0, n)
}

func TestBatchCombineErrorPropagates(t *testing.T) {
	mf := fetch.NewMemoryFetcher()
	mf.Add("a.dat", []byte("a"))
	al := NewAssetLoader(mf)

	b := NewAssetBatch(al, "a.dat")

	_, ok, err := driveBatch(t, al, b, func(store *TypedAssetStore) (int, error) {
		return 0, assert.AnError
	})
	require.Error(t, err)
	assert.False(t, ok)
}
