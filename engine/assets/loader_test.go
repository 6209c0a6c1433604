package assets

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emberengine/ember/engine/assets/fetch"
)

// updateUntilSettled runs Update until no operations remain in flight.
func updateUntilSettled(t *testing.T, al *AssetLoader) {
	t.Helper()
	for i := 0; i < 100; i++ {
		al.Update()
		if al.InFlight() == 0 {
			return
		}
	}
	t.Fatal("loads did not settle after 100 updates")
}

func parseString(_ string, data []byte) (string, error) {
	return string(data), nil
}

func TestLoaderLoadAndParse(t *testing.T) {
	mf := fetch.NewMemoryFetcher()
	mf.Add("data/level.dat", []byte("level-1"))
	al := NewAssetLoader(mf)

	h := al.Load("data/level.dat")
	require.True(t, al.IsLoading(h))
	require.False(t, al.IsLoaded(h))

	updateUntilSettled(t, al)
	require.True(t, al.IsLoaded(h))

	value, ok, err := ParseAsset(al, h, parseString, false)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "level-1", value)
}

func TestLoaderParseWhileLoading(t *testing.T) {
	mf := fetch.NewMemoryFetcher()
	mf.Add("a.dat", []byte("a"))
	mf.SetLatency(3)
	al := NewAssetLoader(mf)

	h := al.Load("a.dat")
	al.Update()
	require.True(t, al.IsLoading(h))

	// Not ready yet: no value, no error.
	value, ok, err := ParseAsset(al, h, parseString, false)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, value)

	// The slot must survive a premature parse attempt.
	updateUntilSettled(t, al)
	_, ok, err = ParseAsset(al, h, parseString, false)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestLoaderParseAtMostOnce(t *testing.T) {
	mf := fetch.NewMemoryFetcher()
	mf.Add("a.dat", []byte("a"))
	al := NewAssetLoader(mf)

	h := al.Load("a.dat")
	updateUntilSettled(t, al)

	calls := 0
	counting := func(source string, data []byte) (string, error) {
		calls++
		return string(data), nil
	}

	_, ok, err := ParseAsset(al, h, counting, false)
	require.NoError(t, err)
	require.True(t, ok)

	// Consumed: the handle is unknown now and the parser must not rerun.
	_, ok, err = ParseAsset(al, h, counting, false)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, 1, calls)
}

func TestLoaderParseKeepRetainsSlot(t *testing.T) {
	mf := fetch.NewMemoryFetcher()
	mf.Add("a.dat", []byte("a"))
	al := NewAssetLoader(mf)

	h := al.Load("a.dat")
	updateUntilSettled(t, al)

	_, ok, err := ParseAsset(al, h, parseString, true)
	require.NoError(t, err)
	require.True(t, ok)

	// keep=true leaves the record in place for a second consumer.
	value, ok, err := ParseAsset(al, h, parseString, false)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "a", value)
}

func TestLoaderFailedLoadSurfacesOnce(t *testing.T) {
	mf := fetch.NewMemoryFetcher()
	mf.AddFailure("missing.png", "not found")
	al := NewAssetLoader(mf)

	h := al.Load("missing.png")
	updateUntilSettled(t, al)
	require.False(t, al.IsLoaded(h))
	require.False(t, al.IsLoading(h))

	_, ok, err := ParseAsset(al, h, parseString, false)
	require.Error(t, err)
	assert.False(t, ok)
	assert.Contains(t, err.Error(), "missing.png")
	assert.Contains(t, err.Error(), "not found")

	// The failed slot was released; the error does not repeat.
	_, ok, err = ParseAsset(al, h, parseString, false)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestLoaderParserErrorWrapsSource(t *testing.T) {
	mf := fetch.NewMemoryFetcher()
	mf.Add("bad.dat", []byte("bad"))
	al := NewAssetLoader(mf)

	h := al.Load("bad.dat")
	updateUntilSettled(t, al)

	failing := func(source string, data []byte) (string, error) {
		return "", assert.AnError
	}
	_, ok, err := ParseAsset(al, h, failing, false)
	require.Error(t, err)
	assert.False(t, ok)
	assert.True(t, strings.Contains(err.Error(), "bad.dat"))
}

func TestLoaderDuplicateLoadsAreIndependent(t *testing.T) {
	mf := fetch.NewMemoryFetcher()
	mf.Add("a.dat", []byte("a"))
	al := NewAssetLoader(mf)

	h1 := al.Load("a.dat")
	h2 := al.Load("a.dat")
	require.NotEqual(t, h1, h2)

	updateUntilSettled(t, al)

	_, ok, err := ParseAsset(al, h1, parseString, false)
	require.NoError(t, err)
	require.True(t, ok)

	// Consuming one load does not touch the other.
	_, ok, err = ParseAsset(al, h2, parseString, false)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestLoaderReleaseMidFlight(t *testing.T) {
	mf := fetch.NewMemoryFetcher()
	mf.Add("a.dat", []byte("a"))
	mf.SetLatency(2)
	al := NewAssetLoader(mf)

	h := al.Load("a.dat")
	al.registry.Remove(h)

	// The orphaned operation still resolves and gets swept without promoting
	// into a freed slot.
	updateUntilSettled(t, al)
	assert.Nil(t, al.registry.Get(h))
	assert.Equal(t, 0, al.InFlight())
}

func TestLoaderClear(t *testing.T) {
	mf := fetch.NewMemoryFetcher()
	mf.Add("a.dat", []byte("a"))
	mf.SetLatency(5)
	al := NewAssetLoader(mf)

	h := al.Load("a.dat")
	al.Clear()

	assert.Equal(t, 0, al.InFlight())
	assert.False(t, al.IsLoading(h))
	assert.False(t, al.IsLoaded(h))
}
