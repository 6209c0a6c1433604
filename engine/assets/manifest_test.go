package assets

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emberengine/ember/engine/assets/fetch"
)

const testManifest = `
name = "level-1"

[[asset]]
path = "textures/hero.png"

[[asset]]
path = "data/level.dat"

[[asset]]
path = "textures/hero.png"
`

func TestParseManifest(t *testing.T) {
	m, err := ParseManifest([]byte(testManifest))
	require.NoError(t, err)
	assert.Equal(t, "level-1", m.Name)
	assert.Len(t, m.Assets, 3)
	assert.Equal(t, "textures/hero.png", m.Assets[0].Path)
}

func TestParseManifestRejectsGarbage(t *testing.T) {
	_, err := ParseManifest([]byte("= not toml ="))
	require.Error(t, err)
}

func TestParseManifestRejectsEmpty(t *testing.T) {
	_, err := ParseManifest([]byte(`name = "empty"`))
	require.Error(t, err)
}

func TestParseManifestRejectsMissingPath(t *testing.T) {
	_, err := ParseManifest([]byte("name = \"x\"\n\n[[asset]]\npath = \"\"\n"))
	require.Error(t, err)
}

func TestBatchFromManifestDeduplicates(t *testing.T) {
	mf := fetch.NewMemoryFetcher()
	mf.Add("textures/hero.png", []byte{1})
	mf.Add("data/level.dat", []byte{2})
	al := NewAssetLoader(mf)

	b, err := NewAssetBatchFromManifest(al, []byte(testManifest))
	require.NoError(t, err)
	assert.Equal(t, 2, b.Total())
}
