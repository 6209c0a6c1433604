package assets

import (
	"fmt"

	"github.com/pelletier/go-toml/v2"
)

// Manifest is the TOML description of an asset batch:
//
//	name = "level-1"
//
//	[[asset]]
//	path = "textures/hero.png"
//
//	[[asset]]
//	path = "fonts/ubuntu.fnt"
type Manifest struct {
	Name   string          `toml:"name"`
	Assets []ManifestEntry `toml:"asset"`
}

type ManifestEntry struct {
	Path string `toml:"path"`
}

// ParseManifest decodes and validates manifest bytes.
func ParseManifest(data []byte) (*Manifest, error) {
	var m Manifest
	if err := toml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("invalid asset manifest: %w", err)
	}
	if len(m.Assets) == 0 {
		return nil, fmt.Errorf("asset manifest '%s' lists no assets", m.Name)
	}
	for i, e := range m.Assets {
		if e.Path == "" {
			return nil, fmt.Errorf("asset manifest '%s': entry %d has no path", m.Name, i)
		}
	}
	return &m, nil
}

// NewAssetBatchFromManifest builds a batch from manifest bytes. Duplicate
// paths collapse the same way they do for NewAssetBatch.
func NewAssetBatchFromManifest(loader *AssetLoader, data []byte) (*AssetBatch, error) {
	m, err := ParseManifest(data)
	if err != nil {
		return nil, err
	}
	sources := make([]string, 0, len(m.Assets))
	for _, e := range m.Assets {
		sources = append(sources, e.Path)
	}
	return NewAssetBatch(loader, sources...), nil
}
