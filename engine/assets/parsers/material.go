package parsers

import (
	"fmt"

	"github.com/pelletier/go-toml/v2"
)

// Material is a surface description referencing textures by name:
//
//	name = "crate"
//	shader = "world"
//	diffuse_color = [1.0, 1.0, 1.0, 1.0]
//	diffuse_map = "crate_diffuse.png"
//	shininess = 32.0
type Material struct {
	Name         string     `toml:"name"`
	ShaderName   string     `toml:"shader"`
	DiffuseColor [4]float32 `toml:"diffuse_color"`
	DiffuseMap   string     `toml:"diffuse_map"`
	SpecularMap  string     `toml:"specular_map"`
	NormalMap    string     `toml:"normal_map"`
	Shininess    float32    `toml:"shininess"`
	AutoRelease  bool       `toml:"auto_release"`
}

// MaterialParser parses TOML material definitions.
type MaterialParser struct{}

func (mp *MaterialParser) Parse(source string, data []byte) (*Material, error) {
	material := &Material{
		DiffuseColor: [4]float32{1, 1, 1, 1},
	}
	if err := toml.Unmarshal(data, material); err != nil {
		return nil, fmt.Errorf("failed to parse material '%s': %w", source, err)
	}
	if err := validateMaterial(material); err != nil {
		return nil, fmt.Errorf("invalid material '%s': %w", source, err)
	}
	return material, nil
}

func validateMaterial(material *Material) error {
	if material.Name == "" {
		return fmt.Errorf("material name is required")
	}

	if material.ShaderName == "" {
		return fmt.Errorf("shader name is required")
	}

	// Diffuse color components must be normalized.
	for _, c := range material.DiffuseColor {
		if c < 0.0 || c > 1.0 {
			return fmt.Errorf("diffuse_color values must be between 0.0 and 1.0")
		}
	}

	if material.Shininess < 0 {
		return fmt.Errorf("shininess must be a non-negative value")
	}

	return nil
}
