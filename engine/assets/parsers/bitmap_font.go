package parsers

import (
	"bytes"
	"fmt"

	"github.com/fzipp/bmfont"
)

// Font holds the metadata of an AngelCode bitmap font (.fnt). The page
// images themselves are separate assets, referenced by file name.
type Font struct {
	Face       string
	Size       uint32
	LineHeight int32
	Baseline   int32
	AtlasSizeX int32
	AtlasSizeY int32
	Glyphs     []FontGlyph
	Kernings   []FontKerning
	Pages      []FontPage
}

type FontGlyph struct {
	Codepoint rune
	X         uint16
	Y         uint16
	Width     uint16
	Height    uint16
	XOffset   int16
	YOffset   int16
	XAdvance  int16
	PageID    int8
}

type FontKerning struct {
	Codepoint0 rune
	Codepoint1 rune
	Amount     int16
}

type FontPage struct {
	ID   int8
	File string
}

// FontParser parses text-format .fnt descriptors.
type FontParser struct{}

func (fp *FontParser) Parse(source string, data []byte) (*Font, error) {
	desc, err := bmfont.ReadDescriptor(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to parse bitmap font '%s': %w", source, err)
	}

	font := &Font{
		Face:       desc.Info.Face,
		Size:       uint32(desc.Info.Size),
		LineHeight: int32(desc.Common.LineHeight),
		Baseline:   int32(desc.Common.Base),
		AtlasSizeX: int32(desc.Common.ScaleW),
		AtlasSizeY: int32(desc.Common.ScaleH),
		Glyphs:     make([]FontGlyph, 0, len(desc.Chars)),
		Kernings:   make([]FontKerning, 0, len(desc.Kerning)),
		Pages:      make([]FontPage, 0, len(desc.Pages)),
	}

	for _, p := range desc.Pages {
		font.Pages = append(font.Pages, FontPage{
			ID:   int8(p.ID),
			File: p.File,
		})
	}

	for _, g := range desc.Chars {
		font.Glyphs = append(font.Glyphs, FontGlyph{
			Codepoint: rune(g.ID),
			X:         uint16(g.X),
			Y:         uint16(g.Y),
			Width:     uint16(g.Width),
			Height:    uint16(g.Height),
			XOffset:   int16(g.XOffset),
			YOffset:   int16(g.YOffset),
			XAdvance:  int16(g.XAdvance),
			PageID:    int8(g.Page),
		})
	}

	for pair, k := range desc.Kerning {
		font.Kernings = append(font.Kernings, FontKerning{
			Codepoint0: rune(pair.First),
			Codepoint1: rune(pair.Second),
			Amount:     int16(k.Amount),
		})
	}

	return font, nil
}
