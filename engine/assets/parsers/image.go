package parsers

import (
	"bytes"
	"fmt"
	"image"
	"image/draw"

	// Codecs register themselves with image.Decode.
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/emberengine/ember/engine/core"
)

// Image is a decoded bitmap in tightly packed RGBA order, ready for upload
// to whatever consumes pixels.
type Image struct {
	Width    uint32
	Height   uint32
	Channels uint8
	Pixels   []uint8
}

// ImageParser decodes png, jpeg, bmp, tiff and webp sources into RGBA
// pixels. FlipY flips the rows for consumers with a bottom-left origin.
type ImageParser struct {
	FlipY bool
}

func (ip *ImageParser) Parse(source string, data []byte) (*Image, error) {
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image '%s': %w", source, err)
	}

	bounds := img.Bounds()
	rgba := image.NewRGBA(bounds)
	draw.Draw(rgba, bounds, img, bounds.Min, draw.Src)

	width := bounds.Dx()
	height := bounds.Dy()
	pixels := make([]uint8, 0, width*height*4)
	for row := 0; row < height; row++ {
		y := row
		if ip.FlipY {
			y = height - 1 - row
		}
		start := rgba.PixOffset(bounds.Min.X, bounds.Min.Y+y)
		pixels = append(pixels, rgba.Pix[start:start+width*4]...)
	}

	core.LogDebug("decoded %s image '%s' (%dx%d)", format, source, width, height)

	return &Image{
		Width:    uint32(width),
		Height:   uint32(height),
		Channels: 4,
		Pixels:   pixels,
	}, nil
}
