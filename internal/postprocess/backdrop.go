package postprocess

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	_ "image/jpeg"
	_ "image/png"
	"os"

	_ "github.com/ftrvxmtrx/tga"
	"golang.org/x/image/draw"
)

// BackdropColor is the viewer's default studio grey (#f5f6f8).
var BackdropColor = color.NRGBA{0xf5, 0xf6, 0xf8, 0xff}

// LoadBackdrop decodes a PNG, JPEG or TGA background image.
func LoadBackdrop(path string) (image.Image, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("backdrop: read %s: %w", path, err)
	}
	img, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("backdrop: decode %s: %w", path, err)
	}
	return img, nil
}

// Composite places fg over a backdrop and returns an opaque image. A nil
// backdrop uses the solid bg color; an image backdrop is stretched to fit.
func Composite(fg *image.NRGBA, backdrop image.Image, bg color.NRGBA) *image.NRGBA {
	b := fg.Bounds()
	dst := image.NewNRGBA(b)
	if backdrop != nil {
		draw.ApproxBiLinear.Scale(dst, b, backdrop, backdrop.Bounds(), draw.Src, nil)
	} else {
		draw.Draw(dst, b, &image.Uniform{C: bg}, image.Point{}, draw.Src)
	}
	draw.Draw(dst, b, fg, b.Min, draw.Over)

	// Force opaque: encoders then skip the alpha channel
	for i := 3; i < len(dst.Pix); i += 4 {
		dst.Pix[i] = 0xff
	}
	return dst
}
