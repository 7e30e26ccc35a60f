package postprocess

import (
	"image"

	"golang.org/x/image/draw"
)

// Downsample filters a supersampled render down to width×height. Colour
// is scaled in premultiplied space so transparent pixels around bones
// contribute no colour to the edge.
func Downsample(img *image.NRGBA, width, height int) *image.NRGBA {
	b := img.Bounds()
	if b.Dx() <= width && b.Dy() <= height {
		return img
	}

	src := premultiply(img)
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	// CatmullRom approximates Lanczos at a fraction of the cost
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)
	return unpremultiply(dst)
}

func premultiply(img *image.NRGBA) *image.RGBA {
	b := img.Bounds()
	out := image.NewRGBA(b)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		in := img.Pix[img.PixOffset(b.Min.X, y):img.PixOffset(b.Max.X, y)]
		px := out.Pix[out.PixOffset(b.Min.X, y):out.PixOffset(b.Max.X, y)]
		for i := 0; i+3 < len(in); i += 4 {
			a := float64(in[i+3]) / 255
			for c := 0; c < 3; c++ {
				px[i+c] = uint8(float64(in[i+c])*a + 0.5)
			}
			px[i+3] = in[i+3]
		}
	}
	return out
}

func unpremultiply(img *image.RGBA) *image.NRGBA {
	b := img.Bounds()
	out := image.NewNRGBA(b)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		in := img.Pix[img.PixOffset(b.Min.X, y):img.PixOffset(b.Max.X, y)]
		px := out.Pix[out.PixOffset(b.Min.X, y):out.PixOffset(b.Max.X, y)]
		for i := 0; i+3 < len(in); i += 4 {
			alpha := in[i+3]
			px[i+3] = alpha
			// Near-transparent pixels stay black; dividing would amplify noise.
			if alpha <= 1 {
				continue
			}
			inv := 255 / float64(alpha)
			for c := 0; c < 3; c++ {
				px[i+c] = clamp8(float64(in[i+c]) * inv)
			}
		}
	}
	return out
}

func clamp8(v float64) uint8 {
	switch {
	case v <= 0:
		return 0
	case v >= 255:
		return 255
	default:
		return uint8(v + 0.5)
	}
}
