package frame

import (
	"fmt"
	"image"
	"image/color"
	"math"
)

// FromImage converts a Go image into a float image with the requested number
// of channels: 1 (luma), 3 (RGB) or 4 (non-premultiplied RGBA).
func FromImage(src image.Image, channels int) (*Image, error) {
	if channels != 1 && channels != 3 && channels != 4 {
		return nil, fmt.Errorf("unsupported channel count %d (expected 1, 3 or 4)", channels)
	}

	b := src.Bounds()
	img := New(b.Dy(), b.Dx(), channels)
	for y := 0; y < img.Height; y++ {
		for x := 0; x < img.Width; x++ {
			c := color.NRGBA64Model.Convert(src.At(b.Min.X+x, b.Min.Y+y)).(color.NRGBA64)
			o := img.Offset(y, x)
			switch channels {
			case 1:
				g := color.Gray16Model.Convert(c).(color.Gray16)
				img.Pix[o] = float64(g.Y) / 0xffff
			default:
				img.Pix[o] = float64(c.R) / 0xffff
				img.Pix[o+1] = float64(c.G) / 0xffff
				img.Pix[o+2] = float64(c.B) / 0xffff
				if channels == 4 {
					img.Pix[o+3] = float64(c.A) / 0xffff
				}
			}
		}
	}
	return img, nil
}

// ToRGBA writes img into dst, which must have the same dimensions.
// Single-channel images are rendered as gray and missing alpha is opaque.
func ToRGBA(dst *image.RGBA, img *Image) error {
	b := dst.Bounds()
	if b.Dx() != img.Width || b.Dy() != img.Height {
		return fmt.Errorf("destination is %dx%d, image is %dx%d", b.Dx(), b.Dy(), img.Width, img.Height)
	}
	if img.Channels < 1 {
		return fmt.Errorf("image has no channels")
	}

	for y := 0; y < img.Height; y++ {
		for x := 0; x < img.Width; x++ {
			o := img.Offset(y, x)
			var c color.NRGBA
			switch img.Channels {
			case 1, 2:
				v := to8(img.Pix[o])
				c = color.NRGBA{R: v, G: v, B: v, A: 0xff}
			default:
				c = color.NRGBA{R: to8(img.Pix[o]), G: to8(img.Pix[o+1]), B: to8(img.Pix[o+2]), A: 0xff}
				if img.Channels >= 4 {
					c.A = to8(img.Pix[o+3])
				}
			}
			dst.Set(b.Min.X+x, b.Min.Y+y, c)
		}
	}
	return nil
}

func to8(v float64) uint8 {
	return uint8(math.Round(clamp01(v) * 0xff))
}

func to16(v float64) uint16 {
	return uint16(math.Round(clamp01(v) * 0xffff))
}

func clamp01(v float64) float64 {
	if v < 0 || math.IsNaN(v) {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
