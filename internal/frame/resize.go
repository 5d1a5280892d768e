package frame

import (
	"image"
	"image/color"

	"golang.org/x/image/draw"
)

// Normalize makes img match the spatial size of ref. When the height or width
// differ, img is resampled to ref's size with bilinear interpolation; otherwise
// img is returned unchanged. A resized image has its samples clamped to [0,1]
// and quantized to 16 bits (see Resize); a passed-through image keeps them as
// they are. Channel counts are not inspected.
func Normalize(ref, img *Image) *Image {
	if SameSize(ref, img) {
		return img
	}
	return Resize(img, ref.Height, ref.Width)
}

// Resize returns a bilinear resample of img at the given size. Each channel is
// scaled as an independent 16-bit plane, so samples are clamped to [0,1].
func Resize(img *Image, height, width int) *Image {
	out := New(height, width, img.Channels)
	if height == 0 || width == 0 || img.Height == 0 || img.Width == 0 {
		return out
	}

	srcPlane := image.NewGray16(image.Rect(0, 0, img.Width, img.Height))
	dstPlane := image.NewGray16(image.Rect(0, 0, width, height))
	for c := 0; c < img.Channels; c++ {
		for y := 0; y < img.Height; y++ {
			for x := 0; x < img.Width; x++ {
				srcPlane.SetGray16(x, y, color.Gray16{Y: to16(img.At(y, x, c))})
			}
		}

		draw.BiLinear.Scale(dstPlane, dstPlane.Bounds(), srcPlane, srcPlane.Bounds(), draw.Src, nil)

		for y := 0; y < height; y++ {
			for x := 0; x < width; x++ {
				out.Set(y, x, c, float64(dstPlane.Gray16At(x, y).Y)/0xffff)
			}
		}
	}
	return out
}
