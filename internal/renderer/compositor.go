package renderer

import (
	"fmt"

	"github.com/ivlev/wipeframes/internal/effects"
	"github.com/ivlev/wipeframes/internal/frame"
)

// Composite blends img1 and img2 into a new frame using mask as the weight of
// img2. The mask is broadcast across channels.
func Composite(img1, img2 *frame.Image, mask *effects.Mask) (*frame.Image, error) {
	dst := frame.New(img1.Height, img1.Width, img1.Channels)
	if err := CompositeInto(dst, img1, img2, mask); err != nil {
		return nil, err
	}
	return dst, nil
}

// CompositeInto writes img1*(1-mask) + img2*mask into dst.
// All three images and the mask must share height and width.
func CompositeInto(dst, img1, img2 *frame.Image, mask *effects.Mask) error {
	if dst.Shape() != img1.Shape() || img1.Shape() != img2.Shape() {
		return fmt.Errorf("shape mismatch: dst %v, img1 %v, img2 %v", dst.Shape(), img1.Shape(), img2.Shape())
	}
	if mask.Height != img1.Height || mask.Width != img1.Width {
		return fmt.Errorf("mask is %dx%d, image is %dx%d", mask.Height, mask.Width, img1.Height, img1.Width)
	}

	c := img1.Channels
	for p, m := range mask.V {
		for o := p * c; o < (p+1)*c; o++ {
			dst.Pix[o] = blend(img1.Pix[o], img2.Pix[o], m)
		}
	}
	return nil
}

// blend is the linear interpolation a*(1-t) + b*t, exact at t=0 and t=1
func blend(a, b, t float64) float64 {
	return a*(1-t) + b*t
}
