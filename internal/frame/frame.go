package frame

import "fmt"

// Shape describes the dimensions of an Image
type Shape struct {
	Height   int
	Width    int
	Channels int
}

func (s Shape) String() string {
	return fmt.Sprintf("%dx%dx%d", s.Height, s.Width, s.Channels)
}

// Image is a floating-point image stored row-major as (height, width, channels).
// Sample values are conventionally in [0,1]; channels are not interpreted.
type Image struct {
	Height   int
	Width    int
	Channels int
	Pix      []float64
}

// New allocates a zeroed image of the given shape
func New(height, width, channels int) *Image {
	return &Image{
		Height:   height,
		Width:    width,
		Channels: channels,
		Pix:      make([]float64, height*width*channels),
	}
}

// Filled returns an image where every sample equals v
func Filled(height, width, channels int, v float64) *Image {
	img := New(height, width, channels)
	for i := range img.Pix {
		img.Pix[i] = v
	}
	return img
}

func (img *Image) Shape() Shape {
	return Shape{Height: img.Height, Width: img.Width, Channels: img.Channels}
}

// Offset returns the index of the first channel of pixel (y, x) in Pix
func (img *Image) Offset(y, x int) int {
	return (y*img.Width + x) * img.Channels
}

func (img *Image) At(y, x, c int) float64 {
	return img.Pix[img.Offset(y, x)+c]
}

func (img *Image) Set(y, x, c int, v float64) {
	img.Pix[img.Offset(y, x)+c] = v
}

// SameSize reports whether both images have the same height and width
func SameSize(a, b *Image) bool {
	return a.Height == b.Height && a.Width == b.Width
}

// Batch is an ordered sequence of images sharing one shape.
// Index order is the temporal order of the animation.
type Batch []*Image

// Shape returns the shape of the first frame; an empty batch has a zero Shape
func (b Batch) Shape() Shape {
	if len(b) == 0 {
		return Shape{}
	}
	return b[0].Shape()
}

// Validate checks that every frame is present and shares the batch shape
func (b Batch) Validate() error {
	if len(b) == 0 {
		return fmt.Errorf("empty batch")
	}
	want := b.Shape()
	for i, img := range b {
		if img == nil {
			return fmt.Errorf("frame %d is nil", i)
		}
		if img.Shape() != want {
			return fmt.Errorf("frame %d has shape %v, expected %v", i, img.Shape(), want)
		}
	}
	return nil
}

// Bytes is the size of the sample buffers held by the batch
func (b Batch) Bytes() uint64 {
	var n uint64
	for _, img := range b {
		n += uint64(len(img.Pix)) * 8
	}
	return n
}
