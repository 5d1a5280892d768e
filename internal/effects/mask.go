package effects

// Mask is a per-pixel blend weight in [0,1]: 0 shows the first image,
// 1 shows the second.
type Mask struct {
	Height int
	Width  int
	V      []float64
}

func NewMask(height, width int) *Mask {
	return &Mask{Height: height, Width: width, V: make([]float64, height*width)}
}

// MaskFromBuffer wraps buf as an h x w mask. buf is grown when it is too small.
func MaskFromBuffer(buf []float64, height, width int) *Mask {
	n := height * width
	if cap(buf) < n {
		buf = make([]float64, n)
	}
	return &Mask{Height: height, Width: width, V: buf[:n]}
}

func (m *Mask) At(y, x int) float64 {
	return m.V[y*m.Width+x]
}

// broadcast fills the mask from a 1-D profile along the sweep axis of d
func (m *Mask) broadcast(d Direction, profile []float64) {
	if d.Horizontal() {
		for y := 0; y < m.Height; y++ {
			copy(m.V[y*m.Width:(y+1)*m.Width], profile)
		}
		return
	}
	for y := 0; y < m.Height; y++ {
		row := m.V[y*m.Width : (y+1)*m.Width]
		for x := range row {
			row[x] = profile[y]
		}
	}
}
