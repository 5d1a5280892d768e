package effects

import "fmt"

// Direction selects the axis and orientation a wipe sweeps along
type Direction int

const (
	LeftToRight Direction = iota
	RightToLeft
	TopToBottom
	BottomToTop
)

type axis int

const (
	horizontal axis = iota
	vertical
)

// sweep is the (axis, orientation) pair a direction resolves to
type sweep struct {
	name     string
	axis     axis
	reversed bool
}

var sweeps = [...]sweep{
	LeftToRight: {"left_to_right", horizontal, false},
	RightToLeft: {"right_to_left", horizontal, true},
	TopToBottom: {"top_to_bottom", vertical, false},
	BottomToTop: {"bottom_to_top", vertical, true},
}

// Directions lists every supported direction in declaration order
func Directions() []Direction {
	return []Direction{LeftToRight, RightToLeft, TopToBottom, BottomToTop}
}

// ParseDirection maps a direction name like "left_to_right" to its value
func ParseDirection(s string) (Direction, error) {
	for d, sw := range sweeps {
		if sw.name == s {
			return Direction(d), nil
		}
	}
	return 0, fmt.Errorf("unknown direction: %q", s)
}

func (d Direction) Valid() bool {
	return d >= 0 && int(d) < len(sweeps)
}

func (d Direction) String() string {
	if !d.Valid() {
		return fmt.Sprintf("Direction(%d)", int(d))
	}
	return sweeps[d].name
}

// Horizontal reports whether the sweep runs along the image width
func (d Direction) Horizontal() bool {
	return sweeps[d].axis == horizontal
}

// length is the size of the sweep axis for an h x w field
func (d Direction) length(h, w int) int {
	if d.Horizontal() {
		return w
	}
	return h
}

// Ramp returns n values linearly spaced over [0,1) (k/n at index k), reversed
// for right_to_left and bottom_to_top.
func Ramp(d Direction, n int) []float64 {
	r := make([]float64, n)
	for k := range r {
		pos := k
		if sweeps[d].reversed {
			pos = n - 1 - k
		}
		r[k] = float64(pos) / float64(n)
	}
	return r
}
