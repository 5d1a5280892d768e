package effects

import "fmt"

// NewEffect creates an effect for the specified variant. width is only used
// by the soft variant.
func NewEffect(variant string, direction Direction, width float64) (Effect, error) {
	switch variant {
	case "hard", "linear", "":
		return &HardWipe{Direction: direction}, nil
	case "soft", "gradient":
		return &SoftWipe{Direction: direction, Width: width}, nil
	default:
		return nil, fmt.Errorf("unknown effect variant: %s", variant)
	}
}
