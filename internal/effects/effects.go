package effects

import (
	"fmt"
	"math"
)

// Effect builds the blend mask for one frame of a transition
type Effect interface {
	// Fill writes the mask for frame index of total frames into m.
	// total must be at least 2.
	Fill(m *Mask, index, total int)
	Name() string
}

// Position is the normalized progress of frame index: 0 at the first frame,
// 1 at the last.
func Position(index, total int) float64 {
	return float64(index) / float64(total-1)
}

// HardWipe reveals the second image behind a sharp edge
type HardWipe struct {
	Direction Direction
}

func (e *HardWipe) Name() string {
	return fmt.Sprintf("hard(%s)", e.Direction)
}

func (e *HardWipe) Fill(m *Mask, index, total int) {
	ramp := Ramp(e.Direction, e.Direction.length(m.Height, m.Width))
	threshold := Position(index, total)

	for k, v := range ramp {
		if v < threshold {
			ramp[k] = 1
		} else {
			ramp[k] = 0
		}
	}
	m.broadcast(e.Direction, ramp)
}

// SoftWipe reveals the second image behind a sigmoid edge. Width is the
// transition band in normalized units, in (0,1]. Like HardWipe, frame 0 sits
// near the first image and the last frame near the second; the edge is never
// clamped, so neither is reached exactly.
type SoftWipe struct {
	Direction Direction
	Width     float64
}

func (e *SoftWipe) Name() string {
	return fmt.Sprintf("soft(%s, %.2f)", e.Direction, e.Width)
}

// Fill centres the band at the frame position. The ramp is already oriented
// for reversed directions, which stands in for mirroring the centre, so the
// edge moves the same way as HardWipe's.
func (e *SoftWipe) Fill(m *Mask, index, total int) {
	ramp := Ramp(e.Direction, e.Direction.length(m.Height, m.Width))
	center := Position(index, total)
	scale := e.Width / 2

	for k, v := range ramp {
		ramp[k] = sigmoid((center - v) / scale)
	}
	m.broadcast(e.Direction, ramp)
}

func sigmoid(x float64) float64 {
	return 1 / (1 + math.Exp(-x))
}
