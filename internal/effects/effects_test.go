package effects

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

// generate allocates and fills a height x width mask
func generate(e Effect, height, width, index, total int) *Mask {
	m := NewMask(height, width)
	e.Fill(m, index, total)
	return m
}

func TestRamp(t *testing.T) {
	approx := cmpopts.EquateApprox(0, 1e-12)

	forward := []float64{0, 0.1, 0.2, 0.3, 0.4, 0.5, 0.6, 0.7, 0.8, 0.9}
	if diff := cmp.Diff(forward, Ramp(LeftToRight, 10), approx); diff != "" {
		t.Errorf("left_to_right ramp mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(forward, Ramp(TopToBottom, 10), approx); diff != "" {
		t.Errorf("top_to_bottom ramp mismatch (-want +got):\n%s", diff)
	}

	backward := []float64{0.9, 0.8, 0.7, 0.6, 0.5, 0.4, 0.3, 0.2, 0.1, 0}
	if diff := cmp.Diff(backward, Ramp(RightToLeft, 10), approx); diff != "" {
		t.Errorf("right_to_left ramp mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(backward, Ramp(BottomToTop, 10), approx); diff != "" {
		t.Errorf("bottom_to_top ramp mismatch (-want +got):\n%s", diff)
	}
}

func TestParseDirection(t *testing.T) {
	for _, d := range Directions() {
		got, err := ParseDirection(d.String())
		if err != nil {
			t.Fatalf("ParseDirection(%q) failed: %v", d, err)
		}
		if got != d {
			t.Errorf("ParseDirection(%q) = %v", d, got)
		}
	}

	if _, err := ParseDirection("diagonal"); err == nil {
		t.Error("Expected error for unknown direction")
	}
	if Direction(7).Valid() {
		t.Error("Direction(7) should be invalid")
	}
}

func TestHardWipeEndpoints(t *testing.T) {
	const h, w, n = 6, 10, 5

	for _, d := range Directions() {
		t.Run(d.String(), func(t *testing.T) {
			e := &HardWipe{Direction: d}

			first := generate(e, h, w, 0, n)
			for i, v := range first.V {
				if v != 0 {
					t.Fatalf("Frame 0: expected all-zero mask, got %f at %d", v, i)
				}
			}

			last := generate(e, h, w, n-1, n)
			for i, v := range last.V {
				if v != 1 {
					t.Fatalf("Last frame: expected all-one mask, got %f at %d", v, i)
				}
			}
		})
	}
}

func TestHardWipeSweep(t *testing.T) {
	e := &HardWipe{Direction: LeftToRight}
	m := generate(e, 2, 10, 1, 3) // threshold 0.5

	want := []float64{1, 1, 1, 1, 1, 0, 0, 0, 0, 0}
	for y := 0; y < m.Height; y++ {
		if diff := cmp.Diff(want, m.V[y*m.Width:(y+1)*m.Width]); diff != "" {
			t.Errorf("Row %d mismatch (-want +got):\n%s", y, diff)
		}
	}

	// Revealed area only grows.
	prev := 0.0
	for i := 0; i < 8; i++ {
		sum := 0.0
		for _, v := range generate(e, 2, 10, i, 8).V {
			sum += v
		}
		if sum < prev {
			t.Errorf("Frame %d reveals less than frame %d", i, i-1)
		}
		prev = sum
	}
}

func TestMirroredDirections(t *testing.T) {
	const h, w, n = 5, 7, 6

	pairs := []struct {
		a, b Direction
	}{
		{LeftToRight, RightToLeft},
		{TopToBottom, BottomToTop},
	}

	effects := func(d Direction) []Effect {
		return []Effect{&HardWipe{Direction: d}, &SoftWipe{Direction: d, Width: 0.3}}
	}

	for _, p := range pairs {
		ea, eb := effects(p.a), effects(p.b)
		for k := range ea {
			for i := 0; i < n; i++ {
				ma := generate(ea[k], h, w, i, n)
				mb := generate(eb[k], h, w, i, n)
				for y := 0; y < h; y++ {
					for x := 0; x < w; x++ {
						my, mx := y, w-1-x
						if !p.a.Horizontal() {
							my, mx = h-1-y, x
						}
						if ma.At(y, x) != mb.At(my, mx) {
							t.Fatalf("%s vs %s frame %d: (%d,%d)=%f, mirrored %f",
								ea[k].Name(), eb[k].Name(), i, y, x, ma.At(y, x), mb.At(my, mx))
						}
					}
				}
			}
		}
	}
}

func TestSoftWipeMonotonicAndBounded(t *testing.T) {
	const h, w, n = 12, 12, 7

	for _, d := range Directions() {
		t.Run(d.String(), func(t *testing.T) {
			e := &SoftWipe{Direction: d, Width: 0.2}
			for i := 0; i < n; i++ {
				m := generate(e, h, w, i, n)
				for _, v := range m.V {
					if v <= 0 || v >= 1 {
						t.Fatalf("Frame %d: value %f outside (0,1)", i, v)
					}
				}

				// Walk the sweep axis in sweep order: values never increase.
				ramp := Ramp(d, d.length(h, w))
				prev := math.Inf(1)
				for step := 0; step < len(ramp); step++ {
					k := step
					if ramp[0] > ramp[len(ramp)-1] {
						k = len(ramp) - 1 - step
					}
					var v float64
					if d.Horizontal() {
						v = m.At(h/2, k)
					} else {
						v = m.At(k, w/2)
					}
					if v > prev {
						t.Fatalf("Frame %d: mask increases along sweep at %d", i, k)
					}
					prev = v
				}
			}
		})
	}
}

func TestSoftWipeConvergesToHard(t *testing.T) {
	const h, w, n = 10, 10, 4

	for _, d := range Directions() {
		hard := &HardWipe{Direction: d}
		soft := &SoftWipe{Direction: d, Width: 0.01}
		// Frames whose threshold does not coincide with a ramp sample.
		for _, i := range []int{1, 2} {
			mh := generate(hard, h, w, i, n)
			ms := generate(soft, h, w, i, n)
			if diff := cmp.Diff(mh.V, ms.V, cmpopts.EquateApprox(0, 0.01)); diff != "" {
				t.Errorf("%s frame %d: soft does not approach hard (-hard +soft):\n%s", d, i, diff)
			}
		}
	}
}

func TestSoftWipeCenter(t *testing.T) {
	e := &SoftWipe{Direction: LeftToRight, Width: 0.5}
	m := generate(e, 1, 10, 1, 2) // center 1.0

	// Everything lies before the centre, so the second image dominates.
	for x := 0; x < 10; x++ {
		if m.At(0, x) <= 0.5 {
			t.Errorf("Column %d: expected > 0.5, got %f", x, m.At(0, x))
		}
	}
}

func TestSoftWipeStartsNearFirstImage(t *testing.T) {
	const h, w, n = 8, 8, 5

	for _, d := range Directions() {
		e := &SoftWipe{Direction: d, Width: 0.1}
		first := generate(e, h, w, 0, n)
		last := generate(e, h, w, n-1, n)

		sumFirst, sumLast := 0.0, 0.0
		for k := range first.V {
			sumFirst += first.V[k]
			sumLast += last.V[k]
		}
		// The mask weighs the second image, so the first frame is mostly image1.
		if mean := sumFirst / float64(h*w); mean > 0.1 {
			t.Errorf("%s: first frame mask mean %f, expected near 0", d, mean)
		}
		if mean := sumLast / float64(h*w); mean < 0.9 {
			t.Errorf("%s: last frame mask mean %f, expected near 1", d, mean)
		}
	}
}

func TestMaskFromBuffer(t *testing.T) {
	buf := make([]float64, 4, 64)
	m := MaskFromBuffer(buf, 4, 8)
	if len(m.V) != 32 {
		t.Fatalf("Expected 32 values, got %d", len(m.V))
	}
	if &m.V[0] != &buf[0] {
		t.Error("Expected buffer to be reused")
	}

	grown := MaskFromBuffer(nil, 3, 3)
	if len(grown.V) != 9 {
		t.Errorf("Expected 9 values, got %d", len(grown.V))
	}
}

func TestNewEffect(t *testing.T) {
	tests := []struct {
		variant string
		want    string
		wantErr bool
	}{
		{"hard", "hard(left_to_right)", false},
		{"linear", "hard(left_to_right)", false},
		{"", "hard(left_to_right)", false},
		{"soft", "soft(left_to_right, 0.20)", false},
		{"gradient", "soft(left_to_right, 0.20)", false},
		{"dissolve", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.variant, func(t *testing.T) {
			e, err := NewEffect(tt.variant, LeftToRight, 0.2)
			if tt.wantErr {
				if err == nil {
					t.Error("Expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if e.Name() != tt.want {
				t.Errorf("Expected %s, got %s", tt.want, e.Name())
			}
		})
	}
}
