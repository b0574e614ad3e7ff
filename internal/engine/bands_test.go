package engine

import "testing"

func TestPiecewiseEdges(t *testing.T) {
	bands := []Band{{-10, 0.1}, {0, 0.3}, {10, 0.7}, {10000, 1.0}}

	if got := Piecewise(-50, bands); got != 0.1 {
		t.Errorf("below first threshold: got %v, want 0.1", got)
	}
	if got := Piecewise(-10, bands); got != 0.1 {
		t.Errorf("at first threshold: got %v, want 0.1", got)
	}
	if got := Piecewise(99999, bands); got != 1.0 {
		t.Errorf("above last threshold: got %v, want 1.0", got)
	}
	if got := Piecewise(0, bands); got != 0.3 {
		t.Errorf("at inner threshold: got %v, want 0.3", got)
	}
	if got := Piecewise(0.001, bands); got != 0.7 {
		t.Errorf("just past inner threshold: got %v, want 0.7", got)
	}
}

func TestPiecewiseNonDecreasing(t *testing.T) {
	for _, bands := range [][]Band{revenueYoYBands, epsYoYBands, marginLevelBands, marginYoYBands, fcfYoYBands} {
		prev := -1.0
		for v := -100.0; v <= 100.0; v += 0.5 {
			s := Piecewise(v, bands)
			if s < prev {
				t.Fatalf("score decreased at %v: %v < %v", v, s, prev)
			}
			prev = s
		}
	}
}

func TestGradeBoundaries(t *testing.T) {
	cases := []struct {
		total float64
		want  string
	}{
		{100, "A+"},
		{97, "A+"},
		{96.9, "A"},
		{90, "A-"},
		{89.9, "B+"},
		{83, "B"},
		{77, "C+"},
		{70, "C-"},
		{63, "D"},
		{60, "D-"},
		{59.9, "F"},
		{0, "F"},
	}
	for _, tc := range cases {
		if got := Grade(tc.total); got != tc.want {
			t.Errorf("Grade(%v) = %q, want %q", tc.total, got, tc.want)
		}
	}
}
