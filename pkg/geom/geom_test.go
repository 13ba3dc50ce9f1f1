package geom

import "testing"

func TestSnap(t *testing.T) {
	tests := []struct {
		name string
		v    float64
		grid float64
		want float64
	}{
		{"already aligned", 120, 10, 120},
		{"round down", 124, 10, 120},
		{"round up", 125, 10, 130},
		{"negative", -14, 10, -10},
		{"grid disabled", 12.5, 0, 12.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Snap(tt.v, tt.grid); got != tt.want {
				t.Errorf("Snap(%v, %v) = %v, want %v", tt.v, tt.grid, got, tt.want)
			}
		})
	}
}

func TestClamp(t *testing.T) {
	if got := Clamp(0.05, 0.1, 3); got != 0.1 {
		t.Errorf("Clamp low = %v, want 0.1", got)
	}
	if got := Clamp(4, 0.1, 3); got != 3 {
		t.Errorf("Clamp high = %v, want 3", got)
	}
	if got := Clamp(1.5, 0.1, 3); got != 1.5 {
		t.Errorf("Clamp mid = %v, want 1.5", got)
	}
}

func TestRectContains(t *testing.T) {
	r := Rect{X: 10, Y: 10, Width: 20, Height: 10}
	tests := []struct {
		p    Point
		want bool
	}{
		{Point{10, 10}, true},
		{Point{30, 20}, true},
		{Point{31, 20}, false},
		{Point{15, 9}, false},
	}
	for _, tt := range tests {
		if got := r.Contains(tt.p); got != tt.want {
			t.Errorf("Contains(%v) = %v, want %v", tt.p, got, tt.want)
		}
	}
}

func TestRectOverlaps(t *testing.T) {
	a := Rect{0, 0, 10, 10}
	if a.Overlaps(Rect{10, 0, 10, 10}) {
		t.Error("touching rects should not overlap")
	}
	if !a.Overlaps(Rect{5, 5, 10, 10}) {
		t.Error("intersecting rects should overlap")
	}
	if !(Rect{2, 2, 3, 3}).Within(a) {
		t.Error("inner rect should be within outer")
	}
}

func TestPatchApplyTo(t *testing.T) {
	r := Rect{X: 1, Y: 2, Width: 3, Height: 4}

	got := MovePatch(10, 20).ApplyTo(r)
	if got != (Rect{10, 20, 3, 4}) {
		t.Errorf("MovePatch = %+v", got)
	}

	got = ResizePatch(30, 40).ApplyTo(r)
	if got != (Rect{1, 2, 30, 40}) {
		t.Errorf("ResizePatch = %+v", got)
	}

	if !(Patch{}).Empty() {
		t.Error("zero patch should be empty")
	}
	if (Patch{Height: Float(1)}).Empty() {
		t.Error("patch with height should not be empty")
	}
}
