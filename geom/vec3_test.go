package geom

import (
	"math"
	"testing"
)

func TestVec3Arithmetic(t *testing.T) {
	a := V3(1, 2, 3)
	b := V3(4, -5, 6)

	if got := a.Add(b); got != V3(5, -3, 9) {
		t.Errorf("Add = %v, want (5,-3,9)", got)
	}
	if got := a.Sub(b); got != V3(-3, 7, -3) {
		t.Errorf("Sub = %v, want (-3,7,-3)", got)
	}
	if got := a.Scale(2); got != V3(2, 4, 6) {
		t.Errorf("Scale = %v, want (2,4,6)", got)
	}
	if got := a.Dot(b); got != 12 {
		t.Errorf("Dot = %v, want 12", got)
	}
}

func TestVec3Normalized(t *testing.T) {
	tests := []struct {
		name string
		in   Vec3
		want Vec3
	}{
		{"axis", V3(0, 0, 5), V3(0, 0, 1)},
		{"zero", Vec3{}, Vec3{}},
		{"degenerate", V3(0.00001, 0, 0), Vec3{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.in.Normalized()
			if got != tt.want {
				t.Errorf("Normalized(%v) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}

	n := V3(3, 4, 12).Normalized()
	if math.Abs(float64(n.Length())-1) > 1e-6 {
		t.Errorf("normalized length = %v, want 1", n.Length())
	}
}

func TestPlanarDistance(t *testing.T) {
	d := V3(3, 4, 100).PlanarDistance(V3(0, 0, -7))
	if d != 5 {
		t.Errorf("PlanarDistance = %v, want 5", d)
	}
}
