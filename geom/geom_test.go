package geom

import (
	"math"
	"testing"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   Vec
		want Vec
	}{
		{"zero stays zero", V(0, 0), V(0, 0)},
		{"axis", V(3, 0), V(1, 0)},
		{"diagonal", V(3, 4), V(0.6, 0.8)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Normalize(tt.in)
			if math.Abs(got.X-tt.want.X) > 1e-9 || math.Abs(got.Y-tt.want.Y) > 1e-9 {
				t.Errorf("Normalize(%v) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestClampLength(t *testing.T) {
	v := ClampLength(V(30, 40), 10)
	if math.Abs(Length(v)-10) > 1e-9 {
		t.Errorf("clamped length = %v, want 10", Length(v))
	}
	if math.Abs(v.X-6) > 1e-9 || math.Abs(v.Y-8) > 1e-9 {
		t.Errorf("clamped direction changed: %v", v)
	}

	short := V(1, 1)
	if got := ClampLength(short, 10); got != short {
		t.Errorf("short vector modified: %v", got)
	}
}

func TestPointArithmetic(t *testing.T) {
	p := Pt(1, 2)
	q := Pt(4, 6)

	if d := p.DistanceTo(q); math.Abs(d-5) > 1e-9 {
		t.Errorf("DistanceTo = %v, want 5", d)
	}
	if v := q.Sub(p); v != V(3, 4) {
		t.Errorf("Sub = %v, want (3,4)", v)
	}
	if r := p.Add(V(3, 4)); r != q {
		t.Errorf("Add = %v, want %v", r, q)
	}
}

func TestClosestOnSegment(t *testing.T) {
	a, b := Pt(0, 0), Pt(10, 0)
	tests := []struct {
		name string
		p    Point
		want Point
	}{
		{"interior", Pt(5, 3), Pt(5, 0)},
		{"before a", Pt(-4, 2), Pt(0, 0)},
		{"past b", Pt(14, -1), Pt(10, 0)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ClosestOnSegment(tt.p, a, b); got != tt.want {
				t.Errorf("ClosestOnSegment(%v) = %v, want %v", tt.p, got, tt.want)
			}
		})
	}

	if got := ClosestOnSegment(Pt(3, 3), a, a); got != a {
		t.Errorf("degenerate segment = %v, want %v", got, a)
	}
}
