// Package geom provides the 2D vector and point arithmetic used by the
// physics world and the steering code.
package geom

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// Vec is a 2D displacement or velocity.
type Vec = r2.Vec

// Point is a position in world space. Points subtract to a Vec and are
// offset by a Vec; they never add to each other.
type Point r2.Vec

// Pt is shorthand for Point{X: x, Y: y}.
func Pt(x, y float64) Point {
	return Point{X: x, Y: y}
}

// V is shorthand for Vec{X: x, Y: y}.
func V(x, y float64) Vec {
	return Vec{X: x, Y: y}
}

// Add offsets p by v.
func (p Point) Add(v Vec) Point {
	return Point(r2.Add(r2.Vec(p), v))
}

// Sub returns the vector from q to p.
func (p Point) Sub(q Point) Vec {
	return r2.Sub(r2.Vec(p), r2.Vec(q))
}

// DistanceTo returns the Euclidean distance between p and q.
func (p Point) DistanceTo(q Point) float64 {
	return r2.Norm(p.Sub(q))
}

// Length returns |v|.
func Length(v Vec) float64 {
	return r2.Norm(v)
}

// LengthSq returns |v|².
func LengthSq(v Vec) float64 {
	return r2.Norm2(v)
}

// Add returns a+b.
func Add(a, b Vec) Vec {
	return r2.Add(a, b)
}

// Sub returns a-b.
func Sub(a, b Vec) Vec {
	return r2.Sub(a, b)
}

// Dot returns the dot product of a and b.
func Dot(a, b Vec) float64 {
	return r2.Dot(a, b)
}

// Scale returns v scaled by f.
func Scale(f float64, v Vec) Vec {
	return r2.Scale(f, v)
}

// Normalize returns v scaled to unit length. The zero vector stays zero
// (r2.Unit would produce NaNs).
func Normalize(v Vec) Vec {
	l := r2.Norm(v)
	if l == 0 {
		return Vec{}
	}
	return r2.Scale(1/l, v)
}

// ClampLength returns v limited to a maximum length.
func ClampLength(v Vec, maxLen float64) Vec {
	l2 := r2.Norm2(v)
	if l2 <= maxLen*maxLen {
		return v
	}
	return r2.Scale(maxLen/math.Sqrt(l2), v)
}

// ClosestOnSegment returns the point of segment ab nearest to p.
func ClosestOnSegment(p, a, b Point) Point {
	ab := b.Sub(a)
	denom := r2.Norm2(ab)
	if denom == 0 {
		return a
	}
	t := r2.Dot(p.Sub(a), ab) / denom
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}
	return a.Add(r2.Scale(t, ab))
}

// Clamp clamps v to [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
