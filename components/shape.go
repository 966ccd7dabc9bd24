package components

import (
	"fmt"

	"github.com/pthm-cable/rink/geom"
)

// ShapeKind distinguishes the collision primitives.
type ShapeKind uint8

const (
	ShapeCircle ShapeKind = iota
	ShapeSegment
)

func (k ShapeKind) String() string {
	switch k {
	case ShapeCircle:
		return "circle"
	case ShapeSegment:
		return "segment"
	}
	return "unknown"
}

// Shape is an immutable collision primitive in body-local coordinates.
// Circles are centred on the body origin; segments are given by their two
// endpoints relative to it.
type Shape struct {
	kind   ShapeKind
	radius float64
	a, b   geom.Point
}

// Circle returns a circle shape with the given radius.
func Circle(radius float64) Shape {
	return Shape{kind: ShapeCircle, radius: radius}
}

// Segment returns a line segment shape between two local points.
func Segment(a, b geom.Point) Shape {
	return Shape{kind: ShapeSegment, a: a, b: b}
}

// Kind reports which primitive the shape is.
func (s Shape) Kind() ShapeKind { return s.kind }

// Radius is the circle radius; zero for segments.
func (s Shape) Radius() float64 { return s.radius }

// Endpoints returns the local segment endpoints; both are the origin for circles.
func (s Shape) Endpoints() (geom.Point, geom.Point) { return s.a, s.b }

func (s Shape) String() string {
	if s.kind == ShapeCircle {
		return fmt.Sprintf("circle(r=%.2f)", s.radius)
	}
	return fmt.Sprintf("segment(%.2f,%.2f -> %.2f,%.2f)", s.a.X, s.a.Y, s.b.X, s.b.Y)
}

// Fixture attaches a shape and material to a body.
type Fixture struct {
	Shape       Shape
	Density     float64
	Friction    float64 // [0,1]
	Restitution float64 // [0,1]
}

// Fixture defaults used when a material value is not given.
const (
	DefaultDensity     = 1.0
	DefaultFriction    = 0.3
	DefaultRestitution = 0.2
)

// NewFixture builds a fixture, clamping friction and restitution to [0,1].
func NewFixture(shape Shape, density, friction, restitution float64) Fixture {
	return Fixture{
		Shape:       shape,
		Density:     density,
		Friction:    geom.Clamp(friction, 0, 1),
		Restitution: geom.Clamp(restitution, 0, 1),
	}
}

// DefaultFixture builds a fixture with the default material.
func DefaultFixture(shape Shape) Fixture {
	return NewFixture(shape, DefaultDensity, DefaultFriction, DefaultRestitution)
}
