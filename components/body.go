package components

import "math"

// BodyKind is either Static (immovable) or Dynamic.
type BodyKind uint8

const (
	Static BodyKind = iota
	Dynamic
)

func (k BodyKind) String() string {
	if k == Static {
		return "static"
	}
	return "dynamic"
}

// Body holds the physical description of an entity.
type Body struct {
	Kind     BodyKind
	Name     string
	Fixtures []Fixture
	// NoCollide excludes the body from contact generation while set.
	NoCollide bool
}

// Mass is +Inf for static bodies and a constant 1 for dynamic ones.
// Fixture density is carried for tuning but does not feed mass.
func (b *Body) Mass() float64 {
	if b.Kind == Static {
		return math.Inf(1)
	}
	return 1
}

// InvMass returns 0 for static bodies and 1 for dynamic bodies.
func (b *Body) InvMass() float64 {
	if b.Kind == Static {
		return 0
	}
	return 1
}
