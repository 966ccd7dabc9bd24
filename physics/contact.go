package physics

import (
	"math"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/rink/components"
	"github.com/pthm-cable/rink/geom"
)

// Contact describes one overlapping fixture pair found at the start of a step.
type Contact struct {
	A, B               ecs.Entity
	FixtureA, FixtureB int

	// Normal points from A toward B.
	Normal      geom.Vec
	Penetration float64
	Restitution float64 // max of the two fixtures
	Friction    float64 // sqrt of the product of the two fixtures

	ia, ib int // indices into World.refs
}

// findContacts tests every unordered body pair with at least one dynamic
// member, in creation order, fixture by fixture.
func (w *World) findContacts() {
	w.contacts = w.contacts[:0]
	for i := 0; i < len(w.refs); i++ {
		a := &w.refs[i]
		if a.body.NoCollide {
			continue
		}
		for j := i + 1; j < len(w.refs); j++ {
			b := &w.refs[j]
			if b.body.NoCollide {
				continue
			}
			if a.body.Kind == components.Static && b.body.Kind == components.Static {
				continue
			}
			for fa := range a.body.Fixtures {
				for fb := range b.body.Fixtures {
					fixA := &a.body.Fixtures[fa]
					fixB := &b.body.Fixtures[fb]
					normal, pen, ok := collide(a.pos.Point, fixA.Shape, b.pos.Point, fixB.Shape)
					if !ok {
						continue
					}
					w.contacts = append(w.contacts, Contact{
						A:           a.entity,
						B:           b.entity,
						FixtureA:    fa,
						FixtureB:    fb,
						Normal:      normal,
						Penetration: pen,
						Restitution: math.Max(fixA.Restitution, fixB.Restitution),
						Friction:    math.Sqrt(fixA.Friction * fixB.Friction),
						ia:          i,
						ib:          j,
					})
				}
			}
		}
	}
}

// collide tests two placed shapes. The returned normal points from the
// first shape toward the second.
func collide(pa geom.Point, sa components.Shape, pb geom.Point, sb components.Shape) (geom.Vec, float64, bool) {
	switch {
	case sa.Kind() == components.ShapeCircle && sb.Kind() == components.ShapeCircle:
		return circleCircle(pa, sa.Radius(), pb, sb.Radius())
	case sa.Kind() == components.ShapeCircle && sb.Kind() == components.ShapeSegment:
		a, b := worldSegment(pb, sb)
		return circleSegment(pa, sa.Radius(), a, b)
	case sa.Kind() == components.ShapeSegment && sb.Kind() == components.ShapeCircle:
		a, b := worldSegment(pa, sa)
		n, pen, ok := circleSegment(pb, sb.Radius(), a, b)
		return geom.Scale(-1, n), pen, ok
	}
	// Segments never collide with each other.
	return geom.Vec{}, 0, false
}

func worldSegment(origin geom.Point, s components.Shape) (geom.Point, geom.Point) {
	a, b := s.Endpoints()
	return origin.Add(geom.Vec(a)), origin.Add(geom.Vec(b))
}

func circleCircle(pa geom.Point, ra float64, pb geom.Point, rb float64) (geom.Vec, float64, bool) {
	d := pb.Sub(pa)
	distSq := geom.LengthSq(d)
	combined := ra + rb
	if distSq >= combined*combined || distSq <= minDistSq {
		return geom.Vec{}, 0, false
	}
	dist := math.Sqrt(distSq)
	return geom.Scale(1/dist, d), combined - dist, true
}

// circleSegment returns the normal from the circle toward the segment.
func circleSegment(c geom.Point, r float64, a, b geom.Point) (geom.Vec, float64, bool) {
	closest := geom.ClosestOnSegment(c, a, b)
	d := closest.Sub(c)
	distSq := geom.LengthSq(d)
	if distSq >= r*r || distSq <= minDistSq {
		return geom.Vec{}, 0, false
	}
	dist := math.Sqrt(distSq)
	return geom.Scale(1/dist, d), r - dist, true
}

func (w *World) solveVelocity(c *Contact) {
	a, b := &w.refs[c.ia], &w.refs[c.ib]
	invA, invB := a.body.InvMass(), b.body.InvMass()
	totalInv := invA + invB
	if totalInv == 0 {
		return
	}

	rv := geom.Sub(b.vel.Vec, a.vel.Vec)
	vn := geom.Dot(rv, c.Normal)
	if vn > 0 {
		return
	}

	j := -(1 + c.Restitution) * vn / totalInv
	impulse := geom.Scale(j, c.Normal)
	a.vel.Vec = geom.Sub(a.vel.Vec, geom.Scale(invA, impulse))
	b.vel.Vec = geom.Add(b.vel.Vec, geom.Scale(invB, impulse))

	// Friction opposes the tangential part of the pre-impulse relative velocity.
	tangent := geom.Sub(rv, geom.Scale(vn, c.Normal))
	if geom.LengthSq(tangent) <= minTangentSq {
		return
	}
	t := geom.Normalize(tangent)
	jt := -geom.Dot(rv, t) / totalInv
	mag := math.Min(math.Abs(jt), c.Friction*j)
	friction := geom.Scale(mag, t)
	a.vel.Vec = geom.Add(a.vel.Vec, geom.Scale(invA, friction))
	b.vel.Vec = geom.Sub(b.vel.Vec, geom.Scale(invB, friction))
}

// solvePosition re-measures the contact from current positions, applies a
// partial correction and returns Slop minus the measured penetration.
func (w *World) solvePosition(c *Contact) float64 {
	a, b := &w.refs[c.ia], &w.refs[c.ib]
	invA, invB := a.body.InvMass(), b.body.InvMass()
	totalInv := invA + invB
	if totalInv == 0 {
		return 0
	}

	sa := a.body.Fixtures[c.FixtureA].Shape
	sb := b.body.Fixtures[c.FixtureB].Shape
	if n, pen, ok := collide(a.pos.Point, sa, b.pos.Point, sb); ok {
		c.Normal = n
		c.Penetration = pen
	} else {
		c.Penetration = separation(a.pos.Point, sa, b.pos.Point, sb, c)
	}

	amount := math.Max(c.Penetration-Slop, 0) * CorrectionPercent / totalInv
	if amount > 0 {
		correction := geom.Scale(amount, c.Normal)
		if a.body.Kind == components.Dynamic {
			a.pos.Point = a.pos.Point.Add(geom.Scale(-invA, correction))
		}
		if b.body.Kind == components.Dynamic {
			b.pos.Point = b.pos.Point.Add(geom.Scale(invB, correction))
		}
	}
	return Slop - c.Penetration
}

// separation handles pairs that collide() rejects: either they no longer
// overlap (negative penetration) or their centres nearly coincide, in which
// case the previous normal and depth are kept.
func separation(pa geom.Point, sa components.Shape, pb geom.Point, sb components.Shape, c *Contact) float64 {
	var dist, reach float64
	switch {
	case sa.Kind() == components.ShapeCircle && sb.Kind() == components.ShapeCircle:
		dist = pa.DistanceTo(pb)
		reach = sa.Radius() + sb.Radius()
	case sa.Kind() == components.ShapeCircle:
		a, b := worldSegment(pb, sb)
		dist = pa.DistanceTo(geom.ClosestOnSegment(pa, a, b))
		reach = sa.Radius()
	default:
		a, b := worldSegment(pa, sa)
		dist = pb.DistanceTo(geom.ClosestOnSegment(pb, a, b))
		reach = sb.Radius()
	}
	if dist*dist <= minDistSq {
		return c.Penetration
	}
	return reach - dist
}
