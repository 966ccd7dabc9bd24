// Package physics implements a fixed-step 2D impulse solver over bodies
// stored in an ark ECS world.
package physics

import (
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/rink/components"
	"github.com/pthm-cable/rink/geom"
)

// Solver constants.
const (
	// Penetration allowed before position correction kicks in.
	Slop = 0.05
	// Fraction of the remaining penetration removed per correction pass.
	CorrectionPercent = 0.4

	DefaultVelocityIterations = 8
	DefaultPositionIterations = 3

	// Squared centre distance below which a pair has no usable normal.
	minDistSq = 0.001
	// Squared tangential speed below which friction is skipped.
	minTangentSq = 1e-4
)

// World owns every body in a match. Bodies are created during setup and
// never destroyed; pair iteration follows creation order.
type World struct {
	world *ecs.World

	bodyMapper *ecs.Map3[components.Position, components.Velocity, components.Body]
	dynamics   *ecs.Filter3[components.Position, components.Velocity, components.Body]

	posMap  *ecs.Map1[components.Position]
	velMap  *ecs.Map1[components.Velocity]
	bodyMap *ecs.Map1[components.Body]

	gravity geom.Vec
	order   []ecs.Entity

	// Per-step scratch
	refs     []bodyRef
	contacts []Contact
}

// bodyRef caches component pointers for the duration of one step.
type bodyRef struct {
	entity ecs.Entity
	pos    *components.Position
	vel    *components.Velocity
	body   *components.Body
}

// NewWorld creates an empty world with the given gravity.
func NewWorld(gravity geom.Vec) *World {
	world := ecs.NewWorld()
	return NewWorldOn(world, gravity)
}

// NewWorldOn creates a physics world that stores its bodies in an existing
// ECS world, so callers can attach their own components to body entities.
func NewWorldOn(world *ecs.World, gravity geom.Vec) *World {
	return &World{
		world:      world,
		bodyMapper: ecs.NewMap3[components.Position, components.Velocity, components.Body](world),
		dynamics:   ecs.NewFilter3[components.Position, components.Velocity, components.Body](world),
		posMap:     ecs.NewMap1[components.Position](world),
		velMap:     ecs.NewMap1[components.Velocity](world),
		bodyMap:    ecs.NewMap1[components.Body](world),
		gravity:    gravity,
	}
}

// ECS returns the underlying ECS world.
func (w *World) ECS() *ecs.World { return w.world }

// Gravity returns the world's constant acceleration.
func (w *World) Gravity() geom.Vec { return w.gravity }

// CreateBody adds a body at pos with the given fixtures and returns its handle.
func (w *World) CreateBody(kind components.BodyKind, pos geom.Point, name string, fixtures ...components.Fixture) ecs.Entity {
	p := components.Position{Point: pos}
	v := components.Velocity{}
	b := components.Body{
		Kind:     kind,
		Name:     name,
		Fixtures: append([]components.Fixture(nil), fixtures...),
	}
	e := w.bodyMapper.NewEntity(&p, &v, &b)
	w.order = append(w.order, e)
	return e
}

// AddFixture attaches another fixture to an existing body.
func (w *World) AddFixture(e ecs.Entity, f components.Fixture) {
	body := w.bodyMap.Get(e)
	body.Fixtures = append(body.Fixtures, f)
}

// Bodies returns all bodies in creation order. The slice must not be modified.
func (w *World) Bodies() []ecs.Entity { return w.order }

// Body returns the body component of e.
func (w *World) Body(e ecs.Entity) *components.Body { return w.bodyMap.Get(e) }

// Position returns the position of e.
func (w *World) Position(e ecs.Entity) geom.Point { return w.posMap.Get(e).Point }

// SetPosition teleports e.
func (w *World) SetPosition(e ecs.Entity, p geom.Point) { w.posMap.Get(e).Point = p }

// Velocity returns the velocity of e.
func (w *World) Velocity(e ecs.Entity) geom.Vec { return w.velMap.Get(e).Vec }

// SetVelocity sets the velocity of e. Static bodies ignore the call.
func (w *World) SetVelocity(e ecs.Entity, v geom.Vec) {
	if w.bodyMap.Get(e).Kind == components.Static {
		return
	}
	w.velMap.Get(e).Vec = v
}

// SetCollidable toggles whether e takes part in contact generation.
func (w *World) SetCollidable(e ecs.Entity, collidable bool) {
	w.bodyMap.Get(e).NoCollide = !collidable
}

// DampVelocities scales every dynamic body's velocity by factor.
func (w *World) DampVelocities(factor float64) {
	query := w.dynamics.Query()
	for query.Next() {
		_, vel, body := query.Get()
		if body.Kind != components.Dynamic {
			continue
		}
		vel.Vec = geom.Scale(factor, vel.Vec)
	}
}

// Contacts returns the contacts generated by the most recent step.
// The slice is reused on the next step.
func (w *World) Contacts() []Contact { return w.contacts }

// StepDefault advances the world with the default iteration counts.
func (w *World) StepDefault(dt float64) {
	w.Step(dt, DefaultVelocityIterations, DefaultPositionIterations)
}

// Step advances the world by dt seconds.
func (w *World) Step(dt float64, velocityIterations, positionIterations int) {
	w.gatherRefs()
	w.findContacts()

	w.integrateForces(dt)

	for i := 0; i < velocityIterations; i++ {
		for c := range w.contacts {
			w.solveVelocity(&w.contacts[c])
		}
	}

	w.integrateVelocities(dt)

	w.correctPositions(positionIterations)
}

func (w *World) gatherRefs() {
	w.refs = w.refs[:0]
	for _, e := range w.order {
		w.refs = append(w.refs, bodyRef{
			entity: e,
			pos:    w.posMap.Get(e),
			vel:    w.velMap.Get(e),
			body:   w.bodyMap.Get(e),
		})
	}
}

func (w *World) integrateForces(dt float64) {
	query := w.dynamics.Query()
	for query.Next() {
		_, vel, body := query.Get()
		if body.Kind != components.Dynamic {
			continue
		}
		vel.Vec = geom.Add(vel.Vec, geom.Scale(dt, w.gravity))
	}
}

func (w *World) integrateVelocities(dt float64) {
	query := w.dynamics.Query()
	for query.Next() {
		pos, vel, body := query.Get()
		if body.Kind != components.Dynamic {
			continue
		}
		pos.Point = pos.Point.Add(geom.Scale(dt, vel.Vec))
	}
}

// correctPositions pushes overlapping bodies apart. Penetration is measured
// again from current positions on every pass; the loop ends early once no
// contact is deeper than Slop.
func (w *World) correctPositions(iterations int) {
	for i := 0; i < iterations; i++ {
		minResidual := 0.0
		for c := range w.contacts {
			if r := w.solvePosition(&w.contacts[c]); r < minResidual {
				minResidual = r
			}
		}
		if minResidual >= 0 {
			return
		}
	}
}
