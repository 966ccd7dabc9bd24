// Package scene holds the shared match state agents read and act on: the
// physics world, the rink, the puck and who carries it.
package scene

import (
	"errors"
	"fmt"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/rink/components"
	"github.com/pthm-cable/rink/geom"
	"github.com/pthm-cable/rink/physics"
)

var (
	ErrPuckOwned  = errors.New("puck already carried")
	ErrOutOfReach = errors.New("puck out of reach")
	ErrNoCarrier  = errors.New("puck not carried")
)

// DefaultCaptureRadius is the centre distance within which a player can
// pick up a loose puck.
const DefaultCaptureRadius = 3.0

// EventKind identifies a possession change.
type EventKind uint8

const (
	EventAcquire EventKind = iota
	EventRelease
)

func (k EventKind) String() string {
	if k == EventAcquire {
		return "acquire"
	}
	return "release"
}

// Event records a possession change for the match driver.
type Event struct {
	Kind   EventKind
	Player ecs.Entity
	Speed  float64 // release speed; zero for acquisitions
}

// Scene is the mutable match state shared by all agents.
type Scene struct {
	world *physics.World
	rink  *Rink

	puck       ecs.Entity
	carrier    ecs.Entity
	hasCarrier bool

	roles *ecs.Map[components.Role]

	captureRadius float64
	events        []Event
}

// New wraps a world that already holds the rink and puck bodies.
func New(w *physics.World, rink *Rink, puck ecs.Entity, captureRadius float64) *Scene {
	if captureRadius <= 0 {
		captureRadius = DefaultCaptureRadius
	}
	return &Scene{
		world:         w,
		rink:          rink,
		puck:          puck,
		roles:         ecs.NewMap[components.Role](w.ECS()),
		captureRadius: captureRadius,
	}
}

// World returns the physics world.
func (s *Scene) World() *physics.World { return s.world }

// Rink returns the rink geometry.
func (s *Scene) Rink() *Rink { return s.rink }

// Puck returns the puck body.
func (s *Scene) Puck() ecs.Entity { return s.puck }

// PuckPosition returns the puck's current position.
func (s *Scene) PuckPosition() geom.Point { return s.world.Position(s.puck) }

// CaptureRadius returns the pickup distance.
func (s *Scene) CaptureRadius() float64 { return s.captureRadius }

// Carrier returns the body carrying the puck, if any.
func (s *Scene) Carrier() (ecs.Entity, bool) {
	return s.carrier, s.hasCarrier
}

// IsCarrier reports whether body carries the puck.
func (s *Scene) IsCarrier(body ecs.Entity) bool {
	return s.hasCarrier && s.carrier == body
}

// SetRole tags body with a team and position.
func (s *Scene) SetRole(body ecs.Entity, role components.Role) {
	if s.roles.Has(body) {
		*s.roles.Get(body) = role
		return
	}
	s.roles.Add(body, &role)
}

// Role returns the role of body, if it has one.
func (s *Scene) Role(body ecs.Entity) (components.Role, bool) {
	if !s.roles.Has(body) {
		return components.Role{}, false
	}
	return *s.roles.Get(body), true
}

// TeamHasPuck reports whether a player of team carries the puck.
func (s *Scene) TeamHasPuck(team components.Team) bool {
	if !s.hasCarrier {
		return false
	}
	r, ok := s.Role(s.carrier)
	return ok && r.Team == team
}

// AttackingNet returns the shot target for the team of body. Bodies
// without a role attack as the home team.
func (s *Scene) AttackingNet(body ecs.Entity) geom.Point {
	r, _ := s.Role(body)
	return s.rink.ShotTarget(r.Team)
}

// DefendingNet returns the mouth of the net the team of body defends.
func (s *Scene) DefendingNet(body ecs.Entity) geom.Point {
	r, _ := s.Role(body)
	return s.rink.NetMouth(r.Team)
}

// Acquire gives the puck to body. It fails if someone already carries it
// or the puck is not within the capture radius.
func (s *Scene) Acquire(body ecs.Entity) error {
	if s.hasCarrier {
		return ErrPuckOwned
	}
	d := s.world.Position(body).DistanceTo(s.PuckPosition())
	if d >= s.captureRadius {
		return fmt.Errorf("%w: %.2f >= %.2f", ErrOutOfReach, d, s.captureRadius)
	}
	s.carrier = body
	s.hasCarrier = true
	s.world.SetCollidable(s.puck, false)
	s.events = append(s.events, Event{Kind: EventAcquire, Player: body})
	return nil
}

// Release frees the puck and sends it toward target at speed. The puck is
// placed just outside the carrier so the two do not start overlapping.
func (s *Scene) Release(target geom.Point, speed float64) error {
	if !s.hasCarrier {
		return ErrNoCarrier
	}
	shooter := s.carrier
	from := s.world.Position(shooter)
	dir := geom.Normalize(target.Sub(from))

	s.hasCarrier = false
	s.world.SetCollidable(s.puck, true)
	s.world.SetPosition(s.puck, from.Add(geom.Scale(s.releaseOffset(shooter), dir)))
	s.world.SetVelocity(s.puck, geom.Scale(speed, dir))
	s.events = append(s.events, Event{Kind: EventRelease, Player: shooter, Speed: speed})
	return nil
}

func (s *Scene) releaseOffset(shooter ecs.Entity) float64 {
	return maxRadius(s.world.Body(shooter)) + maxRadius(s.world.Body(s.puck)) + physics.Slop
}

func maxRadius(b *components.Body) float64 {
	r := 0.0
	for _, f := range b.Fixtures {
		if f.Shape.Radius() > r {
			r = f.Shape.Radius()
		}
	}
	return r
}

// FollowCarrier locks the puck to its carrier.
func (s *Scene) FollowCarrier() {
	if !s.hasCarrier {
		return
	}
	s.world.SetPosition(s.puck, s.world.Position(s.carrier))
	s.world.SetVelocity(s.puck, s.world.Velocity(s.carrier))
}

// ClearCarrier drops possession without moving the puck.
func (s *Scene) ClearCarrier() {
	s.hasCarrier = false
	s.world.SetCollidable(s.puck, true)
}

// DrainEvents returns and clears the possession events recorded so far.
func (s *Scene) DrainEvents() []Event {
	out := s.events
	s.events = nil
	return out
}
