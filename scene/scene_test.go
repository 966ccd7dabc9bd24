package scene

import (
	"errors"
	"math"
	"testing"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/rink/components"
	"github.com/pthm-cable/rink/geom"
	"github.com/pthm-cable/rink/physics"
)

func testRink() RinkSpec {
	return RinkSpec{
		Width: 200, Height: 85,
		CornerRadius: 28, CornerSegments: 6,
		GoalLine: 11, GoalMouth: 6, NetInset: 15, NetDepth: 4, CreaseRadius: 6,
		Restitution: 0.6, Friction: 0.3,
	}
}

type fixture struct {
	sc   *Scene
	w    *physics.World
	home ecs.Entity
	away ecs.Entity
	puck ecs.Entity
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	w := physics.NewWorld(geom.Vec{})
	rink := BuildRink(w, testRink())
	player := func(x, y float64) ecs.Entity {
		return w.CreateBody(components.Dynamic, geom.Pt(x, y), "player",
			components.NewFixture(components.Circle(2.5), 85, 0.8, 0.4))
	}
	home := player(98, 42.5)
	away := player(110, 42.5)
	puck := w.CreateBody(components.Dynamic, geom.Pt(100, 42.5), "puck",
		components.NewFixture(components.Circle(0.5), 0.17, 0.05, 0.85))

	sc := New(w, rink, puck, DefaultCaptureRadius)
	sc.SetRole(home, components.Role{Team: components.Home, Code: components.Center})
	sc.SetRole(away, components.Role{Team: components.Away, Code: components.Center})
	return fixture{sc: sc, w: w, home: home, away: away, puck: puck}
}

func TestAcquireExclusive(t *testing.T) {
	f := newFixture(t)

	if err := f.sc.Acquire(f.home); err != nil {
		t.Fatalf("Acquire: %v", err)
	}
	if c, ok := f.sc.Carrier(); !ok || c != f.home {
		t.Fatalf("carrier = %v, %v; want home", c, ok)
	}

	// Move the away player onto the puck; ownership must not transfer.
	f.w.SetPosition(f.away, f.sc.PuckPosition())
	if err := f.sc.Acquire(f.away); !errors.Is(err, ErrPuckOwned) {
		t.Errorf("second Acquire = %v, want ErrPuckOwned", err)
	}
	if err := f.sc.Acquire(f.home); !errors.Is(err, ErrPuckOwned) {
		t.Errorf("carrier re-Acquire = %v, want ErrPuckOwned", err)
	}
	if !f.sc.IsCarrier(f.home) || f.sc.IsCarrier(f.away) {
		t.Error("carrier changed after rejected acquisitions")
	}
	if !f.sc.TeamHasPuck(components.Home) || f.sc.TeamHasPuck(components.Away) {
		t.Error("TeamHasPuck disagrees with carrier")
	}
}

func TestAcquireOutOfReach(t *testing.T) {
	f := newFixture(t)
	if err := f.sc.Acquire(f.away); !errors.Is(err, ErrOutOfReach) {
		t.Fatalf("Acquire from 10 away = %v, want ErrOutOfReach", err)
	}
	if _, ok := f.sc.Carrier(); ok {
		t.Error("failed acquisition set a carrier")
	}
}

func TestAcquireDisablesPuckCollisions(t *testing.T) {
	f := newFixture(t)
	if err := f.sc.Acquire(f.home); err != nil {
		t.Fatal(err)
	}
	if !f.w.Body(f.puck).NoCollide {
		t.Error("carried puck should not collide")
	}

	f.sc.FollowCarrier()
	f.w.StepDefault(1.0 / 60)
	for _, c := range f.w.Contacts() {
		if c.A == f.puck || c.B == f.puck {
			t.Errorf("contact generated for carried puck")
		}
	}
}

func TestFollowCarrier(t *testing.T) {
	f := newFixture(t)
	if err := f.sc.Acquire(f.home); err != nil {
		t.Fatal(err)
	}
	f.w.SetPosition(f.home, geom.Pt(50, 20))
	f.w.SetVelocity(f.home, geom.V(3, -4))

	f.sc.FollowCarrier()

	if p := f.sc.PuckPosition(); p != geom.Pt(50, 20) {
		t.Errorf("puck position = %v, want carrier position", p)
	}
	if v := f.w.Velocity(f.puck); v != geom.V(3, -4) {
		t.Errorf("puck velocity = %v, want carrier velocity", v)
	}
}

func TestReleaseShoots(t *testing.T) {
	f := newFixture(t)
	if err := f.sc.Acquire(f.home); err != nil {
		t.Fatal(err)
	}
	f.sc.FollowCarrier()

	target := f.sc.AttackingNet(f.home)
	if target != geom.Pt(185, 42.5) {
		t.Errorf("home attacking net = %v, want (185, 42.5)", target)
	}
	if err := f.sc.Release(target, 120); err != nil {
		t.Fatalf("Release: %v", err)
	}

	if _, ok := f.sc.Carrier(); ok {
		t.Error("carrier still set after release")
	}
	if f.w.Body(f.puck).NoCollide {
		t.Error("released puck should collide again")
	}
	v := f.w.Velocity(f.puck)
	if math.Abs(geom.Length(v)-120) > 1e-9 || v.X <= 0 || math.Abs(v.Y) > 1e-9 {
		t.Errorf("shot velocity = %v, want 120 toward +x", v)
	}
	if d := f.sc.PuckPosition().DistanceTo(f.w.Position(f.home)); d < 3 {
		t.Errorf("released puck overlaps shooter: distance %v", d)
	}

	if err := f.sc.Release(target, 120); !errors.Is(err, ErrNoCarrier) {
		t.Errorf("Release without carrier = %v, want ErrNoCarrier", err)
	}
}

func TestDrainEvents(t *testing.T) {
	f := newFixture(t)
	_ = f.sc.Acquire(f.home)
	_ = f.sc.Release(geom.Pt(0, 0), 50)

	ev := f.sc.DrainEvents()
	if len(ev) != 2 || ev[0].Kind != EventAcquire || ev[1].Kind != EventRelease {
		t.Fatalf("events = %+v", ev)
	}
	if ev[1].Player != f.home || ev[1].Speed != 50 {
		t.Errorf("release event = %+v", ev[1])
	}
	if len(f.sc.DrainEvents()) != 0 {
		t.Error("events not cleared")
	}
}

func TestRoles(t *testing.T) {
	f := newFixture(t)
	r, ok := f.sc.Role(f.away)
	if !ok || r.Team != components.Away {
		t.Fatalf("away role = %+v, %v", r, ok)
	}
	if _, ok := f.sc.Role(f.puck); ok {
		t.Error("puck should have no role")
	}

	f.sc.SetRole(f.away, components.Role{Team: components.Away, Code: components.Goalie})
	if r, _ := f.sc.Role(f.away); !r.IsGoalie() {
		t.Errorf("role not updated: %+v", r)
	}
	if got := f.sc.DefendingNet(f.away); got != geom.Pt(189, 42.5) {
		t.Errorf("away defending net = %v", got)
	}
}

func TestRinkOutline(t *testing.T) {
	spec := testRink()
	pts := spec.Outline()
	if pts[0] != pts[len(pts)-1] {
		t.Fatal("outline not closed")
	}
	for _, p := range pts {
		if p.X < -1e-9 || p.X > spec.Width+1e-9 || p.Y < -1e-9 || p.Y > spec.Height+1e-9 {
			t.Errorf("outline point %v outside rink bounds", p)
		}
	}
	// Rounded corners cut the rectangle's corners.
	for _, p := range pts {
		if p.DistanceTo(geom.Pt(0, 0)) < 1 {
			t.Errorf("corner point %v not rounded", p)
		}
	}
}

func TestCrossedGoalLine(t *testing.T) {
	f := newFixture(t)
	r := f.sc.Rink()
	tests := []struct {
		name string
		p    geom.Point
		team components.Team
		ok   bool
	}{
		{"center ice", geom.Pt(100, 42.5), 0, false},
		{"home net", geom.Pt(10, 42.5), components.Home, true},
		{"away net", geom.Pt(190, 44), components.Away, true},
		{"wide of the post", geom.Pt(5, 50), 0, false},
		{"on the goal line", geom.Pt(11, 42.5), 0, false},
		{"behind the net", geom.Pt(6, 42.5), 0, false},
		{"back of the away net", geom.Pt(193, 42.5), components.Away, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			team, ok := r.CrossedGoalLine(tt.p)
			if ok != tt.ok || (ok && team != tt.team) {
				t.Errorf("CrossedGoalLine(%v) = %v, %v", tt.p, team, ok)
			}
		})
	}
}

func TestBoardsContainPuck(t *testing.T) {
	f := newFixture(t)
	f.w.SetPosition(f.puck, geom.Pt(100, 80))
	f.w.SetVelocity(f.puck, geom.V(0, 20))

	for i := 0; i < 120; i++ {
		f.w.StepDefault(1.0 / 60)
	}
	if p := f.sc.PuckPosition(); p.Y > 85 || p.Y < 0 {
		t.Errorf("puck escaped the boards: %v", p)
	}
}
