package scene

import (
	"math"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/rink/components"
	"github.com/pthm-cable/rink/geom"
	"github.com/pthm-cable/rink/physics"
)

// RinkSpec describes the playing surface.
type RinkSpec struct {
	Width, Height  float64
	CornerRadius   float64
	CornerSegments int     // straight pieces per rounded corner
	GoalLine       float64 // distance of each goal line from its end boards
	GoalMouth      float64 // width of the net opening
	NetInset       float64 // distance of the shooting target from the end boards
	NetDepth       float64 // how far the net reaches behind the goal line; 0 means unbounded
	CreaseRadius   float64
	Restitution    float64
	Friction       float64
}

// Rink is the built playing surface.
type Rink struct {
	RinkSpec
	Boards ecs.Entity
}

// Center returns centre ice.
func (r *Rink) Center() geom.Point {
	return geom.Pt(r.Width/2, r.Height/2)
}

// GoalLineX returns the x coordinate of the goal line a team defends.
// Home defends the left end.
func (r *Rink) GoalLineX(defending components.Team) float64 {
	if defending == components.Home {
		return r.GoalLine
	}
	return r.Width - r.GoalLine
}

// NetMouth returns the centre of the net opening a team defends.
func (r *Rink) NetMouth(defending components.Team) geom.Point {
	return geom.Pt(r.GoalLineX(defending), r.Height/2)
}

// ShotTarget returns the point a team shoots at.
func (r *Rink) ShotTarget(attacking components.Team) geom.Point {
	if attacking == components.Home {
		return geom.Pt(r.Width-r.NetInset, r.Height/2)
	}
	return geom.Pt(r.NetInset, r.Height/2)
}

// CreaseSpot returns where a goalie stands: just in front of the goal line
// it defends, toward centre ice.
func (r *Rink) CreaseSpot(defending components.Team) geom.Point {
	mouth := r.NetMouth(defending)
	return mouth.Add(geom.Scale(creaseStandoff, geom.Normalize(r.Center().Sub(mouth))))
}

const creaseStandoff = 2

// InCrease reports whether p is inside the crease of the defending team.
func (r *Rink) InCrease(defending components.Team, p geom.Point) bool {
	return p.DistanceTo(r.NetMouth(defending)) < r.CreaseRadius
}

// CrossedGoalLine reports which team's net p has entered, if any: past the
// goal line, within the mouth and no deeper than the net.
func (r *Rink) CrossedGoalLine(p geom.Point) (defending components.Team, ok bool) {
	half := r.GoalMouth / 2
	if math.Abs(p.Y-r.Height/2) > half {
		return 0, false
	}
	if d := r.GoalLineX(components.Home) - p.X; d > 0 && r.inNet(d) {
		return components.Home, true
	}
	if d := p.X - r.GoalLineX(components.Away); d > 0 && r.inNet(d) {
		return components.Away, true
	}
	return 0, false
}

func (r *Rink) inNet(depth float64) bool {
	return r.NetDepth <= 0 || depth <= r.NetDepth
}

// Outline returns the closed board outline as a list of points, starting
// and ending at the same vertex.
func (s RinkSpec) Outline() []geom.Point {
	r := math.Min(s.CornerRadius, math.Min(s.Width, s.Height)/2)
	n := s.CornerSegments
	if n < 1 || r <= 0 {
		pts := []geom.Point{geom.Pt(0, 0), geom.Pt(s.Width, 0), geom.Pt(s.Width, s.Height), geom.Pt(0, s.Height)}
		return append(pts, pts[0])
	}

	corners := []struct {
		c     geom.Point
		start float64
	}{
		{geom.Pt(s.Width-r, r), -math.Pi / 2},
		{geom.Pt(s.Width-r, s.Height-r), 0},
		{geom.Pt(r, s.Height-r), math.Pi / 2},
		{geom.Pt(r, r), math.Pi},
	}

	pts := make([]geom.Point, 0, 4*(n+1)+1)
	for _, c := range corners {
		for i := 0; i <= n; i++ {
			a := c.start + float64(i)*(math.Pi/2)/float64(n)
			pts = append(pts, c.c.Add(geom.V(r*math.Cos(a), r*math.Sin(a))))
		}
	}
	return append(pts, pts[0])
}

// BuildRink creates the static boards body.
func BuildRink(w *physics.World, spec RinkSpec) *Rink {
	boards := w.CreateBody(components.Static, geom.Pt(0, 0), "rink")
	pts := spec.Outline()
	for i := 0; i+1 < len(pts); i++ {
		if pts[i] == pts[i+1] {
			continue
		}
		w.AddFixture(boards, components.NewFixture(
			components.Segment(pts[i], pts[i+1]),
			components.DefaultDensity, spec.Friction, spec.Restitution,
		))
	}
	return &Rink{RinkSpec: spec, Boards: boards}
}
