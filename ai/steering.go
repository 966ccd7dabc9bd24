package ai

import (
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/rink/geom"
	"github.com/pthm-cable/rink/physics"
)

// SteeringParams bounds a seek.
type SteeringParams struct {
	MaxSpeed      float64 `yaml:"max_speed"`
	MaxForce      float64 `yaml:"max_force"`
	ArrivalRadius float64 `yaml:"arrival_radius"`
}

// Seek accelerates body toward target. Inside the arrival radius the body
// stops and Seek reports Success; otherwise it reports Running. The
// resulting speed never exceeds MaxSpeed.
func Seek(w *physics.World, body ecs.Entity, target geom.Point, p SteeringParams, dt float64) Status {
	pos := w.Position(body)
	toTarget := target.Sub(pos)
	if geom.Length(toTarget) < p.ArrivalRadius {
		w.SetVelocity(body, geom.Vec{})
		return Success
	}

	vel := w.Velocity(body)
	desired := geom.Scale(p.MaxSpeed, geom.Normalize(toTarget))
	steering := geom.ClampLength(geom.Sub(desired, vel), p.MaxForce)

	vel = geom.Add(vel, geom.Scale(dt, steering))
	vel = geom.ClampLength(vel, p.MaxSpeed)
	w.SetVelocity(body, vel)
	return Running
}
