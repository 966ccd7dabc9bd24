package game

import (
	"github.com/pthm-cable/rink/ai"
	"github.com/pthm-cable/rink/components"
	"github.com/pthm-cable/rink/config"
	"github.com/pthm-cable/rink/scene"
)

// Tuning converts the ai section of cfg into operator tuning.
func Tuning(cfg *config.Config) ai.Tuning {
	steering := func(s config.SteeringConfig) ai.SteeringParams {
		return ai.SteeringParams{MaxSpeed: s.MaxSpeed, MaxForce: s.MaxForce, ArrivalRadius: s.ArrivalRadius}
	}
	return ai.Tuning{
		Skate:          steering(cfg.AI.Skate),
		Chase:          steering(cfg.AI.Chase),
		ShotSpeed:      cfg.AI.ShotSpeed,
		IdleDamping:    cfg.AI.IdleDamping,
		NearPuckRadius: cfg.AI.NearPuckRadius,
		ShootingRange:  cfg.AI.ShootingRange,
		PositionRadius: cfg.AI.PositionRadius,
		HoldTicks:      cfg.AI.HoldTicks,
	}
}

// RinkSpec converts rink dimensions from config.
func RinkSpec(c config.RinkConfig) scene.RinkSpec {
	return scene.RinkSpec{
		Width:          c.Width,
		Height:         c.Height,
		CornerRadius:   c.CornerRadius,
		CornerSegments: c.CornerSegments,
		GoalLine:       c.GoalLine,
		GoalMouth:      c.GoalMouth,
		NetInset:       c.NetInset,
		NetDepth:       c.NetDepth,
		CreaseRadius:   c.CreaseRadius,
		Restitution:    c.Restitution,
		Friction:       c.Friction,
	}
}

func fixtureFrom(b config.BodyConfig) components.Fixture {
	return components.NewFixture(components.Circle(b.Radius), b.Density, b.Friction, b.Restitution)
}
