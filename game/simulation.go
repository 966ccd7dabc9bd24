package game

import (
	"github.com/pthm-cable/rink/components"
	"github.com/pthm-cable/rink/geom"
	"github.com/pthm-cable/rink/scene"
	"github.com/pthm-cable/rink/telemetry"
)

// Step advances one tick at the configured rate.
func (m *Match) Step() {
	m.AdvanceTick(m.cfg.Derived.DT)
}

// AdvanceTick runs a single tick: agents in creation order, ice drag, the
// puck following its carrier, the physics step, then goal and clock rules.
// It does nothing once the match is over.
func (m *Match) AdvanceTick(dt float64) {
	if m.over {
		return
	}
	m.perfCollector.StartTick()

	// 1. Agents plan and act
	m.perfCollector.StartPhase(telemetry.PhaseAgents)
	for _, a := range m.agents {
		a.Update(m.scene, dt)
	}

	// 2. Ice drag
	m.perfCollector.StartPhase(telemetry.PhaseDrag)
	m.world.DampVelocities(m.cfg.Physics.IceFriction)

	// 3. Carried puck sticks to its carrier
	m.perfCollector.StartPhase(telemetry.PhaseFollow)
	m.scene.FollowCarrier()

	// 4. Contacts and integration
	m.perfCollector.StartPhase(telemetry.PhasePhysics)
	m.world.Step(dt, m.cfg.Physics.VelocityIterations, m.cfg.Physics.PositionIterations)

	// 5. Possession events, goals, clock
	m.perfCollector.StartPhase(telemetry.PhaseRules)
	m.drainPossession()
	m.recordTick(dt)
	m.checkGoal()
	m.advanceClock(dt)
	m.tick++

	// 6. Stats windows and trace
	m.perfCollector.StartPhase(telemetry.PhaseTelemetry)
	m.writeTrace()
	m.flushTelemetry()

	m.perfCollector.EndTick()
}

// drainPossession turns the scene's acquire and release events into
// telemetry. A release is always a shot.
func (m *Match) drainPossession() {
	for _, ev := range m.scene.DrainEvents() {
		role, _ := m.scene.Role(ev.Player)
		id := ev.Player.ID()
		switch ev.Kind {
		case scene.EventAcquire:
			m.record(telemetry.NewPossessionEvent(m.tick, id, role.Team))
		case scene.EventRelease:
			m.shooter, m.hasShooter = ev.Player, true
			m.record(telemetry.NewShotEvent(m.tick, id, role.Team, ev.Speed))
		}
	}
}

// recordTick updates per-tick counters: contacts, possession time and
// distance skated.
func (m *Match) recordTick(dt float64) {
	carrier, carried := m.scene.Carrier()
	var team components.Team
	if carried {
		role, _ := m.scene.Role(carrier)
		team = role.Team
	}
	m.collector.RecordTick(len(m.world.Contacts()), team, carried)
	if carried {
		m.tracker.RecordPossession(carrier.ID(), dt)
	}
	for _, body := range m.players {
		m.tracker.RecordMotion(body.ID(), geom.Length(m.world.Velocity(body))*dt)
	}
}

// skaterSpeeds samples the speed of every non-goalie player.
func (m *Match) skaterSpeeds() []float64 {
	speeds := make([]float64, 0, len(m.players))
	for _, body := range m.players {
		if role, _ := m.scene.Role(body); role.IsGoalie() {
			continue
		}
		speeds = append(speeds, geom.Length(m.world.Velocity(body)))
	}
	return speeds
}
