package game

import (
	"fmt"

	"github.com/pthm-cable/rink/ai"
	"github.com/pthm-cable/rink/geom"
	"github.com/pthm-cable/rink/telemetry"
)

// checkGoal credits the attacking team when the puck centre is inside a
// net and resets for a faceoff. The goal goes to the last shooter when
// they are on the scoring team. A defender carrying the puck behind its
// own line does not concede.
func (m *Match) checkGoal() {
	defending, ok := m.rink.CrossedGoalLine(m.scene.PuckPosition())
	if !ok {
		return
	}
	scoring := defending.Other()
	if carrier, carried := m.scene.Carrier(); carried {
		if role, _ := m.scene.Role(carrier); role.Team != scoring {
			return
		}
	}
	m.score[scoring]++

	var scorer uint32
	if m.hasShooter {
		if role, _ := m.scene.Role(m.shooter); role.Team == scoring {
			scorer = m.shooter.ID()
		}
	}
	m.record(telemetry.NewGoalEvent(m.tick, scorer, scoring))
	m.logGoal(scoring, scorer)

	m.faceoff()
}

// faceoff returns every player to its lineup slot, clears possession and
// drops the puck near centre ice. Agents lose their plans and memory.
func (m *Match) faceoff() {
	for _, body := range m.players {
		m.world.SetPosition(body, m.slots[body])
		m.world.SetVelocity(body, geom.Vec{})
	}

	m.scene.ClearCarrier()
	puck := m.scene.Puck()
	m.world.SetPosition(puck, m.rink.Center().Add(jitter(m.rng, m.cfg.Match.FaceoffJitter)))
	m.world.SetVelocity(puck, geom.Vec{})
	m.hasShooter = false

	for _, a := range m.agents {
		a.Reset()
		if at, ok := m.slots[a.Body]; ok {
			a.Blackboard().SetPoint(ai.KeyHomePosition, at)
		}
	}
}

// advanceClock runs the period clock. When a period ends the next starts
// with a faceoff; the match ends after the last.
func (m *Match) advanceClock(dt float64) {
	m.clock -= dt
	if m.clock > 1e-9 {
		return
	}
	m.logPeriodEnd()
	if m.period >= m.cfg.Match.Periods {
		m.clock = 0
		m.over = true
		m.logFinal()
		return
	}
	m.period++
	m.clock = m.cfg.Match.PeriodLength
	m.faceoff()
}

// Finish writes end-of-match output: per-player stats and a final
// snapshot. It is safe to call with output disabled.
func (m *Match) Finish() error {
	if err := m.output.WritePlayers(m.tracker.All()); err != nil {
		return err
	}
	if _, err := m.output.WriteSnapshot(m.Snapshot()); err != nil {
		return fmt.Errorf("writing final snapshot: %w", err)
	}
	if m.trace != nil {
		if err := m.trace.Close(); err != nil {
			return fmt.Errorf("closing trace: %w", err)
		}
	}
	return nil
}
