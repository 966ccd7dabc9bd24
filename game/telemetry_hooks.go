package game

import (
	"errors"
	"strings"

	"github.com/pthm-cable/rink/ai"
	"github.com/pthm-cable/rink/components"
	"github.com/pthm-cable/rink/telemetry"
)

// observer forwards agent lifecycle notifications to match telemetry.
type observer struct{ m *Match }

func (o observer) PlanAdopted(a *ai.Agent, steps []ai.Step) {
	o.m.recordPlan(telemetry.EventPlanAdopted, a, strings.Join(ai.StepNames(steps), ","))
}

func (o observer) PlanCompleted(a *ai.Agent) {
	o.m.recordPlan(telemetry.EventPlanCompleted, a, "")
}

func (o observer) PlanDropped(a *ai.Agent, step string, reason ai.DropReason) {
	o.m.recordPlan(telemetry.EventPlanDropped, a, step+":"+reason.String())
}

func (o observer) PlanningFailed(a *ai.Agent) {
	o.m.recordPlan(telemetry.EventPlanningFailed, a, "")
}

func (m *Match) recordPlan(typ telemetry.EventType, a *ai.Agent, detail string) {
	m.record(telemetry.NewPlanEvent(typ, m.tick, a.Body.ID(), a.Team(), detail))
}

// record counts an event in the window, the player's stats and the next
// trace record.
func (m *Match) record(ev telemetry.Event) {
	m.collector.Record(ev)
	m.tracker.Record(ev)
	if m.trace != nil {
		m.pending = append(m.pending, telemetry.TraceEvent{
			Type:   ev.Type.String(),
			Player: ev.PlayerID,
			Detail: ev.Detail,
		})
	}
}

// writeTrace emits a trace record every TraceEvery ticks carrying the
// events seen since the previous one.
func (m *Match) writeTrace() {
	if m.trace == nil || m.tick%int32(m.cfg.Telemetry.TraceEvery) != 0 {
		return
	}

	rec := telemetry.TraceRecord{
		Tick:      m.tick,
		Period:    m.period,
		Clock:     m.clock,
		HomeScore: m.score[components.Home],
		AwayScore: m.score[components.Away],
		Events:    m.pending,
	}
	if carrier, ok := m.scene.Carrier(); ok {
		rec.Carrier = carrier.ID()
	}
	for _, body := range m.world.Bodies() {
		if m.world.Body(body).Kind == components.Static {
			continue
		}
		p, v := m.world.Position(body), m.world.Velocity(body)
		rec.Bodies = append(rec.Bodies, telemetry.TraceBody{ID: body.ID(), X: p.X, Y: p.Y, VX: v.X, VY: v.Y})
	}
	m.pending = nil

	if err := m.trace.Write(rec); err != nil {
		if !errors.Is(err, telemetry.ErrTraceClosed) {
			m.logger.Error("failed to write trace", "error", err)
		}
		m.trace = nil
	}
}

// flushTelemetry checks if the stats window should be flushed and handles highlights.
func (m *Match) flushTelemetry() {
	if !m.collector.ShouldFlush(m.tick) {
		return
	}

	stats := m.collector.Flush(m.tick, m.skaterSpeeds(), m.score)
	perfStats := m.perfCollector.Stats()

	if m.statsCallback != nil {
		m.statsCallback(stats)
	}

	if m.logStats {
		stats.LogStats()
		perfStats.LogStats()
	}

	if err := m.output.WriteTelemetry(stats); err != nil {
		m.logger.Error("failed to write telemetry", "error", err)
	}
	if err := m.output.WritePerf(perfStats, stats.WindowEndTick); err != nil {
		m.logger.Error("failed to write perf", "error", err)
	}

	for _, h := range m.highlights.Check(stats) {
		if m.logStats {
			h.LogHighlight()
		}
		if err := m.output.WriteHighlight(h); err != nil {
			m.logger.Error("failed to write highlight", "error", err)
		}

		snap := m.Snapshot()
		snap.Highlight = &h
		if path, err := m.output.WriteSnapshot(snap); err != nil {
			m.logger.Error("failed to save snapshot", "error", err)
		} else if path != "" {
			m.logger.Info("snapshot saved", "path", path, "tick", m.tick)
		}
	}
}

// Snapshot captures the observable match state.
func (m *Match) Snapshot() *telemetry.Snapshot {
	snap := &telemetry.Snapshot{
		Version:   telemetry.SnapshotVersion,
		MatchID:   m.id.String(),
		Seed:      m.seed,
		Tick:      m.tick,
		Period:    m.period,
		Clock:     m.clock,
		HomeScore: m.score[components.Home],
		AwayScore: m.score[components.Away],
	}
	if carrier, ok := m.scene.Carrier(); ok {
		snap.Carrier = m.world.Body(carrier).Name
	}

	for _, body := range m.world.Bodies() {
		b := m.world.Body(body)
		if b.Kind == components.Static {
			continue
		}
		p, v := m.world.Position(body), m.world.Velocity(body)
		state := telemetry.BodyState{
			ID:   body.ID(),
			Name: b.Name,
			Kind: "puck",
			X:    p.X,
			Y:    p.Y,
			VX:   v.X,
			VY:   v.Y,
		}
		if role, ok := m.scene.Role(body); ok {
			state.Kind = "player"
			state.Team = role.Team.String()
			state.Position = role.Code
			state.Stats = m.tracker.Get(body.ID())
		}
		if a, ok := m.byBody[body]; ok {
			state.State = a.State()
			state.Plan = ai.StepNames(a.Plan())
		}
		snap.Bodies = append(snap.Bodies, state)
	}
	return snap
}
