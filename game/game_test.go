package game

import (
	"errors"
	"io"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/rink/ai"
	"github.com/pthm-cable/rink/components"
	"github.com/pthm-cable/rink/config"
	"github.com/pthm-cable/rink/geom"
	"github.com/pthm-cable/rink/telemetry"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg, err := config.Load("")
	if err != nil {
		t.Fatalf("config.Load: %v", err)
	}
	return cfg
}

func newTestMatch(t *testing.T, cfg *config.Config, opts Options) *Match {
	t.Helper()
	if opts.Seed == 0 {
		opts.Seed = 42
	}
	opts.Logger = quietLogger()
	m, err := NewMatch(cfg, nil, opts)
	if err != nil {
		t.Fatalf("NewMatch: %v", err)
	}
	return m
}

func TestNewMatchLineup(t *testing.T) {
	m := newTestMatch(t, testConfig(t), Options{})

	if got := len(m.Players()); got != 12 {
		t.Fatalf("players = %d, want 12", got)
	}
	if got := len(m.Agents()); got != 12 {
		t.Fatalf("agents = %d, want 12", got)
	}

	tests := []struct {
		team     components.Team
		code     string
		want     geom.Point
		strategy ai.Strategy
	}{
		{components.Home, components.Center, geom.Pt(95, 42.5), ai.StrategyHTN},
		{components.Home, components.LeftDefense, geom.Pt(35, 17.5), ai.StrategyGOAP},
		{components.Home, components.Goalie, geom.Pt(13, 42.5), ai.StrategyHTN},
		{components.Away, components.Center, geom.Pt(105, 42.5), ai.StrategyHTN},
		{components.Away, components.RightDefense, geom.Pt(165, 67.5), ai.StrategyGOAP},
		{components.Away, components.Goalie, geom.Pt(187, 42.5), ai.StrategyHTN},
	}
	for _, tt := range tests {
		t.Run(tt.team.String()+"_"+tt.code, func(t *testing.T) {
			var found bool
			for _, body := range m.Players() {
				role, ok := m.Role(body)
				if !ok || role.Team != tt.team || role.Code != tt.code {
					continue
				}
				found = true
				p := m.World().Position(body)
				if p.DistanceTo(tt.want) > 1e-9 {
					t.Errorf("position = %v, want %v", p, tt.want)
				}
				a, ok := m.Agent(body)
				if !ok {
					t.Fatal("no agent")
				}
				if a.Planner().Strategy() != tt.strategy {
					t.Errorf("strategy = %s, want %s", a.Planner().Strategy(), tt.strategy)
				}
				home, err := a.Blackboard().Point(ai.KeyHomePosition)
				if err != nil || home != tt.want {
					t.Errorf("home position = %v (%v), want %v", home, err, tt.want)
				}
			}
			if !found {
				t.Error("role not in lineup")
			}
		})
	}

	if p := m.World().Position(m.Puck()); p != geom.Pt(100, 42.5) {
		t.Errorf("puck at %v, want centre ice", p)
	}
}

func TestNewMatchMissingAgentSpec(t *testing.T) {
	cfg := testConfig(t)
	delete(cfg.Agents, components.Goalie)
	_, err := NewMatch(cfg, nil, Options{Seed: 1, Logger: quietLogger()})
	if !errors.Is(err, ErrNoAgentSpec) {
		t.Errorf("err = %v, want ErrNoAgentSpec", err)
	}
}

func TestCreateAgentErrors(t *testing.T) {
	m := newTestMatch(t, testConfig(t), Options{})

	if _, err := m.CreateAgent(m.Puck(), ai.StrategyGOAP, ""); !errors.Is(err, ErrNoRole) {
		t.Errorf("puck: err = %v, want ErrNoRole", err)
	}
	if _, err := m.CreateAgent(m.Players()[0], ai.StrategyGOAP, ""); !errors.Is(err, ErrHasAgent) {
		t.Errorf("duplicate: err = %v, want ErrHasAgent", err)
	}
}

func TestGoalScoresAndFacesOff(t *testing.T) {
	cfg := testConfig(t)
	cfg.Match.FaceoffJitter = 0.5
	m := newTestMatch(t, cfg, Options{})

	// Drop the puck inside the away net.
	m.World().SetPosition(m.Puck(), geom.Pt(191, 42.5))
	m.Step()

	score := m.Score()
	if score[components.Home] != 1 || score[components.Away] != 0 {
		t.Fatalf("score = %v, want home 1", score)
	}
	if _, carried := m.Carrier(); carried {
		t.Error("puck carried after faceoff")
	}
	puck := m.World().Position(m.Puck())
	if math.Abs(puck.X-100) > 0.5 || math.Abs(puck.Y-42.5) > 0.5 {
		t.Errorf("puck at %v, want within jitter of centre ice", puck)
	}
	for _, body := range m.Players() {
		if got, want := m.World().Position(body), m.slots[body]; got != want {
			t.Errorf("%s at %v, want slot %v", m.World().Body(body).Name, got, want)
		}
	}
	for _, a := range m.Agents() {
		if a.State() != ai.StateIdle {
			t.Errorf("%s state = %s after faceoff", a.Name, a.State())
		}
	}
}

func playerByRole(t *testing.T, m *Match, team components.Team, code string) ecs.Entity {
	t.Helper()
	for _, body := range m.Players() {
		if role, ok := m.Role(body); ok && role.Team == team && role.Code == code {
			return body
		}
	}
	t.Fatalf("no %s %s", team, code)
	return ecs.Entity{}
}

func TestCarriedPuckGoals(t *testing.T) {
	tests := []struct {
		name     string
		team     components.Team
		code     string
		at       geom.Point
		carry    bool
		wantHome int
		wantAway int
	}{
		{"goalie holds behind own line", components.Home, components.Goalie, geom.Pt(9, 42.5), true, 0, 0},
		{"defender carries into own net", components.Away, components.LeftDefense, geom.Pt(191, 42.5), true, 0, 0},
		{"attacker carries into the net", components.Away, components.Center, geom.Pt(9, 42.5), true, 0, 1},
		{"loose puck in the net", components.Home, components.Goalie, geom.Pt(9, 42.5), false, 0, 1},
		{"behind the net", components.Away, components.Center, geom.Pt(5, 42.5), true, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newTestMatch(t, testConfig(t), Options{})
			body := playerByRole(t, m, tt.team, tt.code)
			m.World().SetPosition(body, tt.at)
			m.World().SetPosition(m.Puck(), tt.at)
			if tt.carry {
				if err := m.Scene().Acquire(body); err != nil {
					t.Fatal(err)
				}
			}

			m.checkGoal()

			score := m.Score()
			if score[components.Home] != tt.wantHome || score[components.Away] != tt.wantAway {
				t.Errorf("score = %v, want home %d away %d", score, tt.wantHome, tt.wantAway)
			}
			if carrier, ok := m.Carrier(); tt.carry && tt.wantHome+tt.wantAway == 0 && (!ok || carrier != body) {
				t.Error("carrier lost possession without a goal")
			}
		})
	}
}

func TestClockEndsMatch(t *testing.T) {
	cfg := testConfig(t)
	cfg.Match.Periods = 2
	cfg.Match.PeriodLength = 1
	m := newTestMatch(t, cfg, Options{})

	for i := 0; i < 60; i++ {
		m.Step()
	}
	if m.Period() != 2 || m.Over() {
		t.Fatalf("after one period: period = %d, over = %v", m.Period(), m.Over())
	}
	for i := 0; i < 60; i++ {
		m.Step()
	}
	if !m.Over() {
		t.Fatal("match not over after two periods")
	}

	tick := m.Tick()
	m.Step()
	if m.Tick() != tick {
		t.Error("AdvanceTick ran after the match ended")
	}
}

func TestSameSeedSameMatch(t *testing.T) {
	run := func() []geom.Point {
		m := newTestMatch(t, testConfig(t), Options{Seed: 7})
		for i := 0; i < 300; i++ {
			m.Step()
		}
		var out []geom.Point
		for _, body := range m.Bodies() {
			out = append(out, m.World().Position(body))
		}
		return out
	}

	a, b := run(), run()
	if len(a) != len(b) {
		t.Fatalf("body counts differ: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("body %d: %v vs %v", i, a[i], b[i])
		}
	}
}

func TestSkatersStayOnIce(t *testing.T) {
	m := newTestMatch(t, testConfig(t), Options{})
	for i := 0; i < 1200; i++ {
		m.Step()
	}
	for _, body := range m.Players() {
		p := m.World().Position(body)
		if p.X < 0 || p.X > 200 || p.Y < 0 || p.Y > 85 {
			t.Errorf("%s left the rink: %v", m.World().Body(body).Name, p)
		}
	}
}

func TestMatchWritesTelemetry(t *testing.T) {
	cfg := testConfig(t)
	cfg.Telemetry.StatsWindow = 1
	cfg.Telemetry.TraceEvery = 10

	dir := t.TempDir()
	out, err := telemetry.NewOutputManager(dir)
	if err != nil {
		t.Fatal(err)
	}

	var flushes int
	m := newTestMatch(t, cfg, Options{
		Output:        out,
		Trace:         true,
		StatsCallback: func(telemetry.WindowStats) { flushes++ },
	})
	for i := 0; i < 300; i++ {
		m.Step()
	}
	if err := m.Finish(); err != nil {
		t.Fatalf("Finish: %v", err)
	}
	if err := out.Close(); err != nil {
		t.Fatal(err)
	}

	if flushes != 5 {
		t.Errorf("flushes = %d, want 5", flushes)
	}

	data, err := os.ReadFile(filepath.Join(dir, "telemetry.csv"))
	if err != nil {
		t.Fatal(err)
	}
	if lines := strings.Count(strings.TrimSpace(string(data)), "\n") + 1; lines != 6 {
		t.Errorf("telemetry.csv has %d lines, want header + 5", lines)
	}

	data, err = os.ReadFile(filepath.Join(dir, "players.csv"))
	if err != nil {
		t.Fatal(err)
	}
	if lines := strings.Count(strings.TrimSpace(string(data)), "\n") + 1; lines != 13 {
		t.Errorf("players.csv has %d lines, want header + 12", lines)
	}

	records, err := telemetry.ReadTrace(out.TracePath(m.ID()))
	if err != nil {
		t.Fatalf("ReadTrace: %v", err)
	}
	if len(records) != 30 {
		t.Fatalf("trace records = %d, want 30", len(records))
	}
	if got := len(records[0].Bodies); got != 13 {
		t.Errorf("trace bodies = %d, want 13", got)
	}

	var adopted int
	for _, s := range m.PlayerStats() {
		adopted += s.PlansAdopted
	}
	if adopted == 0 {
		t.Error("no plans adopted in 300 ticks")
	}
}

func TestSnapshot(t *testing.T) {
	m := newTestMatch(t, testConfig(t), Options{})
	m.Step()

	snap := m.Snapshot()
	if snap.MatchID != m.ID() || snap.Seed != 42 || snap.Tick != 1 {
		t.Errorf("header = %+v", snap)
	}
	if len(snap.Bodies) != 13 {
		t.Fatalf("bodies = %d, want 13", len(snap.Bodies))
	}

	var players, pucks int
	for _, b := range snap.Bodies {
		switch b.Kind {
		case "player":
			players++
			if b.Stats == nil || b.Team == "" || b.State == "" {
				t.Errorf("player %s missing fields: %+v", b.Name, b)
			}
		case "puck":
			pucks++
		}
	}
	if players != 12 || pucks != 1 {
		t.Errorf("players = %d, pucks = %d", players, pucks)
	}
}
