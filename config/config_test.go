package config

import (
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Match.Periods != 3 || cfg.Match.PeriodLength != 1200 {
		t.Errorf("clock = %d x %v, want 3 x 1200", cfg.Match.Periods, cfg.Match.PeriodLength)
	}
	if math.Abs(cfg.Derived.DT-1.0/60) > 1e-12 {
		t.Errorf("DT = %v, want 1/60", cfg.Derived.DT)
	}
	if cfg.Derived.TicksPerGame != 3*1200*60 {
		t.Errorf("TicksPerGame = %d", cfg.Derived.TicksPerGame)
	}
	if cfg.Derived.StatsWindowTk != 3600 {
		t.Errorf("StatsWindowTk = %d, want 3600", cfg.Derived.StatsWindowTk)
	}
	if cfg.Rink.CornerRadius != 28 || cfg.Rink.Restitution != 0.6 {
		t.Errorf("rink = %+v", cfg.Rink)
	}
	if cfg.Puck.Restitution != 0.85 || cfg.Player.Density != 85 {
		t.Errorf("bodies: puck %+v player %+v", cfg.Puck, cfg.Player)
	}
	for _, code := range []string{"C", "LW", "RW", "LD", "RD", "G"} {
		if _, ok := cfg.Agents[code]; !ok {
			t.Errorf("no agent config for %s", code)
		}
	}
}

func TestLoadOverlay(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cfg.yaml")
	overlay := `
match:
  tick_rate: 120
agents:
  C: {strategy: goap}
`
	if err := os.WriteFile(path, []byte(overlay), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Match.TickRate != 120 || cfg.Match.Periods != 3 {
		t.Errorf("match = %+v, want tick rate overridden and periods kept", cfg.Match)
	}
	if math.Abs(cfg.Derived.DT-1.0/120) > 1e-12 {
		t.Errorf("DT = %v", cfg.Derived.DT)
	}
	if cfg.Agents["C"].Strategy != "goap" {
		t.Errorf("C strategy = %q, want goap", cfg.Agents["C"].Strategy)
	}
	if cfg.Agents["G"].Task != "GuardNet" {
		t.Errorf("G task = %q, want default kept", cfg.Agents["G"].Task)
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"bad yaml", "match: [", "parsing config file"},
		{"zero tick rate", "match: {tick_rate: 0}", "tick_rate"},
		{"net deeper than goal line", "rink: {goal_line: 11, net_depth: 12}", "net_depth"},
		{"unknown strategy", "agents: {C: {strategy: utility}}", "unknown strategy"},
		{"htn without task", "agents: {C: {strategy: htn, task: ''}}", "needs a task"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "cfg.yaml")
			if err := os.WriteFile(path, []byte(tt.content), 0o644); err != nil {
				t.Fatal(err)
			}
			_, err := Load(path)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("err = %v, want containing %q", err, tt.want)
			}
		})
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestWriteYAMLRoundTrip(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	cfg.Match.Seed = 42

	path := filepath.Join(t.TempDir(), "out.yaml")
	if err := cfg.WriteYAML(path); err != nil {
		t.Fatalf("WriteYAML: %v", err)
	}
	back, err := Load(path)
	if err != nil {
		t.Fatalf("Load written: %v", err)
	}
	if back.Match.Seed != 42 || back.Derived.TicksPerGame != cfg.Derived.TicksPerGame {
		t.Errorf("round trip lost values: %+v", back.Match)
	}
}

func TestCfgRequiresInit(t *testing.T) {
	global = nil
	defer func() {
		if recover() == nil {
			t.Error("Cfg before Init should panic")
		}
	}()
	Cfg()
}
