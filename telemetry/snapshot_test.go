package telemetry

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestSnapshotSaveLoad(t *testing.T) {
	tmpDir := t.TempDir()

	snapshot := &Snapshot{
		Version:   SnapshotVersion,
		MatchID:   "01J0000000000000000000TEST",
		Seed:      42,
		Tick:      1000,
		Period:    2,
		Clock:     812.5,
		HomeScore: 1,
		Carrier:   "home_C",
		Bodies: []BodyState{
			{
				ID: 3, Name: "home_C", Kind: "dynamic",
				X: 150, Y: 40, VX: 12.5, VY: -0.3,
				Team: "home", Position: "C", State: "running",
				Plan:  []string{"TargetOpponentNet", "ShootAtNet"},
				Stats: &PlayerStats{ID: 3, Name: "home_C", Shots: 4, Goals: 1},
			},
			{ID: 15, Name: "puck", Kind: "dynamic", X: 151, Y: 40},
		},
		Highlight: &Highlight{Type: HighlightLeadChange, Tick: 1000, Description: "test"},
	}

	path, err := SaveSnapshot(snapshot, tmpDir)
	if err != nil {
		t.Fatalf("SaveSnapshot failed: %v", err)
	}
	if !strings.HasSuffix(path, "snapshot_1000_lead_change.json") {
		t.Errorf("path = %s", path)
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("Snapshot file not created at %s", path)
	}

	loaded, err := LoadSnapshot(path)
	if err != nil {
		t.Fatalf("LoadSnapshot failed: %v", err)
	}

	if loaded.MatchID != snapshot.MatchID || loaded.Tick != 1000 || loaded.Period != 2 || loaded.Carrier != "home_C" {
		t.Errorf("header = %+v", loaded)
	}
	if len(loaded.Bodies) != 2 {
		t.Fatalf("bodies = %d, want 2", len(loaded.Bodies))
	}
	c := loaded.Bodies[0]
	if c.X != 150 || c.VX != 12.5 || len(c.Plan) != 2 || c.Stats == nil || c.Stats.Goals != 1 {
		t.Errorf("home_C = %+v", c)
	}
	if loaded.Bodies[1].Stats != nil || loaded.Bodies[1].Team != "" {
		t.Errorf("puck carries player fields: %+v", loaded.Bodies[1])
	}
}

func TestLoadSnapshotErrors(t *testing.T) {
	dir := t.TempDir()

	if _, err := LoadSnapshot(filepath.Join(dir, "nope.json")); err == nil {
		t.Error("expected error for missing file")
	}

	bad := filepath.Join(dir, "bad.json")
	if err := os.WriteFile(bad, []byte("{"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadSnapshot(bad); err == nil {
		t.Error("expected error for invalid JSON")
	}

	old := filepath.Join(dir, "old.json")
	if err := os.WriteFile(old, []byte(`{"version": 99}`), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadSnapshot(old); err == nil {
		t.Error("expected error for unknown version")
	}
}
