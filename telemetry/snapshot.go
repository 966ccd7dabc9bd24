package telemetry

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// SnapshotVersion is incremented when the format changes.
const SnapshotVersion = 1

// Snapshot holds the observable match state at one tick.
type Snapshot struct {
	Version int    `json:"version"`
	MatchID string `json:"match_id"`
	Seed    int64  `json:"seed"`

	Tick      int32   `json:"tick"`
	Period    int     `json:"period"`
	Clock     float64 `json:"clock"` // seconds left in the period
	HomeScore int     `json:"home_score"`
	AwayScore int     `json:"away_score"`
	Carrier   string  `json:"carrier,omitempty"`

	Bodies []BodyState `json:"bodies"`

	Highlight *Highlight `json:"highlight,omitempty"`
}

// BodyState holds one body's state.
type BodyState struct {
	ID   uint32 `json:"id"`
	Name string `json:"name"`
	Kind string `json:"kind"`

	// Position and movement
	X  float64 `json:"x"`
	Y  float64 `json:"y"`
	VX float64 `json:"vx"`
	VY float64 `json:"vy"`

	// Players only
	Team     string   `json:"team,omitempty"`
	Position string   `json:"position,omitempty"`
	State    string   `json:"state,omitempty"` // controller state
	Plan     []string `json:"plan,omitempty"`

	Stats *PlayerStats `json:"stats,omitempty"`
}

// SaveSnapshot writes a snapshot to disk.
// Returns the filepath where it was saved.
func SaveSnapshot(snapshot *Snapshot, dir string) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create snapshot dir: %w", err)
	}

	name := fmt.Sprintf("snapshot_%d", snapshot.Tick)
	if snapshot.Highlight != nil {
		sanitized := strings.ReplaceAll(string(snapshot.Highlight.Type), " ", "_")
		name = fmt.Sprintf("snapshot_%d_%s", snapshot.Tick, sanitized)
	}
	name += ".json"

	path := filepath.Join(dir, name)

	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal snapshot: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("write snapshot: %w", err)
	}

	return path, nil
}

// LoadSnapshot reads a snapshot from disk.
func LoadSnapshot(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}

	var snapshot Snapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return nil, fmt.Errorf("unmarshal snapshot: %w", err)
	}
	if snapshot.Version != SnapshotVersion {
		return nil, fmt.Errorf("snapshot version %d, want %d", snapshot.Version, SnapshotVersion)
	}

	return &snapshot, nil
}
