package telemetry

import (
	"sort"

	"github.com/pthm-cable/rink/components"
)

// PlayerStats tracks per-player statistics over a match.
type PlayerStats struct {
	ID       uint32  `csv:"id" json:"id"`
	Name     string  `csv:"name" json:"name"`
	Team     string  `csv:"team" json:"team"`
	Position string  `csv:"position" json:"position"`
	Strategy string  `csv:"strategy" json:"strategy"`
	Goals    int     `csv:"goals" json:"goals"`
	Shots    int     `csv:"shots" json:"shots"`
	Pickups  int     `csv:"pickups" json:"pickups"`
	Distance float64 `csv:"distance" json:"distance"` // feet skated

	PossessionSec    float64 `csv:"possession_sec" json:"possession_sec"`
	PlansAdopted     int     `csv:"plans_adopted" json:"plans_adopted"`
	PlansCompleted   int     `csv:"plans_completed" json:"plans_completed"`
	PlansDropped     int     `csv:"plans_dropped" json:"plans_dropped"`
	PlanningFailures int     `csv:"planning_failures" json:"planning_failures"`
}

// PlayerTracker manages per-player statistics.
type PlayerTracker struct {
	stats map[uint32]*PlayerStats
}

// NewPlayerTracker creates a new player tracker.
func NewPlayerTracker() *PlayerTracker {
	return &PlayerTracker{
		stats: make(map[uint32]*PlayerStats),
	}
}

// Register creates stats for a player.
func (pt *PlayerTracker) Register(id uint32, name string, role components.Role, strategy string) {
	pt.stats[id] = &PlayerStats{
		ID:       id,
		Name:     name,
		Team:     role.Team.String(),
		Position: role.Code,
		Strategy: strategy,
	}
}

// Get returns the stats for a player, or nil if not found.
func (pt *PlayerTracker) Get(id uint32) *PlayerStats {
	return pt.stats[id]
}

// Record applies an event to the player it names.
func (pt *PlayerTracker) Record(ev Event) {
	s := pt.stats[ev.PlayerID]
	if s == nil {
		return
	}
	switch ev.Type {
	case EventGoal:
		s.Goals++
	case EventShot:
		s.Shots++
	case EventPossession:
		s.Pickups++
	case EventPlanAdopted:
		s.PlansAdopted++
	case EventPlanCompleted:
		s.PlansCompleted++
	case EventPlanDropped:
		s.PlansDropped++
	case EventPlanningFailed:
		s.PlanningFailures++
	}
}

// RecordMotion adds distance skated this tick.
func (pt *PlayerTracker) RecordMotion(id uint32, distance float64) {
	if s := pt.stats[id]; s != nil {
		s.Distance += distance
	}
}

// RecordPossession adds carried time.
func (pt *PlayerTracker) RecordPossession(id uint32, dt float64) {
	if s := pt.stats[id]; s != nil {
		s.PossessionSec += dt
	}
}

// All returns a copy of every player's stats ordered by ID.
func (pt *PlayerTracker) All() []PlayerStats {
	out := make([]PlayerStats, 0, len(pt.stats))
	for _, s := range pt.stats {
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Count returns the number of tracked players.
func (pt *PlayerTracker) Count() int {
	return len(pt.stats)
}
