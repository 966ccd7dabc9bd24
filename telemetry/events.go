// Package telemetry provides match statistics, highlights, snapshots and tick traces.
package telemetry

import "github.com/pthm-cable/rink/components"

// EventType identifies telemetry events.
type EventType uint8

const (
	EventGoal EventType = iota
	EventShot
	EventPossession
	EventPlanAdopted
	EventPlanCompleted
	EventPlanDropped
	EventPlanningFailed
)

var eventNames = [...]string{
	EventGoal:           "goal",
	EventShot:           "shot",
	EventPossession:     "possession",
	EventPlanAdopted:    "plan_adopted",
	EventPlanCompleted:  "plan_completed",
	EventPlanDropped:    "plan_dropped",
	EventPlanningFailed: "planning_failed",
}

func (t EventType) String() string {
	if int(t) < len(eventNames) {
		return eventNames[t]
	}
	return "unknown"
}

// Event represents a single telemetry event.
type Event struct {
	Type     EventType
	Tick     int32
	PlayerID uint32
	Team     components.Team

	// Optional fields depending on event type
	Detail string  // plan steps, drop reason
	Amount float64 // shot speed
}

// NewGoalEvent creates a goal event credited to the scoring team. PlayerID
// is the last player to shoot or carry, if known.
func NewGoalEvent(tick int32, scorerID uint32, team components.Team) Event {
	return Event{Type: EventGoal, Tick: tick, PlayerID: scorerID, Team: team}
}

// NewShotEvent creates a shot event.
func NewShotEvent(tick int32, shooterID uint32, team components.Team, speed float64) Event {
	return Event{Type: EventShot, Tick: tick, PlayerID: shooterID, Team: team, Amount: speed}
}

// NewPossessionEvent creates a puck pickup event.
func NewPossessionEvent(tick int32, playerID uint32, team components.Team) Event {
	return Event{Type: EventPossession, Tick: tick, PlayerID: playerID, Team: team}
}

// NewPlanEvent creates a plan lifecycle event.
func NewPlanEvent(typ EventType, tick int32, playerID uint32, team components.Team, detail string) Event {
	return Event{Type: typ, Tick: tick, PlayerID: playerID, Team: team, Detail: detail}
}
