package telemetry

import "github.com/pthm-cable/rink/components"

// Collector accumulates events within time windows and produces WindowStats.
type Collector struct {
	windowDurationTicks int32
	dt                  float64
	speedQuantile       float64

	// Current window tracking
	windowStartTick int32

	// Event counters for current window, indexed by team
	goals           [2]int
	shots           [2]int
	possessions     [2]int
	possessionTicks [2]int

	plansAdopted     int
	plansCompleted   int
	plansDropped     int
	planningFailures int
	contacts         int
}

// NewCollector creates a new stats collector.
// windowDurationSec: how long each stats window lasts in game seconds
// dt: seconds per tick
// speedQuantile: which skater speed quantile WindowStats reports
func NewCollector(windowDurationSec, dt, speedQuantile float64) *Collector {
	ticksPerWindow := int32(windowDurationSec / dt)
	if ticksPerWindow < 1 {
		ticksPerWindow = 1
	}
	return &Collector{
		windowDurationTicks: ticksPerWindow,
		dt:                  dt,
		speedQuantile:       speedQuantile,
	}
}

// Record counts an event in the current window.
func (c *Collector) Record(ev Event) {
	switch ev.Type {
	case EventGoal:
		c.goals[ev.Team]++
	case EventShot:
		c.shots[ev.Team]++
	case EventPossession:
		c.possessions[ev.Team]++
	case EventPlanAdopted:
		c.plansAdopted++
	case EventPlanCompleted:
		c.plansCompleted++
	case EventPlanDropped:
		c.plansDropped++
	case EventPlanningFailed:
		c.planningFailures++
	}
}

// RecordTick records per-tick state: contacts solved and which team, if
// any, carried the puck.
func (c *Collector) RecordTick(contacts int, carrierTeam components.Team, carried bool) {
	c.contacts += contacts
	if carried {
		c.possessionTicks[carrierTeam]++
	}
}

// ShouldFlush returns true if enough ticks have passed to flush the window.
func (c *Collector) ShouldFlush(currentTick int32) bool {
	return currentTick-c.windowStartTick >= c.windowDurationTicks
}

// Flush produces a WindowStats and resets counters for the next window.
// skaterSpeeds are sampled at window end; score is the running score.
func (c *Collector) Flush(currentTick int32, skaterSpeeds []float64, score [2]int) WindowStats {
	ticks := currentTick - c.windowStartTick
	var homePoss float64
	if held := c.possessionTicks[0] + c.possessionTicks[1]; held > 0 {
		homePoss = float64(c.possessionTicks[components.Home]) / float64(held)
	}
	var dropRate float64
	if c.plansAdopted > 0 {
		dropRate = float64(c.plansDropped) / float64(c.plansAdopted)
	}

	mean, q := ComputeSpeedStats(skaterSpeeds, c.speedQuantile)

	stats := WindowStats{
		WindowStartTick: c.windowStartTick,
		WindowEndTick:   currentTick,
		GameTimeSec:     float64(currentTick) * c.dt,

		HomeScore: score[components.Home],
		AwayScore: score[components.Away],

		HomeGoals:       c.goals[components.Home],
		AwayGoals:       c.goals[components.Away],
		HomeShots:       c.shots[components.Home],
		AwayShots:       c.shots[components.Away],
		HomePossessions: c.possessions[components.Home],
		AwayPossessions: c.possessions[components.Away],
		HomePossession:  homePoss,

		PlansAdopted:     c.plansAdopted,
		PlansCompleted:   c.plansCompleted,
		PlansDropped:     c.plansDropped,
		PlanningFailures: c.planningFailures,
		PlanDropRate:     dropRate,

		ContactsPerTick: perTick(c.contacts, ticks),

		SkaterSpeedMean:     mean,
		SkaterSpeedQuantile: q,
	}

	// Reset for next window
	c.windowStartTick = currentTick
	c.goals = [2]int{}
	c.shots = [2]int{}
	c.possessions = [2]int{}
	c.possessionTicks = [2]int{}
	c.plansAdopted = 0
	c.plansCompleted = 0
	c.plansDropped = 0
	c.planningFailures = 0
	c.contacts = 0

	return stats
}

func perTick(n int, ticks int32) float64 {
	if ticks <= 0 {
		return 0
	}
	return float64(n) / float64(ticks)
}

// WindowDurationTicks returns the number of ticks per window.
func (c *Collector) WindowDurationTicks() int32 {
	return c.windowDurationTicks
}
