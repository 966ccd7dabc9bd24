package telemetry

import (
	"log/slog"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// WindowStats holds aggregated statistics for a time window.
type WindowStats struct {
	WindowStartTick int32   `csv:"-"`
	WindowEndTick   int32   `csv:"window_end"`
	GameTimeSec     float64 `csv:"game_time"`

	// Running score at window end
	HomeScore int `csv:"home_score"`
	AwayScore int `csv:"away_score"`

	// Events during window
	HomeGoals       int     `csv:"home_goals"`
	AwayGoals       int     `csv:"away_goals"`
	HomeShots       int     `csv:"home_shots"`
	AwayShots       int     `csv:"away_shots"`
	HomePossessions int     `csv:"home_possessions"`
	AwayPossessions int     `csv:"away_possessions"`
	HomePossession  float64 `csv:"home_possession"` // share of carried ticks

	// Planning
	PlansAdopted     int     `csv:"plans_adopted"`
	PlansCompleted   int     `csv:"plans_completed"`
	PlansDropped     int     `csv:"plans_dropped"`
	PlanningFailures int     `csv:"planning_failures"`
	PlanDropRate     float64 `csv:"plan_drop_rate"`

	// Physics
	ContactsPerTick float64 `csv:"contacts_per_tick"`

	// Skater speed distribution (sampled at window end)
	SkaterSpeedMean     float64 `csv:"speed_mean"`
	SkaterSpeedQuantile float64 `csv:"speed_quantile"`
}

// Shots returns the shots taken by both teams in the window.
func (s WindowStats) Shots() int { return s.HomeShots + s.AwayShots }

// Goals returns the goals scored by both teams in the window.
func (s WindowStats) Goals() int { return s.HomeGoals + s.AwayGoals }

// ComputeSpeedStats returns the mean and the q-th empirical quantile of
// values. Returns zeros for an empty slice.
func ComputeSpeedStats(values []float64, q float64) (mean, quantile float64) {
	if len(values) == 0 {
		return 0, 0
	}
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	mean = stat.Mean(sorted, nil)
	quantile = stat.Quantile(clamp01(q), stat.Empirical, sorted, nil)
	return mean, quantile
}

func clamp01(q float64) float64 {
	if q < 0 {
		return 0
	}
	if q > 1 {
		return 1
	}
	return q
}

// LogValue implements slog.LogValuer for structured logging.
func (s WindowStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("window_start", int(s.WindowStartTick)),
		slog.Int("window_end", int(s.WindowEndTick)),
		slog.Float64("game_time", s.GameTimeSec),
		slog.Int("home_score", s.HomeScore),
		slog.Int("away_score", s.AwayScore),
		slog.Int("home_shots", s.HomeShots),
		slog.Int("away_shots", s.AwayShots),
		slog.Int("home_possessions", s.HomePossessions),
		slog.Int("away_possessions", s.AwayPossessions),
		slog.Float64("home_possession", s.HomePossession),
		slog.Int("plans_adopted", s.PlansAdopted),
		slog.Int("plans_completed", s.PlansCompleted),
		slog.Int("plans_dropped", s.PlansDropped),
		slog.Int("planning_failures", s.PlanningFailures),
		slog.Float64("plan_drop_rate", s.PlanDropRate),
		slog.Float64("contacts_per_tick", s.ContactsPerTick),
		slog.Float64("speed_mean", s.SkaterSpeedMean),
		slog.Float64("speed_quantile", s.SkaterSpeedQuantile),
	)
}

// LogStats logs the window stats using slog.
func (s WindowStats) LogStats() {
	slog.Info("stats", "window", s)
}
