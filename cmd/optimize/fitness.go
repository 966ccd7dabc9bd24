package main

import (
	"io"
	"log/slog"
	"math"
	"sync"

	"gonum.org/v1/gonum/stat"

	"github.com/pthm-cable/rink/config"
	"github.com/pthm-cable/rink/game"
	"github.com/pthm-cable/rink/telemetry"
)

// FitnessEvaluator plays headless matches and computes fitness.
type FitnessEvaluator struct {
	params     *ParamVector
	maxTicks   int32
	seeds      []int64
	baseConfig *config.Config
	logger     *slog.Logger

	mu          sync.Mutex
	bestFitness float64
	bestPlayers []telemetry.PlayerStats // player lines from the best seed of the best evaluation
	lastQuality quality                 // from the most recent Evaluate call
}

// NewFitnessEvaluator creates a new evaluator.
func NewFitnessEvaluator(params *ParamVector, maxTicks int32, seeds []int64, baseCfg *config.Config) *FitnessEvaluator {
	return &FitnessEvaluator{
		params:      params,
		maxTicks:    maxTicks,
		seeds:       seeds,
		baseConfig:  baseCfg,
		logger:      slog.New(slog.NewTextHandler(io.Discard, nil)),
		bestFitness: math.Inf(1),
	}
}

// BestPlayers returns the player lines from the best evaluation.
func (fe *FitnessEvaluator) BestPlayers() []telemetry.PlayerStats {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.bestPlayers
}

// LastQuality returns the quality breakdown from the most recent evaluation.
func (fe *FitnessEvaluator) LastQuality() quality {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.lastQuality
}

// runResult holds the results from a single match.
type runResult struct {
	windowStats []telemetry.WindowStats // collected via StatsCallback each window
	players     []telemetry.PlayerStats
	err         error
}

// Evaluate computes fitness for a parameter vector (lower = better).
// Fitness is the negative mean match quality over all seeds.
func (fe *FitnessEvaluator) Evaluate(x []float64) float64 {
	results := make([]*runResult, len(fe.seeds))
	var wg sync.WaitGroup
	for i, seed := range fe.seeds {
		wg.Add(1)
		go func(idx int, s int64) {
			defer wg.Done()
			results[idx] = fe.runMatch(x, s)
		}(i, seed)
	}
	wg.Wait()

	var total quality
	bestSeed := math.Inf(1)
	var bestSeedPlayers []telemetry.PlayerStats
	for _, r := range results {
		if r.err != nil {
			fe.logger.Error("match failed", "error", r.err)
			continue
		}
		q := computeQuality(r.windowStats)
		total = total.add(q)
		if -q.Total < bestSeed {
			bestSeed = -q.Total
			bestSeedPlayers = r.players
		}
	}
	avg := total.scale(1 / float64(len(fe.seeds)))
	fitness := -avg.Total

	fe.mu.Lock()
	if fitness < fe.bestFitness {
		fe.bestFitness = fitness
		fe.bestPlayers = bestSeedPlayers
	}
	fe.lastQuality = avg
	fe.mu.Unlock()

	return fitness
}

// runMatch plays one headless match up to maxTicks.
func (fe *FitnessEvaluator) runMatch(x []float64, seed int64) *runResult {
	cfg := fe.copyConfig()
	fe.params.ApplyToConfig(cfg, x)

	result := &runResult{}
	m, err := game.NewMatch(cfg, nil, game.Options{
		Seed:   seed,
		Logger: fe.logger,
		StatsCallback: func(stats telemetry.WindowStats) {
			result.windowStats = append(result.windowStats, stats)
		},
	})
	if err != nil {
		result.err = err
		return result
	}

	for !m.Over() && m.Tick() < fe.maxTicks {
		m.Step()
	}
	result.players = m.PlayerStats()
	return result
}

// copyConfig returns a copy of the base config safe to modify per run.
func (fe *FitnessEvaluator) copyConfig() *config.Config {
	cfg := *fe.baseConfig
	cfg.Agents = make(map[string]config.AgentConfig, len(fe.baseConfig.Agents))
	for k, v := range fe.baseConfig.Agents {
		cfg.Agents[k] = v
	}
	return &cfg
}

// Quality component weights.
const (
	qualityWeightShots      = 0.35
	qualityWeightGoals      = 0.20
	qualityWeightBalance    = 0.25
	qualityWeightPlanning   = 0.20
	qualityWarmupWindows    = 1    // skip the opening faceoff
	targetShotsPerWindow    = 1.0  // both teams, per stats window
	targetGoalRate          = 0.08 // goals per shot
	possessionBalanceSpread = 0.2
)

// quality scores how hockey-like a match looked, each part in [0, 1].
type quality struct {
	Shots    float64
	Goals    float64
	Balance  float64
	Planning float64
	Total    float64
}

func (q quality) add(o quality) quality {
	return quality{q.Shots + o.Shots, q.Goals + o.Goals, q.Balance + o.Balance, q.Planning + o.Planning, q.Total + o.Total}
}

func (q quality) scale(f float64) quality {
	return quality{q.Shots * f, q.Goals * f, q.Balance * f, q.Planning * f, q.Total * f}
}

// computeQuality rewards a steady shot rate, a plausible finishing rate,
// even possession and plans that rarely get dropped.
func computeQuality(windows []telemetry.WindowStats) quality {
	if len(windows) <= qualityWarmupWindows {
		return quality{}
	}
	valid := windows[qualityWarmupWindows:]

	shots := make([]float64, len(valid))
	possession := make([]float64, 0, len(valid))
	drops := make([]float64, 0, len(valid))
	var totalShots, totalGoals int
	for i, w := range valid {
		shots[i] = float64(w.Shots())
		totalShots += w.Shots()
		totalGoals += w.Goals()
		if w.HomePossessions+w.AwayPossessions > 0 {
			possession = append(possession, w.HomePossession)
		}
		if w.PlansAdopted > 0 {
			drops = append(drops, w.PlanDropRate)
		}
	}

	var q quality

	// 1. Shot rate near target, steadier is better
	mean, std := stat.MeanStdDev(shots, nil)
	if mean > 0 {
		logErr := math.Log(mean / targetShotsPerWindow)
		q.Shots = math.Exp(-logErr*logErr) * math.Exp(-sq(std/mean)/4)
	}

	// 2. Finishing rate
	if totalShots > 0 {
		rate := float64(totalGoals) / float64(totalShots)
		q.Goals = math.Exp(-sq((rate - targetGoalRate) / targetGoalRate))
	}

	// 3. Possession balance
	if len(possession) > 0 {
		q.Balance = math.Exp(-sq((stat.Mean(possession, nil) - 0.5) / possessionBalanceSpread))
	}

	// 4. Plan stability
	if len(drops) > 0 {
		q.Planning = clamp01(1 - stat.Mean(drops, nil))
	}

	q.Total = clamp01(qualityWeightShots*q.Shots +
		qualityWeightGoals*q.Goals +
		qualityWeightBalance*q.Balance +
		qualityWeightPlanning*q.Planning)
	return q
}

func sq(x float64) float64 { return x * x }

// clamp01 clamps x to [0, 1].
func clamp01(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}
