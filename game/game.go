// Package game runs a hockey match: it builds the rink and lineups, owns
// one agent per player and advances everything at a fixed tick rate.
package game

import (
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"github.com/mlange-42/ark/ecs"
	"github.com/oklog/ulid/v2"

	"github.com/pthm-cable/rink/ai"
	"github.com/pthm-cable/rink/components"
	"github.com/pthm-cable/rink/config"
	"github.com/pthm-cable/rink/geom"
	"github.com/pthm-cable/rink/physics"
	"github.com/pthm-cable/rink/playbook"
	"github.com/pthm-cable/rink/scene"
	"github.com/pthm-cable/rink/telemetry"
)

var (
	ErrNoRole      = errors.New("body has no role")
	ErrHasAgent    = errors.New("body already has an agent")
	ErrNoAgentSpec = errors.New("no agent configured for position")
)

// Options configures optional match behavior.
type Options struct {
	Seed     int64 // overrides cfg.Match.Seed when non-zero
	Logger   *slog.Logger
	LogStats bool                     // log window stats and highlights
	Output   *telemetry.OutputManager // nil disables CSV and snapshot output
	Trace    bool                     // write a tick trace into the output directory

	// StatsCallback is called on every stats flush.
	StatsCallback func(stats telemetry.WindowStats)
}

// Match holds the complete state of one game.
type Match struct {
	id     ulid.ULID
	cfg    *config.Config
	seed   int64
	rng    *rand.Rand
	logger *slog.Logger

	world *physics.World
	scene *scene.Scene
	rink  *scene.Rink
	book  *playbook.Playbook

	players []ecs.Entity
	slots   map[ecs.Entity]geom.Point
	agents  []*ai.Agent
	byBody  map[ecs.Entity]*ai.Agent

	tick   int32
	period int
	clock  float64 // seconds left in the period
	score  [2]int
	over   bool

	// last player to shoot, credited if the puck goes in
	shooter    ecs.Entity
	hasShooter bool

	// Telemetry
	collector     *telemetry.Collector
	perfCollector *telemetry.PerfCollector
	tracker       *telemetry.PlayerTracker
	highlights    *telemetry.HighlightDetector
	output        *telemetry.OutputManager
	trace         *telemetry.TraceWriter
	pending       []telemetry.TraceEvent
	logStats      bool
	statsCallback func(stats telemetry.WindowStats)
}

// NewMatch builds the rink, both lineups, the puck and an agent for every
// player. A nil book loads the default playbook with tuning from cfg.
func NewMatch(cfg *config.Config, book *playbook.Playbook, opts Options) (*Match, error) {
	seed := opts.Seed
	if seed == 0 {
		seed = cfg.Match.Seed
	}
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	if book == nil {
		var err error
		book, err = playbook.Default(ai.NewLibrary(Tuning(cfg)))
		if err != nil {
			return nil, fmt.Errorf("loading default playbook: %w", err)
		}
	}

	rng := rand.New(rand.NewSource(seed))
	m := &Match{
		id:     ulid.MustNew(ulid.Now(), rng),
		cfg:    cfg,
		seed:   seed,
		rng:    rng,
		logger: logger,
		book:   book,
		slots:  make(map[ecs.Entity]geom.Point),
		byBody: make(map[ecs.Entity]*ai.Agent),
		period: 1,
		clock:  cfg.Match.PeriodLength,

		collector:     telemetry.NewCollector(cfg.Telemetry.StatsWindow, cfg.Derived.DT, cfg.Telemetry.SpeedQuantile),
		perfCollector: telemetry.NewPerfCollector(cfg.Telemetry.PerfWindow),
		tracker:       telemetry.NewPlayerTracker(),
		highlights:    telemetry.NewHighlightDetector(10),
		output:        opts.Output,
		logStats:      opts.LogStats,
		statsCallback: opts.StatsCallback,
	}
	m.logger = logger.With("match", m.id.String())

	m.world = physics.NewWorld(geom.V(cfg.Physics.GravityX, cfg.Physics.GravityY))
	m.rink = scene.BuildRink(m.world, RinkSpec(cfg.Rink))
	puck := m.world.CreateBody(components.Dynamic, m.rink.Center(), "puck", fixtureFrom(cfg.Puck))
	m.scene = scene.New(m.world, m.rink, puck, cfg.Possession.CaptureRadius)

	if err := m.spawnLineups(); err != nil {
		return nil, err
	}

	if opts.Trace && opts.Output != nil {
		tw, err := telemetry.NewTraceWriter(opts.Output.TracePath(m.id.String()), cfg.Telemetry.CompressLevel)
		if err != nil {
			return nil, err
		}
		m.trace = tw
	}

	m.logger.Info("match created",
		"seed", seed,
		"players", len(m.players),
		"periods", cfg.Match.Periods,
		"period_length", cfg.Match.PeriodLength,
	)
	return m, nil
}

// ID returns the match's unique ID.
func (m *Match) ID() string { return m.id.String() }

// Seed returns the seed the match RNG was created with.
func (m *Match) Seed() int64 { return m.seed }

// Config returns the match configuration.
func (m *Match) Config() *config.Config { return m.cfg }

// World returns the physics world.
func (m *Match) World() *physics.World { return m.world }

// Scene returns the shared match state.
func (m *Match) Scene() *scene.Scene { return m.scene }

// Bodies returns every body in creation order, boards included.
func (m *Match) Bodies() []ecs.Entity { return m.world.Bodies() }

// Players returns the player bodies in creation order.
func (m *Match) Players() []ecs.Entity { return m.players }

// Puck returns the puck body.
func (m *Match) Puck() ecs.Entity { return m.scene.Puck() }

// Carrier returns the puck carrier, if any.
func (m *Match) Carrier() (ecs.Entity, bool) { return m.scene.Carrier() }

// Role returns the team and position of a player body.
func (m *Match) Role(e ecs.Entity) (components.Role, bool) { return m.scene.Role(e) }

// Score returns goals indexed by team.
func (m *Match) Score() [2]int { return m.score }

// Agents returns the agents in update order.
func (m *Match) Agents() []*ai.Agent { return m.agents }

// Agent returns the agent controlling body.
func (m *Match) Agent(body ecs.Entity) (*ai.Agent, bool) {
	a, ok := m.byBody[body]
	return a, ok
}

// Tick returns the number of ticks advanced so far.
func (m *Match) Tick() int32 { return m.tick }

// Period returns the current period, starting at 1.
func (m *Match) Period() int { return m.period }

// Clock returns the seconds left in the current period.
func (m *Match) Clock() float64 { return m.clock }

// Over reports whether the final period has ended.
func (m *Match) Over() bool { return m.over }

// PlayerStats returns per-player statistics ordered by body ID.
func (m *Match) PlayerStats() []telemetry.PlayerStats { return m.tracker.All() }

// Trace returns the tick trace writer, or nil when tracing is off.
func (m *Match) Trace() *telemetry.TraceWriter { return m.trace }
