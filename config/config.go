// Package config provides configuration loading and access for the match runner.
package config

import (
	_ "embed"
	"fmt"
	"math"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all match configuration parameters.
type Config struct {
	Match      MatchConfig            `yaml:"match"`
	Physics    PhysicsConfig          `yaml:"physics"`
	Rink       RinkConfig             `yaml:"rink"`
	Player     BodyConfig             `yaml:"player"`
	Puck       BodyConfig             `yaml:"puck"`
	AI         AIConfig               `yaml:"ai"`
	Possession PossessionConfig       `yaml:"possession"`
	Agents     map[string]AgentConfig `yaml:"agents"` // position code -> planner
	Telemetry  TelemetryConfig        `yaml:"telemetry"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// MatchConfig holds clock and faceoff parameters.
type MatchConfig struct {
	Periods       int     `yaml:"periods"`
	PeriodLength  float64 `yaml:"period_length"`  // seconds of game time per period
	TickRate      float64 `yaml:"tick_rate"`      // ticks per second
	Seed          int64   `yaml:"seed"`           // 0 picks a seed from the clock
	FaceoffJitter float64 `yaml:"faceoff_jitter"` // max random offset of the dropped puck
}

// PhysicsConfig holds solver parameters.
type PhysicsConfig struct {
	GravityX           float64 `yaml:"gravity_x"`
	GravityY           float64 `yaml:"gravity_y"`
	VelocityIterations int     `yaml:"velocity_iterations"`
	PositionIterations int     `yaml:"position_iterations"`
	IceFriction        float64 `yaml:"ice_friction"` // velocity factor applied every tick, 1 = none
}

// RinkConfig holds playing surface dimensions in feet.
type RinkConfig struct {
	Width          float64 `yaml:"width"`
	Height         float64 `yaml:"height"`
	CornerRadius   float64 `yaml:"corner_radius"`
	CornerSegments int     `yaml:"corner_segments"`
	GoalLine       float64 `yaml:"goal_line"`
	GoalMouth      float64 `yaml:"goal_mouth"`
	NetInset       float64 `yaml:"net_inset"`
	NetDepth       float64 `yaml:"net_depth"`
	CreaseRadius   float64 `yaml:"crease_radius"`
	Restitution    float64 `yaml:"restitution"`
	Friction       float64 `yaml:"friction"`
}

// BodyConfig holds shape and material for a kind of dynamic body.
type BodyConfig struct {
	Radius      float64 `yaml:"radius"`
	Density     float64 `yaml:"density"`
	Friction    float64 `yaml:"friction"`
	Restitution float64 `yaml:"restitution"`
}

// SteeringConfig holds seek limits.
type SteeringConfig struct {
	MaxSpeed      float64 `yaml:"max_speed"`
	MaxForce      float64 `yaml:"max_force"`
	ArrivalRadius float64 `yaml:"arrival_radius"`
}

// AIConfig holds operator and sensor tuning.
type AIConfig struct {
	Skate          SteeringConfig `yaml:"skate"`
	Chase          SteeringConfig `yaml:"chase"`
	ShotSpeed      float64        `yaml:"shot_speed"`
	IdleDamping    float64        `yaml:"idle_damping"`
	NearPuckRadius float64        `yaml:"near_puck_radius"`
	ShootingRange  float64        `yaml:"shooting_range"`
	PositionRadius float64        `yaml:"position_radius"`
	HoldTicks      int            `yaml:"hold_ticks"`
	MaxExpansions  int            `yaml:"max_expansions"` // GOAP search limit
	MaxDepth       int            `yaml:"max_depth"`      // HTN decomposition limit
}

// PossessionConfig holds puck capture parameters.
type PossessionConfig struct {
	CaptureRadius float64 `yaml:"capture_radius"`
}

// AgentConfig selects the planner for one position.
type AgentConfig struct {
	Strategy string `yaml:"strategy"` // goap or htn
	Task     string `yaml:"task"`     // HTN root task
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	StatsWindow   float64 `yaml:"stats_window"`   // seconds of game time per stats window
	TraceEvery    int     `yaml:"trace_every"`    // ticks between trace records
	PerfWindow    int     `yaml:"perf_window"`    // ticks averaged per perf sample
	LogLevel      string  `yaml:"log_level"`      // debug, info, warn, error
	SpeedQuantile float64 `yaml:"speed_quantile"` // reported skater speed quantile
	CompressLevel string  `yaml:"compress_level"` // fastest, default, better, best
}

// DerivedConfig holds values computed from other config values.
type DerivedConfig struct {
	DT            float64 // 1 / Match.TickRate
	TicksPerGame  int     // Periods * PeriodLength * TickRate
	StatsWindowTk int     // Telemetry.StatsWindow in ticks
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Only overwrites fields present in the file; agents merge per key.
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	cfg.computeDerived()
	return cfg, nil
}

func (c *Config) validate() error {
	if c.Match.TickRate <= 0 {
		return fmt.Errorf("match.tick_rate must be positive, got %v", c.Match.TickRate)
	}
	if c.Match.Periods <= 0 || c.Match.PeriodLength <= 0 {
		return fmt.Errorf("match needs positive periods and period_length")
	}
	if c.Player.Radius <= 0 || c.Puck.Radius <= 0 {
		return fmt.Errorf("player and puck radius must be positive")
	}
	if c.Rink.NetDepth <= 0 || c.Rink.NetDepth > c.Rink.GoalLine {
		return fmt.Errorf("rink.net_depth must be in (0, goal_line], got %v", c.Rink.NetDepth)
	}
	if c.Possession.CaptureRadius <= 0 {
		return fmt.Errorf("possession.capture_radius must be positive")
	}
	for code, a := range c.Agents {
		switch strings.ToLower(a.Strategy) {
		case "goap":
		case "htn":
			if a.Task == "" {
				return fmt.Errorf("agents.%s: htn strategy needs a task", code)
			}
		default:
			return fmt.Errorf("agents.%s: unknown strategy %q", code, a.Strategy)
		}
	}
	return nil
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	c.Derived.DT = 1 / c.Match.TickRate
	c.Derived.TicksPerGame = int(math.Round(float64(c.Match.Periods) * c.Match.PeriodLength * c.Match.TickRate))
	c.Derived.StatsWindowTk = int(math.Round(c.Telemetry.StatsWindow * c.Match.TickRate))
	if c.Derived.StatsWindowTk < 1 {
		c.Derived.StatsWindowTk = 1
	}
	if c.Telemetry.TraceEvery < 1 {
		c.Telemetry.TraceEvery = 1
	}
	if c.Telemetry.PerfWindow < 1 {
		c.Telemetry.PerfWindow = 1
	}
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
