package ai

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/pthm-cable/rink/geom"
	"github.com/pthm-cable/rink/goap"
)

var (
	ErrUnknownOperator  = errors.New("unknown operator")
	ErrUnknownCondition = errors.New("unknown condition")
	ErrBadParams        = errors.New("invalid operator params")
)

// Fact names sensed for GOAP planning.
const (
	FactHasPuck         = "hasPuck"
	FactIsNearPuck      = "isNearPuck"
	FactTeamHasPuck     = "teamHasPuck"
	FactInShootingRange = "inShootingRange"
	FactPuckLoose       = "puckLoose"
	FactInPosition      = "inPosition"
	FactAimed           = "aimed" // targetPosition is the attacking net
)

// Tuning holds the numbers operators and sensors use.
type Tuning struct {
	Skate          SteeringParams `yaml:"skate"`
	Chase          SteeringParams `yaml:"chase"`
	ShotSpeed      float64        `yaml:"shot_speed"`
	IdleDamping    float64        `yaml:"idle_damping"`
	NearPuckRadius float64        `yaml:"near_puck_radius"`
	ShootingRange  float64        `yaml:"shooting_range"`
	PositionRadius float64        `yaml:"position_radius"`
	HoldTicks      int            `yaml:"hold_ticks"`
}

// DefaultTuning returns the stock values.
func DefaultTuning() Tuning {
	return Tuning{
		Skate:          SteeringParams{MaxSpeed: 35, MaxForce: 150, ArrivalRadius: 1.5},
		Chase:          SteeringParams{MaxSpeed: 30, MaxForce: 150, ArrivalRadius: 3.0},
		ShotSpeed:      120,
		IdleDamping:    0.95,
		NearPuckRadius: 5,
		ShootingRange:  30,
		PositionRadius: 3,
		HoldTicks:      30,
	}
}

// OperatorParams configures an operator instance.
type OperatorParams struct {
	Key    string  `yaml:"key,omitempty" json:"key,omitempty"`
	Target string  `yaml:"target,omitempty" json:"target,omitempty"`
	X      float64 `yaml:"x,omitempty" json:"x,omitempty"`
	Y      float64 `yaml:"y,omitempty" json:"y,omitempty"`
	Ticks  int     `yaml:"ticks,omitempty" json:"ticks,omitempty"`
}

// OperatorFactory builds a named step from params.
type OperatorFactory func(name string, p OperatorParams) (Step, error)

// Condition is a method guard evaluated at decomposition time.
type Condition func(ctx Context) bool

// Library maps operator and condition names to code.
type Library struct {
	tuning     Tuning
	operators  map[string]OperatorFactory
	conditions map[string]Condition
}

// NewLibrary builds the stock operator and condition set.
func NewLibrary(t Tuning) *Library {
	l := &Library{
		tuning:     t,
		operators:  make(map[string]OperatorFactory),
		conditions: make(map[string]Condition),
	}

	l.operators["idle"] = l.idle
	l.operators["set_target"] = l.setTarget
	l.operators["skate_to_position"] = l.skateToPosition
	l.operators["chase_puck"] = l.chasePuck
	l.operators["acquire_puck"] = l.acquirePuck
	l.operators["shoot_at_net"] = l.shootAtNet
	l.operators["hold_puck"] = l.holdPuck
	l.operators["skate_to_net"] = l.skateToNet

	l.conditions["always"] = func(Context) bool { return true }
	l.conditions["puck_loose"] = func(ctx Context) bool {
		_, carried := ctx.Scene.Carrier()
		return !carried
	}
	l.conditions["has_puck"] = func(ctx Context) bool {
		return ctx.Scene.IsCarrier(ctx.Agent.Body)
	}
	l.conditions["team_has_puck"] = func(ctx Context) bool {
		return ctx.Scene.TeamHasPuck(ctx.Agent.Team())
	}
	l.conditions["opponent_has_puck"] = func(ctx Context) bool {
		return ctx.Scene.TeamHasPuck(ctx.Agent.Team().Other())
	}
	l.conditions["puck_in_crease"] = func(ctx Context) bool {
		_, carried := ctx.Scene.Carrier()
		return !carried && ctx.Scene.Rink().InCrease(ctx.Agent.Team(), ctx.Scene.PuckPosition())
	}

	return l
}

// Tuning returns the library's tuning values.
func (l *Library) Tuning() Tuning { return l.tuning }

// Register adds or replaces an operator factory.
func (l *Library) Register(kind string, f OperatorFactory) { l.operators[kind] = f }

// RegisterCondition adds or replaces a condition.
func (l *Library) RegisterCondition(name string, c Condition) { l.conditions[name] = c }

// Operator instantiates operator kind as a step called name.
func (l *Library) Operator(kind, name string, p OperatorParams) (Step, error) {
	f, ok := l.operators[kind]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownOperator, kind)
	}
	return f(name, p)
}

// Condition looks up a condition by name.
func (l *Library) Condition(name string) (Condition, error) {
	c, ok := l.conditions[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownCondition, name)
	}
	return c, nil
}

// OperatorKinds returns registered operator kinds, sorted.
func (l *Library) OperatorKinds() []string { return sortedKeys(l.operators) }

// ConditionNames returns registered condition names, sorted.
func (l *Library) ConditionNames() []string { return sortedKeys(l.conditions) }

func sortedKeys[V any](m map[string]V) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Sense reads the GOAP facts for the agent from the scene.
func (l *Library) Sense(ctx Context) goap.State {
	sc := ctx.Scene
	body := ctx.Agent.Body
	pos := sc.World().Position(body)
	_, carried := sc.Carrier()
	inPosition := false
	if home, err := ctx.Agent.Blackboard().Point(KeyHomePosition); err == nil {
		inPosition = pos.DistanceTo(home) < l.tuning.PositionRadius
	}
	aimed := false
	if target, err := ctx.Agent.Blackboard().Point(KeyTargetPosition); err == nil {
		aimed = target == sc.AttackingNet(body)
	}
	return goap.State{
		FactHasPuck:         sc.IsCarrier(body),
		FactIsNearPuck:      pos.DistanceTo(sc.PuckPosition()) < l.tuning.NearPuckRadius,
		FactTeamHasPuck:     sc.TeamHasPuck(ctx.Agent.Team()),
		FactInShootingRange: pos.DistanceTo(sc.AttackingNet(body)) < l.tuning.ShootingRange,
		FactPuckLoose:       !carried,
		FactInPosition:      inPosition,
		FactAimed:           aimed,
	}
}

func (l *Library) idle(name string, _ OperatorParams) (Step, error) {
	return StepFunc{Label: name, Fn: func(ctx Context) Status {
		w := ctx.Scene.World()
		w.SetVelocity(ctx.Agent.Body, geom.Scale(l.tuning.IdleDamping, w.Velocity(ctx.Agent.Body)))
		return Success
	}}, nil
}

func (l *Library) setTarget(name string, p OperatorParams) (Step, error) {
	key := p.Key
	if key == "" {
		key = KeyTargetPosition
	}
	resolve, err := targetResolver(p)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return StepFunc{Label: name, Fn: func(ctx Context) Status {
		ctx.Agent.Blackboard().SetPoint(key, resolve(ctx))
		return Success
	}}, nil
}

func (l *Library) skateToPosition(name string, p OperatorParams) (Step, error) {
	key := p.Key
	if key == "" {
		key = KeyTargetPosition
	}
	return StepFunc{Label: name, Fn: func(ctx Context) Status {
		target, err := ctx.Agent.Blackboard().Point(key)
		if err != nil {
			return Failure
		}
		return Seek(ctx.Scene.World(), ctx.Agent.Body, target, l.tuning.Skate, ctx.DT)
	}}, nil
}

func (l *Library) chasePuck(name string, _ OperatorParams) (Step, error) {
	return StepFunc{Label: name, Fn: func(ctx Context) Status {
		if _, carried := ctx.Scene.Carrier(); carried {
			return Failure
		}
		params := l.tuning.Chase
		// Stop inside the capture radius so the next step can pick up.
		params.ArrivalRadius = math.Min(params.ArrivalRadius, ctx.Scene.CaptureRadius())
		return Seek(ctx.Scene.World(), ctx.Agent.Body, ctx.Scene.PuckPosition(), params, ctx.DT)
	}}, nil
}

func (l *Library) skateToNet(name string, _ OperatorParams) (Step, error) {
	params := l.tuning.Chase
	params.ArrivalRadius = l.tuning.ShootingRange * 0.8
	return StepFunc{Label: name, Fn: func(ctx Context) Status {
		if !ctx.Scene.IsCarrier(ctx.Agent.Body) {
			return Failure
		}
		net := ctx.Scene.AttackingNet(ctx.Agent.Body)
		// A following shoot_at_net aims here.
		ctx.Agent.Blackboard().SetPoint(KeyTargetPosition, net)
		return Seek(ctx.Scene.World(), ctx.Agent.Body, net, params, ctx.DT)
	}}, nil
}

func (l *Library) acquirePuck(name string, _ OperatorParams) (Step, error) {
	return StepFunc{Label: name, Fn: func(ctx Context) Status {
		if err := ctx.Scene.Acquire(ctx.Agent.Body); err != nil {
			ctx.Agent.logger.Debug("acquire failed", "agent", ctx.Agent.Name, "err", err)
			return Failure
		}
		ctx.Agent.logger.Debug("acquired puck", "agent", ctx.Agent.Name)
		return Success
	}}, nil
}

func (l *Library) shootAtNet(name string, p OperatorParams) (Step, error) {
	key := p.Key
	if key == "" {
		key = KeyTargetPosition
	}
	return StepFunc{Label: name, Fn: func(ctx Context) Status {
		if !ctx.Scene.IsCarrier(ctx.Agent.Body) {
			return Failure
		}
		target, err := ctx.Agent.Blackboard().Point(key)
		if err != nil {
			return Failure
		}
		if err := ctx.Scene.Release(target, l.tuning.ShotSpeed); err != nil {
			return Failure
		}
		ctx.Agent.logger.Debug("shot", "agent", ctx.Agent.Name, "x", target.X, "y", target.Y)
		return Success
	}}, nil
}

// holdPuck keeps possession for a number of ticks, counted on the blackboard.
func (l *Library) holdPuck(name string, p OperatorParams) (Step, error) {
	ticks := p.Ticks
	if ticks <= 0 {
		ticks = l.tuning.HoldTicks
	}
	if ticks <= 0 {
		return nil, fmt.Errorf("%w: %s needs ticks > 0", ErrBadParams, name)
	}
	counter := "hold:" + name
	return StepFunc{Label: name, Fn: func(ctx Context) Status {
		bb := ctx.Agent.Blackboard()
		if !ctx.Scene.IsCarrier(ctx.Agent.Body) {
			bb.Delete(counter)
			return Failure
		}
		n, err := bb.Number(counter)
		if err != nil {
			n = 0
		}
		n++
		w := ctx.Scene.World()
		w.SetVelocity(ctx.Agent.Body, geom.Scale(l.tuning.IdleDamping, w.Velocity(ctx.Agent.Body)))
		if int(n) >= ticks {
			bb.Delete(counter)
			return Success
		}
		bb.SetNumber(counter, n)
		return Running
	}}, nil
}
