package ai

import (
	"github.com/pthm-cable/rink/goap"
	"github.com/pthm-cable/rink/htn"
)

// Strategy names a planner implementation.
type Strategy string

const (
	StrategyGOAP Strategy = "goap"
	StrategyHTN  Strategy = "htn"
)

// Planner produces a plan for an agent. Both strategies run behind the same
// controller.
type Planner interface {
	Strategy() Strategy
	Plan(ctx Context) ([]Step, bool)
}

// Sensor reads the current GOAP facts for an agent.
type Sensor interface {
	Sense(ctx Context) goap.State
}

// Behavior pairs a GOAP action with the step that performs it.
type Behavior struct {
	Action *goap.Action
	Step   Step
}

// GOAPPlanner regresses from the most urgent unsatisfied goal it can reach.
type GOAPPlanner struct {
	actions []*goap.Action
	steps   map[*goap.Action]Step
	goals   []goap.Goal
	sensor  Sensor
	search  *goap.Planner
}

// NewGOAPPlanner builds a planner over a catalog of behaviors and goals.
func NewGOAPPlanner(behaviors []Behavior, goals []goap.Goal, sensor Sensor) *GOAPPlanner {
	p := &GOAPPlanner{
		steps:  make(map[*goap.Action]Step, len(behaviors)),
		goals:  goals,
		sensor: sensor,
		search: goap.NewPlanner(),
	}
	for _, b := range behaviors {
		p.actions = append(p.actions, b.Action)
		p.steps[b.Action] = b.Step
	}
	return p
}

func (p *GOAPPlanner) Strategy() Strategy { return StrategyGOAP }

// SetMaxExpansions bounds each search. Zero or less restores the default.
func (p *GOAPPlanner) SetMaxExpansions(n int) { p.search.MaxExpansions = n }

// Goals returns the goals the planner chooses from.
func (p *GOAPPlanner) Goals() []goap.Goal { return p.goals }

// Sense exposes the planner's fact sensor to the controller.
func (p *GOAPPlanner) Sense(ctx Context) goap.State { return p.sensor.Sense(ctx) }

// Plan tries the unsatisfied goals in priority order and returns the plan
// for the first one that has one. Every returned step is Guarded by its
// action's preconditions. An empty plan counts as no plan.
func (p *GOAPPlanner) Plan(ctx Context) ([]Step, bool) {
	current := p.sensor.Sense(ctx)
	for _, goal := range goap.RankGoals(p.goals, current) {
		actions, ok := p.search.FindPlan(p.actions, goal, current)
		if !ok || len(actions) == 0 {
			continue
		}
		steps := make([]Step, len(actions))
		for i, a := range actions {
			steps[i] = Guard(p.steps[a], a.Preconditions)
		}
		return steps, true
	}
	return nil, false
}

// HTNPlanner decomposes a fixed root task.
type HTNPlanner struct {
	root   *htn.Task[Context, Step]
	search *htn.Planner[Context, Step]
}

// NewHTNPlanner builds a planner for root.
func NewHTNPlanner(root *htn.Task[Context, Step]) *HTNPlanner {
	return &HTNPlanner{root: root, search: htn.NewPlanner[Context, Step]()}
}

func (p *HTNPlanner) Strategy() Strategy { return StrategyHTN }

// SetMaxDepth bounds decomposition depth. Zero or less restores the default.
func (p *HTNPlanner) SetMaxDepth(n int) { p.search.MaxDepth = n }

// Root returns the task being decomposed.
func (p *HTNPlanner) Root() *htn.Task[Context, Step] { return p.root }

// Plan decomposes the root task. An empty decomposition counts as no plan.
func (p *HTNPlanner) Plan(ctx Context) ([]Step, bool) {
	steps, ok := p.search.FindPlan(p.root, ctx)
	if !ok || len(steps) == 0 {
		return nil, false
	}
	return steps, true
}
