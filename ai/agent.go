package ai

import (
	"context"
	"log/slog"

	"github.com/looplab/fsm"
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/rink/components"
	"github.com/pthm-cable/rink/geom"
	"github.com/pthm-cable/rink/scene"
)

// Controller states and events.
const (
	StateIdle    = "idle"
	StateRunning = "running"

	eventAdopt    = "adopt"
	eventComplete = "complete"
	eventAbandon  = "abandon"
)

// DropReason says why a plan was abandoned before completion.
type DropReason uint8

const (
	DropStepFailed DropReason = iota
	DropPreconditions
	DropReset
)

func (r DropReason) String() string {
	switch r {
	case DropStepFailed:
		return "step_failed"
	case DropPreconditions:
		return "preconditions"
	case DropReset:
		return "reset"
	}
	return "unknown"
}

// Observer receives controller lifecycle notifications.
type Observer interface {
	PlanAdopted(a *Agent, steps []Step)
	PlanCompleted(a *Agent)
	PlanDropped(a *Agent, step string, reason DropReason)
	PlanningFailed(a *Agent)
}

// NopObserver ignores every notification.
type NopObserver struct{}

func (NopObserver) PlanAdopted(*Agent, []Step)             {}
func (NopObserver) PlanCompleted(*Agent)                   {}
func (NopObserver) PlanDropped(*Agent, string, DropReason) {}
func (NopObserver) PlanningFailed(*Agent)                  {}

// Agent controls one player body.
type Agent struct {
	Body ecs.Entity
	Name string

	role     components.Role
	planner  Planner
	plan     []Step
	board    *Blackboard
	machine  *fsm.FSM
	observer Observer
	logger   *slog.Logger
	damping  float64
}

// AgentOption configures an Agent.
type AgentOption func(*Agent)

// WithObserver sets the lifecycle observer.
func WithObserver(o Observer) AgentOption {
	return func(a *Agent) { a.observer = o }
}

// WithLogger sets the agent's logger.
func WithLogger(l *slog.Logger) AgentOption {
	return func(a *Agent) { a.logger = l }
}

// WithIdleDamping sets the velocity factor applied while the agent has no plan.
func WithIdleDamping(f float64) AgentOption {
	return func(a *Agent) { a.damping = f }
}

// NewAgent creates an idle agent for body.
func NewAgent(body ecs.Entity, name string, role components.Role, planner Planner, opts ...AgentOption) *Agent {
	a := &Agent{
		Body:     body,
		Name:     name,
		role:     role,
		planner:  planner,
		board:    NewBlackboard(),
		observer: NopObserver{},
		logger:   slog.Default(),
		damping:  DefaultTuning().IdleDamping,
	}
	for _, opt := range opts {
		opt(a)
	}

	a.machine = fsm.NewFSM(
		StateIdle,
		fsm.Events{
			{Name: eventAdopt, Src: []string{StateIdle}, Dst: StateRunning},
			{Name: eventComplete, Src: []string{StateRunning}, Dst: StateIdle},
			{Name: eventAbandon, Src: []string{StateRunning}, Dst: StateIdle},
		},
		fsm.Callbacks{
			"enter_" + StateRunning: func(_ context.Context, _ *fsm.Event) {
				a.logger.Info("plan adopted",
					"agent", a.Name,
					"strategy", string(a.planner.Strategy()),
					"steps", StepNames(a.plan),
				)
				a.observer.PlanAdopted(a, a.plan)
			},
		},
	)
	return a
}

// Role returns the agent's team and position.
func (a *Agent) Role() components.Role { return a.role }

// Team returns the agent's team.
func (a *Agent) Team() components.Team { return a.role.Team }

// Planner returns the agent's planner.
func (a *Agent) Planner() Planner { return a.planner }

// Blackboard returns the agent's private memory.
func (a *Agent) Blackboard() *Blackboard { return a.board }

// State returns the controller state, StateIdle or StateRunning.
func (a *Agent) State() string { return a.machine.Current() }

// Plan returns the remaining steps of the current plan.
func (a *Agent) Plan() []Step { return a.plan }

// Update runs one controller tick: plan if idle, then execute the head step.
func (a *Agent) Update(sc *scene.Scene, dt float64) {
	ctx := Context{Agent: a, Scene: sc, DT: dt}

	if a.machine.Is(StateIdle) {
		plan, ok := a.planner.Plan(ctx)
		if !ok {
			a.observer.PlanningFailed(a)
			a.idle(sc)
			return
		}
		a.plan = plan
		a.fire(eventAdopt)
	}

	head := a.plan[0]
	if g, ok := head.(Guarded); ok {
		if sensor, ok := a.planner.(Sensor); ok {
			if !g.Preconditions().SatisfiedBy(sensor.Sense(ctx)) {
				a.drop(head.Name(), DropPreconditions)
				return
			}
		}
	}

	status := head.Execute(ctx)
	if status != Running {
		a.logger.Debug("step finished", "agent", a.Name, "step", head.Name(), "status", status.String())
	}

	switch status {
	case Success:
		a.plan = a.plan[1:]
		if len(a.plan) == 0 {
			a.plan = nil
			a.fire(eventComplete)
			a.observer.PlanCompleted(a)
		}
	case Failure:
		a.drop(head.Name(), DropStepFailed)
	}
}

// Reset abandons any plan and clears the blackboard.
func (a *Agent) Reset() {
	if a.machine.Is(StateRunning) {
		name := ""
		if len(a.plan) > 0 {
			name = a.plan[0].Name()
		}
		a.drop(name, DropReset)
	}
	a.board.Clear()
}

func (a *Agent) drop(step string, reason DropReason) {
	a.plan = nil
	a.fire(eventAbandon)
	a.logger.Debug("plan dropped", "agent", a.Name, "step", step, "reason", reason.String())
	a.observer.PlanDropped(a, step, reason)
}

func (a *Agent) idle(sc *scene.Scene) {
	w := sc.World()
	w.SetVelocity(a.Body, geom.Scale(a.damping, w.Velocity(a.Body)))
}

func (a *Agent) fire(event string) {
	if err := a.machine.Event(context.Background(), event); err != nil {
		a.logger.Warn("controller transition rejected", "agent", a.Name, "event", event, "err", err)
	}
}
