// Package ai drives players: the per-agent plan controller, the two planner
// strategies and the operators plans are made of.
package ai

import (
	"github.com/pthm-cable/rink/goap"
	"github.com/pthm-cable/rink/scene"
)

// Status is the result of executing a step for one tick.
type Status uint8

const (
	Running Status = iota
	Success
	Failure
)

func (s Status) String() string {
	switch s {
	case Running:
		return "running"
	case Success:
		return "success"
	case Failure:
		return "failure"
	}
	return "unknown"
}

// Context is what a step or condition sees during one agent update.
type Context struct {
	Agent *Agent
	Scene *scene.Scene
	DT    float64
}

// Step is one executable plan element. Multi-tick steps keep their progress
// on the agent's blackboard, so a Step value can be shared between agents.
type Step interface {
	Name() string
	Execute(ctx Context) Status
}

// Guarded steps carry preconditions that must still hold, against freshly
// sensed facts, before each execution.
type Guarded interface {
	Step
	Preconditions() goap.State
}

// StepFunc adapts a function to Step.
type StepFunc struct {
	Label string
	Fn    func(ctx Context) Status
}

func (s StepFunc) Name() string               { return s.Label }
func (s StepFunc) Execute(ctx Context) Status { return s.Fn(ctx) }

// guardedStep attaches GOAP preconditions to a step.
type guardedStep struct {
	Step
	pre goap.State
}

func (g guardedStep) Preconditions() goap.State { return g.pre }

// Guard wraps step so the controller re-checks pre before running it.
func Guard(step Step, pre goap.State) Guarded {
	return guardedStep{Step: step, pre: pre}
}

// StepNames lists step names, for logging.
func StepNames(steps []Step) []string {
	out := make([]string, len(steps))
	for i, s := range steps {
		out[i] = s.Name()
	}
	return out
}
