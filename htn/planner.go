package htn

// DefaultMaxDepth bounds decomposition depth.
const DefaultMaxDepth = 64

// Planner decomposes tasks depth-first.
type Planner[C, P any] struct {
	MaxDepth int
}

// NewPlanner returns a planner with the default depth limit.
func NewPlanner[C, P any]() *Planner[C, P] {
	return &Planner[C, P]{MaxDepth: DefaultMaxDepth}
}

// FindPlan uses a planner with the default depth limit.
func FindPlan[C, P any](task *Task[C, P], ctx C) ([]P, bool) {
	return NewPlanner[C, P]().FindPlan(task, ctx)
}

// FindPlan decomposes task into an ordered list of operators. Methods are
// tried in order; the first whose condition holds and whose subtasks all
// decompose wins. A branch deeper than MaxDepth fails.
func (p *Planner[C, P]) FindPlan(task *Task[C, P], ctx C) ([]P, bool) {
	if task == nil {
		return nil, false
	}
	maxDepth := p.MaxDepth
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}
	var plan []P
	if !decompose(task, ctx, 0, maxDepth, &plan) {
		return nil, false
	}
	return plan, true
}

func decompose[C, P any](task *Task[C, P], ctx C, depth, maxDepth int, plan *[]P) bool {
	if task.primitive {
		*plan = append(*plan, task.op)
		return true
	}
	if depth >= maxDepth {
		return false
	}

	for i := range task.methods {
		m := &task.methods[i]
		if !m.Applies(ctx) {
			continue
		}
		var sub []P
		ok := true
		for _, st := range m.Subtasks {
			if st == nil || !decompose(st, ctx, depth+1, maxDepth, &sub) {
				ok = false
				break
			}
		}
		if ok {
			*plan = append(*plan, sub...)
			return true
		}
	}
	return false
}
