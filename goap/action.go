package goap

import "sort"

// Action is a planner operator with preconditions, effects and a cost.
type Action struct {
	Name          string
	Cost          float64
	Preconditions State
	Effects       State
}

// Relevant reports whether a can be the last step toward state: at least one
// effect appears in state and no effect contradicts it.
func (a *Action) Relevant(state State) bool {
	matched := false
	for k, v := range a.Effects {
		sv, ok := state[k]
		if !ok {
			continue
		}
		if sv != v {
			return false
		}
		matched = true
	}
	return matched
}

// Regress returns the state that must hold before a for state to hold
// after it: state minus the effect keys, plus the preconditions. It fails
// when a precondition contradicts a fact that a leaves untouched, since
// that fact could not hold afterwards.
func (a *Action) Regress(state State) (State, bool) {
	out := make(State, len(state)+len(a.Preconditions))
	for k, v := range state {
		if _, ok := a.Effects[k]; ok {
			continue
		}
		out[k] = v
	}
	for k, v := range a.Preconditions {
		if ov, ok := out[k]; ok && ov != v {
			return nil, false
		}
		out[k] = v
	}
	return out, true
}

// Goal is a desired set of facts with a selection priority.
type Goal struct {
	Name     string
	Desired  State
	Priority int
}

// RankGoals returns the goals not already satisfied by current, highest
// priority first. Equal priorities keep their declaration order.
func RankGoals(goals []Goal, current State) []Goal {
	out := make([]Goal, 0, len(goals))
	for _, g := range goals {
		if !g.Desired.SatisfiedBy(current) {
			out = append(out, g)
		}
	}
	sort.SliceStable(out, func(a, b int) bool {
		return out[a].Priority > out[b].Priority
	})
	return out
}

// SelectGoal returns the highest-priority goal not already satisfied by
// current. Ties go to the goal declared first.
func SelectGoal(goals []Goal, current State) (Goal, bool) {
	ranked := RankGoals(goals, current)
	if len(ranked) == 0 {
		return Goal{}, false
	}
	return ranked[0], true
}
