package htn

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	ErrDuplicateTask = errors.New("duplicate task")
	ErrUndefinedTask = errors.New("undefined task")
	ErrCycle         = errors.New("decomposition cycle")
)

// Domain is the set of tasks a group of agents plans with. It is built
// during match setup and handed to planners explicitly.
type Domain[C, P any] struct {
	tasks map[string]*Task[C, P]
	order []string
}

// NewDomain returns an empty domain.
func NewDomain[C, P any]() *Domain[C, P] {
	return &Domain[C, P]{tasks: make(map[string]*Task[C, P])}
}

// Add registers t under its name.
func (d *Domain[C, P]) Add(t *Task[C, P]) error {
	if _, ok := d.tasks[t.name]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateTask, t.name)
	}
	d.tasks[t.name] = t
	d.order = append(d.order, t.name)
	return nil
}

// Task looks up a task by name.
func (d *Domain[C, P]) Task(name string) (*Task[C, P], bool) {
	t, ok := d.tasks[name]
	return t, ok
}

// Names returns task names in registration order.
func (d *Domain[C, P]) Names() []string {
	return append([]string(nil), d.order...)
}

// Validate checks that every subtask is a task registered in d and that no
// compound task can decompose into itself.
func (d *Domain[C, P]) Validate() error {
	for _, name := range d.order {
		t := d.tasks[name]
		for _, m := range t.methods {
			for i, st := range m.Subtasks {
				if st == nil {
					return fmt.Errorf("%w: %s method %q subtask %d is nil", ErrUndefinedTask, name, m.Name, i)
				}
				if reg, ok := d.tasks[st.name]; !ok || reg != st {
					return fmt.Errorf("%w: %s referenced by %s", ErrUndefinedTask, st.name, name)
				}
			}
		}
	}

	const (
		unvisited = iota
		onStack
		done
	)
	mark := make(map[*Task[C, P]]int, len(d.tasks))
	var stack []string

	var visit func(t *Task[C, P]) error
	visit = func(t *Task[C, P]) error {
		switch mark[t] {
		case onStack:
			start := 0
			for i, n := range stack {
				if n == t.name {
					start = i
					break
				}
			}
			path := append(append([]string(nil), stack[start:]...), t.name)
			return fmt.Errorf("%w: %s", ErrCycle, strings.Join(path, " -> "))
		case done:
			return nil
		}
		mark[t] = onStack
		stack = append(stack, t.name)
		for _, m := range t.methods {
			for _, st := range m.Subtasks {
				if err := visit(st); err != nil {
					return err
				}
			}
		}
		stack = stack[:len(stack)-1]
		mark[t] = done
		return nil
	}

	names := append([]string(nil), d.order...)
	sort.Strings(names)
	for _, name := range names {
		if err := visit(d.tasks[name]); err != nil {
			return err
		}
	}
	return nil
}
