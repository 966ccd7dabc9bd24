// Package htn implements hierarchical task network decomposition.
//
// Tasks are generic over the planning context C that method conditions
// inspect and the operator type P that primitive tasks carry. The planner
// never executes operators; it only orders them.
package htn

// Task is either a primitive carrying an operator or a compound carrying an
// ordered list of methods.
type Task[C, P any] struct {
	name      string
	primitive bool
	op        P
	methods   []Method[C, P]
}

// Method is one way to decompose a compound task. A nil Condition always holds.
type Method[C, P any] struct {
	Name      string
	Condition func(C) bool
	Subtasks  []*Task[C, P]
}

// Applies reports whether the method's condition holds in ctx.
func (m *Method[C, P]) Applies(ctx C) bool {
	return m.Condition == nil || m.Condition(ctx)
}

// Primitive creates a primitive task.
func Primitive[C, P any](name string, op P) *Task[C, P] {
	return &Task[C, P]{name: name, primitive: true, op: op}
}

// Compound creates a compound task. Methods may also be added later with
// AddMethod, which lets mutually referring tasks be built in two passes.
func Compound[C, P any](name string, methods ...Method[C, P]) *Task[C, P] {
	return &Task[C, P]{name: name, methods: methods}
}

// Name returns the task name.
func (t *Task[C, P]) Name() string { return t.name }

// IsPrimitive reports whether t is a primitive task.
func (t *Task[C, P]) IsPrimitive() bool { return t.primitive }

// Operator returns the operator of a primitive task.
func (t *Task[C, P]) Operator() P { return t.op }

// Methods returns the methods of a compound task in priority order.
func (t *Task[C, P]) Methods() []Method[C, P] { return t.methods }

// AddMethod appends a method to a compound task.
func (t *Task[C, P]) AddMethod(m Method[C, P]) {
	if t.primitive {
		panic("htn: AddMethod on primitive task " + t.name)
	}
	t.methods = append(t.methods, m)
}
