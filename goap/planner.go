package goap

import "container/heap"

// DefaultMaxExpansions bounds the number of nodes a single search pops.
const DefaultMaxExpansions = 4096

// Planner searches backward from a goal toward the current state.
type Planner struct {
	MaxExpansions int

	// Reusable data structures (cleared between searches)
	open   nodeHeap
	closed map[string]struct{}
}

// node is a regressed state in the search tree.
type node struct {
	parent *node
	action *Action // action that leads from this node's state toward parent
	state  State
	g, h   float64
	seq    int // insertion order, breaks f ties first-in first-out
	index  int // heap index
}

func (n *node) f() float64 { return n.g + n.h }

// nodeHeap implements heap.Interface for the frontier.
type nodeHeap []*node

func (h nodeHeap) Len() int { return len(h) }
func (h nodeHeap) Less(i, j int) bool {
	fi, fj := h[i].f(), h[j].f()
	if fi != fj {
		return fi < fj
	}
	return h[i].seq < h[j].seq
}
func (h nodeHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].index = i
	h[j].index = j
}

func (h *nodeHeap) Push(x any) {
	n := x.(*node)
	n.index = len(*h)
	*h = append(*h, n)
}

func (h *nodeHeap) Pop() any {
	old := *h
	n := len(old)
	nd := old[n-1]
	old[n-1] = nil
	nd.index = -1
	*h = old[0 : n-1]
	return nd
}

// NewPlanner creates a planner with the default expansion limit.
func NewPlanner() *Planner {
	return &Planner{
		MaxExpansions: DefaultMaxExpansions,
		closed:        make(map[string]struct{}, 64),
	}
}

// FindPlan uses a fresh planner.
func FindPlan(actions []*Action, goal Goal, current State) ([]*Action, bool) {
	return NewPlanner().FindPlan(actions, goal, current)
}

// FindPlan returns the actions, in execution order, that take current to a
// state satisfying goal. An already satisfied goal yields an empty plan and
// true. The second result is false when no plan exists within the
// expansion limit.
func (p *Planner) FindPlan(actions []*Action, goal Goal, current State) ([]*Action, bool) {
	p.open = p.open[:0]
	if p.closed == nil {
		p.closed = make(map[string]struct{}, 64)
	}
	for k := range p.closed {
		delete(p.closed, k)
	}

	seq := 0
	start := &node{state: goal.Desired.Clone(), h: float64(goal.Desired.Mismatch(current)), seq: seq}
	heap.Push(&p.open, start)

	limit := p.MaxExpansions
	if limit <= 0 {
		limit = DefaultMaxExpansions
	}

	for expanded := 0; p.open.Len() > 0 && expanded < limit; expanded++ {
		cur := heap.Pop(&p.open).(*node)

		if cur.state.SatisfiedBy(current) {
			return reconstructPlan(cur), true
		}

		key := cur.state.Key()
		if _, ok := p.closed[key]; ok {
			continue
		}
		p.closed[key] = struct{}{}

		for _, a := range actions {
			if !a.Relevant(cur.state) {
				continue
			}
			prev, ok := a.Regress(cur.state)
			if !ok {
				continue
			}
			if _, ok := p.closed[prev.Key()]; ok {
				continue
			}
			seq++
			heap.Push(&p.open, &node{
				parent: cur,
				action: a,
				state:  prev,
				g:      cur.g + a.Cost,
				h:      float64(prev.Mismatch(current)),
				seq:    seq,
			})
		}
	}
	return nil, false
}

// reconstructPlan walks from the terminal node back to the goal node. The
// terminal node is the earliest state, so the walk is already in
// execution order.
func reconstructPlan(n *node) []*Action {
	plan := []*Action{}
	for ; n.parent != nil; n = n.parent {
		plan = append(plan, n.action)
	}
	return plan
}
