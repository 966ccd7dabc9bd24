package htn

import (
	"errors"
	"strings"
	"testing"
)

type world struct {
	puckLoose bool
	hasPuck   bool
}

type op string

func buildScoreDomain(t *testing.T) (*Domain[world, op], *Task[world, op]) {
	t.Helper()
	d := NewDomain[world, op]()

	target := Primitive[world, op]("TargetPuck", "target_puck")
	skate := Primitive[world, op]("SkateToPosition", "skate")
	acquire := Primitive[world, op]("AcquirePuck", "acquire")
	aim := Primitive[world, op]("TargetOpponentNet", "target_net")
	shoot := Primitive[world, op]("ShootAtNet", "shoot")

	getPuck := Compound("GetPuck",
		Method[world, op]{
			Name:      "already_have_it",
			Condition: func(w world) bool { return w.hasPuck },
		},
		Method[world, op]{
			Name:      "chase",
			Condition: func(w world) bool { return w.puckLoose },
			Subtasks:  []*Task[world, op]{target, skate, acquire},
		},
	)
	score := Compound("ScoreGoal", Method[world, op]{
		Name:     "get_and_shoot",
		Subtasks: []*Task[world, op]{getPuck, aim, shoot},
	})

	for _, task := range []*Task[world, op]{target, skate, acquire, aim, shoot, getPuck, score} {
		if err := d.Add(task); err != nil {
			t.Fatal(err)
		}
	}
	return d, score
}

func TestFindPlanDecomposes(t *testing.T) {
	d, score := buildScoreDomain(t)
	if err := d.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}

	tests := []struct {
		name string
		ctx  world
		want []op
		ok   bool
	}{
		{"loose puck", world{puckLoose: true}, []op{"target_puck", "skate", "acquire", "target_net", "shoot"}, true},
		{"carrying", world{hasPuck: true}, []op{"target_net", "shoot"}, true},
		{"opponent has it", world{}, nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plan, ok := FindPlan(score, tt.ctx)
			if ok != tt.ok {
				t.Fatalf("ok = %v, want %v", ok, tt.ok)
			}
			if strings.Join(toStrings(plan), ",") != strings.Join(toStrings(tt.want), ",") {
				t.Errorf("plan = %v, want %v", plan, tt.want)
			}
		})
	}
}

func toStrings(ops []op) []string {
	out := make([]string, len(ops))
	for i, o := range ops {
		out[i] = string(o)
	}
	return out
}

func TestFailedMethodFallsThrough(t *testing.T) {
	broken := Compound[world, op]("Broken") // no methods, always fails
	fallback := Primitive[world, op]("Fallback", "fallback")
	root := Compound("Root",
		Method[world, op]{Name: "first", Subtasks: []*Task[world, op]{Primitive[world, op]("A", "a"), broken}},
		Method[world, op]{Name: "second", Subtasks: []*Task[world, op]{fallback}},
	)

	plan, ok := FindPlan(root, world{})
	if !ok {
		t.Fatal("expected fallback method to succeed")
	}
	if len(plan) != 1 || plan[0] != "fallback" {
		t.Errorf("plan = %v, want [fallback]; partial output of the failed method must be discarded", plan)
	}
}

func TestConditionEvaluatedOncePerMethod(t *testing.T) {
	calls := 0
	root := Compound("Root", Method[world, op]{
		Condition: func(world) bool { calls++; return true },
		Subtasks:  []*Task[world, op]{Primitive[world, op]("A", "a"), Primitive[world, op]("B", "b")},
	})
	if _, ok := FindPlan(root, world{}); !ok {
		t.Fatal("expected plan")
	}
	if calls != 1 {
		t.Errorf("condition called %d times, want 1", calls)
	}
}

func TestCyclicTaskTerminates(t *testing.T) {
	loop := Compound[world, op]("Loop")
	loop.AddMethod(Method[world, op]{Name: "again", Subtasks: []*Task[world, op]{loop}})

	p := NewPlanner[world, op]()
	p.MaxDepth = 16
	if _, ok := p.FindPlan(loop, world{}); ok {
		t.Error("cyclic task should fail, not produce a plan")
	}
}

func TestValidateDetectsCycle(t *testing.T) {
	d := NewDomain[world, op]()
	a := Compound[world, op]("A")
	b := Compound[world, op]("B")
	a.AddMethod(Method[world, op]{Subtasks: []*Task[world, op]{b}})
	b.AddMethod(Method[world, op]{Subtasks: []*Task[world, op]{a}})
	_ = d.Add(a)
	_ = d.Add(b)

	err := d.Validate()
	if !errors.Is(err, ErrCycle) {
		t.Fatalf("Validate = %v, want ErrCycle", err)
	}
	if !strings.Contains(err.Error(), "A -> B -> A") {
		t.Errorf("cycle path missing from %q", err)
	}
}

func TestValidateDetectsUndefined(t *testing.T) {
	d := NewDomain[world, op]()
	stray := Primitive[world, op]("Stray", "stray")
	root := Compound("Root", Method[world, op]{Subtasks: []*Task[world, op]{stray}})
	_ = d.Add(root)

	if err := d.Validate(); !errors.Is(err, ErrUndefinedTask) {
		t.Errorf("Validate = %v, want ErrUndefinedTask", err)
	}
}

func TestDomainAddDuplicate(t *testing.T) {
	d := NewDomain[world, op]()
	if err := d.Add(Primitive[world, op]("X", "x")); err != nil {
		t.Fatal(err)
	}
	if err := d.Add(Primitive[world, op]("X", "y")); !errors.Is(err, ErrDuplicateTask) {
		t.Errorf("Add duplicate = %v, want ErrDuplicateTask", err)
	}
	if task, ok := d.Task("X"); !ok || task.Operator() != "x" {
		t.Errorf("first registration should win")
	}
}
