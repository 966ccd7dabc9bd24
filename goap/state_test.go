package goap

import "testing"

func TestStateKeyOrderIndependent(t *testing.T) {
	a := State{"b": true, "a": false, "c": true}
	b := State{"c": true, "a": false, "b": true}
	if a.Key() != b.Key() {
		t.Errorf("keys differ: %q vs %q", a.Key(), b.Key())
	}
	if a.Key() != "a=0,b=1,c=1" {
		t.Errorf("Key = %q", a.Key())
	}
}

func TestStateEqual(t *testing.T) {
	tests := []struct {
		name string
		a, b State
		want bool
	}{
		{"same", State{"x": true}, State{"x": true}, true},
		{"value differs", State{"x": true}, State{"x": false}, false},
		{"extra key", State{"x": true}, State{"x": true, "y": false}, false},
		{"both empty", State{}, State{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Equal(tt.b); got != tt.want {
				t.Errorf("Equal = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSatisfiedByMissingKey(t *testing.T) {
	if (State{"hasPuck": false}).SatisfiedBy(State{}) {
		t.Error("missing key should not satisfy a false requirement")
	}
	if !(State{}).SatisfiedBy(State{"x": true}) {
		t.Error("empty state is always satisfied")
	}
}

func TestRelevantAndRegress(t *testing.T) {
	pickup := &Action{
		Preconditions: State{"isNearPuck": true, "hasPuck": false},
		Effects:       State{"hasPuck": true},
	}

	if !pickup.Relevant(State{"hasPuck": true}) {
		t.Error("pickup should be relevant to hasPuck")
	}
	if pickup.Relevant(State{"hasPuck": false}) {
		t.Error("pickup contradicts hasPuck=false")
	}
	if pickup.Relevant(State{"isNearPuck": true}) {
		t.Error("pickup produces nothing in {isNearPuck}")
	}

	prev, ok := pickup.Regress(State{"hasPuck": true, "rested": true})
	want := State{"isNearPuck": true, "hasPuck": false, "rested": true}
	if !ok || !prev.Equal(want) {
		t.Errorf("Regress = %v, %v; want %v", prev, ok, want)
	}

	if _, ok := pickup.Regress(State{"hasPuck": true, "isNearPuck": false}); ok {
		t.Error("regress should fail when a precondition contradicts an untouched fact")
	}
}

func TestMismatch(t *testing.T) {
	s := State{"hasPuck": true}
	current := State{"hasPuck": false, "isNearPuck": false}
	if got := s.Mismatch(current); got != 2 {
		t.Errorf("Mismatch = %d, want 2", got)
	}
}
