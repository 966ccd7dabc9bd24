// Package goap implements a regression planner over boolean world facts.
package goap

import (
	"sort"
	"strings"
)

// State is a set of named boolean facts.
type State map[string]bool

// Clone returns an independent copy of s.
func (s State) Clone() State {
	out := make(State, len(s))
	for k, v := range s {
		out[k] = v
	}
	return out
}

// Equal reports whether s and o hold exactly the same keys and values.
func (s State) Equal(o State) bool {
	if len(s) != len(o) {
		return false
	}
	for k, v := range s {
		ov, ok := o[k]
		if !ok || ov != v {
			return false
		}
	}
	return true
}

// Key returns a canonical string for s that does not depend on map order.
func (s State) Key() string {
	keys := s.sortedKeys()
	var b strings.Builder
	for i, k := range keys {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(k)
		if s[k] {
			b.WriteString("=1")
		} else {
			b.WriteString("=0")
		}
	}
	return b.String()
}

func (s State) sortedKeys() []string {
	keys := make([]string, 0, len(s))
	for k := range s {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// SatisfiedBy reports whether every fact in s holds in current.
// A key missing from current counts as unsatisfied.
func (s State) SatisfiedBy(current State) bool {
	for k, v := range s {
		cv, ok := current[k]
		if !ok || cv != v {
			return false
		}
	}
	return true
}

// Apply returns s overlaid with the facts in effects.
func (s State) Apply(effects State) State {
	out := s.Clone()
	for k, v := range effects {
		out[k] = v
	}
	return out
}

// Mismatch counts keys of current whose value differs from, or is missing
// in, s.
func (s State) Mismatch(current State) int {
	n := 0
	for k, v := range current {
		sv, ok := s[k]
		if !ok || sv != v {
			n++
		}
	}
	return n
}

func (s State) String() string {
	return "{" + s.Key() + "}"
}
