package ai

import (
	"errors"
	"fmt"

	"github.com/pthm-cable/rink/geom"
)

var (
	ErrMissingKey   = errors.New("blackboard key not set")
	ErrTypeMismatch = errors.New("blackboard value has wrong type")
)

// KeyTargetPosition is where movement operators read their destination.
const KeyTargetPosition = "targetPosition"

// KeyHomePosition holds the agent's faceoff slot.
const KeyHomePosition = "homePosition"

// ValueKind tags the variant held by a Value.
type ValueKind uint8

const (
	KindPoint ValueKind = iota
	KindNumber
	KindBool
	KindText
)

func (k ValueKind) String() string {
	switch k {
	case KindPoint:
		return "point"
	case KindNumber:
		return "number"
	case KindBool:
		return "bool"
	case KindText:
		return "text"
	}
	return "unknown"
}

// Value is a tagged blackboard entry.
type Value struct {
	kind  ValueKind
	point geom.Point
	num   float64
	flag  bool
	text  string
}

func PointValue(p geom.Point) Value { return Value{kind: KindPoint, point: p} }
func NumberValue(n float64) Value   { return Value{kind: KindNumber, num: n} }
func BoolValue(b bool) Value        { return Value{kind: KindBool, flag: b} }
func TextValue(s string) Value      { return Value{kind: KindText, text: s} }

// Kind returns the variant tag.
func (v Value) Kind() ValueKind { return v.kind }

// Blackboard is an agent's private key/value memory.
type Blackboard struct {
	values map[string]Value
}

// NewBlackboard returns an empty blackboard.
func NewBlackboard() *Blackboard {
	return &Blackboard{values: make(map[string]Value)}
}

// Set stores v under key, replacing any previous value of any kind.
func (b *Blackboard) Set(key string, v Value) { b.values[key] = v }

func (b *Blackboard) SetPoint(key string, p geom.Point) { b.Set(key, PointValue(p)) }
func (b *Blackboard) SetNumber(key string, n float64)   { b.Set(key, NumberValue(n)) }
func (b *Blackboard) SetBool(key string, v bool)        { b.Set(key, BoolValue(v)) }
func (b *Blackboard) SetText(key string, s string)      { b.Set(key, TextValue(s)) }

// Get returns the raw value under key.
func (b *Blackboard) Get(key string) (Value, bool) {
	v, ok := b.values[key]
	return v, ok
}

// Delete removes key.
func (b *Blackboard) Delete(key string) { delete(b.values, key) }

// Clear removes every key.
func (b *Blackboard) Clear() {
	for k := range b.values {
		delete(b.values, k)
	}
}

// Len returns the number of keys.
func (b *Blackboard) Len() int { return len(b.values) }

func (b *Blackboard) lookup(key string, want ValueKind) (Value, error) {
	v, ok := b.values[key]
	if !ok {
		return Value{}, fmt.Errorf("%w: %q", ErrMissingKey, key)
	}
	if v.kind != want {
		return Value{}, fmt.Errorf("%w: %q holds %s, want %s", ErrTypeMismatch, key, v.kind, want)
	}
	return v, nil
}

// Point returns the point under key.
func (b *Blackboard) Point(key string) (geom.Point, error) {
	v, err := b.lookup(key, KindPoint)
	return v.point, err
}

// Number returns the number under key.
func (b *Blackboard) Number(key string) (float64, error) {
	v, err := b.lookup(key, KindNumber)
	return v.num, err
}

// Bool returns the bool under key.
func (b *Blackboard) Bool(key string) (bool, error) {
	v, err := b.lookup(key, KindBool)
	return v.flag, err
}

// Text returns the string under key.
func (b *Blackboard) Text(key string) (string, error) {
	v, err := b.lookup(key, KindText)
	return v.text, err
}
