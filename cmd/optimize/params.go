// Package main provides CMA-ES optimization for agent and physics tuning.
package main

import (
	"github.com/pthm-cable/rink/config"
)

// ParamSpec defines a single optimizable parameter.
type ParamSpec struct {
	Name    string  // Human-readable name
	Path    string  // Config path for logging
	Min     float64 // Lower bound
	Max     float64 // Upper bound
	Default float64 // Default value
}

// ParamVector holds the set of all optimizable parameters.
type ParamVector struct {
	Specs []ParamSpec
}

// NewParamVector creates the standard set of optimizable parameters.
func NewParamVector() *ParamVector {
	return &ParamVector{
		Specs: []ParamSpec{
			// Steering
			{Name: "skate_max_speed", Path: "ai.skate.max_speed", Min: 20, Max: 50, Default: 35},
			{Name: "skate_max_force", Path: "ai.skate.max_force", Min: 60, Max: 300, Default: 150},
			{Name: "chase_max_speed", Path: "ai.chase.max_speed", Min: 15, Max: 45, Default: 30},
			// Shooting and sensing
			{Name: "shot_speed", Path: "ai.shot_speed", Min: 60, Max: 180, Default: 120},
			{Name: "near_puck_radius", Path: "ai.near_puck_radius", Min: 3, Max: 10, Default: 5},
			{Name: "shooting_range", Path: "ai.shooting_range", Min: 15, Max: 60, Default: 30},
			{Name: "idle_damping", Path: "ai.idle_damping", Min: 0.8, Max: 1.0, Default: 0.95},
			// Possession and ice
			{Name: "capture_radius", Path: "possession.capture_radius", Min: 2, Max: 5, Default: 3},
			{Name: "ice_friction", Path: "physics.ice_friction", Min: 0.95, Max: 1.0, Default: 0.99},
		},
	}
}

// Dim returns the number of parameters.
func (pv *ParamVector) Dim() int {
	return len(pv.Specs)
}

// DefaultVector returns the default parameter values as a slice.
func (pv *ParamVector) DefaultVector() []float64 {
	v := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		v[i] = spec.Default
	}
	return v
}

// Normalize converts raw parameter values to [0,1] range.
func (pv *ParamVector) Normalize(raw []float64) []float64 {
	normalized := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		normalized[i] = (raw[i] - spec.Min) / (spec.Max - spec.Min)
	}
	return normalized
}

// Denormalize converts [0,1] values back to raw parameter values.
func (pv *ParamVector) Denormalize(normalized []float64) []float64 {
	raw := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		raw[i] = spec.Min + normalized[i]*(spec.Max-spec.Min)
	}
	return raw
}

// Clamp ensures all values are within bounds.
func (pv *ParamVector) Clamp(v []float64) []float64 {
	clamped := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		val := v[i]
		if val < spec.Min {
			val = spec.Min
		}
		if val > spec.Max {
			val = spec.Max
		}
		clamped[i] = val
	}
	return clamped
}

// ApplyToConfig applies parameter values to a Config struct.
// Order must match Specs order.
func (pv *ParamVector) ApplyToConfig(cfg *config.Config, values []float64) {
	clamped := pv.Clamp(values)
	i := 0

	cfg.AI.Skate.MaxSpeed = clamped[i]; i++
	cfg.AI.Skate.MaxForce = clamped[i]; i++
	cfg.AI.Chase.MaxSpeed = clamped[i]; i++
	// Chasing shares the skating force limit.
	cfg.AI.Chase.MaxForce = cfg.AI.Skate.MaxForce

	cfg.AI.ShotSpeed = clamped[i]; i++
	cfg.AI.NearPuckRadius = clamped[i]; i++
	cfg.AI.ShootingRange = clamped[i]; i++
	cfg.AI.IdleDamping = clamped[i]; i++

	cfg.Possession.CaptureRadius = clamped[i]; i++
	cfg.Physics.IceFriction = clamped[i]
}

// ExtractFromConfig extracts current parameter values from a Config struct.
func (pv *ParamVector) ExtractFromConfig(cfg *config.Config) []float64 {
	return []float64{
		cfg.AI.Skate.MaxSpeed,
		cfg.AI.Skate.MaxForce,
		cfg.AI.Chase.MaxSpeed,
		cfg.AI.ShotSpeed,
		cfg.AI.NearPuckRadius,
		cfg.AI.ShootingRange,
		cfg.AI.IdleDamping,
		cfg.Possession.CaptureRadius,
		cfg.Physics.IceFriction,
	}
}
