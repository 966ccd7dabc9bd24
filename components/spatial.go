// Package components defines ECS components for the rink simulation.
package components

import "github.com/pthm-cable/rink/geom"

// Position represents a body's world position.
type Position struct {
	geom.Point
}

// Velocity represents a body's linear velocity in world units per second.
type Velocity struct {
	geom.Vec
}
