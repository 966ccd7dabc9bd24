package game

import (
	"math/rand"

	"github.com/pthm-cable/rink/geom"
)

// mirror reflects p across the centre line of a rink of the given width.
func mirror(p geom.Point, width float64) geom.Point {
	return geom.Pt(width-p.X, p.Y)
}

// jitter returns an offset with each axis uniform in [-max, max].
func jitter(rng *rand.Rand, max float64) geom.Vec {
	if max <= 0 {
		return geom.Vec{}
	}
	return geom.V((rng.Float64()*2-1)*max, (rng.Float64()*2-1)*max)
}
